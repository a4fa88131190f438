package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/davmoren/espiritu/internal/config"
	"github.com/davmoren/espiritu/internal/conversation"
	"github.com/davmoren/espiritu/internal/history"
	"github.com/davmoren/espiritu/internal/observability"
	"github.com/davmoren/espiritu/internal/room"
	"github.com/davmoren/espiritu/internal/session"
	"github.com/davmoren/espiritu/internal/spirit"
)

type Server struct {
	cfg      config.Config
	sessions *session.Manager
	svc      *conversation.Service
	catalog  *spirit.Catalog
	turns    history.Store
	rooms    *room.Manager
	metrics  *observability.Metrics
	latency  *observability.LatencyWindow
	upgrader websocket.Upgrader
}

func New(cfg config.Config, sessions *session.Manager, svc *conversation.Service, catalog *spirit.Catalog, turns history.Store, rooms *room.Manager, metrics *observability.Metrics, latency *observability.LatencyWindow) *Server {
	return &Server{
		cfg:      cfg,
		sessions: sessions,
		svc:      svc,
		catalog:  catalog,
		turns:    turns,
		rooms:    rooms,
		metrics:  metrics,
		latency:  latency,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Default: only allow browser websocket connections from the same
				// origin, so other websites cannot drive a séance if the service
				// is ever exposed beyond localhost.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/sessions", s.handleCreateSession)
	r.Post("/v1/sessions/{token}/messages", s.handleSendMessage)
	r.Get("/v1/sessions/{token}/history", s.handleSessionHistory)
	r.Post("/v1/sessions/{token}/end", s.handleEndSession)

	r.Get("/v1/spirits", s.handleListSpirits)
	r.Get("/v1/engines", s.handleListEngines)
	r.Get("/v1/engines/latency", s.handleEngineLatency)
	r.Post("/v1/oracle", s.handleOracle)

	r.Post("/v1/rooms", s.handleCreateRoom)
	r.Get("/v1/rooms/ws", s.handleRoomWS)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "ready",
		"active_sessions": s.sessions.ActiveCount(),
		"open_rooms":      s.rooms.RoomCount(),
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
