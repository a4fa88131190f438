package httpapi

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/davmoren/espiritu/internal/conversation"
	"github.com/davmoren/espiritu/internal/history"
	"github.com/davmoren/espiritu/internal/session"
	"github.com/davmoren/espiritu/internal/spirit"
)

type createSessionRequest struct {
	SpiritID string `json:"spirit_id"`
	Language string `json:"language"`
}

type createSessionResponse struct {
	Token           string         `json:"token"`
	SpiritID        string         `json:"spirit_id"`
	SpiritName      string         `json:"spirit_name"`
	Status          session.Status `json:"status"`
	Welcome         string         `json:"welcome"`
	StartedAt       time.Time      `json:"started_at"`
	InactivityTTLMS int64          `json:"inactivity_ttl_ms"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Language) == "" {
		req.Language = s.cfg.Language
	}

	sp, err := s.resolveSpirit(req.SpiritID)
	if err != nil {
		respondError(w, http.StatusNotFound, "spirit_not_found", err.Error())
		return
	}

	sess := s.sessions.Create(sp.ID, req.Language)
	s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
	s.metrics.SessionEvents.WithLabelValues("created").Inc()

	respondJSON(w, http.StatusCreated, createSessionResponse{
		Token:           sess.Token,
		SpiritID:        sp.ID,
		SpiritName:      sp.Name,
		Status:          sess.Status,
		Welcome:         s.svc.WelcomeMessage(sp),
		StartedAt:       sess.StartedAt,
		InactivityTTLMS: s.cfg.SessionInactivityTimeout.Milliseconds(),
	})
}

type sendMessageRequest struct {
	Text   string `json:"text"`
	Engine string `json:"engine"`
}

type sendMessageResponse struct {
	Reply         string `json:"reply"`
	ProviderID    string `json:"provider_id"`
	ModelID       string `json:"model_id,omitempty"`
	Annoyed       bool   `json:"annoyed,omitempty"`
	QuestionCount int    `json:"question_count"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "empty_message", "text is required")
		return
	}

	sess, err := s.sessions.RecordQuestion(token)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}

	sp, err := s.resolveSpirit(sess.SpiritID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "spirit_not_found", err.Error())
		return
	}

	recent, err := s.turns.Recent(r.Context(), token, s.cfg.HistoryWindow)
	if err != nil {
		// A broken history store degrades to a memoryless spirit rather than
		// an error response.
		log.Printf("httpapi: load history for %s: %v", token, err)
		recent = nil
	}
	turnHistory := make([]conversation.Turn, 0, len(recent))
	for _, rec := range recent {
		turnHistory = append(turnHistory, conversation.Turn{Role: rec.Role, Content: rec.Content})
	}

	reply := s.svc.GenerateReplyWithEngine(r.Context(), sp, token, turnHistory, req.Text, req.Engine)

	if err := s.turns.SaveTurn(r.Context(), history.TurnRecord{
		SessionID: token,
		Role:      "user",
		Content:   req.Text,
	}); err != nil {
		log.Printf("httpapi: save user turn for %s: %v", token, err)
	}
	if err := s.turns.SaveTurn(r.Context(), history.TurnRecord{
		SessionID:  token,
		Role:       "spirit",
		Content:    reply.Text,
		ProviderID: reply.ProviderID,
		ModelID:    reply.ModelID,
		Annoyed:    reply.Annoyed,
	}); err != nil {
		log.Printf("httpapi: save spirit turn for %s: %v", token, err)
	}

	respondJSON(w, http.StatusOK, sendMessageResponse{
		Reply:         reply.Text,
		ProviderID:    reply.ProviderID,
		ModelID:       reply.ModelID,
		Annoyed:       reply.Annoyed,
		QuestionCount: sess.QuestionCount,
	})
}

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if _, err := s.sessions.Get(token); err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}

	records, err := s.turns.Recent(r.Context(), token, 200)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "history_unavailable", err.Error())
		return
	}
	if records == nil {
		records = []history.TurnRecord{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"turns": records,
	})
}

type endSessionResponse struct {
	Token    string         `json:"token"`
	Status   session.Status `json:"status"`
	Farewell string         `json:"farewell"`
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	sess, err := s.sessions.End(token)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	s.svc.EndSession(token)
	s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
	s.metrics.SessionEvents.WithLabelValues("ended").Inc()

	farewell := ""
	if sp, err := s.resolveSpirit(sess.SpiritID); err == nil {
		farewell = s.svc.FarewellMessage(sp)
	}
	respondJSON(w, http.StatusOK, endSessionResponse{
		Token:    sess.Token,
		Status:   sess.Status,
		Farewell: farewell,
	})
}

// resolveSpirit maps an optional spirit id to a catalog entry, defaulting to
// the first seeded spirit.
func (s *Server) resolveSpirit(id string) (spirit.Spirit, error) {
	if strings.TrimSpace(id) == "" {
		all := s.catalog.All()
		if len(all) == 0 {
			return spirit.Spirit{}, spirit.ErrNotFound
		}
		return all[0], nil
	}
	return s.catalog.ByID(id)
}
