package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/davmoren/espiritu/internal/ai"
	"github.com/davmoren/espiritu/internal/config"
	"github.com/davmoren/espiritu/internal/conversation"
	"github.com/davmoren/espiritu/internal/fallback"
	"github.com/davmoren/espiritu/internal/history"
	"github.com/davmoren/espiritu/internal/observability"
	"github.com/davmoren/espiritu/internal/protocol"
	"github.com/davmoren/espiritu/internal/room"
	"github.com/davmoren/espiritu/internal/session"
	"github.com/davmoren/espiritu/internal/spirit"
)

var metricsSeq int

func newTestServer(t *testing.T) *Server {
	t.Helper()
	metricsSeq++
	cfg := config.Config{
		SessionInactivityTimeout: 2 * time.Minute,
		HistoryWindow:            10,
		Language:                 "es",
	}
	// No providers: replies come from templates or the static store, which
	// keeps handler tests hermetic.
	orch := ai.NewOrchestrator(nil, "", nil)
	static := fallback.NewResponder(fallback.NewInMemoryStore(fallback.SeedRecords()))
	svc := conversation.NewService(orch, conversation.NewContextBuilder(0, 0, 0), static, conversation.NewRepeatTracker(3, true), "es")

	metrics := observability.NewMetrics(fmt.Sprintf("test_httpapi_%d", metricsSeq))
	latency := observability.NewLatencyWindow(64)
	sessions := session.NewManager(cfg.SessionInactivityTimeout)
	rooms := room.NewManager(svc, 0, time.Hour)

	return New(cfg, sessions, svc, spirit.DefaultCatalog(), history.NewInMemoryStore(), rooms, metrics, latency)
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, _ := json.Marshal(body)
	res, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s error = %v", url, err)
	}
	return res
}

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	defer res.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestSessionLifecycle(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Router())
	defer ts.Close()

	res := postJSON(t, ts.URL+"/v1/sessions", map[string]string{"spirit_id": "morgana"})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", res.StatusCode, http.StatusCreated)
	}
	created := decodeBody(t, res)
	token, _ := created["token"].(string)
	if token == "" {
		t.Fatalf("missing token in create response: %+v", created)
	}
	if created["welcome"] == "" {
		t.Fatal("create response missing welcome message")
	}

	res = postJSON(t, ts.URL+"/v1/sessions/"+token+"/messages", map[string]string{"text": "¿Encontraré el amor?"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("message status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	msg := decodeBody(t, res)
	if msg["reply"] == "" {
		t.Fatalf("empty reply: %+v", msg)
	}
	if msg["provider_id"] != ai.FallbackProviderID {
		t.Fatalf("provider_id = %v, want %q with no providers", msg["provider_id"], ai.FallbackProviderID)
	}

	histRes, err := http.Get(ts.URL + "/v1/sessions/" + token + "/history")
	if err != nil {
		t.Fatalf("history request error = %v", err)
	}
	hist := decodeBody(t, histRes)
	turns, _ := hist["turns"].([]any)
	if len(turns) != 2 {
		t.Fatalf("history turns = %d, want 2 (user + spirit)", len(turns))
	}

	res = postJSON(t, ts.URL+"/v1/sessions/"+token+"/end", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("end status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	ended := decodeBody(t, res)
	if ended["farewell"] == "" {
		t.Fatal("end response missing farewell")
	}

	// Ended sessions stop accepting messages.
	res = postJSON(t, ts.URL+"/v1/sessions/"+token+"/messages", map[string]string{"text": "hola"})
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("message after end status = %d, want %d", res.StatusCode, http.StatusNotFound)
	}
	res.Body.Close()
}

func TestSendMessageValidation(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Router())
	defer ts.Close()

	res := postJSON(t, ts.URL+"/v1/sessions/nope/messages", map[string]string{"text": "hola"})
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown session status = %d, want 404", res.StatusCode)
	}
	res.Body.Close()

	created := decodeBody(t, postJSON(t, ts.URL+"/v1/sessions", map[string]string{"spirit_id": "puck"}))
	token := created["token"].(string)

	res = postJSON(t, ts.URL+"/v1/sessions/"+token+"/messages", map[string]string{"text": "   "})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("blank text status = %d, want 400", res.StatusCode)
	}
	res.Body.Close()
}

func TestCreateSessionUnknownSpirit(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Router())
	defer ts.Close()

	res := postJSON(t, ts.URL+"/v1/sessions", map[string]string{"spirit_id": "casper"})
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.StatusCode)
	}
	res.Body.Close()
}

func TestListSpiritsAndEngines(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Router())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/v1/spirits")
	if err != nil {
		t.Fatalf("GET /v1/spirits error = %v", err)
	}
	body := decodeBody(t, res)
	spirits, _ := body["spirits"].([]any)
	if len(spirits) != 4 {
		t.Fatalf("spirits = %d, want 4", len(spirits))
	}

	res, err = http.Get(ts.URL + "/v1/engines")
	if err != nil {
		t.Fatalf("GET /v1/engines error = %v", err)
	}
	engines := decodeBody(t, res)
	if _, ok := engines["engines"]; !ok {
		t.Fatalf("missing engines key: %+v", engines)
	}
}

func TestOracle(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Router())
	defer ts.Close()

	res := postJSON(t, ts.URL+"/v1/oracle", map[string]string{"question": "¿Debo viajar?"})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("oracle status = %d, want 200", res.StatusCode)
	}
	body := decodeBody(t, res)
	if body["answer"] == "" {
		t.Fatalf("empty oracle answer: %+v", body)
	}

	res = postJSON(t, ts.URL+"/v1/oracle", map[string]string{"question": ""})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty question status = %d, want 400", res.StatusCode)
	}
	res.Body.Close()
}

func TestHealthAndReady(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Router())
	defer ts.Close()

	for _, path := range []string{"/healthz", "/readyz", "/v1/engines/latency"} {
		res, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s error = %v", path, err)
		}
		if res.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", path, res.StatusCode)
		}
		res.Body.Close()
	}
}

func TestRoomWebsocketFlow(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	created := decodeBody(t, postJSON(t, ts.URL+"/v1/rooms", map[string]string{"spirit_id": "lilith"}))
	code, _ := created["code"].(string)
	if code == "" {
		t.Fatalf("missing room code: %+v", created)
	}

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/rooms/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial error = %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(protocol.ClientJoin{Type: protocol.TypeClientJoin, RoomCode: code, DisplayName: "Ana"}); err != nil {
		t.Fatalf("write join: %v", err)
	}

	var state protocol.RoomState
	if err := conn.ReadJSON(&state); err != nil {
		t.Fatalf("read room_state: %v", err)
	}
	if state.Type != protocol.TypeRoomState || state.SpiritID != "lilith" {
		t.Fatalf("unexpected room state: %+v", state)
	}

	if err := conn.WriteJSON(protocol.ClientQuestion{Type: protocol.TypeClientQuestion, Text: "¿Hay alguien ahí?"}); err != nil {
		t.Fatalf("write question: %v", err)
	}

	var echo protocol.QuestionEcho
	if err := conn.ReadJSON(&echo); err != nil {
		t.Fatalf("read question_echo: %v", err)
	}
	if echo.Type != protocol.TypeQuestionEcho || echo.DisplayName != "Ana" {
		t.Fatalf("unexpected echo: %+v", echo)
	}

	var reply protocol.SpiritReply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read spirit_reply: %v", err)
	}
	if reply.Type != protocol.TypeSpiritReply || reply.Text == "" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestRoomWebsocketRejectsUnknownRoom(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/rooms/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial error = %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(protocol.ClientJoin{Type: protocol.TypeClientJoin, RoomCode: "NOPE42", DisplayName: "Ana"}); err != nil {
		t.Fatalf("write join: %v", err)
	}

	var errEvent protocol.ErrorEvent
	if err := conn.ReadJSON(&errEvent); err != nil {
		t.Fatalf("read error_event: %v", err)
	}
	if errEvent.Code != "room_not_found" {
		t.Fatalf("code = %q, want room_not_found", errEvent.Code)
	}
}
