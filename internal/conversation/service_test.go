package conversation

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/davmoren/espiritu/internal/ai"
	"github.com/davmoren/espiritu/internal/fallback"
	"github.com/davmoren/espiritu/internal/spirit"
)

func newTestService(orch *ai.Orchestrator, static *fallback.Responder) *Service {
	return NewService(orch, NewContextBuilder(0, 0, 0), static, NewRepeatTracker(3, true), "es")
}

// Two real HTTP backends: the first one rate-limits every request, the second
// answers. The reply must carry the second provider's id and the cleaned text.
func TestGenerateReplyFallsThroughRateLimitedProvider(t *testing.T) {
	limited := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit exceeded","type":"rate_limit"}}`))
	}))
	defer limited.Close()

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" Las estrellas indican un camino. "}}]}`))
	}))
	defer healthy.Close()

	orch := ai.NewOrchestrator([]ai.Provider{
		ai.NewCloudProvider(ai.CloudConfig{ID: "deepseek", BaseURL: limited.URL + "/v1", APIKey: "k1", Model: "deepseek-chat", Timeout: 2 * time.Second}),
		ai.NewCloudProvider(ai.CloudConfig{ID: "groq", BaseURL: healthy.URL + "/v1", APIKey: "k2", Model: "llama-3.1-8b-instant", Timeout: 2 * time.Second}),
	}, "deepseek", nil)

	svc := newTestService(orch, nil)
	reply := svc.GenerateReply(context.Background(), testSpirit(), "s1", nil, "¿Encontraré el amor?")

	if reply.Text != "Las estrellas indican un camino." {
		t.Fatalf("text = %q", reply.Text)
	}
	if reply.ProviderID != "groq" {
		t.Fatalf("provider = %q, want groq", reply.ProviderID)
	}
	if reply.Annoyed {
		t.Fatal("first ask must not be annoyed")
	}
}

// When every provider is down the reply comes from the canned store, matched
// on the question's keywords, but keeps the fallback provider id.
func TestGenerateReplySwapsStaticResponseOnTotalFailure(t *testing.T) {
	orch := ai.NewOrchestrator(nil, "", nil)
	static := fallback.NewResponder(fallback.NewInMemoryStore(fallback.SeedRecords()))

	svc := newTestService(orch, static)
	reply := svc.GenerateReply(context.Background(), testSpirit(), "s1", nil, "¿Encontraré el amor de mi vida?")

	if reply.ProviderID != ai.FallbackProviderID {
		t.Fatalf("provider = %q, want %q", reply.ProviderID, ai.FallbackProviderID)
	}
	if strings.TrimSpace(reply.Text) == "" {
		t.Fatal("static reply must not be empty")
	}
}

// Without a static store wired the emergency templates answer directly.
func TestGenerateReplyTemplateWhenNoStaticStore(t *testing.T) {
	orch := ai.NewOrchestrator(nil, "", nil)
	svc := newTestService(orch, nil)

	reply := svc.GenerateReply(context.Background(), testSpirit(), "s1", nil, "hola")
	if reply.ProviderID != ai.FallbackProviderID {
		t.Fatalf("provider = %q", reply.ProviderID)
	}
	if reply.Text == "" {
		t.Fatal("template reply must not be empty")
	}
}

func TestGenerateReplyAnnoyedOnFourthRepeat(t *testing.T) {
	var sawAnnoyed bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), "visiblemente molesto") {
			sawAnnoyed = true
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Mmm."}}]}`))
	}))
	defer srv.Close()

	orch := ai.NewOrchestrator([]ai.Provider{
		ai.NewCloudProvider(ai.CloudConfig{ID: "deepseek", BaseURL: srv.URL + "/v1", APIKey: "k", Model: "deepseek-chat", Timeout: 2 * time.Second}),
	}, "deepseek", nil)
	svc := newTestService(orch, nil)

	sp := testSpirit()
	q := "¿Me escuchas?"
	for i := 0; i < 3; i++ {
		if r := svc.GenerateReply(context.Background(), sp, "s1", nil, q); r.Annoyed {
			t.Fatalf("ask %d flagged annoyed", i+1)
		}
	}
	reply := svc.GenerateReply(context.Background(), sp, "s1", nil, q)
	if !reply.Annoyed {
		t.Fatal("fourth identical ask must be annoyed")
	}
	if !sawAnnoyed {
		t.Fatal("annoyed prompt never reached the provider")
	}
}

func TestGenerateOneShot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Sí."}}]}`))
	}))
	defer srv.Close()

	orch := ai.NewOrchestrator([]ai.Provider{
		ai.NewCloudProvider(ai.CloudConfig{ID: "groq", BaseURL: srv.URL + "/v1", APIKey: "k", Model: "llama-3.1-8b-instant", Timeout: 2 * time.Second}),
	}, "groq", nil)
	svc := newTestService(orch, nil)

	reply := svc.GenerateOneShot(context.Background(), testSpirit(), "¿Debo aceptar el trabajo?")
	if reply.Text != "Sí." {
		t.Fatalf("text = %q", reply.Text)
	}
	if reply.ProviderID != "groq" {
		t.Fatalf("provider = %q", reply.ProviderID)
	}
}

func TestStaticDefaultsLanguageAndCategory(t *testing.T) {
	static := fallback.NewResponder(fallback.NewInMemoryStore(fallback.SeedRecords()))
	svc := newTestService(ai.NewOrchestrator(nil, "", nil), static)

	got := svc.Static(context.Background(), "¿Encontraré trabajo pronto?", spirit.Wise, "", "")
	if strings.TrimSpace(got) == "" {
		t.Fatal("static answer must not be empty")
	}
}

func TestEndSessionClearsRepeatState(t *testing.T) {
	orch := ai.NewOrchestrator(nil, "", nil)
	svc := newTestService(orch, nil)
	sp := testSpirit()
	q := "¿hola?"

	for i := 0; i < 3; i++ {
		svc.GenerateReply(context.Background(), sp, "s1", nil, q)
	}
	svc.EndSession("s1")
	if r := svc.GenerateReply(context.Background(), sp, "s1", nil, q); r.Annoyed {
		t.Fatal("ended session must not carry repeat state")
	}
}
