package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/davmoren/espiritu/internal/ai"
	"github.com/davmoren/espiritu/internal/config"
	"github.com/davmoren/espiritu/internal/conversation"
	"github.com/davmoren/espiritu/internal/fallback"
	"github.com/davmoren/espiritu/internal/history"
	"github.com/davmoren/espiritu/internal/httpapi"
	"github.com/davmoren/espiritu/internal/observability"
	"github.com/davmoren/espiritu/internal/room"
	"github.com/davmoren/espiritu/internal/session"
	"github.com/davmoren/espiritu/internal/spirit"
)

type BuildResult struct {
	Config   config.Config
	API      *httpapi.Server
	Sessions *session.Manager
	Rooms    *room.Manager
	Service  *conversation.Service
	Metrics  *observability.Metrics

	// Cleanup should be called on shutdown to release external resources (DB pools etc).
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)
	latency := observability.NewLatencyWindow(256)
	sink := observability.NewGenerationRecorder(metrics, latency)

	turns, err := history.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("history store init failed: %w", err)
	}

	staticStore, err := fallback.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		_ = turns.Close()
		return nil, fmt.Errorf("fallback store init failed: %w", err)
	}
	static := fallback.NewResponder(staticStore)

	providers, defaultID := buildProviders(cfg)
	orchestrator := ai.NewOrchestrator(providers, defaultID, sink)

	builder := conversation.NewContextBuilder(cfg.HistoryWindow, float32(cfg.Temperature), cfg.MaxTokens)
	tracker := conversation.NewRepeatTracker(cfg.RepeatThreshold, cfg.ResetOnAnnoyed)
	svc := conversation.NewService(orchestrator, builder, static, tracker, cfg.Language)

	sessions := session.NewManager(cfg.SessionInactivityTimeout)
	sessions.SetExpireHook(func(s *session.Session) {
		svc.EndSession(s.Token)
		metrics.SessionEvents.WithLabelValues("expired").Inc()
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
	})

	rooms := room.NewManager(svc, cfg.RoomMaxParticipants, cfg.RoomIdleTimeout)

	catalog := spirit.DefaultCatalog()
	api := httpapi.New(cfg, sessions, svc, catalog, turns, rooms, metrics, latency)

	cleanup := func() error {
		var errs []string
		if err := staticStore.Close(); err != nil {
			errs = append(errs, err.Error())
		}
		if err := turns.Close(); err != nil {
			errs = append(errs, err.Error())
		}
		if len(errs) > 0 {
			return fmt.Errorf("%s", strings.Join(errs, "; "))
		}
		return nil
	}

	return &BuildResult{
		Config:   cfg,
		API:      api,
		Sessions: sessions,
		Rooms:    rooms,
		Service:  svc,
		Metrics:  metrics,
		Cleanup:  cleanup,
	}, nil
}

// buildProviders assembles the provider chain in priority order. The default
// engine is moved to the front so configured priority and preference agree.
func buildProviders(cfg config.Config) ([]ai.Provider, string) {
	if strings.EqualFold(cfg.EngineMode, "mock") {
		p := ai.NewMockProvider("")
		return []ai.Provider{p}, p.ID()
	}
	if strings.EqualFold(cfg.EngineMode, "static") {
		// Database-only mode: no providers, every reply resolves through the
		// canned response store.
		return nil, ""
	}

	var providers []ai.Provider
	if cfg.OllamaEnabled {
		providers = append(providers, ai.NewLocalProvider(ai.LocalConfig{
			ID:      "ollama",
			BaseURL: cfg.OllamaBaseURL,
			Model:   cfg.OllamaModel,
			Timeout: cfg.OllamaTimeout,
		}))
	}
	if cfg.DeepSeekEnabled {
		providers = append(providers, ai.NewCloudProvider(ai.CloudConfig{
			ID:      "deepseek",
			BaseURL: cfg.DeepSeekBaseURL,
			APIKey:  cfg.DeepSeekAPIKey,
			Model:   cfg.DeepSeekModel,
			Timeout: cfg.DeepSeekTimeout,
		}))
	}
	if cfg.GroqEnabled {
		providers = append(providers, ai.NewCloudProvider(ai.CloudConfig{
			ID:      "groq",
			BaseURL: cfg.GroqBaseURL,
			APIKey:  cfg.GroqAPIKey,
			Model:   cfg.GroqModel,
			Timeout: cfg.GroqTimeout,
		}))
	}
	return providers, cfg.DefaultEngine
}
