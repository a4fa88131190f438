package conversation

import (
	"context"
	"log"

	"github.com/davmoren/espiritu/internal/ai"
	"github.com/davmoren/espiritu/internal/fallback"
	"github.com/davmoren/espiritu/internal/spirit"
)

// Reply is what the session layer receives for each generated turn.
type Reply struct {
	Text       string `json:"text"`
	ProviderID string `json:"provider_id"`
	ModelID    string `json:"model_id,omitempty"`
	Annoyed    bool   `json:"annoyed,omitempty"`
}

// Service runs the full reply pipeline: context assembly, orchestrated
// generation, static fallback and post-processing. It never returns an error
// to its caller; worst case the user gets a canned mystical reply.
type Service struct {
	orchestrator *ai.Orchestrator
	builder      *ContextBuilder
	static       *fallback.Responder
	tracker      *RepeatTracker
	language     string
}

func NewService(orchestrator *ai.Orchestrator, builder *ContextBuilder, static *fallback.Responder, tracker *RepeatTracker, language string) *Service {
	if language == "" {
		language = "es"
	}
	return &Service{
		orchestrator: orchestrator,
		builder:      builder,
		static:       static,
		tracker:      tracker,
		language:     language,
	}
}

// GenerateReply answers one conversational turn for a session.
func (s *Service) GenerateReply(ctx context.Context, sp spirit.Spirit, sessionID string, history []Turn, message string) Reply {
	return s.GenerateReplyWithEngine(ctx, sp, sessionID, history, message, "")
}

// GenerateReplyWithEngine is GenerateReply with an explicit provider
// preference. An unknown or empty engine falls back to the configured default.
func (s *Service) GenerateReplyWithEngine(ctx context.Context, sp spirit.Spirit, sessionID string, history []Turn, message, engine string) Reply {
	annoyed := false
	if s.tracker != nil {
		annoyed = s.tracker.Observe(sessionID, message)
	}

	var req ai.Request
	if annoyed {
		log.Printf("conversation: session %s triggered annoyed reply", sessionID)
		req = s.builder.BuildAnnoyed(sp, history, message)
	} else {
		req = s.builder.Build(sp, history, message)
	}

	res := s.orchestrator.Generate(ctx, req, engine)
	text := s.resolveText(ctx, res, message, sp)

	return Reply{
		Text:       Clean(text),
		ProviderID: res.ProviderID,
		ModelID:    res.ModelID,
		Annoyed:    annoyed,
	}
}

// WelcomeMessage is the spirit's canned session greeting.
func (s *Service) WelcomeMessage(sp spirit.Spirit) string { return spirit.WelcomeMessage(sp) }

// FarewellMessage is the spirit's canned session goodbye.
func (s *Service) FarewellMessage(sp spirit.Spirit) string { return spirit.FarewellMessage(sp) }

// GenerateOneShot answers a single oracle-style question with no history.
func (s *Service) GenerateOneShot(ctx context.Context, sp spirit.Spirit, prompt string) Reply {
	res := s.orchestrator.Generate(ctx, BuildOneShot(sp, prompt), "")
	text := s.resolveText(ctx, res, prompt, sp)
	return Reply{
		Text:       Clean(text),
		ProviderID: res.ProviderID,
		ModelID:    res.ModelID,
	}
}

// resolveText swaps the orchestrator's emergency template for a keyword-matched
// canned response when every provider failed. The template set stays as the
// last line of defense if the static store is not wired.
func (s *Service) resolveText(ctx context.Context, res ai.Result, question string, sp spirit.Spirit) string {
	if res.ProviderID != ai.FallbackProviderID || s.static == nil {
		return res.Content
	}
	category := spirit.DetectCategory(question)
	return s.static.Response(ctx, question, sp.Personality, category, s.language)
}

// Static answers directly from the canned store, skipping AI providers
// entirely (database-only mode).
func (s *Service) Static(ctx context.Context, question string, personality spirit.Personality, category spirit.Category, language string) string {
	if language == "" {
		language = s.language
	}
	if category == "" {
		category = spirit.DetectCategory(question)
	}
	if s.static == nil {
		return fallback.GenericResponse(personality, language)
	}
	return s.static.Response(ctx, question, personality, category, language)
}

// Engines exposes configured provider info for the API layer.
func (s *Service) Engines() []ai.EngineInfo {
	return s.orchestrator.Engines()
}

// EndSession releases per-session tracker state.
func (s *Service) EndSession(sessionID string) {
	if s.tracker != nil {
		s.tracker.Forget(sessionID)
	}
}
