package ai

import (
	"context"
	"time"
)

// Role tags a chat message sender.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat turn sent to a provider.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request carries the assembled conversation plus generation parameters.
// Constructed fresh per call and never retained.
type Request struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// Result is a generated completion. Elapsed reports the total caller-visible
// wait across all attempted providers, not the winning attempt alone.
type Result struct {
	Content     string        `json:"content"`
	ProviderID  string        `json:"provider_id"`
	ModelID     string        `json:"model_id,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
	Elapsed     time.Duration `json:"-"`
}

// Provider wraps one text-generation backend behind a uniform contract.
type Provider interface {
	// ID is the stable identifier used in results, logs and metrics.
	ID() string
	// Kind reports the backend family (cloud, local, mock).
	Kind() string
	// Available is a cheap local-only readiness check (e.g. credential
	// presence). It must never perform a network round trip.
	Available() bool
	Generate(ctx context.Context, req Request) (Result, error)
}

// Sink receives one event per provider attempt. Injected so tests can record
// and production can export Prometheus metrics.
type Sink interface {
	ObserveGeneration(providerID string, elapsed time.Duration, success bool)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) ObserveGeneration(string, time.Duration, bool) {}
