package ai

import (
	"context"
	"time"
)

// MockProvider answers with a fixed phrase. Used for local development when no
// real backend is configured (AI_ENGINE_MODE=mock).
type MockProvider struct {
	id string
}

func NewMockProvider(id string) *MockProvider {
	if id == "" {
		id = "mock"
	}
	return &MockProvider{id: id}
}

func (p *MockProvider) ID() string      { return p.id }
func (p *MockProvider) Kind() string    { return "mock" }
func (p *MockProvider) Available() bool { return true }

func (p *MockProvider) Generate(_ context.Context, _ Request) (Result, error) {
	return Result{
		Content:     "Los espíritus escuchan tu llamado. El velo se agita, pero la respuesta aún no toma forma.",
		ProviderID:  p.id,
		ModelID:     "mock",
		GeneratedAt: time.Now().UTC(),
	}, nil
}
