package history

import (
	"context"
	"time"
)

// TurnRecord stores a single user or spirit conversational turn.
type TurnRecord struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	ProviderID string    `json:"provider_id,omitempty"`
	ModelID    string    `json:"model_id,omitempty"`
	Annoyed    bool      `json:"annoyed,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store persists and retrieves per-session conversation history.
type Store interface {
	SaveTurn(ctx context.Context, record TurnRecord) error
	Recent(ctx context.Context, sessionID string, limit int) ([]TurnRecord, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Close() error
}
