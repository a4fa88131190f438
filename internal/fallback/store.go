package fallback

import (
	"context"
	"strings"
	"sync"

	"github.com/davmoren/espiritu/internal/spirit"
)

// Record is one pre-authored canned response. Read-only at request time;
// writes happen only through seeding.
type Record struct {
	ID          string             `json:"id"`
	Personality spirit.Personality `json:"personality"`
	Category    spirit.Category    `json:"category"`
	Language    string             `json:"language"`
	Text        string             `json:"text"`
	Keywords    []string           `json:"keywords"`
}

// Store retrieves canned responses by personality and language. Category is
// deliberately not part of the filter; it only contributes a scoring bonus.
type Store interface {
	List(ctx context.Context, personality spirit.Personality, language string) ([]Record, error)
	Close() error
}

// NewStore creates a postgres-backed store when configured, otherwise the
// seeded in-memory store.
func NewStore(ctx context.Context, databaseURL string) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return NewInMemoryStore(SeedRecords()), nil
	}
	return NewPostgresStore(ctx, databaseURL)
}

// InMemoryStore serves records from process memory for local/dev use.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

func NewInMemoryStore(records []Record) *InMemoryStore {
	return &InMemoryStore{records: records}
}

func (s *InMemoryStore) List(_ context.Context, personality spirit.Personality, language string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for _, r := range s.records {
		if r.Personality == personality && r.Language == language {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Close() error { return nil }
