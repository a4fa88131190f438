package fallback

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davmoren/espiritu/internal/spirit"
)

// PostgresStore persists canned responses in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if err := s.seedIfEmpty(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fallback_responses (
			id TEXT PRIMARY KEY,
			personality TEXT NOT NULL,
			category TEXT NOT NULL,
			language TEXT NOT NULL,
			text TEXT NOT NULL,
			keywords TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_fallback_responses_personality_language
			ON fallback_responses (personality, language);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

// seedIfEmpty loads the built-in record set on first start so a fresh database
// still answers in character.
func (s *PostgresStore) seedIfEmpty(ctx context.Context) error {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM fallback_responses`).Scan(&count); err != nil {
		return fmt.Errorf("count fallback responses: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, r := range SeedRecords() {
		id := r.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err := s.pool.Exec(ctx,
			`INSERT INTO fallback_responses (id, personality, category, language, text, keywords)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, string(r.Personality), string(r.Category), r.Language, r.Text, r.Keywords,
		)
		if err != nil {
			return fmt.Errorf("seed fallback response: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, personality spirit.Personality, language string) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, personality, category, language, text, keywords
		 FROM fallback_responses WHERE personality=$1 AND language=$2`,
		string(personality), language,
	)
	if err != nil {
		return nil, fmt.Errorf("query fallback responses: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Personality, &r.Category, &r.Language, &r.Text, &r.Keywords); err != nil {
			return nil, fmt.Errorf("scan fallback row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fallback rows: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
