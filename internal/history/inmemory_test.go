package history

import (
	"context"
	"fmt"
	"testing"
)

func TestInMemoryStoreRecentReturnsChronologicalTail(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		err := s.SaveTurn(ctx, TurnRecord{
			SessionID: "s1",
			Role:      "user",
			Content:   fmt.Sprintf("turno %d", i),
		})
		if err != nil {
			t.Fatalf("save turn %d: %v", i, err)
		}
	}

	got, err := s.Recent(ctx, "s1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	if got[0].Content != "turno 5" || got[9].Content != "turno 14" {
		t.Fatalf("window = [%s .. %s], want [turno 5 .. turno 14]", got[0].Content, got[9].Content)
	}
	for _, r := range got {
		if r.ID == "" {
			t.Fatal("record missing generated id")
		}
		if r.CreatedAt.IsZero() {
			t.Fatal("record missing created_at")
		}
	}
}

func TestInMemoryStoreRecentUnknownSession(t *testing.T) {
	s := NewInMemoryStore()
	got, err := s.Recent(context.Background(), "nope", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestInMemoryStoreDeleteSession(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	s.SaveTurn(ctx, TurnRecord{SessionID: "s1", Role: "user", Content: "hola"})
	s.SaveTurn(ctx, TurnRecord{SessionID: "s2", Role: "user", Content: "hola"})

	if err := s.DeleteSession(ctx, "s1"); err != nil {
		t.Fatal(err)
	}

	if got, _ := s.Recent(ctx, "s1", 10); len(got) != 0 {
		t.Fatalf("deleted session still has %d turns", len(got))
	}
	if got, _ := s.Recent(ctx, "s2", 10); len(got) != 1 {
		t.Fatalf("unrelated session lost turns, len = %d", len(got))
	}
}

func TestNewStoreDefaultsToInMemory(t *testing.T) {
	s, err := NewStore(context.Background(), "  ")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.(*InMemoryStore); !ok {
		t.Fatalf("store type = %T, want *InMemoryStore", s)
	}
}
