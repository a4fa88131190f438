package spirit

import (
	"strings"
	"testing"
)

func TestDefaultCatalogHasFourSpirits(t *testing.T) {
	c := DefaultCatalog()
	if got := len(c.All()); got != 4 {
		t.Fatalf("len(All()) = %d, want 4", got)
	}
	for _, p := range []Personality{Wise, Cryptic, Dark, Playful} {
		s, err := c.ByPersonality(p)
		if err != nil {
			t.Fatalf("ByPersonality(%q) error = %v", p, err)
		}
		if s.SystemPrompt == "" {
			t.Fatalf("spirit %q has empty system prompt", s.ID)
		}
		if s.Backstory == "" {
			t.Fatalf("spirit %q has empty backstory", s.ID)
		}
	}
}

func TestCatalogByID(t *testing.T) {
	c := DefaultCatalog()
	s, err := c.ByID("morgana")
	if err != nil {
		t.Fatalf("ByID(morgana) error = %v", err)
	}
	if s.Personality != Wise {
		t.Fatalf("morgana personality = %q, want wise", s.Personality)
	}
	if _, err := c.ByID("nobody"); err != ErrNotFound {
		t.Fatalf("ByID(nobody) error = %v, want ErrNotFound", err)
	}
}

func TestWelcomeAndFarewellMentionSpiritName(t *testing.T) {
	c := DefaultCatalog()
	for _, s := range c.All() {
		if msg := WelcomeMessage(s); !strings.Contains(msg, s.Name) {
			t.Errorf("welcome for %s does not mention name: %q", s.ID, msg)
		}
		if msg := FarewellMessage(s); !strings.Contains(msg, s.Name) {
			t.Errorf("farewell for %s does not mention name: %q", s.ID, msg)
		}
	}
}

func TestDetectCategory(t *testing.T) {
	cases := []struct {
		question string
		want     Category
	}{
		{"¿Encontraré el amor verdadero?", CategoryLove},
		{"¿Me irá bien en el trabajo?", CategoryCareer},
		{"¿Qué me depara el futuro?", CategoryFuture},
		{"¿Hay vida después de la muerte?", CategoryDeath},
		{"will I find love?", CategoryLove},
		{"hola", CategoryGeneral},
		{"", CategoryGeneral},
	}
	for _, tc := range cases {
		if got := DetectCategory(tc.question); got != tc.want {
			t.Errorf("DetectCategory(%q) = %q, want %q", tc.question, got, tc.want)
		}
	}
}
