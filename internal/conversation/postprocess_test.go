package conversation

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"trims whitespace", "  Las estrellas indican un camino.  ", "Las estrellas indican un camino."},
		{"strips outer quotes then punctuates", `"hello"`, "hello..."},
		{"strips curly quotes", "“El velo se abre.”", "El velo se abre."},
		{"keeps interior quotes", `Dijo "adiós" y se fue.`, `Dijo "adiós" y se fue.`},
		{"question mark kept as-is", "Is it true?", "Is it true?"},
		{"exclamation kept as-is", "¡Cuidado!", "¡Cuidado!"},
		{"ellipsis rune kept as-is", "El destino aguarda…", "El destino aguarda…"},
		{"appends suffix without punctuation", "El velo se agita", "El velo se agita..."},
		{"empty input", "", "..."},
		{"whitespace only", "   ", "..."},
		{"single quote char", `"`, `"...`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clean(tc.in); got != tc.want {
				t.Fatalf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCleanTruncatesLongResponses(t *testing.T) {
	in := strings.Repeat("a", 600)
	got := Clean(in)
	if len([]rune(got)) > 500 {
		t.Fatalf("len = %d, want <= 500", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("truncated output must end in ellipsis, got %q", got[len(got)-10:])
	}
	if len([]rune(got)) != 500 {
		t.Fatalf("len = %d, want exactly 500 (497 + suffix)", len([]rune(got)))
	}
}

func TestCleanExactly500CharsUntouched(t *testing.T) {
	in := strings.Repeat("a", 499) + "."
	if got := Clean(in); got != in {
		t.Fatalf("500-char punctuated input modified: len %d", len([]rune(got)))
	}
}
