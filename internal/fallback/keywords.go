package fallback

import (
	"strings"
	"unicode"
)

// Bilingual stop-word list. Questions arrive in Spanish or English and both
// sets are filtered unconditionally, which is cheaper than detecting language
// first and harmless for scoring.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"el", "la", "de", "que", "y", "a", "en", "un", "ser", "se", "no", "haber",
		"por", "con", "su", "para", "como", "estar", "tener", "le", "lo", "todo",
		"pero", "más", "hacer", "o", "poder", "decir", "este", "ir", "otro", "ese",
		"the", "be", "to", "of", "and", "in", "that", "have", "i", "it", "for",
		"not", "on", "with", "he", "as", "you", "do", "at", "this", "but", "his",
		"mi", "me", "yo", "tu", "te", "es", "son", "está", "estoy", "puedo",
		"voy", "va", "qué", "cómo", "cuándo", "dónde", "quién",
	} {
		stopwords[w] = struct{}{}
	}
}

// ExtractKeywords normalizes a question into an unordered, de-duplicated set
// of significant tokens: lowercase, punctuation stripped, tokens of length <=2
// and stop-words dropped. A question made only of stop-words yields an empty
// set, which is valid input for scoring.
func ExtractKeywords(question string) []string {
	var b strings.Builder
	b.Grow(len(question))
	for _, r := range strings.ToLower(question) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, word := range strings.Fields(b.String()) {
		if len([]rune(word)) <= 2 {
			continue
		}
		if _, isStop := stopwords[word]; isStop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	return out
}

// MatchScore scores query keywords against a candidate's keyword set: +2 per
// exact match, +1 when either token contains the other.
func MatchScore(queryKeywords, candidateKeywords []string) int {
	score := 0
	for _, q := range queryKeywords {
		for _, k := range candidateKeywords {
			switch {
			case q == k:
				score += 2
			case strings.Contains(q, k) || strings.Contains(k, q):
				score++
			}
		}
	}
	return score
}
