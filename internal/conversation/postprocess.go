package conversation

import "strings"

const maxResponseRunes = 500

var quotePairs = [][2]rune{
	{'"', '"'},
	{'\'', '\''},
	{'“', '”'},
	{'‘', '’'},
	{'«', '»'},
}

// Clean turns raw model output into a display-safe spirit reply: trims
// whitespace, strips one matching outer quote pair, truncates overly long
// replies and guarantees terminal punctuation. Deterministic and total;
// empty input yields "...".
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = stripOuterQuotes(s)

	runes := []rune(s)
	if len(runes) > maxResponseRunes {
		s = string(runes[:maxResponseRunes-3]) + "..."
	}

	if !endsInPunctuation(s) {
		s += "..."
	}
	return s
}

// stripOuterQuotes removes exactly one wrapping quote pair. Interior quotes
// are left alone.
func stripOuterQuotes(s string) string {
	runes := []rune(s)
	if len(runes) < 2 {
		return s
	}
	first, last := runes[0], runes[len(runes)-1]
	for _, pair := range quotePairs {
		if first == pair[0] && last == pair[1] {
			return string(runes[1 : len(runes)-1])
		}
	}
	return s
}

func endsInPunctuation(s string) bool {
	if s == "" {
		return false
	}
	runes := []rune(s)
	switch runes[len(runes)-1] {
	case '.', '!', '?', '…':
		return true
	default:
		return false
	}
}
