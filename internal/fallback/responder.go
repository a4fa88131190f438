package fallback

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/davmoren/espiritu/internal/spirit"
)

// Generic per-personality templates returned when no record matches or the
// store fails. The (es, wise) entry doubles as the final default.
var genericResponses = map[string]map[spirit.Personality]string{
	"es": {
		spirit.Wise:    "Los espíritus observan tu pregunta con atención. La respuesta se revelará cuando el momento sea propicio.",
		spirit.Cryptic: "Las sombras murmuran secretos que aún no puedo descifrar. Vuelve a preguntar cuando la luna esté más alta.",
		spirit.Dark:    "La oscuridad no revela sus secretos tan fácilmente. Tendrás que buscar más profundo en tu alma.",
		spirit.Playful: "¡Oh! Parece que los espíritus están jugando al escondite. Intenta con otra pregunta más específica.",
	},
	"en": {
		spirit.Wise:    "The spirits observe your question with attention. The answer will be revealed when the time is right.",
		spirit.Cryptic: "Shadows whisper secrets I cannot yet decipher. Ask again when the moon is higher.",
		spirit.Dark:    "Darkness does not reveal its secrets so easily. You must search deeper in your soul.",
		spirit.Playful: "Oh! It seems the spirits are playing hide and seek. Try a more specific question.",
	},
}

// Responder answers from the canned response store. It never fails: storage
// errors and empty result sets degrade to a generic template.
type Responder struct {
	store Store
}

func NewResponder(store Store) *Responder {
	return &Responder{store: store}
}

// Response picks a canned reply for the question. Candidates matching
// (personality, language) are scored by keyword overlap plus a flat category
// bonus; one of the top three scores is chosen at random so repeated identical
// questions do not always get the same record.
func (r *Responder) Response(ctx context.Context, question string, personality spirit.Personality, category spirit.Category, language string) string {
	start := time.Now()

	records, err := r.store.List(ctx, personality, language)
	if err != nil {
		log.Printf("fallback: store lookup failed: %v", err)
		return GenericResponse(personality, language)
	}
	if len(records) == 0 {
		log.Printf("fallback: no responses for personality=%s language=%s", personality, language)
		return GenericResponse(personality, language)
	}

	queryKeywords := ExtractKeywords(question)

	type scored struct {
		record Record
		score  int
	}
	candidates := make([]scored, 0, len(records))
	for _, rec := range records {
		score := MatchScore(queryKeywords, rec.Keywords)
		if rec.Category == category {
			score += 2
		}
		candidates = append(candidates, scored{record: rec, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	top := candidates
	if len(top) > 3 {
		top = top[:3]
	}
	selected := top[rand.Intn(len(top))]

	log.Printf("fallback: selected record %s (score=%d, %s)",
		selected.record.ID, selected.score, time.Since(start).Round(time.Millisecond))
	return selected.record.Text
}

// GenericResponse returns the fixed template for (language, personality),
// defaulting to the Spanish wise template when the combination is absent.
func GenericResponse(personality spirit.Personality, language string) string {
	if byPersonality, ok := genericResponses[language]; ok {
		if text, ok := byPersonality[personality]; ok {
			return text
		}
	}
	return genericResponses["es"][spirit.Wise]
}
