package spirit

import "strings"

// Category buckets a question so the static fallback store can prefer
// thematically close responses.
type Category string

const (
	CategoryLove    Category = "love"
	CategoryCareer  Category = "career"
	CategoryFuture  Category = "future"
	CategoryDeath   Category = "death"
	CategoryGeneral Category = "general"
)

var categoryHints = []struct {
	category Category
	words    []string
}{
	{CategoryLove, []string{
		"amor", "pareja", "corazón", "corazon", "novio", "novia", "relación", "relacion",
		"matrimonio", "love", "heart", "relationship", "partner", "marriage",
	}},
	{CategoryCareer, []string{
		"trabajo", "carrera", "empleo", "profesión", "profesion", "dinero", "negocio",
		"job", "work", "career", "money", "business",
	}},
	{CategoryFuture, []string{
		"futuro", "destino", "mañana", "manana", "porvenir", "suerte",
		"future", "destiny", "fate", "tomorrow", "luck",
	}},
	{CategoryDeath, []string{
		"muerte", "morir", "muerto", "más allá", "alma", "espíritu", "espiritu",
		"death", "die", "dead", "soul", "afterlife",
	}},
}

// DetectCategory picks the first category with a hint word present in the
// question, falling back to general. Matching is substring-based so inflected
// forms still hit ("enamorado" matches "amor").
func DetectCategory(question string) Category {
	q := strings.ToLower(question)
	for _, hint := range categoryHints {
		for _, w := range hint.words {
			if strings.Contains(q, w) {
				return hint.category
			}
		}
	}
	return CategoryGeneral
}
