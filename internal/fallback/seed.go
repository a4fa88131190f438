package fallback

import "github.com/davmoren/espiritu/internal/spirit"

// SeedRecords returns the built-in canned response set. Mostly Spanish, with a
// small English subset for the wise spirit.
func SeedRecords() []Record {
	return []Record{
		// wise / es
		{ID: "wise-es-love-1", Personality: spirit.Wise, Category: spirit.CategoryLove, Language: "es",
			Text:     "El amor verdadero llegará cuando estés preparado para recibirlo, como la lluvia llega a la tierra sedienta.",
			Keywords: []string{"amor", "pareja", "corazón", "relación"}},
		{ID: "wise-es-love-2", Personality: spirit.Wise, Category: spirit.CategoryLove, Language: "es",
			Text:     "Hijo mío, el corazón que amas ya conoce tu nombre. Ten paciencia, como la semilla bajo la nieve.",
			Keywords: []string{"amor", "corazón", "novio", "novia", "matrimonio"}},
		{ID: "wise-es-career-1", Personality: spirit.Wise, Category: spirit.CategoryCareer, Language: "es",
			Text:     "Tu carrera florecerá con dedicación y paciencia, como el roble que crece lento pero firme.",
			Keywords: []string{"trabajo", "carrera", "empleo", "profesión"}},
		{ID: "wise-es-career-2", Personality: spirit.Wise, Category: spirit.CategoryCareer, Language: "es",
			Text:     "La abundancia sigue al esfuerzo honesto. Siembra bien tus días y la cosecha llegará.",
			Keywords: []string{"dinero", "trabajo", "negocio", "éxito"}},
		{ID: "wise-es-future-1", Personality: spirit.Wise, Category: spirit.CategoryFuture, Language: "es",
			Text:     "El futuro es un sendero que tus pasos de hoy van trazando. Camina con el corazón sereno.",
			Keywords: []string{"futuro", "destino", "camino", "mañana"}},
		{ID: "wise-es-death-1", Personality: spirit.Wise, Category: spirit.CategoryDeath, Language: "es",
			Text:     "La muerte es solo el invierno del alma, hijo mío. Tras él, siempre despierta una primavera.",
			Keywords: []string{"muerte", "alma", "morir", "allá"}},
		{ID: "wise-es-general-1", Personality: spirit.Wise, Category: spirit.CategoryGeneral, Language: "es",
			Text:     "Los espíritus observan tu camino con sabiduría. Confía en el susurro de tu intuición.",
			Keywords: []string{"general", "espíritus", "destino", "camino"}},

		// cryptic / es
		{ID: "cryptic-es-love-1", Personality: spirit.Cryptic, Category: spirit.CategoryLove, Language: "es",
			Text:     "El amor que buscas es un espejo con dos caras. ¿Reconocerás tu reflejo cuando te mire?",
			Keywords: []string{"amor", "pareja", "corazón"}},
		{ID: "cryptic-es-future-1", Personality: spirit.Cryptic, Category: spirit.CategoryFuture, Language: "es",
			Text:     "El tres y el siete danzan en tu porvenir. Aquello que buscas te busca a ti.",
			Keywords: []string{"futuro", "destino", "porvenir", "suerte"}},
		{ID: "cryptic-es-general-1", Personality: spirit.Cryptic, Category: spirit.CategoryGeneral, Language: "es",
			Text:     "Toda pregunta es una puerta; toda respuesta, otra pregunta disfrazada. Elige cuál abrir.",
			Keywords: []string{"pregunta", "respuesta", "enigma", "secreto"}},

		// dark / es
		{ID: "dark-es-love-1", Personality: spirit.Dark, Category: spirit.CategoryLove, Language: "es",
			Text:     "El amor que persigues proyecta una sombra larga, mortal. Cuida que no te devore.",
			Keywords: []string{"amor", "pareja", "corazón"}},
		{ID: "dark-es-death-1", Personality: spirit.Dark, Category: spirit.CategoryDeath, Language: "es",
			Text:     "La muerte me conoce bien, y conoce tu nombre. Pero tu hora aún no está escrita en sus libros.",
			Keywords: []string{"muerte", "morir", "sombras", "tormento"}},
		{ID: "dark-es-general-1", Personality: spirit.Dark, Category: spirit.CategoryGeneral, Language: "es",
			Text:     "Las sombras escuchan tu pregunta y ríen. El precio de la respuesta podría ser tu sosiego.",
			Keywords: []string{"sombras", "oscuridad", "destino", "precio"}},

		// playful / es
		{ID: "playful-es-love-1", Personality: spirit.Playful, Category: spirit.CategoryLove, Language: "es",
			Text:     "¡Ja! El amor baila ante tus narices, querido mortal. ¿Lo atraparás antes de que escape?",
			Keywords: []string{"amor", "pareja", "corazón"}},
		{ID: "playful-es-career-1", Personality: spirit.Playful, Category: spirit.CategoryCareer, Language: "es",
			Text:     "¡El teatro de la fortuna abre sus puertas! Tu próximo acto promete aplausos... o tartas voladoras.",
			Keywords: []string{"trabajo", "carrera", "dinero", "fortuna"}},
		{ID: "playful-es-general-1", Personality: spirit.Playful, Category: spirit.CategoryGeneral, Language: "es",
			Text:     "Los espíritus jugamos a los dados con tus preguntas. Hoy ha salido un número prometedor.",
			Keywords: []string{"suerte", "juego", "espíritus", "destino"}},

		// wise / en
		{ID: "wise-en-love-1", Personality: spirit.Wise, Category: spirit.CategoryLove, Language: "en",
			Text:     "True love arrives when your heart is ready, like rain upon thirsting soil.",
			Keywords: []string{"love", "heart", "partner", "relationship"}},
		{ID: "wise-en-future-1", Personality: spirit.Wise, Category: spirit.CategoryFuture, Language: "en",
			Text:     "The future is a path your present steps are drawing. Walk it with a calm heart.",
			Keywords: []string{"future", "destiny", "fate", "path"}},
		{ID: "wise-en-general-1", Personality: spirit.Wise, Category: spirit.CategoryGeneral, Language: "en",
			Text:     "The spirits watch your road with wisdom. Trust the whisper of your intuition.",
			Keywords: []string{"spirits", "wisdom", "road", "general"}},
	}
}
