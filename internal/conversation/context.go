package conversation

import (
	"fmt"

	"github.com/davmoren/espiritu/internal/ai"
	"github.com/davmoren/espiritu/internal/spirit"
)

// DefaultHistoryWindow bounds how many prior turns feed the prompt.
const DefaultHistoryWindow = 10

// Turn is one prior message as the session layer hands it to the core. Any
// role other than "user" is treated as the spirit speaking.
type Turn struct {
	Role    string
	Content string
}

const stayInCharacter = "Recuerda: Mantén tu personalidad en todo momento y responde como %s, en máximo 2-3 frases cortas."

// ContextBuilder assembles generation requests from persona, history and the
// incoming message. Pure: it holds only configuration.
type ContextBuilder struct {
	window      int
	temperature float32
	maxTokens   int
}

func NewContextBuilder(window int, temperature float32, maxTokens int) *ContextBuilder {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	if temperature <= 0 {
		temperature = 0.9
	}
	if maxTokens <= 0 {
		maxTokens = 300
	}
	return &ContextBuilder{window: window, temperature: temperature, maxTokens: maxTokens}
}

// Build produces the ordered message list: one system message, then the most
// recent turns in chronological order, then the new user message.
func (b *ContextBuilder) Build(s spirit.Spirit, history []Turn, userMessage string) ai.Request {
	return b.build(s, history, userMessage, false)
}

// BuildAnnoyed is Build with the annoyed-spirit instruction appended to the
// system prompt, used after the mortal repeats the same question too often.
func (b *ContextBuilder) BuildAnnoyed(s spirit.Spirit, history []Turn, userMessage string) ai.Request {
	return b.build(s, history, userMessage, true)
}

func (b *ContextBuilder) build(s spirit.Spirit, history []Turn, userMessage string, annoyed bool) ai.Request {
	if len(history) > b.window {
		history = history[len(history)-b.window:]
	}

	messages := make([]ai.Message, 0, len(history)+2)
	messages = append(messages, ai.Message{Role: ai.RoleSystem, Content: systemPrompt(s, annoyed)})
	for _, turn := range history {
		role := ai.RoleAssistant
		if turn.Role == "user" {
			role = ai.RoleUser
		}
		messages = append(messages, ai.Message{Role: role, Content: turn.Content})
	}
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: userMessage})

	return ai.Request{
		Messages:    messages,
		Temperature: b.temperature,
		MaxTokens:   b.maxTokens,
	}
}

func systemPrompt(s spirit.Spirit, annoyed bool) string {
	prompt := fmt.Sprintf(`%s

INFORMACIÓN DE TU ESPÍRITU:
Nombre: %s
Historia: %s

`+stayInCharacter, s.SystemPrompt, s.Name, s.Backstory, s.Name)
	if annoyed {
		prompt += "\n\n" + spirit.AnnoyedPrompt
	}
	return prompt
}

// BuildOneShot produces a single-turn oracle request: no history window and a
// terser creativity/length budget than conversational replies.
func BuildOneShot(s spirit.Spirit, prompt string) ai.Request {
	return ai.Request{
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: systemPrompt(s, false)},
			{Role: ai.RoleUser, Content: prompt},
		},
		Temperature: 0.8,
		MaxTokens:   150,
	}
}
