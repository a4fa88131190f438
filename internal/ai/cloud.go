package ai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// CloudConfig configures an OpenAI-compatible chat-completions backend
// (DeepSeek, Groq, OpenAI itself). BaseURL includes the version path, e.g.
// https://api.deepseek.com/v1.
type CloudConfig struct {
	ID      string
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// CloudProvider calls a hosted chat-completions API with a bearer credential.
type CloudProvider struct {
	id     string
	model  string
	apiKey string
	client *openai.Client
}

func NewCloudProvider(cfg CloudConfig) *CloudProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		oc.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	}
	oc.HTTPClient = &http.Client{Timeout: timeout}

	return &CloudProvider{
		id:     cfg.ID,
		model:  cfg.Model,
		apiKey: strings.TrimSpace(cfg.APIKey),
		client: openai.NewClientWithConfig(oc),
	}
}

func (p *CloudProvider) ID() string   { return p.id }
func (p *CloudProvider) Kind() string { return "cloud" }

// Available checks credential presence only. No probe request is made so the
// check never burns rate-limit budget.
func (p *CloudProvider) Available() bool { return p.apiKey != "" }

func (p *CloudProvider) Generate(ctx context.Context, req Request) (Result, error) {
	start := time.Now()

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return Result{}, p.classify(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return Result{}, newProviderError(p.id, KindMalformedResponse,
			errors.New("completion has no choices with content"))
	}

	return Result{
		Content:     resp.Choices[0].Message.Content,
		ProviderID:  p.id,
		ModelID:     p.model,
		GeneratedAt: time.Now().UTC(),
		Elapsed:     time.Since(start),
	}, nil
}

func (p *CloudProvider) classify(err error) *ProviderError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return newProviderError(p.id, kindForStatus(apiErr.HTTPStatusCode), err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode > 0 {
			return newProviderError(p.id, kindForStatus(reqErr.HTTPStatusCode), err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newProviderError(p.id, KindTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newProviderError(p.id, KindTimeout, err)
	}
	return newProviderError(p.id, KindUnreachable, err)
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthenticated
	default:
		return KindUnreachable
	}
}
