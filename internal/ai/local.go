package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

// LocalConfig configures an Ollama-style local daemon.
type LocalConfig struct {
	ID      string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LocalProvider talks to a local Ollama daemon over its chat API. A daemon
// that is not running surfaces as connection-refused, which callers can log
// differently from a timeout even though both mean "try the next provider".
type LocalProvider struct {
	id      string
	baseURL string
	model   string
	client  *http.Client
}

func NewLocalProvider(cfg LocalConfig) *LocalProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &LocalProvider{
		id:      cfg.ID,
		baseURL: baseURL,
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *LocalProvider) ID() string      { return p.id }
func (p *LocalProvider) Kind() string    { return "local" }
func (p *LocalProvider) Available() bool { return p.baseURL != "" }

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Model   string        `json:"model"`
}

func (p *LocalProvider) Generate(ctx context.Context, req Request) (Result, error) {
	start := time.Now()

	messages := make([]ollamaMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, ollamaMessage{Role: string(m.Role), Content: m.Content})
	}

	body, err := json.Marshal(ollamaChatRequest{
		Model:    p.model,
		Messages: messages,
		Stream:   false,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	})
	if err != nil {
		return Result{}, newProviderError(p.id, KindMalformedResponse, fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return Result{}, newProviderError(p.id, KindUnreachable, fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return Result{}, p.classify(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 4<<20))
	if err != nil {
		return Result{}, newProviderError(p.id, KindUnreachable, fmt.Errorf("read response: %w", err))
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return Result{}, newProviderError(p.id, kindForStatus(httpResp.StatusCode),
			fmt.Errorf("status %d: %s", httpResp.StatusCode, strings.TrimSpace(string(respBody))))
	}

	var chatResp ollamaChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return Result{}, newProviderError(p.id, KindMalformedResponse, fmt.Errorf("unmarshal response: %w", err))
	}
	if strings.TrimSpace(chatResp.Message.Content) == "" {
		return Result{}, newProviderError(p.id, KindMalformedResponse, errors.New("response has no message content"))
	}

	modelID := chatResp.Model
	if modelID == "" {
		modelID = p.model
	}

	return Result{
		Content:     chatResp.Message.Content,
		ProviderID:  p.id,
		ModelID:     modelID,
		GeneratedAt: time.Now().UTC(),
		Elapsed:     time.Since(start),
	}, nil
}

func (p *LocalProvider) classify(err error) *ProviderError {
	if errors.Is(err, context.DeadlineExceeded) {
		return newProviderError(p.id, KindTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newProviderError(p.id, KindTimeout, err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return newProviderError(p.id, KindUnreachable, fmt.Errorf("daemon not running: %w", err))
	}
	return newProviderError(p.id, KindUnreachable, err)
}
