package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the spirit chat service.
type Config struct {
	BindAddr                 string
	ShutdownTimeout          time.Duration
	SessionInactivityTimeout time.Duration
	MetricsNamespace         string

	AllowAnyOrigin bool

	DatabaseURL string

	// Provider chain, in priority order. Entries with Enabled=false are kept
	// out of the orchestrator entirely.
	DefaultEngine string
	EngineMode    string

	OllamaEnabled bool
	OllamaBaseURL string
	OllamaModel   string
	OllamaTimeout time.Duration

	DeepSeekEnabled bool
	DeepSeekBaseURL string
	DeepSeekAPIKey  string
	DeepSeekModel   string
	DeepSeekTimeout time.Duration

	GroqEnabled bool
	GroqBaseURL string
	GroqAPIKey  string
	GroqModel   string
	GroqTimeout time.Duration

	HistoryWindow   int
	Temperature     float64
	MaxTokens       int
	RepeatThreshold int
	ResetOnAnnoyed  bool
	Language        string

	RoomMaxParticipants int
	RoomIdleTimeout     time.Duration
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "espiritu"),
		AllowAnyOrigin:   false,
		DatabaseURL:      stringsTrimSpace("DATABASE_URL"),

		DefaultEngine: envOrDefault("DEFAULT_AI_ENGINE", "ollama"),
		EngineMode:    envOrDefault("AI_ENGINE_MODE", "auto"),

		OllamaBaseURL: envOrDefault("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:   envOrDefault("OLLAMA_MODEL", "llama3.2"),

		DeepSeekBaseURL: envOrDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
		DeepSeekAPIKey:  stringsTrimSpace("DEEPSEEK_API_KEY"),
		DeepSeekModel:   envOrDefault("DEEPSEEK_MODEL", "deepseek-chat"),

		GroqBaseURL: envOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqAPIKey:  stringsTrimSpace("GROQ_API_KEY"),
		GroqModel:   envOrDefault("GROQ_MODEL", "llama-3.1-8b-instant"),

		Language: envOrDefault("APP_LANGUAGE", "es"),

		ShutdownTimeout:          15 * time.Second,
		SessionInactivityTimeout: 30 * time.Minute,
		OllamaTimeout:            60 * time.Second,
		DeepSeekTimeout:          30 * time.Second,
		GroqTimeout:              30 * time.Second,
		HistoryWindow:            10,
		Temperature:              0.9,
		MaxTokens:                300,
		RepeatThreshold:          3,
		ResetOnAnnoyed:           true,
		OllamaEnabled:            true,
		DeepSeekEnabled:          true,
		GroqEnabled:              true,
		RoomMaxParticipants:      8,
		RoomIdleTimeout:          time.Hour,
	}
	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionInactivityTimeout, err = durationFromEnv("APP_SESSION_INACTIVITY_TIMEOUT", cfg.SessionInactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	cfg.OllamaEnabled, err = boolFromEnv("OLLAMA_ENABLED", cfg.OllamaEnabled)
	if err != nil {
		return Config{}, err
	}
	cfg.OllamaTimeout, err = durationFromEnv("OLLAMA_TIMEOUT", cfg.OllamaTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.DeepSeekEnabled, err = boolFromEnv("DEEPSEEK_ENABLED", cfg.DeepSeekEnabled)
	if err != nil {
		return Config{}, err
	}
	cfg.DeepSeekTimeout, err = durationFromEnv("DEEPSEEK_TIMEOUT", cfg.DeepSeekTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.GroqEnabled, err = boolFromEnv("GROQ_ENABLED", cfg.GroqEnabled)
	if err != nil {
		return Config{}, err
	}
	cfg.GroqTimeout, err = durationFromEnv("GROQ_TIMEOUT", cfg.GroqTimeout)
	if err != nil {
		return Config{}, err
	}

	cfg.HistoryWindow, err = intFromEnv("CONVERSATION_HISTORY_WINDOW", cfg.HistoryWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.Temperature, err = floatFromEnv("CONVERSATION_TEMPERATURE", cfg.Temperature)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxTokens, err = intFromEnv("CONVERSATION_MAX_TOKENS", cfg.MaxTokens)
	if err != nil {
		return Config{}, err
	}
	cfg.RepeatThreshold, err = intFromEnv("REPEAT_THRESHOLD", cfg.RepeatThreshold)
	if err != nil {
		return Config{}, err
	}
	cfg.ResetOnAnnoyed, err = boolFromEnv("RESET_ON_ANNOYED", cfg.ResetOnAnnoyed)
	if err != nil {
		return Config{}, err
	}

	cfg.RoomMaxParticipants, err = intFromEnv("ROOM_MAX_PARTICIPANTS", cfg.RoomMaxParticipants)
	if err != nil {
		return Config{}, err
	}
	cfg.RoomIdleTimeout, err = durationFromEnv("ROOM_IDLE_TIMEOUT", cfg.RoomIdleTimeout)
	if err != nil {
		return Config{}, err
	}

	switch strings.ToLower(cfg.EngineMode) {
	case "auto", "mock", "static":
	default:
		return Config{}, fmt.Errorf("AI_ENGINE_MODE must be auto, mock or static")
	}
	if cfg.SessionInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_INACTIVITY_TIMEOUT must be at least 5s")
	}
	if cfg.HistoryWindow <= 0 {
		return Config{}, fmt.Errorf("CONVERSATION_HISTORY_WINDOW must be positive")
	}
	if cfg.MaxTokens <= 0 {
		return Config{}, fmt.Errorf("CONVERSATION_MAX_TOKENS must be positive")
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return Config{}, fmt.Errorf("CONVERSATION_TEMPERATURE must be in [0, 2]")
	}
	if cfg.RepeatThreshold <= 0 {
		return Config{}, fmt.Errorf("REPEAT_THRESHOLD must be positive")
	}
	if cfg.RoomMaxParticipants <= 0 {
		return Config{}, fmt.Errorf("ROOM_MAX_PARTICIPANTS must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return trimSpace(os.Getenv(key))
}

func trimSpace(v string) string {
	for len(v) > 0 && (v[0] == ' ' || v[0] == '\n' || v[0] == '\t' || v[0] == '\r') {
		v = v[1:]
	}
	for len(v) > 0 {
		c := v[len(v)-1]
		if c == ' ' || c == '\n' || c == '\t' || c == '\r' {
			v = v[:len(v)-1]
			continue
		}
		break
	}
	return v
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
