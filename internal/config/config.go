// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported completion providers.
const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// Config holds all server configuration.
type Config struct {
	GRPCPort        string
	HTTPPort        string
	FrontendURL     string
	DBPath          string
	LogLevel        slog.Level
	Provider        ProviderConfig
	Session         SessionConfig
	GRPCWorkers     int
	MaxStreams      int
	WSMaxConns      int
	RateLimit       RateLimitConfig
	ConversationLog ConversationLogConfig
}

// ProviderConfig selects the completion backend.
type ProviderConfig struct {
	Name         string
	GroqAPIKey   string
	GeminiAPIKey string
	Model        string
	BaseURL      string
	Timeout      time.Duration
}

// APIKey returns the key of the selected provider.
func (p ProviderConfig) APIKey() string {
	if p.Name == ProviderGemini {
		return p.GeminiAPIKey
	}
	return p.GroqAPIKey
}

// SessionConfig controls the in-memory session store.
type SessionConfig struct {
	HistoryCap    int
	SystemPrompt  string
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// RateLimitConfig controls per-user throttling. Requests <= 0 disables it.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// ConversationLogConfig controls JSON conversation logging.
type ConversationLogConfig struct {
	Enabled       bool
	Dir           string
	GlobalEnabled bool
	GlobalPath    string
	QueueSize     int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	queueSize := getEnvInt("CONVERSATION_LOG_QUEUE_SIZE", 1000)
	if queueSize <= 0 {
		queueSize = 1000
	}

	cfg := &Config{
		GRPCPort:    getEnv("PORT", "50051"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/mira.db"),
		LogLevel:    parseLevel(getEnv("LOG_LEVEL", "info")),
		Provider: ProviderConfig{
			Name:         strings.ToLower(strings.TrimSpace(getEnv("PROVIDER", ProviderGroq))),
			GroqAPIKey:   getEnv("GROQ_API_KEY", ""),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			Model:        getEnv("MODEL", ""),
			BaseURL:      getEnv("PROVIDER_BASE_URL", ""),
			Timeout:      getEnvDuration("PROVIDER_TIMEOUT", 30*time.Second),
		},
		Session: SessionConfig{
			HistoryCap:    getEnvInt("HISTORY_CAP", 21),
			SystemPrompt:  getEnv("SYSTEM_PROMPT", "You are mira, a helpful assistant."),
			IdleTTL:       getEnvDuration("SESSION_IDLE_TTL", 24*time.Hour),
			SweepInterval: getEnvDuration("SWEEP_INTERVAL", 10*time.Minute),
		},
		GRPCWorkers: getEnvInt("GRPC_WORKERS", 10),
		MaxStreams:  getEnvInt("GRPC_MAX_STREAMS", 100),
		WSMaxConns:  getEnvInt("WS_MAX_CONNECTIONS", 100),
		RateLimit: RateLimitConfig{
			Requests: getEnvInt("RATE_LIMIT_REQUESTS", 30),
			Window:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		ConversationLog: ConversationLogConfig{
			Enabled:       getEnvBool("CONVERSATION_LOG_ENABLED", true),
			Dir:           getEnv("CONVERSATION_LOG_DIR", "./data/logs/conversations"),
			GlobalEnabled: getEnvBool("CONVERSATION_LOG_GLOBAL_ENABLED", false),
			GlobalPath:    getEnv("CONVERSATION_LOG_GLOBAL_PATH", "./data/logs/conversations/all.ndjson"),
			QueueSize:     queueSize,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.GRPCPort == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	switch c.Provider.Name {
	case ProviderGroq:
		if c.Provider.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required for provider %q", ProviderGroq)
		}
	case ProviderGemini:
		if c.Provider.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for provider %q", ProviderGemini)
		}
	default:
		return fmt.Errorf("PROVIDER must be %q or %q, got %q", ProviderGroq, ProviderGemini, c.Provider.Name)
	}
	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be > 0")
	}
	if c.Session.HistoryCap < 2 {
		return fmt.Errorf("HISTORY_CAP must be >= 2")
	}
	if c.Session.IdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be > 0")
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}
	if c.GRPCWorkers <= 0 {
		return fmt.Errorf("GRPC_WORKERS must be > 0")
	}
	if c.MaxStreams <= 0 {
		return fmt.Errorf("GRPC_MAX_STREAMS must be > 0")
	}
	if c.WSMaxConns <= 0 {
		return fmt.Errorf("WS_MAX_CONNECTIONS must be > 0")
	}
	if c.ConversationLog.Dir == "" {
		return fmt.Errorf("CONVERSATION_LOG_DIR cannot be empty")
	}
	if c.ConversationLog.GlobalPath == "" {
		return fmt.Errorf("CONVERSATION_LOG_GLOBAL_PATH cannot be empty")
	}
	if c.ConversationLog.QueueSize <= 0 {
		return fmt.Errorf("CONVERSATION_LOG_QUEUE_SIZE must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
