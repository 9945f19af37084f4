package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/codeware/chatbot-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Provider names selectable via PROVIDER.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration (vector store). DATABASE_URL is required
	// unless ENABLE_MOCKS is set, in which case the in-memory index is used.
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Rule-based flow configuration
	FlowFile string `env:"FLOW_FILE" envDefault:"codeware_bot_flow.json"`

	// Retrieval configuration
	Collection string `env:"COLLECTION_NAME" envDefault:"company_info"`
	TopK       int    `env:"TOP_K" envDefault:"5"`

	// Answer cache; 0 disables caching
	AnswerCacheTTL time.Duration `env:"ANSWER_CACHE_TTL" envDefault:"0"`

	// Capability provider: ollama or openai
	Provider string `env:"PROVIDER" envDefault:"ollama"`

	// External service configurations
	EmbeddingConnectorCfg EmbeddingConnectorConfig `envPrefix:"EMBEDDING_"`
	LLMConnectorCfg       LLMConnectorConfig       `envPrefix:"LLM_"`
	TriggerConnectorCfg   TriggerConnectorConfig   `envPrefix:"TRIGGER_"`
	OpenAICfg             OpenAIConfig             `envPrefix:"OPENAI_"`

	// Ingestion configuration (cmd/ingest)
	IngestCfg IngestConfig `envPrefix:"INGEST_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Telegram bot configuration (used by cmd/telegram-bot only)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// EmbeddingConnectorConfig configures the Ollama embedding service client.
type EmbeddingConnectorConfig struct {
	HTTPClientConfig
	Model      string               `env:"MODEL" envDefault:"nomic-embed-text"`
	Dimensions int                  `env:"DIMENSIONS" envDefault:"768"`
	Retry      pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// LLMConnectorConfig configures the Ollama generation service client.
type LLMConnectorConfig struct {
	HTTPClientConfig
	Model string               `env:"MODEL" envDefault:"phi3:mini"`
	Retry pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// TriggerConnectorConfig configures the external workflow execution client.
type TriggerConnectorConfig struct {
	HTTPClientConfig
	ExecuteEndpoint string               `env:"EXECUTE_ENDPOINT" envDefault:"/chatbot"`
	Retry           pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// OpenAIConfig configures the OpenAI provider (used when PROVIDER=openai).
type OpenAIConfig struct {
	APIKey              string `env:"API_KEY"`
	EmbeddingModel      string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	EmbeddingDimensions int    `env:"EMBEDDING_DIMENSIONS" envDefault:"1536"`
	ChatModel           string `env:"CHAT_MODEL" envDefault:"gpt-4o-mini"`
}

// IngestConfig holds settings for the offline document ingestion job.
type IngestConfig struct {
	CorpusDir string `env:"CORPUS_DIR" envDefault:"company_info"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"30"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"5"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	if cfg.TopK < 1 || cfg.TopK > 100 {
		errs = append(errs, fmt.Sprintf("TOP_K must be between 1 and 100, got %d", cfg.TopK))
	}

	switch cfg.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Sprintf("PROVIDER must be %q or %q, got %q", ProviderOllama, ProviderOpenAI, cfg.Provider))
	}

	if !cfg.EnableMocks && cfg.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required when ENABLE_MOCKS=false")
	}

	if !cfg.EnableMocks && cfg.TriggerConnectorCfg.Url == "" {
		errs = append(errs, "TRIGGER_SERVICE_URL is required when ENABLE_MOCKS=false")
	}

	if cfg.Provider == ProviderOpenAI && !cfg.EnableMocks && cfg.OpenAICfg.APIKey == "" {
		errs = append(errs, "OPENAI_API_KEY is required when PROVIDER=openai")
	}

	if cfg.Provider == ProviderOllama && !cfg.EnableMocks {
		if cfg.EmbeddingConnectorCfg.Url == "" {
			errs = append(errs, "EMBEDDING_SERVICE_URL is required when PROVIDER=ollama")
		}
		if cfg.LLMConnectorCfg.Url == "" {
			errs = append(errs, "LLM_SERVICE_URL is required when PROVIDER=ollama")
		}
	}

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errs = append(errs, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
