package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/aiwb/chatbot-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8001"`

	// Database configuration. DATABASE_URL is optional: when empty the
	// document registry runs disabled.
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Chunking configuration
	ChunkingCfg ChunkingConfig `envPrefix:"CHUNK_"`

	// Conversation history configuration
	ConversationCfg ConversationConfig `envPrefix:"CONVERSATION_"`

	// External service configurations
	OpenAICfg   OpenAIConfig   `envPrefix:"OPENAI_"`
	PineconeCfg PineconeConfig `envPrefix:"PINECONE_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Mock configuration: replaces the OpenAI and Pinecone connectors with
	// in-memory implementations.
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// ChunkingConfig holds the text chunking parameters.
type ChunkingConfig struct {
	Size    int `env:"SIZE" envDefault:"1000"`
	Overlap int `env:"OVERLAP" envDefault:"200"`
}

// ConversationConfig bounds the per-conversation history.
type ConversationConfig struct {
	MaxHistory int `env:"MAX_HISTORY" envDefault:"10"`
	// TTL 0 keeps conversations for the process lifetime.
	TTL time.Duration `env:"TTL" envDefault:"0"`
}

// OpenAIConfig configures the embeddings/chat connector. An empty API key
// disables the language-model capability.
type OpenAIConfig struct {
	APIKey             string               `env:"API_KEY"`
	ChatModel          string               `env:"CHAT_MODEL" envDefault:"gpt-4o-mini"`
	EmbeddingModel     string               `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	EmbeddingDimension int                  `env:"EMBEDDING_DIMENSION" envDefault:"1536"`
	Temperature        float64              `env:"TEMPERATURE" envDefault:"0.1"`
	MaxTokens          int                  `env:"MAX_TOKENS" envDefault:"1000"`
	Retry              pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// Enabled reports whether the language-model capability is configured.
func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != ""
}

// PineconeConfig configures the vector-store connector. Missing credentials
// disable the vector-store capability.
type PineconeConfig struct {
	HTTPClientConfig
	APIKey    string               `env:"API_KEY"`
	IndexHost string               `env:"INDEX_HOST"`
	Retry     pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// Enabled reports whether the vector-store capability is configured.
func (c PineconeConfig) Enabled() bool {
	return c.APIKey != "" && c.IndexHost != ""
}

// HTTPClientConfig holds outbound HTTP client tuning.
type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"20s"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"26214400"`  // 25 MiB
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32 MiB multipart budget
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken      string `env:"BOT_TOKEN"`
	UpdateTimeout int    `env:"UPDATE_TIMEOUT" envDefault:"30"`
	// Tenant used for chats that never ran /business.
	DefaultBusinessID string `env:"DEFAULT_BUSINESS_ID"`
}

// Enabled reports whether the Telegram front-end is configured.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != ""
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
	if cfg.ChunkingCfg.Size <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", cfg.ChunkingCfg.Size)
	}

	if cfg.ChunkingCfg.Overlap < 0 || cfg.ChunkingCfg.Overlap >= cfg.ChunkingCfg.Size {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", cfg.ChunkingCfg.Overlap)
	}

	if cfg.ConversationCfg.MaxHistory < 2 {
		return fmt.Errorf("CONVERSATION_MAX_HISTORY must be at least 2, got %d", cfg.ConversationCfg.MaxHistory)
	}

	if cfg.DatabaseURL != "" {
		if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
			return fmt.Errorf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns)
		}

		if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns)
		}
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
