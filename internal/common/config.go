package common

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/ideascout/constants"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	LLM    LLMConfig
	Scrape ScrapeConfig
	Queue  QueueConfig
	Store  StoreConfig
	Log    LogConfig
}

// ServerConfig holds listener addresses
type ServerConfig struct {
	HTTPAddr string
	GRPCAddr string
}

// LLMConfig holds analysis-client configuration
type LLMConfig struct {
	Provider      string // "ollama" or "openai"
	Endpoint      string
	Model         string
	APIKey        string
	OpenAIBaseURL string
	Timeout       time.Duration
}

// ScrapeConfig holds evidence-fetching configuration
type ScrapeConfig struct {
	FetchTimeout time.Duration
	NewsFeeds    []string
}

// QueueConfig holds job-execution configuration
type QueueConfig struct {
	Workers    int
	JobTimeout time.Duration
}

// StoreConfig selects the job repository backend
type StoreConfig struct {
	Backend string // "memory" or "sqlite"
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level slog.Level
}

// Supported LLM providers and store backends.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"

	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// LoadConfig loads an optional .env file and then reads configuration from
// environment variables. A missing env file is not an error.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	return &Config{
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
			GRPCAddr: getEnv("GRPC_ADDR", ":9090"),
		},
		LLM: LLMConfig{
			Provider:      strings.ToLower(getEnv("LLM_PROVIDER", ProviderOllama)),
			Endpoint:      getEnv("OLLAMA_ENDPOINT", "http://localhost:11434"),
			Model:         getEnv("LLM_MODEL", "llama3"),
			APIKey:        getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", constants.AnalysisTimeout),
		},
		Scrape: ScrapeConfig{
			FetchTimeout: getEnvAsDuration("FETCH_TIMEOUT", constants.FetchTimeout),
			NewsFeeds:    getEnvAsList("NEWS_FEEDS", constants.DefaultNewsFeeds),
		},
		Queue: QueueConfig{
			Workers:    getEnvAsInt("QUEUE_WORKERS", 4),
			JobTimeout: getEnvAsDuration("JOB_TIMEOUT", 15*time.Minute),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("JOB_STORE", StoreMemory)),
		},
		Log: LogConfig{
			Level: getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),
		},
	}, nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(value)); err != nil {
		return defaultValue
	}
	return lvl
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOllama:
		if c.LLM.Endpoint == "" {
			return NewAppError("CONFIG_ERROR", "OLLAMA_ENDPOINT is required", ErrInvalidInput)
		}
	case ProviderOpenAI:
		if c.LLM.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required when LLM_PROVIDER=openai", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "unsupported LLM_PROVIDER "+c.LLM.Provider, ErrInvalidInput)
	}
	if c.LLM.Timeout <= 0 {
		return NewAppError("CONFIG_ERROR", "LLM_TIMEOUT must be positive", ErrInvalidInput)
	}
	if c.Scrape.FetchTimeout <= 0 {
		return NewAppError("CONFIG_ERROR", "FETCH_TIMEOUT must be positive", ErrInvalidInput)
	}
	if c.Queue.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "QUEUE_WORKERS must be positive", ErrInvalidInput)
	}
	if c.Store.Backend != StoreMemory && c.Store.Backend != StoreSQLite {
		return NewAppError("CONFIG_ERROR", "unsupported JOB_STORE "+c.Store.Backend, ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}
