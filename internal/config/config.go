package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration
type Config struct {
	CatalogPath      string // empty uses the embedded catalog
	Seed             int64  // 0 seeds from the clock
	LogLevel         string
	LogPretty        bool
	LogFile          string
	LLMAPIKey        string // empty keeps news offline
	LLMAPIURL        string
	LLMModel         string
	NarrativeTimeout time.Duration
	ShareURL         string // attached to share links when set
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		CatalogPath:      getEnv("DEXWARS_CATALOG", ""),
		Seed:             getEnvAsInt64("DEXWARS_SEED", 0),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogPretty:        getEnvAsBool("LOG_PRETTY", false),
		LogFile:          getEnv("DEXWARS_LOG_FILE", "dexwars.log"),
		LLMAPIKey:        getEnv("LLM_API_KEY", ""),
		LLMAPIURL:        getEnv("LLM_API_URL", ""),
		LLMModel:         getEnv("LLM_MODEL", ""),
		NarrativeTimeout: getEnvAsDuration("NARRATIVE_TIMEOUT", 20*time.Second),
		ShareURL:         getEnv("DEXWARS_SHARE_URL", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: LOG_LEVEL %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.NarrativeTimeout < 0 {
		return fmt.Errorf("%w: NARRATIVE_TIMEOUT must not be negative", ErrInvalidConfig)
	}
	if c.LLMAPIURL != "" {
		if u, err := url.Parse(c.LLMAPIURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: LLM_API_URL %q", ErrInvalidConfig, c.LLMAPIURL)
		}
	}
	if c.ShareURL != "" {
		if u, err := url.Parse(c.ShareURL); err != nil || u.Scheme == "" {
			return fmt.Errorf("%w: DEXWARS_SHARE_URL %q", ErrInvalidConfig, c.ShareURL)
		}
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
