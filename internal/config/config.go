package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Intercom  IntercomConfig
	Chatwoot  ChatwootConfig
	Migration MigrationConfig
}

type IntercomConfig struct {
	APIURL string
	Token  string
}

type ChatwootConfig struct {
	BaseURL   string // Just the host, API paths are added by the client
	Token     string // Administrator or agent token; super admin tokens are rejected by the API
	AccountID int
	InboxID   int
}

type MigrationConfig struct {
	StartID          int
	EndID            int
	ItemDelay        time.Duration // Pause between conversations
	RateLimitBackoff time.Duration // Wait after a 429 before retrying contact creation
	MaxAttempts      int           // Contact creation attempts under rate limiting
	RequestTimeout   time.Duration
	DryRun           bool
	Verbose          bool
}

func New() *Config {
	return &Config{
		Intercom: IntercomConfig{
			APIURL: getEnvOrDefault("INTERCOM_API_URL", "https://api.intercom.io"),
			Token:  getEnvOrDefault("INTERCOM_API_TOKEN", "your_intercom_token"),
		},
		Chatwoot: ChatwootConfig{
			BaseURL:   getEnvOrDefault("CHATWOOT_BASE_URL", "https://your-chatwoot.example.com"),
			Token:     getEnvOrDefault("CHATWOOT_API_TOKEN", "your_chatwoot_token"),
			AccountID: getEnvIntOrDefault("CHATWOOT_ACCOUNT_ID", 1),
			InboxID:   getEnvIntOrDefault("CHATWOOT_INBOX_ID", 0),
		},
		Migration: MigrationConfig{
			ItemDelay:        getEnvDurationOrDefault("ITEM_DELAY", 2*time.Second),
			RateLimitBackoff: getEnvDurationOrDefault("RATE_LIMIT_BACKOFF", 5*time.Second),
			MaxAttempts:      getEnvIntOrDefault("MAX_ATTEMPTS", 3),
			RequestTimeout:   getEnvDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		},
	}
}

// LoadEnvFile loads variables from a dotenv file without overriding variables
// already present in the environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return NewConfigurationErrorWithCause("env-file", fmt.Sprintf("cannot load %s", path), err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
