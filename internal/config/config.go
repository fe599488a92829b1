package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all client configuration.
type Config struct {
	// APIBaseURL is the base URL of the assessment platform API.
	APIBaseURL string

	// UserID identifies the student to the platform.
	UserID string

	LogLevel string
	LogFile  string

	// DBPath overrides the default local history database location.
	DBPath string

	// FetchTimeout bounds assessment fetch and finish calls.
	FetchTimeout time.Duration
	// ChatTimeout bounds tutoring chat calls (LLM-backed, slower).
	ChatTimeout time.Duration
	// ValidateTimeout bounds answer-validation calls.
	ValidateTimeout time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// It loads a .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		APIBaseURL:      getEnv("SOCRATIC_API_URL", "http://127.0.0.1:8000"),
		UserID:          getEnv("SOCRATIC_USER_ID", ""),
		LogLevel:        getEnv("SOCRATIC_LOG_LEVEL", "info"),
		LogFile:         getEnv("SOCRATIC_LOG_FILE", ""),
		DBPath:          getEnv("SOCRATIC_DB", ""),
		FetchTimeout:    time.Duration(getEnvInt("SOCRATIC_FETCH_TIMEOUT_SECS", 15)) * time.Second,
		ChatTimeout:     time.Duration(getEnvInt("SOCRATIC_CHAT_TIMEOUT_SECS", 30)) * time.Second,
		ValidateTimeout: time.Duration(getEnvInt("SOCRATIC_VALIDATE_TIMEOUT_SECS", 10)) * time.Second,
	}
}

// ConfigDir returns the directory holding credentials and other client state,
// honoring XDG_CONFIG_HOME.
func ConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "socratic"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "socratic"), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
