package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Backend names for MODEL_BACKEND.
const (
	BackendLocal  = "local"
	BackendOpenAI = "openai"
)

// Config holds all configuration for the application.
type Config struct {
	VaultPath string
	DBPath    string
	APIPort   string

	ModelBackend string
	LLMBaseURL   string
	LLMModel     string
	LLMAPIKey    string
	LocalBin     string
	LocalArgs    string

	MaxSnippets     int
	MaxSnippetLines int
	SessionMaxTurns int
	RequestTimeout  time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		VaultPath:    getEnv("VAULT_PATH", ""),
		DBPath:       getEnv("DB_PATH", "./data/dory-ai.db"),
		APIPort:      getEnv("API_PORT", "8000"),
		ModelBackend: getEnv("MODEL_BACKEND", BackendLocal),
		LLMBaseURL:   getEnv("LLM_BASE_URL", "https://api.openai.com"),
		LLMModel:     getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMAPIKey:    getEnv("LLM_API_KEY", ""),
		LocalBin:     getEnv("LOCAL_BIN", "codex"),
		LocalArgs:    getEnv("LOCAL_ARGS", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
	}

	if cfg.MaxSnippets, err = getEnvInt("MAX_SNIPPETS", 10); err != nil {
		return nil, err
	}
	if cfg.MaxSnippetLines, err = getEnvInt("MAX_SNIPPET_LINES", 5); err != nil {
		return nil, err
	}
	if cfg.SessionMaxTurns, err = getEnvInt("SESSION_MAX_TURNS", 16); err != nil {
		return nil, err
	}
	timeoutS, err := getEnvInt("REQUEST_TIMEOUT_S", 60)
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = time.Duration(timeoutS) * time.Second

	// Validate the backend selection
	switch cfg.ModelBackend {
	case BackendLocal:
		if cfg.LocalBin == "" {
			return nil, fmt.Errorf("LOCAL_BIN is required for the local backend")
		}
	case BackendOpenAI:
		if cfg.LLMAPIKey == "" {
			return nil, fmt.Errorf("LLM_API_KEY is required for the openai backend")
		}
	default:
		return nil, fmt.Errorf("MODEL_BACKEND must be %q or %q, got %q", BackendLocal, BackendOpenAI, cfg.ModelBackend)
	}

	// Create ./data directory if it doesn't exist (for the session DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return parsed, nil
}
