package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"strings"

	"dory-ai/internal/config"
	"dory-ai/internal/http"
	"dory-ai/internal/llm"
	"dory-ai/internal/query"
	"dory-ai/internal/storage"
	"dory-ai/internal/vault"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// Initialize session database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	sessions := storage.NewSessionRepo(db, cfg.SessionMaxTurns)

	// Build the vault section index up front so the first query is fast.
	// A missing vault is not fatal: the API still serves chat and health.
	index := vault.NewIndex(cfg.VaultPath)
	if cfg.VaultPath != "" {
		index.Build()
		slog.Info("Vault index built", "path", cfg.VaultPath, "notes", index.NoteCount(), "sections", index.SectionCount())
	} else {
		slog.Warn("VAULT_PATH not set, vault lookups disabled")
	}

	// Select the answer generator backend
	var generator llm.Generator
	switch cfg.ModelBackend {
	case config.BackendOpenAI:
		generator = llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
		slog.Info("Using OpenAI-compatible backend", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModel)
	default:
		generator = llm.NewExecRunner(cfg.LocalBin, strings.Fields(cfg.LocalArgs), "")
		slog.Info("Using local exec backend", "bin", cfg.LocalBin)
	}

	engine := query.NewOrchestrator(index, generator, sessions, cfg.MaxSnippets, cfg.RequestTimeout)
	slog.Info("Query engine initialized")

	deps := &http.Deps{
		Engine:      engine,
		Index:       index,
		MaxSnippets: cfg.MaxSnippets,
		WindowLines: cfg.MaxSnippetLines,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
