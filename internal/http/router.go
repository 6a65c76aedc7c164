package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dory-ai/internal/handlers"
	"dory-ai/internal/query"
	"dory-ai/internal/vault"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine      query.Engine
	Index       *vault.Index
	MaxSnippets int
	WindowLines int
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	chatHandler := handlers.NewChatHandler(deps.Engine)
	sourcesHandler := handlers.NewSourcesHandler(deps.Engine)
	searchHandler := handlers.NewSearchHandler(deps.Index, deps.MaxSnippets, deps.WindowLines)
	noteHandler := handlers.NewNoteHandler(deps.Index)
	reindexHandler := handlers.NewReindexHandler(deps.Index)
	healthHandler := handlers.NewHealthHandler(deps.Index)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodPost, "/sources", sourcesHandler)
		r.Method(http.MethodPost, "/search", searchHandler)
		r.Method(http.MethodGet, "/notes", noteHandler)
		r.Method(http.MethodPost, "/reindex", reindexHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
