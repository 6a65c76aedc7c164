package handlers

import (
	"encoding/json"
	"net/http"

	"dory-ai/internal/contextutil"
	"dory-ai/internal/vault"
)

// SearchHandler exposes the raw disk search over the vault.
type SearchHandler struct {
	index       *vault.Index
	maxSnippets int
	windowLines int
}

// NewSearchHandler creates a new SearchHandler with the default result cap
// and context window size.
func NewSearchHandler(index *vault.Index, maxSnippets, windowLines int) *SearchHandler {
	return &SearchHandler{
		index:       index,
		maxSnippets: maxSnippets,
		windowLines: windowLines,
	}
}

// SearchRequest represents the HTTP request payload for search.
type SearchRequest struct {
	Query       string `json:"query"`
	MaxSnippets int    `json:"max_snippets,omitempty"`
}

// SearchResponse represents the HTTP response payload for search.
type SearchResponse struct {
	Snippets []vault.Snippet `json:"snippets"`
}

// ServeHTTP handles HTTP requests for search.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	maxSnippets := req.MaxSnippets
	if maxSnippets <= 0 {
		maxSnippets = h.maxSnippets
	}

	snippets := h.index.Search(req.Query, maxSnippets, h.windowLines)
	if snippets == nil {
		snippets = []vault.Snippet{}
	}
	logger.InfoContext(ctx, "vault search", "query", req.Query, "results", len(snippets))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(SearchResponse{Snippets: snippets}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (h *SearchHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
