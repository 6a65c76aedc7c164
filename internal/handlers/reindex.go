package handlers

import (
	"encoding/json"
	"net/http"

	"dory-ai/internal/contextutil"
	"dory-ai/internal/vault"
)

// ReindexHandler handles HTTP requests for rebuilding the vault index.
type ReindexHandler struct {
	index *vault.Index
}

// NewReindexHandler creates a new ReindexHandler.
func NewReindexHandler(index *vault.Index) *ReindexHandler {
	return &ReindexHandler{index: index}
}

// ReindexResponse represents the response from the reindex endpoint.
type ReindexResponse struct {
	Notes    int `json:"notes"`
	Sections int `json:"sections"`
}

// ServeHTTP handles HTTP requests for rebuilding the index. The rebuild is
// synchronous; readers keep serving the previous snapshot until the new one
// is swapped in.
func (h *ReindexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	h.index.Build()
	logger.InfoContext(ctx, "vault index rebuilt",
		"notes", h.index.NoteCount(), "sections", h.index.SectionCount())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ReindexResponse{
		Notes:    h.index.NoteCount(),
		Sections: h.index.SectionCount(),
	}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (h *ReindexHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
