package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"dory-ai/internal/contextutil"
	"dory-ai/internal/vault"
)

// noteMaxChars caps how much of a note the endpoint returns.
const noteMaxChars = 12000

// NoteHandler serves raw note content from the vault.
type NoteHandler struct {
	index *vault.Index
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(index *vault.Index) *NoteHandler {
	return &NoteHandler{index: index}
}

// NoteResponse represents the HTTP response payload for a note.
type NoteResponse struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// ServeHTTP handles HTTP requests for reading a note. The note is addressed
// by the "path" query parameter, relative to the vault root.
func (h *NoteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	relPath := r.URL.Query().Get("path")
	if relPath == "" {
		h.writeError(w, http.StatusBadRequest, "path query parameter is required")
		return
	}

	content, err := h.index.OpenNote(relPath, noteMaxChars)
	if err != nil {
		switch {
		case errors.Is(err, vault.ErrTraversal):
			logger.WarnContext(ctx, "note path escapes vault", "path", relPath)
			h.writeError(w, http.StatusBadRequest, "Invalid note path")
		case errors.Is(err, vault.ErrNoteNotFound):
			h.writeError(w, http.StatusNotFound, "Note not found")
		case errors.Is(err, vault.ErrNoVault):
			h.writeError(w, http.StatusServiceUnavailable, "No vault configured")
		default:
			logger.ErrorContext(ctx, "failed to open note", "path", relPath, "error", err)
			h.writeError(w, http.StatusInternalServerError, "Failed to open note")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(NoteResponse{Path: relPath, Content: content}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (h *NoteHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
