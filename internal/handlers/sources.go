package handlers

import (
	"encoding/json"
	"net/http"

	"dory-ai/internal/contextutil"
	"dory-ai/internal/query"
)

// SourcesHandler reports the citations behind a session's last answer.
type SourcesHandler struct {
	engine query.Engine
}

// NewSourcesHandler creates a new SourcesHandler.
func NewSourcesHandler(engine query.Engine) *SourcesHandler {
	return &SourcesHandler{engine: engine}
}

// SourcesRequest represents the HTTP request payload for sources.
type SourcesRequest struct {
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
}

// SourcesResponse represents the HTTP response payload for sources.
type SourcesResponse struct {
	Sources []string `json:"sources"`
}

// ServeHTTP handles HTTP requests for sources.
func (h *SourcesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SourcesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" || req.ChannelID == "" {
		logger.WarnContext(ctx, "missing session identifiers")
		h.writeError(w, http.StatusBadRequest, "user_id and channel_id are required")
		return
	}

	sources, err := h.engine.Sources(ctx, req.UserID, req.ChannelID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load sources", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to load sources")
		return
	}
	if sources == nil {
		sources = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(SourcesResponse{Sources: sources}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (h *SourcesHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
