package handlers

import (
	"encoding/json"
	"net/http"

	"dory-ai/internal/contextutil"
	"dory-ai/internal/query"
)

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	engine query.Engine
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(engine query.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
	Text      string `json:"text"`
}

// ChatResponse represents the HTTP response payload for chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles HTTP requests for chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
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

	reply, err := h.engine.Chat(ctx, req.UserID, req.ChannelID, req.Text)
	if err != nil {
		logger.ErrorContext(ctx, "failed to answer chat message", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to process chat request")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ChatResponse{Reply: reply}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func (h *ChatHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}
