package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"dory-ai/internal/contextutil"
	"dory-ai/internal/vault"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	index *vault.Index
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(index *vault.Index) *HealthHandler {
	return &HealthHandler{index: index}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "degraded"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is degraded)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks. The service is degraded
// when no vault is configured or the index is empty; it still answers chat,
// so degradation is reported with 200.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checks := make(map[string]string)
	var issues []string

	if h.index.Root() == "" {
		checks["vault"] = "unconfigured"
		issues = append(issues, "vault_not_configured")
	} else if h.index.Empty() {
		checks["vault"] = "empty"
		issues = append(issues, "vault_index_empty")
	} else {
		checks["vault"] = "ok"
	}

	status := "healthy"
	if len(issues) > 0 {
		status = "degraded"
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	if len(issues) > 0 {
		response.Issues = issues
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}
