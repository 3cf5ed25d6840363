package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"vrmt-search/internal/contextutil"
	"vrmt-search/internal/storage"
)

// CollectionChecker reports whether the vector collection is reachable.
type CollectionChecker interface {
	CollectionExists(ctx context.Context) (bool, error)
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	vectorStore        CollectionChecker
	runs               storage.IngestRunStore
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. runs may be nil.
func NewHealthHandler(vectorStore CollectionChecker, runs storage.IngestRunStore) *HealthHandler {
	return &HealthHandler{
		vectorStore:        vectorStore,
		runs:               runs,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall health status: "healthy" or "degraded"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// Most recent ingestion run, if any
	LastIngest *IngestRunResponse `json:"last_ingest,omitempty"`

	// List of issues (only present if status is degraded)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// swagger:route GET /api/health healthCheck
//
// # Health check endpoint
//
// Returns vector store reachability and the outcome of the last ingestion run.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: System is healthy
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
//	'503':
//	  description: System is degraded
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if h.checkVectorStore(checkCtx, logger) {
		checks["vector_store"] = "ok"
	} else {
		checks["vector_store"] = "error"
		issues = append(issues, "vector_store_unavailable")
	}

	response := HealthResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if h.runs != nil {
		run, err := h.runs.Latest(checkCtx)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			checks["ingest"] = "none"
		case err != nil:
			// The ledger is bookkeeping only; its failure does not degrade search.
			logger.WarnContext(ctx, "failed to read ingest ledger", "error", err)
			checks["ingest"] = "unknown"
		default:
			checks["ingest"] = run.Status
			resp := toIngestRunResponse(*run)
			response.LastIngest = &resp
			if run.Status != "succeeded" {
				issues = append(issues, "last_ingest_"+run.Status)
			}
		}
	}

	response.Status = "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		response.Status = "degraded"
		response.Issues = issues
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(ctx, w, httpStatus, response)
}

// checkVectorStore checks if the vector store is accessible.
func (h *HealthHandler) checkVectorStore(ctx context.Context, logger *slog.Logger) bool {
	exists, err := h.vectorStore.CollectionExists(ctx)
	if err != nil {
		logger.WarnContext(ctx, "vector store health check failed", "error", err)
		return false
	}
	if !exists {
		logger.WarnContext(ctx, "vector store collection does not exist")
		return false
	}
	return true
}
