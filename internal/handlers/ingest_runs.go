package handlers

import (
	"net/http"
	"strconv"
	"time"

	"vrmt-search/internal/contextutil"
	"vrmt-search/internal/storage"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// IngestRunsHandler lists recent ingestion runs from the ledger.
type IngestRunsHandler struct {
	runs storage.IngestRunStore
}

// NewIngestRunsHandler creates a new IngestRunsHandler.
func NewIngestRunsHandler(runs storage.IngestRunStore) *IngestRunsHandler {
	return &IngestRunsHandler{runs: runs}
}

// IngestRunResponse is one ledger entry.
//
// swagger:model IngestRunResponse
type IngestRunResponse struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Namespace   string `json:"namespace"`
	Status      string `json:"status"`
	Chunks      int    `json:"chunks"`
	Uploaded    int    `json:"uploaded"`
	DeleteError string `json:"delete_error,omitempty"`
	Error       string `json:"error,omitempty"`
	StartedAt   string `json:"started_at"`
	FinishedAt  string `json:"finished_at"`
	DurationMs  int64  `json:"duration_ms"`
}

// IngestRunsResponse wraps the run list.
//
// swagger:model IngestRunsResponse
type IngestRunsResponse struct {
	Runs []IngestRunResponse `json:"runs"`
}

// ServeHTTP handles HTTP requests for the ingestion ledger.
//
// swagger:route GET /api/ingest/runs listIngestRuns
//
// # List recent ingestion runs
//
// Newest first. The limit query parameter defaults to 20 and is capped at 100.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Recent runs
//	  schema:
//	    "$ref": "#/definitions/IngestRunsResponse"
//	'400':
//	  description: Invalid limit
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *IngestRunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			logger.WarnContext(ctx, "invalid limit", "limit", raw)
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRunsLimit)
	}

	runs, err := h.runs.List(ctx, limit)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list ingest runs", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list ingest runs")
		return
	}

	resp := IngestRunsResponse{Runs: make([]IngestRunResponse, 0, len(runs))}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, toIngestRunResponse(run))
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}

func toIngestRunResponse(run storage.IngestRunRecord) IngestRunResponse {
	return IngestRunResponse{
		ID:          run.ID,
		Source:      run.Source,
		Namespace:   run.Namespace,
		Status:      run.Status,
		Chunks:      run.ChunkCount,
		Uploaded:    run.UploadedCount,
		DeleteError: run.DeleteError,
		Error:       run.Error,
		StartedAt:   run.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt:  run.FinishedAt.UTC().Format(time.RFC3339),
		DurationMs:  run.FinishedAt.Sub(run.StartedAt).Milliseconds(),
	}
}
