package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"vrmt-search/internal/contextutil"
	"vrmt-search/internal/metrics"
	"vrmt-search/internal/rag"
)

// SearchHandler handles HTTP requests for document search.
type SearchHandler struct {
	engine  rag.Engine
	metrics *metrics.Metrics
}

// NewSearchHandler creates a new SearchHandler. m may be nil.
func NewSearchHandler(engine rag.Engine, m *metrics.Metrics) *SearchHandler {
	return &SearchHandler{
		engine:  engine,
		metrics: m,
	}
}

// SearchRequest represents the HTTP request payload for searches.
//
// swagger:model SearchRequest
type SearchRequest struct {
	// The user's question
	Query string `json:"query"`

	// Optional equipment tag to restrict results to
	FocusTarget string `json:"focus_target,omitempty"`
}

// ServeHTTP handles HTTP requests for searches.
//
// swagger:route POST /search search
//
// # Search the indexed document
//
// In filtered mode the response is a SearchResponse object. In raw mode it is
// an array of chunk metadata objects in rank order.
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Search results
//	'400':
//	  description: Invalid body or missing query
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'502':
//	  description: Embedding provider or vector store failure
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	start := time.Now()
	mode := string(h.engine.Mode())

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		h.metrics.ObserveSearch(mode, "invalid", 0, time.Since(start))
		return
	}

	resp, err := h.engine.Search(ctx, rag.SearchRequest{
		Query:       req.Query,
		FocusTarget: req.FocusTarget,
	})
	if err != nil {
		status := handleServiceError(w, ctx, err, "Failed to process search")
		h.metrics.ObserveSearch(mode, outcomeFor(status), 0, time.Since(start))
		return
	}

	if resp.Mode == rag.ModeRaw {
		writeJSON(ctx, w, http.StatusOK, resp.Matches)
		h.metrics.ObserveSearch(mode, "ok", len(resp.Matches), time.Since(start))
		return
	}

	writeJSON(ctx, w, http.StatusOK, resp)
	h.metrics.ObserveSearch(mode, "ok", resp.MatchCount, time.Since(start))
}

func outcomeFor(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "invalid"
	case status >= 500:
		return "error"
	default:
		return "other"
	}
}
