package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"vrmt-search/internal/handlers"
	"vrmt-search/internal/metrics"
	"vrmt-search/internal/rag"
	"vrmt-search/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine      rag.Engine
	VectorStore handlers.CollectionChecker
	IngestRuns  storage.IngestRunStore
	Metrics     *metrics.Metrics // optional
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	// Add CORS middleware
	r.Use(CORS)

	r.Method(http.MethodPost, "/search", handlers.NewSearchHandler(deps.Engine, deps.Metrics))

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.VectorStore, deps.IngestRuns))
		if deps.IngestRuns != nil {
			r.Method(http.MethodGet, "/ingest/runs", handlers.NewIngestRunsHandler(deps.IngestRuns))
		}
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	return r
}
