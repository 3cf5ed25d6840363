package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"vrmt-search/internal/metrics"
	"vrmt-search/internal/rag"
	rag_mocks "vrmt-search/internal/rag/mocks"
	"vrmt-search/internal/storage"
	storage_mocks "vrmt-search/internal/storage/mocks"
)

type stubCollectionChecker struct{}

func (stubCollectionChecker) CollectionExists(ctx context.Context) (bool, error) {
	return true, nil
}

func newTestRouter(t *testing.T) (http.Handler, *rag_mocks.MockEngine, *storage_mocks.MockIngestRunStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	engine := rag_mocks.NewMockEngine(ctrl)
	runs := storage_mocks.NewMockIngestRunStore(ctrl)
	engine.EXPECT().Mode().Return(rag.ModeFiltered).AnyTimes()

	router := NewRouter(&Deps{
		Engine:      engine,
		VectorStore: stubCollectionChecker{},
		IngestRuns:  runs,
		Metrics:     metrics.New(),
	})
	return router, engine, runs
}

func TestNewRouter(t *testing.T) {
	router, _, _ := newTestRouter(t)
	if router == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		setup      func(*rag_mocks.MockEngine, *storage_mocks.MockIngestRunStore)
		wantStatus int
	}{
		{
			name:   "POST /search",
			method: http.MethodPost,
			path:   "/search",
			body:   `{"query":"how"}`,
			setup: func(e *rag_mocks.MockEngine, _ *storage_mocks.MockIngestRunStore) {
				e.EXPECT().Search(gomock.Any(), gomock.Any()).Return(rag.SearchResponse{Mode: rag.ModeFiltered, AppliedFilter: map[string]any{}}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST /search invalid body",
			method:     http.MethodPost,
			path:       "/search",
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /search method not allowed",
			method:     http.MethodGet,
			path:       "/search",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:   "GET /api/health",
			method: http.MethodGet,
			path:   "/api/health",
			setup: func(_ *rag_mocks.MockEngine, r *storage_mocks.MockIngestRunStore) {
				r.EXPECT().Latest(gomock.Any()).Return(nil, storage.ErrNotFound)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "GET /api/ingest/runs",
			method: http.MethodGet,
			path:   "/api/ingest/runs",
			setup: func(_ *rag_mocks.MockEngine, r *storage_mocks.MockIngestRunStore) {
				r.EXPECT().List(gomock.Any(), gomock.Any()).Return([]storage.IngestRunRecord{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /metrics",
			method:     http.MethodGet,
			path:       "/metrics",
			wantStatus: http.StatusOK,
		},
		{
			name:       "OPTIONS preflight",
			method:     http.MethodOptions,
			path:       "/search",
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, engine, runs := newTestRouter(t)
			if tt.setup != nil {
				tt.setup(engine, runs)
			}

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader("{"))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Router should apply CORS middleware")
	}
}
