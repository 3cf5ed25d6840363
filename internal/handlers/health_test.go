package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"vrmt-search/internal/storage"
	storage_mocks "vrmt-search/internal/storage/mocks"
)

type fakeCollectionChecker struct {
	exists bool
	err    error
}

func (f *fakeCollectionChecker) CollectionExists(ctx context.Context) (bool, error) {
	return f.exists, f.err
}

func TestHealthHandler(t *testing.T) {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		checker    *fakeCollectionChecker
		latest     *storage.IngestRunRecord
		latestErr  error
		wantStatus int
		wantState  string
		wantIngest string
	}{
		{
			name:       "healthy",
			checker:    &fakeCollectionChecker{exists: true},
			latest:     &storage.IngestRunRecord{ID: "r1", Status: "succeeded", UploadedCount: 12, StartedAt: started, FinishedAt: started.Add(time.Second)},
			wantStatus: http.StatusOK,
			wantState:  "healthy",
			wantIngest: "succeeded",
		},
		{
			name:       "no runs yet",
			checker:    &fakeCollectionChecker{exists: true},
			latestErr:  storage.ErrNotFound,
			wantStatus: http.StatusOK,
			wantState:  "healthy",
			wantIngest: "none",
		},
		{
			name:       "ledger failure does not degrade",
			checker:    &fakeCollectionChecker{exists: true},
			latestErr:  errors.New("database is locked"),
			wantStatus: http.StatusOK,
			wantState:  "healthy",
			wantIngest: "unknown",
		},
		{
			name:       "vector store down",
			checker:    &fakeCollectionChecker{err: errors.New("connection refused")},
			latestErr:  storage.ErrNotFound,
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "degraded",
			wantIngest: "none",
		},
		{
			name:       "collection missing",
			checker:    &fakeCollectionChecker{exists: false},
			latestErr:  storage.ErrNotFound,
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "degraded",
			wantIngest: "none",
		},
		{
			name:       "last ingest failed",
			checker:    &fakeCollectionChecker{exists: true},
			latest:     &storage.IngestRunRecord{ID: "r2", Status: "failed", Error: "rate limited", StartedAt: started, FinishedAt: started},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "degraded",
			wantIngest: "failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			runs := storage_mocks.NewMockIngestRunStore(ctrl)
			runs.EXPECT().Latest(gomock.Any()).Return(tt.latest, tt.latestErr)

			handler := NewHealthHandler(tt.checker, runs)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %v, want %v", w.Code, tt.wantStatus)
			}

			var resp HealthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantState {
				t.Errorf("Status = %q, want %q", resp.Status, tt.wantState)
			}
			if resp.Checks["ingest"] != tt.wantIngest {
				t.Errorf("Checks[ingest] = %q, want %q", resp.Checks["ingest"], tt.wantIngest)
			}
			if tt.latest != nil && (resp.LastIngest == nil || resp.LastIngest.ID != tt.latest.ID) {
				t.Errorf("LastIngest = %+v, want run %s", resp.LastIngest, tt.latest.ID)
			}
			if tt.wantState == "degraded" && len(resp.Issues) == 0 {
				t.Error("degraded response should list issues")
			}
		})
	}
}

func TestHealthHandler_NoLedger(t *testing.T) {
	handler := NewHealthHandler(&fakeCollectionChecker{exists: true}, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %v, want %v", w.Code, http.StatusOK)
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	handler := NewHealthHandler(&fakeCollectionChecker{exists: true}, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/health", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %v, want %v", w.Code, http.StatusMethodNotAllowed)
	}
}
