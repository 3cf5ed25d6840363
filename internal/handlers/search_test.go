package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"vrmt-search/internal/metrics"
	"vrmt-search/internal/rag"
	rag_mocks "vrmt-search/internal/rag/mocks"
)

func TestSearchHandler_Filtered(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := rag_mocks.NewMockEngine(ctrl)
	engine.EXPECT().Mode().Return(rag.ModeFiltered).AnyTimes()
	engine.EXPECT().Search(gomock.Any(), rag.SearchRequest{Query: "yes", FocusTarget: "lehr"}).Return(rag.SearchResponse{
		Mode:          rag.ModeFiltered,
		ReferenceInfo: "--- Lehr ---\nbody",
		MatchCount:    1,
		AppliedFilter: map[string]any{"target": map[string]any{"$eq": "lehr"}},
	}, nil)

	handler := NewSearchHandler(engine, metrics.New())
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"yes","focus_target":"lehr"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want %v (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got["reference_info"] != "--- Lehr ---\nbody" {
		t.Errorf("reference_info = %v", got["reference_info"])
	}
	if got["match_count"] != float64(1) {
		t.Errorf("match_count = %v, want 1", got["match_count"])
	}
	filter, _ := got["applied_filter"].(map[string]any)
	target, _ := filter["target"].(map[string]any)
	if target["$eq"] != "lehr" {
		t.Errorf("applied_filter = %v, want target $eq lehr", got["applied_filter"])
	}
	if _, ok := got["Matches"]; ok {
		t.Error("filtered response should not include raw matches")
	}
}

func TestSearchHandler_Filtered_EmptyFilterIsObject(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := rag_mocks.NewMockEngine(ctrl)
	engine.EXPECT().Mode().Return(rag.ModeFiltered).AnyTimes()
	engine.EXPECT().Search(gomock.Any(), gomock.Any()).Return(rag.SearchResponse{
		Mode:          rag.ModeFiltered,
		AppliedFilter: map[string]any{},
	}, nil)

	handler := NewSearchHandler(engine, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"q"}`)))

	if !strings.Contains(w.Body.String(), `"applied_filter":{}`) {
		t.Errorf("body = %s, want applied_filter {}", w.Body.String())
	}
}

func TestSearchHandler_Raw(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := rag_mocks.NewMockEngine(ctrl)
	engine.EXPECT().Mode().Return(rag.ModeRaw).AnyTimes()
	engine.EXPECT().Search(gomock.Any(), gomock.Any()).Return(rag.SearchResponse{
		Mode: rag.ModeRaw,
		Matches: []map[string]any{
			{"title": "A", "text": "a"},
			{"title": "B", "text": "b"},
		},
	}, nil)

	handler := NewSearchHandler(engine, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query":"how"}`)))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want %v", w.Code, http.StatusOK)
	}
	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("raw response should be a JSON array: %v", err)
	}
	if len(got) != 2 || got[0]["title"] != "A" || got[1]["title"] != "B" {
		t.Errorf("matches = %v, want [A B]", got)
	}
}

func TestSearchHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		engineErr  error
		callEngine bool
		wantStatus int
		wantError  string
	}{
		{
			name:       "invalid JSON",
			body:       `{"query":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
		{
			name:       "missing query",
			body:       `{}`,
			callEngine: true,
			engineErr:  &rag.ValidationError{Field: "query", Message: "Missing query"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing query",
		},
		{
			name:       "downstream failure",
			body:       `{"query":"how"}`,
			callEngine: true,
			engineErr:  fmt.Errorf("failed to embed query: %w: %w", rag.ErrExternalService, errors.New("401")),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unexpected failure",
			body:       `{"query":"how"}`,
			callEngine: true,
			engineErr:  errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to process search",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			engine := rag_mocks.NewMockEngine(ctrl)
			engine.EXPECT().Mode().Return(rag.ModeRaw).AnyTimes()
			if tt.callEngine {
				engine.EXPECT().Search(gomock.Any(), gomock.Any()).Return(rag.SearchResponse{}, tt.engineErr)
			}

			handler := NewSearchHandler(engine, metrics.New())
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/search", bytes.NewBufferString(tt.body)))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %v, want %v", w.Code, tt.wantStatus)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp.Error == "" {
				t.Error("error message should not be empty")
			}
			if tt.wantError != "" && resp.Error != tt.wantError {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
			}
		})
	}
}

func TestSearchHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := rag_mocks.NewMockEngine(ctrl)
	engine.EXPECT().Mode().Return(rag.ModeFiltered).AnyTimes()

	handler := NewSearchHandler(engine, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %v, want %v", w.Code, http.StatusMethodNotAllowed)
	}
}
