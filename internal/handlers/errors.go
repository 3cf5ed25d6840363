package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"vrmt-search/internal/contextutil"
	"vrmt-search/internal/rag"
)

// ErrorResponse represents an error response.
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}

// writeJSON writes v with the given status.
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// handleServiceError maps retrieval errors to HTTP status codes and responses.
// It returns the status written.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) int {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *rag.ValidationError
	if errors.As(err, &validationErr) {
		logger.WarnContext(ctx, "validation error", "field", validationErr.Field, "error", err)
		writeError(w, http.StatusBadRequest, validationErr.Message)
		return http.StatusBadRequest
	}

	logger.ErrorContext(ctx, "service error", "error", err)

	if errors.Is(err, rag.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return http.StatusBadRequest
	}

	if errors.Is(err, rag.ErrExternalService) {
		writeError(w, http.StatusBadGateway, err.Error())
		return http.StatusBadGateway
	}

	if errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusGatewayTimeout, "Request timed out")
		return http.StatusGatewayTimeout
	}

	writeError(w, http.StatusInternalServerError, defaultMsg)
	return http.StatusInternalServerError
}
