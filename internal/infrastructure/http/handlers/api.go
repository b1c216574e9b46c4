// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	apperrors "github.com/forkful/v1/pkg/errors"
)

// APIResponse represents a standard API response envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError renders an error with the status its code maps to. Errors
// that are not AppErrors surface as opaque 500s.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Error("unexpected error", zap.Error(err), zap.String("path", r.URL.Path))
		appErr = apperrors.NewInternalError("")
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("code", string(appErr.Code)),
			zap.Error(appErr),
		)
	}

	requestID := chimiddleware.GetReqID(r.Context())
	writeJSON(w, logger, status, apperrors.ToErrorResponse(appErr, requestID))
}

// MethodNotAllowed replaces the router's plain-text 405 with the
// standard error envelope.
func MethodNotAllowed(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, logger, apperrors.NewMethodNotAllowedError())
	}
}

// decodeJSON decodes a request body into dst, mapping malformed input
// to a validation error.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid JSON body")
	}
	return nil
}
