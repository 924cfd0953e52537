package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes. These are machine-stable: clients switch on them,
// so renaming one is a breaking API change.
const (
	ErrCodeNameTaken          = "name_taken"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeValidation         = "validation_error"
	ErrCodeNameConflict       = "name_conflict"
	ErrCodeNotFound           = "not_found"
	ErrCodeTokenRequired      = "token_required"
	ErrCodeTokenInvalid       = "invalid_token"
	ErrCodeStorage            = "storage_unavailable"
	ErrCodeInternal           = "internal_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeValidationError writes a 400 error response.
func writeValidationError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeValidation, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeStorageError maps a repository failure onto the HTTP response.
// Timeouts and cancellations become storage_unavailable, which clients may
// retry; everything else is an internal error. Storage error text never
// reaches the client.
func (s *Server) writeStorageError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("store call failed", "op", op, "error", err)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		writeError(w, http.StatusInternalServerError, ErrCodeStorage, "storage temporarily unavailable")
		return
	}
	writeInternalError(w, "internal server error")
}
