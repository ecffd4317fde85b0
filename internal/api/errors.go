package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/authflow/internal/auth"
)

// Response is the envelope for every API outcome, success or failure.
// Data is omitted on failure; Code is omitted on success.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Machine-readable failure codes.
const (
	CodeBadRequest       = "bad_request"
	CodeValidation       = "validation_error"
	CodeDuplicateID      = "duplicate_identity"
	CodeInvalidCreds     = "invalid_credentials"
	CodeMissingToken     = "missing_token"
	CodeAuthFailed       = "authentication_failed"
	CodeTokenExpired     = "token_expired"
	CodeForbidden        = "forbidden"
	CodeNotFound         = "not_found"
	CodeStoreUnavailable = "store_unavailable"
	CodeInternal         = "internal_error"
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

// writeSuccess writes a success envelope.
func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// writeFailure writes a failure envelope.
func writeFailure(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Response{
		Success: false,
		Message: message,
		Code:    code,
	})
}

// writeBadRequest writes a 400 failure for unparseable requests.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeFailure(w, http.StatusBadRequest, CodeBadRequest, message)
}

// writeInternalError writes a 500 failure.
func writeInternalError(w http.ResponseWriter, message string) {
	writeFailure(w, http.StatusInternalServerError, CodeInternal, message)
}

// writeServiceError maps account service failures to the response envelope.
//
// Validation messages are user-facing and pass through verbatim; credential
// and store failures use fixed phrasing so nothing about the cause leaks
// beyond the coarse category.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrValidation):
		writeFailure(w, http.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, auth.ErrEmailExists):
		writeFailure(w, http.StatusConflict, CodeDuplicateID, "an account with that email already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeFailure(w, http.StatusUnauthorized, CodeInvalidCreds, "invalid email or password")
	case errors.Is(err, auth.ErrStoreUnavailable):
		writeFailure(w, http.StatusServiceUnavailable, CodeStoreUnavailable, "account store is unavailable, try again shortly")
	case errors.Is(err, auth.ErrAccountNotFound):
		writeFailure(w, http.StatusNotFound, CodeNotFound, "account not found")
	default:
		s.logger.Error("unhandled service error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		writeInternalError(w, "internal server error")
	}
}
