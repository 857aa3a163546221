package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"places-backend/internal/models"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusForError maps domain errors to HTTP status codes. Anything not in
// the taxonomy is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrInvalidID),
		errors.Is(err, models.ErrGeocodingFailed),
		errors.Is(err, models.ErrConstraintViolation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrOwnerNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrForbidden),
		errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON writes v as a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// respondError sends an error response with an explicit status code
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondDomainError sends an error response with the status derived from
// the error's kind
func respondDomainError(w http.ResponseWriter, err error) {
	respondError(w, err.Error(), statusForError(err))
}
