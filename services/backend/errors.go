package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrBackendUnavailable means the backend could not be reached at all, or
// the circuit breaker is refusing calls.
var ErrBackendUnavailable = errors.New("backend unavailable")

// UnavailableMessage is shown to users when ErrBackendUnavailable occurs.
const UnavailableMessage = "Backend server is not running. Please start the backend server."

// ErrInvalidResponse wraps payloads that fail boundary validation.
var ErrInvalidResponse = errors.New("backend: invalid response")

const overlapMarker = "not available for selected dates"

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Conflict reports whether the backend rejected a booking for overlapping dates.
func (e *APIError) Conflict() bool {
	return e.Status == http.StatusConflict || strings.Contains(strings.ToLower(e.Message), overlapMarker)
}

func (e *APIError) NotFound() bool { return e.Status == http.StatusNotFound }

func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

func newAPIError(status int, message string) *APIError {
	if strings.TrimSpace(message) == "" {
		message = fmt.Sprintf("HTTP error! status: %d", status)
	}
	return &APIError{Status: status, Message: message}
}

// StatusOf returns the HTTP status carried by an APIError, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
