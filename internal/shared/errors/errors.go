// Package errors provides the JSON error bodies shared by every service and the gateway.
package errors

import (
	"fmt"
	"net/http"
)

// APIError is an HTTP-facing failure rendered as {"error": message}.
type APIError struct {
	// Status is the HTTP status code for this occurrence.
	Status int `json:"-"`
	// Message is the human-readable reason returned to the caller.
	Message string `json:"error"`
	// Extensions holds additional top-level properties merged into the body.
	Extensions map[string]any `json:"-"`
}

// Error implements the error interface.
func (e APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// WithMessage returns a copy with the given message.
func (e APIError) WithMessage(message string) APIError {
	e.Message = message
	return e
}

// WithExtension returns a copy with an additional body property.
func (e APIError) WithExtension(key string, value any) APIError {
	ext := make(map[string]any, len(e.Extensions)+1)
	for k, v := range e.Extensions {
		ext[k] = v
	}
	ext[key] = value
	e.Extensions = ext
	return e
}

// Body returns the JSON object sent on the wire.
func (e APIError) Body() map[string]any {
	body := make(map[string]any, len(e.Extensions)+1)
	for k, v := range e.Extensions {
		body[k] = v
	}
	body["error"] = e.Message
	return body
}

// Templates for the statuses the services produce.
var (
	ErrBadRequest = APIError{Status: http.StatusBadRequest, Message: "Bad request"}

	ErrNotFound = APIError{Status: http.StatusNotFound, Message: "Not found"}

	ErrTooManyRequests = APIError{Status: http.StatusTooManyRequests, Message: "Too many requests"}

	ErrInternal = APIError{Status: http.StatusInternalServerError, Message: "Internal server error"}

	// ErrServiceUnavailable is returned when a downstream service cannot be reached.
	ErrServiceUnavailable = APIError{Status: http.StatusServiceUnavailable, Message: "Service unavailable"}
)

// BadRequest builds a 400 error with the given reason.
func BadRequest(message string) APIError {
	return ErrBadRequest.WithMessage(message)
}

// NotFound builds a 404 error with the given reason.
func NotFound(message string) APIError {
	return ErrNotFound.WithMessage(message)
}

// Internal builds a 500 error carrying the raw message.
func Internal(message string) APIError {
	return ErrInternal.WithMessage(message)
}
