// Package domain contains the core entities and rules of the fare discovery
// engine. These types are transport-agnostic and carry no engine state.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across the engine. Callers match them with errors.Is.
var (
	// ErrInvalidDescriptor indicates a malformed search descriptor.
	// It is raised before any network call and is never retried.
	ErrInvalidDescriptor = errors.New("invalid search descriptor")

	// ErrNoResults indicates a query that returned zero records where data
	// was expected. The remote service does not report throttling explicitly;
	// an empty result is its usual signature, so the orchestrator retries
	// once after a delay before accepting the emptiness as genuine.
	ErrNoResults = errors.New("no results")

	// ErrMalformedResponse indicates a response body that could not be
	// decoded at all (as opposed to one that decoded but yielded nothing).
	ErrMalformedResponse = errors.New("malformed response")
)

// TransportError wraps a connection, timeout, or non-2xx failure against a
// remote endpoint. Transport failures mark the owning work unit as failed;
// they are never silently retried inside the harvester or expander.
type TransportError struct {
	// Endpoint names the remote surface that failed (explore, calendar, rpc).
	Endpoint string

	// StatusCode is the HTTP status, or 0 for connection-level failures.
	StatusCode int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s endpoint: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s endpoint: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a TransportError for a connection-level failure.
func NewTransportError(endpoint string, err error) *TransportError {
	return &TransportError{Endpoint: endpoint, Err: err}
}

// NewStatusError creates a TransportError for a non-2xx response.
func NewStatusError(endpoint string, status int) *TransportError {
	return &TransportError{Endpoint: endpoint, StatusCode: status}
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
