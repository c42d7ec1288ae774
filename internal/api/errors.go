package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure taxonomy for store calls. Transport errors are wrapped as-is;
// HTTP-level failures become an *APIError which unwraps to one of the
// sentinels below where a distinct reaction exists (401 triggers the
// refresh flow, 404 and 409 are surfaced without retry).
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// APIError is a non-2xx response from the record store.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("store returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("store returned %d", e.Status)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	}
	return nil
}
