package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound maps a 404 answer: an unknown node or dataset.
	ErrNotFound = errors.New("not found")
	// ErrBadRequest maps a 400 answer, e.g. expanding a tool.
	ErrBadRequest = errors.New("bad request")
)

// Status is the body of GET /v1/health.
type Status struct {
	Status string `json:"status"`
}

// Query selects the filtered graph to fetch.
type Query struct {
	Expand  []string // ids toggled in order
	All     bool     // disclose every tool, Expand is ignored
	Dataset string   // named dataset in the daemon's store
}

// StatusError is a non-2xx answer from the daemon.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Unwrap maps client-side failures to sentinels.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case 404:
		return ErrNotFound
	case 400:
		return ErrBadRequest
	}
	return nil
}
