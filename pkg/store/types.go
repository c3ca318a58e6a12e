// Package store persists skills datasets in SQLite.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a named dataset does not exist.
var ErrNotFound = errors.New("dataset not found")

// DefaultName is the dataset name used when none is given.
const DefaultName = "default"

// DatasetInfo summarizes a stored dataset.
type DatasetInfo struct {
	Name       string    `json:"name"`
	ImportedAt time.Time `json:"imported_at"`
	Nodes      int       `json:"nodes"`
	Edges      int       `json:"edges"`
}
