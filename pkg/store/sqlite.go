package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store manages the SQLite connection and schema.
type Store struct {
	db *sql.DB
}

// NewStore initializes the SQLite database connection.
// It enables WAL mode for concurrency and durability.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Nodes and edges cascade with their dataset.
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the necessary tables if they don't exist.
func (s *Store) migrate() error {
	// Rows keep their document order in ord so a load rebuilds the dataset
	// exactly as it was saved.
	query := `
	CREATE TABLE IF NOT EXISTS datasets (
		name TEXT PRIMARY KEY,
		imported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS nodes (
		dataset TEXT NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
		ord INTEGER NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		level INTEGER NOT NULL,
		weight REAL NOT NULL,
		color TEXT NOT NULL,
		PRIMARY KEY (dataset, id)
	);

	CREATE TABLE IF NOT EXISTS node_details (
		dataset TEXT NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
		id TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		proficiency INTEGER NOT NULL DEFAULT 0,
		years INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (dataset, id)
	);

	CREATE TABLE IF NOT EXISTS edges (
		dataset TEXT NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
		ord INTEGER NOT NULL,
		source TEXT NOT NULL,
		target TEXT NOT NULL,
		category TEXT NOT NULL,
		weight REAL NOT NULL,
		PRIMARY KEY (dataset, ord)
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_ord ON nodes(dataset, ord);
	CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(dataset, source);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create dataset tables: %w", err)
	}

	return nil
}
