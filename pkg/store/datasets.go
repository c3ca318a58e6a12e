package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rmax-ai/skillgraph/pkg/graph"
)

// SaveDataset stores ds under name, replacing any dataset of that name.
func (s *Store) SaveDataset(ctx context.Context, name string, ds *graph.Dataset) error {
	if name == "" {
		name = DefaultName
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to clear dataset %q: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO datasets (name, imported_at) VALUES (?, ?)`,
		name, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to insert dataset %q: %w", name, err)
	}

	nodeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (dataset, ord, id, name, category, level, weight, color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare node insert: %w", err)
	}
	defer nodeStmt.Close()
	detailStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO node_details (dataset, id, description, proficiency, years)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare node details insert: %w", err)
	}
	defer detailStmt.Close()
	for i, n := range ds.Nodes() {
		if _, err := nodeStmt.ExecContext(ctx, name, i, n.ID, n.Name, string(n.Category), n.Level, n.Weight, n.Color); err != nil {
			return fmt.Errorf("failed to insert node %q: %w", n.ID, err)
		}
		if d := n.Details; d != nil {
			if _, err := detailStmt.ExecContext(ctx, name, n.ID, d.Description, d.Proficiency, d.Years); err != nil {
				return fmt.Errorf("failed to insert details of node %q: %w", n.ID, err)
			}
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO edges (dataset, ord, source, target, category, weight)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()
	for i, e := range ds.Edges() {
		if _, err := edgeStmt.ExecContext(ctx, name, i, e.Source, e.Target, string(e.Category), e.Weight); err != nil {
			return fmt.Errorf("failed to insert edge %s->%s: %w", e.Source, e.Target, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dataset %q: %w", name, err)
	}
	return nil
}

// LoadDataset rebuilds the named dataset. Validation runs again with opts.
func (s *Store) LoadDataset(ctx context.Context, name string, opts ...graph.Option) (*graph.Dataset, error) {
	if name == "" {
		name = DefaultName
	}
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM datasets WHERE name = ?`, name).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset %q: %w", name, err)
	}

	nodes, err := s.loadNodes(ctx, name)
	if err != nil {
		return nil, err
	}
	edges, err := s.loadEdges(ctx, name)
	if err != nil {
		return nil, err
	}
	return graph.NewDataset(nodes, edges, opts...)
}

func (s *Store) loadNodes(ctx context.Context, name string) ([]graph.Node, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT n.id, n.name, n.category, n.level, n.weight, n.color,
			d.description, d.proficiency, d.years
		FROM nodes n
		LEFT JOIN node_details d ON d.dataset = n.dataset AND d.id = n.id
		WHERE n.dataset = ? ORDER BY n.ord ASC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []graph.Node
	for rows.Next() {
		var n graph.Node
		var cat string
		var desc sql.NullString
		var proficiency, years sql.NullInt64
		if err := rows.Scan(&n.ID, &n.Name, &cat, &n.Level, &n.Weight, &n.Color, &desc, &proficiency, &years); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		n.Category = graph.Category(cat)
		if desc.Valid {
			n.Details = &graph.Details{
				Description: desc.String,
				Proficiency: int(proficiency.Int64),
				Years:       int(years.Int64),
			}
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

func (s *Store) loadEdges(ctx context.Context, name string) ([]graph.Edge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, target, category, weight
		FROM edges WHERE dataset = ? ORDER BY ord ASC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	var edges []graph.Edge
	for rows.Next() {
		var e graph.Edge
		var cat string
		if err := rows.Scan(&e.Source, &e.Target, &cat, &e.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		e.Category = graph.EdgeCategory(cat)
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// ListDatasets returns every stored dataset ordered by name.
func (s *Store) ListDatasets(ctx context.Context) ([]DatasetInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.name, d.imported_at,
			(SELECT COUNT(*) FROM nodes n WHERE n.dataset = d.name),
			(SELECT COUNT(*) FROM edges e WHERE e.dataset = d.name)
		FROM datasets d ORDER BY d.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	defer rows.Close()

	var out []DatasetInfo
	for rows.Next() {
		var info DatasetInfo
		if err := rows.Scan(&info.Name, &info.ImportedAt, &info.Nodes, &info.Edges); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteDataset removes the named dataset with its nodes and edges.
func (s *Store) DeleteDataset(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete dataset %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}
