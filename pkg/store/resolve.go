package store

import (
	"context"
	"fmt"

	"github.com/rmax-ai/skillgraph/pkg/graph"
)

// ResolveDataset picks the dataset a binary serves: the file at path when
// set, else the named dataset in the database at dbPath when set, else the
// embedded default.
func ResolveDataset(ctx context.Context, path, dbPath, name string, opts ...graph.Option) (*graph.Dataset, error) {
	switch {
	case path != "":
		return graph.LoadFile(path, opts...)
	case dbPath != "":
		st, err := NewStore(dbPath)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		ds, err := st.LoadDataset(ctx, name, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s from %s: %w", name, dbPath, err)
		}
		return ds, nil
	}
	return graph.Default()
}
