package graph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rmax-ai/skillgraph/data"
)

// Parse decodes a YAML (or JSON) document into a validated dataset.
func Parse(raw []byte, opts ...Option) (*Dataset, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	return NewDataset(doc.Nodes, doc.Edges, opts...)
}

// LoadFile reads and parses a dataset file.
func LoadFile(path string, opts ...Option) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return Parse(raw, opts...)
}

// Default returns the embedded skills dataset.
func Default() (*Dataset, error) {
	return Parse(data.Skills())
}

// Encode serializes the dataset as YAML.
func (d *Dataset) Encode() ([]byte, error) {
	return yaml.Marshal(d.Document())
}
