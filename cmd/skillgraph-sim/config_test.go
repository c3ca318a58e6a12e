package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("SKILLGRAPH_DATASET", "")
	t.Setenv("SKILLGRAPH_DB_PATH", "")
	t.Setenv("SKILLGRAPH_DATASET_NAME", "")

	cfg, err := LoadConfig([]string{"-scenario", "s.yaml", "-json", "-out", "r.json"})
	require.NoError(t, err)
	assert.Equal(t, "s.yaml", cfg.ScenarioPath)
	assert.True(t, cfg.JSON)
	assert.Equal(t, "r.json", cfg.Out)
	assert.Equal(t, "default", cfg.DatasetName)

	_, err = LoadConfig([]string{"extra"})
	assert.ErrorContains(t, err, "unexpected arguments")

	_, err = LoadConfig([]string{"-api", "http://x"})
	assert.ErrorContains(t, err, "flag provided but not defined")
}

func TestDatasetPath(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		scenario string
		want     string
	}{
		{"flag wins", Config{DatasetPath: "a.yaml", ScenarioPath: "s/x.yaml"}, "b.yaml", "a.yaml"},
		{"relative to scenario", Config{ScenarioPath: "scenarios/x.yaml"}, "skills.yaml", "scenarios/skills.yaml"},
		{"absolute", Config{ScenarioPath: "scenarios/x.yaml"}, "/data/skills.yaml", "/data/skills.yaml"},
		{"none", Config{ScenarioPath: "scenarios/x.yaml"}, "", ""},
		{"built-in scenario", Config{}, "skills.yaml", "skills.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.datasetPath(tt.scenario))
		})
	}
}
