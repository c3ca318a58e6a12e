package simulation

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmax-ai/skillgraph/pkg/graph/graphtest"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

const discloseScenario = `
name: disclose-branch
seed: 7
steps:
  - action: click
    target: branchA
  - action: frames
    duration: 2s
  - action: hover
    target: central
invariants:
  - {metric: visible_nodes, condition: "==", value: 7}
  - {metric: visible_edges, condition: "==", value: 6}
  - {metric: disclosed, condition: "==", value: 2}
  - {metric: highlighted, condition: "==", value: 3}
  - {metric: zoom, condition: ">", value: 0}
`

func TestParse_YAML(t *testing.T) {
	s, err := Parse([]byte(discloseScenario))
	require.NoError(t, err)
	assert.Equal(t, "disclose-branch", s.Name)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, ActionClick, s.Steps[0].Action)
	assert.Equal(t, 2*time.Second, s.Steps[1].Duration)
	assert.Len(t, s.Invariants, 5)
}

func TestParse_JSON(t *testing.T) {
	s, err := Parse([]byte(`{"name":"j","steps":[{"action":"frames","frames":3}]}`))
	require.NoError(t, err)
	require.Len(t, s.Steps, 1)
	assert.Equal(t, 3, s.Steps[0].Frames)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(discloseScenario), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.Seed)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRun_Disclose(t *testing.T) {
	s, err := Parse([]byte(discloseScenario))
	require.NoError(t, err)

	res, err := Run(context.Background(), graphtest.Fixture(t), s, quiet)
	require.NoError(t, err)
	for _, inv := range res.Invariants {
		assert.True(t, inv.Passed, "%s: expected %s, got %s", inv.Metric, inv.Expected, inv.Actual)
	}
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.Steps)
	assert.GreaterOrEqual(t, res.Frames, 60)
	assert.Equal(t, []string{"toolA1", "toolA2"}, res.Final.Disclosed)
	assert.Equal(t, time.Duration(res.Frames)*DefaultFrameInterval, res.Elapsed)
}

func TestRun_ExplodeThenReset(t *testing.T) {
	s := Scenario{
		Seed: 3,
		Steps: []Step{
			{Action: ActionExplode},
			{Action: ActionFrames, Duration: time.Second},
		},
	}
	res, err := Run(context.Background(), graphtest.Fixture(t), s, quiet)
	require.NoError(t, err)
	assert.Equal(t, len(graphtest.FixtureNodes), res.Final.VisibleNodes)
	assert.Len(t, res.Final.Disclosed, 3)

	s.Steps = append(s.Steps, Step{Action: ActionReset}, Step{Action: ActionFrames, Duration: 2 * time.Second})
	res, err = Run(context.Background(), graphtest.Fixture(t), s, quiet)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Final.VisibleNodes)
	assert.Empty(t, res.Final.Disclosed)
}

func TestRun_RotateReleases(t *testing.T) {
	s := Scenario{
		Seed:       1,
		Steps:      []Step{{Action: ActionRotate, Clockwise: true, Frames: 10}},
		Invariants: []Invariant{{Metric: "rotating", Condition: "==", Value: 0}},
	}
	res, err := Run(context.Background(), graphtest.Fixture(t), s, quiet)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 10, res.Frames)
}

func TestRun_ZoomAndFullscreen(t *testing.T) {
	s := Scenario{
		Seed: 1,
		Steps: []Step{
			{Action: ActionZoomIn},
			{Action: ActionZoomOut},
			{Action: ActionFit},
			{Action: ActionFullscreen},
			{Action: ActionResize, Width: 1024, Height: 768},
			{Action: ActionFrames, Frames: 2},
		},
	}
	res, err := Run(context.Background(), graphtest.Fixture(t), s, quiet)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Steps)
	assert.Contains(t, res.Final.Pending, "fit", "resize schedules a fit")
}

func TestRun_UnknownAction(t *testing.T) {
	s := Scenario{Steps: []Step{{Action: ActionExplode}, {Action: "teleport"}}}
	res, err := Run(context.Background(), graphtest.Fixture(t), s, quiet)
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Equal(t, 1, res.Steps)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := Scenario{Steps: []Step{{Action: ActionFrames, Frames: 10}}}
	_, err := Run(ctx, graphtest.Fixture(t), s, quiet)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluateInvariants(t *testing.T) {
	snap := Snapshot{VisibleNodes: 7, VisibleEdges: 6, Disclosed: []string{"a", "b"}, Zoom: 1.25, Highlighted: 3, Stable: true}

	tests := []struct {
		inv    Invariant
		passed bool
		actual string
	}{
		{Invariant{"visible_nodes", ">", 6}, true, "7"},
		{Invariant{"visible_nodes", ">", 7}, false, "7"},
		{Invariant{"visible_edges", ">=", 6}, true, "6"},
		{Invariant{"disclosed", "<", 3}, true, "2"},
		{Invariant{"zoom", "<=", 1.25}, true, "1.25"},
		{Invariant{"highlighted", "==", 3}, true, "3"},
		{Invariant{"stable", "==", 1}, true, "1"},
		{Invariant{"rotating", "==", 1}, false, "0"},
		{Invariant{"visible_nodes", "~", 7}, false, "7"},
		{Invariant{"latency", ">", 0}, false, "N/A"},
	}
	for _, tt := range tests {
		got := evaluateInvariants(snap, []Invariant{tt.inv})
		require.Len(t, got, 1)
		assert.Equal(t, tt.passed, got[0].Passed, "%+v", tt.inv)
		assert.Equal(t, tt.actual, got[0].Actual, "%+v", tt.inv)
	}
}
