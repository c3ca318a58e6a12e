package simulation

import (
	"time"
)

// ActionType names a scripted interaction.
type ActionType string

const (
	ActionClick      ActionType = "click"
	ActionHover      ActionType = "hover"
	ActionExplode    ActionType = "explode"
	ActionReset      ActionType = "reset"
	ActionRotate     ActionType = "rotate" // hold for Duration, then release
	ActionFit        ActionType = "fit"
	ActionZoomIn     ActionType = "zoom_in"
	ActionZoomOut    ActionType = "zoom_out"
	ActionFullscreen ActionType = "fullscreen"
	ActionResize     ActionType = "resize"
	ActionFrames     ActionType = "frames" // advance the clock
)

// Scenario is a scripted interaction session with checks on its end state.
type Scenario struct {
	Name          string        `json:"name" yaml:"name"`
	Description   string        `json:"description" yaml:"description"`
	Seed          int64         `json:"seed" yaml:"seed"` // Deterministic seed
	Dataset       string        `json:"dataset,omitempty" yaml:"dataset,omitempty"`
	FrameInterval time.Duration `json:"frame_interval,omitempty" yaml:"frame_interval,omitempty"`
	Width         float64       `json:"width,omitempty" yaml:"width,omitempty"`
	Height        float64       `json:"height,omitempty" yaml:"height,omitempty"`
	Steps         []Step        `json:"steps" yaml:"steps"`
	Invariants    []Invariant   `json:"invariants,omitempty" yaml:"invariants,omitempty"`
}

// Step is one scripted interaction. Frames and Duration both advance the
// clock; Duration wins when both are set.
type Step struct {
	Action    ActionType    `json:"action" yaml:"action"`
	Target    string        `json:"target,omitempty" yaml:"target,omitempty"`
	Clockwise bool          `json:"clockwise,omitempty" yaml:"clockwise,omitempty"`
	Frames    int           `json:"frames,omitempty" yaml:"frames,omitempty"`
	Duration  time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
	Width     float64       `json:"width,omitempty" yaml:"width,omitempty"`
	Height    float64       `json:"height,omitempty" yaml:"height,omitempty"`
}

type Invariant struct {
	Metric    string  `json:"metric" yaml:"metric"`       // e.g., "visible_nodes", "zoom"
	Condition string  `json:"condition" yaml:"condition"` // e.g., ">", "<", ">=", "<=", "=="
	Value     float64 `json:"value" yaml:"value"`
}

type InvariantResult struct {
	Metric   string `json:"metric"`
	Expected string `json:"expected"` // e.g. ">= 7"
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`
}

// Snapshot is the observable view state after a scenario.
type Snapshot struct {
	VisibleNodes int      `json:"visible_nodes"`
	VisibleEdges int      `json:"visible_edges"`
	Disclosed    []string `json:"disclosed"`
	Zoom         float64  `json:"zoom"`
	Highlighted  int      `json:"highlighted"`
	Rotating     bool     `json:"rotating"`
	Stable       bool     `json:"stable"`
	Pending      []string `json:"pending"`
}

// Result captures the final state of the scenario for reporting
type Result struct {
	ScenarioName string            `json:"scenario_name"`
	Seed         int64             `json:"seed"`
	Steps        int               `json:"steps"`
	Frames       int               `json:"frames"`
	Elapsed      time.Duration     `json:"elapsed"` // simulated time
	Final        Snapshot          `json:"final"`
	Invariants   []InvariantResult `json:"invariants"`
	Success      bool              `json:"success"`
}
