package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rmax-ai/skillgraph/pkg/controller"
	"github.com/rmax-ai/skillgraph/pkg/force"
	"github.com/rmax-ai/skillgraph/pkg/graph"
)

// ErrUnknownAction is returned for a step whose action is not recognized.
var ErrUnknownAction = errors.New("unknown action")

// DefaultFrameInterval is one frame at 30 fps.
const DefaultFrameInterval = time.Second / 30

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Parse decodes a YAML or JSON scenario.
func Parse(raw []byte) (Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Scenario{}, fmt.Errorf("failed to parse scenario: %w", err)
	}
	return s, nil
}

// LoadFile reads and parses a scenario file.
func LoadFile(path string) (Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(raw)
}

type session struct {
	ctrl     *controller.Controller
	sim      *force.Simulation
	now      time.Time
	interval time.Duration
	frames   int
}

func (ss *session) clock() time.Time { return ss.now }

func (ss *session) frame() {
	ss.now = ss.now.Add(ss.interval)
	ss.ctrl.Frame(ss.now)
	ss.sim.Tick(ss.now)
	ss.frames++
}

// advance runs frames for d, or n frames when d is zero.
func (ss *session) advance(ctx context.Context, n int, d time.Duration) error {
	if d > 0 {
		n = int(math.Ceil(float64(d) / float64(ss.interval)))
	}
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		ss.frame()
	}
	return nil
}

// Run plays s against ds on a synthetic clock and evaluates its invariants.
// Steps run back to back; only frames and rotate advance the clock.
func Run(ctx context.Context, ds *graph.Dataset, s Scenario, log *slog.Logger) (Result, error) {
	if log == nil {
		log = slog.Default()
	}
	if s.Seed == 0 {
		s.Seed = time.Now().UnixNano()
	}
	interval := s.FrameInterval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}

	ss := &session{now: epoch, interval: interval}
	ss.ctrl = controller.New(ds, controller.Options{
		Logger: log,
		Now:    ss.clock,
		Seed:   s.Seed,
		Width:  s.Width,
		Height: s.Height,
	})
	w, h := ss.ctrl.Size()
	ss.sim = force.New(ss.ctrl.Arena(), force.DefaultParams(), w, h)
	ss.sim.OnEngineStop(ss.ctrl.EngineStopped)
	ss.ctrl.Attach(ss.sim)
	defer ss.ctrl.Close()

	log.Info("Running scenario", "name", s.Name, "seed", s.Seed, "steps", len(s.Steps))

	res := Result{ScenarioName: s.Name, Seed: s.Seed}
	for i, step := range s.Steps {
		if err := ss.apply(ctx, step); err != nil {
			return res, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
		res.Steps++
	}

	res.Frames = ss.frames
	res.Elapsed = ss.now.Sub(epoch)
	res.Final = ss.snapshot()
	res.Invariants = evaluateInvariants(res.Final, s.Invariants)

	res.Success = true
	for _, inv := range res.Invariants {
		if !inv.Passed {
			res.Success = false
			break
		}
	}
	return res, nil
}

func (ss *session) apply(ctx context.Context, step Step) error {
	c := ss.ctrl
	switch step.Action {
	case ActionClick:
		c.Click(step.Target)
	case ActionHover:
		c.Hover(step.Target)
	case ActionExplode:
		c.Explode()
	case ActionReset:
		c.Reset()
	case ActionRotate:
		c.RotateStart(step.Clockwise)
		if err := ss.advance(ctx, step.Frames, step.Duration); err != nil {
			return err
		}
		c.RotateEnd()
	case ActionFit:
		c.ZoomToFit()
	case ActionZoomIn:
		c.ZoomIn()
	case ActionZoomOut:
		c.ZoomOut()
	case ActionFullscreen:
		c.ToggleFullscreen()
	case ActionResize:
		c.Resize(step.Width, step.Height)
	case ActionFrames:
		return ss.advance(ctx, step.Frames, step.Duration)
	default:
		return fmt.Errorf("%w %q", ErrUnknownAction, step.Action)
	}
	return nil
}

func (ss *session) snapshot() Snapshot {
	f := ss.ctrl.Filtered()
	return Snapshot{
		VisibleNodes: len(f.Nodes),
		VisibleEdges: len(f.Links),
		Disclosed:    ss.ctrl.Disclosed(),
		Zoom:         ss.sim.Zoom(),
		Highlighted:  len(ss.ctrl.Highlight().Nodes),
		Rotating:     ss.ctrl.Rotating(),
		Stable:       ss.sim.Stable(),
		Pending:      ss.ctrl.Pending(),
	}
}

func metric(snap Snapshot, name string) (float64, bool) {
	switch name {
	case "visible_nodes":
		return float64(snap.VisibleNodes), true
	case "visible_edges":
		return float64(snap.VisibleEdges), true
	case "disclosed":
		return float64(len(snap.Disclosed)), true
	case "zoom":
		return snap.Zoom, true
	case "highlighted":
		return float64(snap.Highlighted), true
	case "stable":
		return boolMetric(snap.Stable), true
	case "rotating":
		return boolMetric(snap.Rotating), true
	}
	return 0, false
}

func boolMetric(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func evaluateInvariants(snap Snapshot, invariants []Invariant) []InvariantResult {
	out := make([]InvariantResult, 0, len(invariants))
	for _, inv := range invariants {
		r := InvariantResult{
			Metric:   inv.Metric,
			Expected: fmt.Sprintf("%s %g", inv.Condition, inv.Value),
			Actual:   "N/A",
		}
		actual, ok := metric(snap, inv.Metric)
		if !ok {
			out = append(out, r)
			continue
		}
		r.Actual = fmt.Sprintf("%.4g", actual)

		switch inv.Condition {
		case ">":
			r.Passed = actual > inv.Value
		case ">=":
			r.Passed = actual >= inv.Value
		case "<":
			r.Passed = actual < inv.Value
		case "<=":
			r.Passed = actual <= inv.Value
		case "==":
			r.Passed = math.Abs(actual-inv.Value) < 0.0001
		}
		out = append(out, r)
	}
	return out
}
