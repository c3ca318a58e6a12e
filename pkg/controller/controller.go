// Package controller wires visibility, highlight, layout and the force
// simulation into the interaction operations of the skills graph. All
// operations run on the frame loop's goroutine; timers and the rotation
// hook fire only from Frame.
package controller

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/rmax-ai/skillgraph/pkg/force"
	"github.com/rmax-ai/skillgraph/pkg/graph"
	"github.com/rmax-ai/skillgraph/pkg/highlight"
	"github.com/rmax-ai/skillgraph/pkg/layout"
	"github.com/rmax-ai/skillgraph/pkg/metrics"
	"github.com/rmax-ai/skillgraph/pkg/visibility"
)

// Engine is the simulation and camera surface the controller drives.
type Engine interface {
	SetGraph(f *graph.Filtered)
	Params() force.Params
	SetParams(p force.Params)
	Reheat()
	Pause()
	Resume()
	Zoom() float64
	ZoomTo(scale float64, d time.Duration)
	CenterAt(x, y float64, d time.Duration)
	Resize(w, h float64)
}

const hookRotate = "rotate"

// Controller owns the interaction state of one graph view.
type Controller struct {
	ds       *graph.Dataset
	arena    *graph.Arena
	vis      *visibility.State
	hl       highlight.Engine
	radial   *layout.Radial
	filtered *graph.Filtered

	engine Engine
	sched  *scheduler
	opts   Options
	log    *slog.Logger
	now    func() time.Time
	rng    *rand.Rand

	width, height float64
	rotating      bool
	clockwise     bool
	dragging      string
	fullscreen    bool
	closed        bool
}

// New creates a controller over ds. It is inert until Attach.
func New(ds *graph.Dataset, opts Options) *Controller {
	opts = opts.withDefaults()
	seed := opts.Seed
	if seed == 0 {
		seed = opts.Now().UnixNano()
	}
	c := &Controller{
		ds:     ds,
		arena:  graph.NewArena(ds),
		vis:    visibility.New(ds),
		radial: layout.NewRadial(opts.Layout),
		sched:  newScheduler(),
		opts:   opts,
		log:    opts.Logger,
		now:    opts.Now,
		rng:    rand.New(rand.NewSource(seed)),
		width:  opts.Width,
		height: opts.Height,
	}
	c.filtered = c.vis.Filtered()
	return c
}

// Attach hands the controller its engine, lays out the initial graph and
// schedules the first fit.
func (c *Controller) Attach(e Engine) {
	if e == nil || c.closed {
		return
	}
	c.engine = e
	e.Resize(c.width, c.height)
	e.SetGraph(c.filtered)
	c.updateGauges()
	c.applyLayout()
	e.Reheat()
	c.scheduleFit(c.opts.SettleDelay)
	c.log.Info("Controller attached", "nodes", len(c.filtered.Nodes), "links", len(c.filtered.Links))
}

// Attached reports whether an engine is wired and the controller is open.
func (c *Controller) Attached() bool {
	return c.engine != nil && !c.closed
}

// Frame runs due timers, then per-frame hooks.
func (c *Controller) Frame(now time.Time) {
	if c.closed {
		return
	}
	c.sched.run(now)
}

// Close cancels the rotation hook and every pending timer. Later calls to
// any operation are no-ops.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.stopRotation()
	c.sched.reset()
	c.closed = true
	c.log.Info("Controller closed")
}

// Arena returns the node arena shared with the engine.
func (c *Controller) Arena() *graph.Arena { return c.arena }

// Dataset returns the immutable dataset.
func (c *Controller) Dataset() *graph.Dataset { return c.ds }

// Filtered returns the current filtered graph.
func (c *Controller) Filtered() *graph.Filtered { return c.filtered }

// Disclosed returns the disclosed tool ids.
func (c *Controller) Disclosed() []string { return c.vis.Disclosed() }

// Highlight returns the current highlight set.
func (c *Controller) Highlight() highlight.Set { return c.hl.Current() }

// Rotating reports whether the rotation hook is installed.
func (c *Controller) Rotating() bool { return c.rotating }

// Clockwise reports the direction of the current or last rotation.
func (c *Controller) Clockwise() bool { return c.clockwise }

// Fullscreen reports the fullscreen flag.
func (c *Controller) Fullscreen() bool { return c.fullscreen }

// Size returns the viewport size.
func (c *Controller) Size() (float64, float64) { return c.width, c.height }

// Pending returns the names of pending timers, sorted.
func (c *Controller) Pending() []string { return c.sched.pending() }

// Hooks returns the number of registered per-frame hooks.
func (c *Controller) Hooks() int { return len(c.sched.hooks) }

// begin gates every public operation: it reports false before Attach and
// after Close, and otherwise records the operation.
func (c *Controller) begin(op string, args ...any) bool {
	if !c.Attached() {
		return false
	}
	metrics.InteractionsTotal.WithLabelValues(op).Inc()
	c.log.Debug("Interaction", append([]any{"op", op}, args...)...)
	return true
}

func (c *Controller) refilter() {
	c.filtered = c.vis.Filtered()
	c.engine.SetGraph(c.filtered)
	c.updateGauges()
	if cur := c.hl.Current(); cur.Active() {
		c.hl.Hover(c.filtered, cur.Hovered)
	}
}

func (c *Controller) updateGauges() {
	metrics.VisibleNodes.Set(float64(len(c.filtered.Nodes)))
	metrics.VisibleLinks.Set(float64(len(c.filtered.Links)))
}

func (c *Controller) applyLayout() {
	res := c.radial.Apply(c.filtered, c.arena, c.width, c.height)
	if len(res.Skipped) > 0 {
		c.log.Warn("Radial layout skipped nodes without a parent", "ids", res.Skipped)
	}
	c.log.Debug("Radial layout applied", "placed", len(res.Placed))
}

func (c *Controller) scheduleFit(d time.Duration) {
	c.sched.after(c.now(), timerFit, d, func() { c.fit() })
}
