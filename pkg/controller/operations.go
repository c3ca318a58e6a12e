package controller

import (
	"errors"
	"math"
	"time"

	"github.com/rmax-ai/skillgraph/pkg/force"
	"github.com/rmax-ai/skillgraph/pkg/graph"
	"github.com/rmax-ai/skillgraph/pkg/layout"
	"github.com/rmax-ai/skillgraph/pkg/visibility"
)

// Explode reveals every tool, scatters the graph into colour sectors and
// boosts repulsion of the upper levels for a few seconds.
func (c *Controller) Explode() {
	if !c.begin("explode") {
		return
	}
	c.stopRotation()
	c.cancelDrag()

	c.vis.ShowAll()
	c.refilter()
	for _, b := range c.arena.All() {
		if b.Node.Category != graph.CategoryCentral {
			c.arena.Unpin(b.Node.ID)
		}
	}
	layout.Scatter(c.filtered, c.arena, c.width, c.height, c.rng)

	c.engine.SetParams(force.DefaultParams().WithChargeScale(c.opts.ExplodeChargeScale,
		graph.CategoryCentral, graph.CategoryBranch, graph.CategoryDomain))
	c.engine.Reheat()
	c.sched.after(c.now(), timerExplodeForces, c.opts.ExplodeDuration, func() {
		c.engine.SetParams(force.DefaultParams())
	})
}

// Reset collapses every tool, restores default forces, re-runs the radial
// layout and fits the camera once the simulation has had time to settle.
func (c *Controller) Reset() {
	if !c.begin("reset") {
		return
	}
	c.stopRotation()
	c.sched.cancel(timerExplodeForces, timerDragForces, timerFitZoom)
	c.engine.Resume()
	c.cancelDrag()

	c.vis.Reset()
	c.refilter()
	c.engine.SetParams(force.DefaultParams())

	all := make([]string, 0, len(c.ds.Nodes()))
	for _, n := range c.ds.Nodes() {
		all = append(all, n.ID)
	}
	c.arena.Unpin(all...)

	c.applyLayout()
	c.engine.Reheat()
	c.scheduleFit(c.opts.SettleDelay)
}

// Click toggles disclosure below a level-≤2 node and re-lays out the graph.
// Clicks on tools do nothing.
func (c *Controller) Click(id string) {
	if !c.begin("click", "id", id) {
		return
	}
	if err := c.vis.Toggle(id); err != nil {
		if !errors.Is(err, visibility.ErrNotExpandable) {
			c.log.Warn("Click ignored", "id", id, "error", err)
		}
		return
	}
	c.stopRotation()
	c.cancelDrag()
	c.refilter()
	c.applyLayout()
	c.engine.Reheat()
	c.scheduleFit(c.opts.SettleDelay)
}

// Hover highlights the one-hop neighbourhood of id; an empty id clears it.
func (c *Controller) Hover(id string) {
	if !c.begin("hover", "id", id) {
		return
	}
	if id == "" {
		c.hl.Clear()
		return
	}
	c.hl.Hover(c.filtered, id)
}

// RotateStart installs the per-frame rotation hook. Calling it while already
// rotating only changes direction.
func (c *Controller) RotateStart(clockwise bool) {
	if !c.begin("rotate_start", "clockwise", clockwise) {
		return
	}
	c.clockwise = clockwise
	if c.rotating {
		return
	}
	c.rotating = true
	c.cancelDrag()

	ids := c.filtered.IDs()
	c.arena.Unpin(ids...)
	c.arena.Claim(graph.OwnerRotation, ids...)

	p := force.DefaultParams().WithChargeScale(c.opts.RotationForceScale,
		graph.CategoryCentral, graph.CategoryBranch, graph.CategoryDomain, graph.CategoryTool)
	p.LinkScale = c.opts.RotationForceScale
	c.engine.SetParams(p)

	c.sched.hook(hookRotate, func(_ time.Time) { c.rotateFrame() })
}

func (c *Controller) rotateFrame() {
	angle := c.opts.RotationStep
	if !c.clockwise {
		angle = -angle
	}
	center := layout.Center(c.width, c.height)
	for _, b := range c.arena.Bodies(c.filtered.IDs()) {
		if !b.Placed {
			continue
		}
		c.arena.Place(graph.OwnerRotation, b.Node.ID, b.Pos.Rotate(center, angle))
	}
	c.engine.Reheat()
}

// RotateEnd removes the rotation hook, pins every visible node where it
// stopped and restores the forces.
func (c *Controller) RotateEnd() {
	if !c.begin("rotate_end") {
		return
	}
	if !c.rotating {
		return
	}
	ids := c.filtered.IDs()
	for _, b := range c.arena.Bodies(ids) {
		if b.Placed {
			c.arena.Pin(b.Node.ID, b.Pos)
		}
	}
	c.stopRotation()
	c.engine.Reheat()
}

// stopRotation drops the hook and hands bodies back to the simulation
// without pinning them.
func (c *Controller) stopRotation() {
	if !c.rotating {
		return
	}
	c.sched.unhook(hookRotate)
	c.rotating = false
	for _, b := range c.arena.All() {
		if b.Owner() == graph.OwnerRotation {
			c.arena.Release(b.Node.ID)
		}
	}
	if c.engine != nil {
		c.engine.SetParams(force.DefaultParams())
	}
}

// ZoomToFit frames every visible node. It reports the computed target and
// whether anything was framed.
func (c *Controller) ZoomToFit() (Fit, bool) {
	if !c.begin("zoom_to_fit") {
		return Fit{}, false
	}
	return c.fit()
}

func (c *Controller) fit() (Fit, bool) {
	fit, ok := ComputeFit(c.arena.Bodies(c.filtered.IDs()), c.width, c.height, c.opts.FitPadding, c.opts.MaxFitZoom)
	if !ok {
		return fit, false
	}
	c.engine.Pause()
	c.engine.CenterAt(fit.Center.X, fit.Center.Y, c.opts.FitDuration)
	c.sched.after(c.now(), timerFitZoom, c.opts.FitZoomDelay, func() {
		c.engine.ZoomTo(fit.Scale, c.opts.FitDuration)
		c.engine.Resume()
	})
	c.log.Debug("Zoom to fit", "scale", fit.Scale, "x", fit.Center.X, "y", fit.Center.Y)
	return fit, true
}

// ZoomIn zooms in by one step.
func (c *Controller) ZoomIn() {
	if !c.begin("zoom_in") {
		return
	}
	c.zoomBy(c.opts.ZoomFactor)
}

// ZoomOut zooms out by one step.
func (c *Controller) ZoomOut() {
	if !c.begin("zoom_out") {
		return
	}
	c.zoomBy(1 / c.opts.ZoomFactor)
}

func (c *Controller) zoomBy(k float64) {
	z := c.engine.Zoom() * k
	z = math.Max(c.opts.MinZoom, math.Min(c.opts.MaxZoom, z))
	c.engine.ZoomTo(z, c.opts.ZoomDuration)
}

// ToggleFullscreen flips the fullscreen flag and cancels rotation and every
// pending timer. Temporary force changes end with their timers. The host
// follows up with Resize for the new viewport.
func (c *Controller) ToggleFullscreen() {
	if !c.begin("toggle_fullscreen") {
		return
	}
	c.stopRotation()
	c.sched.reset()
	c.engine.SetParams(force.DefaultParams())
	c.engine.Resume()
	c.fullscreen = !c.fullscreen
}

// DragStart hands the dragged node to the drag handler and frees every
// visible pin.
func (c *Controller) DragStart(id string) {
	if !c.begin("drag_start", "id", id) {
		return
	}
	if !c.filtered.Has(id) {
		return
	}
	c.stopRotation()
	c.arena.Unpin(c.filtered.IDs()...)
	c.arena.Claim(graph.OwnerDrag, id)
	c.dragging = id
	c.engine.Reheat()
}

// DragMove moves the dragged node to the world point (x, y).
func (c *Controller) DragMove(id string, x, y float64) {
	if !c.begin("drag_move", "id", id) {
		return
	}
	if c.dragging == "" || c.dragging != id {
		return
	}
	c.arena.Place(graph.OwnerDrag, id, graph.Vec{X: x, Y: y})
	c.engine.Reheat()
}

// DragEnd releases the node without pinning it and briefly widens the
// repulsion range so the graph settles smoothly.
func (c *Controller) DragEnd(id string) {
	if !c.begin("drag_end", "id", id) {
		return
	}
	if c.dragging == "" || c.dragging != id {
		return
	}
	c.dragging = ""
	c.arena.Unpin(id)
	c.arena.Release(id)

	p := c.engine.Params()
	p.DistanceMax = c.opts.DragDistanceMax
	c.engine.SetParams(p)
	c.engine.Reheat()
	c.sched.after(c.now(), timerDragForces, c.opts.DragRestoreDelay, func() {
		p := c.engine.Params()
		p.DistanceMax = graph.ChargeDistanceMax
		c.engine.SetParams(p)
	})
}

// cancelDrag hands a dragged body back to the simulation without the
// post-drag force change. Later DragMove and DragEnd calls for it are ignored.
func (c *Controller) cancelDrag() {
	if c.dragging == "" {
		return
	}
	c.arena.Release(c.dragging)
	c.dragging = ""
}

// Dragging returns the id being dragged, if any.
func (c *Controller) Dragging() string { return c.dragging }

// Resize records the viewport size and schedules a fit. It never re-runs
// the layout. The size is recorded even before Attach.
func (c *Controller) Resize(w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	c.width, c.height = w, h
	if !c.begin("resize", "width", w, "height", h) {
		return
	}
	c.engine.Resize(w, h)
	c.scheduleFit(c.opts.ResizeFitDelay)
}

// EngineStopped is the simulation cool-down callback: it fits the camera
// unless the user is rotating or dragging.
func (c *Controller) EngineStopped() {
	if !c.begin("engine_stopped") {
		return
	}
	if c.rotating || c.dragging != "" {
		return
	}
	c.fit()
}
