// Package tui renders the skills graph in a terminal with bubbletea and maps
// keys, mouse and toolbar presses onto controller operations.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/skillgraph/pkg/controller"
	"github.com/rmax-ai/skillgraph/pkg/force"
	"github.com/rmax-ai/skillgraph/pkg/graph"
	"github.com/rmax-ai/skillgraph/pkg/metrics"
	"github.com/rmax-ai/skillgraph/pkg/render"
)

// Options tune the terminal view.
type Options struct {
	FPS        int    // frame rate, default 30
	Background string // canvas colour, default #111111
}

func (o Options) withDefaults() Options {
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.Background == "" {
		o.Background = "#111111"
	}
	return o
}

type frameMsg time.Time

func frame(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// press tracks a left-button gesture that started on the graph.
type press struct {
	node  string
	moved bool
}

// Model is the bubbletea model of the graph view.
type Model struct {
	ctrl    *controller.Controller
	sim     *force.Simulation
	painter *render.Painter
	canvas  *render.TermCanvas

	keys keyMap
	help help.Model

	interval time.Duration
	frames   int
	width    int
	height   int

	hovered string
	press   *press
	button  action // toolbar button under a held press
}

// New returns a model driving ctrl, whose engine must be sim.
func New(ctrl *controller.Controller, sim *force.Simulation, painter *render.Painter, opts Options) Model {
	opts = opts.withDefaults()
	if painter == nil {
		painter = render.NewPainter()
	}
	return Model{
		ctrl:     ctrl,
		sim:      sim,
		painter:  painter,
		canvas:   render.NewTermCanvas(0, 0, opts.Background),
		keys:     newKeyMap(),
		help:     help.New(),
		interval: time.Second / time.Duration(opts.FPS),
	}
}

func (m Model) Init() tea.Cmd {
	return frame(m.interval)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		now := time.Time(msg)
		m.ctrl.Frame(now)
		m.sim.Tick(now)
		m.frames++
		return m, frame(m.interval)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Close()
		return *m, tea.Quit
	case key.Matches(msg, m.keys.ZoomIn):
		m.do(actionZoomIn)
	case key.Matches(msg, m.keys.ZoomOut):
		m.do(actionZoomOut)
	case key.Matches(msg, m.keys.Reset):
		m.do(actionReset)
	case key.Matches(msg, m.keys.Explode):
		m.do(actionExplode)
	case key.Matches(msg, m.keys.Fit):
		m.do(actionFit)
	case key.Matches(msg, m.keys.Fullscreen):
		m.do(actionFullscreen)
	case key.Matches(msg, m.keys.RotateCCW):
		m.toggleRotation(false)
	case key.Matches(msg, m.keys.RotateCW):
		m.toggleRotation(true)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	}
	return *m, nil
}

// toggleRotation stops a rotation in the same direction, otherwise starts
// or turns it.
func (m *Model) toggleRotation(clockwise bool) {
	if m.ctrl.Rotating() && m.ctrl.Clockwise() == clockwise {
		m.ctrl.RotateEnd()
		return
	}
	m.ctrl.RotateStart(clockwise)
}

func (m *Model) do(a action) {
	switch a {
	case actionZoomIn:
		m.ctrl.ZoomIn()
	case actionZoomOut:
		m.ctrl.ZoomOut()
	case actionReset:
		m.ctrl.Reset()
	case actionExplode:
		m.ctrl.Explode()
	case actionFit:
		m.ctrl.ZoomToFit()
	case actionFullscreen:
		m.ctrl.ToggleFullscreen()
		m.resize()
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.ctrl.ZoomIn()
		return
	case tea.MouseButtonWheelDown:
		m.ctrl.ZoomOut()
		return
	}

	top := m.chromeTop()
	onToolbar := top > 0 && msg.Y == 0
	at := cellPixel(msg.X, msg.Y-top)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if onToolbar {
			b, ok := buttonAt(msg.X)
			if !ok {
				return
			}
			m.button = b.action
			if b.hold {
				m.ctrl.RotateStart(b.action == actionRotateCW)
			}
			return
		}
		id, _ := m.sim.NodeAt(at.X, at.Y)
		m.press = &press{node: id}

	case tea.MouseActionMotion:
		if m.press != nil {
			if m.press.node == "" {
				return
			}
			if !m.press.moved {
				m.press.moved = true
				m.ctrl.DragStart(m.press.node)
			}
			w := m.sim.ToWorld(at)
			m.ctrl.DragMove(m.press.node, w.X, w.Y)
			return
		}
		if onToolbar {
			return
		}
		id, _ := m.sim.NodeAt(at.X, at.Y)
		if id != m.hovered {
			m.hovered = id
			m.ctrl.Hover(id)
		}

	case tea.MouseActionRelease:
		if held := m.button; held != actionNone {
			m.button = actionNone
			if held == actionRotateCCW || held == actionRotateCW {
				m.ctrl.RotateEnd()
				return
			}
			if b, ok := buttonAt(msg.X); ok && onToolbar && b.action == held {
				m.do(held)
			}
			return
		}
		if p := m.press; p != nil {
			m.press = nil
			switch {
			case p.moved:
				m.ctrl.DragEnd(p.node)
			case p.node != "":
				m.ctrl.Click(p.node)
			}
		}
	}
}

// cellPixel returns the viewport pixel at the centre of a graph cell.
func cellPixel(col, row int) graph.Vec {
	return graph.Vec{
		X: (float64(col) + 0.5) * render.CellWidth,
		Y: (float64(row) + 0.5) * render.CellHeight,
	}
}

// chromeTop is the number of rows above the graph.
func (m *Model) chromeTop() int {
	if m.ctrl.Fullscreen() {
		return 0
	}
	return 1
}

func (m *Model) chromeBottom() int {
	if m.ctrl.Fullscreen() {
		return 0
	}
	return lipgloss.Height(m.footer())
}

// resize fits the canvas between the toolbar and the footer and hands the
// new pixel size to the controller.
func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	rows := max(m.height-m.chromeTop()-m.chromeBottom(), 1)
	m.canvas.Resize(m.width, rows)
	w, h := m.canvas.Size()
	m.ctrl.Resize(w, h)
}

func (m *Model) footer() string {
	f := m.ctrl.Filtered()
	status := statusStyle.Render(fmt.Sprintf("nodes %d • links %d • zoom %.2f",
		len(f.Nodes), len(f.Links), m.sim.Zoom()))
	return lipgloss.JoinVertical(lipgloss.Left, status, m.help.View(m.keys))
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	start := time.Now()
	m.canvas.Clear()
	m.painter.Paint(m.canvas, render.Frame{
		Bodies:    m.sim.Bodies(),
		Links:     m.sim.Links(),
		Highlight: m.ctrl.Highlight(),
		View:      m.sim,
		Tick:      m.frames,
	})
	graphView := m.canvas.Render()
	metrics.FrameSeconds.Observe(time.Since(start).Seconds())

	if m.ctrl.Fullscreen() {
		return graphView
	}
	active := m.button
	if m.ctrl.Rotating() {
		active = actionRotateCCW
		if m.ctrl.Clockwise() {
			active = actionRotateCW
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		renderToolbar(m.width, active),
		graphView,
		m.footer(),
	)
}
