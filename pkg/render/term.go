package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/rmax-ai/skillgraph/pkg/graph"
)

// Pixel size of one terminal cell.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

const glowAlpha = 0.3

type cell struct {
	r    rune // 0 marks the right half of a wide rune
	fg   colorful.Color
	bg   colorful.Color
	bold bool
}

// TermCanvas rasterises draw calls into a grid of terminal cells.
type TermCanvas struct {
	cols, rows int
	bg         colorful.Color
	cells      []cell
}

// NewTermCanvas returns a cleared cols×rows canvas on background bg (#rrggbb).
func NewTermCanvas(cols, rows int, bg string) *TermCanvas {
	t := &TermCanvas{bg: Hex(bg, 1).Color}
	t.Resize(cols, rows)
	return t
}

// Resize changes the grid size and clears it.
func (t *TermCanvas) Resize(cols, rows int) {
	t.cols, t.rows = max(cols, 0), max(rows, 0)
	t.cells = make([]cell, t.cols*t.rows)
	t.Clear()
}

// Clear resets every cell to the background.
func (t *TermCanvas) Clear() {
	for i := range t.cells {
		t.cells[i] = cell{r: ' ', fg: t.bg, bg: t.bg}
	}
}

// Grid returns the grid size in cells.
func (t *TermCanvas) Grid() (cols, rows int) {
	return t.cols, t.rows
}

// Size implements Canvas.
func (t *TermCanvas) Size() (float64, float64) {
	return float64(t.cols) * CellWidth, float64(t.rows) * CellHeight
}

func (t *TermCanvas) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= t.cols || row >= t.rows {
		return nil
	}
	return &t.cells[row*t.cols+col]
}

// put returns the cell at (col, row) ready to take a narrow glyph. Writing
// over either half of a wide rune blanks the other half.
func (t *TermCanvas) put(col, row int) *cell {
	c := t.at(col, row)
	if c == nil {
		return nil
	}
	if c.r == 0 {
		if left := t.at(col-1, row); left != nil {
			left.r = ' '
		}
		c.r = ' '
	} else if right := t.at(col+1, row); right != nil && right.r == 0 {
		right.r = ' '
	}
	return c
}

func toCell(p graph.Vec) (int, int) {
	return int(math.Floor(p.X / CellWidth)), int(math.Floor(p.Y / CellHeight))
}

// Rune returns the glyph at a cell, or false outside the grid.
func (t *TermCanvas) Rune(col, row int) (rune, bool) {
	c := t.at(col, row)
	if c == nil {
		return 0, false
	}
	return c.r, true
}

// Line implements Canvas.
func (t *TermCanvas) Line(a, b graph.Vec, s Stroke) {
	w, h := t.Size()
	a, b, ok := clip(a, b, w, h)
	if !ok {
		return
	}
	glyph := lineGlyph(b.X-a.X, b.Y-a.Y)

	c0, r0 := toCell(a)
	c1, r1 := toCell(b)
	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	e := dc + dr
	for i := 0; ; i++ {
		if !s.Dashed || i%2 == 0 {
			if c := t.put(c0, r0); c != nil {
				c.r = glyph
				c.fg = s.Over(c.bg)
				c.bold = s.Width > 1
			}
		}
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * e
		if e2 >= dr {
			e += dr
			c0 += sc
		}
		if e2 <= dc {
			e += dc
			r0 += sr
		}
	}
}

// Circle implements Canvas. Discs smaller than a cell occupy one cell.
func (t *TermCanvas) Circle(center graph.Vec, r float64, p Paint, glow bool) {
	cc, cr := toCell(center)
	switch {
	case r <= 1.5:
		t.dot(cc, cr, '•', p)
		return
	case r < CellWidth:
		t.dot(cc, cr, '●', p)
		if glow {
			t.halo(center, r, CellWidth, p)
		}
		return
	}

	minC, minR := toCell(graph.Vec{X: center.X - r, Y: center.Y - r})
	maxC, maxR := toCell(graph.Vec{X: center.X + r, Y: center.Y + r})
	filled := false
	for row := max(minR, 0); row <= min(maxR, t.rows-1); row++ {
		for col := max(minC, 0); col <= min(maxC, t.cols-1); col++ {
			if cellCenter(col, row).Sub(center).Len() > r {
				continue
			}
			t.dot(col, row, '█', p)
			filled = true
		}
	}
	if !filled {
		t.dot(cc, cr, '●', p)
	}
	if glow {
		t.halo(center, r, CellWidth, p)
	}
}

func (t *TermCanvas) dot(col, row int, glyph rune, p Paint) {
	if c := t.put(col, row); c != nil {
		c.r = glyph
		c.fg = p.Over(c.bg)
		c.bold = false
	}
}

// halo tints the background of the ring between r and r+width.
func (t *TermCanvas) halo(center graph.Vec, r, width float64, p Paint) {
	outer := r + width
	minC, minR := toCell(graph.Vec{X: center.X - outer, Y: center.Y - outer})
	maxC, maxR := toCell(graph.Vec{X: center.X + outer, Y: center.Y + outer})
	tint := Paint{Color: p.Color, Alpha: glowAlpha}
	for row := max(minR, 0); row <= min(maxR, t.rows-1); row++ {
		for col := max(minC, 0); col <= min(maxC, t.cols-1); col++ {
			d := cellCenter(col, row).Sub(center).Len()
			if d <= r || d > outer {
				continue
			}
			c := t.at(col, row)
			c.bg = tint.Over(c.bg)
		}
	}
}

// FillRect implements Canvas. Covered cells are blanked.
func (t *TermCanvas) FillRect(x, y, w, h float64, p Paint) {
	c0, r0 := toCell(graph.Vec{X: x, Y: y})
	c1, r1 := toCell(graph.Vec{X: x + w - 1e-9, Y: y + h - 1e-9})
	for row := max(r0, 0); row <= min(r1, t.rows-1); row++ {
		for col := max(c0, 0); col <= min(c1, t.cols-1); col++ {
			c := t.put(col, row)
			c.bg = p.Over(c.bg)
			c.r = ' '
		}
	}
}

// Text implements Canvas.
func (t *TermCanvas) Text(at graph.Vec, s string, st TextStyle) {
	width := runewidth.StringWidth(s)
	col := int(math.Round(at.X/CellWidth - float64(width)/2))
	_, row := toCell(at)
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		var next *cell
		if rw == 2 {
			next = t.put(col+1, row)
		}
		if c := t.put(col, row); c != nil {
			c.r = r
			c.fg = st.Over(c.bg)
			c.bold = st.Bold
			if rw == 2 {
				if next != nil {
					next.r = 0
				} else {
					c.r = ' '
				}
			}
		}
		col += rw
	}
}

// MeasureText implements Canvas.
func (t *TermCanvas) MeasureText(s string, _ TextStyle) float64 {
	return float64(runewidth.StringWidth(s)) * CellWidth
}

// Plain returns the glyphs without styling, one line per row.
func (t *TermCanvas) Plain() string {
	var sb strings.Builder
	for row := 0; row < t.rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < t.cols; col++ {
			if r := t.cells[row*t.cols+col].r; r != 0 {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}

// Render returns the grid styled with lipgloss, merging runs of cells that
// share a style.
func (t *TermCanvas) Render() string {
	var sb strings.Builder
	for row := 0; row < t.rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		var run strings.Builder
		var cur cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(cur.fg.Hex())).
				Background(lipgloss.Color(cur.bg.Hex())).
				Bold(cur.bold)
			sb.WriteString(style.Render(run.String()))
			run.Reset()
		}
		for col := 0; col < t.cols; col++ {
			c := t.cells[row*t.cols+col]
			if c.r == 0 {
				continue
			}
			if run.Len() > 0 && (c.fg != cur.fg || c.bg != cur.bg || c.bold != cur.bold) {
				flush()
			}
			cur = c
			run.WriteRune(c.r)
		}
		flush()
	}
	return sb.String()
}

func cellCenter(col, row int) graph.Vec {
	return graph.Vec{X: (float64(col) + 0.5) * CellWidth, Y: (float64(row) + 0.5) * CellHeight}
}

func lineGlyph(dx, dy float64) rune {
	// Compare in cell units so the glyph follows the visible slope.
	cx, cy := math.Abs(dx/CellWidth), math.Abs(dy/CellHeight)
	switch {
	case cy < cx*0.5:
		return '─'
	case cx < cy*0.5:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	}
	return '╱'
}

// clip trims segment ab to the rectangle [0,w)×[0,h) (Liang–Barsky).
func clip(a, b graph.Vec, w, h float64) (graph.Vec, graph.Vec, bool) {
	if w <= 0 || h <= 0 {
		return a, b, false
	}
	maxX, maxY := w-1e-9, h-1e-9
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.X},
		{dx, maxX - a.X},
		{-dy, a.Y},
		{dy, maxY - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, r)
		}
	}
	if math.IsNaN(t0) || math.IsNaN(t1) {
		return a, b, false
	}
	return graph.Vec{X: a.X + t0*dx, Y: a.Y + t0*dy}, graph.Vec{X: a.X + t1*dx, Y: a.Y + t1*dy}, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
