package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type action int

const (
	actionNone action = iota
	actionZoomOut
	actionZoomIn
	actionReset
	actionExplode
	actionRotateCCW
	actionRotateCW
	actionFit
	actionFullscreen
)

type button struct {
	label  string
	action action
	hold   bool // acts while pressed
}

var toolbarButtons = []button{
	{label: "−", action: actionZoomOut},
	{label: "+", action: actionZoomIn},
	{label: "reset", action: actionReset},
	{label: "explode", action: actionExplode},
	{label: "⟲", action: actionRotateCCW, hold: true},
	{label: "⟳", action: actionRotateCW, hold: true},
	{label: "fit", action: actionFit},
	{label: "full", action: actionFullscreen},
}

// Styles
var (
	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("237")).
			Padding(0, 1)
	activeButtonStyle = buttonStyle.
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("63")).
				Bold(true)
	toolbarStyle = lipgloss.NewStyle().Background(lipgloss.Color("235"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const buttonGap = 1

// buttonAt returns the toolbar action under column x.
func buttonAt(x int) (button, bool) {
	col := 0
	for _, b := range toolbarButtons {
		w := lipgloss.Width(buttonStyle.Render(b.label))
		if x >= col && x < col+w {
			return b, true
		}
		col += w + buttonGap
	}
	return button{}, false
}

func renderToolbar(width int, active action) string {
	parts := make([]string, 0, len(toolbarButtons))
	for _, b := range toolbarButtons {
		style := buttonStyle
		if b.action == active {
			style = activeButtonStyle
		}
		parts = append(parts, style.Render(b.label))
	}
	bar := strings.Join(parts, strings.Repeat(" ", buttonGap))
	return toolbarStyle.Width(width).MaxWidth(width).Render(bar)
}
