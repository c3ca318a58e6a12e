package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	Reset      key.Binding
	Explode    key.Binding
	RotateCCW  key.Binding
	RotateCW   key.Binding
	Fit        key.Binding
	Fullscreen key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func (km keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		km.ZoomIn,
		km.ZoomOut,
		km.Explode,
		km.Reset,
		km.Fit,
		km.Help,
		km.Quit,
	}
}

func (km keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.ZoomIn, km.ZoomOut, km.Fit},
		{km.Explode, km.Reset},
		{km.RotateCCW, km.RotateCW, km.Fullscreen},
		{km.Help, km.Quit},
	}
}

func newKeyMap() keyMap {
	return keyMap{
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Explode: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "explode"),
		),
		RotateCCW: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "rotate ccw"),
		),
		RotateCW: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "rotate cw"),
		),
		Fit: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fit"),
		),
		Fullscreen: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "fullscreen"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
