package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/jaminalder/tictactoe-history/internal/domain"
)

const (
	ColorAccent    = "86"
	ColorHighlight = "205"
	ColorDanger    = "196"
	ColorMuted     = "241"
	ColorText      = "252"
	ColorX         = "33"
	ColorO         = "202"
	ColorWin       = "226"
)

// Styles contains shared style definitions used by the view.
var Styles = struct {
	Title    lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Normal   lipgloss.Style
	Hint     lipgloss.Style
	Popup    lipgloss.Style
	Error    lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Cell: lipgloss.NewStyle().
		Width(5).
		Align(lipgloss.Center).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(ColorMuted)),
	Selected: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorHighlight)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Popup: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2).
		Margin(1, 0),
	Error: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
}

var confettiGlyphs = []string{"*", "+", "•", "°", "·"}

var confettiColors = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color(ColorX)),
	lipgloss.NewStyle().Foreground(lipgloss.Color(ColorO)),
	lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWin)),
	lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHighlight)),
	lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent)),
}

func cellStyle(c domain.Cell, winning, cursor bool) lipgloss.Style {
	s := Styles.Cell
	switch c {
	case domain.X:
		s = s.Foreground(lipgloss.Color(ColorX)).Bold(true)
	case domain.O:
		s = s.Foreground(lipgloss.Color(ColorO)).Bold(true)
	}
	if winning {
		s = s.Background(lipgloss.Color(ColorWin)).Foreground(lipgloss.Color("0"))
	}
	if cursor {
		s = s.BorderForeground(lipgloss.Color(ColorHighlight))
	}
	return s
}
