package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888899"))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ffaa00"))

	Positive = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	Negative = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	Badge = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#1a001a")).
		Background(lipgloss.Color("#ff00ff")).
		Padding(0, 1)

	tableBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("#444466"))
	tableHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ccff")).Padding(0, 1)
	tableCell   = lipgloss.NewStyle().Padding(0, 1)
)

// Group colours; the same index is used on the braille plot, the legend and
// the line comparison chart.
var (
	groupColors = []string{"#00ffff", "#ff00ff", "#ffff00", "#00ff00", "#ff4444", "#5f87ff"}
	graphColors = []asciigraph.AnsiColor{
		asciigraph.Cyan, asciigraph.Magenta, asciigraph.Yellow,
		asciigraph.Green, asciigraph.Red, asciigraph.Blue,
	}
	overallColor = lipgloss.Color("#ffffff")
)

func palette() []lipgloss.Style {
	out := make([]lipgloss.Style, len(groupColors)+1)
	for i, c := range groupColors {
		out[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	out[len(groupColors)] = lipgloss.NewStyle().Foreground(overallColor)
	return out
}

// overallInk is the palette index of the pooled regression line.
var overallInk = len(groupColors)

// groupInk maps a group position to its palette index.
func groupInk(i int) int { return i % len(groupColors) }

func swatch(ink int) string {
	return palette()[ink].Render("●")
}

// signed colours a correlation by sign.
func signed(s string, r float64) string {
	if r < 0 {
		return Negative.Render(s)
	}
	return Positive.Render(s)
}
