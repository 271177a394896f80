package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/paradox-cli/internal/analysis"
	"github.com/KaramelBytes/paradox-cli/internal/stats"
	"github.com/guptarohit/asciigraph"
)

type bounds struct {
	xmin, xmax, ymin, ymax float64
}

func (b *bounds) add(x, y float64) {
	b.xmin, b.xmax = math.Min(b.xmin, x), math.Max(b.xmax, x)
	b.ymin, b.ymax = math.Min(b.ymin, y), math.Max(b.ymax, y)
}

type fitLine struct {
	l   stats.Line
	ink int
}

func newBounds() bounds {
	return bounds{xmin: math.Inf(1), xmax: math.Inf(-1), ymin: math.Inf(1), ymax: math.Inf(-1)}
}

// project maps a data value onto [0, n-1]; a degenerate range maps to the middle.
func project(v, lo, hi float64, n int) int {
	if hi <= lo {
		return (n - 1) / 2
	}
	return int(math.Round((v - lo) / (hi - lo) * float64(n-1)))
}

// Scatter draws the points of a result on a braille canvas of w x h cells,
// with one fitted line per defined subgroup, or the overall line when the
// result is ungrouped. It returns "" when there is nothing to plot.
func Scatter(r analysis.Result, w, h int) string {
	if len(r.Points) == 0 || w < 4 || h < 2 {
		return ""
	}
	ink := map[string]int{}
	for i, g := range r.Groups {
		ink[g.Key] = groupInk(i)
	}
	var lines []fitLine
	if len(r.Groups) == 0 {
		if r.Overall.Defined() {
			lines = append(lines, fitLine{r.Overall.Line, overallInk})
		}
	} else {
		for i, g := range r.Groups {
			if g.Fit.Defined() {
				lines = append(lines, fitLine{g.Fit.Line, groupInk(i)})
			}
		}
	}

	b := newBounds()
	for _, p := range r.Points {
		b.add(p.X, p.Y)
	}
	for _, ln := range lines {
		x0, y0, x1, y1 := ln.l.Endpoints()
		b.add(x0, y0)
		b.add(x1, y1)
	}

	c := NewCanvas(w, h)
	dw, dh := c.Dots()
	px := func(x float64) int { return project(x, b.xmin, b.xmax, dw) }
	py := func(y float64) int { return dh - 1 - project(y, b.ymin, b.ymax, dh) }
	for _, p := range r.Points {
		k := 0
		if len(r.Groups) > 0 {
			k = ink[p.Group]
		}
		c.Set(px(p.X), py(p.Y), k)
	}
	for _, ln := range lines {
		x0, y0, x1, y1 := ln.l.Endpoints()
		c.DrawLine(px(x0), py(y0), px(x1), py(y1), ln.ink)
	}

	top, bottom := axisLabel(b.ymax), axisLabel(b.ymin)
	pad := max(len(top), len(bottom))
	pal := palette()
	var sb strings.Builder
	for i := 0; i < h; i++ {
		label := ""
		switch i {
		case 0:
			label = top
		case h - 1:
			label = bottom
		}
		sb.WriteString(Subtle.Render(fmt.Sprintf("%*s ┤", pad, label)))
		sb.WriteString(c.Row(i, pal))
		sb.WriteString("\n")
	}
	sb.WriteString(Subtle.Render(strings.Repeat(" ", pad+1) + "└" + strings.Repeat("─", w)))
	sb.WriteString("\n")
	left, right := axisLabel(b.xmin), axisLabel(b.xmax)
	gap := max(1, w-len(left)-len(right))
	sb.WriteString(Subtle.Render(strings.Repeat(" ", pad+2) + left + strings.Repeat(" ", gap) + right))
	sb.WriteString("\n")
	sb.WriteString(Subtle.Render(fmt.Sprintf("%*s x: %s, y: %s", pad, "", r.Spec.X, r.Spec.Y)))
	sb.WriteString("\n")
	return sb.String()
}

// Legend lists the groups of a result with their colour, size and r.
func Legend(r analysis.Result) string {
	var parts []string
	if len(r.Groups) == 0 {
		return swatch(overallInk) + " " + fmt.Sprintf("overall (n=%d) r=%s", r.Overall.Pairs, analysis.FormatR(r.Overall))
	}
	for i, g := range r.Groups {
		parts = append(parts, fmt.Sprintf("%s %s (n=%d) r=%s", swatch(groupInk(i)), g.Key, g.Size, analysis.FormatR(g.Fit)))
	}
	return strings.Join(parts, "  ")
}

// FitComparison plots every defined fitted line over the common x range with
// asciigraph, so slopes can be compared side by side. The pooled line comes last.
func FitComparison(r analysis.Result, width, height int) string {
	if !r.Overall.Defined() || len(r.Groups) == 0 || width < 10 {
		return ""
	}
	lo, hi := r.Overall.Line.XMin, r.Overall.Line.XMax
	if hi <= lo {
		return ""
	}
	var series [][]float64
	var colors []asciigraph.AnsiColor
	for i, g := range r.Groups {
		if !g.Fit.Defined() {
			continue
		}
		series = append(series, sample(g.Fit.Line, lo, hi, width))
		colors = append(colors, graphColors[groupInk(i)])
	}
	if len(series) == 0 {
		return ""
	}
	series = append(series, sample(r.Overall.Line, lo, hi, width))
	colors = append(colors, asciigraph.White)
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(fmt.Sprintf("fitted %s over %s %s..%s (white: overall)", r.Spec.Y, r.Spec.X, axisLabel(lo), axisLabel(hi))),
	)
}

func sample(l stats.Line, lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		x := lo + (hi-lo)*float64(i)/float64(n-1)
		out[i] = l.At(x)
	}
	return out
}

func axisLabel(v float64) string {
	return analysis.FormatNum(v)
}
