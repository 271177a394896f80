// Package export writes the report's scatter/regression charts as PNG or SVG
// images, plus a manifest describing the run.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/KaramelBytes/paradox-cli/internal/analysis"
	"github.com/KaramelBytes/paradox-cli/internal/report"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Supported image formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// ErrNothingToPlot is returned for analyses that were skipped or have no complete pairs.
var ErrNothingToPlot = errors.New("nothing to plot")

var groupColors = []drawing.Color{
	chart.ColorBlue,
	chart.ColorOrange,
	chart.ColorGreen,
	chart.ColorRed,
	chart.ColorCyan,
	chart.ColorYellow,
}

func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col.WithAlpha(180),
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: col,
	}
}

// Build assembles a go-chart scatter plot for one analysis: a point series and a
// regression line per subgroup, or a single pair for ungrouped analyses.
func Build(a report.Analysis, width, height int) (*chart.Chart, error) {
	r := a.Result
	if r.Skipped || len(r.Points) == 0 {
		return nil, fmt.Errorf("%s: %w", a.Key, ErrNothingToPlot)
	}
	var series []chart.Series
	if len(r.Groups) == 0 {
		series = append(series, scatterSeries("observations", r.Points, chart.ColorBlue))
		if r.Overall.Defined() {
			series = append(series, fitSeries(fmt.Sprintf("fit (r=%s)", analysis.FormatR(r.Overall)), r.Overall, chart.ColorRed))
		}
	} else {
		for i, g := range r.Groups {
			col := groupColors[i%len(groupColors)]
			pts := r.GroupPoints(g.Key)
			if len(pts) > 0 {
				series = append(series, scatterSeries(g.Key, pts, col))
			}
			if g.Fit.Defined() {
				series = append(series, fitSeries(fmt.Sprintf("%s fit (r=%s)", g.Key, analysis.FormatR(g.Fit)), g.Fit, col))
			}
		}
		if r.Overall.Defined() {
			s := fitSeries(fmt.Sprintf("overall fit (r=%s)", analysis.FormatR(r.Overall)), r.Overall, chart.ColorAlternateGray)
			s.Style.StrokeDashArray = []float64{6, 4}
			series = append(series, s)
		}
	}

	xr, yr := ranges(r)
	ch := &chart.Chart{
		Title:      a.Heading,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: r.Spec.X, Range: xr},
		YAxis:      chart.YAxis{Name: r.Spec.Y, Range: yr},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(ch)}
	return ch, nil
}

func scatterSeries(name string, pts []analysis.Point, col drawing.Color) chart.ContinuousSeries {
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	return chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: pointStyle(col)}
}

func fitSeries(name string, f analysis.Fit, col drawing.Color) chart.ContinuousSeries {
	x0, y0, x1, y1 := f.Line.Endpoints()
	return chart.ContinuousSeries{
		Name:    name,
		XValues: []float64{x0, x1},
		YValues: []float64{y0, y1},
		Style:   lineStyle(col),
	}
}

// ranges pads the data extent by 5% so points do not sit on the frame. A
// zero-width extent is widened to avoid go-chart's zero-range error.
func ranges(r analysis.Result) (*chart.ContinuousRange, *chart.ContinuousRange) {
	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	add := func(x, y float64) {
		xmin, xmax = math.Min(xmin, x), math.Max(xmax, x)
		ymin, ymax = math.Min(ymin, y), math.Max(ymax, y)
	}
	for _, p := range r.Points {
		add(p.X, p.Y)
	}
	for _, g := range r.Groups {
		if g.Fit.Defined() {
			x0, y0, x1, y1 := g.Fit.Line.Endpoints()
			add(x0, y0)
			add(x1, y1)
		}
	}
	return pad(xmin, xmax), pad(ymin, ymax)
}

func pad(lo, hi float64) *chart.ContinuousRange {
	span := hi - lo
	if span <= 0 {
		span = math.Max(math.Abs(lo), 1)
		return &chart.ContinuousRange{Min: lo - span/2, Max: hi + span/2}
	}
	return &chart.ContinuousRange{Min: lo - span*0.05, Max: hi + span*0.05}
}

// Render writes one analysis chart in the given format.
func Render(w io.Writer, a report.Analysis, format string, width, height int) error {
	ch, err := Build(a, width, height)
	if err != nil {
		return err
	}
	var provider chart.RendererProvider
	switch format {
	case FormatPNG:
		provider = chart.PNG
	case FormatSVG:
		provider = chart.SVG
	default:
		return fmt.Errorf("unsupported chart format %q (use png or svg)", format)
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render %s chart: %w", a.Key, err)
	}
	return nil
}
