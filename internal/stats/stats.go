// Package stats implements the correlation and least-squares fits used by the report.
// Every function returns either finite numbers or one of the sentinel errors below;
// NaN and Inf never escape.
package stats

import (
	"errors"
	"math"

	"github.com/KaramelBytes/paradox-cli/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrInsufficientData means fewer than two complete (x, y) pairs remain.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrZeroVariance means x or y is constant, so r and the slope are undefined.
	ErrZeroVariance = errors.New("undefined: zero variance")
	// ErrLengthMismatch means the two input sequences differ in length.
	ErrLengthMismatch = errors.New("sequences differ in length")
	// ErrOutOfRange means a fitted coefficient does not fit in a float64.
	ErrOutOfRange = errors.New("coefficient out of range")
)

// MinPairs is the smallest number of complete pairs a computation accepts.
const MinPairs = 2

// Align drops every position where either value is missing and returns the
// remaining pairs in input order.
func Align(x, y []dataset.Value) (xs, ys []float64, err error) {
	if len(x) != len(y) {
		return nil, nil, ErrLengthMismatch
	}
	xs = make([]float64, 0, len(x))
	ys = make([]float64, 0, len(y))
	for i := range x {
		if !x[i].Valid || !y[i].Valid {
			continue
		}
		xs = append(xs, x[i].Float)
		ys = append(ys, y[i].Float)
	}
	return xs, ys, nil
}

// Pearson returns the sample correlation coefficient of two aligned sequences.
func Pearson(x, y []float64) (float64, error) {
	if err := check(x, y); err != nil {
		return 0, err
	}
	sx, _ := normalize(x)
	sy, _ := normalize(y)
	r := stat.Correlation(sx, sy, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, ErrZeroVariance
	}
	return clamp(r), nil
}

// Line is an ordinary-least-squares fit y = Intercept + Slope*x over [XMin, XMax].
type Line struct {
	Slope     float64
	Intercept float64
	XMin      float64
	XMax      float64
	// R is the Pearson coefficient of the fitted pairs; R2 is its square.
	R  float64
	R2 float64
	N  int
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 { return l.Intercept + l.Slope*x }

// Endpoints returns the segment spanning the observed x range.
func (l Line) Endpoints() (x0, y0, x1, y1 float64) {
	return l.XMin, l.At(l.XMin), l.XMax, l.At(l.XMax)
}

// Fit computes the least-squares line for aligned pairs. The guards match Pearson,
// so a line is defined exactly when the correlation is.
func Fit(x, y []float64) (Line, error) {
	if err := check(x, y); err != nil {
		return Line{}, err
	}
	sx, kx := normalize(x)
	sy, ky := normalize(y)
	alpha, beta := stat.LinearRegression(sx, sy, nil, false)
	if !finite(alpha) || !finite(beta) {
		return Line{}, ErrZeroVariance
	}
	// Undo the scaling: y = ky*alpha + (ky*beta/kx)*x.
	alpha, beta = ky*alpha, ky*(beta/kx)
	if !finite(alpha) || !finite(beta) {
		return Line{}, ErrOutOfRange
	}
	r, err := Pearson(x, y)
	if err != nil {
		return Line{}, err
	}
	lo, hi := x[0], x[0]
	for _, v := range x[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return Line{
		Slope:     beta,
		Intercept: alpha,
		XMin:      lo,
		XMax:      hi,
		R:         r,
		R2:        r * r,
		N:         len(x),
	}, nil
}

// Summary holds the mean and sample standard deviation of a sequence.
type Summary struct {
	N    int
	Mean float64
	Std  float64
}

// Describe summarizes the valid entries of a column.
func Describe(v []dataset.Value) Summary {
	xs := make([]float64, 0, len(v))
	for _, e := range v {
		if e.Valid {
			xs = append(xs, e.Float)
		}
	}
	s := Summary{N: len(xs)}
	switch len(xs) {
	case 0:
	case 1:
		s.Mean = xs[0]
	default:
		mean, variance := stat.MeanVariance(xs, nil)
		s.Mean, s.Std = mean, math.Sqrt(variance)
	}
	return s
}

func check(x, y []float64) error {
	if len(x) != len(y) {
		return ErrLengthMismatch
	}
	if len(x) < MinPairs {
		return ErrInsufficientData
	}
	for i := range x {
		if !finite(x[i]) || !finite(y[i]) {
			return ErrInsufficientData
		}
	}
	if constant(x) || constant(y) {
		return ErrZeroVariance
	}
	return nil
}

// normalize divides v by its largest magnitude so the sums of squares inside
// gonum neither overflow nor underflow. The factor is 1 for an all-zero input.
func normalize(v []float64) ([]float64, float64) {
	k := 0.0
	for _, e := range v {
		k = math.Max(k, math.Abs(e))
	}
	if k == 0 {
		return v, 1
	}
	out := make([]float64, len(v))
	for i, e := range v {
		out[i] = e / k
	}
	return out, k
}

func constant(v []float64) bool {
	for _, e := range v[1:] {
		if e != v[0] {
			return false
		}
	}
	return true
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func clamp(r float64) float64 {
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}
