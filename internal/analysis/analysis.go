package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/paradox-cli/internal/dataset"
	"github.com/KaramelBytes/paradox-cli/internal/stats"
	"go.uber.org/zap"
)

// Status describes whether a fit could be computed.
type Status int

const (
	StatusOK Status = iota
	// StatusUndefined means x or y had zero variance, or the line overflowed.
	StatusUndefined
	// StatusInsufficient means fewer than two complete pairs.
	StatusInsufficient
	// StatusSkipped means the analysis never ran because columns were missing.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUndefined:
		return "undefined"
	case StatusInsufficient:
		return "insufficient data"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// NoticeKind classifies user-visible notices attached to a result.
type NoticeKind string

const (
	NoticeMissingColumns   NoticeKind = "missing_columns"
	NoticeInsufficientData NoticeKind = "insufficient_data"
	NoticeUndefined        NoticeKind = "undefined"
	NoticeLoadFailed       NoticeKind = "load_failed"
)

// Notice is a message for the presentation layer. Scope is "overall" or a group key.
type Notice struct {
	Kind    NoticeKind
	Scope   string
	Message string
}

// Spec selects the columns of one analysis.
type Spec struct {
	Title string
	// Label names the analysis in notices ("Missing columns for <Label> analysis.").
	Label   string
	X       string
	Y       string
	GroupBy string
}

func (s Spec) label() string {
	switch {
	case s.Label != "":
		return s.Label
	case s.GroupBy != "":
		return s.GroupBy
	case s.Title != "":
		return s.Title
	}
	return s.Y
}

// Columns lists every column the analysis requires.
func (s Spec) Columns() []string {
	cols := []string{s.X, s.Y}
	if s.GroupBy != "" {
		cols = append(cols, s.GroupBy)
	}
	return cols
}

// Point is one complete observation. Group is empty for ungrouped analyses.
type Point struct {
	ID    string
	X, Y  float64
	Group string
}

// Fit is the outcome of a correlation/regression over a set of rows. Line is the
// zero value unless Status is StatusOK.
type Fit struct {
	Status Status
	Line   stats.Line
	// Pairs is the number of complete pairs considered.
	Pairs int
}

// Defined reports whether the correlation and line are available.
func (f Fit) Defined() bool { return f.Status == StatusOK }

// GroupResult is the fit for a single category.
type GroupResult struct {
	Key  string
	Size int
	Fit  Fit
}

// Reversal describes subgroups whose correlation sign opposes the overall one.
type Reversal struct {
	Detected bool
	// Complete is true when every comparable subgroup reverses.
	Complete bool
	Opposing []string
	Compared int
}

// Result holds everything the presentation layer needs for one analysis.
type Result struct {
	Spec     Spec
	Table    string
	Rows     int
	Skipped  bool
	Missing  []string
	Overall  Fit
	Groups   []GroupResult
	Points   []Point
	Notices  []Notice
	Reversal Reversal
}

// Runner executes analyses; the zero value logs nothing.
type Runner struct {
	Log *zap.Logger
}

// Run executes spec against t with a silent Runner.
func Run(t *dataset.Table, spec Spec) Result {
	return Runner{}.Run(t, spec)
}

// Run probes the required columns, then fits the overall line and one line per
// subgroup. It never fails: problems are reported as Notices on the result.
func (r Runner) Run(t *dataset.Table, spec Spec) Result {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("analysis", spec.Title))
	res := Result{Spec: spec}
	if t != nil {
		res.Table = t.Name()
		res.Rows = t.Len()
	}

	avail := dataset.Probe(t, spec.Columns()...)
	if !avail.OK() {
		res.Skipped = true
		res.Missing = avail.Missing
		res.Overall = Fit{Status: StatusSkipped}
		res.Notices = append(res.Notices, Notice{
			Kind:    NoticeMissingColumns,
			Scope:   "overall",
			Message: fmt.Sprintf("Missing columns for %s analysis: %s.", spec.label(), strings.Join(avail.Missing, ", ")),
		})
		log.Debug("analysis skipped", zap.Strings("missing", avail.Missing))
		return res
	}

	recs, err := t.Records(dataset.Schema{Trait: spec.X, Outcome: spec.Y, Group: spec.GroupBy})
	if err != nil {
		res.Skipped = true
		res.Overall = Fit{Status: StatusSkipped}
		res.Notices = append(res.Notices, Notice{Kind: NoticeMissingColumns, Scope: "overall", Message: err.Error()})
		return res
	}
	xs := make([]dataset.Value, len(recs))
	ys := make([]dataset.Value, len(recs))
	for i, rec := range recs {
		xs[i], ys[i] = rec.Trait, rec.Outcome
	}
	var groups []Group
	if spec.GroupBy != "" {
		groups = Partition(recs)
	}
	groupOf := make([]string, len(recs))
	for _, g := range groups {
		for _, i := range g.Rows {
			groupOf[i] = g.Key
		}
	}
	for i, rec := range recs {
		if rec.Trait.Valid && rec.Outcome.Valid {
			res.Points = append(res.Points, Point{ID: rec.ID, X: rec.Trait.Float, Y: rec.Outcome.Float, Group: groupOf[i]})
		}
	}

	res.Overall = fitRows(xs, ys, nil)
	if n := notice("overall", "", res.Overall); n != nil {
		res.Notices = append(res.Notices, *n)
	}
	log.Debug("overall fit", zap.Stringer("status", res.Overall.Status), zap.Int("pairs", res.Overall.Pairs))

	for _, g := range groups {
		gr := GroupResult{Key: g.Key, Size: g.Size()}
		if g.Size() < stats.MinPairs {
			gr.Fit = Fit{Status: StatusInsufficient}
			for _, i := range g.Rows {
				if xs[i].Valid && ys[i].Valid {
					gr.Fit.Pairs++
				}
			}
		} else {
			gr.Fit = fitRows(xs, ys, g.Rows)
		}
		if n := notice(g.Key, spec.GroupBy, gr.Fit); n != nil {
			res.Notices = append(res.Notices, *n)
		}
		log.Debug("group fit", zap.String("group", g.Key), zap.Int("size", gr.Size), zap.Stringer("status", gr.Fit.Status))
		res.Groups = append(res.Groups, gr)
	}
	res.Reversal = DetectReversal(res.Overall, res.Groups)
	return res
}

// fitRows fits the selected rows, or all rows when rows is nil.
func fitRows(xs, ys []dataset.Value, rows []int) Fit {
	if rows != nil {
		sx := make([]dataset.Value, len(rows))
		sy := make([]dataset.Value, len(rows))
		for k, i := range rows {
			sx[k], sy[k] = xs[i], ys[i]
		}
		xs, ys = sx, sy
	}
	ax, ay, err := stats.Align(xs, ys)
	if err != nil {
		return Fit{Status: StatusInsufficient}
	}
	f := Fit{Pairs: len(ax)}
	line, err := stats.Fit(ax, ay)
	switch {
	case err == nil:
		f.Line = line
	case errors.Is(err, stats.ErrZeroVariance), errors.Is(err, stats.ErrOutOfRange):
		f.Status = StatusUndefined
	default:
		f.Status = StatusInsufficient
	}
	return f
}

func notice(scope, groupBy string, f Fit) *Notice {
	subject := "Overall"
	if groupBy != "" {
		subject = fmt.Sprintf("%s %q", groupBy, scope)
	}
	switch f.Status {
	case StatusInsufficient:
		return &Notice{
			Kind:    NoticeInsufficientData,
			Scope:   scope,
			Message: fmt.Sprintf("%s: insufficient data (%d complete pairs).", subject, f.Pairs),
		}
	case StatusUndefined:
		return &Notice{
			Kind:    NoticeUndefined,
			Scope:   scope,
			Message: fmt.Sprintf("%s: correlation undefined (zero variance).", subject),
		}
	}
	return nil
}

// DetectReversal compares each computable subgroup's correlation sign with the
// overall sign. Nothing is detected when the overall correlation is undefined or 0.
func DetectReversal(overall Fit, groups []GroupResult) Reversal {
	var rv Reversal
	if !overall.Defined() || overall.Line.R == 0 {
		return rv
	}
	for _, g := range groups {
		if !g.Fit.Defined() {
			continue
		}
		rv.Compared++
		if g.Fit.Line.R*overall.Line.R < 0 {
			rv.Opposing = append(rv.Opposing, g.Key)
		}
	}
	rv.Detected = len(rv.Opposing) > 0
	rv.Complete = rv.Detected && len(rv.Opposing) == rv.Compared
	return rv
}

// GroupPoints returns the points of one subgroup in table order.
func (r Result) GroupPoints(key string) []Point {
	var out []Point
	for _, p := range r.Points {
		if p.Group == key {
			out = append(out, p)
		}
	}
	return out
}
