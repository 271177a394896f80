// Package report assembles the four trait analyses, data previews and
// narrative text into a Document that every presentation layer consumes.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/paradox-cli/internal/analysis"
	"github.com/KaramelBytes/paradox-cli/internal/dataset"
	"github.com/KaramelBytes/paradox-cli/internal/stats"
	"go.uber.org/zap"
)

// Analysis keys, in report order.
const (
	KeyPerformance = "performance"
	KeySalary      = "salary"
	KeyEducation   = "education"
	KeyJob         = "job"
)

// Options controls report text and previews.
type Options struct {
	Title    string
	Subtitle string
	// Byline lines are printed under the title (course, author, ...).
	Byline     []string
	SampleRows int
	// Trait overrides the trait column of both schemas; empty keeps Neuroticism.
	Trait string
	Log   *zap.Logger
}

// Inputs are the two loaded tables. A nil table with a non-nil error is a
// load failure; the analyses that need it report missing columns.
type Inputs struct {
	Performance    *dataset.Table
	PerformanceErr error
	Salary         *dataset.Table
	SalaryErr      error
}

// LoadInputs loads both tables. Failures are kept in Inputs rather than returned.
func LoadInputs(performancePath, salaryPath string, opt dataset.Options) Inputs {
	var in Inputs
	in.Performance, in.PerformanceErr = dataset.Load(performancePath, opt)
	in.Salary, in.SalaryErr = dataset.Load(salaryPath, opt)
	return in
}

// Sample is the head of one input table.
type Sample struct {
	Label    string
	Table    string
	Header   []string
	Rows     [][]string
	Total    int
	Warnings []string
	// Summaries describe the numeric schema columns present in the table.
	Summaries []ColumnSummary
}

// ColumnSummary is the mean and spread of one numeric column.
type ColumnSummary struct {
	Column string
	stats.Summary
}

// SummaryTable lays the summaries out as rows under a column/n/mean/sd header.
func (s Sample) SummaryTable() ([]string, [][]string) {
	rows := make([][]string, 0, len(s.Summaries))
	for _, c := range s.Summaries {
		mean, sd := "-", "-"
		if c.N > 0 {
			mean = analysis.FormatNum(c.Mean)
		}
		if c.N > 1 {
			sd = analysis.FormatNum(c.Std)
		}
		rows = append(rows, []string{c.Column, fmt.Sprint(c.N), mean, sd})
	}
	return []string{"column", "n", "mean", "sd"}, rows
}

func summarize(t *dataset.Table, s dataset.Schema) []ColumnSummary {
	var out []ColumnSummary
	for _, col := range []string{s.Trait, s.Outcome} {
		vals, err := t.Floats(col)
		if err != nil {
			continue
		}
		out = append(out, ColumnSummary{Column: col, Summary: stats.Describe(vals)})
	}
	return out
}

// Correlation is one line of the overall-correlations section.
type Correlation struct {
	Label string
	Fit   analysis.Fit
}

// Text renders "<label>: 0.xx" or "<label>: undefined".
func (c Correlation) Text() string {
	return fmt.Sprintf("%s: %s", c.Label, analysis.FormatR(c.Fit))
}

// Analysis is one scatter/regression section of the report.
type Analysis struct {
	Key        string
	Heading    string
	Commentary string
	Result     analysis.Result
}

// Document is the fully computed report.
type Document struct {
	Title        string
	Subtitle     string
	Byline       []string
	Intro        string
	Samples      []Sample
	Correlations []Correlation
	Analyses     []Analysis
	Transition   string
	Conclusion   string
	// Notices collects load failures and every analysis notice in report order.
	Notices []analysis.Notice
}

// Analysis returns the analysis with the given key.
func (d *Document) Analysis(key string) (Analysis, bool) {
	for _, a := range d.Analyses {
		if a.Key == key {
			return a, true
		}
	}
	return Analysis{}, false
}

// Build runs every analysis against the inputs. Each analysis is independent:
// a missing table or column only affects the sections that need it.
func Build(in Inputs, opts Options) *Document {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Title == "" {
		opts.Title = "Simpson's Paradox"
	}
	perfSchema := dataset.PerformanceSchema.WithTrait(opts.Trait)
	salSchema := dataset.SalarySchema.WithTrait(opts.Trait)
	trait := perfSchema.Trait

	doc := &Document{
		Title:    opts.Title,
		Subtitle: opts.Subtitle,
		Byline:   opts.Byline,
		Intro: fmt.Sprintf("We use two datasets, HR_performance and HR_salary, which contain variables such as "+
			"%s, %s, %s, %s, and %s.", trait, perfSchema.Outcome, salSchema.Outcome, salSchema.Group, perfSchema.Group),
	}

	for _, f := range []struct {
		label  string
		t      *dataset.Table
		err    error
		schema dataset.Schema
	}{
		{"HR Performance", in.Performance, in.PerformanceErr, perfSchema},
		{"HR Salary", in.Salary, in.SalaryErr, salSchema},
	} {
		if f.err != nil || f.t == nil {
			doc.Notices = append(doc.Notices, loadNotice(f.label, f.err))
			log.Warn("input not loaded", zap.String("input", f.label), zap.Error(f.err))
			continue
		}
		header, rows := f.t.Head(opts.SampleRows)
		doc.Samples = append(doc.Samples, Sample{
			Label:     f.label,
			Table:     f.t.Name(),
			Header:    header,
			Rows:      rows,
			Total:     f.t.Len(),
			Warnings:  f.t.Warnings(),
			Summaries: summarize(f.t, f.schema),
		})
	}

	runner := analysis.Runner{Log: log}
	specs := []struct {
		key     string
		heading string
		table   *dataset.Table
		spec    analysis.Spec
	}{
		{KeyPerformance, fmt.Sprintf("Overall: %s vs %s", trait, perfSchema.Outcome), in.Performance,
			analysis.Spec{Title: fmt.Sprintf("%s vs %s", trait, perfSchema.Outcome), Label: perfSchema.Outcome, X: trait, Y: perfSchema.Outcome}},
		{KeySalary, fmt.Sprintf("Overall: %s vs %s", trait, salSchema.Outcome), in.Salary,
			analysis.Spec{Title: fmt.Sprintf("%s vs %s", trait, salSchema.Outcome), Label: salSchema.Outcome, X: trait, Y: salSchema.Outcome}},
		{KeyEducation, fmt.Sprintf("%s vs %s by %s", salSchema.Outcome, trait, salSchema.Group), in.Salary,
			analysis.Spec{Title: fmt.Sprintf("Subgroups by %s", salSchema.Group), Label: salSchema.Group, X: trait, Y: salSchema.Outcome, GroupBy: salSchema.Group}},
		{KeyJob, fmt.Sprintf("%s vs %s by %s", perfSchema.Outcome, trait, perfSchema.Group), in.Performance,
			analysis.Spec{Title: fmt.Sprintf("Subgroups by %s", perfSchema.Group), Label: perfSchema.Group, X: trait, Y: perfSchema.Outcome, GroupBy: perfSchema.Group}},
	}
	for _, s := range specs {
		res := runner.Run(s.table, s.spec)
		a := Analysis{Key: s.key, Heading: s.heading, Result: res}
		if s.spec.GroupBy != "" {
			a.Commentary = commentary(res)
		}
		doc.Analyses = append(doc.Analyses, a)
		doc.Notices = append(doc.Notices, res.Notices...)
		if s.spec.GroupBy == "" && !res.Skipped {
			doc.Correlations = append(doc.Correlations, Correlation{
				Label: fmt.Sprintf("%s vs %s (overall)", s.spec.X, s.spec.Y),
				Fit:   res.Overall,
			})
		}
	}

	doc.Transition = transition(doc.Correlations, trait, perfSchema.Outcome, salSchema.Outcome)
	doc.Conclusion = conclusion(doc, salSchema.Group, perfSchema.Group)
	return doc
}

func loadNotice(label string, err error) analysis.Notice {
	msg := fmt.Sprintf("Could not load %s data.", label)
	var le *dataset.LoadError
	switch {
	case errors.As(err, &le):
		msg = fmt.Sprintf("Could not load %s data from %s: %v.", label, le.Path, le.Err)
	case err != nil:
		msg = fmt.Sprintf("Could not load %s data: %v.", label, err)
	}
	return analysis.Notice{Kind: analysis.NoticeLoadFailed, Scope: label, Message: msg}
}

func transition(cs []Correlation, trait, perf, sal string) string {
	var positive []string
	for _, c := range cs {
		if c.Fit.Defined() && c.Fit.Line.R > 0 {
			positive = append(positive, c.Label)
		}
	}
	if len(positive) == 0 {
		return fmt.Sprintf("Let us examine whether the overall relationship between %s and %s or %s "+
			"remains consistent when we introduce subgroup analysis.", strings.ToLower(trait), strings.ToLower(perf), strings.ToLower(sal))
	}
	return fmt.Sprintf("At first glance, higher %s might appear linked to higher %s or %s. "+
		"Let us examine whether this pattern remains consistent when we introduce subgroup analysis.",
		strings.ToLower(trait), strings.ToLower(perf), strings.ToLower(sal))
}

// commentary describes the subgroup slopes of a grouped result.
func commentary(r analysis.Result) string {
	if r.Skipped {
		return ""
	}
	rv := r.Reversal
	group := strings.ToLower(r.Spec.GroupBy)
	switch {
	case rv.Complete:
		return fmt.Sprintf("Every %s with enough data (%d of %d) shows a slope opposite to the overall trend: "+
			"the pooled correlation reverses within subgroups.", group, rv.Compared, rv.Compared)
	case rv.Detected:
		return fmt.Sprintf("%d of %d %s subgroups (%s) show a slope opposite to the overall trend, "+
			"reversing the initial correlation.", len(rv.Opposing), rv.Compared, group, strings.Join(rv.Opposing, ", "))
	case r.Overall.Defined():
		return fmt.Sprintf("Every %s subgroup follows the direction of the overall trend; no reversal is visible here.", group)
	}
	return fmt.Sprintf("The overall trend is undefined, so %s subgroups cannot be compared against it.", group)
}

func conclusion(d *Document, groups ...string) string {
	var b strings.Builder
	reversed := false
	for _, a := range d.Analyses {
		if a.Result.Reversal.Detected {
			reversed = true
		}
	}
	if reversed {
		b.WriteString("We have seen that a general correlation between the trait and salary or performance ")
		b.WriteString(fmt.Sprintf("can be overturned once we factor in crucial subgroups such as %s. ", strings.Join(groups, " or ")))
		b.WriteString("This is the essence of Simpson's Paradox: an overall trend that reverses within certain categories.")
	} else {
		b.WriteString("In this data the overall trends were not reversed by the subgroups examined. ")
		b.WriteString(fmt.Sprintf("Subgroups such as %s can still change the size of an effect, ", strings.Join(groups, " or ")))
		b.WriteString("and in other samples they can reverse its sign entirely (Simpson's Paradox).")
	}
	b.WriteString("\n\nCareful subgroup analysis is therefore essential before drawing conclusions about the relationships in complex datasets.")
	return b.String()
}
