// Package viz renders a report for the terminal: styled text, lipgloss
// tables, braille scatter plots and asciigraph line comparisons.
package viz

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/paradox-cli/internal/analysis"
	"github.com/KaramelBytes/paradox-cli/internal/report"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	minWidth   = 40
	plotHeight = 14
	lineHeight = 8
)

// Page is one rendered section.
type Page struct {
	Title string
	Body  string
}

// Render renders the whole document for a terminal of the given width. The
// title block is part of the introduction page.
func Render(doc *report.Document, width int) string {
	var b strings.Builder
	for i, p := range Pages(doc, width) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(HeaderStyle.Render(p.Title))
		b.WriteString("\n\n")
		b.WriteString(p.Body)
	}
	return b.String()
}

// Pages renders each report section separately.
func Pages(doc *report.Document, width int) []Page {
	if width < minWidth {
		width = minWidth
	}
	var out []Page
	for _, s := range doc.Sections() {
		out = append(out, Page{Title: s.Title, Body: section(doc, s, width)})
	}
	return out
}

func header(doc *report.Document) string {
	var b strings.Builder
	b.WriteString(Title.Render(doc.Title) + "\n")
	if doc.Subtitle != "" {
		b.WriteString(Subtle.Render(doc.Subtitle) + "\n")
	}
	for _, l := range doc.Byline {
		b.WriteString(Subtle.Render(strings.ReplaceAll(l, "**", "")) + "\n")
	}
	return b.String()
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s) + "\n"
}

func section(doc *report.Document, s report.Section, width int) string {
	var b strings.Builder
	switch s.Kind {
	case report.SectionIntro:
		b.WriteString(header(doc))
		b.WriteString("\n")
		b.WriteString(wrap(doc.Intro, width))
	case report.SectionSamples:
		if len(doc.Samples) == 0 {
			b.WriteString(Warning.Render("⚠ No data could be loaded.") + "\n")
		}
		for _, smp := range doc.Samples {
			b.WriteString(fmt.Sprintf("%s %s\n", smp.Label, Subtle.Render(fmt.Sprintf("(%s, %d rows)", smp.Table, smp.Total))))
			b.WriteString(Table(smp.Header, smp.Rows) + "\n")
			if len(smp.Summaries) > 0 {
				h, rows := smp.SummaryTable()
				b.WriteString(Table(h, rows) + "\n")
			}
			b.WriteString("\n")
		}
	case report.SectionCorrelations:
		if len(doc.Correlations) == 0 {
			b.WriteString(Warning.Render("⚠ No overall correlation could be computed.") + "\n")
		}
		for _, c := range doc.Correlations {
			b.WriteString(fmt.Sprintf("• %s: %s\n", c.Label, correlation(c.Fit)))
		}
		if doc.Transition != "" {
			b.WriteString("\n" + wrap(doc.Transition, width))
		}
	case report.SectionAnalysis:
		if a, ok := doc.Analysis(s.Key); ok {
			b.WriteString(Analysis(a, width))
		}
	case report.SectionConclusion:
		b.WriteString(wrap(doc.Conclusion, width))
	case report.SectionNotes:
		for _, n := range doc.Notices {
			b.WriteString(Warning.Render("⚠ "+n.Message) + "\n")
		}
		for _, smp := range doc.Samples {
			for _, w := range smp.Warnings {
				b.WriteString(Warning.Render(fmt.Sprintf("⚠ %s: %s", smp.Table, w)) + "\n")
			}
		}
	}
	return b.String()
}

func correlation(f analysis.Fit) string {
	s := analysis.FormatR(f)
	if !f.Defined() {
		return Warning.Render(s)
	}
	return signed(s, f.Line.R)
}

// Analysis renders one scatter/regression section.
func Analysis(a report.Analysis, width int) string {
	r := a.Result
	var b strings.Builder
	if r.Skipped {
		for _, n := range r.Notices {
			b.WriteString(Warning.Render("⚠ "+n.Message) + "\n")
		}
		return b.String()
	}
	b.WriteString(fmt.Sprintf("%s  r = %s  n = %d\n", r.Spec.Title, correlation(r.Overall), r.Overall.Pairs))
	if r.Overall.Defined() {
		b.WriteString(Subtle.Render(fmt.Sprintf("%s  R² = %.2f", analysis.FormatLine(r.Overall, r.Spec.X, r.Spec.Y), r.Overall.Line.R2)) + "\n")
	}
	if r.Reversal.Detected {
		b.WriteString("\n" + Badge.Render("REVERSAL") + " " +
			fmt.Sprintf("%d of %d subgroups oppose the overall trend", len(r.Reversal.Opposing), r.Reversal.Compared) + "\n")
	}
	b.WriteString("\n")
	plotWidth := width - 12
	if plot := Scatter(r, plotWidth, plotHeight); plot != "" {
		b.WriteString(plot)
		b.WriteString(Legend(r) + "\n")
	}
	if len(r.Groups) > 0 {
		b.WriteString("\n")
		b.WriteString(GroupTable(r) + "\n")
		if cmp := FitComparison(r, plotWidth, lineHeight); cmp != "" {
			b.WriteString("\n" + cmp + "\n")
		}
	}
	if a.Commentary != "" {
		b.WriteString("\n" + wrap(a.Commentary, width))
	}
	for _, n := range r.Notices {
		b.WriteString(Warning.Render("⚠ "+n.Message) + "\n")
	}
	return b.String()
}

// Table renders a data preview as a bordered lipgloss table.
func Table(header []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorder).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeader
			}
			return tableCell
		}).
		Headers(header...).
		Rows(rows...)
	return t.String()
}

// GroupTable summarises the per-group fits of a result.
func GroupTable(r analysis.Result) string {
	rows := make([][]string, 0, len(r.Groups))
	for _, g := range r.Groups {
		row := []string{g.Key, fmt.Sprint(g.Size), analysis.FormatR(g.Fit), "-", "-"}
		if g.Fit.Defined() {
			row[3] = analysis.FormatNum(g.Fit.Line.Slope)
			row[4] = analysis.FormatNum(g.Fit.Line.Intercept)
		}
		rows = append(rows, row)
	}
	return Table([]string{r.Spec.GroupBy, "n", "r", "slope", "intercept"}, rows)
}
