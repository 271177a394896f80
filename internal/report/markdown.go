package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/paradox-cli/internal/analysis"
)

// SectionKind identifies what a Section shows.
type SectionKind int

const (
	SectionIntro SectionKind = iota
	SectionSamples
	SectionCorrelations
	SectionAnalysis
	SectionConclusion
	SectionNotes
)

// Section is one page of the report. Key is set for SectionAnalysis.
type Section struct {
	Kind  SectionKind
	Title string
	Key   string
}

// Sections lists the report's sections in reading order. Notes appear only
// when there is something to say.
func (d *Document) Sections() []Section {
	out := []Section{
		{Kind: SectionIntro, Title: "Introduction"},
		{Kind: SectionSamples, Title: "Data Samples"},
		{Kind: SectionCorrelations, Title: "Overall Correlations"},
	}
	for _, a := range d.Analyses {
		out = append(out, Section{Kind: SectionAnalysis, Title: a.Heading, Key: a.Key})
	}
	out = append(out, Section{Kind: SectionConclusion, Title: "Conclusion"})
	if len(d.Notices) > 0 || d.hasWarnings() {
		out = append(out, Section{Kind: SectionNotes, Title: "Notes"})
	}
	return out
}

func (d *Document) hasWarnings() bool {
	for _, s := range d.Samples {
		if len(s.Warnings) > 0 {
			return true
		}
	}
	return false
}

// Markdown renders the whole document as plain Markdown.
func (d *Document) Markdown() string {
	var b strings.Builder
	b.WriteString("# " + d.Title + "\n\n")
	if d.Subtitle != "" {
		b.WriteString("_" + d.Subtitle + "_\n\n")
	}
	for _, l := range d.Byline {
		b.WriteString(l + "\n\n")
	}
	for _, s := range d.Sections() {
		b.WriteString("## " + s.Title + "\n\n")
		b.WriteString(d.SectionMarkdown(s))
		b.WriteString("\n")
	}
	return b.String()
}

// SectionMarkdown renders the body of one section, without its heading.
func (d *Document) SectionMarkdown(s Section) string {
	var b strings.Builder
	switch s.Kind {
	case SectionIntro:
		b.WriteString(d.Intro + "\n")
	case SectionSamples:
		if len(d.Samples) == 0 {
			b.WriteString("No data could be loaded.\n")
		}
		for _, smp := range d.Samples {
			b.WriteString(fmt.Sprintf("%s (%s, %d rows):\n\n", smp.Label, smp.Table, smp.Total))
			writeTable(&b, smp.Header, smp.Rows)
			b.WriteString("\n")
			if len(smp.Summaries) > 0 {
				h, rows := smp.SummaryTable()
				writeTable(&b, h, rows)
				b.WriteString("\n")
			}
		}
	case SectionCorrelations:
		if len(d.Correlations) == 0 {
			b.WriteString("No overall correlation could be computed.\n")
		}
		for _, c := range d.Correlations {
			b.WriteString("- " + c.Text() + "\n")
		}
		if d.Transition != "" {
			b.WriteString("\n" + d.Transition + "\n")
		}
	case SectionAnalysis:
		a, ok := d.Analysis(s.Key)
		if !ok {
			return ""
		}
		writeAnalysis(&b, a)
	case SectionConclusion:
		b.WriteString(d.Conclusion + "\n")
	case SectionNotes:
		for _, n := range d.Notices {
			b.WriteString("- " + n.Message + "\n")
		}
		for _, smp := range d.Samples {
			for _, w := range smp.Warnings {
				b.WriteString(fmt.Sprintf("- %s: %s\n", smp.Table, w))
			}
		}
	}
	return b.String()
}

func writeAnalysis(b *strings.Builder, a Analysis) {
	r := a.Result
	if r.Skipped {
		for _, n := range r.Notices {
			b.WriteString(n.Message + "\n")
		}
		return
	}
	b.WriteString(fmt.Sprintf("%s (n=%d): r = %s", r.Spec.Title, r.Overall.Pairs, analysis.FormatR(r.Overall)))
	if r.Overall.Defined() {
		b.WriteString(fmt.Sprintf(", %s, R² = %.2f", analysis.FormatLine(r.Overall, r.Spec.X, r.Spec.Y), r.Overall.Line.R2))
	}
	b.WriteString("\n")
	if len(r.Groups) > 0 {
		b.WriteString("\n")
		header := []string{r.Spec.GroupBy, "n", "r", "slope", "intercept"}
		rows := make([][]string, 0, len(r.Groups))
		for _, g := range r.Groups {
			row := []string{g.Key, fmt.Sprint(g.Size), analysis.FormatR(g.Fit), "-", "-"}
			if g.Fit.Defined() {
				row[3] = analysis.FormatNum(g.Fit.Line.Slope)
				row[4] = analysis.FormatNum(g.Fit.Line.Intercept)
			}
			rows = append(rows, row)
		}
		writeTable(b, header, rows)
	}
	if a.Commentary != "" {
		b.WriteString("\n" + a.Commentary + "\n")
	}
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(escapeCells(header), " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, r := range rows {
		b.WriteString("| " + strings.Join(escapeCells(r), " | ") + " |\n")
	}
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}
