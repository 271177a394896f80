package analysis

import (
	"fmt"
	"math"
	"strings"
)

// FormatNum renders a coefficient with four significant digits, without
// switching to exponent notation for large values.
func FormatNum(v float64) string {
	if math.Abs(v) >= 1000 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.4g", v)
}

// FormatR renders a correlation with two decimals, or "undefined".
func FormatR(f Fit) string {
	if !f.Defined() {
		return f.Status.String()
	}
	return fmt.Sprintf("%.2f", f.Line.R)
}

// FormatLine renders the fitted equation, e.g. "Salary = 1200 + 35.2·Neuroticism".
func FormatLine(f Fit, x, y string) string {
	if !f.Defined() {
		return f.Status.String()
	}
	sign := "+"
	slope := f.Line.Slope
	if slope < 0 {
		sign, slope = "-", -slope
	}
	return fmt.Sprintf("%s = %s %s %s·%s", y, FormatNum(f.Line.Intercept), sign, FormatNum(slope), x)
}

// Markdown renders a compact, bracketed summary of the result.
func (r Result) Markdown() string {
	var b strings.Builder
	b.WriteString("[ANALYSIS]\n")
	if r.Spec.Title != "" {
		b.WriteString(fmt.Sprintf("%s\n", r.Spec.Title))
	}
	if r.Table != "" {
		b.WriteString(fmt.Sprintf("Table: %s (rows %d)\n", r.Table, r.Rows))
	}
	if !r.Skipped {
		b.WriteString("\n[OVERALL]\n")
		b.WriteString(fmt.Sprintf("- %s ~ %s: r=%s (n=%d)\n", r.Spec.X, r.Spec.Y, FormatR(r.Overall), r.Overall.Pairs))
		if r.Overall.Defined() {
			b.WriteString(fmt.Sprintf("- fit: %s (R²=%.3f)\n", FormatLine(r.Overall, r.Spec.X, r.Spec.Y), r.Overall.Line.R2))
		}
	}
	if len(r.Groups) > 0 {
		b.WriteString(fmt.Sprintf("\n[BY %s]\n", strings.ToUpper(r.Spec.GroupBy)))
		for _, g := range r.Groups {
			b.WriteString(fmt.Sprintf("- %s (n=%d): ", g.Key, g.Size))
			if g.Fit.Defined() {
				b.WriteString(fmt.Sprintf("r=%s; slope %s, intercept %s\n", FormatR(g.Fit), FormatNum(g.Fit.Line.Slope), FormatNum(g.Fit.Line.Intercept)))
			} else {
				b.WriteString(g.Fit.Status.String() + "\n")
			}
		}
	}
	if r.Reversal.Detected {
		b.WriteString("\n[REVERSAL]\n")
		dir := "positive"
		if r.Overall.Line.R < 0 {
			dir = "negative"
		}
		b.WriteString(fmt.Sprintf("- overall trend is %s; %d of %d subgroups reverse it: %s\n",
			dir, len(r.Reversal.Opposing), r.Reversal.Compared, strings.Join(r.Reversal.Opposing, ", ")))
	}
	if len(r.Notices) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range r.Notices {
			b.WriteString("- ")
			b.WriteString(n.Message)
			b.WriteString("\n")
		}
	}
	return b.String()
}
