package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const perfCSV = `id,Neuroticism,Performance,Job
1,1,5,Sales
2,2,4,Sales
3,3,3,Sales
4,4,9,Engineering
5,5,8,Engineering
6,6,7,Engineering
`

const salCSV = `id,Neuroticism,Salary,Education
1,1,30000,BSc
2,2,28000,BSc
3,3,26000,BSc
4,4,50000,MSc
5,5,48000,MSc
6,6,46000,MSc
`

// resetFlags restores every flag to its default so sticky values from a
// previous invocation do not leak into the next one.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

// fixture isolates HOME and writes both input tables.
func fixture(t *testing.T) (perf, sal string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	perf = filepath.Join(home, "HR_performance.csv")
	sal = filepath.Join(home, "HR_salary.csv")
	if err := os.WriteFile(perf, []byte(perfCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(sal, []byte(salCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return perf, sal
}

func TestCLI_ReportMarkdown(t *testing.T) {
	perf, sal := fixture(t)
	out := mustRun(t, "report", "--markdown", "--performance", perf, "--salary", sal)
	for _, want := range []string{
		"# Simpson's Paradox",
		"- Neuroticism vs Performance (overall): ",
		"- Neuroticism vs Salary (overall): ",
		"## Salary vs Neuroticism by Education",
		"## Performance vs Neuroticism by Job",
		"## Conclusion",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestCLI_RootRunsReport(t *testing.T) {
	perf, sal := fixture(t)
	out := mustRun(t, "--markdown", "--performance", perf, "--salary", sal)
	if !strings.Contains(out, "## Overall Correlations") {
		t.Fatalf("root command should print the report:\n%s", out)
	}
}

func TestCLI_ReportStyled(t *testing.T) {
	perf, sal := fixture(t)
	out := mustRun(t, "report", "--performance", perf, "--salary", sal)
	if !strings.Contains(out, "REVERSAL") || !strings.Contains(out, "Data Samples") {
		t.Fatalf("styled report incomplete:\n%s", out)
	}
}

func TestCLI_ReportToFileWithMissingSalary(t *testing.T) {
	perf, _ := fixture(t)
	dest := filepath.Join(t.TempDir(), "report.md")
	out := mustRun(t, "report", "--performance", perf, "--salary", filepath.Join(t.TempDir(), "absent.csv"), "-o", dest)
	if !strings.Contains(out, "✓ Wrote report to") || !strings.Contains(out, "notice") {
		t.Fatalf("unexpected output: %s", out)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	md := string(b)
	if !strings.Contains(md, "Could not load HR Salary data") {
		t.Fatalf("load failure notice missing:\n%s", md)
	}
	if !strings.Contains(md, "- Neuroticism vs Performance (overall): ") {
		t.Fatalf("performance analysis should still run:\n%s", md)
	}
}

func TestCLI_Charts(t *testing.T) {
	perf, sal := fixture(t)
	dir := filepath.Join(t.TempDir(), "charts")
	out := mustRun(t, "charts", "--performance", perf, "--salary", sal, "-o", dir, "--format", "svg", "--width", "500", "--height", "300")
	for _, f := range []string{"performance.svg", "salary.svg", "education.svg", "job.svg", "manifest.json"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("missing %s: %v", f, err)
		}
	}
	if !strings.Contains(out, "manifest.json") {
		t.Fatalf("output = %s", out)
	}
	if _, err := runCmd(t, "charts", "--performance", perf, "--salary", sal, "-o", dir, "--format", "gif"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestCLI_Analyze(t *testing.T) {
	_, sal := fixture(t)
	out := mustRun(t, "analyze", sal, "--y", "Salary", "--group-by", "Education")
	for _, want := range []string{"[OVERALL]", "[BY EDUCATION]", "[REVERSAL]"} {
		if !strings.Contains(out, want) {
			t.Errorf("analyze output missing %q:\n%s", want, out)
		}
	}
	if _, err := runCmd(t, "analyze", sal); err == nil {
		t.Fatalf("expected error when --y is missing")
	}
	if _, err := runCmd(t, "analyze", sal, "--y", "Salary", "--delimiter", "|"); err == nil {
		t.Fatalf("expected error for unsupported delimiter")
	}
}

func TestCLI_AnalyzeMissingColumn(t *testing.T) {
	perf, _ := fixture(t)
	out := mustRun(t, "analyze", perf, "--y", "Performance", "--group-by", "Education")
	if !strings.Contains(out, "Missing columns for Education analysis: Education.") {
		t.Fatalf("expected missing column notice:\n%s", out)
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	fixture(t)
	mustRun(t, "config", "set", "sample_rows", "3")
	mustRun(t, "config", "set", "chart_format", "svg")
	out := mustRun(t, "config", "show")
	if !strings.Contains(out, "sample_rows: 3") || !strings.Contains(out, "chart_format: svg") {
		t.Fatalf("config show = %s", out)
	}
	if _, err := runCmd(t, "config", "set", "chart_format", "gif"); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := runCmd(t, "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestCLI_SubcommandsLoadConfigAndFlagOverrides(t *testing.T) {
	perf, _ := fixture(t)
	mustRun(t, "config", "show", "--performance", perf)
	if cfg == nil {
		t.Fatalf("root pre-run hook did not load the config")
	}
	if cfg.PerformancePath != perf {
		t.Fatalf("performance path = %q, want %q", cfg.PerformancePath, perf)
	}
	if rootCmd.PersistentPreRunE == nil {
		t.Fatalf("root command has no pre-run hook")
	}
}
