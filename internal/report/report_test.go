package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/paradox-cli/internal/analysis"
	"github.com/KaramelBytes/paradox-cli/internal/dataset"
	"github.com/google/go-cmp/cmp"
)

const perfCSV = `id,Neuroticism,Performance,Job
1,1,5,Sales
2,2,4,Sales
3,3,3,Sales
4,4,9,Engineering
5,5,8,Engineering
6,6,7,Engineering
7,7,2,Intern
`

const salCSV = `id,Neuroticism,Salary,Education
1,1,30000,BSc
2,2,28000,BSc
3,3,26000,BSc
4,4,50000,MSc
5,5,48000,MSc
6,6,46000,MSc
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func load(t *testing.T, perf, sal string) Inputs {
	t.Helper()
	dir := t.TempDir()
	return LoadInputs(writeFile(t, dir, "HR_performance.csv", perf), writeFile(t, dir, "HR_salary.csv", sal), dataset.Options{})
}

func TestBuildFullReport(t *testing.T) {
	doc := Build(load(t, perfCSV, salCSV), Options{SampleRows: 3})

	if doc.Title != "Simpson's Paradox" {
		t.Fatalf("default title = %q", doc.Title)
	}
	if len(doc.Samples) != 2 || len(doc.Samples[0].Rows) != 3 || doc.Samples[1].Total != 6 {
		t.Fatalf("samples = %+v", doc.Samples)
	}
	_, summary := doc.Samples[0].SummaryTable()
	wantSummary := [][]string{
		{"Neuroticism", "7", "4", "2.16"},
		{"Performance", "7", "5.429", "2.637"},
	}
	if diff := cmp.Diff(wantSummary, summary); diff != "" {
		t.Fatalf("performance summary (-want +got):\n%s", diff)
	}
	var keys []string
	for _, a := range doc.Analyses {
		keys = append(keys, a.Key)
	}
	if diff := cmp.Diff([]string{KeyPerformance, KeySalary, KeyEducation, KeyJob}, keys); diff != "" {
		t.Fatalf("analysis order (-want +got):\n%s", diff)
	}
	if len(doc.Correlations) != 2 {
		t.Fatalf("correlations = %+v", doc.Correlations)
	}
	if got := doc.Correlations[1].Text(); !strings.HasPrefix(got, "Neuroticism vs Salary (overall): 0.") {
		t.Fatalf("salary correlation line = %q", got)
	}

	edu, ok := doc.Analysis(KeyEducation)
	if !ok || !edu.Result.Reversal.Complete {
		t.Fatalf("education should reverse completely: %+v", edu.Result.Reversal)
	}
	if !strings.Contains(edu.Commentary, "opposite to the overall trend") {
		t.Fatalf("commentary = %q", edu.Commentary)
	}
	if !strings.Contains(doc.Conclusion, "essence of Simpson's Paradox") {
		t.Fatalf("conclusion = %q", doc.Conclusion)
	}

	job, _ := doc.Analysis(KeyJob)
	if job.Result.Groups[2].Key != "Intern" || job.Result.Groups[2].Fit.Status != analysis.StatusInsufficient {
		t.Fatalf("single-row job should be insufficient: %+v", job.Result.Groups)
	}
}

func TestMissingEducationColumnOnlySkipsThatAnalysis(t *testing.T) {
	noEdu := "id,Neuroticism,Salary\n1,1,10\n2,2,30\n3,3,20\n"
	doc := Build(load(t, perfCSV, noEdu), Options{})

	edu, _ := doc.Analysis(KeyEducation)
	if !edu.Result.Skipped {
		t.Fatalf("education analysis should be skipped")
	}
	if got := edu.Result.Notices[0].Message; got != "Missing columns for Education analysis: Education." {
		t.Fatalf("notice = %q", got)
	}
	sal, _ := doc.Analysis(KeySalary)
	if sal.Result.Skipped || !sal.Result.Overall.Defined() {
		t.Fatalf("overall salary should still compute: %+v", sal.Result)
	}
	job, _ := doc.Analysis(KeyJob)
	if job.Result.Skipped || len(job.Result.Groups) != 3 {
		t.Fatalf("job analysis should run: %+v", job.Result)
	}
	md := doc.Markdown()
	if !strings.Contains(md, "Missing columns for Education analysis") {
		t.Fatalf("markdown lacks notice:\n%s", md)
	}
}

func TestLoadFailureBecomesNotice(t *testing.T) {
	dir := t.TempDir()
	in := LoadInputs(writeFile(t, dir, "p.csv", perfCSV), filepath.Join(dir, "absent.csv"), dataset.Options{})
	if !errors.Is(in.SalaryErr, os.ErrNotExist) {
		t.Fatalf("salary err = %v", in.SalaryErr)
	}
	doc := Build(in, Options{})
	if doc.Notices[0].Kind != analysis.NoticeLoadFailed || !strings.Contains(doc.Notices[0].Message, "HR Salary") {
		t.Fatalf("first notice = %+v", doc.Notices[0])
	}
	if len(doc.Samples) != 1 || len(doc.Correlations) != 1 {
		t.Fatalf("performance side should be unaffected: samples=%d corr=%d", len(doc.Samples), len(doc.Correlations))
	}
	perf, _ := doc.Analysis(KeyPerformance)
	if !perf.Result.Overall.Defined() {
		t.Fatalf("performance overall should compute")
	}
}

func TestTraitOverride(t *testing.T) {
	perf := strings.ReplaceAll(perfCSV, "Neuroticism", "Openness")
	sal := strings.ReplaceAll(salCSV, "Neuroticism", "Openness")
	doc := Build(load(t, perf, sal), Options{Trait: "Openness"})
	if got := doc.Correlations[0].Label; got != "Openness vs Performance (overall)" {
		t.Fatalf("label = %q", got)
	}
}

func TestMarkdownLayout(t *testing.T) {
	doc := Build(load(t, perfCSV, salCSV), Options{
		Title:      "Simpson's Paradox",
		Subtitle:   "HR case study",
		Byline:     []string{"**Author**: Analyst"},
		SampleRows: 2,
	})
	md := doc.Markdown()
	for _, want := range []string{
		"# Simpson's Paradox",
		"_HR case study_",
		"**Author**: Analyst",
		"## Introduction",
		"## Data Samples",
		"| id | Neuroticism | Performance | Job |",
		"| column | n | mean | sd |",
		"| Salary | 6 | 38000 | ",
		"## Overall Correlations",
		"- Neuroticism vs Performance (overall): ",
		"## Overall: Neuroticism vs Salary",
		"## Salary vs Neuroticism by Education",
		"| Education | n | r | slope | intercept |",
		"| BSc | 3 | -1.00 | -2000 | 32000 |",
		"## Performance vs Neuroticism by Job",
		"| Intern | 1 | insufficient data | - | - |",
		"## Conclusion",
		"## Notes",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	if strings.Contains(md, "NaN") {
		t.Fatalf("markdown leaked NaN:\n%s", md)
	}
}

func TestSectionsOmitNotesWhenClean(t *testing.T) {
	perf := strings.TrimSuffix(perfCSV, "7,7,2,Intern\n")
	doc := Build(load(t, perf, salCSV), Options{})
	secs := doc.Sections()
	if last := secs[len(secs)-1]; last.Kind != SectionConclusion {
		t.Fatalf("last section = %+v, notices = %+v", last, doc.Notices)
	}
	if len(secs) != 8 {
		t.Fatalf("sections = %d", len(secs))
	}
}
