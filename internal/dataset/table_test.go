package dataset

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const perfCSV = `,Neuroticism,Performance,Job
1,2.5,60,Sales
2,3.1,NA,Sales
3,,55,IT
4,4.0,70.5,
5,1.5,50,IT
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadCSVKeepsRowsAndMarksMissing(t *testing.T) {
	tbl, err := Load(writeFile(t, "HR_performance.csv", perfCSV), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Name() != "HR_performance.csv" {
		t.Fatalf("name = %q", tbl.Name())
	}
	if tbl.Len() != 5 {
		t.Fatalf("rows = %d, want 5", tbl.Len())
	}
	if got := strings.Join(tbl.Columns(), ","); got != "Neuroticism,Performance,Job" {
		t.Fatalf("columns = %s", got)
	}
	if got := strings.Join(tbl.IDs(), ","); got != "1,2,3,4,5" {
		t.Fatalf("ids = %s", got)
	}

	perf, err := tbl.Floats("Performance")
	if err != nil {
		t.Fatalf("Floats: %v", err)
	}
	if perf[1].Valid {
		t.Fatalf("NA should be invalid, got %+v", perf[1])
	}
	if !perf[3].Valid || perf[3].Float != 70.5 {
		t.Fatalf("row 4 performance = %+v", perf[3])
	}
	neuro, _ := tbl.Floats("neuroticism")
	if neuro[2].Valid {
		t.Fatalf("blank trait should be invalid")
	}

	jobs, err := tbl.Strings("Job")
	if err != nil {
		t.Fatalf("Strings: %v", err)
	}
	if jobs[3] != "" || jobs[4] != "IT" {
		t.Fatalf("jobs = %#v", jobs)
	}
}

func TestFloatsUnknownColumn(t *testing.T) {
	tbl, err := Read("perf.csv", strings.NewReader(perfCSV), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if _, err := tbl.Floats("Salary"); !errors.Is(err, ErrNoColumn) {
		t.Fatalf("expected ErrNoColumn, got %v", err)
	}
}

func TestLoadLocaleAndSemicolon(t *testing.T) {
	body := "id;Neuroticism;Salary;Education\n" +
		"a;2,5;1.200,50;BSc\n" +
		"b;3,0;1.500,00;MSc\n" +
		"c;inf;900;BSc\n"
	tbl, err := Read("salary.csv", strings.NewReader(body), Options{Delimiter: ';', DecimalSeparator: ',', ThousandsSeparator: '.'})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	sal, _ := tbl.Floats("Salary")
	if !sal[0].Valid || sal[0].Float != 1200.5 {
		t.Fatalf("salary[0] = %+v", sal[0])
	}
	neuro, _ := tbl.Floats("Neuroticism")
	if neuro[1].Float != 3.0 {
		t.Fatalf("neuroticism[1] = %+v", neuro[1])
	}
	if neuro[2].Valid {
		t.Fatalf("non-finite values must be invalid, got %+v", neuro[2])
	}
}

func TestDuplicateIDsWarn(t *testing.T) {
	body := "id,Neuroticism,Salary\n1,1,10\n1,2,20\n"
	tbl, err := Read("dup.csv", strings.NewReader(body), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
	w := tbl.Warnings()
	if len(w) != 1 || !strings.Contains(w[0], `duplicate row id "1"`) {
		t.Fatalf("warnings = %#v", w)
	}
}

func TestHead(t *testing.T) {
	tbl, err := Read("perf.csv", strings.NewReader(perfCSV), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	header, rows := tbl.Head(2)
	if strings.Join(header, ",") != "id,Neuroticism,Performance,Job" {
		t.Fatalf("header = %#v", header)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if strings.Join(rows[1], ",") != "2,3.1,,Sales" {
		t.Fatalf("row 2 = %#v", rows[1])
	}
	if _, rows := tbl.Head(100); len(rows) != 5 {
		t.Fatalf("head beyond length = %d rows", len(rows))
	}
}

func TestProbeAndRecords(t *testing.T) {
	tbl, err := Read("perf.csv", strings.NewReader(perfCSV), Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	a := Probe(tbl, SalarySchema.Columns()...)
	if a.OK() {
		t.Fatalf("salary schema should not be satisfied")
	}
	if strings.Join(a.Missing, ",") != "Salary,Education" {
		t.Fatalf("missing = %#v", a.Missing)
	}
	if strings.Join(a.Present, ",") != "Neuroticism" {
		t.Fatalf("present = %#v", a.Present)
	}
	if nilA := Probe(nil, "x"); len(nilA.Missing) != 1 || nilA.Missing[0] != "x" {
		t.Fatalf("nil table should report every column missing")
	}

	if _, err := tbl.Records(SalarySchema); !errors.Is(err, ErrNoColumn) {
		t.Fatalf("expected ErrNoColumn, got %v", err)
	}
	recs, err := tbl.Records(PerformanceSchema)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("records = %d", len(recs))
	}
	if recs[0].ID != "1" || recs[0].Group != "Sales" || recs[0].Trait.Float != 2.5 {
		t.Fatalf("record 0 = %+v", recs[0])
	}
	if recs[3].Group != "" {
		t.Fatalf("missing job should be empty, got %q", recs[3].Group)
	}
}

func TestHeaderOnlyIsEmptyTable(t *testing.T) {
	tbl, err := Load(writeFile(t, "HR_salary.csv", "id,Neuroticism,Salary,Education\n"), Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Len() != 0 {
		t.Fatalf("rows = %d, want 0", tbl.Len())
	}
	if got := strings.Join(tbl.Columns(), ","); got != "Neuroticism,Salary,Education" {
		t.Fatalf("columns = %s", got)
	}
	if a := Probe(tbl, SalarySchema.Columns()...); !a.OK() {
		t.Fatalf("header-only table should have every column: %+v", a)
	}
	header, rows := tbl.Head(5)
	if len(header) != 4 || len(rows) != 0 {
		t.Fatalf("head = %v %v", header, rows)
	}

	if _, err := Read("blank.csv", strings.NewReader(""), Options{}); err == nil {
		t.Fatalf("a file without a header should fail to load")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), Options{})
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("LoadError should unwrap to ErrNotExist: %v", err)
	}
}

func TestLoadXLSX(t *testing.T) {
	path := writeXLSX(t)
	tbl, err := Load(path, Options{SheetName: "Salary"})
	if err != nil {
		t.Fatalf("Load xlsx: %v", err)
	}
	if got := strings.Join(tbl.Columns(), ","); got != "Neuroticism,Salary,Education" {
		t.Fatalf("columns = %s", got)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d", tbl.Len())
	}
	sal, _ := tbl.Floats("Salary")
	if sal[1].Float != 2500 {
		t.Fatalf("salary[1] = %+v", sal[1])
	}
	edu, _ := tbl.Strings("Education")
	if edu[0] != "BSc" || edu[1] != "" {
		t.Fatalf("education = %#v", edu)
	}

	if _, err := Load(path, Options{SheetName: "Nope"}); !errors.Is(err, ErrSheetNotFound) {
		t.Fatalf("expected ErrSheetNotFound, got %v", err)
	}
}

func TestSheetPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"worksheets/sheet2.xml", "xl/worksheets/sheet2.xml"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sheetPath(tt.in); got != tt.want {
			t.Errorf("sheetPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColumnIndex(t *testing.T) {
	for ref, want := range map[string]int{"A1": 0, "C12": 2, "Z3": 25, "AA10": 26, "ab2": 27} {
		if got := columnIndex(ref); got != want {
			t.Errorf("columnIndex(%q) = %d, want %d", ref, got, want)
		}
	}
}

// writeXLSX builds a two-sheet workbook; the second sheet uses shared strings,
// an inline string and a sparse row.
func writeXLSX(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "hr.xlsx")
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	files := map[string]string{
		"xl/workbook.xml": `<?xml version="1.0" encoding="UTF-8"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="Other" sheetId="1" r:id="rId1"/><sheet name="Salary" sheetId="2" r:id="rId2"/></sheets>
</workbook>`,
		"xl/_rels/workbook.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="worksheet" Target="worksheets/sheet1.xml"/>
<Relationship Id="rId2" Type="worksheet" Target="/xl/worksheets/sheet2.xml"/>
</Relationships>`,
		"xl/sharedStrings.xml": `<?xml version="1.0" encoding="UTF-8"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<si><t>id</t></si><si><t>Neuroticism</t></si><si><t>Salary</t></si><si><t>Education</t></si><si><t>BSc</t></si>
</sst>`,
		"xl/worksheets/sheet1.xml": `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1" t="inlineStr"><is><t>unused</t></is></c></row>
</sheetData></worksheet>`,
		"xl/worksheets/sheet2.xml": `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c><c r="C1" t="s"><v>2</v></c><c r="D1" t="s"><v>3</v></c></row>
<row r="2"><c r="A2"><v>1</v></c><c r="B2"><v>2.5</v></c><c r="C2"><v>1800</v></c><c r="D2" t="s"><v>4</v></c></row>
<row r="3"><c r="A3" t="inlineStr"><is><t>2</t></is></c><c r="B3"><v>3</v></c><c r="C3"><v>2500</v></c></row>
</sheetData></worksheet>`,
	}
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return p
}
