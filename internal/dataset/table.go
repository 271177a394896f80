package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"
)

// naTokens are cell values treated as missing in addition to blanks.
var naTokens = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None", "-"}

// Options controls how a table is read from disk.
type Options struct {
	// Delimiter for CSV. If 0, picked from the file extension (',' or '\t').
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// SheetName selects an XLSX sheet; empty means the first sheet.
	SheetName string
	// Logger receives load diagnostics; nil disables logging.
	Logger *zap.Logger
}

// Value is a numeric cell. Valid is false for blank, NA, unparsable or non-finite cells.
type Value struct {
	Float float64
	Valid bool
}

// Table is an immutable, row-keyed view of a delimited file. The first column of the
// source is the row id; the remaining columns are addressable by name.
type Table struct {
	name     string
	columns  []string
	index    map[string]int
	ids      []string
	cells    [][]string // row-major, len(columns) per row, trimmed
	missing  [][]bool
	opt      Options
	warnings []string
}

// Load reads a CSV/TSV or XLSX file into a Table.
func Load(path string, opt Options) (*Table, error) {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var (
		t   *Table
		err error
	)
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		records, rerr := readXLSX(path, opt.SheetName)
		if rerr != nil {
			return nil, &LoadError{Path: path, Err: rerr}
		}
		if len(records) == 1 {
			t, err = emptyTable(filepath.Base(path), records[0], opt)
		} else {
			df := dataframe.LoadRecords(records, frameOptions(',')...)
			if df.Err != nil {
				return nil, &LoadError{Path: path, Err: df.Err}
			}
			t, err = fromFrame(filepath.Base(path), df, opt)
		}
	} else {
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, &LoadError{Path: path, Err: rerr}
		}
		delim := opt.Delimiter
		if delim == 0 {
			delim = sniffDelimiter(path)
		}
		t, err = parseDelimited(filepath.Base(path), data, delim, opt)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	log.Debug("table loaded",
		zap.String("path", path),
		zap.Int("rows", t.Len()),
		zap.Strings("columns", t.Columns()),
		zap.Int("warnings", len(t.warnings)),
	)
	return t, nil
}

// Read builds a Table from delimited text; name is used for display only.
func Read(name string, r io.Reader, opt Options) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(name)
	}
	t, err := parseDelimited(name, data, delim, opt)
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}
	return t, nil
}

// parseDelimited reads delimited text. Text holding only a header row yields a
// table with columns and no rows.
func parseDelimited(name string, data []byte, delim rune, opt Options) (*Table, error) {
	if header, ok := headerOnly(data, delim); ok {
		return emptyTable(name, header, opt)
	}
	df := dataframe.ReadCSV(bytes.NewReader(data), frameOptions(delim)...)
	if df.Err != nil {
		return nil, df.Err
	}
	return fromFrame(name, df, opt)
}

// headerOnly reports whether data holds exactly one record and returns it.
func headerOnly(data []byte, delim rune) ([]string, bool) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	recs, err := r.ReadAll()
	if err != nil || len(recs) != 1 {
		return nil, false
	}
	return recs[0], true
}

func emptyTable(name string, header []string, opt Options) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrNoIDColumn
	}
	t := &Table{
		name:    name,
		columns: make([]string, 0, len(header)-1),
		index:   make(map[string]int, len(header)),
		opt:     opt,
	}
	for _, n := range header[1:] {
		t.addColumn(n)
	}
	return t, nil
}

// addColumn registers a named column and returns its position. The first of
// several columns with the same case-insensitive name wins lookups.
func (t *Table) addColumn(n string) int {
	clean := strings.TrimSpace(n)
	k := len(t.columns)
	t.columns = append(t.columns, clean)
	if _, dup := t.index[strings.ToLower(clean)]; !dup {
		t.index[strings.ToLower(clean)] = k
	}
	return k
}

// frameOptions loads every column as text; numeric parsing happens per column on demand.
func frameOptions(delim rune) []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naTokens),
		dataframe.WithDelimiter(delim),
	}
}

func fromFrame(name string, df dataframe.DataFrame, opt Options) (*Table, error) {
	names := df.Names()
	if len(names) == 0 {
		return nil, ErrNoIDColumn
	}
	nrow := df.Nrow()
	t := &Table{
		name:    name,
		columns: make([]string, 0, len(names)-1),
		index:   make(map[string]int, len(names)),
		ids:     make([]string, nrow),
		cells:   make([][]string, nrow),
		missing: make([][]bool, nrow),
		opt:     opt,
	}
	for i := range t.cells {
		t.cells[i] = make([]string, len(names)-1)
		t.missing[i] = make([]bool, len(names)-1)
	}
	seen := make(map[string]int, nrow)
	for j, n := range names {
		col := df.Col(n)
		recs := col.Records()
		nan := col.IsNaN()
		if j == 0 {
			for i := 0; i < nrow; i++ {
				id := strings.TrimSpace(recs[i])
				if nan[i] {
					id = ""
				}
				t.ids[i] = id
				if prev, ok := seen[id]; ok && id != "" {
					t.warnings = append(t.warnings, fmt.Sprintf("duplicate row id %q (rows %d and %d)", id, prev+1, i+1))
				} else {
					seen[id] = i
				}
			}
			continue
		}
		k := t.addColumn(n)
		for i := 0; i < nrow; i++ {
			if nan[i] {
				t.missing[i][k] = true
				continue
			}
			t.cells[i][k] = strings.TrimSpace(recs[i])
			if t.cells[i][k] == "" {
				t.missing[i][k] = true
			}
		}
	}
	return t, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

// Name returns the base name of the source file.
func (t *Table) Name() string { return t.name }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.ids) }

// Columns returns the named columns, excluding the id column.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// IDs returns the row ids in file order.
func (t *Table) IDs() []string {
	out := make([]string, len(t.ids))
	copy(out, t.ids)
	return out
}

// Warnings returns non-fatal issues found while loading.
func (t *Table) Warnings() []string {
	out := make([]string, len(t.warnings))
	copy(out, t.warnings)
	return out
}

// Has reports whether a column exists (case-insensitive).
func (t *Table) Has(col string) bool {
	_, ok := t.lookup(col)
	return ok
}

func (t *Table) lookup(col string) (int, bool) {
	k, ok := t.index[strings.ToLower(strings.TrimSpace(col))]
	return k, ok
}

// Floats parses a column as numbers. Missing and unparsable cells are returned invalid.
func (t *Table) Floats(col string) ([]Value, error) {
	k, ok := t.lookup(col)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoColumn, col)
	}
	out := make([]Value, len(t.cells))
	for i, row := range t.cells {
		if t.missing[i][k] {
			continue
		}
		if x, ok := parseNumeric(row[k], t.opt); ok {
			out[i] = Value{Float: x, Valid: true}
		}
	}
	return out, nil
}

// Strings returns a column as text; missing cells are "".
func (t *Table) Strings(col string) ([]string, error) {
	k, ok := t.lookup(col)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoColumn, col)
	}
	out := make([]string, len(t.cells))
	for i, row := range t.cells {
		if !t.missing[i][k] {
			out[i] = row[k]
		}
	}
	return out, nil
}

// Head returns the id header plus column names and up to n rows of raw cells.
func (t *Table) Head(n int) ([]string, [][]string) {
	header := append([]string{"id"}, t.columns...)
	if n > len(t.cells) {
		n = len(t.cells)
	}
	if n < 0 {
		n = 0
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, 0, len(header))
		row = append(row, t.ids[i])
		for k, c := range t.cells[i] {
			if t.missing[i][k] {
				c = ""
			}
			row = append(row, c)
		}
		rows[i] = row
	}
	return header, rows
}
