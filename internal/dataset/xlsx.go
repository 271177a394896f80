package dataset

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// readXLSX returns the rows of one worksheet, padded to the header width.
// An empty sheetName selects the first sheet listed in the workbook.
func readXLSX(file, sheetName string) ([][]string, error) {
	zr, err := zip.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer zr.Close()

	sheets := workbookSheets(zipEntry(&zr.Reader, "xl/workbook.xml"))
	rels := workbookRels(zipEntry(&zr.Reader, "xl/_rels/workbook.xml.rels"))
	shared := sharedStrings(zipEntry(&zr.Reader, "xl/sharedStrings.xml"))

	target := ""
	for i, s := range sheets {
		if (sheetName == "" && i == 0) || strings.EqualFold(s.name, sheetName) {
			target = sheetPath(rels[s.rid])
			break
		}
	}
	if target == "" {
		if sheetName != "" {
			names := make([]string, len(sheets))
			for i, s := range sheets {
				names[i] = s.name
			}
			return nil, fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, sheetName, strings.Join(names, ", "))
		}
		target = "xl/worksheets/sheet1.xml"
	}
	data := zipEntry(&zr.Reader, target)
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, target)
	}
	rows, err := sheetRows(data, shared)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("worksheet is empty")
	}
	width := len(rows[0])
	out := rows[:0]
	for _, r := range rows {
		if len(r) < width {
			r = append(r, make([]string, width-len(r))...)
		} else if len(r) > width {
			r = r[:width]
		}
		out = append(out, r)
	}
	return out, nil
}

type sheetRef struct {
	name string
	rid  string
}

func zipEntry(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			return nil
		}
		return b
	}
	return nil
}

func workbookSheets(data []byte) []sheetRef {
	var out []sheetRef
	eachStart(data, func(se xml.StartElement) {
		if se.Name.Local != "sheet" {
			return
		}
		var s sheetRef
		for _, a := range se.Attr {
			switch {
			case a.Name.Local == "name":
				s.name = a.Value
			case a.Name.Local == "id" && a.Name.Space != "":
				s.rid = a.Value
			}
		}
		out = append(out, s)
	})
	return out
}

func workbookRels(data []byte) map[string]string {
	out := map[string]string{}
	eachStart(data, func(se xml.StartElement) {
		if se.Name.Local != "Relationship" {
			return
		}
		var id, target string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id != "" && target != "" {
			out[id] = target
		}
	})
	return out
}

func eachStart(data []byte, fn func(xml.StartElement)) {
	if len(data) == 0 {
		return
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		if se, ok := tok.(xml.StartElement); ok {
			fn(se)
		}
	}
}

// sheetPath maps a relationship target to its zip entry; targets may be absolute
// ("/xl/worksheets/sheet1.xml") or relative to xl/.
func sheetPath(rel string) string {
	if rel == "" {
		return ""
	}
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}

func sharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []string
	var buf strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "si":
				buf.Reset()
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "si":
				out = append(out, buf.String())
			}
		case xml.CharData:
			if inText {
				buf.Write(el)
			}
		}
	}
}

// sheetRows decodes <row>/<c> elements. Cells are placed by their reference so
// sparse rows keep column alignment.
func sheetRows(data []byte, shared []string) ([][]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var rows [][]string
	var cur []string
	var cellType string
	col := -1
	var text strings.Builder
	inValue := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode worksheet: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "row":
				cur = nil
			case "c":
				cellType, col = "", len(cur)
				for _, a := range el.Attr {
					switch a.Name.Local {
					case "r":
						col = columnIndex(a.Value)
					case "t":
						cellType = a.Value
					}
				}
				if col < 0 {
					col = len(cur)
				}
				text.Reset()
			case "v", "t":
				inValue = true
			}
		case xml.CharData:
			if inValue {
				text.Write(el)
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "v", "t":
				inValue = false
			case "c":
				val := text.String()
				if cellType == "s" {
					val = sharedAt(shared, val)
				}
				for len(cur) <= col {
					cur = append(cur, "")
				}
				cur[col] = val
			case "row":
				rows = append(rows, cur)
			}
		}
	}
}

func sharedAt(shared []string, idx string) string {
	n := 0
	for _, c := range idx {
		if c < '0' || c > '9' {
			return ""
		}
		n = n*10 + int(c-'0')
	}
	if n < len(shared) {
		return shared[n]
	}
	return ""
}

// columnIndex converts a cell reference such as "C12" to a 0-based column.
func columnIndex(ref string) int {
	idx := 0
	for _, c := range strings.ToUpper(ref) {
		if c < 'A' || c > 'Z' {
			break
		}
		idx = idx*26 + int(c-'A'+1)
	}
	return idx - 1
}
