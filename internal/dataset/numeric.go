package dataset

import (
	"math"
	"strconv"
	"strings"
)

// parseNumeric parses a cell honoring locale separators and stray percent signs.
// Non-finite results are rejected so they never reach a computation.
func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "%", "")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		dec, thou = guessSeparators(raw)
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// guessSeparators picks the decimal and thousands separators of a cell. When
// both ',' and '.' occur the later one is the decimal mark. A lone separator
// is a thousands mark only when it splits the digits into groups of three,
// so "30,786" is 30786 while "2,75" is 2.75.
func guessSeparators(raw string) (dec, thou rune) {
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0:
		if cpos > dpos {
			return ',', '.'
		}
		return '.', ','
	case cpos >= 0:
		if grouped(raw, ",") {
			return '.', ','
		}
		return ',', 0
	case dpos >= 0 && strings.Count(raw, ".") > 1 && grouped(raw, "."):
		return ',', '.'
	}
	return '.', 0
}

// grouped reports whether sep splits s into a 1-3 digit head followed by
// groups of exactly three digits.
func grouped(s, sep string) bool {
	s = strings.TrimLeft(s, "+-")
	parts := strings.Split(s, sep)
	if len(parts) < 2 || len(parts[0]) == 0 || len(parts[0]) > 3 || !digits(parts[0]) {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 || !digits(p) {
			return false
		}
	}
	return true
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
