package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrNoColumn indicates a requested column is absent from the table.
	ErrNoColumn = errors.New("no such column")
	// ErrNoIDColumn indicates the source has no columns at all.
	ErrNoIDColumn = errors.New("table has no id column")
	// ErrSheetNotFound indicates the requested XLSX sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
)

// LoadError wraps a failure to read or decode an input table.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "load failed"
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
