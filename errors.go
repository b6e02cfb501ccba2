package tablediff

import (
	"errors"
	"fmt"

	"github.com/nao1215/tablediff/domain/model"
)

// Sentinel errors surfaced by the comparison pipeline. Loader errors are
// defined in the model package and re-exported here so callers only need
// one import for errors.Is checks.
var (
	// ErrMalformedInput indicates rows with inconsistent column counts
	ErrMalformedInput = model.ErrMalformedInput

	// ErrEmptyInput indicates an input with no data rows
	ErrEmptyInput = model.ErrEmptyInput

	// ErrUnsupportedFormat indicates an unsupported file format
	ErrUnsupportedFormat = errors.New("tablediff: unsupported file format")

	// ErrDuplicateKey indicates the chosen key is not unique within a table
	ErrDuplicateKey = errors.New("tablediff: duplicate key")

	// ErrExport indicates the result could not be written as a spreadsheet
	ErrExport = errors.New("tablediff: export failed")

	// ErrKeyColumnNotFound indicates a chosen key column is absent from a table
	ErrKeyColumnNotFound = errors.New("tablediff: key column not found")
)

// DuplicateKeyError reports the first duplicate key value found while
// building the key index of a table. RowIndex is the zero-based data row
// at which the value appeared a second time.
type DuplicateKeyError struct {
	// Table is the name of the offending table
	Table string
	// Key is the duplicated key value
	Key string
	// RowIndex is the data row index of the second occurrence
	RowIndex int
}

// Error implements the error interface.
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("tablediff: duplicate key %q in table %q at row %d",
		e.Key, e.Table, e.RowIndex)
}

// Unwrap lets errors.Is match ErrDuplicateKey.
func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}
