package model

import "errors"

// ErrMalformedInput indicates rows with inconsistent column counts.
var ErrMalformedInput = errors.New("tablediff: malformed input")

// ErrEmptyInput indicates an input with no data rows.
var ErrEmptyInput = errors.New("tablediff: empty input")

// ErrDuplicateColumnName is returned when a header contains duplicate column names.
var ErrDuplicateColumnName = errors.New("tablediff: duplicate column name")
