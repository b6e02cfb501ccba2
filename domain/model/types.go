// Package model provides the domain model for tablediff
package model

// Header is the ordered list of column names of a table.
type Header []string

// NewHeader create new Header.
func NewHeader(h []string) Header {
	return Header(h)
}

// Equal compare Header.
func (h Header) Equal(h2 Header) bool {
	if len(h) != len(h2) {
		return false
	}
	for i, v := range h {
		if v != h2[i] {
			return false
		}
	}
	return true
}

// Index returns the position of the named column, or -1 when absent.
func (h Header) Index(name string) int {
	for i, v := range h {
		if v == name {
			return i
		}
	}
	return -1
}

// Record is one row of cell values. Cells are kept as the raw strings
// read from the input; type information lives in ColumnInfo.
type Record []string

// NewRecord create new Record.
func NewRecord(r []string) Record {
	return Record(r)
}

// Equal compare Record.
func (r Record) Equal(r2 Record) bool {
	if len(r) != len(r2) {
		return false
	}
	for i, v := range r {
		if v != r2[i] {
			return false
		}
	}
	return true
}

// ColumnType represents the inferred type of a column.
type ColumnType int

const (
	// ColumnTypeText represents a text column
	ColumnTypeText ColumnType = iota
	// ColumnTypeInteger represents an integer column
	ColumnTypeInteger
	// ColumnTypeReal represents a floating point column
	ColumnTypeReal
	// ColumnTypeBoolean represents a true/false column
	ColumnTypeBoolean
	// ColumnTypeDatetime represents a datetime column stored as text
	ColumnTypeDatetime
)

const (
	typeText     = "TEXT"
	typeInteger  = "INTEGER"
	typeReal     = "REAL"
	typeBoolean  = "BOOLEAN"
	typeDatetime = "DATETIME"
)

// String returns the column type name.
func (ct ColumnType) String() string {
	switch ct {
	case ColumnTypeText:
		return typeText
	case ColumnTypeInteger:
		return typeInteger
	case ColumnTypeReal:
		return typeReal
	case ColumnTypeBoolean:
		return typeBoolean
	case ColumnTypeDatetime:
		return typeDatetime
	default:
		return typeText
	}
}

// ColumnInfo pairs a column name with its inferred type.
type ColumnInfo struct {
	Name string
	Type ColumnType
}
