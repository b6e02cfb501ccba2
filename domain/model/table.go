package model

import (
	"path/filepath"
	"strings"
)

// Table represents one loaded tabular input. It is immutable after
// construction; every record has exactly len(header) cells, which the
// loader guarantees before calling NewTable.
type Table struct {
	// name is the table name derived from the file path or given by the caller.
	name string
	// header is the ordered column names.
	header Header
	// records is the ordered data rows.
	records []Record
	// columnInfo contains inferred type information for each column.
	columnInfo []ColumnInfo
	// profiles contains per-column statistics used by key suggestion.
	profiles []ColumnProfile
}

// NewTable create new Table. Column types and profiles are derived here,
// once, from the data.
func NewTable(
	name string,
	header Header,
	records []Record,
) *Table {
	columnInfo := InferColumnsInfo(header, records)

	return &Table{
		name:       name,
		header:     header,
		records:    records,
		columnInfo: columnInfo,
		profiles:   ProfileColumns(header, records, columnInfo),
	}
}

// Name return table name.
func (t *Table) Name() string {
	return t.name
}

// Header return table header.
func (t *Table) Header() Header {
	return t.header
}

// Records return table records.
func (t *Table) Records() []Record {
	return t.records
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.records)
}

// ColumnInfo returns the per-column inferred types.
func (t *Table) ColumnInfo() []ColumnInfo {
	return t.columnInfo
}

// Profiles returns per-column statistics.
func (t *Table) Profiles() []ColumnProfile {
	return t.profiles
}

// Profile returns the profile of the named column, or nil when absent.
func (t *Table) Profile(name string) *ColumnProfile {
	i := t.header.Index(name)
	if i < 0 || i >= len(t.profiles) {
		return nil
	}
	return &t.profiles[i]
}

// Equal compare Table.
func (t *Table) Equal(t2 *Table) bool {
	if t.Name() != t2.Name() {
		return false
	}
	if !t.header.Equal(t2.header) {
		return false
	}
	if len(t.Records()) != len(t2.Records()) {
		return false
	}
	for i, record := range t.Records() {
		if !record.Equal(t2.Records()[i]) {
			return false
		}
	}
	return true
}

// TableFromFilePath derives a table name from a file path, stripping
// compression and format extensions.
func TableFromFilePath(filePath string) string {
	fileName := filepath.Base(filePath)
	// Remove compression extensions first
	for _, ext := range []string{ExtGZ, ExtBZ2, ExtXZ, ExtZSTD} {
		if strings.HasSuffix(fileName, ext) {
			fileName = strings.TrimSuffix(fileName, ext)
			break
		}
	}
	// Then remove the file type extension
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
