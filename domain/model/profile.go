package model

import "strings"

// nullLiterals are cell values treated as null when profiling columns.
// Matching is case-insensitive after trimming surrounding whitespace.
var nullLiterals = map[string]struct{}{
	"":     {},
	"null": {},
	"na":   {},
	"n/a":  {},
}

// IsNullValue reports whether a cell value represents a null.
func IsNullValue(value string) bool {
	_, ok := nullLiterals[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// ColumnProfile holds per-column statistics derived once at table load.
// The key suggester ranks join candidates with these numbers.
type ColumnProfile struct {
	// Name is the column name.
	Name string
	// Type is the inferred column type.
	Type ColumnType
	// Cardinality is the distinct value count, nulls collapsed to one value.
	Cardinality int
	// NullCount is the number of null cells.
	NullCount int
	// UniquenessRatio is Cardinality divided by row count, 0 for empty tables.
	UniquenessRatio float64
}

// profiler accumulates value counts for every column in a single pass.
type profiler struct {
	names       []string
	nullCounts  []int
	valueCounts []map[string]int
	rows        int
}

func newProfiler(header Header) *profiler {
	n := len(header)
	p := &profiler{
		names:       make([]string, n),
		nullCounts:  make([]int, n),
		valueCounts: make([]map[string]int, n),
	}
	for i, name := range header {
		p.names[i] = name
		p.valueCounts[i] = map[string]int{}
	}
	return p
}

func (p *profiler) process(row Record) {
	p.rows++
	for i := range p.names {
		if i >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[i])
		if IsNullValue(v) {
			p.nullCounts[i]++
			p.valueCounts[i][""]++
			continue
		}
		p.valueCounts[i][v]++
	}
}

func (p *profiler) summarize(columnInfo []ColumnInfo) []ColumnProfile {
	profiles := make([]ColumnProfile, len(p.names))
	for i, name := range p.names {
		profiles[i] = ColumnProfile{
			Name:        name,
			Cardinality: len(p.valueCounts[i]),
			NullCount:   p.nullCounts[i],
		}
		if i < len(columnInfo) {
			profiles[i].Type = columnInfo[i].Type
		}
		if p.rows > 0 {
			profiles[i].UniquenessRatio = float64(profiles[i].Cardinality) / float64(p.rows)
		}
	}
	return profiles
}

// ProfileColumns computes per-column statistics for the given table data.
func ProfileColumns(header Header, records []Record, columnInfo []ColumnInfo) []ColumnProfile {
	if len(header) == 0 {
		return nil
	}
	p := newProfiler(header)
	for _, record := range records {
		p.process(record)
	}
	return p.summarize(columnInfo)
}
