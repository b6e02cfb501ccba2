package tablediff

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/tablediff/domain/model"
)

// Status classifies one row of the diff output.
type Status int

const (
	// StatusUnchanged marks rows equal in both tables
	StatusUnchanged Status = iota
	// StatusAdded marks rows present only in table B
	StatusAdded
	// StatusRemoved marks rows present only in table A
	StatusRemoved
	// StatusChanged marks rows present in both tables with differing cells
	StatusChanged
)

// String returns the status name used in output sheets.
func (s Status) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusRemoved:
		return "removed"
	case StatusChanged:
		return "changed"
	case StatusUnchanged:
		return "unchanged"
	default:
		return "unchanged"
	}
}

// CellChange records one differing cell of a changed row.
type CellChange struct {
	// Column is the column name
	Column string
	// Old is the cell value in table A
	Old string
	// New is the cell value in table B
	New string
}

// DiffRow is one row of the diff output. A is set for removed, changed
// and unchanged rows; B for added and changed rows.
type DiffRow struct {
	// Status classifies the row
	Status Status
	// Key holds the key cell values, or the row number in positional mode
	Key []string
	// A is the row from table A, nil for added rows
	A model.Record
	// B is the row from table B, nil for removed rows
	B model.Record
	// Changes lists the differing cells of a changed row
	Changes []CellChange
}

// Summary counts diff rows per status.
type Summary struct {
	Added     int
	Removed   int
	Changed   int
	Unchanged int
}

// Result is the outcome of comparing two tables. Rows follow table A
// order, with rows only present in table B appended in table B order.
type Result struct {
	// TableA and TableB are the input table names
	TableA string
	TableB string
	// HeaderA and HeaderB are the input headers
	HeaderA model.Header
	HeaderB model.Header
	// Key is the key columns used, empty in positional mode
	Key []string
	// Positional reports row-index alignment; row order must then match
	// between inputs for the diff to be meaningful
	Positional bool
	// Candidates are the key suggestions computed during Compare, best first
	Candidates []KeyCandidate
	// Rows is the ordered diff output
	Rows []DiffRow
	// ColumnsAdded are columns only present in table B
	ColumnsAdded []string
	// ColumnsRemoved are columns only present in table A
	ColumnsRemoved []string
	// Overlay is the optional script line diff attached by CompareScripts
	Overlay []LineChange
}

// Summary returns per-status row counts.
func (r *Result) Summary() Summary {
	var s Summary
	for _, row := range r.Rows {
		switch row.Status {
		case StatusAdded:
			s.Added++
		case StatusRemoved:
			s.Removed++
		case StatusChanged:
			s.Changed++
		case StatusUnchanged:
			s.Unchanged++
		}
	}
	return s
}

// columnPair maps a shared column to its positions in both tables.
type columnPair struct {
	name   string
	indexA int
	indexB int
}

// Diff joins two tables on the given key columns and classifies every
// row. An empty key means positional comparison by row index. The chosen
// key must be unique within each table; the first violation is reported
// as a DuplicateKeyError.
func Diff(a, b *model.Table, key []string, opts Options) (*Result, error) {
	result := &Result{
		TableA:     a.Name(),
		TableB:     b.Name(),
		HeaderA:    a.Header(),
		HeaderB:    b.Header(),
		Key:        key,
		Positional: len(key) == 0,
	}
	result.ColumnsAdded, result.ColumnsRemoved = columnDiff(a.Header(), b.Header())

	nulls := opts.nullSet()
	shared := sharedPairs(a.Header(), b.Header(), key)

	if len(key) == 0 {
		diffPositional(result, a, b, shared, nulls)
		return result, nil
	}

	indexesA, err := keyIndexes(a, key)
	if err != nil {
		return nil, err
	}
	indexesB, err := keyIndexes(b, key)
	if err != nil {
		return nil, err
	}

	rowsByKeyA, err := buildKeyIndex(a, indexesA)
	if err != nil {
		return nil, err
	}
	rowsByKeyB, err := buildKeyIndex(b, indexesB)
	if err != nil {
		return nil, err
	}

	// Table A order first: removed, changed and unchanged rows
	for _, recordA := range a.Records() {
		k := compositeKey(recordA, indexesA)
		rowB, inB := rowsByKeyB[k]
		if !inB {
			result.Rows = append(result.Rows, DiffRow{
				Status: StatusRemoved,
				Key:    keyValues(recordA, indexesA),
				A:      recordA,
			})
			continue
		}
		recordB := b.Records()[rowB]
		changes := compareRows(recordA, recordB, shared, nulls)
		status := StatusUnchanged
		if len(changes) > 0 {
			status = StatusChanged
		}
		result.Rows = append(result.Rows, DiffRow{
			Status:  status,
			Key:     keyValues(recordA, indexesA),
			A:       recordA,
			B:       recordB,
			Changes: changes,
		})
	}

	// Rows only present in table B, in table B order
	for _, recordB := range b.Records() {
		k := compositeKey(recordB, indexesB)
		if _, inA := rowsByKeyA[k]; !inA {
			result.Rows = append(result.Rows, DiffRow{
				Status: StatusAdded,
				Key:    keyValues(recordB, indexesB),
				B:      recordB,
			})
		}
	}

	return result, nil
}

// diffPositional aligns rows by index. Extra rows in A are removed, extra
// rows in B are added; the key of every diff row is its 1-based row number.
func diffPositional(result *Result, a, b *model.Table, shared []columnPair, nulls map[string]struct{}) {
	recordsA := a.Records()
	recordsB := b.Records()
	n := len(recordsA)
	if len(recordsB) > n {
		n = len(recordsB)
	}

	for i := 0; i < n; i++ {
		key := []string{strconv.Itoa(i + 1)}
		switch {
		case i >= len(recordsB):
			result.Rows = append(result.Rows, DiffRow{
				Status: StatusRemoved,
				Key:    key,
				A:      recordsA[i],
			})
		case i >= len(recordsA):
			result.Rows = append(result.Rows, DiffRow{
				Status: StatusAdded,
				Key:    key,
				B:      recordsB[i],
			})
		default:
			changes := compareRows(recordsA[i], recordsB[i], shared, nulls)
			status := StatusUnchanged
			if len(changes) > 0 {
				status = StatusChanged
			}
			result.Rows = append(result.Rows, DiffRow{
				Status:  status,
				Key:     key,
				A:       recordsA[i],
				B:       recordsB[i],
				Changes: changes,
			})
		}
	}
}

// compareRows compares the shared non-key cells of two aligned rows.
func compareRows(recordA, recordB model.Record, shared []columnPair, nulls map[string]struct{}) []CellChange {
	var changes []CellChange
	for _, pair := range shared {
		var valueA, valueB string
		if pair.indexA < len(recordA) {
			valueA = recordA[pair.indexA]
		}
		if pair.indexB < len(recordB) {
			valueB = recordB[pair.indexB]
		}
		if normalizeCell(valueA, nulls) != normalizeCell(valueB, nulls) {
			changes = append(changes, CellChange{
				Column: pair.name,
				Old:    valueA,
				New:    valueB,
			})
		}
	}
	return changes
}

// normalizeCell prepares a cell value for equality comparison: trailing
// whitespace is trimmed, null literals collapse to the empty string, and
// leading zeros are stripped from all-digit values.
func normalizeCell(value string, nulls map[string]struct{}) string {
	value = strings.TrimRight(value, " \t\r\n")
	if _, ok := nulls[strings.ToLower(strings.TrimSpace(value))]; ok {
		return ""
	}
	if isAllDigits(value) {
		trimmed := strings.TrimLeft(value, "0")
		if trimmed == "" {
			return "0"
		}
		return trimmed
	}
	return value
}

// isAllDigits reports whether value is a non-empty run of ASCII digits.
func isAllDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// indexFold resolves a column name within a header, preferring an exact
// match and falling back to a case-insensitive one. The fallback keeps
// the differ aligned with the suggester, which pairs columns across
// tables case-insensitively.
func indexFold(header model.Header, name string) int {
	if i := header.Index(name); i >= 0 {
		return i
	}
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// keyIndexes resolves key column names to positions within a table.
func keyIndexes(t *model.Table, key []string) ([]int, error) {
	indexes := make([]int, 0, len(key))
	for _, name := range key {
		i := indexFold(t.Header(), name)
		if i < 0 {
			return nil, fmt.Errorf("%w: column %q in table %q",
				ErrKeyColumnNotFound, name, t.Name())
		}
		indexes = append(indexes, i)
	}
	return indexes, nil
}

// buildKeyIndex maps every composite key value to its row index,
// reporting the first duplicate instead of overwriting it.
func buildKeyIndex(t *model.Table, indexes []int) (map[string]int, error) {
	rowsByKey := make(map[string]int, t.NumRows())
	for i, record := range t.Records() {
		k := compositeKey(record, indexes)
		if _, ok := rowsByKey[k]; ok {
			return nil, &DuplicateKeyError{
				Table:    t.Name(),
				Key:      strings.Join(keyValues(record, indexes), "-"),
				RowIndex: i,
			}
		}
		rowsByKey[k] = i
	}
	return rowsByKey, nil
}

// compositeKey builds the comparison key for a row. Key cells are
// trimmed and nulls collapse to "NA" before joining, so keys differing
// only in surrounding whitespace align.
func compositeKey(record model.Record, indexes []int) string {
	parts := keyValues(record, indexes)
	return strings.Join(parts, "\x1f")
}

// keyValues extracts the normalized key cells of a row. Leading zeros
// are stripped from all-digit cells like everywhere else, so keys "001"
// and "1" align.
func keyValues(record model.Record, indexes []int) []string {
	parts := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		var v string
		if idx < len(record) {
			v = strings.TrimSpace(record[idx])
		}
		switch {
		case model.IsNullValue(v):
			v = "NA"
		case isAllDigits(v):
			if trimmed := strings.TrimLeft(v, "0"); trimmed != "" {
				v = trimmed
			} else {
				v = "0"
			}
		}
		parts = append(parts, v)
	}
	return parts
}

// sharedPairs lists the columns present in both headers, excluding key
// columns, with their positions in each table.
// Column names are matched case-insensitively, like the suggester does.
func sharedPairs(headerA, headerB model.Header, key []string) []columnPair {
	keySet := make(map[string]struct{}, len(key))
	for _, name := range key {
		keySet[strings.ToLower(name)] = struct{}{}
	}

	var pairs []columnPair
	for i, name := range headerA {
		if _, isKey := keySet[strings.ToLower(name)]; isKey {
			continue
		}
		j := indexFold(headerB, name)
		if j < 0 {
			continue
		}
		pairs = append(pairs, columnPair{name: name, indexA: i, indexB: j})
	}
	return pairs
}

// columnDiff reports columns present in only one of the two headers,
// treating names that differ only in case as the same column.
func columnDiff(headerA, headerB model.Header) (added, removed []string) {
	for _, name := range headerB {
		if indexFold(headerA, name) < 0 {
			added = append(added, name)
		}
	}
	for _, name := range headerA {
		if indexFold(headerB, name) < 0 {
			removed = append(removed, name)
		}
	}
	return added, removed
}
