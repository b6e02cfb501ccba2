package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Recognized datetime shapes. Each regexp gates the candidate time.Parse
// layouts so the parser is only invoked on plausible values.
var datetimeLayouts = []struct {
	shape   *regexp.Regexp
	layouts []string
}{
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`),
		[]string{time.RFC3339, time.RFC3339Nano},
	},
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02T15:04:05", "2006-01-02T15:04:05.000"},
	},
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`),
		[]string{"2006-01-02 15:04:05", "2006-01-02 15:04:05.000"},
	},
	{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		[]string{"2006-01-02"},
	},
	{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4} \d{1,2}:\d{2}:\d{2}( (AM|PM))?$`),
		[]string{"1/2/2006 15:04:05", "1/2/2006 3:04:05 PM", "01/02/2006 15:04:05"},
	},
	{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
		[]string{"1/2/2006", "01/02/2006"},
	},
	{
		regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4} \d{1,2}:\d{2}:\d{2}$`),
		[]string{"2.1.2006 15:04:05", "02.01.2006 15:04:05"},
	},
	{
		regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`),
		[]string{"2.1.2006", "02.01.2006"},
	},
}

func isDatetime(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, dl := range datetimeLayouts {
		if !dl.shape.MatchString(value) {
			continue
		}
		for _, layout := range dl.layouts {
			if _, err := time.Parse(layout, value); err == nil {
				return true
			}
		}
	}
	return false
}

// isBoolean reports whether a value is an alphabetic boolean literal.
// Numeric forms like "1"/"0" are deliberately left to the integer check.
func isBoolean(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "false":
		return true
	default:
		return false
	}
}

// InferColumnType picks the narrowest type that fits every non-empty value.
// Precedence when kinds mix: TEXT > DATETIME > REAL > INTEGER > BOOLEAN.
// A column with no non-empty values stays TEXT.
func InferColumnType(values []string) ColumnType {
	var hasDatetime, hasReal, hasInteger, hasBoolean bool

	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if isBoolean(value) {
			hasBoolean = true
			continue
		}
		if isDatetime(value) {
			hasDatetime = true
			continue
		}
		if _, err := strconv.ParseInt(value, 10, 64); err == nil {
			hasInteger = true
			continue
		}
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			hasReal = true
			continue
		}
		// One textual value makes the whole column text.
		return ColumnTypeText
	}

	// Booleans don't mix with anything else.
	if hasBoolean && (hasDatetime || hasReal || hasInteger) {
		return ColumnTypeText
	}

	switch {
	case hasDatetime:
		return ColumnTypeDatetime
	case hasReal:
		return ColumnTypeReal
	case hasInteger:
		return ColumnTypeInteger
	case hasBoolean:
		return ColumnTypeBoolean
	default:
		return ColumnTypeText
	}
}

// InferColumnsInfo infers a ColumnInfo per header column from the records.
// With no records every column is reported as TEXT.
func InferColumnsInfo(header Header, records []Record) []ColumnInfo {
	if len(header) == 0 {
		return nil
	}

	columns := make([]ColumnInfo, len(header))
	for i, name := range header {
		columns[i] = ColumnInfo{Name: name, Type: ColumnTypeText}
	}
	if len(records) == 0 {
		return columns
	}

	for i := range header {
		values := make([]string, 0, len(records))
		for _, record := range records {
			if i < len(record) {
				values = append(values, record[i])
			}
		}
		columns[i].Type = InferColumnType(values)
	}
	return columns
}
