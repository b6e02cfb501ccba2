package model

import (
	"compress/bzip2"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// FileType identifies an input format.
type FileType int

const (
	// FileTypeCSV represents CSV file type
	FileTypeCSV FileType = iota
	// FileTypeTSV represents TSV file type
	FileTypeTSV
	// FileTypeSQL represents SQL script file type, read as flat text
	FileTypeSQL
	// FileTypeXLSX represents Excel XLSX file type
	FileTypeXLSX
	// FileTypeParquet represents Parquet file type
	FileTypeParquet
	// FileTypeUnsupported represents unsupported file type
	FileTypeUnsupported
)

// String returns the file type name.
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "csv"
	case FileTypeTSV:
		return "tsv"
	case FileTypeSQL:
		return "sql"
	case FileTypeXLSX:
		return "xlsx"
	case FileTypeParquet:
		return "parquet"
	default:
		return "unsupported"
	}
}

// File extensions
const (
	// ExtCSV is the CSV file extension
	ExtCSV = ".csv"
	// ExtTSV is the TSV file extension
	ExtTSV = ".tsv"
	// ExtSQL is the SQL script file extension
	ExtSQL = ".sql"
	// ExtXLSX is the Excel XLSX file extension
	ExtXLSX = ".xlsx"
	// ExtParquet is the Parquet file extension
	ExtParquet = ".parquet"
	// ExtGZ is the gzip compression extension
	ExtGZ = ".gz"
	// ExtBZ2 is the bzip2 compression extension
	ExtBZ2 = ".bz2"
	// ExtXZ is the xz compression extension
	ExtXZ = ".xz"
	// ExtZSTD is the zstd compression extension
	ExtZSTD = ".zst"
)

// scriptColumn is the single column name of a table built from a SQL script.
const scriptColumn = "statement"

// File is an on-disk input that can be parsed into a Table.
type File struct {
	path     string
	fileType FileType
}

// NewFile wraps a path with its detected file type.
func NewFile(path string) *File {
	return &File{
		path:     path,
		fileType: DetectFileType(path),
	}
}

// IsSupportedFile reports whether the path names a loadable format.
func IsSupportedFile(fileName string) bool {
	return DetectFileType(strings.ToLower(fileName)) != FileTypeUnsupported
}

// Path returns the underlying file path.
func (f *File) Path() string {
	return f.path
}

// Type returns the detected file type.
func (f *File) Type() FileType {
	return f.fileType
}

// IsCompressed reports whether the path carries a compression extension.
func (f *File) IsCompressed() bool {
	return f.IsGZ() || f.IsBZ2() || f.IsXZ() || f.IsZSTD()
}

// IsGZ reports gzip compression.
func (f *File) IsGZ() bool {
	return strings.HasSuffix(f.path, ExtGZ)
}

// IsBZ2 reports bzip2 compression.
func (f *File) IsBZ2() bool {
	return strings.HasSuffix(f.path, ExtBZ2)
}

// IsXZ reports xz compression.
func (f *File) IsXZ() bool {
	return strings.HasSuffix(f.path, ExtXZ)
}

// IsZSTD reports zstd compression.
func (f *File) IsZSTD() bool {
	return strings.HasSuffix(f.path, ExtZSTD)
}

// DetectFileType detects file type from extension, considering compressed files
func DetectFileType(path string) FileType {
	basePath := path

	// Remove compression extensions
	if strings.HasSuffix(path, ExtGZ) {
		basePath = strings.TrimSuffix(path, ExtGZ)
	} else if strings.HasSuffix(path, ExtBZ2) {
		basePath = strings.TrimSuffix(path, ExtBZ2)
	} else if strings.HasSuffix(path, ExtXZ) {
		basePath = strings.TrimSuffix(path, ExtXZ)
	} else if strings.HasSuffix(path, ExtZSTD) {
		basePath = strings.TrimSuffix(path, ExtZSTD)
	}

	ext := strings.ToLower(filepath.Ext(basePath))
	switch ext {
	case ExtCSV:
		return FileTypeCSV
	case ExtTSV:
		return FileTypeTSV
	case ExtSQL:
		return FileTypeSQL
	case ExtXLSX:
		return FileTypeXLSX
	case ExtParquet:
		return FileTypeParquet
	default:
		return FileTypeUnsupported
	}
}

// OpenReader opens the file and returns a reader that handles compression
func (f *File) OpenReader() (io.Reader, func() error, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, nil, err
	}
	reader, closer, err := DecompressReader(file, f.path)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	return reader, func() error {
		if err := closer(); err != nil {
			file.Close()
			return err
		}
		return file.Close()
	}, nil
}

// DecompressReader wraps r with a decompression reader when the file name
// carries a compression extension. The returned closer releases only the
// decompressor; the caller still owns r.
func DecompressReader(r io.Reader, name string) (io.Reader, func() error, error) {
	noop := func() error { return nil }
	switch {
	case strings.HasSuffix(name, ExtGZ):
		gzReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gzReader, gzReader.Close, nil
	case strings.HasSuffix(name, ExtBZ2):
		return bzip2.NewReader(r), noop, nil
	case strings.HasSuffix(name, ExtXZ):
		xzReader, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return xzReader, noop, nil
	case strings.HasSuffix(name, ExtZSTD):
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return decoder, func() error {
			decoder.Close()
			return nil
		}, nil
	default:
		return r, noop, nil
	}
}

// ValidateColumnNames checks a header for duplicate column names.
func ValidateColumnNames(columns []string) error {
	seen := make(map[string]struct{}, len(columns))
	for _, name := range columns {
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateColumnName, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// ToTable converts file to Table structure. XLSX and Parquet files are
// handled by the tablediff package because their parsers live there.
func (f *File) ToTable() (*Table, error) {
	switch f.fileType {
	case FileTypeCSV:
		return f.parseDelimited(',')
	case FileTypeTSV:
		return f.parseDelimited('\t')
	case FileTypeSQL:
		return f.parseScript()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", f.path)
	}
}

// ParseDelimited reads delimited data into a Table. The first row is the
// header; every following row must have the same number of cells.
func ParseDelimited(r io.Reader, name string, delimiter rune) (*Table, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = delimiter
	rows, err := csvReader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) && errors.Is(parseErr.Err, csv.ErrFieldCount) {
			return nil, fmt.Errorf("%w: %s: row %d has inconsistent column count",
				ErrMalformedInput, name, parseErr.Line)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedInput, name, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyInput, name)
	}
	if err := ValidateColumnNames(rows[0]); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(rows) == 1 {
		return nil, fmt.Errorf("%w: %s: header only, no data rows", ErrEmptyInput, name)
	}

	header := NewHeader(rows[0])
	records := make([]Record, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		records = append(records, NewRecord(rows[i]))
	}
	return NewTable(name, header, records), nil
}

// ParseScript reads a SQL script as a flat one-column table of its
// non-empty lines. The script is never executed.
func ParseScript(r io.Reader, name string) (*Table, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedInput, name, err)
	}

	var records []Record
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, Record{line})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyInput, name)
	}
	return NewTable(name, Header{scriptColumn}, records), nil
}

// ScriptLines returns the raw lines of a script table in order.
func ScriptLines(t *Table) []string {
	lines := make([]string, 0, t.NumRows())
	for _, record := range t.Records() {
		if len(record) > 0 {
			lines = append(lines, record[0])
		}
	}
	return lines
}

func (f *File) parseDelimited(delimiter rune) (*Table, error) {
	reader, closer, err := f.OpenReader()
	if err != nil {
		return nil, err
	}
	defer closer()
	return ParseDelimited(reader, TableFromFilePath(f.path), delimiter)
}

func (f *File) parseScript() (*Table, error) {
	reader, closer, err := f.OpenReader()
	if err != nil {
		return nil, err
	}
	defer closer()
	return ParseScript(reader, TableFromFilePath(f.path))
}
