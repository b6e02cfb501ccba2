package tablediff

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/xuri/excelize/v2"

	"github.com/nao1215/tablediff/domain/model"
)

// LoadTable reads one tabular input file into memory. The format is
// detected from the file extension; compressed variants (.gz, .bz2, .xz,
// .zst) are transparently decompressed for delimited and SQL inputs.
//
// Supported formats:
//   - CSV files (.csv)
//   - TSV files (.tsv)
//   - SQL scripts (.sql), read as flat text and never executed
//   - Excel XLSX files (.xlsx), first sheet only
//   - Parquet files (.parquet)
func LoadTable(path string) (*model.Table, error) {
	file := model.NewFile(path)
	switch file.Type() {
	case model.FileTypeCSV, model.FileTypeTSV, model.FileTypeSQL:
		return file.ToTable()
	case model.FileTypeXLSX:
		reader, closer, err := file.OpenReader()
		if err != nil {
			return nil, err
		}
		defer closer()
		return parseXLSX(reader, model.TableFromFilePath(path))
	case model.FileTypeParquet:
		reader, closer, err := file.OpenReader()
		if err != nil {
			return nil, err
		}
		defer closer()
		return parseParquet(reader, model.TableFromFilePath(path))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadTableFromReader reads tabular data from r. The format and
// compression are detected from fileName, which is also the source of the
// table name. This is the entry point for uploaded files.
func LoadTableFromReader(r io.Reader, fileName string) (*model.Table, error) {
	fileType := model.DetectFileType(fileName)
	if fileType == model.FileTypeUnsupported {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileName)
	}

	reader, closer, err := model.DecompressReader(r, fileName)
	if err != nil {
		return nil, err
	}
	defer closer()

	name := model.TableFromFilePath(fileName)
	switch fileType {
	case model.FileTypeCSV:
		return model.ParseDelimited(reader, name, ',')
	case model.FileTypeTSV:
		return model.ParseDelimited(reader, name, '\t')
	case model.FileTypeSQL:
		return model.ParseScript(reader, name)
	case model.FileTypeXLSX:
		return parseXLSX(reader, name)
	case model.FileTypeParquet:
		return parseParquet(reader, name)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileName)
	}
}

// parseXLSX reads the first sheet of an XLSX workbook as a table.
func parseXLSX(reader io.Reader, name string) (*model.Table, error) {
	xlsxFile, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer func() {
		_ = xlsxFile.Close() // Ignore close error
	}()

	sheetNames := xlsxFile.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, fmt.Errorf("%w: %s: no sheets", ErrEmptyInput, name)
	}

	// Only the first sheet is compared
	sheetName := sheetNames[0]
	rows, err := xlsxFile.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s: sheet %s is empty", ErrEmptyInput, name, sheetName)
	}
	if err := model.ValidateColumnNames(rows[0]); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(rows) == 1 {
		return nil, fmt.Errorf("%w: %s: header only, no data rows", ErrEmptyInput, name)
	}

	header := make(model.Header, len(rows[0]))
	copy(header, rows[0])

	// Pad short rows with empty cells so every record matches the header
	records := make([]model.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(model.Record, len(header))
		for j := range header {
			if j < len(row) {
				record[j] = row[j]
			}
		}
		records = append(records, record)
	}

	return model.NewTable(name, header, records), nil
}

// parseParquet reads Parquet data as a table. The whole input is buffered
// because Parquet requires random access.
func parseParquet(reader io.Reader, name string) (*model.Table, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyInput, name)
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	arrowTable, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet table: %w", err)
	}
	defer arrowTable.Release()

	if arrowTable.NumRows() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyInput, name)
	}

	schema := arrowTable.Schema()
	header := make(model.Header, schema.NumFields())
	for i, field := range schema.Fields() {
		header[i] = field.Name
	}
	if err := model.ValidateColumnNames(header); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	tableReader := array.NewTableReader(arrowTable, 0)
	defer tableReader.Release()

	var records []model.Record
	for tableReader.Next() {
		batch := tableReader.Record()
		numRows := batch.NumRows()
		for i := int64(0); i < numRows; i++ {
			row := make(model.Record, batch.NumCols())
			for j, col := range batch.Columns() {
				row[j] = arrowCellValue(col, int(i))
			}
			records = append(records, row)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("error reading parquet records: %w", err)
	}

	return model.NewTable(name, header, records), nil
}

// arrowCellValue converts one arrow cell to its string form. Nulls become
// empty cells so the comparison null normalization applies to them.
func arrowCellValue(col arrow.Array, i int) string {
	if col.IsNull(i) {
		return ""
	}
	switch arr := col.(type) {
	case *array.String:
		return arr.Value(i)
	case *array.LargeString:
		return arr.Value(i)
	case *array.Boolean:
		return strconv.FormatBool(arr.Value(i))
	case *array.Int8:
		return strconv.FormatInt(int64(arr.Value(i)), 10)
	case *array.Int16:
		return strconv.FormatInt(int64(arr.Value(i)), 10)
	case *array.Int32:
		return strconv.FormatInt(int64(arr.Value(i)), 10)
	case *array.Int64:
		return strconv.FormatInt(arr.Value(i), 10)
	case *array.Uint8:
		return strconv.FormatUint(uint64(arr.Value(i)), 10)
	case *array.Uint16:
		return strconv.FormatUint(uint64(arr.Value(i)), 10)
	case *array.Uint32:
		return strconv.FormatUint(uint64(arr.Value(i)), 10)
	case *array.Uint64:
		return strconv.FormatUint(arr.Value(i), 10)
	case *array.Float32:
		return strconv.FormatFloat(float64(arr.Value(i)), 'g', -1, 32)
	case *array.Float64:
		return strconv.FormatFloat(arr.Value(i), 'g', -1, 64)
	default:
		return col.ValueStr(i)
	}
}
