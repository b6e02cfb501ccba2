package tablediff

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook.
const (
	sheetSummary   = "summary"
	sheetAdded     = "added"
	sheetRemoved   = "removed"
	sheetChanged   = "changed"
	sheetUnchanged = "unchanged"
	sheetOverlay   = "sql_overlay"
)

// Fill and font colors for status highlighting.
const (
	colorAddedFill   = "C6EFCE"
	colorAddedFont   = "006100"
	colorRemovedFill = "FFC7CE"
	colorRemovedFont = "9C0006"
)

// statusStyles holds the excelize style IDs for one workbook.
type statusStyles struct {
	added   int
	removed int
}

// WriteXLSX serializes the result to w as an XLSX workbook with one
// sheet per status plus a summary. Cell values that the format cannot
// represent are written as their string form instead of aborting the
// export.
func (r *Result) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close() // Ignore close error
	}()

	styles, err := newStatusStyles(f)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}

	// The default sheet becomes the summary so it opens first
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	if err := r.writeSummarySheet(f); err != nil {
		return err
	}
	if err := r.writeStatusSheet(f, sheetAdded, StatusAdded, styles.added); err != nil {
		return err
	}
	if err := r.writeStatusSheet(f, sheetRemoved, StatusRemoved, styles.removed); err != nil {
		return err
	}
	if err := r.writeChangedSheet(f); err != nil {
		return err
	}
	if err := r.writeStatusSheet(f, sheetUnchanged, StatusUnchanged, 0); err != nil {
		return err
	}
	if len(r.Overlay) > 0 {
		if err := r.writeOverlaySheet(f, styles); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}

// SaveXLSX writes the workbook to the given path.
func (r *Result) SaveXLSX(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	if err := r.WriteXLSX(file); err != nil {
		_ = file.Close() // Ignore close error during error handling
		return err
	}
	return file.Close()
}

func newStatusStyles(f *excelize.File) (statusStyles, error) {
	added, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorAddedFill}},
		Font: &excelize.Font{Color: colorAddedFont},
	})
	if err != nil {
		return statusStyles{}, err
	}
	removed, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorRemovedFill}},
		Font: &excelize.Font{Color: colorRemovedFont},
	})
	if err != nil {
		return statusStyles{}, err
	}
	return statusStyles{added: added, removed: removed}, nil
}

// writeSummarySheet writes per-status counts and comparison metadata.
func (r *Result) writeSummarySheet(f *excelize.File) error {
	summary := r.Summary()

	keyLabel := "positional (row order must match)"
	if !r.Positional {
		keyLabel = strings.Join(r.Key, ", ")
	}

	rows := [][]interface{}{
		{"status", "rows"},
		{sheetAdded, summary.Added},
		{sheetRemoved, summary.Removed},
		{sheetChanged, summary.Changed},
		{sheetUnchanged, summary.Unchanged},
		{},
		{"table_a", r.TableA},
		{"table_b", r.TableB},
		{"key", keyLabel},
		{"columns_added", strings.Join(r.ColumnsAdded, ", ")},
		{"columns_removed", strings.Join(r.ColumnsRemoved, ", ")},
	}
	return writeRows(f, sheetSummary, rows)
}

// writeStatusSheet writes every row of one status with the appropriate
// source header: table B for added rows, table A otherwise.
func (r *Result) writeStatusSheet(f *excelize.File, sheet string, status Status, styleID int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}

	header := r.HeaderA
	if status == StatusAdded {
		header = r.HeaderB
	}

	rows := make([][]interface{}, 0, 8)
	headerRow := make([]interface{}, 0, len(header)+1)
	headerRow = append(headerRow, "key")
	for _, name := range header {
		headerRow = append(headerRow, name)
	}
	rows = append(rows, headerRow)

	for _, diffRow := range r.Rows {
		if diffRow.Status != status {
			continue
		}
		record := diffRow.A
		if status == StatusAdded {
			record = diffRow.B
		}
		row := make([]interface{}, 0, len(record)+1)
		row = append(row, strings.Join(diffRow.Key, "-"))
		for _, cell := range record {
			row = append(row, cell)
		}
		rows = append(rows, row)
	}

	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	if styleID != 0 && len(rows) > 1 {
		if err := styleDataRows(f, sheet, len(headerRow), len(rows), styleID); err != nil {
			return err
		}
	}
	return nil
}

// writeChangedSheet writes one row per changed cell: the key, the column
// name and the old and new values.
func (r *Result) writeChangedSheet(f *excelize.File) error {
	if _, err := f.NewSheet(sheetChanged); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}

	rows := [][]interface{}{{"key", "column", "old", "new"}}
	for _, diffRow := range r.Rows {
		if diffRow.Status != StatusChanged {
			continue
		}
		key := strings.Join(diffRow.Key, "-")
		for _, change := range diffRow.Changes {
			rows = append(rows, []interface{}{key, change.Column, change.Old, change.New})
		}
	}
	return writeRows(f, sheetChanged, rows)
}

// writeOverlaySheet writes the script line diff with status coloring.
func (r *Result) writeOverlaySheet(f *excelize.File, styles statusStyles) error {
	if _, err := f.NewSheet(sheetOverlay); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}

	rows := [][]interface{}{{"line", "status", "line_a", "line_b"}}
	for _, change := range r.Overlay {
		lineA, lineB := "", ""
		if change.LineA > 0 {
			lineA = fmt.Sprint(change.LineA)
		}
		if change.LineB > 0 {
			lineB = fmt.Sprint(change.LineB)
		}
		rows = append(rows, []interface{}{change.Text, change.Status.String(), lineA, lineB})
	}
	if err := writeRows(f, sheetOverlay, rows); err != nil {
		return err
	}

	for i, change := range r.Overlay {
		var styleID int
		switch change.Status {
		case LineAdded:
			styleID = styles.added
		case LineRemoved:
			styleID = styles.removed
		default:
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}
		if err := f.SetCellStyle(sheetOverlay, cell, cell, styleID); err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}
	}
	return nil
}

// writeRows writes rows starting at A1. A row that cannot be written as
// typed values is retried cell by cell with string coercion so a single
// odd value never aborts the export.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			if coerceErr := coerceRow(f, sheet, i+1, row); coerceErr != nil {
				return fmt.Errorf("%w: %v", ErrExport, coerceErr)
			}
		}
	}
	return nil
}

// coerceRow writes a row cell by cell, stringifying every value.
func coerceRow(f *excelize.File, sheet string, rowNum int, row []interface{}) error {
	for j, value := range row {
		cell, err := excelize.CoordinatesToCellName(j+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, fmt.Sprint(value)); err != nil {
			return err
		}
	}
	return nil
}

// styleDataRows applies a style to every data row of a sheet.
func styleDataRows(f *excelize.File, sheet string, cols, rows, styleID int) error {
	start, err := excelize.CoordinatesToCellName(1, 2)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	end, err := excelize.CoordinatesToCellName(cols, rows)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	if err := f.SetCellStyle(sheet, start, end, styleID); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}
