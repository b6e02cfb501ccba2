package tablediff

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nao1215/tablediff/domain/model"
)

func TestResultWriteXLSX(t *testing.T) {
	t.Parallel()

	a := model.NewTable("before", model.Header{"id", "name", "city"}, []model.Record{
		{"1", "Bob", "Tokyo"},
		{"2", "Amy", "Osaka"},
		{"3", "Eve", "Kyoto"},
	})
	b := model.NewTable("after", model.Header{"id", "name", "city"}, []model.Record{
		{"1", "Bob", "Tokyo"},
		{"2", "Amy2", "Osaka"},
		{"4", "Ken", "Nagoya"},
	})

	result, err := Compare(context.Background(), a, b, NewOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, result.WriteXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()

	t.Run("workbook has one sheet per status plus summary", func(t *testing.T) {
		sheets := f.GetSheetList()
		assert.Contains(t, sheets, "summary")
		assert.Contains(t, sheets, "added")
		assert.Contains(t, sheets, "removed")
		assert.Contains(t, sheets, "changed")
		assert.Contains(t, sheets, "unchanged")
		assert.NotContains(t, sheets, "sql_overlay")
	})

	t.Run("summary counts match the diff", func(t *testing.T) {
		rows, err := f.GetRows("summary")
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(rows), 5)

		assert.Equal(t, []string{"status", "rows"}, rows[0])
		assert.Equal(t, []string{"added", "1"}, rows[1])
		assert.Equal(t, []string{"removed", "1"}, rows[2])
		assert.Equal(t, []string{"changed", "1"}, rows[3])
		assert.Equal(t, []string{"unchanged", "1"}, rows[4])
	})

	t.Run("added rows come from table B", func(t *testing.T) {
		rows, err := f.GetRows("added")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"key", "id", "name", "city"}, rows[0])
		assert.Equal(t, []string{"4", "4", "Ken", "Nagoya"}, rows[1])
	})

	t.Run("removed rows come from table A", func(t *testing.T) {
		rows, err := f.GetRows("removed")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"3", "3", "Eve", "Kyoto"}, rows[1])
	})

	t.Run("changed sheet lists one row per changed cell", func(t *testing.T) {
		rows, err := f.GetRows("changed")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"key", "column", "old", "new"}, rows[0])
		assert.Equal(t, []string{"2", "name", "Amy", "Amy2"}, rows[1])
	})
}

func TestResultWriteXLSXOverlay(t *testing.T) {
	t.Parallel()

	a := model.NewTable("a", model.Header{"id"}, []model.Record{{"1"}})
	b := model.NewTable("b", model.Header{"id"}, []model.Record{{"1"}})

	result, err := Diff(a, b, []string{"id"}, NewOptions())
	require.NoError(t, err)

	scriptA, err := model.ParseScript(bytes.NewBufferString("SELECT 1;\nSELECT old;\n"), "a")
	require.NoError(t, err)
	scriptB, err := model.ParseScript(bytes.NewBufferString("SELECT 1;\nSELECT new;\n"), "b")
	require.NoError(t, err)
	CompareScripts(result, scriptA, scriptB)

	var buf bytes.Buffer
	require.NoError(t, result.WriteXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()

	rows, err := f.GetRows("sql_overlay")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"line", "status", "line_a", "line_b"}, rows[0])
	assert.Equal(t, []string{"SELECT 1;", "unchanged", "1", "1"}, rows[1])
	assert.Equal(t, []string{"SELECT old;", "removed", "2"}, rows[2])
	assert.Equal(t, []string{"SELECT new;", "added", "", "2"}, rows[3])
}

func TestResultSaveXLSX(t *testing.T) {
	t.Parallel()

	a := model.NewTable("a", model.Header{"id", "name"}, []model.Record{{"1", "Bob"}})
	b := model.NewTable("b", model.Header{"id", "name"}, []model.Record{{"1", "Bob"}})

	result, err := Diff(a, b, []string{"id"}, NewOptions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "comparison_results.xlsx")
	require.NoError(t, result.SaveXLSX(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()
	assert.Contains(t, f.GetSheetList(), "summary")
}
