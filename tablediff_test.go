package tablediff

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/tablediff/domain/model"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	t.Run("key is suggested automatically", func(t *testing.T) {
		t.Parallel()

		a := model.NewTable("a", model.Header{"id", "name"}, []model.Record{
			{"1", "Bob"},
			{"2", "Amy"},
		})
		b := model.NewTable("b", model.Header{"id", "name"}, []model.Record{
			{"1", "Bob"},
			{"2", "Amy2"},
		})

		result, err := Compare(context.Background(), a, b, NewOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{"id"}, result.Key)
		assert.False(t, result.Positional)
		require.NotEmpty(t, result.Candidates)
		assert.Equal(t, []string{"id"}, result.Candidates[0].Columns)
		assert.Equal(t, 1, result.Summary().Changed)
	})

	t.Run("explicit key skips suggestion", func(t *testing.T) {
		t.Parallel()

		a := model.NewTable("a", model.Header{"id", "name"}, []model.Record{{"1", "Bob"}})
		b := model.NewTable("b", model.Header{"id", "name"}, []model.Record{{"1", "Bob"}})

		opts := NewOptions().WithKey("name")
		result, err := Compare(context.Background(), a, b, opts)
		require.NoError(t, err)
		assert.Equal(t, []string{"name"}, result.Key)
		assert.Empty(t, result.Candidates)
	})

	t.Run("no candidate falls back to positional", func(t *testing.T) {
		t.Parallel()

		a := model.NewTable("a", model.Header{"city"}, []model.Record{
			{"Tokyo"},
			{"Tokyo"},
		})
		b := model.NewTable("b", model.Header{"city"}, []model.Record{
			{"Tokyo"},
			{"Osaka"},
		})

		result, err := Compare(context.Background(), a, b, NewOptions())
		require.NoError(t, err)
		assert.True(t, result.Positional)
		assert.Empty(t, result.Key)
		assert.Equal(t, 1, result.Summary().Changed)
	})

	t.Run("positional option forces row alignment", func(t *testing.T) {
		t.Parallel()

		a := model.NewTable("a", model.Header{"id", "name"}, []model.Record{
			{"1", "Bob"},
			{"2", "Amy"},
		})
		b := model.NewTable("b", model.Header{"id", "name"}, []model.Record{
			{"2", "Amy"},
			{"1", "Bob"},
		})

		result, err := Compare(context.Background(), a, b, NewOptions().WithPositional())
		require.NoError(t, err)
		assert.True(t, result.Positional)
		assert.Empty(t, result.Candidates)
		assert.Equal(t, 2, result.Summary().Changed)
	})

	t.Run("case mismatched headers compare end to end", func(t *testing.T) {
		t.Parallel()

		a := model.NewTable("a", model.Header{"ID", "name"}, []model.Record{
			{"1", "Bob"},
			{"2", "Bob"},
		})
		b := model.NewTable("b", model.Header{"id", "name"}, []model.Record{
			{"1", "Bob"},
			{"2", "Amy"},
		})

		result, err := Compare(context.Background(), a, b, NewOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{"ID"}, result.Key)
		require.NotEmpty(t, result.Candidates)
		assert.InDelta(t, DefaultNamePenalty, result.Candidates[0].Score, 0.0001)

		// "ID"/"id" and "name" pair up despite the case difference
		assert.Empty(t, result.ColumnsAdded)
		assert.Empty(t, result.ColumnsRemoved)

		summary := result.Summary()
		assert.Equal(t, 1, summary.Changed)
		assert.Equal(t, 1, summary.Unchanged)
	})

	t.Run("canceled context aborts", func(t *testing.T) {
		t.Parallel()

		a := model.NewTable("a", model.Header{"id"}, []model.Record{{"1"}})
		b := model.NewTable("b", model.Header{"id"}, []model.Record{{"1"}})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Compare(ctx, a, b, NewOptions())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCompareFiles(t *testing.T) {
	t.Parallel()

	t.Run("CSV inputs end to end", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		pathA := filepath.Join(dir, "before.csv")
		pathB := filepath.Join(dir, "after.csv")
		require.NoError(t, os.WriteFile(pathA, []byte("id,name\n1,Bob\n2,Amy\n"), 0o600))
		require.NoError(t, os.WriteFile(pathB, []byte("id,name\n1,Bob\n2,Amy2\n3,Eve\n"), 0o600))

		result, err := CompareFiles(context.Background(), pathA, pathB, NewOptions())
		require.NoError(t, err)
		assert.Equal(t, "before", result.TableA)
		assert.Equal(t, "after", result.TableB)
		assert.Equal(t, []string{"id"}, result.Key)

		summary := result.Summary()
		assert.Equal(t, 1, summary.Added)
		assert.Equal(t, 1, summary.Changed)
		assert.Equal(t, 1, summary.Unchanged)
	})

	t.Run("mixed formats compare", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		pathA := filepath.Join(dir, "before.csv")
		pathB := filepath.Join(dir, "after.tsv")
		require.NoError(t, os.WriteFile(pathA, []byte("id,name\n1,Bob\n"), 0o600))
		require.NoError(t, os.WriteFile(pathB, []byte("id\tname\n1\tBob\n"), 0o600))

		result, err := CompareFiles(context.Background(), pathA, pathB, NewOptions())
		require.NoError(t, err)
		assert.Equal(t, 1, result.Summary().Unchanged)
	})

	t.Run("load failure surfaces", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		pathB := filepath.Join(dir, "after.csv")
		require.NoError(t, os.WriteFile(pathB, []byte("id\n1\n"), 0o600))

		_, err := CompareFiles(context.Background(), filepath.Join(dir, "missing.csv"), pathB, NewOptions())
		assert.Error(t, err)
	})
}

func TestCompareScripts(t *testing.T) {
	t.Parallel()

	a := model.NewTable("a", model.Header{"id"}, []model.Record{{"1"}})
	b := model.NewTable("b", model.Header{"id"}, []model.Record{{"1"}})
	result, err := Diff(a, b, []string{"id"}, NewOptions())
	require.NoError(t, err)

	scriptA, err := model.ParseScript(bytes.NewBufferString("SELECT 1;\n"), "a")
	require.NoError(t, err)
	scriptB, err := model.ParseScript(bytes.NewBufferString("SELECT 1;\nSELECT 2;\n"), "b")
	require.NoError(t, err)

	CompareScripts(result, scriptA, scriptB)
	require.Len(t, result.Overlay, 2)
	assert.Equal(t, LineUnchanged, result.Overlay[0].Status)
	assert.Equal(t, LineAdded, result.Overlay[1].Status)
}
