// Package tablediff compares two tabular inputs row by row and exports
// the result as a spreadsheet.
//
// A comparison runs as a single pipeline: two files are loaded into
// in-memory tables, the most likely join-key columns are suggested from
// per-column uniqueness statistics, the tables are joined on the chosen
// key and every row is classified as added, removed, changed or
// unchanged, and the classified rows are written to an XLSX workbook
// with one sheet per status plus a summary.
//
// Example:
//
//	result, err := tablediff.CompareFiles(ctx, "before.csv", "after.csv", tablediff.NewOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := result.SaveXLSX("comparison_results.xlsx"); err != nil {
//		log.Fatal(err)
//	}
//
// Each comparison is a pure function of its two inputs and the chosen
// key; nothing is shared between comparisons and nothing is persisted.
package tablediff

import (
	"context"

	"github.com/nao1215/tablediff/domain/model"
)

// Compare diffs two loaded tables. When no key is configured in opts and
// positional mode is not forced, the best key candidate is chosen
// automatically; if no candidate is unique enough the comparison falls
// back to positional row alignment, which the result reports through
// Result.Positional.
func Compare(ctx context.Context, a, b *model.Table, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := opts.Key
	var candidates []KeyCandidate
	if len(key) == 0 && !opts.Positional {
		candidates = SuggestKeys(a, b, opts)
		if len(candidates) > 0 {
			key = candidates[0].Columns
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := Diff(a, b, key, opts)
	if err != nil {
		return nil, err
	}
	result.Candidates = candidates
	return result, nil
}

// CompareFiles loads two files and diffs them. See LoadTable for the
// supported formats.
func CompareFiles(ctx context.Context, pathA, pathB string, opts Options) (*Result, error) {
	a, err := LoadTable(pathA)
	if err != nil {
		return nil, err
	}
	b, err := LoadTable(pathB)
	if err != nil {
		return nil, err
	}
	return Compare(ctx, a, b, opts)
}

// CompareScripts attaches a line-level diff of two SQL scripts to an
// existing result. The scripts are treated as flat text and never
// executed.
func CompareScripts(result *Result, scriptA, scriptB *model.Table) {
	result.Overlay = DiffLines(model.ScriptLines(scriptA), model.ScriptLines(scriptB))
}
