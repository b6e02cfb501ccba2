package tablediff

import (
	"sort"
	"strings"

	"github.com/nao1215/tablediff/domain/model"
)

// KeyCandidate is one ranked join-key suggestion. Columns holds a single
// column name for simple keys and several names for composite keys.
type KeyCandidate struct {
	// Columns are the key column names in table A order
	Columns []string
	// Score is the candidate confidence in (0, 1]
	Score float64
}

// sharedColumn is a column present in both tables, matched by name.
type sharedColumn struct {
	name       string // name as it appears in table A
	nameB      string // name as it appears in table B
	position   int    // column position in table A
	score      float64
	uniqA      float64
	uniqB      float64
	idLike     bool
	exactMatch bool
}

// SuggestKeys ranks the columns shared by both tables as join-key
// candidates, most confident first. It never fails: when no column or
// column combination is unique enough, the returned slice is empty and
// the caller should fall back to positional comparison.
//
// A column's score is uniq(A) x uniq(B) x nameFactor where nameFactor is
// 1 for an exact name match and Options.NamePenalty when the names only
// match case-insensitively. Columns below Options.UniquenessThreshold in
// either table are excluded. Qualifying id-like columns rank ahead of
// other qualifiers regardless of score. Composite keys are tried only
// when no single column qualifies.
func SuggestKeys(a, b *model.Table, opts Options) []KeyCandidate {
	shared := sharedColumns(a, b, opts)
	if len(shared) == 0 {
		return nil
	}

	var qualified []sharedColumn
	for _, col := range shared {
		if col.uniqA >= opts.UniquenessThreshold && col.uniqB >= opts.UniquenessThreshold {
			qualified = append(qualified, col)
		}
	}
	if len(qualified) > 0 {
		// An id-like column is the intended key even when a name-penalized
		// score puts it behind another unique column.
		sort.SliceStable(qualified, func(i, j int) bool {
			return qualified[i].idLike && !qualified[j].idLike
		})
		candidates := make([]KeyCandidate, 0, len(qualified))
		for _, col := range qualified {
			candidates = append(candidates, KeyCandidate{
				Columns: []string{col.name},
				Score:   col.score,
			})
		}
		return candidates
	}

	if composite, ok := compositeCandidate(a, b, shared, opts); ok {
		return []KeyCandidate{composite}
	}
	return nil
}

// sharedColumns pairs up columns present in both tables and scores them.
// The result is sorted best-first and deterministically: by score, then
// id-like names first, then table A column order.
func sharedColumns(a, b *model.Table, opts Options) []sharedColumn {
	exact := make(map[string]string, len(b.Header()))
	folded := make(map[string]string, len(b.Header()))
	for _, name := range b.Header() {
		exact[name] = name
		folded[strings.ToLower(name)] = name
	}

	var shared []sharedColumn
	for i, name := range a.Header() {
		nameB, exactMatch := exact[name]
		if !exactMatch {
			var ok bool
			nameB, ok = folded[strings.ToLower(name)]
			if !ok {
				continue
			}
		}

		profileA := a.Profile(name)
		profileB := b.Profile(nameB)
		if profileA == nil || profileB == nil {
			continue
		}

		nameFactor := 1.0
		if !exactMatch {
			nameFactor = opts.NamePenalty
		}

		shared = append(shared, sharedColumn{
			name:       name,
			nameB:      nameB,
			position:   i,
			score:      profileA.UniquenessRatio * profileB.UniquenessRatio * nameFactor,
			uniqA:      profileA.UniquenessRatio,
			uniqB:      profileB.UniquenessRatio,
			idLike:     isIDLike(name),
			exactMatch: exactMatch,
		})
	}

	sort.SliceStable(shared, func(i, j int) bool {
		if shared[i].score != shared[j].score {
			return shared[i].score > shared[j].score
		}
		if shared[i].idLike != shared[j].idLike {
			return shared[i].idLike
		}
		return shared[i].position < shared[j].position
	})
	return shared
}

// compositeCandidate greedily combines the best-scoring shared columns
// until the combined key is unique enough in both tables.
func compositeCandidate(a, b *model.Table, shared []sharedColumn, opts Options) (KeyCandidate, bool) {
	if len(shared) < 2 {
		return KeyCandidate{}, false
	}

	nameFactor := 1.0
	var columnsA, columnsB []string
	for _, col := range shared {
		columnsA = append(columnsA, col.name)
		columnsB = append(columnsB, col.nameB)
		if !col.exactMatch {
			nameFactor = opts.NamePenalty
		}
		if len(columnsA) < 2 {
			continue
		}

		uniqA := combinedUniqueness(a, columnsA)
		uniqB := combinedUniqueness(b, columnsB)
		if uniqA >= opts.UniquenessThreshold && uniqB >= opts.UniquenessThreshold {
			return KeyCandidate{
				Columns: columnsA,
				Score:   uniqA * uniqB * nameFactor,
			}, true
		}
	}
	return KeyCandidate{}, false
}

// combinedUniqueness is the uniqueness ratio of the concatenation of the
// given columns, computed the same way the differ builds its key index.
func combinedUniqueness(t *model.Table, columns []string) float64 {
	if t.NumRows() == 0 {
		return 0
	}

	indexes := make([]int, 0, len(columns))
	for _, name := range columns {
		i := t.Header().Index(name)
		if i < 0 {
			return 0
		}
		indexes = append(indexes, i)
	}

	distinct := make(map[string]struct{}, t.NumRows())
	for _, record := range t.Records() {
		distinct[compositeKey(record, indexes)] = struct{}{}
	}
	return float64(len(distinct)) / float64(t.NumRows())
}

// isIDLike reports whether a column name looks like a row identifier.
// Such columns rank ahead of other qualifying candidates.
func isIDLike(name string) bool {
	lower := strings.ToLower(name)
	return lower == "id" || strings.HasSuffix(lower, "_id")
}
