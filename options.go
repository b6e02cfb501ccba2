package tablediff

import "strings"

// Default tuning values for key suggestion and cell comparison.
const (
	// DefaultUniquenessThreshold is the minimum uniqueness ratio a column
	// needs in both tables to qualify as a key candidate.
	DefaultUniquenessThreshold = 0.95
	// DefaultNamePenalty is the score factor applied when column names only
	// match case-insensitively.
	DefaultNamePenalty = 0.9
)

// defaultNullLiterals are cell values treated as null during comparison,
// matched case-insensitively after trimming.
var defaultNullLiterals = []string{"", "null", "na", "n/a"}

// Options configures how two tables are compared.
//
// Example:
//
//	opts := NewOptions().
//		WithUniquenessThreshold(0.99).
//		WithKey("id")
//
//	result, err := Compare(ctx, a, b, opts)
type Options struct {
	// UniquenessThreshold is the minimum uniqueness ratio for key candidates
	UniquenessThreshold float64
	// NamePenalty is the score factor for case-insensitive-only name matches
	NamePenalty float64
	// NullLiterals are values treated as null during comparison
	NullLiterals []string
	// Key is the chosen key columns; empty means auto-suggest
	Key []string
	// Positional forces row-index alignment and skips key suggestion
	Positional bool
}

// NewOptions creates comparison options with default values.
func NewOptions() Options {
	return Options{
		UniquenessThreshold: DefaultUniquenessThreshold,
		NamePenalty:         DefaultNamePenalty,
		NullLiterals:        defaultNullLiterals,
	}
}

// WithUniquenessThreshold sets the minimum uniqueness ratio for key candidates.
func (o Options) WithUniquenessThreshold(threshold float64) Options {
	o.UniquenessThreshold = threshold
	return o
}

// WithNamePenalty sets the score factor for case-insensitive-only name matches.
func (o Options) WithNamePenalty(penalty float64) Options {
	o.NamePenalty = penalty
	return o
}

// WithNullLiterals sets the values treated as null during comparison.
func (o Options) WithNullLiterals(literals ...string) Options {
	o.NullLiterals = literals
	return o
}

// WithKey sets the key columns, skipping suggestion.
func (o Options) WithKey(columns ...string) Options {
	o.Key = columns
	return o
}

// WithPositional forces row-index alignment.
func (o Options) WithPositional() Options {
	o.Positional = true
	return o
}

// nullSet returns the null literals as a lowercase lookup set.
func (o Options) nullSet() map[string]struct{} {
	literals := o.NullLiterals
	if literals == nil {
		literals = defaultNullLiterals
	}
	set := make(map[string]struct{}, len(literals))
	for _, v := range literals {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}
