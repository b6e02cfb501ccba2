package tablediff

// LineStatus classifies one line of a script diff.
type LineStatus int

const (
	// LineUnchanged marks lines present in both scripts
	LineUnchanged LineStatus = iota
	// LineAdded marks lines only present in the second script
	LineAdded
	// LineRemoved marks lines only present in the first script
	LineRemoved
)

// String returns the status name used in the overlay sheet.
func (s LineStatus) String() string {
	switch s {
	case LineAdded:
		return "added"
	case LineRemoved:
		return "removed"
	default:
		return "unchanged"
	}
}

// LineChange is one line of a script diff. LineA and LineB are 1-based
// line numbers in each script; 0 means the line is absent from that side.
type LineChange struct {
	// Status classifies the line
	Status LineStatus
	// Text is the line content
	Text string
	// LineA is the line number in the first script, 0 for added lines
	LineA int
	// LineB is the line number in the second script, 0 for removed lines
	LineB int
}

// DiffLines computes a line-level diff of two scripts based on their
// longest common subsequence. Removed lines precede added lines within
// each divergent region, and line numbers on both sides are preserved.
func DiffLines(a, b []string) []LineChange {
	// lcs[i][j] is the LCS length of a[i:] and b[j:]
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var changes []LineChange
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			changes = append(changes, LineChange{
				Status: LineUnchanged,
				Text:   a[i],
				LineA:  i + 1,
				LineB:  j + 1,
			})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			changes = append(changes, LineChange{
				Status: LineRemoved,
				Text:   a[i],
				LineA:  i + 1,
			})
			i++
		default:
			changes = append(changes, LineChange{
				Status: LineAdded,
				Text:   b[j],
				LineB:  j + 1,
			})
			j++
		}
	}
	for ; i < len(a); i++ {
		changes = append(changes, LineChange{
			Status: LineRemoved,
			Text:   a[i],
			LineA:  i + 1,
		})
	}
	for ; j < len(b); j++ {
		changes = append(changes, LineChange{
			Status: LineAdded,
			Text:   b[j],
			LineB:  j + 1,
		})
	}
	return changes
}
