package address

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// closest returns the candidate nearest to target by edit distance,
// comparing case-insensitively. Ties keep the earliest candidate. Reports
// false when the best distance exceeds max or there are no candidates.
func closest(target string, candidates []string, max int) (string, bool) {
	lower := strings.ToLower(target)
	best := -1
	var match string
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(c))
		if best == -1 || d < best {
			best, match = d, c
		}
	}
	if best == -1 || best > max {
		return "", false
	}
	return match, true
}
