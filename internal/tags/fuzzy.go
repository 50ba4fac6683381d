package tags

import (
	"sort"
	"strings"
)

// DefaultThreshold is the permissiveness cutoff for fuzzy matches on a 0-1
// scale, where 0 is an exact match and 1 is no similarity. Catalog entries
// scoring above it are excluded.
const DefaultThreshold = 0.4

// Matcher ranks a tag catalog against partial user input. It holds no state
// beyond its threshold and is safe to call on every keystroke.
type Matcher struct {
	Threshold float64
}

// NewMatcher returns a Matcher with the default threshold.
func NewMatcher() *Matcher {
	return &Matcher{Threshold: DefaultThreshold}
}

type scored struct {
	tag   Tag
	score float64
	pos   int
}

// Match scores every catalog entry against query and returns the entries at
// or below the threshold, closest first, ties broken by catalog order. An
// empty (trimmed) query returns the full catalog in catalog order. The
// catalog slice is never mutated.
func (m *Matcher) Match(query string, catalog []Tag) []Tag {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]Tag, len(catalog))
		copy(out, catalog)
		return out
	}

	var hits []scored
	for i, t := range catalog {
		s := distanceScore(query, t)
		if s <= m.Threshold {
			hits = append(hits, scored{tag: t, score: s, pos: i})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score < hits[j].score
		}
		return hits[i].pos < hits[j].pos
	})

	out := make([]Tag, len(hits))
	for i, h := range hits {
		out[i] = h.tag
	}
	return out
}

// distanceScore returns a normalized edit distance between the query and a
// candidate in [0,1]: 0 for an exact match, 1 for no similarity. A query
// that appears as a substring of the candidate scores by how little of the
// candidate it leaves uncovered, at half weight, so short prefixes of long
// tags still clear the threshold the way a bitap-style matcher would.
func distanceScore(query, candidate string) float64 {
	q := strings.ToLower(query)
	c := strings.ToLower(candidate)

	if q == c {
		return 0
	}
	if len(c) == 0 || len(q) == 0 {
		return 1
	}

	if strings.Contains(c, q) {
		return (1 - float64(len(q))/float64(len(c))) / 2
	}

	distance := levenshtein(q, c)
	maxLen := len(q)
	if len(c) > maxLen {
		maxLen = len(c)
	}
	return float64(distance) / float64(maxLen)
}

// levenshtein calculates the edit distance between two strings.
func levenshtein(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}

			matrix[i][j] = minOf(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}

func minOf(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
