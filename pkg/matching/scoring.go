// Package matching pairs AI-proposed places with verified candidates using
// name similarity and geographic proximity.
package matching

import (
	"strings"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/normalizers"
)

// Contains-match acceptance gates. The length floor and ratio guard against
// short-token false positives ("nice" inside "venice" fails the ratio).
const (
	minContainsLength  = 4
	minContainsRatio   = 0.75
	containsScoreFloor = 0.85
)

// Scorer provides place-name comparison algorithms.
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Similarity returns a normalized similarity between two place names in
// [0, 1]: 1 for identical names after normalization, 0 for no resemblance.
//
// The comparison runs in order, returning the first decisive result:
// exact match after normalization, then a gated contains-match over the
// literal, core (prefix/suffix-stripped) and depluralized forms, then the
// best normalized Levenshtein similarity of the literal and core forms.
func (s *Scorer) Similarity(a, b string) float64 {
	n1 := normalizers.NormalizeName(a)
	n2 := normalizers.NormalizeName(b)

	if n1 == "" && n2 == "" {
		return 1.0
	}
	if n1 == "" || n2 == "" {
		return 0.0
	}
	if n1 == n2 {
		return 1.0
	}

	c1 := normalizers.CoreName(a)
	c2 := normalizers.CoreName(b)

	pairs := [][2]string{
		{n1, n2},
		{c1, c2},
		{normalizers.Depluralize(n1), normalizers.Depluralize(n2)},
	}
	for _, pair := range pairs {
		if score, ok := containsScore(pair[0], pair[1]); ok {
			return score
		}
	}

	lit := s.Levenshtein(n1, n2)
	core := s.Levenshtein(c1, c2)
	if core > lit {
		return core
	}
	return lit
}

// containsScore accepts a pair where the shorter string is contained in the
// longer one, provided the shorter is long enough and the pair's length
// ratio clears the gate. Score is the length ratio, floored at 0.85.
func containsScore(a, b string) (float64, bool) {
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) < minContainsLength || len(longer) == 0 {
		return 0, false
	}

	ratio := float64(len(shorter)) / float64(len(longer))
	if ratio < minContainsRatio {
		return 0, false
	}
	if !strings.Contains(longer, shorter) {
		return 0, false
	}

	if ratio < containsScoreFloor {
		return containsScoreFloor, true
	}
	return ratio, true
}

// Levenshtein returns a similarity score in [0, 1] derived from the edit
// distance of the two strings.
func (s *Scorer) Levenshtein(a, b string) float64 {
	distance := s.LevenshteinDistance(a, b)
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// LevenshteinDistance calculates the edit distance between two strings.
func (s *Scorer) LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	row := make([]int, len(rb)+1)
	prevRow := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prevRow[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			row[j] = min(min(row[j-1]+1, prevRow[j]+1), prevRow[j-1]+cost)
		}
		row, prevRow = prevRow, row
	}

	return prevRow[len(rb)]
}
