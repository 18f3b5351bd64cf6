package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorer_Similarity(t *testing.T) {
	scorer := NewScorer()

	t.Run("identical names return 1", func(t *testing.T) {
		assert.Equal(t, 1.0, scorer.Similarity("La Rambla", "La Rambla"))
	})

	t.Run("both empty return 1", func(t *testing.T) {
		assert.Equal(t, 1.0, scorer.Similarity("", ""))
	})

	t.Run("one empty returns 0", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.Similarity("La Rambla", ""))
		assert.Equal(t, 0.0, scorer.Similarity("", "La Rambla"))
	})

	t.Run("case and diacritics are ignored", func(t *testing.T) {
		assert.Equal(t, 1.0, scorer.Similarity("CAFÉ", "cafe"))
		assert.Equal(t, 1.0, scorer.Similarity("Park Güell", "park guell"))
	})

	t.Run("generic prefix variants match exactly on core", func(t *testing.T) {
		score := scorer.Similarity("Sagrada Familia", "Basílica de la Sagrada Família")
		assert.GreaterOrEqual(t, score, 0.85)
	})

	t.Run("plural variants match via contains", func(t *testing.T) {
		score := scorer.Similarity("La Rambla", "Las Ramblas")
		assert.GreaterOrEqual(t, score, 0.85)
	})

	t.Run("short contained token does not inflate", func(t *testing.T) {
		// "nice" is inside "venice" but the length ratio fails the gate.
		score := scorer.Similarity("Nice", "Venice")
		assert.Less(t, score, 0.75)
	})

	t.Run("unrelated names score low", func(t *testing.T) {
		score := scorer.Similarity("Eiffel Tower", "Tokyo Skytree")
		assert.Less(t, score, 0.5)
	})

	t.Run("category word variants match on core", func(t *testing.T) {
		score := scorer.Similarity("Picasso Museum", "Museu Picasso")
		assert.GreaterOrEqual(t, score, 0.85)
	})

	t.Run("scores stay within bounds", func(t *testing.T) {
		pairs := [][2]string{
			{"Mercat de la Boqueria", "La Boqueria Market"},
			{"Notre-Dame", "Notre Dame Cathedral"},
			{"Senso-ji Temple", "Sensoji"},
			{"a", "completely different place"},
		}
		for _, pair := range pairs {
			score := scorer.Similarity(pair[0], pair[1])
			assert.GreaterOrEqual(t, score, 0.0, "pair %v", pair)
			assert.LessOrEqual(t, score, 1.0, "pair %v", pair)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		a, b := "Museo del Prado", "Prado Museum"
		assert.Equal(t, scorer.Similarity(a, b), scorer.Similarity(b, a))
	})
}

func TestScorer_Levenshtein(t *testing.T) {
	scorer := NewScorer()

	t.Run("distance of equal strings is zero", func(t *testing.T) {
		assert.Equal(t, 0, scorer.LevenshteinDistance("rambla", "rambla"))
	})

	t.Run("distance against empty is full length", func(t *testing.T) {
		assert.Equal(t, 6, scorer.LevenshteinDistance("rambla", ""))
		assert.Equal(t, 6, scorer.LevenshteinDistance("", "rambla"))
	})

	t.Run("single substitution", func(t *testing.T) {
		assert.Equal(t, 1, scorer.LevenshteinDistance("prado", "prido"))
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		assert.Equal(t, 1, scorer.LevenshteinDistance("güell", "guell"))
	})

	t.Run("similarity normalizes by longer string", func(t *testing.T) {
		// distance 2 over max length 6
		assert.InDelta(t, 1.0-2.0/6.0, scorer.Levenshtein("nice", "venice"), 0.0001)
	})
}
