package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	t.Run("case folding and whitespace", func(t *testing.T) {
		assert.Equal(t, "la rambla", NormalizeName("  La   Rambla "))
	})

	t.Run("diacritics stripped", func(t *testing.T) {
		assert.Equal(t, "sagrada familia", NormalizeName("Sagrada Família"))
		assert.Equal(t, "musee d'orsay", NormalizeName("Musée d’Orsay"))
	})

	t.Run("apostrophe variants canonicalized", func(t *testing.T) {
		assert.Equal(t, NormalizeName("L'Aquarium"), NormalizeName("L’Aquarium"))
	})

	t.Run("empty stays empty", func(t *testing.T) {
		assert.Equal(t, "", NormalizeName(""))
	})
}

func TestCoreName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"article stripped", "La Rambla", "rambla"},
		{"compound prefix stripped", "Basílica de la Sagrada Família", "sagrada familia"},
		{"market prefix stripped", "Mercat de la Boqueria", "boqueria"},
		{"category token removed", "Picasso Museum", "picasso"},
		{"translated category removed", "Museo del Prado", "prado"},
		{"hyphens become spaces", "Notre-Dame", "notre dame"},
		{"trailing suffix stripped", "Senso-ji Temple", "senso ji"},
		{"plain name unchanged", "Park Guell", "park guell"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CoreName(tc.in))
		})
	}
}

func TestDepluralize(t *testing.T) {
	assert.Equal(t, "rambla", Depluralize("ramblas"))
	assert.Equal(t, "glass", Depluralize("glass"))
	assert.Equal(t, "spa", Depluralize("spa"))
}

func TestRegistry(t *testing.T) {
	fn, ok := Get("core_name")
	assert.True(t, ok)
	assert.Equal(t, "sagrada familia", fn("Basílica de la Sagrada Família"))

	assert.Equal(t, "unchanged", Apply("unchanged", "does_not_exist"))
	assert.Equal(t, "34123456789", Apply("+34 123 456 789", "nphone"))
}
