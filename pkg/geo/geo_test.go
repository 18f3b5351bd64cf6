package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters_Symmetry(t *testing.T) {
	a := Coordinate{Latitude: 41.4036, Longitude: 2.1744}
	b := Coordinate{Latitude: 48.8584, Longitude: 2.2945}

	assert.Equal(t, DistanceMeters(a, b), DistanceMeters(b, a))
}

func TestDistanceMeters_ZeroForSamePoint(t *testing.T) {
	a := Coordinate{Latitude: 41.4036, Longitude: 2.1744}

	assert.Equal(t, 0.0, DistanceMeters(a, a))
}

func TestDistanceMeters_KnownDistances(t *testing.T) {
	t.Run("short hop inside a city", func(t *testing.T) {
		// Sagrada Familia vs a point one block away
		a := Coordinate{Latitude: 41.4036, Longitude: 2.1744}
		b := Coordinate{Latitude: 41.4035, Longitude: 2.1743}

		d := DistanceMeters(a, b)
		assert.Greater(t, d, 5.0)
		assert.Less(t, d, 30.0)
	})

	t.Run("city to city", func(t *testing.T) {
		barcelona := Coordinate{Latitude: 41.3851, Longitude: 2.1734}
		paris := Coordinate{Latitude: 48.8566, Longitude: 2.3522}

		d := DistanceMeters(barcelona, paris)
		// Roughly 830km
		assert.InDelta(t, 830000, d, 10000)
	})

	t.Run("antimeridian crossing", func(t *testing.T) {
		a := Coordinate{Latitude: 0, Longitude: 179.9}
		b := Coordinate{Latitude: 0, Longitude: -179.9}

		d := DistanceMeters(a, b)
		assert.Less(t, d, 30000.0)
	})
}
