package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/geo"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
)

// Sagrada Família, Barcelona.
var sagradaCoord = geo.Coordinate{Latitude: 41.4036, Longitude: 2.1744}

func liveCandidate(id, name string, coord geo.Coordinate) models.LiveCandidate {
	return models.LiveCandidate{ProviderPlaceID: id, Name: name, Coordinate: coord}
}

func cachedCandidate(id, name string, coord geo.Coordinate) models.CachedCandidate {
	return models.CachedCandidate{RecordID: id, Name: name, Coordinate: coord}
}

func TestMatcher_Match(t *testing.T) {
	matcher := NewMatcher(DefaultConfig())

	t.Run("accepts nearby candidate with matching name", func(t *testing.T) {
		proposed := []models.ProposedPlace{{
			Name: "Sagrada Familia",
			// ~15m offset from the candidate
			Coordinate: geo.Coordinate{Latitude: 41.40373, Longitude: 2.17444},
		}}
		candidates := []models.VerifiedCandidate{
			liveCandidate("g-1", "Basílica de la Sagrada Família", sagradaCoord),
		}

		result := matcher.Match(proposed, candidates)

		require.Len(t, result.Links, 1)
		assert.Empty(t, result.Unmatched)
		assert.Equal(t, "g-1", result.Links[0].Candidate.CandidateID())
		assert.Equal(t, models.SourceKindLive, result.Links[0].SourceKind)
		assert.GreaterOrEqual(t, result.Links[0].MatchScore, 0.85)
	})

	t.Run("rejects distant candidate despite identical name", func(t *testing.T) {
		proposed := []models.ProposedPlace{{
			Name: "Sagrada Familia",
			// ~3km north of the candidate
			Coordinate: geo.Coordinate{Latitude: 41.4306, Longitude: 2.1744},
		}}
		candidates := []models.VerifiedCandidate{
			liveCandidate("g-1", "Sagrada Familia", sagradaCoord),
		}

		result := matcher.Match(proposed, candidates)

		assert.Empty(t, result.Links)
		require.Len(t, result.Unmatched, 1)
		assert.Equal(t, "Sagrada Familia", result.Unmatched[0].Name)
	})

	t.Run("rejects dissimilar name at the same coordinate", func(t *testing.T) {
		proposed := []models.ProposedPlace{{
			Name:       "Casa Batlló",
			Coordinate: sagradaCoord,
		}}
		candidates := []models.VerifiedCandidate{
			liveCandidate("g-1", "Sagrada Familia", sagradaCoord),
		}

		result := matcher.Match(proposed, candidates)

		assert.Empty(t, result.Links)
		assert.Len(t, result.Unmatched, 1)
	})

	t.Run("similar city names do not cross-match", func(t *testing.T) {
		// "nice" is a substring of "venice" but must fail the contains gate.
		proposed := []models.ProposedPlace{{
			Name:       "Nice",
			Coordinate: geo.Coordinate{Latitude: 43.7102, Longitude: 7.2620},
		}}
		candidates := []models.VerifiedCandidate{
			liveCandidate("g-1", "Venice", geo.Coordinate{Latitude: 43.7102, Longitude: 7.2620}),
		}

		result := matcher.Match(proposed, candidates)

		assert.Empty(t, result.Links)
		assert.Len(t, result.Unmatched, 1)
	})

	t.Run("exact name tolerates the widest distance ceiling", func(t *testing.T) {
		proposed := []models.ProposedPlace{{
			Name: "Sagrada Familia",
			// ~1.5km away, allowed only because the name match is near-perfect
			Coordinate: geo.Coordinate{Latitude: 41.4171, Longitude: 2.1744},
		}}
		candidates := []models.VerifiedCandidate{
			liveCandidate("g-1", "Sagrada Familia", sagradaCoord),
		}

		result := matcher.Match(proposed, candidates)

		require.Len(t, result.Links, 1)
		assert.Empty(t, result.Unmatched)
	})

	t.Run("moderate name similarity gets the tight ceiling", func(t *testing.T) {
		// score ~0.857 via plural contains: ceiling is 1000m, so 1.5km fails.
		proposed := []models.ProposedPlace{{
			Name:       "La Rambla",
			Coordinate: geo.Coordinate{Latitude: 41.3947, Longitude: 2.1700},
		}}
		candidates := []models.VerifiedCandidate{
			liveCandidate("g-1", "Las Ramblas", geo.Coordinate{Latitude: 41.3811, Longitude: 2.1700}),
		}

		result := matcher.Match(proposed, candidates)

		assert.Empty(t, result.Links)
		assert.Len(t, result.Unmatched, 1)
	})

	t.Run("picks the best scoring candidate", func(t *testing.T) {
		proposed := []models.ProposedPlace{{
			Name:       "Sagrada Familia",
			Coordinate: sagradaCoord,
		}}
		candidates := []models.VerifiedCandidate{
			liveCandidate("far", "Sagrada Familia", geo.Coordinate{Latitude: 41.4126, Longitude: 2.1744}),
			liveCandidate("near", "Sagrada Familia", sagradaCoord),
		}

		result := matcher.Match(proposed, candidates)

		require.Len(t, result.Links, 1)
		assert.Equal(t, "near", result.Links[0].Candidate.CandidateID())
	})

	t.Run("equal scores prefer live over cached", func(t *testing.T) {
		proposed := []models.ProposedPlace{{
			Name:       "Sagrada Familia",
			Coordinate: sagradaCoord,
		}}
		candidates := []models.VerifiedCandidate{
			cachedCandidate("row-1", "Sagrada Familia", sagradaCoord),
			liveCandidate("g-1", "Sagrada Familia", sagradaCoord),
		}

		result := matcher.Match(proposed, candidates)

		require.Len(t, result.Links, 1)
		assert.Equal(t, models.SourceKindLive, result.Links[0].SourceKind)
		assert.Equal(t, "g-1", result.Links[0].Candidate.CandidateID())
	})

	t.Run("cached order first still yields live on tie", func(t *testing.T) {
		proposed := []models.ProposedPlace{{
			Name:       "Park Güell",
			Coordinate: geo.Coordinate{Latitude: 41.4145, Longitude: 2.1527},
		}}
		candidates := []models.VerifiedCandidate{
			liveCandidate("g-1", "Park Güell", geo.Coordinate{Latitude: 41.4145, Longitude: 2.1527}),
			cachedCandidate("row-1", "Park Güell", geo.Coordinate{Latitude: 41.4145, Longitude: 2.1527}),
		}

		result := matcher.Match(proposed, candidates)

		require.Len(t, result.Links, 1)
		assert.Equal(t, models.SourceKindLive, result.Links[0].SourceKind)
	})

	t.Run("empty candidate list leaves everything unmatched", func(t *testing.T) {
		proposed := []models.ProposedPlace{
			{Name: "Sagrada Familia", Coordinate: sagradaCoord},
			{Name: "Casa Batlló", Coordinate: geo.Coordinate{Latitude: 41.3917, Longitude: 2.1650}},
		}

		result := matcher.Match(proposed, nil)

		assert.Empty(t, result.Links)
		assert.Len(t, result.Unmatched, 2)
	})

	t.Run("each proposal links at most once", func(t *testing.T) {
		proposed := []models.ProposedPlace{
			{Name: "Sagrada Familia", Coordinate: sagradaCoord},
			{Name: "Park Güell", Coordinate: geo.Coordinate{Latitude: 41.4145, Longitude: 2.1527}},
		}
		candidates := []models.VerifiedCandidate{
			liveCandidate("g-1", "Sagrada Familia", sagradaCoord),
			liveCandidate("g-2", "Park Güell", geo.Coordinate{Latitude: 41.4145, Longitude: 2.1527}),
			liveCandidate("g-3", "Parc Güell", geo.Coordinate{Latitude: 41.4146, Longitude: 2.1527}),
		}

		result := matcher.Match(proposed, candidates)

		assert.Len(t, result.Links, 2)
		assert.Empty(t, result.Unmatched)
	})
}

func TestMatcher_Score(t *testing.T) {
	matcher := NewMatcher(DefaultConfig())

	t.Run("perfect match at zero distance scores 1", func(t *testing.T) {
		score, ok := matcher.Score(
			models.ProposedPlace{Name: "Sagrada Familia", Coordinate: sagradaCoord},
			liveCandidate("g-1", "Sagrada Familia", sagradaCoord),
		)

		require.True(t, ok)
		assert.InDelta(t, 1.0, score, 0.0001)
	})

	t.Run("name dominates the score", func(t *testing.T) {
		// Same name at the ceiling edge still clears 0.8.
		score, ok := matcher.Score(
			models.ProposedPlace{Name: "Sagrada Familia", Coordinate: geo.Coordinate{Latitude: 41.4207, Longitude: 2.1744}},
			liveCandidate("g-1", "Sagrada Familia", sagradaCoord),
		)

		require.True(t, ok)
		assert.GreaterOrEqual(t, score, 0.8)
	})

	t.Run("below similarity threshold never accepts", func(t *testing.T) {
		_, ok := matcher.Score(
			models.ProposedPlace{Name: "Casa Batlló", Coordinate: sagradaCoord},
			liveCandidate("g-1", "Sagrada Familia", sagradaCoord),
		)

		assert.False(t, ok)
	})
}
