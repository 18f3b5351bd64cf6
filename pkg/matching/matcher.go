package matching

import (
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/geo"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
)

// Config contains the matcher's acceptance thresholds. Built once at process
// start and injected; the matcher itself holds no mutable state.
type Config struct {
	MinNameSimilarity float64 // Minimum name similarity to accept a match (default: 0.70)

	// Adaptive distance ceiling: a near-perfect name match tolerates more
	// geocoding slack, since AI-proposed coordinates are often imprecise.
	HighConfidenceSimilarity   float64 // Name similarity unlocking the widest ceiling (default: 0.95)
	MediumConfidenceSimilarity float64 // Name similarity unlocking the middle ceiling (default: 0.85)
	HighConfidenceMaxMeters    float64 // default: 2000
	MediumConfidenceMaxMeters  float64 // default: 1000
	BaseMaxMeters              float64 // default: 500

	NameWeight      float64 // Score weight of name similarity (default: 0.8)
	ProximityWeight float64 // Score weight of the proximity bonus (default: 0.2)
}

// DefaultConfig returns the standard matcher thresholds.
func DefaultConfig() Config {
	return Config{
		MinNameSimilarity:          0.70,
		HighConfidenceSimilarity:   0.95,
		MediumConfidenceSimilarity: 0.85,
		HighConfidenceMaxMeters:    2000,
		MediumConfidenceMaxMeters:  1000,
		BaseMaxMeters:              500,
		NameWeight:                 0.8,
		ProximityWeight:            0.2,
	}
}

// Matcher links proposed places to verified candidates. It is a pure
// function of its inputs: no side effects, safe to invoke concurrently.
type Matcher struct {
	scorer *Scorer
	cfg    Config
}

// NewMatcher creates a new Matcher.
func NewMatcher(cfg Config) *Matcher {
	return &Matcher{
		scorer: NewScorer(),
		cfg:    cfg,
	}
}

// Result holds the matcher's output: one link per proposed place that found
// an accepted candidate, and the proposals that found none.
type Result struct {
	Links     []models.MatchLink
	Unmatched []models.ProposedPlace
}

// Match evaluates every candidate for each proposed place and keeps the
// best-scoring one that clears acceptance. A proposed place never produces
// more than one link; score ties resolve by candidate precedence
// (live > cached).
func (m *Matcher) Match(proposed []models.ProposedPlace, candidates []models.VerifiedCandidate) Result {
	result := Result{
		Links:     make([]models.MatchLink, 0, len(proposed)),
		Unmatched: make([]models.ProposedPlace, 0),
	}

	for _, place := range proposed {
		link, ok := m.bestCandidate(place, candidates)
		if !ok {
			result.Unmatched = append(result.Unmatched, place)
			continue
		}
		result.Links = append(result.Links, link)
	}

	return result
}

// bestCandidate scores a single proposal against every candidate.
func (m *Matcher) bestCandidate(place models.ProposedPlace, candidates []models.VerifiedCandidate) (models.MatchLink, bool) {
	var best models.MatchLink
	found := false

	for _, cand := range candidates {
		score, ok := m.Score(place, cand)
		if !ok {
			continue
		}

		if !found || score > best.MatchScore ||
			(score == best.MatchScore && cand.Kind().Precedence() > best.Candidate.Kind().Precedence()) {
			best = models.MatchLink{
				Proposed:   place,
				Candidate:  cand,
				SourceKind: cand.Kind(),
				MatchScore: score,
			}
			found = true
		}
	}

	return best, found
}

// Score returns the combined match score for a proposal/candidate pair and
// whether the pair clears acceptance. The name dominates; proximity is a
// tie-breaker bonus only.
func (m *Matcher) Score(place models.ProposedPlace, cand models.VerifiedCandidate) (float64, bool) {
	nameSim := m.scorer.Similarity(place.Name, cand.CandidateName())
	if nameSim < m.cfg.MinNameSimilarity {
		return 0, false
	}

	distance := geo.DistanceMeters(place.Coordinate, cand.CandidateCoordinate())
	maxDistance := m.maxDistanceFor(nameSim)
	if distance > maxDistance {
		return 0, false
	}

	proximity := 1 - distance/maxDistance
	if proximity < 0 {
		proximity = 0
	}

	return nameSim*m.cfg.NameWeight + proximity*m.cfg.ProximityWeight, true
}

// maxDistanceFor returns the distance ceiling for a given name confidence.
func (m *Matcher) maxDistanceFor(nameSim float64) float64 {
	switch {
	case nameSim >= m.cfg.HighConfidenceSimilarity:
		return m.cfg.HighConfidenceMaxMeters
	case nameSim >= m.cfg.MediumConfidenceSimilarity:
		return m.cfg.MediumConfidenceMaxMeters
	default:
		return m.cfg.BaseMaxMeters
	}
}
