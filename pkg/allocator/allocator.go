// Package allocator shapes matched and unmatched places into the
// client-facing result, honoring a requested count and per-category
// minimums.
package allocator

import (
	"sort"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/normalizers"
)

// Config holds the allocator's shaping limits.
type Config struct {
	MinPerCategory int // default: 2
	MaxPerCategory int // default: 10
	// FlatModeBelow disables category grouping for small requests
	// (default: 5). Too few items cannot form two meaningful groups.
	FlatModeBelow int
	// TargetDivisor sizes the per-category heuristic target as
	// ceil(requestedCount/TargetDivisor) (default: 3).
	TargetDivisor int
}

// DefaultConfig returns the standard shaping limits.
func DefaultConfig() Config {
	return Config{
		MinPerCategory: 2,
		MaxPerCategory: 10,
		FlatModeBelow:  5,
		TargetDivisor:  3,
	}
}

// Allocator ranks and groups results. Pure and goroutine-safe.
type Allocator struct {
	cfg Config
}

// NewAllocator creates an Allocator.
func NewAllocator(cfg Config) *Allocator {
	return &Allocator{cfg: cfg}
}

// entry is one rankable place with its grouping key.
type entry struct {
	result   models.PlaceResult
	nameKey  string
	hasImage bool
}

// Allocate produces the response for a recommendation request. Matched
// links outrank unmatched proposals (live > cached > ai-only), scores break
// ties within a precedence band, and image-bearing entries come first among
// equals. Never returns more than requestedCount places.
func (a *Allocator) Allocate(links []models.MatchLink, unmatched []models.ProposedPlace, plan []models.CategoryPlan, requestedCount int) models.RecommendResponse {
	if requestedCount <= 0 {
		return models.RecommendResponse{Places: []models.PlaceResult{}}
	}

	pool := a.buildPool(links, unmatched)

	if len(plan) == 0 || requestedCount < a.cfg.FlatModeBelow {
		return a.flat(pool, requestedCount)
	}
	return a.grouped(pool, plan, requestedCount)
}

// flat returns the top-ranked entries with no grouping.
func (a *Allocator) flat(pool []entry, requestedCount int) models.RecommendResponse {
	places := make([]models.PlaceResult, 0, requestedCount)
	for _, e := range pool {
		if len(places) == requestedCount {
			break
		}
		places = append(places, e.result)
	}
	return models.RecommendResponse{Places: places}
}

// grouped distributes entries across the planned categories. The per
// category target spreads requestedCount over the usable categories, capped
// by the configured bounds; a category that cannot reach the minimum is
// dropped entirely.
func (a *Allocator) grouped(pool []entry, plan []models.CategoryPlan, requestedCount int) models.RecommendResponse {
	idealTarget := ceilDiv(requestedCount, a.cfg.TargetDivisor)
	if idealTarget < a.cfg.MinPerCategory {
		idealTarget = a.cfg.MinPerCategory
	}
	categoryCount := ceilDiv(requestedCount, idealTarget)
	if categoryCount > len(plan) {
		categoryCount = len(plan)
	}
	if categoryCount == 0 {
		return a.flat(pool, requestedCount)
	}

	target := ceilDiv(requestedCount, categoryCount)
	if target > a.cfg.MaxPerCategory {
		target = a.cfg.MaxPerCategory
	}

	consumed := make(map[int]bool, len(pool))
	categories := make([]models.CategoryGroup, 0, categoryCount)
	places := make([]models.PlaceResult, 0, requestedCount)

	for _, category := range plan[:categoryCount] {
		remaining := requestedCount - len(places)
		if remaining < a.cfg.MinPerCategory {
			break
		}

		fill := target
		if fill > remaining {
			fill = remaining
		}

		members := a.takeMembers(pool, consumed, category.MemberNames, fill)
		if len(members) < a.cfg.MinPerCategory {
			// return the members to the pool for later categories
			for _, idx := range members {
				consumed[idx] = false
			}
			continue
		}

		group := models.CategoryGroup{Title: category.Title, Places: make([]models.PlaceResult, 0, len(members))}
		for _, idx := range members {
			group.Places = append(group.Places, pool[idx].result)
			places = append(places, pool[idx].result)
		}
		categories = append(categories, group)
	}

	if len(categories) == 0 {
		return a.flat(pool, requestedCount)
	}
	return models.RecommendResponse{Categories: categories, Places: places}
}

// takeMembers marks and returns up to fill pool indexes whose names appear
// in the category's member list, in ranked pool order.
func (a *Allocator) takeMembers(pool []entry, consumed map[int]bool, memberNames []string, fill int) []int {
	wanted := make(map[string]bool, len(memberNames))
	for _, name := range memberNames {
		wanted[normalizers.NormalizeName(name)] = true
	}

	var taken []int
	for idx, e := range pool {
		if len(taken) == fill {
			break
		}
		if consumed[idx] || !wanted[e.nameKey] {
			continue
		}
		consumed[idx] = true
		taken = append(taken, idx)
	}
	return taken
}

// buildPool converts links and unmatched proposals into one ranked slice.
func (a *Allocator) buildPool(links []models.MatchLink, unmatched []models.ProposedPlace) []entry {
	pool := make([]entry, 0, len(links)+len(unmatched))

	for _, link := range links {
		result := placeFromProposed(link.Proposed)
		result.SourceKind = link.SourceKind
		result.MatchScore = link.MatchScore
		applyDetails(&result, link.Candidate.Details())
		pool = append(pool, entry{
			result:   result,
			nameKey:  normalizers.NormalizeName(link.Proposed.Name),
			hasImage: result.ImageURL != "",
		})
	}

	for _, proposed := range unmatched {
		result := placeFromProposed(proposed)
		result.SourceKind = models.SourceKindAIOnly
		pool = append(pool, entry{
			result:   result,
			nameKey:  normalizers.NormalizeName(proposed.Name),
			hasImage: proposed.ImageURL != "",
		})
	}

	sort.SliceStable(pool, func(i, j int) bool {
		pi, pj := pool[i].result.SourceKind.Precedence(), pool[j].result.SourceKind.Precedence()
		if pi != pj {
			return pi > pj
		}
		if pool[i].result.MatchScore != pool[j].result.MatchScore {
			return pool[i].result.MatchScore > pool[j].result.MatchScore
		}
		return pool[i].hasImage && !pool[j].hasImage
	})

	return pool
}

func placeFromProposed(p models.ProposedPlace) models.PlaceResult {
	return models.PlaceResult{
		Name:       p.Name,
		Summary:    p.Summary,
		Coordinate: p.Coordinate,
		City:       p.City,
		Country:    p.Country,
		ImageURL:   p.ImageURL,
		Tags:       p.Tags,
		Reason:     p.Reason,
	}
}

func applyDetails(result *models.PlaceResult, details models.CandidateDetails) {
	result.Rating = details.Rating
	result.RatingCount = details.RatingCount
	result.Address = details.Address
	result.Phone = details.Phone
	result.Website = details.Website
	result.OpeningHours = details.OpeningHours
	if result.ImageURL == "" && details.CoverImageURL != nil {
		result.ImageURL = *details.CoverImageURL
	}
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}
