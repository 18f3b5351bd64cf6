// Package recommend orchestrates the online recommendation path: propose,
// verify, match, allocate.
package recommend

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/allocator"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/geo"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/matching"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/metrics"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/tracing"
)

// Proposer is the generative collaborator supplying place suggestions.
type Proposer interface {
	Propose(ctx context.Context, req models.RecommendRequest) (*models.Proposal, error)
}

// PlaceSearcher is the live search collaborator.
type PlaceSearcher interface {
	TextSearch(ctx context.Context, query string) ([]models.LiveCandidate, error)
}

// PlaceStore is the persistence collaborator.
type PlaceStore interface {
	FindNear(ctx context.Context, coord geo.Coordinate, radiusMeters float64) ([]*models.MergedRecord, error)
	Get(ctx context.Context, id string) (*models.MergedRecord, error)
	Upsert(ctx context.Context, record *models.MergedRecord) error
}

// cachedLookupRadiusMeters bounds the store scan around each proposal. Wide
// enough to cover the matcher's largest distance ceiling.
const cachedLookupRadiusMeters = 2500

// Service runs the recommendation pipeline.
type Service struct {
	proposer Proposer
	searcher PlaceSearcher
	store    PlaceStore
	matcher  *matching.Matcher
	alloc    *allocator.Allocator
	logger   ectologger.Logger
}

// NewService creates a recommendation Service.
func NewService(proposer Proposer, searcher PlaceSearcher, store PlaceStore, matcher *matching.Matcher, alloc *allocator.Allocator, logger ectologger.Logger) *Service {
	return &Service{
		proposer: proposer,
		searcher: searcher,
		store:    store,
		matcher:  matcher,
		alloc:    alloc,
		logger:   logger,
	}
}

// Recommend resolves a query to verified, shaped place results.
func (s *Service) Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "recommend.Service.Recommend")
	defer span.End()

	proposal, err := s.proposer.Propose(ctx, req)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("flat", "error").Inc()
		s.logger.WithContext(ctx).WithError(err).Error("Failed to get place proposal")
		return nil, httperror.NewHTTPError(http.StatusBadGateway, "place suggestion provider unavailable")
	}

	candidates := s.gatherCandidates(ctx, req, proposal.Places)

	result := s.matcher.Match(proposal.Places, candidates)
	for _, link := range result.Links {
		metrics.MatchesTotal.WithLabelValues("accepted", string(link.SourceKind)).Inc()
		metrics.MatchScore.Observe(link.MatchScore)
	}
	metrics.MatchesTotal.WithLabelValues("unmatched", string(models.SourceKindAIOnly)).Add(float64(len(result.Unmatched)))

	response := s.alloc.Allocate(result.Links, result.Unmatched, proposal.Categories, req.Count)

	mode := "flat"
	if len(response.Categories) > 0 {
		mode = "category"
	}
	metrics.RecommendationsTotal.WithLabelValues(mode, "success").Inc()

	s.recordSearchHits(ctx, req.Query, result.Links)

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"query":     req.Query,
		"proposed":  len(proposal.Places),
		"matched":   len(result.Links),
		"unmatched": len(result.Unmatched),
		"returned":  len(response.Places),
		"mode":      mode,
	}).Info("Recommendation completed")

	return &response, nil
}

// gatherCandidates collects live search results plus cached records near the
// proposals. Failures degrade: a dead collaborator just contributes no
// candidates.
func (s *Service) gatherCandidates(ctx context.Context, req models.RecommendRequest, proposed []models.ProposedPlace) []models.VerifiedCandidate {
	ctx, span := tracing.StartSpan(ctx, "recommend.Service.gatherCandidates")
	defer span.End()

	var candidates []models.VerifiedCandidate

	query := req.Query
	if req.City != "" {
		query = req.Query + " " + req.City
	}
	live, err := s.searcher.TextSearch(ctx, query)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("Live place search failed, continuing with cached candidates")
	}
	for _, candidate := range live {
		candidates = append(candidates, candidate)
	}

	seen := make(map[string]bool)
	for _, place := range proposed {
		records, err := s.store.FindNear(ctx, place.Coordinate, cachedLookupRadiusMeters)
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("Cached candidate lookup failed")
			continue
		}
		for _, record := range records {
			if seen[record.ID] {
				continue
			}
			seen[record.ID] = true
			candidates = append(candidates, cachedCandidate(record))
		}
	}

	return candidates
}

// recordSearchHits appends the query to the history of every matched cached
// record. Best effort; a failed write never fails the request.
func (s *Service) recordSearchHits(ctx context.Context, term string, links []models.MatchLink) {
	ctx, span := tracing.StartSpan(ctx, "recommend.Service.recordSearchHits")
	defer span.End()

	hit := models.SearchHit{Term: term, HitAt: time.Now().UTC()}

	for _, link := range links {
		if link.SourceKind != models.SourceKindCached {
			continue
		}

		record, err := s.store.Get(ctx, link.Candidate.CandidateID())
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("Failed to load place for search hit")
			continue
		}

		if hasHit(record.SearchHits, hit) {
			continue
		}
		record.SearchHits = append(record.SearchHits, hit)
		record.UpdatedAt = time.Now().UTC()

		if err := s.store.Upsert(ctx, record); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("Failed to record search hit")
		}
	}
}

func hasHit(hits []models.SearchHit, hit models.SearchHit) bool {
	for _, existing := range hits {
		if existing.DedupKey() == hit.DedupKey() {
			return true
		}
	}
	return false
}

func cachedCandidate(record *models.MergedRecord) models.CachedCandidate {
	candidate := models.CachedCandidate{
		RecordID:   record.ID,
		Name:       record.Name,
		Coordinate: record.Coordinate,
	}
	if id, ok := record.ProviderIDs[record.PrimarySource]; ok {
		candidate.ProviderPlaceID = id
	}

	candidate.Rating = record.Rating()
	candidate.RatingCount = record.RatingCount()
	if address := record.StringField(models.FieldAddress); address != "" {
		candidate.Address = &address
	}
	if phone := record.StringField(models.FieldPhone); phone != "" {
		candidate.Phone = &phone
	}
	if website := record.StringField(models.FieldWebsite); website != "" {
		candidate.Website = &website
	}
	if hours := record.StringField(models.FieldOpeningHours); hours != "" {
		candidate.OpeningHours = &hours
	}
	if image := record.StringField(models.FieldCoverImage); image != "" {
		candidate.CoverImageURL = &image
	}
	return candidate
}
