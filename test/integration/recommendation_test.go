package integration

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/allocator"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/geo"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/matching"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/recommend"
)

// The full pipeline with fake collaborators: a generative proposal is
// verified against live search and the store, matched, and shaped into
// grouped results.

type scriptedProposer struct {
	proposal models.Proposal
}

func (p scriptedProposer) Propose(ctx context.Context, req models.RecommendRequest) (*models.Proposal, error) {
	return &p.proposal, nil
}

type scriptedSearcher struct {
	results []models.LiveCandidate
}

func (s scriptedSearcher) TextSearch(ctx context.Context, query string) ([]models.LiveCandidate, error) {
	return s.results, nil
}

type memoryStore struct {
	records map[string]*models.MergedRecord
}

func newMemoryStore(records ...*models.MergedRecord) *memoryStore {
	store := &memoryStore{records: map[string]*models.MergedRecord{}}
	for _, record := range records {
		store.records[record.ID] = record
	}
	return store
}

func (s *memoryStore) FindNear(ctx context.Context, coord geo.Coordinate, radiusMeters float64) ([]*models.MergedRecord, error) {
	var found []*models.MergedRecord
	for _, record := range s.records {
		if geo.DistanceMeters(coord, record.Coordinate) <= radiusMeters {
			found = append(found, record)
		}
	}
	return found, nil
}

func (s *memoryStore) Get(ctx context.Context, id string) (*models.MergedRecord, error) {
	return s.records[id], nil
}

func (s *memoryStore) Upsert(ctx context.Context, record *models.MergedRecord) error {
	s.records[record.ID] = record
	return nil
}

func place(name string, lat, lng float64) models.ProposedPlace {
	return models.ProposedPlace{
		Name:       name,
		Coordinate: geo.Coordinate{Latitude: lat, Longitude: lng},
		City:       "Barcelona",
	}
}

func liveResult(id, name string, lat, lng float64) models.LiveCandidate {
	return models.LiveCandidate{
		ProviderPlaceID: id,
		Name:            name,
		Coordinate:      geo.Coordinate{Latitude: lat, Longitude: lng},
	}
}

func buildService(proposer recommend.Proposer, searcher recommend.PlaceSearcher, store recommend.PlaceStore) *recommend.Service {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return recommend.NewService(
		proposer,
		searcher,
		store,
		matching.NewMatcher(matching.DefaultConfig()),
		allocator.NewAllocator(allocator.DefaultConfig()),
		logger,
	)
}

func TestRecommendationPipeline(t *testing.T) {
	ctx := context.Background()

	proposal := models.Proposal{
		Places: []models.ProposedPlace{
			place("Sagrada Familia", 41.4036, 2.1744),
			place("Casa Batllo", 41.3917, 2.1650),
			place("Casa Mila", 41.3954, 2.1620),
			place("Palau de la Musica Catalana", 41.3876, 2.1753),
			place("Torre Glories", 41.4033, 2.1896),
			place("La Boqueria", 41.3818, 2.1716),
			place("Mercat de Sant Antoni", 41.3788, 2.1622),
			place("Santa Caterina Market", 41.3862, 2.1793),
			place("Els Encants", 41.4016, 2.1863),
			place("Mercat de la Concepcio", 41.3946, 2.1634),
		},
		Categories: []models.CategoryPlan{
			{Title: "Modernist Architecture", MemberNames: []string{
				"Sagrada Familia", "Casa Batllo", "Casa Mila", "Palau de la Musica Catalana", "Torre Glories",
			}},
			{Title: "Food Markets", MemberNames: []string{
				"La Boqueria", "Mercat de Sant Antoni", "Santa Caterina Market", "Els Encants", "Mercat de la Concepcio",
			}},
		},
	}

	// six live hits; four proposals get nothing from the provider
	searcher := scriptedSearcher{results: []models.LiveCandidate{
		liveResult("g1", "Sagrada Família", 41.4035, 2.1743),
		liveResult("g2", "Casa Batlló", 41.3916, 2.1649),
		liveResult("g3", "Casa Milà", 41.3953, 2.1619),
		liveResult("g4", "Mercat de la Boqueria", 41.3817, 2.1715),
		liveResult("g5", "Mercat de Sant Antoni", 41.3787, 2.1621),
		liveResult("g6", "Mercat de Santa Caterina", 41.3861, 2.1792),
	}}

	// one proposal is only known from a prior import
	cached := &models.MergedRecord{
		ID:            "rec-palau",
		Name:          "Palau de la Música Catalana",
		Coordinate:    geo.Coordinate{Latitude: 41.3875, Longitude: 2.1752},
		PrimarySource: models.SourceGoogle,
		Fields:        map[string]any{models.FieldRating: 4.8},
	}
	store := newMemoryStore(cached)

	service := buildService(scriptedProposer{proposal: proposal}, searcher, store)

	response, err := service.Recommend(ctx, models.RecommendRequest{
		Query: "best of barcelona",
		City:  "Barcelona",
		Count: 10,
	})
	require.NoError(t, err)

	t.Run("returns exactly the requested count", func(t *testing.T) {
		assert.Len(t, response.Places, 10)
	})

	t.Run("groups results by the proposed plan", func(t *testing.T) {
		require.Len(t, response.Categories, 2)
		assert.Equal(t, "Modernist Architecture", response.Categories[0].Title)
		assert.Equal(t, "Food Markets", response.Categories[1].Title)
		assert.Len(t, response.Categories[0].Places, 5)
		assert.Len(t, response.Categories[1].Places, 5)
	})

	t.Run("live results outrank cached and unverified", func(t *testing.T) {
		kinds := make([]models.SourceKind, 0, 5)
		for _, p := range response.Categories[0].Places {
			kinds = append(kinds, p.SourceKind)
		}
		assert.Equal(t, []models.SourceKind{
			models.SourceKindLive,
			models.SourceKindLive,
			models.SourceKindLive,
			models.SourceKindCached,
			models.SourceKindAIOnly,
		}, kinds)
	})

	t.Run("cached match carries stored detail fields", func(t *testing.T) {
		var palau *models.PlaceResult
		for i := range response.Categories[0].Places {
			if response.Categories[0].Places[i].SourceKind == models.SourceKindCached {
				palau = &response.Categories[0].Places[i]
			}
		}
		require.NotNil(t, palau)
		require.NotNil(t, palau.Rating)
		assert.InDelta(t, 4.8, *palau.Rating, 0.001)
	})

	t.Run("the cached match remembers the search", func(t *testing.T) {
		record, err := store.Get(ctx, "rec-palau")
		require.NoError(t, err)
		require.Len(t, record.SearchHits, 1)
		assert.Equal(t, "best of barcelona", record.SearchHits[0].Term)
	})
}

func TestRecommendationPipeline_FlatMode(t *testing.T) {
	ctx := context.Background()

	proposal := models.Proposal{
		Places: []models.ProposedPlace{
			place("Sagrada Familia", 41.4036, 2.1744),
			place("Casa Batllo", 41.3917, 2.1650),
			place("Torre Glories", 41.4033, 2.1896),
		},
		Categories: []models.CategoryPlan{
			{Title: "Everything", MemberNames: []string{"Sagrada Familia", "Casa Batllo", "Torre Glories"}},
		},
	}
	searcher := scriptedSearcher{results: []models.LiveCandidate{
		liveResult("g1", "Sagrada Família", 41.4035, 2.1743),
	}}

	service := buildService(scriptedProposer{proposal: proposal}, searcher, newMemoryStore())

	response, err := service.Recommend(ctx, models.RecommendRequest{Query: "quick trip", Count: 3})
	require.NoError(t, err)

	// small requests ignore the plan
	assert.Empty(t, response.Categories)
	require.Len(t, response.Places, 3)
	assert.Equal(t, models.SourceKindLive, response.Places[0].SourceKind)
	assert.Equal(t, "Sagrada Familia", response.Places[0].Name)
}
