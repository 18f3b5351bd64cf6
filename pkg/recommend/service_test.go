package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/allocator"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/geo"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/matching"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
)

type fakeProposer struct {
	proposal *models.Proposal
	err      error
}

func (f *fakeProposer) Propose(ctx context.Context, req models.RecommendRequest) (*models.Proposal, error) {
	return f.proposal, f.err
}

type fakeSearcher struct {
	results []models.LiveCandidate
	err     error
	queries []string
}

func (f *fakeSearcher) TextSearch(ctx context.Context, query string) ([]models.LiveCandidate, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

type fakeStore struct {
	records  map[string]*models.MergedRecord
	nearby   []*models.MergedRecord
	upserted []*models.MergedRecord
	findErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]*models.MergedRecord{}}
}

func (f *fakeStore) FindNear(ctx context.Context, coord geo.Coordinate, radiusMeters float64) ([]*models.MergedRecord, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.nearby, nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (*models.MergedRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return record, nil
}

func (f *fakeStore) Upsert(ctx context.Context, record *models.MergedRecord) error {
	f.records[record.ID] = record
	f.upserted = append(f.upserted, record)
	return nil
}

func newTestService(proposer Proposer, searcher PlaceSearcher, store PlaceStore) *Service {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewService(
		proposer,
		searcher,
		store,
		matching.NewMatcher(matching.DefaultConfig()),
		allocator.NewAllocator(allocator.DefaultConfig()),
		logger,
	)
}

var barcelona = geo.Coordinate{Latitude: 41.3874, Longitude: 2.1686}

func proposed(name string, coord geo.Coordinate) models.ProposedPlace {
	return models.ProposedPlace{Name: name, Coordinate: coord, City: "Barcelona"}
}

func live(id, name string, coord geo.Coordinate) models.LiveCandidate {
	return models.LiveCandidate{ProviderPlaceID: id, Name: name, Coordinate: coord}
}

func TestService_Recommend(t *testing.T) {
	ctx := context.Background()

	t.Run("returns verified places in flat mode", func(t *testing.T) {
		proposer := &fakeProposer{proposal: &models.Proposal{
			Places: []models.ProposedPlace{
				proposed("Sagrada Familia", geo.Coordinate{Latitude: 41.4036, Longitude: 2.1744}),
				proposed("Park Guell", geo.Coordinate{Latitude: 41.4145, Longitude: 2.1527}),
				proposed("Imaginary Palace", geo.Coordinate{Latitude: 41.40, Longitude: 2.20}),
			},
		}}
		searcher := &fakeSearcher{results: []models.LiveCandidate{
			live("g1", "Sagrada Família", geo.Coordinate{Latitude: 41.4035, Longitude: 2.1743}),
			live("g2", "Park Güell", geo.Coordinate{Latitude: 41.4144, Longitude: 2.1526}),
		}}
		service := newTestService(proposer, searcher, newFakeStore())

		response, err := service.Recommend(ctx, models.RecommendRequest{Query: "top sights", City: "Barcelona", Count: 3})
		require.NoError(t, err)

		require.Len(t, response.Places, 3)
		assert.Empty(t, response.Categories)

		// verified results rank above the unmatched proposal
		assert.Equal(t, models.SourceKindLive, response.Places[0].SourceKind)
		assert.Equal(t, models.SourceKindLive, response.Places[1].SourceKind)
		assert.Equal(t, models.SourceKindAIOnly, response.Places[2].SourceKind)
		assert.Equal(t, "Imaginary Palace", response.Places[2].Name)
	})

	t.Run("city is appended to the live search query", func(t *testing.T) {
		proposer := &fakeProposer{proposal: &models.Proposal{
			Places: []models.ProposedPlace{proposed("Sagrada Familia", barcelona)},
		}}
		searcher := &fakeSearcher{}
		service := newTestService(proposer, searcher, newFakeStore())

		_, err := service.Recommend(ctx, models.RecommendRequest{Query: "churches", City: "Barcelona", Count: 1})
		require.NoError(t, err)

		require.Len(t, searcher.queries, 1)
		assert.Equal(t, "churches Barcelona", searcher.queries[0])
	})

	t.Run("proposer failure is a gateway error", func(t *testing.T) {
		proposer := &fakeProposer{err: errors.New("model timeout")}
		service := newTestService(proposer, &fakeSearcher{}, newFakeStore())

		_, err := service.Recommend(ctx, models.RecommendRequest{Query: "top sights", Count: 5})
		require.Error(t, err)
	})

	t.Run("live search failure degrades to cached candidates", func(t *testing.T) {
		coord := geo.Coordinate{Latitude: 41.4036, Longitude: 2.1744}
		proposer := &fakeProposer{proposal: &models.Proposal{
			Places: []models.ProposedPlace{proposed("Sagrada Familia", coord)},
		}}
		searcher := &fakeSearcher{err: errors.New("provider down")}
		store := newFakeStore()
		cached := &models.MergedRecord{
			ID:            "rec-1",
			Name:          "Sagrada Família",
			Coordinate:    geo.Coordinate{Latitude: 41.4035, Longitude: 2.1743},
			PrimarySource: models.SourceGoogle,
			Fields:        map[string]any{models.FieldRating: 4.7},
		}
		store.nearby = []*models.MergedRecord{cached}
		store.records[cached.ID] = cached
		service := newTestService(proposer, searcher, store)

		response, err := service.Recommend(ctx, models.RecommendRequest{Query: "top sights", Count: 1})
		require.NoError(t, err)

		require.Len(t, response.Places, 1)
		assert.Equal(t, models.SourceKindCached, response.Places[0].SourceKind)
		require.NotNil(t, response.Places[0].Rating)
		assert.InDelta(t, 4.7, *response.Places[0].Rating, 0.001)
	})

	t.Run("matched cached records get a search hit", func(t *testing.T) {
		coord := geo.Coordinate{Latitude: 41.4036, Longitude: 2.1744}
		proposer := &fakeProposer{proposal: &models.Proposal{
			Places: []models.ProposedPlace{proposed("Sagrada Familia", coord)},
		}}
		store := newFakeStore()
		cached := &models.MergedRecord{
			ID:         "rec-1",
			Name:       "Sagrada Família",
			Coordinate: coord,
		}
		store.nearby = []*models.MergedRecord{cached}
		store.records[cached.ID] = cached
		service := newTestService(proposer, &fakeSearcher{}, store)

		_, err := service.Recommend(ctx, models.RecommendRequest{Query: "gaudi highlights", Count: 1})
		require.NoError(t, err)

		require.Len(t, store.upserted, 1)
		require.Len(t, store.upserted[0].SearchHits, 1)
		assert.Equal(t, "gaudi highlights", store.upserted[0].SearchHits[0].Term)
	})

	t.Run("repeated query on the same day records one hit", func(t *testing.T) {
		coord := geo.Coordinate{Latitude: 41.4036, Longitude: 2.1744}
		proposer := &fakeProposer{proposal: &models.Proposal{
			Places: []models.ProposedPlace{proposed("Sagrada Familia", coord)},
		}}
		store := newFakeStore()
		cached := &models.MergedRecord{
			ID:         "rec-1",
			Name:       "Sagrada Família",
			Coordinate: coord,
			SearchHits: []models.SearchHit{{Term: "gaudi highlights", HitAt: time.Now().UTC()}},
		}
		store.nearby = []*models.MergedRecord{cached}
		store.records[cached.ID] = cached
		service := newTestService(proposer, &fakeSearcher{}, store)

		_, err := service.Recommend(ctx, models.RecommendRequest{Query: "gaudi highlights", Count: 1})
		require.NoError(t, err)

		assert.Empty(t, store.upserted)
		assert.Len(t, cached.SearchHits, 1)
	})

	t.Run("category plan produces grouped results", func(t *testing.T) {
		places := []models.ProposedPlace{
			proposed("Sagrada Familia", geo.Coordinate{Latitude: 41.4036, Longitude: 2.1744}),
			proposed("Casa Batllo", geo.Coordinate{Latitude: 41.3917, Longitude: 2.1650}),
			proposed("Park Guell", geo.Coordinate{Latitude: 41.4145, Longitude: 2.1527}),
			proposed("La Boqueria", geo.Coordinate{Latitude: 41.3818, Longitude: 2.1716}),
			proposed("Mercat de Sant Antoni", geo.Coordinate{Latitude: 41.3788, Longitude: 2.1622}),
			proposed("Santa Caterina Market", geo.Coordinate{Latitude: 41.3862, Longitude: 2.1793}),
		}
		var results []models.LiveCandidate
		for i, p := range places {
			results = append(results, live(string(rune('a'+i)), p.Name, p.Coordinate))
		}
		proposer := &fakeProposer{proposal: &models.Proposal{
			Places: places,
			Categories: []models.CategoryPlan{
				{Title: "Architecture", MemberNames: []string{"Sagrada Familia", "Casa Batllo", "Park Guell"}},
				{Title: "Markets", MemberNames: []string{"La Boqueria", "Mercat de Sant Antoni", "Santa Caterina Market"}},
			},
		}}
		service := newTestService(proposer, &fakeSearcher{results: results}, newFakeStore())

		response, err := service.Recommend(ctx, models.RecommendRequest{Query: "best of barcelona", Count: 6})
		require.NoError(t, err)

		require.Len(t, response.Categories, 2)
		assert.Equal(t, "Architecture", response.Categories[0].Title)
		assert.Equal(t, "Markets", response.Categories[1].Title)
		assert.Len(t, response.Places, 6)
	})
}
