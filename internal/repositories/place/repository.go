// Package place persists merged place records.
package place

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/database"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/geo"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/normalizers"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/tracing"
)

var columns = []string{
	"id", "name", "normalized_name", "latitude", "longitude", "city", "country",
	"primary_source", "provider_ids", "category_slug", "category_english_name",
	"category_localized_name", "alternate_slugs", "fields", "provenance",
	"custom_fields", "search_hits", "source_count", "version", "created_at", "updated_at",
}

type placeRow struct {
	ID                    string                                              `db:"id"`
	Name                  string                                              `db:"name"`
	NormalizedName        string                                              `db:"normalized_name"`
	Latitude              float64                                             `db:"latitude"`
	Longitude             float64                                             `db:"longitude"`
	City                  string                                              `db:"city"`
	Country               string                                              `db:"country"`
	PrimarySource         string                                              `db:"primary_source"`
	ProviderIDs           database.JSONB[map[models.Source]string]            `db:"provider_ids"`
	CategorySlug          string                                              `db:"category_slug"`
	CategoryEnglishName   string                                              `db:"category_english_name"`
	CategoryLocalizedName string                                              `db:"category_localized_name"`
	AlternateSlugs        database.JSONB[[]string]                            `db:"alternate_slugs"`
	Fields                database.JSONB[map[string]any]                      `db:"fields"`
	Provenance            database.JSONB[map[string]models.FieldProvenance]   `db:"provenance"`
	CustomFields          database.JSONB[models.CustomFields]                 `db:"custom_fields"`
	SearchHits            database.JSONB[[]models.SearchHit]                  `db:"search_hits"`
	SourceCount           int                                                 `db:"source_count"`
	Version               int                                                 `db:"version"`
	CreatedAt             time.Time                                           `db:"created_at"`
	UpdatedAt             time.Time                                           `db:"updated_at"`
}

func (r placeRow) toRecord() *models.MergedRecord {
	return &models.MergedRecord{
		ID:                    r.ID,
		Name:                  r.Name,
		Coordinate:            geo.Coordinate{Latitude: r.Latitude, Longitude: r.Longitude},
		City:                  r.City,
		Country:               r.Country,
		PrimarySource:         models.Source(r.PrimarySource),
		ProviderIDs:           r.ProviderIDs.Data,
		CategorySlug:          r.CategorySlug,
		CategoryEnglishName:   r.CategoryEnglishName,
		CategoryLocalizedName: r.CategoryLocalizedName,
		AlternateSlugs:        r.AlternateSlugs.Data,
		Fields:                r.Fields.Data,
		Provenance:            r.Provenance.Data,
		CustomFields:          r.CustomFields.Data,
		SearchHits:            r.SearchHits.Data,
		SourceCount:           r.SourceCount,
		Version:               r.Version,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

func rowValues(record *models.MergedRecord) []any {
	return []any{
		record.ID,
		record.Name,
		normalizers.NormalizeName(record.Name),
		record.Coordinate.Latitude,
		record.Coordinate.Longitude,
		record.City,
		record.Country,
		string(record.PrimarySource),
		database.JSONB[map[models.Source]string]{Data: record.ProviderIDs},
		record.CategorySlug,
		record.CategoryEnglishName,
		record.CategoryLocalizedName,
		database.JSONB[[]string]{Data: record.AlternateSlugs},
		database.JSONB[map[string]any]{Data: record.Fields},
		database.JSONB[map[string]models.FieldProvenance]{Data: record.Provenance},
		database.JSONB[models.CustomFields]{Data: record.CustomFields},
		database.JSONB[[]models.SearchHit]{Data: record.SearchHits},
		record.SourceCount,
		record.Version,
		record.CreatedAt,
		record.UpdatedAt,
	}
}

// Repository handles place persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new place repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts the record or replaces the existing row with the same id.
func (r *Repository) Upsert(ctx context.Context, record *models.MergedRecord) error {
	ctx, span := tracing.StartSpan(ctx, "place.Repository.Upsert")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("places")
	sb.Cols(columns...)
	sb.Values(rowValues(record)...)
	sb.SQL(`ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		normalized_name = EXCLUDED.normalized_name,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		city = EXCLUDED.city,
		country = EXCLUDED.country,
		primary_source = EXCLUDED.primary_source,
		provider_ids = EXCLUDED.provider_ids,
		category_slug = EXCLUDED.category_slug,
		category_english_name = EXCLUDED.category_english_name,
		category_localized_name = EXCLUDED.category_localized_name,
		alternate_slugs = EXCLUDED.alternate_slugs,
		fields = EXCLUDED.fields,
		provenance = EXCLUDED.provenance,
		custom_fields = EXCLUDED.custom_fields,
		search_hits = EXCLUDED.search_hits,
		source_count = EXCLUDED.source_count,
		version = EXCLUDED.version,
		updated_at = EXCLUDED.updated_at`)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to upsert place")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert place")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"id": record.ID}).Info("Upserted place")
	return nil
}

// Get retrieves a place by ID
func (r *Repository) Get(ctx context.Context, id string) (*models.MergedRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "place.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("places")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var row placeRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("place %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get place")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get place")
	}

	return row.toRecord(), nil
}

// GetByProviderID retrieves a place by a source's provider-native id.
// Returns nil without error when no row matches.
func (r *Repository) GetByProviderID(ctx context.Context, source models.Source, providerID string) (*models.MergedRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "place.Repository.GetByProviderID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("places")
	sb.Where(fmt.Sprintf("provider_ids->>%s = %s", sb.Var(string(source)), sb.Var(providerID)))
	sb.Limit(1)

	query, args := sb.Build()
	var row placeRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get place by provider id")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get place by provider id")
	}

	return row.toRecord(), nil
}

// FindNear returns places within radiusMeters of the coordinate, using a
// bounding box on the indexed lat/lng columns.
func (r *Repository) FindNear(ctx context.Context, coord geo.Coordinate, radiusMeters float64) ([]*models.MergedRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "place.Repository.FindNear")
	defer span.End()

	latDelta := radiusMeters / 111_000
	lngDelta := latDelta
	if cos := math.Cos(coord.Latitude * math.Pi / 180); cos > 0.01 {
		lngDelta = latDelta / cos
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("places")
	sb.Where(
		sb.Between("latitude", coord.Latitude-latDelta, coord.Latitude+latDelta),
		sb.Between("longitude", coord.Longitude-lngDelta, coord.Longitude+lngDelta),
	)

	query, args := sb.Build()
	var rows []placeRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to find nearby places")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to find nearby places")
	}

	// the box over-selects at the corners; filter on true distance
	records := make([]*models.MergedRecord, 0, len(rows))
	for _, row := range rows {
		record := row.toRecord()
		if geo.DistanceMeters(coord, record.Coordinate) <= radiusMeters {
			records = append(records, record)
		}
	}
	return records, nil
}

// SearchByCity returns places in a city, most recently updated first.
func (r *Repository) SearchByCity(ctx context.Context, city string, limit, offset int) ([]*models.MergedRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "place.Repository.SearchByCity")
	defer span.End()

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("places")
	if city != "" {
		sb.Where(sb.Equal("city", city))
	}
	sb.OrderBy("updated_at").Desc()
	sb.Limit(limit)
	sb.Offset(offset)

	query, args := sb.Build()
	var rows []placeRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to search places")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to search places")
	}

	records := make([]*models.MergedRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}
