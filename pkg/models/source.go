package models

import (
	"encoding/json"
	"time"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/geo"
)

// Source identifies an ingestion source for place data.
type Source string

const (
	// SourceGoogle is the Google Places ingestion source
	SourceGoogle Source = "google"
	// SourceOSM is the OpenStreetMap ingestion source
	SourceOSM Source = "osm"
	// SourceWikidata is the Wikidata dump ingestion source
	SourceWikidata Source = "wikidata"
	// SourceFoursquare is the Foursquare ingestion source
	SourceFoursquare Source = "fsq"
	// SourceApify is the Apify scrape ingestion source
	SourceApify Source = "apify"
)

// DefaultSourcePrecedence is the trust order used whenever a merge strategy
// falls through to "any source": earlier sources win.
func DefaultSourcePrecedence() []Source {
	return []Source{SourceGoogle, SourceOSM, SourceWikidata, SourceFoursquare, SourceApify}
}

// Canonical field names shared by SourceRecord fields and MergedRecord
// resolved fields.
const (
	FieldName         = "name"
	FieldSummary      = "summary"
	FieldAddress      = "address"
	FieldPhone        = "phone"
	FieldWebsite      = "website"
	FieldRating       = "rating"
	FieldRatingCount  = "rating_count"
	FieldOpeningHours = "opening_hours"
	FieldCoverImage   = "cover_image"
	FieldTags         = "tags"
	FieldCity         = "city"
	FieldCountry      = "country"
	FieldSearchHits   = "search_hits"
)

// SourceRecord is one ingestion source's view of a venue prior to merging:
// a flat field map (keyed by the Field* constants) plus the provider's
// original payload for audit.
type SourceRecord struct {
	Source     Source          `json:"source"`
	ProviderID string          `json:"provider_id,omitempty"`
	Coordinate geo.Coordinate  `json:"coordinate"`
	Fields     map[string]any  `json:"fields"`
	Raw        json.RawMessage `json:"raw,omitempty"`
	ScrapedAt  time.Time       `json:"scraped_at"`
}

// Field returns the named field value, or nil when absent.
func (r SourceRecord) Field(name string) any {
	if r.Fields == nil {
		return nil
	}
	return r.Fields[name]
}
