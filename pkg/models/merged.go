package models

import (
	"encoding/json"
	"time"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/geo"
)

// FieldProvenance records which source and strategy produced a resolved
// field value.
type FieldProvenance struct {
	Source    Source `json:"source"`
	MatchedBy string `json:"matched_by"`
}

// SearchHit is one entry of a record's append-only search history.
// Deduplication key is term + day.
type SearchHit struct {
	Term  string    `json:"term"`
	HitAt time.Time `json:"hit_at"`
}

// DedupKey returns the composite key used when appending hits.
func (h SearchHit) DedupKey() string {
	return h.Term + "|" + h.HitAt.UTC().Format("2006-01-02")
}

// CustomFields is the audit side of a merged record: every contributing
// source's original payload and its scrape timestamp. Raw grows
// monotonically - one entry per source that ever contributed.
type CustomFields struct {
	Raw       map[Source]json.RawMessage `json:"raw"`
	ScrapedAt map[Source]time.Time       `json:"scraped_at"`
}

// MergedRecord is the durable, canonical place combining all known source
// records. Created on first import of a venue, mutated in place on every
// subsequent import that resolves to the same identity.
type MergedRecord struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Coordinate    geo.Coordinate    `json:"coordinate"`
	City          string            `json:"city,omitempty"`
	Country       string            `json:"country,omitempty"`
	PrimarySource Source            `json:"primary_source"`
	ProviderIDs   map[Source]string `json:"provider_ids,omitempty"`

	CategorySlug          string   `json:"category_slug,omitempty"`
	CategoryEnglishName   string   `json:"category_english_name,omitempty"`
	CategoryLocalizedName string   `json:"category_localized_name,omitempty"`
	AlternateSlugs        []string `json:"alternate_slugs,omitempty"`

	// Fields holds the resolved business fields keyed by the Field*
	// constants. Provenance records how each one was resolved.
	Fields     map[string]any             `json:"fields"`
	Provenance map[string]FieldProvenance `json:"provenance"`

	CustomFields CustomFields `json:"custom_fields"`
	SearchHits   []SearchHit  `json:"search_hits,omitempty"`

	SourceCount int       `json:"source_count"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Rating returns the resolved rating, or nil.
func (r *MergedRecord) Rating() *float64 {
	if v, ok := r.Fields[FieldRating].(float64); ok {
		return &v
	}
	return nil
}

// RatingCount returns the resolved rating count, or nil.
func (r *MergedRecord) RatingCount() *int {
	switch v := r.Fields[FieldRatingCount].(type) {
	case int:
		return &v
	case float64:
		n := int(v)
		return &n
	}
	return nil
}

// StringField returns the resolved string field, or "".
func (r *MergedRecord) StringField(name string) string {
	if v, ok := r.Fields[name].(string); ok {
		return v
	}
	return ""
}
