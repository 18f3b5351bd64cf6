package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/geo"
)

// ImportMessage is the wire envelope ingestion pipelines publish for each
// scraped place: one source's view of the venue plus its raw classification
// signals.
type ImportMessage struct {
	Source     Source          `json:"source"`
	ProviderID string          `json:"provider_id,omitempty"`
	Coordinate geo.Coordinate  `json:"coordinate"`
	Fields     map[string]any  `json:"fields"`
	Raw        json.RawMessage `json:"raw,omitempty"`
	ScrapedAt  time.Time       `json:"scraped_at"`

	// Classification signals gathered by the pipeline.
	TypeTags       []string `json:"type_tags,omitempty"`
	StructuredTags []string `json:"structured_tags,omitempty"`
	TaxonomyIDs    []string `json:"taxonomy_ids,omitempty"`

	// ManualCategorySlug is set by curation tooling and overrides
	// classification.
	ManualCategorySlug string `json:"manual_category_slug,omitempty"`
}

// Validate checks the envelope carries enough to import.
func (m ImportMessage) Validate() error {
	if m.Source == "" {
		return fmt.Errorf("import message missing source")
	}
	if name, _ := m.Fields[FieldName].(string); name == "" {
		return fmt.Errorf("import message missing name field")
	}
	return nil
}

// Name returns the place name carried in the field map.
func (m ImportMessage) Name() string {
	name, _ := m.Fields[FieldName].(string)
	return name
}

// ToSourceRecord converts the envelope to the merge engine's input shape.
func (m ImportMessage) ToSourceRecord() SourceRecord {
	scrapedAt := m.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = time.Now().UTC()
	}
	return SourceRecord{
		Source:     m.Source,
		ProviderID: m.ProviderID,
		Coordinate: m.Coordinate,
		Fields:     m.Fields,
		Raw:        m.Raw,
		ScrapedAt:  scrapedAt,
	}
}
