// Package events publishes place lifecycle events after imports merge.
package events

import (
	"time"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
)

// Event types emitted on the place events topic.
const (
	EventPlaceCreated = "place.created"
	EventPlaceUpdated = "place.updated"
)

// PlaceEvent is the payload published after an import resolves.
type PlaceEvent struct {
	EventType     string               `json:"event_type"`
	PlaceID       string               `json:"place_id"`
	Source        models.Source        `json:"source"`
	CategorySlug  string               `json:"category_slug,omitempty"`
	Place         *models.MergedRecord `json:"place"`
	SourceCount   int                  `json:"source_count"`
	RecordVersion int                  `json:"record_version"`
	Timestamp     time.Time            `json:"timestamp"`
}
