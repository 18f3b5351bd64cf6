package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/metrics"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/tracing"
)

// Publisher is the transport the emitter writes to.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte, headers map[string]string) error
}

// Emitter publishes place lifecycle events.
type Emitter struct {
	producer Publisher
	logger   ectologger.Logger
}

// NewEmitter creates an Emitter.
func NewEmitter(producer Publisher, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitMergeResult publishes place.created when the merge seeded a new record
// and place.updated otherwise.
func (e *Emitter) EmitMergeResult(ctx context.Context, place *models.MergedRecord, source models.Source, isNew bool) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitMergeResult")
	defer span.End()

	eventType := EventPlaceUpdated
	if isNew {
		eventType = EventPlaceCreated
	}

	event := PlaceEvent{
		EventType:     eventType,
		PlaceID:       place.ID,
		Source:        source,
		CategorySlug:  place.CategorySlug,
		Place:         place,
		SourceCount:   place.SourceCount,
		RecordVersion: place.Version,
		Timestamp:     time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	headers := map[string]string{
		"event_type": eventType,
		"source":     string(source),
	}
	if err := e.producer.Publish(ctx, place.ID, data, headers); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(eventType, "error").Inc()
		return err
	}
	metrics.EventsPublishedTotal.WithLabelValues(eventType, "success").Inc()

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"event_type": eventType,
		"place_id":   place.ID,
		"source":     source,
	}).Debug("Published place event")

	return nil
}
