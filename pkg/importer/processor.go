// Package importer handles the offline ingestion path: classify each source
// record, resolve its identity against stored places, merge and persist.
package importer

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/classify"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/geo"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/kafka"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/matching"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/merging"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/metrics"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/tracing"
)

// Store is the persistence surface the importer needs.
type Store interface {
	GetByProviderID(ctx context.Context, source models.Source, providerID string) (*models.MergedRecord, error)
	FindNear(ctx context.Context, coord geo.Coordinate, radiusMeters float64) ([]*models.MergedRecord, error)
	Upsert(ctx context.Context, record *models.MergedRecord) error
}

// Emitter publishes the merge outcome.
type Emitter interface {
	EmitMergeResult(ctx context.Context, place *models.MergedRecord, source models.Source, isNew bool) error
}

// Config holds the identity resolution thresholds.
type Config struct {
	// IdentityRadiusMeters bounds the geo scan for identity candidates
	// (default: 500).
	IdentityRadiusMeters float64
	// IdentityThreshold is the minimum combined identity score (default:
	// 0.85).
	IdentityThreshold float64
	// NameWeight and CategoryWeight combine name similarity with category
	// credit (defaults: 0.9 / 0.1).
	NameWeight     float64
	CategoryWeight float64
}

// DefaultConfig returns the standard identity thresholds.
func DefaultConfig() Config {
	return Config{
		IdentityRadiusMeters: 500,
		IdentityThreshold:    0.85,
		NameWeight:           0.9,
		CategoryWeight:       0.1,
	}
}

// Processor consumes import messages and materializes merged places.
type Processor struct {
	classifier *classify.Classifier
	merger     *merging.RecordMerger
	scorer     *matching.Scorer
	store      Store
	emitter    Emitter
	cfg        Config
	logger     ectologger.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(classifier *classify.Classifier, merger *merging.RecordMerger, store Store, emitter Emitter, cfg Config, logger ectologger.Logger) *Processor {
	return &Processor{
		classifier: classifier,
		merger:     merger,
		scorer:     matching.NewScorer(),
		store:      store,
		emitter:    emitter,
		cfg:        cfg,
		logger:     logger,
	}
}

// HandleMessage is the Kafka consumer entry point.
func (p *Processor) HandleMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	if msg.ImportMessage == nil {
		return nil
	}
	_, _, err := p.Import(ctx, *msg.ImportMessage)
	return err
}

// Import runs one source record through classification, identity resolution
// and merge, persists the result and emits the corresponding event. Returns
// the stored record and whether it was newly created.
func (p *Processor) Import(ctx context.Context, msg models.ImportMessage) (*models.MergedRecord, bool, error) {
	ctx, span := tracing.StartSpan(ctx, "importer.Processor.Import")
	defer span.End()

	start := time.Now()
	source := string(msg.Source)

	record, isNew, err := p.runImport(ctx, msg)
	metrics.ImportDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ImportsTotal.WithLabelValues(source, "error").Inc()
		return nil, false, err
	}

	status := "updated"
	if isNew {
		status = "created"
	}
	metrics.ImportsTotal.WithLabelValues(source, status).Inc()
	return record, isNew, nil
}

func (p *Processor) runImport(ctx context.Context, msg models.ImportMessage) (*models.MergedRecord, bool, error) {
	if err := msg.Validate(); err != nil {
		return nil, false, err
	}

	assignment := p.classifier.Classify(signalsFrom(msg))
	incoming := msg.ToSourceRecord()

	existing, err := p.resolveIdentity(ctx, msg, assignment.Slug)
	if err != nil {
		return nil, false, err
	}
	isNew := existing == nil

	merged := p.merger.Merge(existing, incoming)
	merged.CategorySlug = assignment.Slug
	merged.CategoryEnglishName = assignment.EnglishName
	merged.CategoryLocalizedName = assignment.LocalizedName
	merged.AlternateSlugs = assignment.AlternateSlugs

	if err := p.store.Upsert(ctx, merged); err != nil {
		return nil, false, err
	}

	if p.emitter != nil {
		if err := p.emitter.EmitMergeResult(ctx, merged, msg.Source, isNew); err != nil {
			// the record is stored; a failed event is logged, not retried
			p.logger.WithContext(ctx).WithError(err).Warn("Failed to emit place event")
		}
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"place_id": merged.ID,
		"source":   msg.Source,
		"category": assignment.Slug,
		"is_new":   isNew,
	}).Info("Imported place record")

	return merged, isNew, nil
}

// resolveIdentity finds the stored record this source record refers to, or
// nil when it is a new place. A provider-id hit is authoritative; otherwise
// nearby stored places are scored on name similarity with partial credit
// for a related category.
func (p *Processor) resolveIdentity(ctx context.Context, msg models.ImportMessage, slug string) (*models.MergedRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "importer.Processor.resolveIdentity")
	defer span.End()

	if msg.ProviderID != "" {
		record, err := p.store.GetByProviderID(ctx, msg.Source, msg.ProviderID)
		if err != nil {
			return nil, err
		}
		if record != nil {
			return record, nil
		}
	}

	nearby, err := p.store.FindNear(ctx, msg.Coordinate, p.cfg.IdentityRadiusMeters)
	if err != nil {
		return nil, err
	}

	var (
		best      *models.MergedRecord
		bestScore float64
	)
	for _, record := range nearby {
		nameSim := p.scorer.Similarity(msg.Name(), record.Name)
		score := nameSim*p.cfg.NameWeight + categoryCredit(slug, record.CategorySlug)*p.cfg.CategoryWeight
		if score >= p.cfg.IdentityThreshold && score > bestScore {
			best = record
			bestScore = score
		}
	}
	return best, nil
}

// categoryCredit scores how compatible two category slugs are: full credit
// for the same slug, half for a listed related pair, none otherwise.
func categoryCredit(a, b string) float64 {
	switch {
	case a == "" || b == "":
		return 0.5
	case a == b:
		return 1.0
	case classify.AreRelated(a, b):
		return 0.5
	default:
		return 0
	}
}

// signalsFrom gathers the classification inputs carried on the envelope
// plus free-text keywords from the name, summary and tags fields.
func signalsFrom(msg models.ImportMessage) classify.Signals {
	keywords := []string{msg.Name()}
	if summary, ok := msg.Fields[models.FieldSummary].(string); ok && summary != "" {
		keywords = append(keywords, summary)
	}
	switch tags := msg.Fields[models.FieldTags].(type) {
	case []string:
		keywords = append(keywords, tags...)
	case []any:
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				keywords = append(keywords, s)
			}
		}
	}

	return classify.Signals{
		TypeTags:         msg.TypeTags,
		FreeTextKeywords: keywords,
		StructuredTags:   msg.StructuredTags,
		TaxonomyIDs:      msg.TaxonomyIDs,
		ManualSlug:       msg.ManualCategorySlug,
	}
}
