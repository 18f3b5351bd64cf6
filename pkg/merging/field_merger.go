// Package merging combines per-source place records into a single canonical
// record using a static per-field policy table.
package merging

import (
	"fmt"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
)

// FieldMerger resolves individual field values across source records.
type FieldMerger struct {
	precedence []models.Source
}

// NewFieldMerger creates a FieldMerger using the given source trust order.
func NewFieldMerger(precedence []models.Source) *FieldMerger {
	if len(precedence) == 0 {
		precedence = models.DefaultSourcePrecedence()
	}
	return &FieldMerger{precedence: precedence}
}

// ResolveField applies the policy's strategy to the field across all source
// records. It returns the resolved value and the provenance of the winning
// source; ok is false when no source carries the field.
func (m *FieldMerger) ResolveField(policy models.MergePolicy, records map[models.Source]models.SourceRecord) (any, models.FieldProvenance, bool) {
	switch strategy := policy.Strategy.(type) {
	case models.PreferSource:
		return m.preferSource(policy.Field, strategy, records)
	case models.Union:
		return m.union(policy.Field, records)
	case models.KeepRicher:
		return m.keepRicher(policy.Field, records)
	case models.FallbackChain:
		return m.fallbackChain(policy.Field, strategy, records)
	default:
		return nil, models.FieldProvenance{}, false
	}
}

// ResolveByFreshness picks the field value from the most recently scraped
// source that carries it, ignoring the per-field strategy.
func (m *FieldMerger) ResolveByFreshness(field string, records map[models.Source]models.SourceRecord) (any, models.FieldProvenance, bool) {
	var (
		winner models.Source
		value  any
		found  bool
	)
	for _, source := range m.precedence {
		record, ok := records[source]
		if !ok {
			continue
		}
		v := record.Field(field)
		if isEmptyValue(v) {
			continue
		}
		if !found || record.ScrapedAt.After(records[winner].ScrapedAt) {
			winner = source
			value = v
			found = true
		}
	}
	if !found {
		return nil, models.FieldProvenance{}, false
	}
	return value, models.FieldProvenance{Source: winner, MatchedBy: models.ProvenanceNewerScrape}, true
}

func (m *FieldMerger) preferSource(field string, strategy models.PreferSource, records map[models.Source]models.SourceRecord) (any, models.FieldProvenance, bool) {
	if record, ok := records[strategy.Source]; ok {
		if v := record.Field(field); !isEmptyValue(v) {
			return v, models.FieldProvenance{Source: strategy.Source, MatchedBy: strategy.Name()}, true
		}
	}
	return m.firstByPrecedence(field, strategy.Name(), records)
}

func (m *FieldMerger) fallbackChain(field string, strategy models.FallbackChain, records map[models.Source]models.SourceRecord) (any, models.FieldProvenance, bool) {
	for _, source := range strategy.Sources {
		record, ok := records[source]
		if !ok {
			continue
		}
		if v := record.Field(field); !isEmptyValue(v) {
			return v, models.FieldProvenance{Source: source, MatchedBy: strategy.Name()}, true
		}
	}
	return m.firstByPrecedence(field, strategy.Name(), records)
}

func (m *FieldMerger) keepRicher(field string, records map[models.Source]models.SourceRecord) (any, models.FieldProvenance, bool) {
	var (
		winner models.Source
		value  string
		found  bool
	)
	for _, source := range m.precedence {
		record, ok := records[source]
		if !ok {
			continue
		}
		s, ok := record.Field(field).(string)
		if !ok || s == "" {
			continue
		}
		if !found || len(s) > len(value) {
			winner = source
			value = s
			found = true
		}
	}
	if !found {
		return nil, models.FieldProvenance{}, false
	}
	return value, models.FieldProvenance{Source: winner, MatchedBy: models.KeepRicher{}.Name()}, true
}

// union flattens every source's array value into one deduplicated slice,
// order-stable by first occurrence in precedence order.
func (m *FieldMerger) union(field string, records map[models.Source]models.SourceRecord) (any, models.FieldProvenance, bool) {
	var (
		winner models.Source
		merged []any
		found  bool
	)
	seen := make(map[string]bool)

	for _, source := range m.precedence {
		record, ok := records[source]
		if !ok {
			continue
		}
		items := asSlice(record.Field(field))
		if len(items) == 0 {
			continue
		}
		if !found {
			winner = source
			found = true
		}
		for _, item := range items {
			key := fmt.Sprintf("%v", item)
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, item)
		}
	}

	if !found {
		return nil, models.FieldProvenance{}, false
	}
	return merged, models.FieldProvenance{Source: winner, MatchedBy: models.Union{}.Name()}, true
}

// firstByPrecedence falls through the default trust order, keeping the
// original strategy name for provenance.
func (m *FieldMerger) firstByPrecedence(field, matchedBy string, records map[models.Source]models.SourceRecord) (any, models.FieldProvenance, bool) {
	for _, source := range m.precedence {
		record, ok := records[source]
		if !ok {
			continue
		}
		if v := record.Field(field); !isEmptyValue(v) {
			return v, models.FieldProvenance{Source: source, MatchedBy: matchedBy}, true
		}
	}
	return nil, models.FieldProvenance{}, false
}

func asSlice(v any) []any {
	switch items := v.(type) {
	case []any:
		return items
	case []string:
		out := make([]any, len(items))
		for i, s := range items {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	default:
		return false
	}
}
