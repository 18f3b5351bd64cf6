package merging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
)

// RecordMerger folds incoming source records into canonical merged records.
// It is pure: the existing record is never mutated, a new value is returned.
type RecordMerger struct {
	fields   *FieldMerger
	policies []models.MergePolicy
	now      func() time.Time
}

// NewRecordMerger creates a RecordMerger with the given policy table. An
// empty table falls back to the defaults.
func NewRecordMerger(policies []models.MergePolicy) *RecordMerger {
	if len(policies) == 0 {
		policies = models.DefaultFieldPolicies()
	}
	return &RecordMerger{
		fields:   NewFieldMerger(models.DefaultSourcePrecedence()),
		policies: policies,
		now:      time.Now,
	}
}

// Merge folds the incoming source record into the existing merged record, or
// seeds a new one when existing is nil. Merging the same source record twice
// produces the same result.
func (m *RecordMerger) Merge(existing *models.MergedRecord, incoming models.SourceRecord) *models.MergedRecord {
	if existing == nil {
		return m.seed(incoming)
	}

	out := cloneRecord(existing)
	records := m.contributingRecords(out, incoming)

	for _, policy := range m.policies {
		if policy.Append {
			continue
		}
		if policy.Field == models.FieldRating || policy.Field == models.FieldRatingCount {
			continue
		}

		var (
			value any
			prov  models.FieldProvenance
			ok    bool
		)
		if policy.FreshnessSensitive {
			value, prov, ok = m.fields.ResolveByFreshness(policy.Field, records)
		} else {
			value, prov, ok = m.fields.ResolveField(policy, records)
		}
		if !ok {
			continue
		}
		out.Fields[policy.Field] = value
		out.Provenance[policy.Field] = prov
	}

	m.resolveRatingPair(out, records)
	m.appendSearchHits(out, incoming)

	out.Name = out.StringField(models.FieldName)
	if out.Name == "" {
		out.Name = existing.Name
	}
	out.City = out.StringField(models.FieldCity)
	out.Country = out.StringField(models.FieldCountry)

	if incoming.ProviderID != "" {
		out.ProviderIDs[incoming.Source] = incoming.ProviderID
	}
	out.CustomFields.Raw[incoming.Source] = incoming.Raw
	out.CustomFields.ScrapedAt[incoming.Source] = incoming.ScrapedAt
	out.SourceCount = len(out.CustomFields.ScrapedAt)

	if m.sourceOutranks(incoming.Source, out.PrimarySource) {
		out.PrimarySource = incoming.Source
		out.Coordinate = incoming.Coordinate
	}

	out.Version = existing.Version + 1
	out.UpdatedAt = m.now()
	return out
}

// seed builds a fresh merged record from a single source.
func (m *RecordMerger) seed(incoming models.SourceRecord) *models.MergedRecord {
	now := m.now()
	out := &models.MergedRecord{
		ID:            uuid.NewString(),
		Coordinate:    incoming.Coordinate,
		PrimarySource: incoming.Source,
		ProviderIDs:   make(map[models.Source]string),
		Fields:        make(map[string]any),
		Provenance:    make(map[string]models.FieldProvenance),
		CustomFields: models.CustomFields{
			Raw:       make(map[models.Source]json.RawMessage),
			ScrapedAt: make(map[models.Source]time.Time),
		},
		SourceCount: 1,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	records := map[models.Source]models.SourceRecord{incoming.Source: incoming}
	for _, policy := range m.policies {
		if policy.Append {
			continue
		}
		value, prov, ok := m.fields.ResolveField(policy, records)
		if !ok {
			continue
		}
		out.Fields[policy.Field] = value
		out.Provenance[policy.Field] = prov
	}

	m.appendSearchHits(out, incoming)

	out.Name = out.StringField(models.FieldName)
	out.City = out.StringField(models.FieldCity)
	out.Country = out.StringField(models.FieldCountry)

	if incoming.ProviderID != "" {
		out.ProviderIDs[incoming.Source] = incoming.ProviderID
	}
	out.CustomFields.Raw[incoming.Source] = incoming.Raw
	out.CustomFields.ScrapedAt[incoming.Source] = incoming.ScrapedAt
	return out
}

// contributingRecords rebuilds the per-source view the field merger resolves
// over: the existing record's resolved state attributed to its primary
// source, plus the incoming record. The same source re-importing replaces
// its own prior entry.
func (m *RecordMerger) contributingRecords(existing *models.MergedRecord, incoming models.SourceRecord) map[models.Source]models.SourceRecord {
	existingScrape := existing.UpdatedAt
	if t, ok := existing.CustomFields.ScrapedAt[existing.PrimarySource]; ok {
		existingScrape = t
	}

	records := map[models.Source]models.SourceRecord{
		existing.PrimarySource: {
			Source:     existing.PrimarySource,
			Coordinate: existing.Coordinate,
			Fields:     existing.Fields,
			ScrapedAt:  existingScrape,
		},
	}
	records[incoming.Source] = incoming
	return records
}

// resolveRatingPair applies the review-count override: rating and rating
// count always move together, taken from the contributor with the greater
// review count. Ties keep the current pair.
func (m *RecordMerger) resolveRatingPair(out *models.MergedRecord, records map[models.Source]models.SourceRecord) {
	var (
		winner models.Source
		rating float64
		count  int
		found  bool
	)
	for _, source := range models.DefaultSourcePrecedence() {
		record, ok := records[source]
		if !ok {
			continue
		}
		r, rOK := asFloat(record.Field(models.FieldRating))
		c, cOK := asInt(record.Field(models.FieldRatingCount))
		if !rOK && !cOK {
			continue
		}
		if !found || c > count {
			winner = source
			rating = r
			count = c
			found = true
		}
	}
	if !found {
		return
	}

	prov := models.FieldProvenance{Source: winner, MatchedBy: models.ProvenanceGreaterReviewCount}
	out.Fields[models.FieldRating] = rating
	out.Fields[models.FieldRatingCount] = count
	out.Provenance[models.FieldRating] = prov
	out.Provenance[models.FieldRatingCount] = prov
}

// appendSearchHits applies the append override: incoming hits join the
// history, deduplicated by term and day, never replacing prior entries.
func (m *RecordMerger) appendSearchHits(out *models.MergedRecord, incoming models.SourceRecord) {
	hits := asSearchHits(incoming.Field(models.FieldSearchHits))
	if len(hits) == 0 {
		return
	}

	seen := make(map[string]bool, len(out.SearchHits))
	for _, hit := range out.SearchHits {
		seen[hit.DedupKey()] = true
	}
	appended := false
	for _, hit := range hits {
		if seen[hit.DedupKey()] {
			continue
		}
		seen[hit.DedupKey()] = true
		out.SearchHits = append(out.SearchHits, hit)
		appended = true
	}
	if appended {
		out.Provenance[models.FieldSearchHits] = models.FieldProvenance{
			Source:    incoming.Source,
			MatchedBy: models.ProvenanceAppend,
		}
	}
}

func (m *RecordMerger) sourceOutranks(a, b models.Source) bool {
	rank := func(s models.Source) int {
		for i, source := range models.DefaultSourcePrecedence() {
			if source == s {
				return i
			}
		}
		return len(models.DefaultSourcePrecedence())
	}
	return rank(a) < rank(b)
}

func cloneRecord(r *models.MergedRecord) *models.MergedRecord {
	out := *r
	out.Fields = make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	out.Provenance = make(map[string]models.FieldProvenance, len(r.Provenance))
	for k, v := range r.Provenance {
		out.Provenance[k] = v
	}
	out.ProviderIDs = make(map[models.Source]string, len(r.ProviderIDs))
	for k, v := range r.ProviderIDs {
		out.ProviderIDs[k] = v
	}
	out.CustomFields.Raw = make(map[models.Source]json.RawMessage, len(r.CustomFields.Raw))
	for k, v := range r.CustomFields.Raw {
		out.CustomFields.Raw[k] = v
	}
	out.CustomFields.ScrapedAt = make(map[models.Source]time.Time, len(r.CustomFields.ScrapedAt))
	for k, v := range r.CustomFields.ScrapedAt {
		out.CustomFields.ScrapedAt[k] = v
	}
	out.SearchHits = append([]models.SearchHit(nil), r.SearchHits...)
	out.AlternateSlugs = append([]string(nil), r.AlternateSlugs...)
	return &out
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func asSearchHits(v any) []models.SearchHit {
	switch hits := v.(type) {
	case []models.SearchHit:
		return hits
	case models.SearchHit:
		return []models.SearchHit{hits}
	default:
		return nil
	}
}
