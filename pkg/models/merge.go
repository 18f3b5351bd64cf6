package models

// MergeStrategy defines how to resolve one field's value across source
// records. It is a closed set: each strategy is its own type carrying only
// the data it needs, and the field merger dispatches with a type switch so
// a new strategy is a compile-time visible change.
type MergeStrategy interface {
	// Name is the provenance label recorded on the merged record.
	Name() string

	isMergeStrategy()
}

// PreferSource returns the named source's value when present, falling
// through the remaining sources in default precedence order.
type PreferSource struct {
	Source Source
}

// Name implements MergeStrategy.
func (s PreferSource) Name() string { return "prefer_" + string(s.Source) }

func (PreferSource) isMergeStrategy() {}

// Union collects array values from every source, flattened and deduplicated
// by value equality, order-stable by first occurrence.
type Union struct{}

// Name implements MergeStrategy.
func (Union) Name() string { return "union" }

func (Union) isMergeStrategy() {}

// KeepRicher returns the longest string any source provides, ties broken by
// source-iteration order.
type KeepRicher struct{}

// Name implements MergeStrategy.
func (KeepRicher) Name() string { return "keep_richer" }

func (KeepRicher) isMergeStrategy() {}

// FallbackChain probes an explicit ordered source list first, then the
// default precedence.
type FallbackChain struct {
	Sources []Source
}

// Name implements MergeStrategy.
func (FallbackChain) Name() string { return "fallback_chain" }

func (FallbackChain) isMergeStrategy() {}

// Provenance labels for the universal overrides applied outside the
// per-field strategy table.
const (
	ProvenanceGreaterReviewCount = "take_greater_by_review_count"
	ProvenanceNewerScrape        = "take_newer_by_scrape_timestamp"
	ProvenanceAppend             = "append"
)

// MergePolicy is the static per-field merge configuration.
type MergePolicy struct {
	Field    string
	Strategy MergeStrategy

	// FreshnessSensitive fields resolve by newest scrape timestamp instead
	// of the strategy above.
	FreshnessSensitive bool

	// Append fields are never overwritten; incoming entries are deduplicated
	// and appended.
	Append bool
}

// DefaultFieldPolicies returns the standard policy table for place records.
// Rating and rating count are listed for completeness but always resolve as
// a pair via the review-count override.
func DefaultFieldPolicies() []MergePolicy {
	return []MergePolicy{
		{Field: FieldName, Strategy: PreferSource{Source: SourceGoogle}},
		{Field: FieldSummary, Strategy: KeepRicher{}},
		{Field: FieldAddress, Strategy: PreferSource{Source: SourceGoogle}},
		{Field: FieldPhone, Strategy: FallbackChain{Sources: []Source{SourceGoogle, SourceFoursquare}}},
		{Field: FieldWebsite, Strategy: FallbackChain{Sources: []Source{SourceWikidata, SourceGoogle, SourceOSM}}},
		{Field: FieldRating, Strategy: PreferSource{Source: SourceGoogle}},
		{Field: FieldRatingCount, Strategy: PreferSource{Source: SourceGoogle}},
		{Field: FieldOpeningHours, Strategy: PreferSource{Source: SourceGoogle}, FreshnessSensitive: true},
		{Field: FieldCoverImage, Strategy: KeepRicher{}},
		{Field: FieldTags, Strategy: Union{}},
		{Field: FieldCity, Strategy: PreferSource{Source: SourceGoogle}},
		{Field: FieldCountry, Strategy: PreferSource{Source: SourceGoogle}},
		{Field: FieldSearchHits, Strategy: Union{}, Append: true},
	}
}
