// Package classify resolves a canonical category slug for a place from its
// multi-source raw signals.
package classify

import (
	"strings"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/normalizers"
)

// Signals are the raw classification inputs gathered across sources.
type Signals struct {
	// TypeTags are explicit provider types (google types, fsq categories).
	TypeTags []string
	// FreeTextKeywords are tokens drawn from names and summaries.
	FreeTextKeywords []string
	// StructuredTags are key=value tags (osm).
	StructuredTags []string
	// TaxonomyIDs are external taxonomy identifiers (wikidata).
	TaxonomyIDs []string
	// ManualSlug is a curated slug that short-circuits classification when
	// it names a known category.
	ManualSlug string
}

// MatchedBy labels recorded on assignments.
const (
	MatchedByManual   = "manual"
	MatchedByFallback = "fallback"
)

// Classifier assigns category slugs from a static rule table. Safe for
// concurrent use.
type Classifier struct {
	rules      []Rule
	exclusions []ExclusionPair
	locale     string
	bySlug     map[string]Rule
	slugOrder  map[string]int
}

// NewClassifier creates a Classifier. Empty rules or exclusions fall back to
// the defaults; locale selects the localized display name, empty for none.
func NewClassifier(rules []Rule, exclusions []ExclusionPair, locale string) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	if len(exclusions) == 0 {
		exclusions = DefaultExclusions()
	}

	bySlug := make(map[string]Rule, len(rules))
	slugOrder := make(map[string]int, len(rules))
	for i, rule := range rules {
		bySlug[rule.Slug] = rule
		slugOrder[rule.Slug] = i
	}

	return &Classifier{
		rules:      rules,
		exclusions: exclusions,
		locale:     locale,
		bySlug:     bySlug,
		slugOrder:  slugOrder,
	}
}

type candidate struct {
	rule       Rule
	confidence float64
	matchedBy  SignalKind
}

// Classify resolves the category assignment for the given signals. It always
// returns an assignment; when nothing matches, the fallback slug depends on
// whether any landmark keyword was seen.
func (c *Classifier) Classify(signals Signals) models.CategoryAssignment {
	if rule, ok := c.bySlug[signals.ManualSlug]; ok {
		return c.assignment(rule, 1.0, MatchedByManual, nil)
	}

	candidates := c.collect(signals)
	candidates = c.applyExclusions(candidates)

	if len(candidates) == 0 {
		return c.fallback(signals)
	}

	winner := candidates[0]
	for _, cand := range candidates[1:] {
		if c.outranks(cand, winner) {
			winner = cand
		}
	}

	var alternates []string
	for _, cand := range candidates {
		if cand.rule.Slug != winner.rule.Slug {
			alternates = append(alternates, cand.rule.Slug)
		}
	}

	return c.assignment(winner.rule, winner.confidence, string(winner.matchedBy), alternates)
}

// collect walks every rule's own probe ladder and records the first step
// that matches, with its priority-indexed confidence.
func (c *Classifier) collect(signals Signals) []candidate {
	var candidates []candidate
	for _, rule := range c.rules {
		for i, probe := range rule.Probes {
			if !probeMatches(probe, signals) {
				continue
			}
			idx := i
			if idx >= len(confidenceLadder) {
				idx = len(confidenceLadder) - 1
			}
			candidates = append(candidates, candidate{
				rule:       rule,
				confidence: confidenceLadder[idx],
				matchedBy:  probe.Kind,
			})
			break
		}
	}
	return candidates
}

// applyExclusions drops a generic candidate when its paired specific slug
// also matched.
func (c *Classifier) applyExclusions(candidates []candidate) []candidate {
	matched := make(map[string]bool, len(candidates))
	for _, cand := range candidates {
		matched[cand.rule.Slug] = true
	}

	drop := make(map[string]bool)
	for _, pair := range c.exclusions {
		if matched[pair.Generic] && matched[pair.Specific] {
			drop[pair.Generic] = true
		}
	}
	if len(drop) == 0 {
		return candidates
	}

	kept := candidates[:0]
	for _, cand := range candidates {
		if !drop[cand.rule.Slug] {
			kept = append(kept, cand)
		}
	}
	return kept
}

// outranks reports whether a beats b: higher confidence first, then global
// slug order, with the art gallery override on museum.
func (c *Classifier) outranks(a, b candidate) bool {
	if a.confidence != b.confidence {
		return a.confidence > b.confidence
	}
	if a.rule.Slug == "art_gallery" && b.rule.Slug == "museum" {
		return true
	}
	if a.rule.Slug == "museum" && b.rule.Slug == "art_gallery" {
		return false
	}
	return c.slugOrder[a.rule.Slug] < c.slugOrder[b.rule.Slug]
}

// fallback picks the landmark slug when any landmark keyword was present,
// otherwise the generic default.
func (c *Classifier) fallback(signals Signals) models.CategoryAssignment {
	slug := FallbackDefaultSlug
	for _, keyword := range signals.FreeTextKeywords {
		normalized := normalizers.NormalizeName(keyword)
		for _, term := range landmarkFallbackTerms {
			if strings.Contains(normalized, term) {
				slug = FallbackSlug
				break
			}
		}
	}

	if rule, ok := c.bySlug[slug]; ok {
		return c.assignment(rule, confidenceLadder[len(confidenceLadder)-1], MatchedByFallback, nil)
	}
	return models.CategoryAssignment{
		Slug:        slug,
		EnglishName: "Other",
		Confidence:  confidenceLadder[len(confidenceLadder)-1],
		MatchedBy:   MatchedByFallback,
	}
}

func (c *Classifier) assignment(rule Rule, confidence float64, matchedBy string, alternates []string) models.CategoryAssignment {
	return models.CategoryAssignment{
		Slug:           rule.Slug,
		EnglishName:    rule.EnglishName,
		LocalizedName:  rule.Localized[c.locale],
		Confidence:     confidence,
		MatchedBy:      matchedBy,
		AlternateSlugs: alternates,
	}
}

func probeMatches(probe Probe, signals Signals) bool {
	var values []string
	switch probe.Kind {
	case SignalTypeTag:
		values = signals.TypeTags
	case SignalKeyword:
		values = signals.FreeTextKeywords
	case SignalStructuredTag:
		values = signals.StructuredTags
	case SignalTaxonomyID:
		values = signals.TaxonomyIDs
	}

	for _, value := range values {
		for _, term := range probe.Terms {
			if signalMatches(probe.Kind, value, term) {
				return true
			}
		}
	}
	return false
}

// signalMatches compares one signal value to one term. Type tags, structured
// tags and taxonomy ids match exactly after normalization; free text matches
// on containment so "picasso museum" satisfies "museum".
func signalMatches(kind SignalKind, value, term string) bool {
	v := normalizers.NormalizeName(value)
	t := normalizers.NormalizeName(term)
	if v == "" || t == "" {
		return false
	}
	if kind == SignalKeyword {
		return containsToken(v, t)
	}
	return v == t
}

// containsToken reports whether term appears in value on token boundaries.
func containsToken(value, term string) bool {
	if value == term {
		return true
	}
	for _, token := range strings.Fields(value) {
		if token == term {
			return true
		}
	}
	return strings.Contains(value, " "+term+" ") ||
		strings.HasPrefix(value, term+" ") ||
		strings.HasSuffix(value, " "+term)
}
