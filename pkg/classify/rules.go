package classify

// SignalKind identifies where a classification signal came from. Rules trust
// kinds differently per slug.
type SignalKind string

const (
	// SignalTypeTag is an explicit provider type (google types, fsq categories)
	SignalTypeTag SignalKind = "type_tag"
	// SignalKeyword is a token found in free text (name, summary)
	SignalKeyword SignalKind = "keyword"
	// SignalStructuredTag is a structured key/value tag (osm tags)
	SignalStructuredTag SignalKind = "structured_tag"
	// SignalTaxonomyID is an external taxonomy identifier (wikidata Q-ids)
	SignalTaxonomyID SignalKind = "taxonomy_id"
)

// Probe is one step of a slug's trust ladder: a signal kind plus the terms
// that satisfy it.
type Probe struct {
	Kind  SignalKind
	Terms []string
}

// Rule declares one category slug: its display names, its own priority-
// ordered probes, and where it sits in the global tie-break order.
type Rule struct {
	Slug        string
	EnglishName string
	Localized   map[string]string
	Probes      []Probe
}

// ExclusionPair drops a generic slug when a more specific one also matched.
type ExclusionPair struct {
	Generic  string
	Specific string
}

// confidenceLadder maps a probe's index in its rule to a confidence. Probes
// past the ladder take the final value.
var confidenceLadder = []float64{0.95, 0.90, 0.85, 0.80, 0.70, 0.60}

// FallbackSlug is assigned when no rule matches and a landmark keyword was
// seen; FallbackDefaultSlug otherwise.
const (
	FallbackSlug        = "landmark"
	FallbackDefaultSlug = "other"
)

// landmarkFallbackTerms trigger the landmark fallback on any signal text.
var landmarkFallbackTerms = []string{
	"landmark", "monument", "memorial", "historic", "heritage", "ruins",
}

// DefaultRules returns the standard taxonomy. Order is the global tie-break
// order: earlier rules win equal-confidence ties, except the art gallery
// override in the classifier.
func DefaultRules() []Rule {
	return []Rule{
		{
			Slug:        "art_gallery",
			EnglishName: "Art Gallery",
			Localized:   map[string]string{"es": "Galería de arte", "fr": "Galerie d'art"},
			Probes: []Probe{
				{Kind: SignalTypeTag, Terms: []string{"art_gallery", "gallery"}},
				{Kind: SignalStructuredTag, Terms: []string{"tourism=gallery"}},
				{Kind: SignalTaxonomyID, Terms: []string{"Q1007870"}},
				{Kind: SignalKeyword, Terms: []string{"gallery", "galeria", "galerie"}},
			},
		},
		{
			Slug:        "museum",
			EnglishName: "Museum",
			Localized:   map[string]string{"es": "Museo", "fr": "Musée"},
			Probes: []Probe{
				{Kind: SignalTypeTag, Terms: []string{"museum"}},
				{Kind: SignalStructuredTag, Terms: []string{"tourism=museum"}},
				{Kind: SignalTaxonomyID, Terms: []string{"Q33506"}},
				{Kind: SignalKeyword, Terms: []string{"museum", "museo", "musee", "museu"}},
			},
		},
		{
			Slug:        "park",
			EnglishName: "Park",
			Localized:   map[string]string{"es": "Parque", "fr": "Parc"},
			Probes: []Probe{
				{Kind: SignalTypeTag, Terms: []string{"park"}},
				{Kind: SignalStructuredTag, Terms: []string{"leisure=park", "leisure=garden"}},
				{Kind: SignalKeyword, Terms: []string{"park", "parc", "parque", "garden", "jardin"}},
			},
		},
		{
			Slug:        "temple",
			EnglishName: "Temple",
			Localized:   map[string]string{"es": "Templo", "fr": "Temple"},
			Probes: []Probe{
				{Kind: SignalTypeTag, Terms: []string{"place_of_worship", "hindu_temple", "church", "mosque", "synagogue"}},
				{Kind: SignalStructuredTag, Terms: []string{"amenity=place_of_worship"}},
				{Kind: SignalKeyword, Terms: []string{"temple", "shrine", "cathedral", "basilica", "church", "mosque"}},
			},
		},
		{
			Slug:        "market",
			EnglishName: "Market",
			Localized:   map[string]string{"es": "Mercado", "fr": "Marché"},
			Probes: []Probe{
				{Kind: SignalTypeTag, Terms: []string{"market", "grocery_or_supermarket"}},
				{Kind: SignalStructuredTag, Terms: []string{"amenity=marketplace"}},
				{Kind: SignalKeyword, Terms: []string{"market", "mercado", "mercat", "marche", "bazaar"}},
			},
		},
		{
			Slug:        "restaurant",
			EnglishName: "Restaurant",
			Localized:   map[string]string{"es": "Restaurante", "fr": "Restaurant"},
			Probes: []Probe{
				{Kind: SignalTypeTag, Terms: []string{"restaurant", "food"}},
				{Kind: SignalStructuredTag, Terms: []string{"amenity=restaurant"}},
				{Kind: SignalKeyword, Terms: []string{"restaurant", "bistro", "trattoria", "brasserie"}},
			},
		},
		{
			Slug:        "cafe",
			EnglishName: "Café",
			Localized:   map[string]string{"es": "Cafetería", "fr": "Café"},
			Probes: []Probe{
				{Kind: SignalTypeTag, Terms: []string{"cafe", "bakery"}},
				{Kind: SignalStructuredTag, Terms: []string{"amenity=cafe"}},
				{Kind: SignalKeyword, Terms: []string{"cafe", "coffee", "bakery", "patisserie"}},
			},
		},
		{
			Slug:        "bar",
			EnglishName: "Bar",
			Localized:   map[string]string{"es": "Bar", "fr": "Bar"},
			Probes: []Probe{
				{Kind: SignalTypeTag, Terms: []string{"bar", "night_club"}},
				{Kind: SignalStructuredTag, Terms: []string{"amenity=bar", "amenity=pub"}},
				{Kind: SignalKeyword, Terms: []string{"bar", "pub", "taverna", "cerveceria"}},
			},
		},
		{
			Slug:        "viewpoint",
			EnglishName: "Viewpoint",
			Localized:   map[string]string{"es": "Mirador", "fr": "Point de vue"},
			Probes: []Probe{
				{Kind: SignalStructuredTag, Terms: []string{"tourism=viewpoint"}},
				{Kind: SignalKeyword, Terms: []string{"viewpoint", "mirador", "overlook", "observation deck"}},
			},
		},
		{
			Slug:        "beach",
			EnglishName: "Beach",
			Localized:   map[string]string{"es": "Playa", "fr": "Plage"},
			Probes: []Probe{
				{Kind: SignalTypeTag, Terms: []string{"beach"}},
				{Kind: SignalStructuredTag, Terms: []string{"natural=beach"}},
				{Kind: SignalKeyword, Terms: []string{"beach", "playa", "plage", "praia"}},
			},
		},
		{
			Slug:        "shop",
			EnglishName: "Shop",
			Localized:   map[string]string{"es": "Tienda", "fr": "Boutique"},
			Probes: []Probe{
				{Kind: SignalTypeTag, Terms: []string{"store", "shopping_mall", "shop"}},
				{Kind: SignalStructuredTag, Terms: []string{"shop=mall", "shop=department_store"}},
				{Kind: SignalKeyword, Terms: []string{"shop", "store", "boutique", "mall"}},
			},
		},
		{
			Slug:        "landmark",
			EnglishName: "Landmark",
			Localized:   map[string]string{"es": "Monumento", "fr": "Monument"},
			Probes: []Probe{
				{Kind: SignalTypeTag, Terms: []string{"tourist_attraction", "point_of_interest"}},
				{Kind: SignalStructuredTag, Terms: []string{"tourism=attraction", "historic=monument"}},
				{Kind: SignalKeyword, Terms: landmarkFallbackTerms},
			},
		},
	}
}

// DefaultExclusions returns the generic/specific suppression pairs. The
// generic slug is dropped when the specific one also matched.
func DefaultExclusions() []ExclusionPair {
	return []ExclusionPair{
		{Generic: "shop", Specific: "market"},
		{Generic: "landmark", Specific: "museum"},
		{Generic: "landmark", Specific: "art_gallery"},
		{Generic: "landmark", Specific: "temple"},
		{Generic: "landmark", Specific: "viewpoint"},
		{Generic: "cafe", Specific: "restaurant"},
	}
}

// RelatedSlugs is the partial-credit table for identity lookup: two records
// whose slugs form a listed pair are close enough to count toward the same
// identity. Kept deliberately separate from the exclusion pairs above; the
// two tables encode different judgments and are not symmetric.
func RelatedSlugs() map[string][]string {
	return map[string][]string{
		"restaurant":  {"cafe", "bar"},
		"cafe":        {"restaurant", "bar"},
		"bar":         {"restaurant", "cafe"},
		"museum":      {"art_gallery", "landmark"},
		"art_gallery": {"museum"},
		"landmark":    {"museum", "temple", "viewpoint"},
		"temple":      {"landmark"},
		"viewpoint":   {"landmark"},
		"market":      {"shop"},
		"shop":        {"market"},
	}
}

// AreRelated reports whether the two slugs are equal or form a listed
// related pair.
func AreRelated(a, b string) bool {
	if a == b {
		return true
	}
	for _, related := range RelatedSlugs()[a] {
		if related == b {
			return true
		}
	}
	return false
}
