package models

// CategoryAssignment is the canonical taxonomy slug and display names
// derived for a place. Recomputed whenever classification inputs change.
type CategoryAssignment struct {
	Slug           string   `json:"slug"`
	EnglishName    string   `json:"english_name"`
	LocalizedName  string   `json:"localized_name,omitempty"`
	Confidence     float64  `json:"confidence"`
	MatchedBy      string   `json:"matched_by"`
	AlternateSlugs []string `json:"alternate_slugs,omitempty"`
}
