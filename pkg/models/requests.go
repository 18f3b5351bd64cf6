package models

import "github.com/bahaa0627-dev/wanderlog-sub000/pkg/geo"

// RecommendRequest is the recommendation endpoint's request body.
type RecommendRequest struct {
	Query   string `json:"query" validate:"required"`
	City    string `json:"city"`
	Country string `json:"country"`
	Count   int    `json:"count" validate:"required,min=1,max=20"`
}

// CategoryPlan is an optional grouping proposal: a display title plus the
// proposed place names that belong to it.
type CategoryPlan struct {
	Title       string   `json:"title"`
	MemberNames []string `json:"member_names"`
}

// Proposal is a generative collaborator's structured output: suggested
// places plus an optional grouping plan.
type Proposal struct {
	Places     []ProposedPlace `json:"places"`
	Categories []CategoryPlan  `json:"categories,omitempty"`
}

// PlaceResult is one client-facing place in a recommendation response.
type PlaceResult struct {
	Name       string         `json:"name"`
	Summary    string         `json:"summary,omitempty"`
	Coordinate geo.Coordinate `json:"coordinate"`
	City       string         `json:"city,omitempty"`
	Country    string         `json:"country,omitempty"`
	ImageURL   string         `json:"image_url,omitempty"`
	Tags       []string       `json:"tags,omitempty"`
	Reason     string         `json:"reason,omitempty"`

	SourceKind SourceKind `json:"source_kind"`
	MatchScore float64    `json:"match_score,omitempty"`

	Rating       *float64 `json:"rating,omitempty"`
	RatingCount  *int     `json:"rating_count,omitempty"`
	Address      *string  `json:"address,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
	Website      *string  `json:"website,omitempty"`
	OpeningHours *string  `json:"opening_hours,omitempty"`
}

// CategoryGroup is a titled group of places in category mode.
type CategoryGroup struct {
	Title  string        `json:"title"`
	Places []PlaceResult `json:"places"`
}

// RecommendResponse is the recommendation endpoint's response body.
// Categories is omitted in flat mode.
type RecommendResponse struct {
	Categories []CategoryGroup `json:"categories,omitempty"`
	Places     []PlaceResult   `json:"places"`
}
