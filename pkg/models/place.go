package models

import (
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/geo"
)

// SourceKind classifies where a verified candidate came from.
type SourceKind string

const (
	// SourceKindLive is a candidate from a just-executed provider search
	SourceKindLive SourceKind = "live"
	// SourceKindCached is a candidate from the persisted store
	SourceKindCached SourceKind = "cached"
	// SourceKindAIOnly marks results backed only by a generative proposal
	SourceKindAIOnly SourceKind = "ai"
)

// Precedence returns the trust rank of the kind; higher is more trusted.
func (k SourceKind) Precedence() int {
	switch k {
	case SourceKindLive:
		return 2
	case SourceKindCached:
		return 1
	default:
		return 0
	}
}

// ProposedPlace is a place named by a generative source. It has no stable
// identity - only a name string and approximate geography.
type ProposedPlace struct {
	Name       string         `json:"name" validate:"required"`
	Summary    string         `json:"summary"`
	Coordinate geo.Coordinate `json:"coordinate"`
	City       string         `json:"city"`
	Country    string         `json:"country"`
	ImageURL   string         `json:"image_url"`
	Tags       []string       `json:"tags"`
	Reason     string         `json:"reason"`
}

// CandidateDetails are the optional business fields a verified candidate may
// carry regardless of variant.
type CandidateDetails struct {
	Rating        *float64 `json:"rating,omitempty"`
	RatingCount   *int     `json:"rating_count,omitempty"`
	Address       *string  `json:"address,omitempty"`
	Phone         *string  `json:"phone,omitempty"`
	Website       *string  `json:"website,omitempty"`
	OpeningHours  *string  `json:"opening_hours,omitempty"`
	CoverImageURL *string  `json:"cover_image_url,omitempty"`
}

// VerifiedCandidate is a place from a live search or the persisted store,
// considered ground truth for identity purposes. Exactly two variants exist:
// LiveCandidate and CachedCandidate.
type VerifiedCandidate interface {
	CandidateID() string
	CandidateName() string
	CandidateCoordinate() geo.Coordinate
	Kind() SourceKind
	Details() CandidateDetails
}

// LiveCandidate is an ephemeral candidate from a just-executed provider
// search. It carries the provider-native id only.
type LiveCandidate struct {
	ProviderPlaceID  string         `json:"provider_place_id"`
	Name             string         `json:"name"`
	Coordinate       geo.Coordinate `json:"coordinate"`
	CandidateDetails `json:"details"`
}

// CandidateID returns the provider-native id.
func (c LiveCandidate) CandidateID() string { return c.ProviderPlaceID }

// CandidateName returns the provider's display name.
func (c LiveCandidate) CandidateName() string { return c.Name }

// CandidateCoordinate returns the provider's coordinate.
func (c LiveCandidate) CandidateCoordinate() geo.Coordinate { return c.Coordinate }

// Kind returns SourceKindLive.
func (c LiveCandidate) Kind() SourceKind { return SourceKindLive }

// Details returns the candidate's optional business fields.
func (c LiveCandidate) Details() CandidateDetails { return c.CandidateDetails }

// CachedCandidate is a persisted candidate with a durable row id. It may
// also carry a provider-native id from a prior import.
type CachedCandidate struct {
	RecordID         string         `json:"record_id"`
	ProviderPlaceID  string         `json:"provider_place_id,omitempty"`
	Name             string         `json:"name"`
	Coordinate       geo.Coordinate `json:"coordinate"`
	CandidateDetails `json:"details"`
}

// CandidateID returns the durable row id.
func (c CachedCandidate) CandidateID() string { return c.RecordID }

// CandidateName returns the stored display name.
func (c CachedCandidate) CandidateName() string { return c.Name }

// CandidateCoordinate returns the stored coordinate.
func (c CachedCandidate) CandidateCoordinate() geo.Coordinate { return c.Coordinate }

// Kind returns SourceKindCached.
func (c CachedCandidate) Kind() SourceKind { return SourceKindCached }

// Details returns the candidate's optional business fields.
func (c CachedCandidate) Details() CandidateDetails { return c.CandidateDetails }

// MatchLink pairs one proposed place with its best verified candidate. It is
// a transient view created per request, never persisted, and only exists
// when the score cleared the acceptance threshold.
type MatchLink struct {
	Proposed   ProposedPlace     `json:"proposed"`
	Candidate  VerifiedCandidate `json:"candidate"`
	SourceKind SourceKind        `json:"source_kind"`
	MatchScore float64           `json:"match_score"`
}
