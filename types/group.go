// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import "github.com/lux-relay/candidate-agreement/set"

// GroupInfo describes the validity and availability guarantor sets for one
// shard, plus the vote counts each quorum needs.
type GroupInfo struct {
	ValidityGuarantors     set.Set[AuthorityId]
	AvailabilityGuarantors set.Set[AuthorityId]
	NeededValidity         int
	NeededAvailability     int
}

// NewGroupInfo returns an empty GroupInfo ready for population.
func NewGroupInfo() *GroupInfo {
	return &GroupInfo{
		ValidityGuarantors:     set.Set[AuthorityId]{},
		AvailabilityGuarantors: set.Set[AuthorityId]{},
	}
}

// IsValidityGuarantor reports whether id is a validity guarantor of the group.
func (g *GroupInfo) IsValidityGuarantor(id AuthorityId) bool {
	if g == nil {
		return false
	}
	return g.ValidityGuarantors.Contains(id)
}

// IsAvailabilityGuarantor reports whether id is an availability guarantor.
func (g *GroupInfo) IsAvailabilityGuarantor(id AuthorityId) bool {
	if g == nil {
		return false
	}
	return g.AvailabilityGuarantors.Contains(id)
}

// MisbehaviorKind tags the variety of contradictory-statement evidence.
type MisbehaviorKind uint8

const (
	// DoubleCandidate is reserved for future use (equivalent to
	// MultipleCandidates but kept as a distinct tag in the data model).
	DoubleCandidate MisbehaviorKind = iota
	// ValidityDoubleVote is a validity guarantor voting both Valid and
	// Invalid for the same digest.
	ValidityDoubleVote
	// MultipleCandidates is a validity guarantor proposing two distinct
	// candidates for the same shard.
	MultipleCandidates
	// UnauthorizedStatement is a statement from a sender lacking the
	// required role, or one that failed signature verification for a
	// known sender.
	UnauthorizedStatement
)

// String names a misbehavior kind, suitable as a metrics label.
func (k MisbehaviorKind) String() string {
	switch k {
	case DoubleCandidate:
		return "DoubleCandidate"
	case ValidityDoubleVote:
		return "ValidityDoubleVote"
	case MultipleCandidates:
		return "MultipleCandidates"
	case UnauthorizedStatement:
		return "UnauthorizedStatement"
	default:
		return "Unknown"
	}
}

// Misbehavior is the first contradictory-statement pair observed for one
// author. Only one variant's fields are populated, selected by Kind.
type Misbehavior struct {
	Kind MisbehaviorKind

	// ValidityDoubleVote
	Valid   Statement
	Invalid Statement

	// MultipleCandidates
	First  Statement
	Second Statement

	// UnauthorizedStatement
	Culprit Statement
}
