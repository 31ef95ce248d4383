// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package quorum

// CandidateTally tracks the two concurrent quorum computations for one
// candidate: validity (with a veto on any Invalid vote) and availability.
type CandidateTally struct {
	ValidCount         int
	InvalidCount       int
	AvailableCount     int
	NeededValidity     int
	NeededAvailability int
}

// Includable reports whether the candidate has reached both quorums with
// zero invalid votes.
func (t CandidateTally) Includable() bool {
	return t.ValidCount >= t.NeededValidity &&
		t.InvalidCount == 0 &&
		t.AvailableCount >= t.NeededAvailability
}
