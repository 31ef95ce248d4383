// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package inclusion implements the dynamic-inclusion timer: the proposer
// must not bake a block before every shard has contributed a candidate,
// or before a fixed grace period has elapsed, whichever comes first.
package inclusion

import "time"

// DynamicInclusion computes the earliest time a block may be baked.
type DynamicInclusion struct {
	nParachains   int
	startInstant  time.Time
	emptyDuration time.Duration
}

// New constructs a DynamicInclusion timer for a slot that began at
// startInstant, covering nParachains shards, with emptyDuration as the
// grace period granted when not every shard has a candidate yet.
func New(nParachains int, startInstant time.Time, emptyDuration time.Duration) *DynamicInclusion {
	return &DynamicInclusion{
		nParachains:   nParachains,
		startInstant:  startInstant,
		emptyDuration: emptyDuration,
	}
}

// EarliestBake returns the earliest permissible bake time given the number
// of shards that currently have a proposed candidate.
func (d *DynamicInclusion) EarliestBake(shardsWithCandidate int) time.Time {
	if shardsWithCandidate >= d.nParachains {
		return d.startInstant
	}
	return d.startInstant.Add(d.emptyDuration)
}

// Ready reports whether now has reached the earliest permissible bake time.
func (d *DynamicInclusion) Ready(now time.Time, shardsWithCandidate int) bool {
	return !now.Before(d.EarliestBake(shardsWithCandidate))
}
