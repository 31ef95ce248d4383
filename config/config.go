// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config carries the limits and tunables that govern proposal
// size, timestamp drift, and the dynamic-inclusion delay.
package config

import "time"

const (
	// MaxTransactionsSize is the strict cap on the sum of encoded
	// extrinsic sizes in a proposal.
	MaxTransactionsSize = 4 * 1024 * 1024

	// MaxTimestampDrift is the most a proposal's timestamp may lead the
	// evaluating node's clock.
	MaxTimestampDrift = 4 * time.Second
)

// Parameters bundles the per-node tunables the proposer needs beyond the
// hard protocol limits above.
type Parameters struct {
	// ParachainEmptyDuration is the grace period granted before a block
	// lacking any parachain candidate may still be baked.
	ParachainEmptyDuration time.Duration

	// BatchSize is a byte budget for one outgoing statement batch. Nothing
	// in this module reads it: FillBatch packs up to the budget passed to
	// statement.NewBatch.
	BatchSize int
}

// Default returns the baseline parameters used when a node does not
// override them.
func Default() Parameters {
	return Parameters{
		ParachainEmptyDuration: 1500 * time.Millisecond,
		BatchSize:              8192,
	}
}
