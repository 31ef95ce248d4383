// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package collation drives the single collator query a proposer issues for
// its own assigned shard each slot.
package collation

import (
	"context"

	"github.com/lux-relay/candidate-agreement/types"
)

// Collation is one collator's offered candidate: a receipt plus the block
// and extrinsic data backing it.
type Collation struct {
	Receipt   types.CandidateReceipt
	BlockData types.BlockData
	Extrinsic types.Extrinsic
}

// Collators yields one Collation for a shard given its relay parent.
type Collators interface {
	Collate(ctx context.Context, shard types.ParaId, relayParent types.Hash) (Collation, error)
}

type outcome struct {
	collation Collation
	err       error
}

// Fetch drives one in-flight collator query, pollable without blocking.
type Fetch struct {
	ch      chan outcome
	started bool
}

// NewFetch starts querying collators for shard's candidate at relayParent
// and returns a handle that can be polled for the result.
func NewFetch(ctx context.Context, collators Collators, shard types.ParaId, relayParent types.Hash) *Fetch {
	f := &Fetch{ch: make(chan outcome, 1), started: true}
	go func() {
		c, err := collators.Collate(ctx, shard, relayParent)
		f.ch <- outcome{collation: c, err: err}
	}()
	return f
}

// Poll reports whether the collation has arrived. A non-nil error means the
// collator query failed; the caller logs it and proceeds without a local
// candidate, it is not fatal to the proposer.
func (f *Fetch) Poll() (collation Collation, ready bool, err error) {
	select {
	case o := <-f.ch:
		return o.collation, true, o.err
	default:
		return Collation{}, false, nil
	}
}
