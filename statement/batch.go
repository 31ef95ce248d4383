// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package statement

import (
	"github.com/lux-relay/candidate-agreement/codec"
	"github.com/lux-relay/candidate-agreement/types"
)

// Batch accumulates signed statements up to a fixed byte budget, the unit
// fill_batch packs for an outgoing network send.
type Batch struct {
	maxBytes   int
	used       int
	Statements []types.SignedStatement
}

// NewBatch returns an empty batch with the given byte budget.
func NewBatch(maxBytes int) *Batch {
	return &Batch{maxBytes: maxBytes}
}

// fits reports whether signed's encoded form still fits in the budget.
func (b *Batch) fits(signed types.SignedStatement) bool {
	size := len(codec.EncodeStatement(signed.Statement))
	return b.used+size <= b.maxBytes
}

func (b *Batch) push(signed types.SignedStatement) {
	b.Statements = append(b.Statements, signed)
	b.used += len(codec.EncodeStatement(signed.Statement))
}

// FillBatch appends as many unsent signed statements as fit into batch's
// byte budget, Candidate statements first so receivers can resolve digests
// before the votes that reference them arrive. Consumed statements
// are removed from the table's unsent queues; statements that did not fit
// remain for the next call.
func (t *Table) FillBatch(batch *Batch) {
	t.unsentCandidates = drainFitting(batch, t.unsentCandidates)
	t.unsentVotes = drainFitting(batch, t.unsentVotes)
}

func drainFitting(batch *Batch, queue []types.SignedStatement) []types.SignedStatement {
	i := 0
	for ; i < len(queue); i++ {
		if !batch.fits(queue[i]) {
			break
		}
		batch.push(queue[i])
	}
	return queue[i:]
}
