// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txpool

import (
	"github.com/lux-relay/candidate-agreement/client"
	"github.com/lux-relay/candidate-agreement/types"
)

// NonceReadiness is the Ready evaluator the proposer constructs per bake:
// a transaction is ready only if its index is exactly its sender's next
// expected index, queried lazily from the client and advanced in memory as
// transactions from the same sender are accepted (mirrors Ready::create in
// the original proposer).
type NonceReadiness struct {
	client    client.Client
	checkedID client.CheckedID
	next      map[types.AuthorityId]uint64
}

// NewNonceReadiness constructs a readiness evaluator bound to one block
// build.
func NewNonceReadiness(c client.Client, checkedID client.CheckedID) *NonceReadiness {
	return &NonceReadiness{
		client:    c,
		checkedID: checkedID,
		next:      make(map[types.AuthorityId]uint64),
	}
}

// Ready reports whether tx is next in line for its sender.
func (r *NonceReadiness) Ready(tx Transaction) bool {
	expected, ok := r.next[tx.Signed]
	if !ok {
		idx, err := r.client.Index(r.checkedID, tx.Signed)
		if err != nil {
			return false
		}
		expected = idx
	}

	if tx.Index != expected {
		return false
	}

	r.next[tx.Signed] = expected + 1
	return true
}
