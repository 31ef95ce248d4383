// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package txpool implements the transaction pool the proposer drains when
// baking a block. The pool holds any number of transactions; the size bound
// is applied by the proposer while draining. Its shape is grounded in how the original
// consensus loop uses it (pending/remove/import under a readiness
// evaluator) rather than on the Substrate transaction-pool crate itself,
// which is not part of the retrieved source.
package txpool

import (
	"sync"

	"github.com/lux-relay/candidate-agreement/types"
)

// Transaction is one pool entry: a signed extrinsic plus the bookkeeping
// the readiness evaluator and the pool's own indexing need.
type Transaction struct {
	Hash      types.Hash
	Signed    types.AuthorityId
	Index     uint64
	Extrinsic types.Extrinsic
}

// EncodedSize returns the transaction's size for the purposes of the
// pool's transaction-size bound.
func (tx Transaction) EncodedSize() int {
	return len(tx.Extrinsic)
}

// ReadinessEvaluator decides whether a pooled transaction is ready to be
// included next, e.g. because its sender's nonce sequence has no gap.
type ReadinessEvaluator interface {
	Ready(tx Transaction) bool
}

// Pool is a mutex-guarded, insertion-ordered transaction queue. It has its
// own lock, independent of the shared table's.
type Pool struct {
	mu    sync.Mutex
	queue []Transaction
	index map[types.Hash]struct{}
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{index: make(map[types.Hash]struct{})}
}

// Import adds tx to the pool. Re-importing an already-known hash is a no-op.
func (p *Pool) Import(tx Transaction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ImportLocked(tx)
}

// ImportLocked is Import for a caller that already holds Lock, e.g. the
// proposer's misbehavior path, which acquires the pool lock once and
// holds it for the full extrinsic-emission loop.
func (p *Pool) ImportLocked(tx Transaction) {
	if _, ok := p.index[tx.Hash]; ok {
		return
	}
	p.index[tx.Hash] = struct{}{}
	p.queue = append(p.queue, tx)
}

// Pending returns the queued transactions the evaluator currently
// considers ready, in insertion order.
func (p *Pool) Pending(evaluator ReadinessEvaluator) []Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.PendingLocked(evaluator)
}

// PendingLocked is Pending for a caller that already holds Lock.
func (p *Pool) PendingLocked(evaluator ReadinessEvaluator) []Transaction {
	ready := make([]Transaction, 0, len(p.queue))
	for _, tx := range p.queue {
		if evaluator.Ready(tx) {
			ready = append(ready, tx)
		}
	}
	return ready
}

// Lock acquires the pool's mutex for a caller that needs to hold it across
// several operations, e.g. read-then-import sequences that must not
// interleave with a concurrent import.
func (p *Pool) Lock() { p.mu.Lock() }

// Unlock releases a lock taken with Lock.
func (p *Pool) Unlock() { p.mu.Unlock() }

// Remove culls hash from the pool, e.g. after it was found oversized or
// rejected by the block builder.
func (p *Pool) Remove(hash types.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.RemoveLocked(hash)
}

// RemoveLocked is Remove for a caller that already holds Lock.
func (p *Pool) RemoveLocked(hash types.Hash) {
	if _, ok := p.index[hash]; !ok {
		return
	}
	delete(p.index, hash)

	filtered := p.queue[:0]
	for _, tx := range p.queue {
		if tx.Hash != hash {
			filtered = append(filtered, tx)
		}
	}
	p.queue = filtered
}

// Len reports the number of transactions currently queued.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}
