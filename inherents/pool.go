// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package inherents

import "sync"

// Pool collects inherent-data bundles produced asynchronously elsewhere in
// the node and makes them ready for the next block's construction. It is
// per-parent-hash, in-memory, and carries no state across slots.
type Pool struct {
	mu   sync.Mutex
	data []*Data
}

// NewPool returns an empty staging pool.
func NewPool() *Pool {
	return &Pool{}
}

// Add appends a bundle under mutual exclusion.
func (p *Pool) Add(item *Data) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = append(p.data, item)
}

// Drain atomically swaps the internal sequence with an empty one and
// returns the previous contents, in insertion order.
func (p *Pool) Drain() []*Data {
	p.mu.Lock()
	defer p.mu.Unlock()
	drained := p.data
	p.data = nil
	return drained
}

// DrainInto folds every pending bundle onto target, in insertion order, so
// that a later bundle's value for a given identifier overwrites an earlier
// one (including a value already present in target before the drain).
func (p *Pool) DrainInto(target *Data) {
	for _, bundle := range p.Drain() {
		target.merge(bundle)
	}
}
