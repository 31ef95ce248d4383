// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sharedtable wraps the statement table behind a mutex and adds the
// local node's own bookkeeping: which candidate it proposed, and which
// digests it has already started fetching data for.
package sharedtable

import (
	"context"
	"sync"

	"github.com/lux-relay/candidate-agreement/metrics"
	"github.com/lux-relay/candidate-agreement/networking/router"
	"github.com/lux-relay/candidate-agreement/statement"
	"github.com/lux-relay/candidate-agreement/tablecontext"
	"github.com/lux-relay/candidate-agreement/types"
)

// Source tags where an imported statement came from, mirroring the
// original's StatementSource: local statements are already trusted and
// never arm a fetch.
type Source uint8

const (
	Local Source = iota
	Remote
)

// SharedTable is the mutex-guarded façade the proposer and the network
// layer share one instance of per slot.
type SharedTable struct {
	ctx *tablecontext.Context

	mu                  sync.Mutex
	table               *statement.Table
	proposedDigest      *types.Hash
	checkedValidity     map[types.Hash]struct{}
	checkedAvailability map[types.Hash]struct{}
}

// New constructs a SharedTable bound to one slot's signing key, parent
// hash, and group assignments.
func New(ctx *tablecontext.Context) *SharedTable {
	return &SharedTable{
		ctx:                 ctx,
		table:               statement.New(),
		checkedValidity:     make(map[types.Hash]struct{}),
		checkedAvailability: make(map[types.Hash]struct{}),
	}
}

// GroupInfo returns the slot's group assignments.
func (s *SharedTable) GroupInfo() map[types.ParaId]*types.GroupInfo {
	return s.ctx.Groups
}

// SetMetrics wires m into the underlying statement table. Passing nil
// disables instrumentation, the default.
func (s *SharedTable) SetMetrics(m *metrics.Metrics) *SharedTable {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table.SetMetrics(m)
	return s
}

// ImportStatement imports one signed statement and returns the Producer
// that will fetch any data the import newly requires. Local statements
// always receive an inert producer; use SignAndImport for those instead.
func (s *SharedTable) ImportStatement(ctx context.Context, rtr router.TableRouter, signed types.SignedStatement, source Source) *Producer {
	if source == Local {
		return inert()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.importLocked(ctx, rtr, signed)
}

func (s *SharedTable) importLocked(ctx context.Context, rtr router.TableRouter, signed types.SignedStatement) *Producer {
	summary := s.table.ImportStatement(s.ctx, signed)
	if summary == nil {
		return inert()
	}

	digest, group := summary.Candidate, summary.GroupID
	local := s.ctx.LocalID()

	isValidityMember := s.ctx.IsMemberOf(local, group)
	isAvailabilityMember := s.ctx.IsAvailabilityGuarantorOf(local, group)

	_, alreadyChecking := s.checkedValidity[digest]
	checkingValidity := isValidityMember &&
		(s.proposedDigest == nil || *s.proposedDigest != digest) &&
		!alreadyChecking
	if checkingValidity {
		s.checkedValidity[digest] = struct{}{}
	}

	_, alreadyCheckingAvail := s.checkedAvailability[digest]
	checkingAvailability := isAvailabilityMember && !alreadyCheckingAvail
	if checkingAvailability {
		s.checkedAvailability[digest] = struct{}{}
	}

	if !checkingValidity && !checkingAvailability {
		return inert()
	}

	receipt, ok := s.table.GetCandidate(digest)
	if !ok {
		// Table inconsistency: a summary referenced a digest the table does
		// not have a receipt for. This cannot happen without a bug in the
		// table itself.
		return inert()
	}

	p := &Producer{}
	var blockFetch *pendingFetch[types.BlockData]
	var extrinsicFetch *pendingFetch[types.Extrinsic]

	if checkingValidity {
		blockFetch = startFetch(func() (types.BlockData, error) {
			return rtr.FetchBlockData(ctx, receipt)
		})
	}
	if checkingAvailability {
		extrinsicFetch = startFetch(func() (types.Extrinsic, error) {
			return rtr.FetchExtrinsicData(ctx, receipt)
		})
	}
	p.arm(digest, blockFetch, extrinsicFetch)
	return p
}

// SignAndImport signs statement under the slot's key and imports it as a
// trusted local statement. If statement is a Candidate, its digest becomes
// this node's proposed_digest before import, so that the table will not
// later fetch block data for its own candidate.
func (s *SharedTable) SignAndImport(statement types.Statement) types.SignedStatement {
	signed := s.ctx.SignStatement(statement)

	s.mu.Lock()
	defer s.mu.Unlock()

	if statement.Kind == types.Candidate {
		d := statement.TargetDigest()
		s.proposedDigest = &d
	}

	s.table.ImportStatement(s.ctx, signed)
	return signed
}

// ImportStatements folds ImportStatement over a batch of (statement,
// source) pairs under a single lock acquisition.
func (s *SharedTable) ImportStatements(ctx context.Context, rtr router.TableRouter, batch []struct {
	Signed types.SignedStatement
	Source Source
}) []*Producer {
	s.mu.Lock()
	defer s.mu.Unlock()

	producers := make([]*Producer, 0, len(batch))
	for _, item := range batch {
		if item.Source == Local {
			producers = append(producers, inert())
			continue
		}
		producers = append(producers, s.importLocked(ctx, rtr, item.Signed))
	}
	return producers
}

// WithCandidate runs f with the receipt recorded for digest, if any, while
// holding the table lock. Calling back into the SharedTable from f
// deadlocks; this mirrors the non-reentrancy contract of the original.
func (s *SharedTable) WithCandidate(digest types.Hash, f func(*types.CandidateReceipt)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	receipt, ok := s.table.GetCandidate(digest)
	if !ok {
		f(nil)
		return
	}
	f(&receipt)
}

// GetMisbehavior returns the accumulated misbehavior evidence.
func (s *SharedTable) GetMisbehavior() map[types.AuthorityId]types.Misbehavior {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.GetMisbehavior()
}

// FillBatch fills batch with unsent statements.
func (s *SharedTable) FillBatch(batch *statement.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table.FillBatch(batch)
}

// ProposedHash returns the digest of this node's own proposed candidate,
// if it has proposed one.
func (s *SharedTable) ProposedHash() (types.Hash, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proposedDigest == nil {
		return types.Hash{}, false
	}
	return *s.proposedDigest, true
}

// ProposedCandidates returns the includable candidates in ascending
// (shard, digest) order.
func (s *SharedTable) ProposedCandidates() []statement.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.ProposedCandidates(s.ctx)
}

// ShardsWithCandidate returns the shards that currently have a Candidate
// statement recorded, for the dynamic-inclusion timer.
func (s *SharedTable) ShardsWithCandidate() []types.ParaId {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.ShardsWithCandidate()
}

// LocalID returns the slot's local validator identity.
func (s *SharedTable) LocalID() types.AuthorityId {
	return s.ctx.LocalID()
}
