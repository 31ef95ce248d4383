// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package statement implements the log-structured statement table: the
// append-only index of signed candidate/valid/invalid/available votes,
// equivocation detection, and includability tallying. The table itself is
// not safe for concurrent use; the shared table above it supplies the
// lock.
package statement

import (
	"bytes"

	"github.com/lux-relay/candidate-agreement/metrics"
	"github.com/lux-relay/candidate-agreement/quorum"
	"github.com/lux-relay/candidate-agreement/set"
	"github.com/lux-relay/candidate-agreement/signing"
	"github.com/lux-relay/candidate-agreement/tablecontext"
	"github.com/lux-relay/candidate-agreement/types"
)

// Summary describes the candidate a successfully-imported statement
// affected, for callers (the shared table, the proposer) that need to react
// to new information without re-deriving it from the table's full state.
type Summary struct {
	Candidate types.Hash
	GroupID   types.ParaId
}

// record is the table's per-candidate accumulator. Receipt is nil until the
// owning Candidate statement arrives; votes may accumulate against a digest
// before then.
type record struct {
	receipt   *types.CandidateReceipt
	knownPara bool
	para      types.ParaId
	proposer  types.AuthorityId

	validVotes        set.Set[types.AuthorityId]
	invalidVotes      set.Set[types.AuthorityId]
	availabilityVotes set.Set[types.AuthorityId]
}

func newRecord() *record {
	return &record{
		validVotes:        set.Set[types.AuthorityId]{},
		invalidVotes:      set.Set[types.AuthorityId]{},
		availabilityVotes: set.Set[types.AuthorityId]{},
	}
}

// vote is the first-seen polarity recorded for one (sender, digest) pair,
// used to detect a ValidityDoubleVote.
type vote uint8

const (
	voteValid vote = iota
	voteInvalid
)

type statementKey struct {
	sender types.AuthorityId
	digest types.Hash
	kind   types.Kind
}

// Table is the statement table proper.
type Table struct {
	candidates map[types.Hash]*record

	// proposals tracks, per sender and shard, the first candidate digest
	// that sender proposed, to detect MultipleCandidates.
	proposals map[types.AuthorityId]map[types.ParaId]types.Hash

	// polarity tracks, per sender and digest, the first Valid/Invalid
	// vote cast, to detect ValidityDoubleVote.
	polarity map[types.AuthorityId]map[types.Hash]vote

	// seen dedups (sender, statement) pairs so re-import is a no-op.
	seen map[statementKey]struct{}

	misbehavior map[types.AuthorityId]types.Misbehavior

	unsentCandidates []types.SignedStatement
	unsentVotes      []types.SignedStatement

	// includable tracks digests already counted as having reached quorum,
	// so CandidatesIncludable only fires on the transition to includable.
	includable set.Set[types.Hash]

	metrics *metrics.Metrics
}

// New returns an empty statement table.
func New() *Table {
	return &Table{
		candidates:  make(map[types.Hash]*record),
		proposals:   make(map[types.AuthorityId]map[types.ParaId]types.Hash),
		polarity:    make(map[types.AuthorityId]map[types.Hash]vote),
		seen:        make(map[statementKey]struct{}),
		misbehavior: make(map[types.AuthorityId]types.Misbehavior),
		includable:  set.Set[types.Hash]{},
	}
}

// SetMetrics wires m into the table; every import and misbehavior record
// afterward increments the appropriate counter. Passing nil disables
// instrumentation, the table's default.
func (t *Table) SetMetrics(m *metrics.Metrics) *Table {
	t.metrics = m
	return t
}

func (t *Table) recordMisbehavior(author types.AuthorityId, m types.Misbehavior) {
	if _, ok := t.misbehavior[author]; ok {
		return // first-detected kind wins
	}
	t.misbehavior[author] = m
	if t.metrics != nil {
		t.metrics.MisbehaviorDetected.WithLabelValues(m.Kind.String()).Inc()
	}
}

// noteIncludability increments CandidatesIncludable the first time digest
// crosses both quorums.
func (t *Table) noteIncludability(ctx *tablecontext.Context, digest types.Hash) {
	if t.metrics == nil {
		return
	}
	if t.includable.Contains(digest) {
		return
	}
	if !t.Includable(ctx, digest) {
		return
	}
	t.includable.Add(digest)
	t.metrics.CandidatesIncludable.Inc()
}

func (t *Table) recordOf(digest types.Hash) *record {
	r, ok := t.candidates[digest]
	if !ok {
		r = newRecord()
		t.candidates[digest] = r
	}
	return r
}

// ImportStatement runs one signed statement through verification,
// authorization, equivocation detection, and vote insertion. It returns a
// non-nil Summary exactly when the statement was new and actionable.
func (t *Table) ImportStatement(ctx *tablecontext.Context, signed types.SignedStatement) *Summary {
	// Step 1: signature verification.
	if !signing.Verify(signed, ctx.ParentHash) {
		if ctx.IsKnownAuthority(signed.Sender) {
			t.recordMisbehavior(signed.Sender, types.Misbehavior{
				Kind:    types.UnauthorizedStatement,
				Culprit: signed.Statement,
			})
		}
		return nil
	}

	digest := signed.Statement.TargetDigest()
	key := statementKey{sender: signed.Sender, digest: digest, kind: signed.Statement.Kind}
	if _, dup := t.seen[key]; dup {
		return nil // idempotent: already seen from this sender
	}

	var summary *Summary
	switch signed.Statement.Kind {
	case types.Candidate:
		summary = t.importCandidate(ctx, signed, key)
	case types.Valid, types.Invalid:
		summary = t.importVote(ctx, signed, key)
	case types.Available:
		summary = t.importAvailability(ctx, signed, key)
	default:
		return nil
	}
	if summary != nil {
		if t.metrics != nil {
			t.metrics.StatementsImported.WithLabelValues(signed.Statement.Kind.String()).Inc()
		}
		t.noteIncludability(ctx, summary.Candidate)
	}
	return summary
}

func (t *Table) importCandidate(ctx *tablecontext.Context, signed types.SignedStatement, key statementKey) *Summary {
	receipt := signed.Statement.Receipt
	para := receipt.ParaId

	if !ctx.IsMemberOf(signed.Sender, para) {
		t.recordMisbehavior(signed.Sender, types.Misbehavior{
			Kind:    types.UnauthorizedStatement,
			Culprit: signed.Statement,
		})
		return nil
	}

	h := signed.Statement.TargetDigest()

	byShard, ok := t.proposals[signed.Sender]
	if !ok {
		byShard = make(map[types.ParaId]types.Hash)
		t.proposals[signed.Sender] = byShard
	}
	if first, proposed := byShard[para]; proposed && first != h {
		t.recordMisbehavior(signed.Sender, types.Misbehavior{
			Kind:   types.MultipleCandidates,
			First:  types.NewCandidate(*t.candidates[first].receipt),
			Second: signed.Statement,
		})
		return nil
	}
	byShard[para] = h

	r := t.recordOf(h)
	if r.receipt == nil {
		r.receipt = &receipt
		r.knownPara = true
		r.para = para
		r.proposer = signed.Sender
	}
	r.validVotes.Add(signed.Sender) // implicit Valid vote from the proposer

	t.seen[key] = struct{}{}
	t.unsentCandidates = append(t.unsentCandidates, signed)

	return &Summary{Candidate: h, GroupID: para}
}

func (t *Table) importVote(ctx *tablecontext.Context, signed types.SignedStatement, key statementKey) *Summary {
	digest := signed.Statement.Digest
	r := t.recordOf(digest)

	para, paraKnown := r.para, r.knownPara
	if !paraKnown {
		// No Candidate has arrived yet: authorize against the sender's
		// own shard membership rather than the (still unknown) candidate
		// shard, per the deferred-authorization design in DESIGN.md.
		p, ok := ctx.ParaOf(signed.Sender)
		if !ok {
			t.recordMisbehavior(signed.Sender, types.Misbehavior{
				Kind:    types.UnauthorizedStatement,
				Culprit: signed.Statement,
			})
			return nil
		}
		para = p
	} else if !ctx.IsMemberOf(signed.Sender, para) {
		t.recordMisbehavior(signed.Sender, types.Misbehavior{
			Kind:    types.UnauthorizedStatement,
			Culprit: signed.Statement,
		})
		return nil
	}

	byDigest, ok := t.polarity[signed.Sender]
	if !ok {
		byDigest = make(map[types.Hash]vote)
		t.polarity[signed.Sender] = byDigest
	}

	want := voteValid
	if signed.Statement.Kind == types.Invalid {
		want = voteInvalid
	}

	if prior, voted := byDigest[digest]; voted {
		if prior != want {
			t.recordMisbehavior(signed.Sender, types.Misbehavior{
				Kind:    types.ValidityDoubleVote,
				Valid:   types.NewValid(digest),
				Invalid: types.NewInvalid(digest),
			})
		}
		return nil
	}
	byDigest[digest] = want

	if want == voteValid {
		r.validVotes.Add(signed.Sender)
	} else {
		r.invalidVotes.Add(signed.Sender)
	}

	t.seen[key] = struct{}{}
	t.unsentVotes = append(t.unsentVotes, signed)

	return &Summary{Candidate: digest, GroupID: para}
}

func (t *Table) importAvailability(ctx *tablecontext.Context, signed types.SignedStatement, key statementKey) *Summary {
	digest := signed.Statement.Digest
	r := t.recordOf(digest)

	para, paraKnown := r.para, r.knownPara
	if !paraKnown {
		// An availability-only guarantor is never in ParaOf's validity set,
		// so resolving a deferred Available vote's shard must check
		// availability membership, not validity membership.
		p, ok := ctx.AvailabilityParaOf(signed.Sender)
		if !ok {
			t.recordMisbehavior(signed.Sender, types.Misbehavior{
				Kind:    types.UnauthorizedStatement,
				Culprit: signed.Statement,
			})
			return nil
		}
		para = p
	} else if !ctx.IsAvailabilityGuarantorOf(signed.Sender, para) {
		t.recordMisbehavior(signed.Sender, types.Misbehavior{
			Kind:    types.UnauthorizedStatement,
			Culprit: signed.Statement,
		})
		return nil
	}

	r.availabilityVotes.Add(signed.Sender)

	t.seen[key] = struct{}{}
	t.unsentVotes = append(t.unsentVotes, signed)

	return &Summary{Candidate: digest, GroupID: para}
}

// ImportStatements folds ImportStatement over a batch, in order.
func (t *Table) ImportStatements(ctx *tablecontext.Context, batch []types.SignedStatement) []*Summary {
	summaries := make([]*Summary, 0, len(batch))
	for _, signed := range batch {
		summaries = append(summaries, t.ImportStatement(ctx, signed))
	}
	return summaries
}

// GetCandidate returns the receipt recorded for digest, if its Candidate
// statement has arrived.
func (t *Table) GetCandidate(digest types.Hash) (types.CandidateReceipt, bool) {
	r, ok := t.candidates[digest]
	if !ok || r.receipt == nil {
		return types.CandidateReceipt{}, false
	}
	return *r.receipt, true
}

// GetMisbehavior returns the accumulated misbehavior evidence, one record
// per offending author.
func (t *Table) GetMisbehavior() map[types.AuthorityId]types.Misbehavior {
	out := make(map[types.AuthorityId]types.Misbehavior, len(t.misbehavior))
	for k, v := range t.misbehavior {
		out[k] = v
	}
	return out
}

// ShardsWithCandidate returns the distinct shards for which a Candidate
// statement has arrived, for the dynamic-inclusion timer.
func (t *Table) ShardsWithCandidate() []types.ParaId {
	seen := set.Set[types.ParaId]{}
	for _, r := range t.candidates {
		if r.knownPara {
			seen.Add(r.para)
		}
	}
	return seen.List()
}

// tally computes the CandidateTally for digest against ctx's requisite
// votes. Returns false if the candidate's shard is not yet known.
func (t *Table) tally(ctx *tablecontext.Context, digest types.Hash) (quorum.CandidateTally, bool) {
	r, ok := t.candidates[digest]
	if !ok || !r.knownPara {
		return quorum.CandidateTally{}, false
	}
	nv, na := ctx.RequisiteVotes(r.para)
	return quorum.CandidateTally{
		ValidCount:         r.validVotes.Len(),
		InvalidCount:       r.invalidVotes.Len(),
		AvailableCount:     r.availabilityVotes.Len(),
		NeededValidity:     nv,
		NeededAvailability: na,
	}, true
}

// Includable reports whether digest has reached both quorums with zero
// invalid votes.
func (t *Table) Includable(ctx *tablecontext.Context, digest types.Hash) bool {
	tal, ok := t.tally(ctx, digest)
	return ok && tal.Includable()
}

// ProposedCandidates returns every includable candidate's digest, grouped
// with its shard, in ascending (shard, digest) order for deterministic
// block composition.
func (t *Table) ProposedCandidates(ctx *tablecontext.Context) []Summary {
	includable := set.Set[Summary]{}
	for digest, r := range t.candidates {
		if !r.knownPara {
			continue
		}
		tal, ok := t.tally(ctx, digest)
		if !ok || !tal.Includable() {
			continue
		}
		includable.Add(Summary{Candidate: digest, GroupID: r.para})
	}

	return includable.SortedFunc(func(a, b Summary) bool {
		if a.GroupID != b.GroupID {
			return a.GroupID < b.GroupID
		}
		return bytes.Compare(a.Candidate[:], b.Candidate[:]) < 0
	})
}
