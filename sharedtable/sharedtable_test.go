// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sharedtable

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lux-relay/candidate-agreement/signing"
	"github.com/lux-relay/candidate-agreement/tablecontext"
	"github.com/lux-relay/candidate-agreement/types"
)

type fakeRouter struct {
	blockData types.BlockData
	extrinsic types.Extrinsic
	// extrinsicDelay staggers extrinsic resolution after block data so
	// tests can force a producer to be polled across the moment block
	// data resolves but extrinsic data has not yet.
	extrinsicDelay time.Duration
	published      []types.Hash
}

func (r *fakeRouter) LocalCandidateData(hash types.Hash, _ types.BlockData, _ types.Extrinsic) {
	r.published = append(r.published, hash)
}

func (r *fakeRouter) FetchBlockData(_ context.Context, _ types.CandidateReceipt) (types.BlockData, error) {
	return r.blockData, nil
}

func (r *fakeRouter) FetchExtrinsicData(_ context.Context, _ types.CandidateReceipt) (types.Extrinsic, error) {
	if r.extrinsicDelay > 0 {
		time.Sleep(r.extrinsicDelay)
	}
	return r.extrinsic, nil
}

func keyFor(b byte) *signing.Key {
	var seed [32]byte
	seed[0] = b
	return signing.NewKeyFromSeed(seed)
}

func buildContext(local *signing.Key, para types.ParaId, validity, availability []*signing.Key) *tablecontext.Context {
	g := types.NewGroupInfo()
	for _, k := range validity {
		g.ValidityGuarantors.Add(k.AuthorityId())
	}
	for _, k := range availability {
		g.AvailabilityGuarantors.Add(k.AuthorityId())
	}
	g.NeededValidity = 1
	g.NeededAvailability = 1

	var parentHash types.Hash
	parentHash[0] = 0xBB
	return tablecontext.New(parentHash, local, map[types.ParaId]*types.GroupInfo{para: g})
}

func pollUntilReady(t *testing.T, p *Producer) Produced {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		v, ready, err := p.Poll()
		require.NoError(t, err)
		if ready {
			return v
		}
		if time.Now().After(deadline) {
			t.Fatal("producer never became ready")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestImportStatementArmsBlockFetchOnlyForValidityGuarantor(t *testing.T) {
	require := require.New(t)

	a, b := keyFor('A'), keyFor('B')
	ctx := buildContext(a, 3, []*signing.Key{a}, []*signing.Key{b})

	table := New(ctx)
	rtr := &fakeRouter{blockData: types.BlockData("block"), extrinsic: types.Extrinsic("ext")}

	receipt := types.CandidateReceipt{ParaId: 3, Collator: a.AuthorityId()}
	candidateStmt := types.NewCandidate(receipt)

	signedCandidate := a.SignStatement(candidateStmt, ctx.ParentHash)
	p1 := table.ImportStatement(context.Background(), rtr, signedCandidate, Remote)
	// A is the sole validity guarantor and proposed_digest is unset (this
	// import went through ImportStatement, not SignAndImport), so A's own
	// node checks validity on its own candidate and fetches block data.
	produced1 := pollUntilReady(t, p1)
	require.Equal(types.BlockData("block"), produced1.BlockData)

	digest := candidateStmt.TargetDigest()
	signedAvailVote := b.SignStatement(types.NewAvailable(digest), ctx.ParentHash)
	p2 := table.ImportStatement(context.Background(), rtr, signedAvailVote, Remote)

	// A is not an availability guarantor and is already checking validity
	// of this digest, so B's Available vote arms no fetch: p2 is inert.
	produced := pollUntilReady(t, p2)
	require.Nil(produced.Extrinsic)
	require.Nil(produced.Availability)
}

func TestImportStatementSynthesizesAvailabilityWhenBothFetchesArmed(t *testing.T) {
	require := require.New(t)

	// c is both a validity guarantor and the sole availability guarantor
	// of shard 3; a proposes the candidate, so c's own table checks both
	// validity and availability on the same producer.
	a, c := keyFor('A'), keyFor('C')
	ctx := buildContext(c, 3, []*signing.Key{a, c}, []*signing.Key{c})

	table := New(ctx)
	rtr := &fakeRouter{
		blockData:      types.BlockData("block"),
		extrinsic:      types.Extrinsic("ext"),
		extrinsicDelay: 20 * time.Millisecond,
	}

	receipt := types.CandidateReceipt{ParaId: 3, Collator: a.AuthorityId()}
	candidateStmt := types.NewCandidate(receipt)
	signedCandidate := a.SignStatement(candidateStmt, ctx.ParentHash)

	p := table.ImportStatement(context.Background(), rtr, signedCandidate, Remote)

	produced := pollUntilReady(t, p)
	require.Equal(types.BlockData("block"), produced.BlockData)
	require.Equal(types.Extrinsic("ext"), produced.Extrinsic)
	require.NotNil(produced.Availability)
	require.Equal(types.Available, produced.Availability.Kind)
	require.Equal(candidateStmt.TargetDigest(), produced.Availability.TargetDigest())
}

func TestSignAndImportSetsProposedDigest(t *testing.T) {
	require := require.New(t)

	a, b := keyFor('A'), keyFor('B')
	ctx := buildContext(a, 3, []*signing.Key{a}, []*signing.Key{b})
	table := New(ctx)

	receipt := types.CandidateReceipt{ParaId: 3, Collator: a.AuthorityId()}
	candidateStmt := types.NewCandidate(receipt)

	signed := table.SignAndImport(candidateStmt)
	require.Equal(a.AuthorityId(), signed.Sender)

	digest, ok := table.ProposedHash()
	require.True(ok)
	require.Equal(candidateStmt.TargetDigest(), digest)
}

func TestWithCandidateReturnsNilForUnknownDigest(t *testing.T) {
	require := require.New(t)

	a, b := keyFor('A'), keyFor('B')
	ctx := buildContext(a, 3, []*signing.Key{a}, []*signing.Key{b})
	table := New(ctx)

	var unknown types.Hash
	unknown[0] = 0xFF

	var sawNil bool
	table.WithCandidate(unknown, func(r *types.CandidateReceipt) {
		sawNil = r == nil
	})
	require.True(sawNil)
}
