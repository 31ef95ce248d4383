// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package proposer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lux-relay/candidate-agreement/client"
	"github.com/lux-relay/candidate-agreement/config"
	"github.com/lux-relay/candidate-agreement/networking/router"
	"github.com/lux-relay/candidate-agreement/signing"
	"github.com/lux-relay/candidate-agreement/txpool"
	"github.com/lux-relay/candidate-agreement/types"
)

func keyFor(b byte) *signing.Key {
	var seed [32]byte
	seed[0] = b
	return signing.NewKeyFromSeed(seed)
}

func hashFor(b byte) types.Hash {
	var h types.Hash
	h[0] = b
	return h
}

type fakeClient struct {
	dutyRoster    types.DutyRoster
	evaluateErr   error
	buildErr      error
	index         uint64
}

func (f *fakeClient) CheckID(h types.Hash) (client.CheckedID, error) {
	return client.NewCheckedID(h), nil
}
func (f *fakeClient) DutyRoster(client.CheckedID) (types.DutyRoster, error) {
	return f.dutyRoster, nil
}
func (f *fakeClient) BuildBlock(id client.CheckedID, timestamp int64) (client.BlockBuilder, error) {
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	return &fakeBuilder{header: client.Header{ParentHash: id.Hash(), Timestamp: timestamp}}, nil
}
func (f *fakeClient) EvaluateBlock(client.CheckedID, client.Block) error { return f.evaluateErr }
func (f *fakeClient) Index(client.CheckedID, types.AuthorityId) (uint64, error) {
	return f.index, nil
}

type fakeBuilder struct {
	header     client.Header
	extrinsics []types.Extrinsic
}

func (b *fakeBuilder) PushExtrinsic(ext types.Extrinsic) error {
	b.extrinsics = append(b.extrinsics, ext)
	return nil
}
func (b *fakeBuilder) Bake() client.Block {
	return client.Block{Header: b.header, Extrinsics: b.extrinsics}
}

type fakeNetwork struct{}

func (fakeNetwork) TableRouter(interface{}) router.TableRouter { return fakeRouter{} }

type fakeRouter struct{}

func (fakeRouter) LocalCandidateData(types.Hash, types.BlockData, types.Extrinsic) {}
func (fakeRouter) FetchBlockData(context.Context, types.CandidateReceipt) (types.BlockData, error) {
	return nil, nil
}
func (fakeRouter) FetchExtrinsicData(context.Context, types.CandidateReceipt) (types.Extrinsic, error) {
	return nil, nil
}

func buildProposer(t *testing.T, d types.DutyRoster, authorities []types.AuthorityId, key *signing.Key) (*Proposer, *fakeClient) {
	t.Helper()
	fc := &fakeClient{dutyRoster: d}
	p, err := Init(
		fc,
		fakeNetwork{},
		txpool.New(),
		nil,
		client.Header{Number: 1, Timestamp: 100},
		authorities,
		key,
		config.Default(),
		nil,
	)
	require.NoError(t, err)
	return p, fc
}

func oneShardRoster() (types.DutyRoster, []types.AuthorityId, *signing.Key) {
	key := keyFor(1)
	authorities := []types.AuthorityId{key.AuthorityId()}
	d := types.DutyRoster{
		ValidatorDuty: []types.Duty{types.Parachain(7)},
		GuarantorDuty: []types.Duty{types.Parachain(7)},
	}
	return d, authorities, key
}

func TestInitResolvesParentAndGroups(t *testing.T) {
	require := require.New(t)
	d, authorities, key := oneShardRoster()
	p, _ := buildProposer(t, d, authorities, key)
	require.NotNil(p)
	require.Equal(key.AuthorityId(), p.ctx.LocalID())
}

func TestEvaluateRejectsOversizedProposal(t *testing.T) {
	require := require.New(t)
	d, authorities, key := oneShardRoster()
	p, _ := buildProposer(t, d, authorities, key)

	oversized := make(types.Extrinsic, config.MaxTransactionsSize+1)
	block := client.Block{
		Header:     client.Header{ParentHash: p.parentHash, Timestamp: time.Now().Unix()},
		Extrinsics: []types.Extrinsic{oversized},
	}
	encoded, err := client.EncodeBlock(block)
	require.NoError(err)

	ok, err := p.Evaluate(encoded)
	require.False(ok)
	var tooLarge *ProposalTooLargeError
	require.ErrorAs(err, &tooLarge)
	require.Equal(config.MaxTransactionsSize+1, tooLarge.Size)
}

func TestEvaluateRejectsWrongParentHash(t *testing.T) {
	require := require.New(t)
	d, authorities, key := oneShardRoster()
	p, _ := buildProposer(t, d, authorities, key)

	block := client.Block{
		Header: client.Header{ParentHash: hashFor(0xff), Timestamp: time.Now().Unix()},
	}
	encoded, err := client.EncodeBlock(block)
	require.NoError(err)

	ok, err := p.Evaluate(encoded)
	require.False(ok)
	var wrongParent *WrongParentHashError
	require.ErrorAs(err, &wrongParent)
	require.Equal(p.parentHash, wrongParent.Expected)
}

func TestEvaluateRejectsFutureTimestamp(t *testing.T) {
	require := require.New(t)
	d, authorities, key := oneShardRoster()
	p, _ := buildProposer(t, d, authorities, key)

	future := time.Now().Add(5 * time.Second).Unix()
	block := client.Block{
		Header: client.Header{ParentHash: p.parentHash, Timestamp: future},
	}
	encoded, err := client.EncodeBlock(block)
	require.NoError(err)

	ok, err := p.Evaluate(encoded)
	require.False(ok)
	require.ErrorIs(err, ErrTimestampInFuture)
}

func TestEvaluateAcceptsTimestampWithinDrift(t *testing.T) {
	require := require.New(t)
	d, authorities, key := oneShardRoster()
	p, _ := buildProposer(t, d, authorities, key)

	withinDrift := time.Now().Add(3 * time.Second).Unix()
	block := client.Block{
		Header: client.Header{ParentHash: p.parentHash, Timestamp: withinDrift},
	}
	encoded, err := client.EncodeBlock(block)
	require.NoError(err)

	ok, err := p.Evaluate(encoded)
	require.NoError(err)
	require.True(ok)
}

func TestEvaluateRejectsMalformedProposal(t *testing.T) {
	require := require.New(t)
	d, authorities, key := oneShardRoster()
	p, _ := buildProposer(t, d, authorities, key)

	ok, err := p.Evaluate([]byte("not json"))
	require.False(ok)
	require.ErrorIs(err, ErrInvalidProposalFormat)
}

func TestImportMisbehaviorIgnoresUnreportableKinds(t *testing.T) {
	require := require.New(t)
	d, authorities, key := oneShardRoster()
	p, _ := buildProposer(t, d, authorities, key)

	p.ImportMisbehavior([]RoundMisbehavior{
		{Target: authorities[0], Kind: ProposeOutOfTurn},
		{Target: authorities[0], Kind: DoublePropose},
	})

	require.Equal(0, p.pool.Len())
}

func TestImportMisbehaviorSubmitsReportableKindsWithIncreasingIndex(t *testing.T) {
	require := require.New(t)
	d, authorities, key := oneShardRoster()
	p, fc := buildProposer(t, d, authorities, key)
	fc.index = 5

	p.ImportMisbehavior([]RoundMisbehavior{
		{Target: authorities[0], Kind: DoublePrepare, Round: 1},
		{Target: authorities[0], Kind: DoubleCommit, Round: 2},
	})

	require.Equal(2, p.pool.Len())

	evaluator := txpool.NewNonceReadiness(fc, p.parentID)
	pending := p.pool.Pending(evaluator)
	require.Len(pending, 2)
	require.Equal(uint64(5), pending[0].Index)
	require.Equal(uint64(6), pending[1].Index)
}
