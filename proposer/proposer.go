// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package proposer implements the state machine that turns a relay-chain
// parent block into a new proposal: waiting on the dynamic-inclusion
// timer, publishing the local shard candidate, baking a block from the
// transaction pool, and evaluating proposals from other validators.
package proposer

import (
	"context"
	"time"

	"github.com/lux-relay/candidate-agreement/client"
	"github.com/lux-relay/candidate-agreement/collation"
	"github.com/lux-relay/candidate-agreement/config"
	"github.com/lux-relay/candidate-agreement/duty"
	"github.com/lux-relay/candidate-agreement/inclusion"
	"github.com/lux-relay/candidate-agreement/log"
	"github.com/lux-relay/candidate-agreement/metrics"
	"github.com/lux-relay/candidate-agreement/networking/router"
	"github.com/lux-relay/candidate-agreement/sharedtable"
	"github.com/lux-relay/candidate-agreement/signing"
	"github.com/lux-relay/candidate-agreement/tablecontext"
	"github.com/lux-relay/candidate-agreement/txpool"
	"github.com/lux-relay/candidate-agreement/types"
)

// Proposer drives one relay-chain slot from parent block to baked
// proposal.
type Proposer struct {
	parentHash   types.Hash
	parentNumber uint64
	parentID     client.CheckedID

	client    client.Client
	localKey  *signing.Key
	pool      *txpool.Pool
	collators collation.Collators

	dynamicInclusion *inclusion.DynamicInclusion
	table            *sharedtable.SharedTable
	router           router.TableRouter
	ctx              *tablecontext.Context
	params           config.Parameters

	collationFetch *collation.Fetch
	collationDone  bool

	log     log.Logger
	metrics *metrics.Metrics
}

// SetMetrics wires m into the proposer and its shared table. Passing nil
// disables instrumentation, the default.
func (p *Proposer) SetMetrics(m *metrics.Metrics) *Proposer {
	p.metrics = m
	p.table.SetMetrics(m)
	return p
}

// Init resolves parentHeader against the client and assembles a Proposer
// ready to produce or evaluate proposals for the next slot.
func Init(
	c client.Client,
	network router.Network,
	pool *txpool.Pool,
	collators collation.Collators,
	parentHeader client.Header,
	authorities []types.AuthorityId,
	key *signing.Key,
	params config.Parameters,
	logger log.Logger,
) (*Proposer, error) {
	if logger == nil {
		logger = log.NewNoOp()
	}

	parentHash := client.HashHeader(parentHeader)

	checkedID, err := c.CheckID(parentHash)
	if err != nil {
		return nil, ErrUnknownParent
	}

	dutyRoster, err := c.DutyRoster(checkedID)
	if err != nil {
		return nil, &ClientError{Err: err}
	}

	groups, err := duty.DeriveGroupInfo(dutyRoster, authorities)
	if err != nil {
		return nil, err // *duty.InvalidDutyRosterLengthError
	}

	ctx := tablecontext.New(parentHash, key, groups)
	table := sharedtable.New(ctx)
	rtr := network.TableRouter(table)

	dynamicInclusion := inclusion.New(len(groups), time.Now(), params.ParachainEmptyDuration)

	return &Proposer{
		parentHash:       parentHash,
		parentNumber:     parentHeader.Number,
		parentID:         checkedID,
		client:           c,
		localKey:         key,
		pool:             pool,
		collators:        collators,
		dynamicInclusion: dynamicInclusion,
		table:            table,
		router:           rtr,
		ctx:              ctx,
		params:           params,
		log:              logger,
	}, nil
}

// pollInterval is how often Propose rechecks the collation fetch and the
// dynamic-inclusion deadline while waiting.
const pollInterval = 10 * time.Millisecond

// Propose drives the proposer until a block can be baked, then bakes and
// returns it. It blocks the calling goroutine; cancel ctx to abandon
// the slot.
func (p *Proposer) Propose(ctx context.Context) (*client.Block, error) {
	p.startCollationOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		p.pollCollation()

		shardsFilled := len(p.table.ShardsWithCandidate())
		if p.metrics != nil {
			p.metrics.ShardsFilled.Set(float64(shardsFilled))
		}
		if !time.Now().Before(p.dynamicInclusion.EarliestBake(shardsFilled)) {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}

	return p.bake()
}

func (p *Proposer) startCollationOnce(ctx context.Context) {
	if p.collationFetch != nil || p.collationDone {
		return
	}
	shard, ok := p.ctx.ParaOf(p.ctx.LocalID())
	if !ok {
		// Not assigned to any shard this slot: no local candidate to fetch.
		p.collationDone = true
		return
	}
	p.collationFetch = collation.NewFetch(ctx, p.collators, shard, p.parentHash)
}

func (p *Proposer) pollCollation() {
	if p.collationFetch == nil {
		return
	}

	c, ready, err := p.collationFetch.Poll()
	if !ready {
		return
	}
	p.collationFetch = nil
	p.collationDone = true

	if err != nil {
		p.log.Warn("collation fetch failed, proceeding without a local candidate")
		return
	}

	digest := types.HashReceipt(c.Receipt)
	p.router.LocalCandidateData(digest, c.BlockData, c.Extrinsic)
	p.table.SignAndImport(types.NewCandidate(c.Receipt))
}

// bake builds a block from the transaction pool up to the size limit.
func (p *Proposer) bake() (*client.Block, error) {
	start := time.Now()
	builder, err := p.client.BuildBlock(p.parentID, start.Unix())
	if err != nil {
		return nil, &ClientError{Err: err}
	}

	p.pool.Lock()
	defer p.pool.Unlock()

	evaluator := txpool.NewNonceReadiness(p.client, p.parentID)
	pending := p.pool.PendingLocked(evaluator)

	var culled []types.Hash
	pendingSize := 0

	for _, tx := range pending {
		size := tx.EncodedSize()
		if size > config.MaxTransactionsSize {
			culled = append(culled, tx.Hash)
			continue
		}
		if pendingSize+size >= config.MaxTransactionsSize {
			break
		}
		if err := builder.PushExtrinsic(tx.Extrinsic); err != nil {
			culled = append(culled, tx.Hash)
			continue
		}
		pendingSize += size
	}

	for _, h := range culled {
		p.pool.RemoveLocked(h)
	}

	block := builder.Bake()
	if p.metrics != nil {
		p.metrics.ProposalsBaked.Inc()
		p.metrics.BakeDuration.Observe(time.Since(start).Seconds())
	}
	return &block, nil
}

// Evaluate checks a proposal against the protocol's structural bounds and
// delegates full execution to the client.
func (p *Proposer) Evaluate(encoded []byte) (bool, error) {
	ok, err := p.evaluate(encoded)
	if p.metrics != nil {
		outcome := "accept"
		if !ok {
			outcome = "reject"
		}
		p.metrics.ProposalsEvaluated.WithLabelValues(outcome).Inc()
	}
	return ok, err
}

func (p *Proposer) evaluate(encoded []byte) (bool, error) {
	block, err := client.DecodeBlock(encoded)
	if err != nil {
		return false, ErrInvalidProposalFormat
	}

	size := 0
	for _, ext := range block.Extrinsics {
		size += len(ext)
	}
	if size > config.MaxTransactionsSize {
		return false, &ProposalTooLargeError{Size: size}
	}

	if block.Header.ParentHash != p.parentHash {
		return false, &WrongParentHashError{Expected: p.parentHash, Actual: block.Header.ParentHash}
	}

	now := time.Now().Unix()
	if block.Header.Timestamp > now+int64(config.MaxTimestampDrift/time.Second) {
		return false, ErrTimestampInFuture
	}

	if err := p.client.EvaluateBlock(p.parentID, block); err != nil {
		return false, &ClientError{Err: err}
	}
	return true, nil
}
