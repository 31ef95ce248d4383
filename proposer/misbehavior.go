// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package proposer

import (
	"github.com/lux-relay/candidate-agreement/txpool"
	"github.com/lux-relay/candidate-agreement/types"
)

// RoundMisbehaviorKind tags the variety of consensus-round misbehavior the
// underlying round-based agreement protocol can hand up to the proposer.
// Not every kind produces an on-chain report: out-of-turn proposals and
// double-proposals at the round level are observable locally but carry no
// portable signed evidence worth broadcasting, so they are ignored.
type RoundMisbehaviorKind uint8

const (
	ProposeOutOfTurn RoundMisbehaviorKind = iota
	DoublePropose
	DoublePrepare
	DoubleCommit
)

// SignedRoundMessage is one of the two conflicting messages backing a
// DoublePrepare or DoubleCommit report.
type SignedRoundMessage struct {
	Hash      types.Hash
	Signature [64]byte
}

// RoundMisbehavior is one piece of evidence the round-based agreement
// protocol surfaces about a target authority.
type RoundMisbehavior struct {
	Target types.AuthorityId
	Kind   RoundMisbehaviorKind
	Round  uint32
	First  SignedRoundMessage
	Second SignedRoundMessage
}

// reportable reports whether kind produces an on-chain misbehavior report.
func (k RoundMisbehaviorKind) reportable() bool {
	return k == DoublePrepare || k == DoubleCommit
}

// ImportMisbehavior turns reportable round-level misbehavior into signed
// extrinsics and submits them to the transaction pool, assigning each one
// the local signer's next free index under a single pool lock acquisition
// (mirroring the original consensus loop's batch submission).
func (p *Proposer) ImportMisbehavior(reports []RoundMisbehavior) {
	p.pool.Lock()
	defer p.pool.Unlock()

	localID := p.ctx.LocalID()

	evaluator := txpool.NewNonceReadiness(p.client, p.parentID)
	nextIndex, err := p.nextLocalIndex(evaluator, localID)
	if err != nil {
		p.log.Warn("could not compute next transaction index for misbehavior report")
		return
	}

	for _, report := range reports {
		if !report.Kind.reportable() {
			continue
		}

		tx := txpool.Transaction{
			Signed:    localID,
			Index:     nextIndex,
			Extrinsic: encodeMisbehaviorReport(p.parentHash, p.parentNumber, report),
		}
		tx.Hash = types.HashReceipt(types.CandidateReceipt{HeadData: tx.Extrinsic})
		nextIndex++

		p.pool.ImportLocked(tx)
	}
}

// nextLocalIndex finds the local signer's next free transaction index: one
// past the highest index of its own already-pending transactions, or the
// client's view of the account's current index if none are pending.
func (p *Proposer) nextLocalIndex(evaluator *txpool.NonceReadiness, localID types.AuthorityId) (uint64, error) {
	var highest uint64
	found := false
	for _, tx := range p.pool.PendingLocked(evaluator) {
		if tx.Signed != localID {
			continue
		}
		if !found || tx.Index > highest {
			highest = tx.Index
			found = true
		}
	}
	if found {
		return highest + 1, nil
	}
	return p.client.Index(p.parentID, localID)
}

// encodeMisbehaviorReport is the stdlib stand-in for the runtime call
// encoder that would otherwise serialize a MisbehaviorReport extrinsic;
// the runtime's own call format is outside this core's scope.
func encodeMisbehaviorReport(parentHash types.Hash, parentNumber uint64, report RoundMisbehavior) types.Extrinsic {
	buf := make([]byte, 0, 64)
	buf = append(buf, parentHash[:]...)
	buf = append(buf, byte(parentNumber))
	buf = append(buf, report.Target[:]...)
	buf = append(buf, byte(report.Kind))
	buf = append(buf, report.First.Hash[:]...)
	buf = append(buf, report.Second.Hash[:]...)
	return buf
}
