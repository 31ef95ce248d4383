// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package types defines the primitive data model shared across the
// candidate agreement core: identifiers, receipts, and the four-case
// statement tagged-union that the statement table operates on.
package types

import (
	"encoding/hex"

	"github.com/luxfi/ids"
)

// Hash is a 32-byte content hash. It doubles as a candidate digest.
type Hash = ids.ID

// ParaId is an opaque shard identifier with a total ordering.
type ParaId uint32

// AuthorityId is the 32-byte Ed25519 public key identifying a validator.
// Unlike Hash it is not an opaque handle: the raw bytes are the signer's
// public key and must round-trip through signature verification.
type AuthorityId [32]byte

// String renders the authority id as hex, matching the teacher's id types.
func (a AuthorityId) String() string {
	return hex.EncodeToString(a[:])
}

// Bytes returns the underlying public key bytes.
func (a AuthorityId) Bytes() []byte {
	return a[:]
}

// BlockData is an opaque byte payload: the shard block body.
type BlockData []byte

// Extrinsic is an opaque byte payload: shard outgoing messages kept available.
type Extrinsic []byte

// CandidateReceipt is the shard-produced header-like record whose hash is
// the candidate digest.
type CandidateReceipt struct {
	ParaId       ParaId `json:"para_id"`
	Collator     AuthorityId `json:"collator"`
	RelayParent  Hash   `json:"relay_parent"`
	HeadData     []byte `json:"head_data"`
	PovBlockHash Hash   `json:"pov_block_hash"`
}

// DutyKind tags a validator's per-slot role.
type DutyKind uint8

const (
	// DutyRelay means the validator is not assigned to any shard this slot.
	DutyRelay DutyKind = iota
	// DutyParachain means the validator is assigned to the named shard.
	DutyParachain
)

// Duty is one validator's per-slot assignment: relay, or a specific shard.
type Duty struct {
	Kind DutyKind
	Para ParaId // only meaningful when Kind == DutyParachain
}

// Relay is the zero-value convenience constructor for a relay duty.
func Relay() Duty { return Duty{Kind: DutyRelay} }

// Parachain constructs a duty assigning a validator to shard p.
func Parachain(p ParaId) Duty { return Duty{Kind: DutyParachain, Para: p} }

// DutyRoster is the per-slot assignment of every validator to a shard role,
// indexed in parallel with the ordered authority list.
type DutyRoster struct {
	ValidatorDuty []Duty
	GuarantorDuty []Duty
}
