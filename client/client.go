// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package client defines the relay-chain client contract the proposer
// drives: resolving a parent block, reading its duty roster, building new
// blocks, and evaluating blocks proposed by others.
package client

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/lux-relay/candidate-agreement/types"
)

// CheckedID is an opaque, validated handle to a known relay-chain block,
// produced only by Client.CheckID. Its zero value is never valid.
type CheckedID struct {
	hash types.Hash
}

// Hash returns the block hash this CheckedID was validated against.
func (c CheckedID) Hash() types.Hash { return c.hash }

// NewCheckedID wraps a hash already validated by an external client
// implementation. Only Client.CheckID implementations should call this.
func NewCheckedID(hash types.Hash) CheckedID {
	return CheckedID{hash: hash}
}

// Header is the relay-chain block header the proposer extends.
type Header struct {
	ParentHash types.Hash
	Number     uint64
	Timestamp  int64
}

// HashHeader deterministically hashes a header to produce the parent hash
// the next block's statements are signed against.
func HashHeader(h Header) types.Hash {
	buf := make([]byte, 0, 32+8+8)
	buf = append(buf, h.ParentHash[:]...)
	var numBuf, tsBuf [8]byte
	binary.BigEndian.PutUint64(numBuf[:], h.Number)
	binary.BigEndian.PutUint64(tsBuf[:], uint64(h.Timestamp))
	buf = append(buf, numBuf[:]...)
	buf = append(buf, tsBuf[:]...)
	sum := sha256.Sum256(buf)
	var out types.Hash
	copy(out[:], sum[:])
	return out
}

// Block is a baked relay-chain block: a header plus the transactions and
// shard-candidate inclusions packed into it.
type Block struct {
	Header     Header
	Extrinsics []types.Extrinsic
}

// BlockBuilder incrementally assembles a Block.
type BlockBuilder interface {
	// PushExtrinsic appends an extrinsic, failing if it would make the
	// block invalid under the runtime's rules (not merely oversized;
	// size is the caller's responsibility).
	PushExtrinsic(ext types.Extrinsic) error
	// Bake finalizes and returns the assembled block.
	Bake() Block
}

// Client is the relay-chain runtime and storage access the proposer needs.
type Client interface {
	// CheckID validates blockHash against known chain state.
	CheckID(blockHash types.Hash) (CheckedID, error)
	// DutyRoster returns the per-slot validator assignments as of id.
	DutyRoster(id CheckedID) (types.DutyRoster, error)
	// BuildBlock starts a new block extending id, stamped with timestamp.
	BuildBlock(id CheckedID, timestamp int64) (BlockBuilder, error)
	// EvaluateBlock fully executes proposal against id's state.
	EvaluateBlock(id CheckedID, proposal Block) error
	// Index returns the next expected extrinsic index for authority as of id.
	Index(id CheckedID, authority types.AuthorityId) (uint64, error)
}
