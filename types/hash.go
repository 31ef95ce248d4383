// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"crypto/sha256"
	"encoding/binary"
)

// HashReceipt computes the candidate digest of a receipt. Receipt hashing
// and statement serialization are primitive concerns owned by the chain's
// codec/signature layer, which lives outside this core; a raw SHA-256
// over a deterministic field encoding is the stdlib stand-in for that
// external collaborator.
func HashReceipt(r CandidateReceipt) Hash {
	h := sha256.New()
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(r.ParaId))
	h.Write(buf[:])
	h.Write(r.Collator[:])
	h.Write(r.RelayParent[:])
	h.Write(r.HeadData)
	h.Write(r.PovBlockHash[:])
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}
