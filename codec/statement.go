// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/binary"

	"github.com/lux-relay/candidate-agreement/types"
)

// EncodeStatement produces a deterministic wire encoding of a statement.
// It is deliberately a flat tag+fields layout rather than the general
// JSONCodec above: statement encodings are signed and verified byte-for-byte,
// so they must be canonical and stable across versions of this package.
func EncodeStatement(s types.Statement) []byte {
	switch s.Kind {
	case types.Candidate:
		r := s.Receipt
		buf := make([]byte, 0, 1+4+32+32+32+len(r.HeadData)+4)
		buf = append(buf, byte(s.Kind))
		var paraBuf [4]byte
		binary.BigEndian.PutUint32(paraBuf[:], uint32(r.ParaId))
		buf = append(buf, paraBuf[:]...)
		buf = append(buf, r.Collator[:]...)
		buf = append(buf, r.RelayParent[:]...)
		buf = append(buf, r.PovBlockHash[:]...)
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(r.HeadData)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, r.HeadData...)
		return buf
	default:
		buf := make([]byte, 0, 1+32)
		buf = append(buf, byte(s.Kind))
		buf = append(buf, s.Digest[:]...)
		return buf
	}
}

// SigningPayload binds an encoded statement to exactly one relay parent: a
// statement's signature covers encode(statement) || parent_hash, so a
// signature from one relay parent can never be replayed against another.
func SigningPayload(s types.Statement, parentHash types.Hash) []byte {
	encoded := EncodeStatement(s)
	payload := make([]byte, 0, len(encoded)+len(parentHash))
	payload = append(payload, encoded...)
	payload = append(payload, parentHash[:]...)
	return payload
}
