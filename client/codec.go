// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import "github.com/lux-relay/candidate-agreement/codec"

// EncodeBlock serializes a Block for network transmission.
func EncodeBlock(b Block) ([]byte, error) {
	return codec.Codec.Marshal(codec.CurrentVersion, b)
}

// DecodeBlock deserializes a Block, the Go analogue of the original's
// re-decode step into the relay-chain's own block type. It fails when data
// is not valid JSON or a field has the wrong JSON type; JSON with missing
// or unknown fields still decodes.
func DecodeBlock(data []byte) (Block, error) {
	var b Block
	if _, err := codec.Codec.Unmarshal(data, &b); err != nil {
		return Block{}, err
	}
	return b, nil
}
