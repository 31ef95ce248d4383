// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package router defines the TableRouter contract the peer-to-peer
// transport layer must implement. The transport itself lives elsewhere;
// this package only specifies the interface the shared table and its
// statement producers consume.
package router

import (
	"context"

	"github.com/lux-relay/candidate-agreement/types"
)

// TableRouter is the handle the shared table uses to publish locally-known
// candidate data and to fetch data for candidates proposed by others.
type TableRouter interface {
	// LocalCandidateData fire-and-forget publishes the local node's own
	// candidate data to the network.
	LocalCandidateData(hash types.Hash, blockData types.BlockData, extrinsic types.Extrinsic)

	// FetchBlockData fetches the block body for a candidate receipt.
	FetchBlockData(ctx context.Context, receipt types.CandidateReceipt) (types.BlockData, error)

	// FetchExtrinsicData fetches the outgoing-message payload for a
	// candidate receipt.
	FetchExtrinsicData(ctx context.Context, receipt types.CandidateReceipt) (types.Extrinsic, error)
}

// Network is a long-lived handle that instantiates a TableRouter bound to
// a particular shared table instance (one per slot).
type Network interface {
	TableRouter(table interface{}) TableRouter
}
