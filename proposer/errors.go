// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package proposer

import (
	"errors"
	"fmt"

	"github.com/lux-relay/candidate-agreement/types"
)

// ErrUnknownParent is returned by Init when the client rejects the parent
// block hash.
var ErrUnknownParent = errors.New("unknown parent block")

// ErrInvalidProposalFormat is returned by Evaluate when a proposal cannot
// be decoded as a block of this chain's own format.
var ErrInvalidProposalFormat = errors.New("proposal is not a well-formed block for this chain")

// ErrTimestampInFuture is returned by Evaluate when a proposal's timestamp
// exceeds the evaluating node's clock plus the allowed drift.
var ErrTimestampInFuture = errors.New("proposal timestamp too far in the future")

// ProposalTooLargeError reports that a proposal's summed extrinsic size
// exceeded MAX_TRANSACTIONS_SIZE.
type ProposalTooLargeError struct {
	Size int
}

func (e *ProposalTooLargeError) Error() string {
	return fmt.Sprintf("proposal too large: %d bytes", e.Size)
}

// WrongParentHashError reports that a proposal's header names a parent
// other than the one this proposer was initialized with.
type WrongParentHashError struct {
	Expected types.Hash
	Actual   types.Hash
}

func (e *WrongParentHashError) Error() string {
	return fmt.Sprintf("wrong parent hash: expected %s, got %s", e.Expected, e.Actual)
}

// ClientError wraps an error surfaced from a Client call.
type ClientError struct {
	Err error
}

func (e *ClientError) Error() string { return fmt.Sprintf("client error: %s", e.Err) }
func (e *ClientError) Unwrap() error { return e.Err }

// FetchError wraps an error surfaced from a router fetch future.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch error: %s", e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }
