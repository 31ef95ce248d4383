// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sharedtable

import "github.com/lux-relay/candidate-agreement/types"

// fetchResult carries one fetch goroutine's outcome back to the poller.
type fetchResult[T any] struct {
	value T
	err   error
}

// pendingFetch wraps a single in-flight router fetch as a channel the
// producer can poll without blocking, the Go analogue of a fused future.
// Once resolved it caches the value so repeated polls after completion
// keep returning it instead of a zero value from a drained channel.
type pendingFetch[T any] struct {
	ch    chan fetchResult[T]
	done  bool
	value T
	err   error
}

func startFetch[T any](fn func() (T, error)) *pendingFetch[T] {
	p := &pendingFetch[T]{ch: make(chan fetchResult[T], 1)}
	go func() {
		v, err := fn()
		p.ch <- fetchResult[T]{value: v, err: err}
	}()
	return p
}

// poll reports whether the fetch has completed; on the first completed
// poll it caches the value (or error) so that every subsequent call
// returns the same resolved value instead of selecting on a drained
// channel.
func (p *pendingFetch[T]) poll() (value T, ready bool, err error) {
	if p.done {
		return p.value, true, p.err
	}
	select {
	case r := <-p.ch:
		p.done = true
		p.value = r.value
		p.err = r.err
		return r.value, true, r.err
	default:
		return value, false, nil
	}
}

// Produced is the statement-producer's yield value: up to one validity
// statement (reserved, never populated today) and one availability
// statement, plus the raw fetched payloads.
type Produced struct {
	Validity     *types.Statement
	Availability *types.Statement
	BlockData    types.BlockData
	Extrinsic    types.Extrinsic
}

// Producer lazily fetches a candidate's block data and/or extrinsic data
// and, once both arrive, synthesizes an Available statement. A Producer
// with no candidate digest is inert and yields immediately.
type Producer struct {
	candidateDigest *types.Hash
	fetchBlockData  *pendingFetch[types.BlockData]
	fetchExtrinsic  *pendingFetch[types.Extrinsic]
	produced        Produced
}

// inert returns a Producer that yields an empty value on its first poll,
// used for statements that did not arm any fetch (local statements,
// duplicates, and anything the table dropped).
func inert() *Producer {
	return &Producer{}
}

// arm attaches up to two in-flight fetches to the producer for digest.
func (p *Producer) arm(digest types.Hash, block *pendingFetch[types.BlockData], extrinsic *pendingFetch[types.Extrinsic]) {
	p.candidateDigest = &digest
	p.fetchBlockData = block
	p.fetchExtrinsic = extrinsic
}

// Poll advances the producer by one scheduling step. It returns the
// produced value and whether the producer has finished (ready=true); a
// caller should stop polling once ready is true, having consumed value.
// An error aborts the specific producer but must not be treated as fatal
// to the table.
func (p *Producer) Poll() (value Produced, ready bool, err error) {
	if p.candidateDigest == nil {
		out := p.produced
		p.produced = Produced{}
		return out, true, nil
	}

	done := true

	if p.fetchBlockData != nil {
		v, fetchReady, ferr := p.fetchBlockData.poll()
		if ferr != nil {
			return Produced{}, true, ferr
		}
		if fetchReady {
			p.produced.BlockData = v
		} else {
			done = false
		}
	}

	if p.fetchExtrinsic != nil {
		v, fetchReady, ferr := p.fetchExtrinsic.poll()
		if ferr != nil {
			return Produced{}, true, ferr
		}
		if fetchReady {
			p.produced.Extrinsic = v
		} else {
			done = false
		}
	}

	if !done {
		return Produced{}, false, nil
	}

	out := p.produced
	if out.BlockData != nil && out.Extrinsic != nil {
		avail := types.NewAvailable(*p.candidateDigest)
		out.Availability = &avail
	}
	p.produced = Produced{}
	return out, true, nil
}
