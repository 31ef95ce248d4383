// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package tablecontext binds a signing key and a slot's group assignments
// into the authorization oracle the statement table consults on every
// import.
package tablecontext

import (
	"math"

	"github.com/lux-relay/candidate-agreement/signing"
	"github.com/lux-relay/candidate-agreement/types"
)

// Context is the per-slot authorization and signing authority handed to the
// statement table. It never mutates after construction.
type Context struct {
	ParentHash types.Hash
	Key        *signing.Key
	Groups     map[types.ParaId]*types.GroupInfo
}

// New builds a Context for one slot.
func New(parentHash types.Hash, key *signing.Key, groups map[types.ParaId]*types.GroupInfo) *Context {
	return &Context{ParentHash: parentHash, Key: key, Groups: groups}
}

// LocalID returns the local validator's authority id.
func (c *Context) LocalID() types.AuthorityId {
	return c.Key.AuthorityId()
}

// IsMemberOf reports whether authority is a validity guarantor of group.
func (c *Context) IsMemberOf(authority types.AuthorityId, group types.ParaId) bool {
	g, ok := c.Groups[group]
	if !ok {
		return false
	}
	return g.IsValidityGuarantor(authority)
}

// IsAvailabilityGuarantorOf reports whether authority is an availability
// guarantor of group.
func (c *Context) IsAvailabilityGuarantorOf(authority types.AuthorityId, group types.ParaId) bool {
	g, ok := c.Groups[group]
	if !ok {
		return false
	}
	return g.IsAvailabilityGuarantor(authority)
}

// RequisiteVotes returns the (validity, availability) quorum thresholds for
// group. An unrecognized group can never reach quorum, so both values are
// the maximum possible count.
func (c *Context) RequisiteVotes(group types.ParaId) (int, int) {
	g, ok := c.Groups[group]
	if !ok {
		return math.MaxInt, math.MaxInt
	}
	return g.NeededValidity, g.NeededAvailability
}

// SignStatement signs statement against the context's parent hash and
// returns it ready for import into the statement table.
func (c *Context) SignStatement(statement types.Statement) types.SignedStatement {
	return c.Key.SignStatement(statement, c.ParentHash)
}

// IsKnownAuthority reports whether authority holds any validity or
// availability role in any group of this slot. The statement table consults
// this to decide whether an unverifiable statement is worth recording as
// UnauthorizedStatement misbehavior, or is from a stranger and safe to drop
// silently.
func (c *Context) IsKnownAuthority(authority types.AuthorityId) bool {
	for _, g := range c.Groups {
		if g.IsValidityGuarantor(authority) || g.IsAvailabilityGuarantor(authority) {
			return true
		}
	}
	return false
}

// ParaOf returns the shard authority is a validity guarantor of, if any.
// If authority guards several shards, which one is returned is not defined.
// Used to authorize Valid/Invalid votes on a digest whose candidate has not
// yet arrived: such a vote is attributed to the sender's own shard, and it
// is not re-checked against the candidate's shard once that becomes known.
func (c *Context) ParaOf(authority types.AuthorityId) (types.ParaId, bool) {
	for p, g := range c.Groups {
		if g.IsValidityGuarantor(authority) {
			return p, true
		}
	}
	return 0, false
}

// AvailabilityParaOf returns the shard authority is an availability
// guarantor of, if any. Used as ParaOf's counterpart to authorize an
// Available vote on a digest whose candidate has not yet arrived: an
// availability-only guarantor is never a member of ParaOf's validity set,
// so the Available import path must resolve the sender's shard through
// this method instead.
func (c *Context) AvailabilityParaOf(authority types.AuthorityId) (types.ParaId, bool) {
	for p, g := range c.Groups {
		if g.IsAvailabilityGuarantor(authority) {
			return p, true
		}
	}
	return 0, false
}
