// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package duty derives per-shard GroupInfo from a duty roster and the
// ordered authority list. The derivation is pure and deterministic.
package duty

import (
	"errors"
	"fmt"

	"github.com/lux-relay/candidate-agreement/quorum"
	"github.com/lux-relay/candidate-agreement/types"
)

// ErrInvalidDutyRosterLength is returned when either duty array's length
// does not match the authority list's length.
var ErrInvalidDutyRosterLength = errors.New("invalid duty roster length")

// InvalidDutyRosterLengthError carries the expected and actual lengths for
// callers that want structured detail.
type InvalidDutyRosterLengthError struct {
	Expected int
	Actual   int
}

func (e *InvalidDutyRosterLengthError) Error() string {
	return fmt.Sprintf("invalid duty roster length: expected %d, got %d", e.Expected, e.Actual)
}

func (e *InvalidDutyRosterLengthError) Unwrap() error { return ErrInvalidDutyRosterLength }

// DeriveGroupInfo maps a DutyRoster plus the ordered authority list onto
// per-shard GroupInfo. Relay assignments contribute nothing; every index i
// with a Parachain(p) validator duty adds authorities[i] to p's validity
// guarantors, and symmetrically for guarantor duty and availability
// guarantors.
func DeriveGroupInfo(roster types.DutyRoster, authorities []types.AuthorityId) (map[types.ParaId]*types.GroupInfo, error) {
	if len(roster.ValidatorDuty) != len(authorities) {
		return nil, &InvalidDutyRosterLengthError{Expected: len(authorities), Actual: len(roster.ValidatorDuty)}
	}
	if len(roster.GuarantorDuty) != len(authorities) {
		return nil, &InvalidDutyRosterLengthError{Expected: len(authorities), Actual: len(roster.GuarantorDuty)}
	}

	groups := make(map[types.ParaId]*types.GroupInfo)
	groupFor := func(p types.ParaId) *types.GroupInfo {
		g, ok := groups[p]
		if !ok {
			g = types.NewGroupInfo()
			groups[p] = g
		}
		return g
	}

	for i, authority := range authorities {
		if d := roster.ValidatorDuty[i]; d.Kind == types.DutyParachain {
			groupFor(d.Para).ValidityGuarantors.Add(authority)
		}
		if d := roster.GuarantorDuty[i]; d.Kind == types.DutyParachain {
			groupFor(d.Para).AvailabilityGuarantors.Add(authority)
		}
	}

	for _, g := range groups {
		g.NeededValidity = quorum.Ceil(len(g.ValidityGuarantors))
		g.NeededAvailability = quorum.Ceil(len(g.AvailabilityGuarantors))
	}

	return groups, nil
}
