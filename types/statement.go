// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

// Kind tags the four statement variants a validator may sign about a
// candidate.
type Kind uint8

const (
	// Candidate proposes a new candidate. The sender must be a validity
	// guarantor of the receipt's shard.
	Candidate Kind = iota
	// Valid asserts validity of a previously-proposed candidate.
	Valid
	// Invalid asserts invalidity of a previously-proposed candidate.
	Invalid
	// Available asserts that a candidate's data has been fetched and is
	// being retained for availability.
	Available
)

func (k Kind) String() string {
	switch k {
	case Candidate:
		return "Candidate"
	case Valid:
		return "Valid"
	case Invalid:
		return "Invalid"
	case Available:
		return "Available"
	default:
		return "Unknown"
	}
}

// Statement is the tagged-union payload a validator signs. Exactly one of
// Receipt (for Candidate) or Digest (for Valid/Invalid/Available) is
// meaningful, selected by Kind.
type Statement struct {
	Kind    Kind
	Receipt CandidateReceipt // valid only when Kind == Candidate
	Digest  Hash             // valid only when Kind != Candidate
}

// NewCandidate builds a Candidate statement for the given receipt.
func NewCandidate(r CandidateReceipt) Statement {
	return Statement{Kind: Candidate, Receipt: r}
}

// NewValid builds a Valid statement for the given digest.
func NewValid(d Hash) Statement {
	return Statement{Kind: Valid, Digest: d}
}

// NewInvalid builds an Invalid statement for the given digest.
func NewInvalid(d Hash) Statement {
	return Statement{Kind: Invalid, Digest: d}
}

// NewAvailable builds an Available statement for the given digest.
func NewAvailable(d Hash) Statement {
	return Statement{Kind: Available, Digest: d}
}

// TargetDigest returns the digest a statement concerns: the receipt's hash
// for a Candidate statement, or the carried Digest otherwise.
func (s Statement) TargetDigest() Hash {
	if s.Kind == Candidate {
		return HashReceipt(s.Receipt)
	}
	return s.Digest
}

// SignedStatement pairs a Statement with the sender's identity and the
// detached signature over encode(statement) || parent_hash.
type SignedStatement struct {
	Statement Statement
	Sender    AuthorityId
	Signature [64]byte
}
