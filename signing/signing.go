// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package signing implements the statement signature contract: Ed25519
// detached signatures over encode(statement) || parent_hash. Signature
// primitives are an external collaborator's concern in the wider system;
// this package is the stdlib crypto/ed25519 stand-in for that
// collaborator rather than a domain component in its own right.
package signing

import (
	"crypto/ed25519"
	"errors"

	"github.com/lux-relay/candidate-agreement/codec"
	"github.com/lux-relay/candidate-agreement/types"
)

// ErrInvalidSignature is returned when a signature fails verification.
var ErrInvalidSignature = errors.New("invalid statement signature")

// Key wraps an Ed25519 keypair used to sign statements.
type Key struct {
	public  ed25519.PublicKey
	private ed25519.PrivateKey
}

// GenerateKey creates a fresh signing key.
func GenerateKey() (*Key, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, err
	}
	return &Key{public: pub, private: priv}, nil
}

// NewKeyFromSeed deterministically derives a key from a 32-byte seed, for
// tests and fixtures.
func NewKeyFromSeed(seed [32]byte) *Key {
	priv := ed25519.NewKeyFromSeed(seed[:])
	return &Key{public: priv.Public().(ed25519.PublicKey), private: priv}
}

// AuthorityId returns the public key as an AuthorityId.
func (k *Key) AuthorityId() types.AuthorityId {
	var id types.AuthorityId
	copy(id[:], k.public)
	return id
}

// SignStatement signs a statement bound to parentHash, returning the fully
// signed statement ready for import.
func (k *Key) SignStatement(statement types.Statement, parentHash types.Hash) types.SignedStatement {
	payload := codec.SigningPayload(statement, parentHash)
	sig := ed25519.Sign(k.private, payload)

	var signed types.SignedStatement
	signed.Statement = statement
	signed.Sender = k.AuthorityId()
	copy(signed.Signature[:], sig)
	return signed
}

// Verify checks a signed statement's signature against its claimed sender
// and the given parent hash.
func Verify(signed types.SignedStatement, parentHash types.Hash) bool {
	payload := codec.SigningPayload(signed.Statement, parentHash)
	return ed25519.Verify(ed25519.PublicKey(signed.Sender[:]), payload, signed.Signature[:])
}
