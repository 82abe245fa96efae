// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package keypair owns the session's single ed25519 signing keypair.
package keypair

import (
	"crypto/ed25519"
	"fmt"

	"github.com/toeirei/mintmaster/core/security"
	"github.com/toeirei/mintmaster/internal/addr"
	"github.com/toeirei/mintmaster/internal/apperr"
)

const (
	// SeedSize is the length of the private seed.
	SeedSize = ed25519.SeedSize
	// SecretKeySize is the length of the Solana secret key: seed followed by
	// public key.
	SecretKeySize = ed25519.PrivateKeySize
)

// Keypair is a Solana signing keypair. The secret half stays inside a
// security.Secret and is never printed.
type Keypair struct {
	public addr.Address
	secret security.Secret
}

// FromSeed derives the keypair for a 32-byte seed.
func FromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: seed must be %d bytes, got %d", apperr.ErrInvalidKeyFormat, SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	defer security.Wipe(priv)
	return &Keypair{
		public: addr.FromBytes(priv[SeedSize:]),
		secret: security.FromBytes(priv),
	}, nil
}

// FromSecretKey validates a 64-byte secret key. The trailing 32 bytes must
// be the public key derived from the leading seed.
func FromSecretKey(b []byte) (*Keypair, error) {
	if len(b) != SecretKeySize {
		return nil, fmt.Errorf("%w: secret key must be %d bytes, got %d", apperr.ErrInvalidKeyFormat, SecretKeySize, len(b))
	}
	kp, err := FromSeed(b[:SeedSize])
	if err != nil {
		return nil, err
	}
	if !security.Secret(kp.public[:]).Equal(security.Secret(b[SeedSize:])) {
		kp.Zero()
		return nil, fmt.Errorf("%w: public key does not match seed", apperr.ErrInvalidKeyFormat)
	}
	return kp, nil
}

// ParseSecretKey decodes a base-58 secret key.
func ParseSecretKey(encoded string) (*Keypair, error) {
	raw, err := addr.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidKeyFormat, err)
	}
	defer security.Wipe(raw)
	return FromSecretKey(raw)
}

// PublicKey returns the public key.
func (k *Keypair) PublicKey() addr.Address { return k.public }

// PublicKeyBase58 returns the base-58 public key.
func (k *Keypair) PublicKeyBase58() string { return k.public.String() }

// SecretKeyBase58 encodes the full 64-byte secret key. Only the reveal view
// and the store see this value.
func (k *Keypair) SecretKeyBase58() string {
	var out string
	_ = k.secret.Use(func(b []byte) error {
		out = addr.Encode(b)
		return nil
	})
	return out
}

// UseSecret runs fn with the raw 64-byte secret key. fn must not retain it.
func (k *Keypair) UseSecret(fn func([]byte) error) error {
	if k.IsZero() {
		return apperr.ErrNoKeypair
	}
	return k.secret.Use(fn)
}

// Sign signs msg with the secret key.
func (k *Keypair) Sign(msg []byte) []byte {
	var sig []byte
	_ = k.secret.Use(func(b []byte) error {
		sig = ed25519.Sign(ed25519.PrivateKey(b), msg)
		return nil
	})
	return sig
}

// IsZero reports whether the keypair was erased.
func (k *Keypair) IsZero() bool { return k == nil || k.secret.IsZero() }

// Zero wipes the secret key.
func (k *Keypair) Zero() {
	if k == nil {
		return
	}
	k.secret.Zero()
}

// String prints the public key only.
func (k *Keypair) String() string { return k.public.String() }
