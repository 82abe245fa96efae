// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/toeirei/mintmaster/core/security"
	"github.com/toeirei/mintmaster/internal/logging"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	sealPrefix = "sealed:v1:"
	saltSize   = 16
	nonceSize  = 24
	keySize    = 32
)

// scrypt cost parameters. Tests lower scryptN.
var (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var (
	// ErrSealBroken means a sealed value could not be opened, usually because
	// the passphrase is wrong.
	ErrSealBroken = errors.New("store: sealed value cannot be opened (wrong passphrase?)")

	errSealTruncated = errors.New("store: sealed value is truncated")
)

// Sealed encrypts selected keys before they reach the wrapped store.
type Sealed struct {
	inner      Store
	passphrase security.Secret
	sealed     map[string]bool
	rand       io.Reader
}

// NewSealed wraps inner. Only the listed keys are encrypted; with none
// given, KeySecretKey is.
func NewSealed(inner Store, passphrase []byte, keys ...string) *Sealed {
	if len(keys) == 0 {
		keys = []string{KeySecretKey}
	}
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return &Sealed{
		inner:      inner,
		passphrase: security.FromBytes(passphrase),
		sealed:     m,
		rand:       rand.Reader,
	}
}

// Get reads key, opening it when it is sealed. A plaintext value under a
// sealed key predates sealing; it is returned with a warning.
func (s *Sealed) Get(ctx context.Context, key string) (string, error) {
	v, err := s.inner.Get(ctx, key)
	if err != nil || !s.sealed[key] {
		return v, err
	}
	if !strings.HasPrefix(v, sealPrefix) {
		logging.Component("store").Warn("legacy plaintext value found; it is sealed on the next write", "key", key)
		return v, nil
	}
	plain, err := s.open(strings.TrimPrefix(v, sealPrefix))
	if err != nil {
		return "", err
	}
	defer security.Wipe(plain)
	return string(plain), nil
}

// SetMany seals the configured keys and forwards the batch.
func (s *Sealed) SetMany(ctx context.Context, kv map[string]string) error {
	out := make(map[string]string, len(kv))
	for k, v := range kv {
		if !s.sealed[k] {
			out[k] = v
			continue
		}
		sv, err := s.seal([]byte(v))
		if err != nil {
			return err
		}
		out[k] = sv
	}
	return s.inner.SetMany(ctx, out)
}

// Delete forwards to the wrapped store.
func (s *Sealed) Delete(ctx context.Context, keys ...string) error {
	return s.inner.Delete(ctx, keys...)
}

// Close wipes the passphrase and closes the wrapped store.
func (s *Sealed) Close() error {
	s.passphrase.Zero()
	return s.inner.Close()
}

func (s *Sealed) deriveKey(salt []byte) (*[keySize]byte, error) {
	var key [keySize]byte
	err := s.passphrase.Use(func(p []byte) error {
		k, err := scrypt.Key(p, salt, scryptN, scryptR, scryptP, keySize)
		if err != nil {
			return err
		}
		copy(key[:], k)
		security.Wipe(k)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: derive sealing key: %w", err)
	}
	return &key, nil
}

func (s *Sealed) seal(plain []byte) (string, error) {
	buf := make([]byte, saltSize+nonceSize)
	if _, err := io.ReadFull(s.rand, buf); err != nil {
		return "", fmt.Errorf("store: read random: %w", err)
	}
	key, err := s.deriveKey(buf[:saltSize])
	if err != nil {
		return "", err
	}
	defer security.Wipe(key[:])

	var nonce [nonceSize]byte
	copy(nonce[:], buf[saltSize:])
	out := secretbox.Seal(buf, plain, &nonce, key)
	return sealPrefix + base58.Encode(out), nil
}

func (s *Sealed) open(encoded string) ([]byte, error) {
	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSealBroken, err)
	}
	if len(raw) < saltSize+nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("%w: %v", ErrSealBroken, errSealTruncated)
	}
	key, err := s.deriveKey(raw[:saltSize])
	if err != nil {
		return nil, err
	}
	defer security.Wipe(key[:])

	var nonce [nonceSize]byte
	copy(nonce[:], raw[saltSize:saltSize+nonceSize])
	plain, ok := secretbox.Open(nil, raw[saltSize+nonceSize:], &nonce, key)
	if !ok {
		return nil, ErrSealBroken
	}
	return plain, nil
}
