// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package store persists the session as a small string key/value map.
// Backends are selected by type; every durable backend that cannot protect
// the secret on its own is wrapped by Sealed.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Persisted keys.
const (
	KeyPublicKey    = "publicKey"
	KeySecretKey    = "secretKey"
	KeyWalletList   = "walletList" // legacy, only ever cleared
	KeyMintList     = "mintList"
	KeySelectedMint = "selectedMint"
)

// Backend types accepted by Open.
const (
	TypeMemory        = "memory"
	TypeSQLite        = "sqlite"
	TypePostgres      = "postgres"
	TypeMySQL         = "mysql"
	TypeRedis         = "redis"
	TypeSecretManager = "secretmanager"
)

var (
	// ErrNotFound is returned by Get when the key is absent.
	ErrNotFound = errors.New("store: key not found")

	// ErrPassphraseRequired is returned by Open when a durable backend would
	// hold the secret without a sealing passphrase.
	ErrPassphraseRequired = errors.New("store: a passphrase is required to persist the secret key")

	// ErrUnsupportedType is returned by Open for unknown backend types.
	ErrUnsupportedType = errors.New("store: unsupported type")
)

// Store is the persistence port used by the keypair manager and the session.
type Store interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// SetMany writes all pairs. Backends apply the write atomically where
	// the engine allows it.
	SetMany(ctx context.Context, kv map[string]string) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Close releases connections.
	Close() error
}

// Set writes a single pair.
func Set(ctx context.Context, s Store, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

// Options configures Open.
type Options struct {
	Type            string
	DSN             string
	Passphrase      []byte
	CredentialsFile string
}

// NeedsPassphrase reports whether backend type t must be sealed.
func NeedsPassphrase(t string) bool {
	switch normalizeType(t) {
	case TypeSQLite, TypePostgres, TypeMySQL, TypeRedis:
		return true
	default:
		return false
	}
}

// Open creates the backend described by opts, sealing the secret key where
// NeedsPassphrase says so.
func Open(ctx context.Context, opts Options) (Store, error) {
	t := normalizeType(opts.Type)
	if NeedsPassphrase(t) && len(opts.Passphrase) == 0 {
		return nil, ErrPassphraseRequired
	}

	var (
		s   Store
		err error
	)
	switch t {
	case TypeMemory:
		return NewMemory(), nil
	case TypeSQLite, TypePostgres, TypeMySQL:
		s, err = OpenSQL(ctx, t, opts.DSN)
	case TypeRedis:
		s, err = OpenRedis(ctx, opts.DSN)
	case TypeSecretManager:
		return OpenSecretManager(ctx, opts.DSN, opts.CredentialsFile)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, opts.Type)
	}
	if err != nil {
		return nil, err
	}
	return NewSealed(s, opts.Passphrase), nil
}

func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	switch t {
	case "postgresql", "pg":
		return TypePostgres
	case "sqlite3":
		return TypeSQLite
	case "gcp-secretmanager", "secret-manager":
		return TypeSecretManager
	}
	return t
}
