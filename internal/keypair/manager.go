// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package keypair

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/toeirei/mintmaster/core/security"
	"github.com/toeirei/mintmaster/internal/logging"
	"github.com/toeirei/mintmaster/internal/store"
)

// ErrCorruptStore is returned when the persisted keypair cannot be restored.
var ErrCorruptStore = errors.New("persisted keypair is corrupt")

// EraseHook runs after the keypair has been erased.
type EraseHook func(ctx context.Context) error

// Manager generates, imports, restores and erases the session keypair.
type Manager struct {
	store store.Store
	rand  io.Reader

	mu      sync.Mutex
	current *Keypair
	loaded  bool
	onErase []EraseHook
}

// Option configures a Manager.
type Option func(*Manager)

// WithRandom replaces crypto/rand as the seed source.
func WithRandom(r io.Reader) Option {
	return func(m *Manager) { m.rand = r }
}

// NewManager creates a Manager persisting to s.
func NewManager(s store.Store, opts ...Option) *Manager {
	m := &Manager{store: s, rand: rand.Reader}
	for _, o := range opts {
		o(m)
	}
	return m
}

// OnErase registers a dependent cleanup run by Erase.
func (m *Manager) OnErase(h EraseHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onErase = append(m.onErase, h)
}

// Generate draws a fresh seed, persists the keypair and replaces the
// current one.
func (m *Manager) Generate(ctx context.Context) (*Keypair, error) {
	seed := make([]byte, SeedSize)
	defer security.Wipe(seed)
	if _, err := io.ReadFull(m.rand, seed); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	kp, err := FromSeed(seed)
	if err != nil {
		return nil, err
	}
	if err := m.replace(ctx, kp); err != nil {
		return nil, err
	}
	logging.Component("keypair").Info("generated keypair", "public_key", kp.PublicKeyBase58())
	return kp, nil
}

// ImportFromEncoded imports a base-58 64-byte secret key. On failure the
// current keypair and the store are left unchanged.
func (m *Manager) ImportFromEncoded(ctx context.Context, encoded string) (*Keypair, error) {
	kp, err := ParseSecretKey(encoded)
	if err != nil {
		return nil, err
	}
	if err := m.replace(ctx, kp); err != nil {
		return nil, err
	}
	logging.Component("keypair").Info("imported keypair", "public_key", kp.PublicKeyBase58())
	return kp, nil
}

func (m *Manager) replace(ctx context.Context, kp *Keypair) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.store.SetMany(ctx, map[string]string{
		store.KeyPublicKey: kp.PublicKeyBase58(),
		store.KeySecretKey: kp.SecretKeyBase58(),
	})
	if err != nil {
		kp.Zero()
		return fmt.Errorf("persist keypair: %w", err)
	}
	if m.current != nil && m.current != kp {
		m.current.Zero()
	}
	m.current = kp
	m.loaded = true
	return nil
}

// Current returns the active keypair, or nil when there is none. The first
// call restores it from the store.
func (m *Manager) Current(ctx context.Context) (*Keypair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		return m.current, nil
	}
	kp, err := m.restore(ctx)
	if err != nil {
		return nil, err
	}
	m.current = kp
	m.loaded = true
	return kp, nil
}

func (m *Manager) restore(ctx context.Context) (*Keypair, error) {
	secret, err := m.store.Get(ctx, store.KeySecretKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read secret key: %w", err)
	}
	kp, err := ParseSecretKey(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptStore, err)
	}

	pub, err := m.store.Get(ctx, store.KeyPublicKey)
	switch {
	case errors.Is(err, store.ErrNotFound):
		logging.Component("keypair").Warn("public key missing from store; derived from secret key")
	case err != nil:
		kp.Zero()
		return nil, fmt.Errorf("read public key: %w", err)
	case pub != kp.PublicKeyBase58():
		kp.Zero()
		return nil, fmt.Errorf("%w: stored public key does not match secret key", ErrCorruptStore)
	}
	return kp, nil
}

// Erase wipes the keypair, deletes its persisted keys and runs the erase
// hooks. Erasing without a keypair is not an error.
func (m *Manager) Erase(ctx context.Context) error {
	m.mu.Lock()
	if m.current != nil {
		m.current.Zero()
	}
	m.current = nil
	m.loaded = true
	hooks := append([]EraseHook(nil), m.onErase...)
	m.mu.Unlock()

	var errs []error
	if err := m.store.Delete(ctx, store.KeyPublicKey, store.KeySecretKey, store.KeyWalletList); err != nil {
		errs = append(errs, fmt.Errorf("delete keypair: %w", err))
	}
	for _, h := range hooks {
		if err := h(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		logging.Component("keypair").Info("keypair erased")
	}
	return errors.Join(errs...)
}

// HasKeypair reports whether a keypair is active.
func (m *Manager) HasKeypair(ctx context.Context) bool {
	kp, err := m.Current(ctx)
	return err == nil && kp != nil
}
