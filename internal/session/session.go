// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package session wires the keypair manager and the mint orchestrator over
// one store and one ledger client, and journals the mint list so separate
// CLI invocations continue the same session.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/toeirei/mintmaster/internal/config"
	"github.com/toeirei/mintmaster/internal/keypair"
	"github.com/toeirei/mintmaster/internal/ledger"
	"github.com/toeirei/mintmaster/internal/logging"
	"github.com/toeirei/mintmaster/internal/mint"
	"github.com/toeirei/mintmaster/internal/store"
)

// Session is the single-user session.
type Session struct {
	Keys   *keypair.Manager
	Mints  *mint.Orchestrator
	store  store.Store
	ledger ledger.Client
}

// Options tunes New.
type Options struct {
	DecimalsFallback bool
	KeypairOptions   []keypair.Option
}

// New composes a session and restores the keypair and mint journal.
func New(ctx context.Context, st store.Store, l ledger.Client, opts Options) (*Session, error) {
	s := &Session{
		Keys:   keypair.NewManager(st, opts.KeypairOptions...),
		store:  st,
		ledger: l,
	}
	s.Mints = mint.New(l,
		mint.WithDecimalsFallback(opts.DecimalsFallback),
		mint.WithObserver(s.persistJournal),
	)
	s.Keys.OnErase(s.eraseJournal)

	if err := s.restore(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Open builds the store and the ledger client described by cfg.
func Open(ctx context.Context, cfg config.Config) (*Session, error) {
	st, err := store.Open(ctx, store.Options{
		Type:            cfg.Store.Type,
		DSN:             cfg.Store.DSN,
		Passphrase:      []byte(cfg.Store.Passphrase),
		CredentialsFile: cfg.Store.CredentialsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	l, err := ledger.Connect(ctx, ledger.Options{
		Endpoint:   cfg.Cluster.Endpoint,
		Commitment: cfg.Cluster.Commitment,
		Timeout:    cfg.Cluster.Timeout,
	})
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("connect ledger: %w", err)
	}
	s, err := New(ctx, st, l, Options{DecimalsFallback: cfg.Mint.DecimalsFallback})
	if err != nil {
		_ = l.Close()
		_ = st.Close()
		return nil, err
	}
	logging.Component("session").Debug("session opened", "store", cfg.Store.Type, "cluster", cfg.Cluster.Endpoint)
	return s, nil
}

// Keypair returns the active keypair or nil.
func (s *Session) Keypair(ctx context.Context) (*keypair.Keypair, error) {
	return s.Keys.Current(ctx)
}

// Ledger returns the ledger client.
func (s *Session) Ledger() ledger.Client { return s.ledger }

// Close releases the ledger client and the store.
func (s *Session) Close() error {
	return errors.Join(s.ledger.Close(), s.store.Close())
}

func (s *Session) restore(ctx context.Context) error {
	kp, err := s.Keys.Current(ctx)
	if err != nil {
		return fmt.Errorf("restore keypair: %w", err)
	}
	if kp == nil {
		return nil
	}

	raw, err := s.store.Get(ctx, store.KeyMintList)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore mint list: %w", err)
	}
	records, err := mint.UnmarshalRecords(raw)
	if err != nil {
		logging.Component("session").Warn("ignoring unreadable mint journal", "err", err)
		return nil
	}
	selected, err := s.store.Get(ctx, store.KeySelectedMint)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("restore selected mint: %w", err)
	}
	s.Mints.Restore(records, selected)
	return nil
}

func (s *Session) persistJournal(ctx context.Context, snap mint.Snapshot) error {
	list, err := mint.MarshalRecords(snap.Records)
	if err != nil {
		return err
	}
	return s.store.SetMany(ctx, map[string]string{
		store.KeyMintList:     list,
		store.KeySelectedMint: snap.Selected,
	})
}

func (s *Session) eraseJournal(ctx context.Context) error {
	s.Mints.Reset()
	if err := s.store.Delete(ctx, store.KeyMintList, store.KeySelectedMint); err != nil {
		return fmt.Errorf("delete mint journal: %w", err)
	}
	return nil
}
