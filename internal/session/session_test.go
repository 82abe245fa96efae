// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package session

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toeirei/mintmaster/internal/config"
	"github.com/toeirei/mintmaster/internal/ledger"
	"github.com/toeirei/mintmaster/internal/mint"
	"github.com/toeirei/mintmaster/internal/store"
)

func TestJournalSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	sb := ledger.NewSandbox()

	s, err := New(ctx, st, sb, Options{})
	require.NoError(t, err)
	kp, err := s.Keys.Generate(ctx)
	require.NoError(t, err)
	a, err := s.Mints.CreateMint(ctx, kp, 6, "")
	require.NoError(t, err)
	b, err := s.Mints.CreateMint(ctx, kp, 2, "")
	require.NoError(t, err)
	require.NoError(t, s.Mints.Select(ctx, a.Mint))

	again, err := New(ctx, st, sb, Options{})
	require.NoError(t, err)
	restored, err := again.Keypair(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, kp.PublicKey(), restored.PublicKey())

	recs := again.Mints.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, a.Mint, recs[0].Mint)
	assert.Equal(t, b.Mint, recs[1].Mint)
	assert.Equal(t, a.Mint, again.Mints.Selected())

	res, err := again.Mints.MintTo(ctx, restored, b.Mint, "", decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.Equal(t, uint64(300), res.Raw)
}

func TestEraseClearsEverything(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, store.Set(ctx, st, store.KeyWalletList, "[]"))

	s, err := New(ctx, st, ledger.NewSandbox(), Options{})
	require.NoError(t, err)
	kp, _ := s.Keys.Generate(ctx)
	_, err = s.Mints.CreateMint(ctx, kp, 6, "")
	require.NoError(t, err)
	require.Positive(t, st.Len())

	require.NoError(t, s.Keys.Erase(ctx))
	assert.Equal(t, 0, st.Len(), "erase must remove every persisted key")
	assert.Empty(t, s.Mints.Records())
	assert.Empty(t, s.Mints.Selected())
	assert.True(t, kp.IsZero())

	require.NoError(t, s.Keys.Erase(ctx), "erase is idempotent")
}

func TestEraseWhileCreatePendingDropsMint(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	sb := ledger.NewSandbox()

	s, err := New(ctx, st, sb, Options{})
	require.NoError(t, err)
	kp, err := s.Keys.Generate(ctx)
	require.NoError(t, err)

	entered, release := sb.Hold()
	defer release()
	created := make(chan error, 1)
	go func() {
		_, err := s.Mints.CreateMint(ctx, kp, 6, "")
		created <- err
	}()
	<-entered
	require.NoError(t, s.Keys.Erase(ctx))
	release()

	require.ErrorIs(t, <-created, mint.ErrDiscarded)
	assert.Empty(t, s.Mints.Records())
	assert.Empty(t, s.Mints.Selected())
	assert.Equal(t, 0, st.Len(), "late commit must not rewrite the journal")

	_, err = s.Keys.Generate(ctx)
	require.NoError(t, err)
	again, err := New(ctx, st, sb, Options{})
	require.NoError(t, err)
	assert.Empty(t, again.Mints.Records())
}

func TestJournalIgnoredWithoutKeypair(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, store.Set(ctx, st, store.KeyMintList, `[{"mint":"11111111111111111111111111111111","decimals":0}]`))

	s, err := New(ctx, st, ledger.NewSandbox(), Options{})
	require.NoError(t, err)
	assert.Empty(t, s.Mints.Records())
}

func TestCorruptJournalIsIgnored(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	s, err := New(ctx, st, ledger.NewSandbox(), Options{})
	require.NoError(t, err)
	_, err = s.Keys.Generate(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, st, store.KeyMintList, "{garbage"))

	again, err := New(ctx, st, ledger.NewSandbox(), Options{})
	require.NoError(t, err)
	assert.Empty(t, again.Mints.Records())
}

func TestCorruptKeypairFailsStartup(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, store.Set(ctx, st, store.KeySecretKey, "broken"))
	_, err := New(ctx, st, ledger.NewSandbox(), Options{})
	require.Error(t, err)
}

func TestOpenFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Type = "memory"
	cfg.Cluster.Endpoint = "sandbox"

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()
	_, ok := s.Ledger().(*ledger.SandboxClient)
	assert.True(t, ok)

	cfg.Store.Type = "sqlite"
	cfg.Store.DSN = ":memory:"
	_, err = Open(context.Background(), cfg)
	require.ErrorIs(t, err, store.ErrPassphraseRequired)
}
