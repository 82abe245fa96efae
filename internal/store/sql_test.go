// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *SQL {
	t.Helper()
	s, err := OpenSQL(context.Background(), TypeSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	_, err := s.Get(ctx, KeyPublicKey)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetMany(ctx, map[string]string{KeyPublicKey: "a", KeySecretKey: "b"}))
	require.NoError(t, s.SetMany(ctx, map[string]string{KeyPublicKey: "c"}))

	v, err := s.Get(ctx, KeyPublicKey)
	require.NoError(t, err)
	assert.Equal(t, "c", v)
	v, err = s.Get(ctx, KeySecretKey)
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	require.NoError(t, s.Delete(ctx, KeyPublicKey, KeySecretKey, KeyWalletList))
	_, err = s.Get(ctx, KeySecretKey)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Delete(ctx))
	require.NoError(t, s.SetMany(ctx, nil))
}

func TestSQLStoreSetManyIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)
	require.NoError(t, s.SetMany(ctx, map[string]string{KeyPublicKey: "old-pub", KeySecretKey: "old-sec"}))

	_, err := s.db.ExecContext(ctx, `CREATE TRIGGER reject_boom BEFORE INSERT ON session_entries
		WHEN NEW.entry_key = 'boom' BEGIN SELECT RAISE(ABORT, 'rejected'); END;`)
	require.NoError(t, err)

	err = s.SetMany(ctx, map[string]string{KeyPublicKey: "new-pub", KeySecretKey: "new-sec", "boom": "x"})
	require.Error(t, err)

	v, err := s.Get(ctx, KeyPublicKey)
	require.NoError(t, err)
	assert.Equal(t, "old-pub", v)
	v, err = s.Get(ctx, KeySecretKey)
	require.NoError(t, err)
	assert.Equal(t, "old-sec", v)
}

func TestSQLStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mintmaster.db")

	s, err := OpenSQL(ctx, TypeSQLite, path)
	require.NoError(t, err)
	require.NoError(t, Set(ctx, s, KeySelectedMint, "mint"))
	require.NoError(t, s.Close())

	s, err = OpenSQL(ctx, TypeSQLite, path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get(ctx, KeySelectedMint)
	require.NoError(t, err)
	assert.Equal(t, "mint", v)
}

func TestOpenSQLRejectsEmptyDSN(t *testing.T) {
	_, err := OpenSQL(context.Background(), TypeSQLite, "  ")
	require.Error(t, err)
}
