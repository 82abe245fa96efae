// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package keypair

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/toeirei/mintmaster/internal/addr"
	"github.com/toeirei/mintmaster/internal/apperr"
	"github.com/toeirei/mintmaster/internal/store"
)

// failingStore rejects writes.
type failingStore struct{ *store.Memory }

func (failingStore) SetMany(context.Context, map[string]string) error {
	return errors.New("disk full")
}

func TestGenerateTwiceDiffers(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemory())
	a, err := m.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	pubA := a.PublicKeyBase58()
	b, err := m.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if pubA == b.PublicKeyBase58() {
		t.Fatalf("two generated keypairs share a public key")
	}
	if !a.IsZero() {
		t.Fatalf("replaced keypair was not wiped")
	}
}

func TestGeneratePersistsBothKeys(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	m := NewManager(s, WithRandom(bytes.NewReader(testSeed(9))))
	kp, err := m.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	pub, _ := s.Get(ctx, store.KeyPublicKey)
	sec, _ := s.Get(ctx, store.KeySecretKey)
	if pub != kp.PublicKeyBase58() || sec != kp.SecretKeyBase58() {
		t.Fatalf("store does not hold the generated keypair")
	}
}

func TestGenerateRandomFailure(t *testing.T) {
	m := NewManager(store.NewMemory(), WithRandom(bytes.NewReader([]byte{1, 2})))
	if _, err := m.Generate(context.Background()); err == nil {
		t.Fatalf("expected error from short random source")
	}
}

func TestImportShortKeyLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	m := NewManager(s)
	orig, err := m.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	origSecret := orig.SecretKeyBase58()

	_, err = m.ImportFromEncoded(ctx, addr.Encode(bytes.Repeat([]byte{5}, 40)))
	if !errors.Is(err, apperr.ErrInvalidKeyFormat) {
		t.Fatalf("expected ErrInvalidKeyFormat, got %v", err)
	}
	if got, _ := s.Get(ctx, store.KeySecretKey); got != origSecret {
		t.Fatalf("stored secret changed after failed import")
	}
	cur, _ := m.Current(ctx)
	if cur != orig || cur.IsZero() {
		t.Fatalf("current keypair changed after failed import")
	}
}

func TestImportValidKey(t *testing.T) {
	ctx := context.Background()
	src, _ := FromSeed(testSeed(6))
	m := NewManager(store.NewMemory())
	kp, err := m.ImportFromEncoded(ctx, "  "+src.SecretKeyBase58()+"\n")
	if err != nil {
		t.Fatalf("ImportFromEncoded failed: %v", err)
	}
	if kp.PublicKey() != src.PublicKey() {
		t.Fatalf("imported wrong public key")
	}
}

func TestImportPersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	src, _ := FromSeed(testSeed(6))
	m := NewManager(failingStore{store.NewMemory()})
	if _, err := m.ImportFromEncoded(ctx, src.SecretKeyBase58()); err == nil {
		t.Fatalf("expected persist error")
	}
	if cur, _ := m.Current(ctx); cur != nil {
		t.Fatalf("keypair became current despite persist failure")
	}
}

func TestCurrentRestoresFromStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	first := NewManager(s)
	kp, _ := first.Generate(ctx)

	second := NewManager(s)
	got, err := second.Current(ctx)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if got == nil || got.PublicKey() != kp.PublicKey() {
		t.Fatalf("restored keypair mismatch")
	}
	if !second.HasKeypair(ctx) {
		t.Fatalf("HasKeypair should be true")
	}
}

func TestCurrentEmptyStore(t *testing.T) {
	m := NewManager(store.NewMemory())
	kp, err := m.Current(context.Background())
	if err != nil || kp != nil {
		t.Fatalf("expected no keypair, got %v, %v", kp, err)
	}
}

func TestCurrentCorruptStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	_ = store.Set(ctx, s, store.KeySecretKey, "not-a-key")
	if _, err := NewManager(s).Current(ctx); !errors.Is(err, ErrCorruptStore) {
		t.Fatalf("expected ErrCorruptStore, got %v", err)
	}

	a, _ := FromSeed(testSeed(1))
	b, _ := FromSeed(testSeed(2))
	_ = s.SetMany(ctx, map[string]string{
		store.KeySecretKey: a.SecretKeyBase58(),
		store.KeyPublicKey: b.PublicKeyBase58(),
	})
	if _, err := NewManager(s).Current(ctx); !errors.Is(err, ErrCorruptStore) {
		t.Fatalf("expected ErrCorruptStore for mismatched public key, got %v", err)
	}
}

func TestEraseRemovesKeysAndRunsHooks(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	_ = store.Set(ctx, s, store.KeyWalletList, "[]")
	m := NewManager(s)
	kp, _ := m.Generate(ctx)

	calls := 0
	m.OnErase(func(context.Context) error { calls++; return nil })

	if err := m.Erase(ctx); err != nil {
		t.Fatalf("Erase failed: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("store still holds %d keys", s.Len())
	}
	if !kp.IsZero() {
		t.Fatalf("secret was not wiped")
	}
	if cur, _ := m.Current(ctx); cur != nil {
		t.Fatalf("keypair still current after erase")
	}
	if calls != 1 {
		t.Fatalf("erase hook called %d times", calls)
	}

	if err := m.Erase(ctx); err != nil {
		t.Fatalf("second Erase must be a no-op, got %v", err)
	}
}

func TestEraseReportsHookErrors(t *testing.T) {
	m := NewManager(store.NewMemory())
	boom := errors.New("boom")
	m.OnErase(func(context.Context) error { return boom })
	if err := m.Erase(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected hook error, got %v", err)
	}
}
