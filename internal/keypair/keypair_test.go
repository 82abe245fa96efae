// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package keypair

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/toeirei/mintmaster/internal/addr"
	"github.com/toeirei/mintmaster/internal/apperr"
)

func testSeed(b byte) []byte { return bytes.Repeat([]byte{b}, SeedSize) }

func TestFromSeedMatchesEd25519(t *testing.T) {
	kp, err := FromSeed(testSeed(7))
	if err != nil {
		t.Fatalf("FromSeed failed: %v", err)
	}
	want := ed25519.NewKeyFromSeed(testSeed(7)).Public().(ed25519.PublicKey)
	if !bytes.Equal(kp.PublicKey().Bytes(), want) {
		t.Fatalf("public key mismatch")
	}
	msg := []byte("mint")
	if !ed25519.Verify(want, msg, kp.Sign(msg)) {
		t.Fatalf("signature does not verify")
	}
}

func TestSecretKeyRoundTrip(t *testing.T) {
	kp, _ := FromSeed(testSeed(1))
	enc := kp.SecretKeyBase58()
	again, err := ParseSecretKey(enc)
	if err != nil {
		t.Fatalf("ParseSecretKey failed: %v", err)
	}
	if again.SecretKeyBase58() != enc {
		t.Fatalf("secret key did not round-trip")
	}
	if again.PublicKey() != kp.PublicKey() {
		t.Fatalf("public key changed across round trip")
	}
}

func TestParseSecretKeyRejects(t *testing.T) {
	kp, _ := FromSeed(testSeed(2))
	var raw []byte
	_ = kp.UseSecret(func(b []byte) error { raw = append(raw, b...); return nil })

	mismatched := append([]byte{}, raw...)
	mismatched[63] ^= 0xff

	cases := map[string]string{
		"empty":      "",
		"not base58": "0OIl",
		"short":      addr.Encode(raw[:63]),
		"long":       addr.Encode(append(raw, 1)),
		"seed only":  addr.Encode(raw[:32]),
		"mismatch":   addr.Encode(mismatched),
	}
	for name, in := range cases {
		if _, err := ParseSecretKey(in); !errors.Is(err, apperr.ErrInvalidKeyFormat) {
			t.Fatalf("%s: expected ErrInvalidKeyFormat, got %v", name, err)
		}
	}
}

func TestKeypairNeverPrintsSecret(t *testing.T) {
	kp, _ := FromSeed(testSeed(3))
	secret := kp.SecretKeyBase58()
	for _, s := range []string{fmt.Sprint(kp), fmt.Sprintf("%v", kp), fmt.Sprintf("%s", kp)} {
		if strings.Contains(s, secret) {
			t.Fatalf("secret leaked in %q", s)
		}
	}
}

func TestZero(t *testing.T) {
	kp, _ := FromSeed(testSeed(4))
	kp.Zero()
	if !kp.IsZero() {
		t.Fatalf("expected zeroed keypair")
	}
	if err := kp.UseSecret(func([]byte) error { return nil }); !errors.Is(err, apperr.ErrNoKeypair) {
		t.Fatalf("expected ErrNoKeypair from erased keypair, got %v", err)
	}
	var nilKP *Keypair
	nilKP.Zero()
	if !nilKP.IsZero() {
		t.Fatalf("nil keypair must report zero")
	}
}
