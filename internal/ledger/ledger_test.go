// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/toeirei/mintmaster/internal/addr"
	"github.com/toeirei/mintmaster/internal/apperr"
)

func TestResolveEndpoint(t *testing.T) {
	cases := map[string]string{
		"":                        rpc.DevnetRPCEndpoint,
		"devnet":                  rpc.DevnetRPCEndpoint,
		"Testnet":                 rpc.TestnetRPCEndpoint,
		"mainnet-beta":            rpc.MainnetRPCEndpoint,
		"localnet":                rpc.LocalnetRPCEndpoint,
		" https://rpc.example/x ": "https://rpc.example/x",
	}
	for in, want := range cases {
		got, err := ResolveEndpoint(in)
		if err != nil || got != want {
			t.Fatalf("ResolveEndpoint(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ResolveEndpoint("moonnet"); !errors.Is(err, ErrUnknownEndpoint) {
		t.Fatalf("expected ErrUnknownEndpoint, got %v", err)
	}
}

func TestParseCommitment(t *testing.T) {
	if c, err := ParseCommitment(""); err != nil || c != rpc.CommitmentConfirmed {
		t.Fatalf("empty commitment should default to confirmed, got %q, %v", c, err)
	}
	if c, err := ParseCommitment("Finalized"); err != nil || c != rpc.CommitmentFinalized {
		t.Fatalf("unexpected %q, %v", c, err)
	}
	if _, err := ParseCommitment("eventually"); err == nil {
		t.Fatalf("expected error for unknown commitment")
	}
}

func TestConnect(t *testing.T) {
	ctx := context.Background()
	c, err := Connect(ctx, Options{Endpoint: "Sandbox"})
	if err != nil {
		t.Fatalf("Connect sandbox: %v", err)
	}
	if _, ok := c.(*SandboxClient); !ok {
		t.Fatalf("expected sandbox client, got %T", c)
	}
	c, err = Connect(ctx, Options{Endpoint: "devnet", Commitment: "finalized"})
	if err != nil {
		t.Fatalf("Connect devnet: %v", err)
	}
	sc, ok := c.(*SolanaClient)
	if !ok || sc.Endpoint() != rpc.DevnetRPCEndpoint || sc.timeout != defaultTimeout {
		t.Fatalf("unexpected solana client %#v", c)
	}
	if _, err := Connect(ctx, Options{Endpoint: "devnet", Commitment: "soon"}); err == nil {
		t.Fatalf("expected commitment error")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		msg  string
		want error
	}{
		{"Transaction simulation failed: Attempt to debit an account but found no record of a prior credit.", apperr.ErrInsufficientFunds},
		{"insufficient lamports 10, need 1461600", apperr.ErrInsufficientFunds},
		{"Error processing Instruction 0: custom program error: 0x4", apperr.ErrAuthorityMismatch},
		{"owner does not match", apperr.ErrAuthorityMismatch},
		{"custom program error: 0x41", apperr.ErrNetwork},
		{"dial tcp: connection refused", apperr.ErrNetwork},
	}
	for _, c := range cases {
		err := classify("op", errors.New(c.msg))
		if apperr.Kind(err) != c.want {
			t.Fatalf("classify(%q) kind = %v, want %v", c.msg, apperr.Kind(err), c.want)
		}
	}
	if classify("op", nil) != nil {
		t.Fatalf("nil must stay nil")
	}
	if err := classify("op", apperr.ErrNoKeypair); !errors.Is(err, apperr.ErrNoKeypair) {
		t.Fatalf("known kinds must be kept, got %v", err)
	}
}

func TestDeriveAssociatedAddressIsDeterministic(t *testing.T) {
	owner, _ := addr.Parse("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	mint, _ := addr.Parse("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	a, err := DeriveAssociatedAddress(owner, mint)
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	b, _ := DeriveAssociatedAddress(owner, mint)
	if a != b {
		t.Fatalf("derivation is not deterministic")
	}
	if a == owner || a == mint || a.IsZero() {
		t.Fatalf("derived address collides with its inputs")
	}
	other, _ := DeriveAssociatedAddress(mint, owner)
	if other == a {
		t.Fatalf("derivation must depend on argument order")
	}
}
