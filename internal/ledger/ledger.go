// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package ledger is the boundary to the Solana cluster. Client is the
// contract the mint orchestrator depends on; SolanaClient talks JSON-RPC
// and SandboxClient keeps an in-memory ledger for tests and dry runs.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/toeirei/mintmaster/internal/addr"
	"github.com/toeirei/mintmaster/internal/apperr"
	"github.com/toeirei/mintmaster/internal/keypair"
	"github.com/toeirei/mintmaster/internal/logging"
)

// Client is the ledger contract.
type Client interface {
	// CreateMintAccount allocates and initializes a new mint paid by payer.
	CreateMintAccount(ctx context.Context, payer *keypair.Keypair, mintAuthority addr.Address, freezeAuthority *addr.Address, decimals uint8) (addr.Address, error)

	// DeriveAssociatedAddress returns the associated token account of
	// (owner, mint). It is pure.
	DeriveAssociatedAddress(owner, mint addr.Address) (addr.Address, error)

	// EnsureAssociatedAccount creates the associated token account when it
	// does not exist yet and returns its address.
	EnsureAssociatedAccount(ctx context.Context, payer *keypair.Keypair, mint, owner addr.Address) (addr.Address, error)

	// MintTo mints raw base units of mint into destination.
	MintTo(ctx context.Context, mint, destination addr.Address, authority *keypair.Keypair, raw uint64) (Confirmation, error)

	Close() error
}

// Confirmation describes a landed transaction.
type Confirmation struct {
	Signature  string
	Slot       uint64
	Commitment string
}

// EndpointSandbox selects the in-memory ledger.
const EndpointSandbox = "sandbox"

// Options configures Connect.
type Options struct {
	// Endpoint is a cluster moniker (devnet, testnet, mainnet-beta,
	// localnet), an http(s) RPC URL or "sandbox".
	Endpoint   string
	Commitment string
	Timeout    time.Duration
}

// ErrUnknownEndpoint is returned for endpoints that are neither a known
// cluster nor a URL.
var ErrUnknownEndpoint = errors.New("unknown cluster endpoint")

// Connect returns the client for opts.Endpoint.
func Connect(ctx context.Context, opts Options) (Client, error) {
	if strings.EqualFold(strings.TrimSpace(opts.Endpoint), EndpointSandbox) {
		return NewSandbox(), nil
	}
	url, err := ResolveEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}
	commitment, err := ParseCommitment(opts.Commitment)
	if err != nil {
		return nil, err
	}
	c := NewSolanaClient(url, commitment, opts.Timeout)
	logging.Component("ledger").Debug("using rpc endpoint", "endpoint", c.Endpoint(), "commitment", commitment)
	return c, nil
}

// ResolveEndpoint maps a cluster moniker to its RPC URL.
func ResolveEndpoint(endpoint string) (string, error) {
	e := strings.TrimSpace(endpoint)
	switch strings.ToLower(e) {
	case "", "devnet":
		return rpc.DevnetRPCEndpoint, nil
	case "testnet":
		return rpc.TestnetRPCEndpoint, nil
	case "mainnet", "mainnet-beta":
		return rpc.MainnetRPCEndpoint, nil
	case "localnet", "localhost":
		return rpc.LocalnetRPCEndpoint, nil
	}
	if strings.HasPrefix(e, "http://") || strings.HasPrefix(e, "https://") {
		return e, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEndpoint, endpoint)
}

// ParseCommitment validates a commitment level; empty means confirmed.
func ParseCommitment(s string) (rpc.Commitment, error) {
	switch c := rpc.Commitment(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return rpc.CommitmentConfirmed, nil
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
		return c, nil
	default:
		return "", fmt.Errorf("unknown commitment %q", s)
	}
}

func commitmentRank(c rpc.Commitment) int {
	switch c {
	case rpc.CommitmentProcessed:
		return 1
	case rpc.CommitmentConfirmed:
		return 2
	case rpc.CommitmentFinalized:
		return 3
	}
	return 0
}

// DeriveAssociatedAddress is the program-derived associated token account
// address shared by both clients.
func DeriveAssociatedAddress(owner, mint addr.Address) (addr.Address, error) {
	ata, _, err := common.FindAssociatedTokenAddress(common.PublicKey(owner), common.PublicKey(mint))
	if err != nil {
		return addr.Zero, fmt.Errorf("derive associated token address: %w", err)
	}
	return addr.Address(ata), nil
}

// ownerMismatchRe matches the token program's OwnerMismatch error (code 4).
var ownerMismatchRe = regexp.MustCompile(`custom program error: 0x4\b`)

// classify maps a failed ledger call onto the error taxonomy by inspecting
// the RPC message.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperr.Kind(err) != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient"),
		strings.Contains(msg, "no record of a prior credit"):
		return fmt.Errorf("%s: %w: %w", op, apperr.ErrInsufficientFunds, err)
	case ownerMismatchRe.MatchString(msg),
		strings.Contains(msg, "owner does not match"):
		return fmt.Errorf("%s: %w: %w", op, apperr.ErrAuthorityMismatch, err)
	default:
		return apperr.Network(op, err)
	}
}
