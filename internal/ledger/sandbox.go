// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package ledger

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/toeirei/mintmaster/internal/addr"
	"github.com/toeirei/mintmaster/internal/apperr"
	"github.com/toeirei/mintmaster/internal/keypair"
	"github.com/toeirei/mintmaster/internal/logging"
)

var (
	errSandboxNoMint    = errors.New("could not find account: mint")
	errSandboxNoAccount = errors.New("could not find account: token account")
	errSandboxOverflow  = errors.New("custom program error: 0xe (arithmetic overflow)")
	errSandboxWrongMint = errors.New("custom program error: 0x3 (mint mismatch)")
)

// MintState is a sandbox mint.
type MintState struct {
	Authority addr.Address
	Freeze    *addr.Address
	Decimals  uint8
	Supply    uint64
}

type tokenAccount struct {
	owner  addr.Address
	mint   addr.Address
	amount uint64
}

// SandboxClient is an in-memory ledger. Associated token accounts use the
// real derivation, mint authority is enforced and supply cannot overflow.
type SandboxClient struct {
	mu       sync.Mutex
	mints    map[addr.Address]*MintState
	accounts map[addr.Address]*tokenAccount
	slot     uint64

	failNext error
	gate     chan struct{}
	entered  chan string
}

// NewSandbox creates an empty sandbox ledger.
func NewSandbox() *SandboxClient {
	return &SandboxClient{
		mints:    make(map[addr.Address]*MintState),
		accounts: make(map[addr.Address]*tokenAccount),
	}
}

// FailNext makes the next mutating call fail with err, classified like an
// RPC error.
func (s *SandboxClient) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// Hold blocks every mutating call until release is called. Each blocked
// call first sends its operation name on entered.
func (s *SandboxClient) Hold() (entered <-chan string, release func()) {
	gate := make(chan struct{})
	ent := make(chan string, 16)
	s.mu.Lock()
	s.gate, s.entered = gate, ent
	s.mu.Unlock()

	var once sync.Once
	return ent, func() {
		once.Do(func() {
			s.mu.Lock()
			s.gate, s.entered = nil, nil
			s.mu.Unlock()
			close(gate)
		})
	}
}

// Mint returns a copy of the mint state.
func (s *SandboxClient) Mint(mint addr.Address) (MintState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mints[mint]
	if !ok {
		return MintState{}, false
	}
	return *m, true
}

// Balance returns the raw balance of a token account.
func (s *SandboxClient) Balance(account addr.Address) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[account]; ok {
		return a.amount
	}
	return 0
}

// enter applies the hold and the injected failure.
func (s *SandboxClient) enter(ctx context.Context, op string) error {
	s.mu.Lock()
	gate, ent := s.gate, s.entered
	s.mu.Unlock()

	if ent != nil {
		select {
		case ent <- op:
		default:
		}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return apperr.Network(op, ctx.Err())
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failNext; err != nil {
		s.failNext = nil
		return classify(op, err)
	}
	return nil
}

// CreateMintAccount registers a new mint with a random address.
func (s *SandboxClient) CreateMintAccount(ctx context.Context, payer *keypair.Keypair, mintAuthority addr.Address, freezeAuthority *addr.Address, decimals uint8) (addr.Address, error) {
	if payer.IsZero() {
		return addr.Zero, apperr.ErrNoKeypair
	}
	if err := s.enter(ctx, "create mint"); err != nil {
		return addr.Zero, err
	}

	var mint addr.Address
	if _, err := rand.Read(mint[:]); err != nil {
		return addr.Zero, apperr.Network("create mint", err)
	}
	st := &MintState{Authority: mintAuthority, Decimals: decimals}
	if freezeAuthority != nil {
		f := *freezeAuthority
		st.Freeze = &f
	}

	s.mu.Lock()
	s.mints[mint] = st
	s.slot++
	s.mu.Unlock()

	logging.Component("sandbox").Debug("mint created", "mint", mint.Short(), "decimals", decimals)
	return mint, nil
}

// DeriveAssociatedAddress returns the associated token account address.
func (s *SandboxClient) DeriveAssociatedAddress(owner, mint addr.Address) (addr.Address, error) {
	return DeriveAssociatedAddress(owner, mint)
}

// EnsureAssociatedAccount opens the associated token account if missing.
func (s *SandboxClient) EnsureAssociatedAccount(ctx context.Context, payer *keypair.Keypair, mint, owner addr.Address) (addr.Address, error) {
	if payer.IsZero() {
		return addr.Zero, apperr.ErrNoKeypair
	}
	ata, err := DeriveAssociatedAddress(owner, mint)
	if err != nil {
		return addr.Zero, apperr.Network("derive associated account", err)
	}

	s.mu.Lock()
	_, known := s.mints[mint]
	_, exists := s.accounts[ata]
	s.mu.Unlock()
	if !known {
		return addr.Zero, classify("create associated account", errSandboxNoMint)
	}
	if exists {
		return ata, nil
	}

	if err := s.enter(ctx, "create associated account"); err != nil {
		return addr.Zero, err
	}
	s.mu.Lock()
	if _, ok := s.accounts[ata]; !ok {
		s.accounts[ata] = &tokenAccount{owner: owner, mint: mint}
		s.slot++
	}
	s.mu.Unlock()
	return ata, nil
}

// MintTo credits destination after checking the authority and the supply.
func (s *SandboxClient) MintTo(ctx context.Context, mint, destination addr.Address, authority *keypair.Keypair, raw uint64) (Confirmation, error) {
	if authority.IsZero() {
		return Confirmation{}, apperr.ErrNoKeypair
	}
	if err := s.enter(ctx, "mint to"); err != nil {
		return Confirmation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.mints[mint]
	if !ok {
		return Confirmation{}, classify("mint to", errSandboxNoMint)
	}
	acc, ok := s.accounts[destination]
	if !ok {
		return Confirmation{}, classify("mint to", errSandboxNoAccount)
	}
	if acc.mint != mint {
		return Confirmation{}, classify("mint to", errSandboxWrongMint)
	}
	if authority.PublicKey() != m.Authority {
		return Confirmation{}, classify("mint to", errors.New("custom program error: 0x4 (owner does not match)"))
	}
	if raw > math.MaxUint64-m.Supply || raw > math.MaxUint64-acc.amount {
		return Confirmation{}, classify("mint to", errSandboxOverflow)
	}
	m.Supply += raw
	acc.amount += raw
	s.slot++

	// The authority signs mint, destination, amount and slot.
	msg := make([]byte, 0, 2*addr.Size+16)
	msg = append(msg, mint[:]...)
	msg = append(msg, destination[:]...)
	msg = binary.LittleEndian.AppendUint64(msg, raw)
	msg = binary.LittleEndian.AppendUint64(msg, s.slot)
	sig := authority.Sign(msg)
	if len(sig) == 0 {
		return Confirmation{}, apperr.ErrNoKeypair
	}
	return Confirmation{Signature: addr.Encode(sig), Slot: s.slot, Commitment: "finalized"}, nil
}

// Close is a no-op.
func (s *SandboxClient) Close() error { return nil }

// String names the sandbox in logs.
func (s *SandboxClient) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("sandbox(mints=%d, accounts=%d)", len(s.mints), len(s.accounts))
}
