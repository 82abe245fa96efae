// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package mint creates SPL token mints and mints units of them. The
// Orchestrator admits one ledger request at a time and keeps the ordered list
// of mints created in the session.
package mint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/toeirei/mintmaster/internal/addr"
	"github.com/toeirei/mintmaster/internal/apperr"
	"github.com/toeirei/mintmaster/internal/keypair"
	"github.com/toeirei/mintmaster/internal/ledger"
	"github.com/toeirei/mintmaster/internal/logging"
)

// FallbackDecimals is used for unknown mints when the fallback is enabled.
const FallbackDecimals = 6

// State is the request state of the orchestrator.
type State int

const (
	Idle State = iota
	Pending
)

func (s State) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// Snapshot is the mint list and selection after a change.
type Snapshot struct {
	Records  []Record
	Selected string
}

// Observer is told about committed changes to the mint list or selection.
type Observer func(ctx context.Context, snap Snapshot) error

// MintToResult describes a committed mint-to.
type MintToResult struct {
	Mint        string
	Owner       string
	Destination string
	Amount      decimal.Decimal
	Decimals    uint8
	Raw         uint64
	Signature   string
}

// ErrDiscarded reports a mint that was created on the ledger after the
// session was reset. The record is not kept.
var ErrDiscarded = errors.New("mint: session was erased while the request was pending")

// Orchestrator submits create-mint and mint-to requests.
type Orchestrator struct {
	ledger   ledger.Client
	inFlight atomic.Bool

	mu       sync.RWMutex
	records  []Record
	selected string
	epoch    uint64 // bumped by Reset

	observers []Observer
	fallback  bool
	now       func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDecimalsFallback makes MintTo use FallbackDecimals for mints missing
// from the list instead of failing.
func WithDecimalsFallback(enabled bool) Option {
	return func(o *Orchestrator) { o.fallback = enabled }
}

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithObserver registers an observer at construction.
func WithObserver(fn Observer) Option {
	return func(o *Orchestrator) { o.observers = append(o.observers, fn) }
}

// New creates an Orchestrator on top of a ledger client.
func New(l ledger.Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{ledger: l, now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// begin enters Pending or fails without waiting.
func (o *Orchestrator) begin() (release func(), err error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, apperr.ErrOperationInProgress
	}
	return func() { o.inFlight.Store(false) }, nil
}

// State reports whether a request is in flight.
func (o *Orchestrator) State() State {
	if o.inFlight.Load() {
		return Pending
	}
	return Idle
}

// CreateMint creates a mint with kp as payer and mint authority. An empty
// freezeAuthority means none. On success the record is appended and
// selected.
func (o *Orchestrator) CreateMint(ctx context.Context, kp *keypair.Keypair, decimals int, freezeAuthority string) (Record, error) {
	release, err := o.begin()
	if err != nil {
		return Record{}, err
	}
	defer release()

	log := logging.Component("mint").With("op", uuid.NewString())

	if kp.IsZero() {
		return Record{}, apperr.ErrNoKeypair
	}
	if decimals < 0 || decimals > MaxDecimals {
		return Record{}, apperr.Validation("decimals must be between 0 and %d, got %d", MaxDecimals, decimals)
	}
	freeze, err := addr.ParseOptional(freezeAuthority)
	if err != nil {
		return Record{}, apperr.Validation("freeze authority: %v", err)
	}

	o.mu.RLock()
	epoch := o.epoch
	o.mu.RUnlock()

	log.Info("creating mint", "decimals", decimals, "freeze", freeze != nil, "payer", kp.PublicKey().Short())
	mintAddr, err := o.ledger.CreateMintAccount(ctx, kp, kp.PublicKey(), freeze, uint8(decimals))
	if err != nil {
		log.Warn("create mint failed", "err", err)
		return Record{}, apperr.Network("create mint", err)
	}

	rec := Record{
		Mint:            mintAddr.String(),
		Decimals:        uint8(decimals),
		FreezeAuthority: addr.StringPtr(freeze),
		CreatedAt:       o.now().UTC(),
	}
	o.mu.Lock()
	if o.epoch != epoch {
		o.mu.Unlock()
		log.Warn("dropping mint created across a reset", "mint", mintAddr.Short())
		return Record{}, ErrDiscarded
	}
	o.records = append(o.records, rec)
	o.selected = rec.Mint
	snap := o.snapshotLocked()
	o.mu.Unlock()

	log.Info("mint committed", "mint", mintAddr.Short())
	o.notify(ctx, snap)
	return rec, nil
}

// MintTo mints amount of mintAddress to the associated token account of
// destinationOwner, or of kp when destinationOwner is empty.
func (o *Orchestrator) MintTo(ctx context.Context, kp *keypair.Keypair, mintAddress, destinationOwner string, amount decimal.Decimal) (MintToResult, error) {
	release, err := o.begin()
	if err != nil {
		return MintToResult{}, err
	}
	defer release()

	log := logging.Component("mint").With("op", uuid.NewString())

	if kp.IsZero() {
		return MintToResult{}, apperr.ErrNoKeypair
	}
	mintAddr, err := addr.Parse(mintAddress)
	if err != nil {
		return MintToResult{}, apperr.Validation("mint address: %v", err)
	}
	owner := kp.PublicKey()
	if strings.TrimSpace(destinationOwner) != "" {
		if owner, err = addr.Parse(destinationOwner); err != nil {
			return MintToResult{}, apperr.Validation("destination owner: %v", err)
		}
	}
	decimals, err := o.decimalsFor(mintAddr.String())
	if err != nil {
		return MintToResult{}, err
	}
	raw, err := ScaleAmount(amount, decimals)
	if err != nil {
		return MintToResult{}, err
	}

	log.Info("minting", "mint", mintAddr.Short(), "owner", owner.Short(), "amount", amount.String(), "raw", raw)
	ata, err := o.ledger.EnsureAssociatedAccount(ctx, kp, mintAddr, owner)
	if err != nil {
		log.Warn("associated account failed", "err", err)
		return MintToResult{}, ledgerError("ensure associated account", err)
	}
	conf, err := o.ledger.MintTo(ctx, mintAddr, ata, kp, raw)
	if err != nil {
		log.Warn("mint-to failed", "err", err)
		return MintToResult{}, ledgerError("mint to", err)
	}
	log.Info("mint-to committed", "ata", ata.Short(), "tx", addr.MaskShort(conf.Signature))

	return MintToResult{
		Mint:        mintAddr.String(),
		Owner:       owner.String(),
		Destination: ata.String(),
		Amount:      amount,
		Decimals:    decimals,
		Raw:         raw,
		Signature:   conf.Signature,
	}, nil
}

// ledgerError keeps a rejected authority distinct; every other ledger
// failure is a network error.
func ledgerError(op string, err error) error {
	if errors.Is(err, apperr.ErrAuthorityMismatch) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return apperr.Network(op, err)
}

func (o *Orchestrator) decimalsFor(mint string) (uint8, error) {
	if rec, ok := o.Lookup(mint); ok {
		return rec.Decimals, nil
	}
	if o.fallback {
		logging.Component("mint").Warn("mint not in session list; assuming default decimals", "mint", addr.MaskShort(mint), "decimals", FallbackDecimals)
		return FallbackDecimals, nil
	}
	return 0, apperr.Validation("mint %s was not created in this session", mint)
}

// Records returns a copy of the mint list in creation order.
func (o *Orchestrator) Records() []Record {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]Record(nil), o.records...)
}

// Selected returns the selected mint address, or "".
func (o *Orchestrator) Selected() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.selected
}

// SelectedRecord returns the selected record.
func (o *Orchestrator) SelectedRecord() (Record, bool) {
	return o.Lookup(o.Selected())
}

// Lookup finds a record by mint address.
func (o *Orchestrator) Lookup(mint string) (Record, bool) {
	mint = strings.TrimSpace(mint)
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, r := range o.records {
		if r.Mint == mint {
			return r, true
		}
	}
	return Record{}, false
}

// Select marks mint as selected. It must be in the list.
func (o *Orchestrator) Select(ctx context.Context, mint string) error {
	mint = strings.TrimSpace(mint)
	if _, ok := o.Lookup(mint); !ok {
		return apperr.Validation("mint %s is not in the mint list", mint)
	}
	o.mu.Lock()
	o.selected = mint
	snap := o.snapshotLocked()
	o.mu.Unlock()
	o.notify(ctx, snap)
	return nil
}

// Adopt appends records that are not in the list yet, e.g. from an export.
// It returns how many were added.
func (o *Orchestrator) Adopt(ctx context.Context, records []Record) int {
	o.mu.Lock()
	known := make(map[string]bool, len(o.records))
	for _, r := range o.records {
		known[r.Mint] = true
	}
	added := 0
	for _, r := range records {
		if known[r.Mint] {
			continue
		}
		known[r.Mint] = true
		o.records = append(o.records, r)
		added++
	}
	if o.selected == "" && len(o.records) > 0 {
		o.selected = o.records[len(o.records)-1].Mint
	}
	snap := o.snapshotLocked()
	o.mu.Unlock()
	if added > 0 {
		o.notify(ctx, snap)
	}
	return added
}

// Restore replaces the list and selection without notifying observers. A
// selection that is not in records is dropped.
func (o *Orchestrator) Restore(records []Record, selected string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append([]Record(nil), records...)
	o.selected = ""
	for _, r := range o.records {
		if r.Mint == selected {
			o.selected = selected
			break
		}
	}
}

// Reset clears the list and the selection. A CreateMint still in flight
// fails with ErrDiscarded instead of committing.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = nil
	o.selected = ""
	o.epoch++
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	return Snapshot{Records: append([]Record(nil), o.records...), Selected: o.selected}
}

func (o *Orchestrator) notify(ctx context.Context, snap Snapshot) {
	o.mu.RLock()
	observers := append([]Observer(nil), o.observers...)
	o.mu.RUnlock()
	for _, fn := range observers {
		if err := fn(ctx, snap); err != nil {
			logging.Component("mint").Warn("observer failed", "err", err)
		}
	}
}
