// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package apperr defines the error taxonomy shared by the keypair manager,
// the mint orchestrator and the ledger client. Callers match with errors.Is;
// producers wrap with fmt.Errorf("...: %w", Err...).
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKeyFormat is returned when an imported secret is not valid
	// base-58 or does not decode to a 64-byte ed25519 secret key.
	ErrInvalidKeyFormat = errors.New("invalid key format")

	// ErrValidation is returned for rejected input: decimals out of range,
	// malformed addresses, unknown mints or amounts that do not fit a u64.
	ErrValidation = errors.New("validation error")

	// ErrAuthorityMismatch is returned when the ledger rejects the signer as
	// the mint authority.
	ErrAuthorityMismatch = errors.New("signer is not the mint authority")

	// ErrNetwork is returned for connection, submission or confirmation
	// failures reported by the ledger client.
	ErrNetwork = errors.New("network error")

	// ErrInsufficientFunds is returned when the payer cannot cover rent or fees.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrOperationInProgress is returned when a mutating request is started
	// while another one is still pending.
	ErrOperationInProgress = errors.New("operation in progress")

	// ErrNoKeypair is returned when an operation needs a signer and the
	// session has none.
	ErrNoKeypair = errors.New("no active keypair")
)

// Validation wraps a formatted message with ErrValidation.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Network wraps cause with ErrNetwork while keeping cause matchable.
func Network(op string, cause error) error {
	if cause == nil {
		return nil
	}
	if errors.Is(cause, ErrNetwork) {
		return fmt.Errorf("%s: %w", op, cause)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrNetwork, cause)
}

// Kind returns the taxonomy sentinel err belongs to, or nil when err is not
// one of ours. ErrInsufficientFunds is reported before ErrNetwork because a
// ledger failure usually carries both.
func Kind(err error) error {
	for _, k := range []error{
		ErrOperationInProgress,
		ErrNoKeypair,
		ErrInvalidKeyFormat,
		ErrValidation,
		ErrAuthorityMismatch,
		ErrInsufficientFunds,
		ErrNetwork,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
