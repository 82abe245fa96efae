// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package ui holds presentation helpers shared by the CLI and the TUI. None
// of them can read key material; they only shape what is shown.
package ui

import (
	"errors"
	"strings"

	"github.com/toeirei/mintmaster/internal/addr"
	"github.com/toeirei/mintmaster/internal/apperr"
	"github.com/toeirei/mintmaster/internal/i18n"
	"github.com/toeirei/mintmaster/internal/store"
)

const maskRunes = 24

// RevealToggle flips the reveal state of the secret view. Hiding only
// affects rendering.
func RevealToggle(current bool) bool { return !current }

// MaskSecret hides s behind a fixed-width run of dots.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	return strings.Repeat("•", maskRunes)
}

// SecretView renders secret according to the reveal state.
func SecretView(secret string, revealed bool) string {
	if revealed {
		return secret
	}
	return MaskSecret(secret)
}

// MaskShort shortens addresses and signatures for status lines.
func MaskShort(s string) string { return addr.MaskShort(s) }

// ContainsIgnoreCase reports whether s contains sub, case-insensitive.
func ContainsIgnoreCase(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ErrorMessage turns err into a short localized message for the user.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, store.ErrSealBroken):
		return i18n.T("error.seal_broken")
	case errors.Is(err, store.ErrPassphraseRequired):
		return i18n.T("error.passphrase_required")
	}
	switch apperr.Kind(err) {
	case apperr.ErrOperationInProgress:
		return i18n.T("error.in_progress")
	case apperr.ErrNoKeypair:
		return i18n.T("error.no_keypair")
	case apperr.ErrInvalidKeyFormat:
		return i18n.T("error.invalid_key")
	case apperr.ErrValidation:
		return i18n.T("error.validation", detail(err, apperr.ErrValidation))
	case apperr.ErrAuthorityMismatch:
		return i18n.T("error.authority_mismatch")
	case apperr.ErrInsufficientFunds:
		return i18n.T("error.insufficient_funds")
	case apperr.ErrNetwork:
		return i18n.T("error.network", err.Error())
	}
	return i18n.T("error.generic", err.Error())
}

// detail strips everything up to and including the sentinel text.
func detail(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()+": "); i >= 0 {
		return msg[i+len(sentinel.Error())+2:]
	}
	return msg
}
