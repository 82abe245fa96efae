// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package addr holds the base-58 helpers and the 32-byte address type shared
// by key material, mints and associated token accounts.
package addr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// Size is the length of an ed25519 public key and of every ledger address.
const Size = 32

// ErrInvalidAddress is returned when a string is not a base-58 encoded
// 32-byte address.
var ErrInvalidAddress = errors.New("invalid address")

// Address is a ledger account address (an ed25519 public key or a
// program-derived address).
type Address [Size]byte

// Zero is the all-zero address. It is never a valid user input.
var Zero Address

// Encode returns the base-58 encoding of b.
func Encode(b []byte) string {
	return base58.Encode(b)
}

// Decode parses a base-58 string. Surrounding whitespace is ignored; an empty
// input is an error.
func Decode(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("base58: empty input")
	}
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("base58: %w", err)
	}
	return b, nil
}

// Parse decodes a base-58 address and checks its length.
func Parse(s string) (Address, error) {
	b, err := Decode(s)
	if err != nil {
		return Zero, fmt.Errorf("%w %q: %v", ErrInvalidAddress, s, err)
	}
	if len(b) != Size {
		return Zero, fmt.Errorf("%w %q: decoded to %d bytes, want %d", ErrInvalidAddress, s, len(b), Size)
	}
	return FromBytes(b), nil
}

// ParseOptional parses s when it is not blank. A blank input yields nil so
// optional authorities are stored as absent rather than as an empty string.
func ParseOptional(s string) (*Address, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	a, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FromBytes copies the first Size bytes of b into an Address.
func FromBytes(b []byte) Address {
	var a Address
	copy(a[:], b)
	return a
}

// String returns the base-58 form.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns a copy of the raw address.
func (a Address) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, a[:])
	return out
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == Zero
}

// StringPtr renders an optional address; nil stays nil.
func StringPtr(a *Address) *string {
	if a == nil {
		return nil
	}
	s := a.String()
	return &s
}

// MaskShort shortens long base-58 strings for logs: the first and last four
// characters around "***". Short input is returned trimmed.
func MaskShort(s string) string {
	t := strings.TrimSpace(s)
	if len(t) <= 10 {
		return t
	}
	return t[:4] + "***" + t[len(t)-4:]
}

// Short is MaskShort applied to the address.
func (a Address) Short() string {
	return MaskShort(a.String())
}
