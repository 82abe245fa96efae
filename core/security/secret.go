// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package security

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
)

const redacted = "[SECRET]"

// Secret is a thin wrapper around a byte slice holding key material. It
// redacts itself in fmt, JSON and text encoders so a keypair can be logged
// or marshaled by accident without leaking the private half.
type Secret []byte

// String redacts the secret for fmt.Print* convenience.
func (s Secret) String() string { return redacted }

// Format implements fmt.Formatter so `%v`, `%#v`, `%x` and friends are redacted.
func (s Secret) Format(f fmt.State, c rune) {
	_, _ = io.WriteString(f, redacted)
}

// GoString keeps %#v from printing the raw slice.
func (s Secret) GoString() string { return redacted }

// MarshalJSON redacts secrets in JSON marshaling.
func (s Secret) MarshalJSON() ([]byte, error) { return json.Marshal(redacted) }

// MarshalText redacts secrets for text encoding (yaml, toml, logfmt).
func (s Secret) MarshalText() ([]byte, error) { return []byte(redacted), nil }

// Len reports the length of the held material.
func (s Secret) Len() int { return len(s) }

// IsZero reports whether the secret is empty or was wiped.
func (s Secret) IsZero() bool {
	for _, b := range s {
		if b != 0 {
			return false
		}
	}
	return true
}

// Equal compares two secrets in constant time.
func (s Secret) Equal(other Secret) bool {
	return len(s) == len(other) && subtle.ConstantTimeCompare(s, other) == 1
}

// Bytes returns a copy of the underlying bytes. Callers own the copy and
// must zero it when done.
func (s Secret) Bytes() []byte {
	out := make([]byte, len(s))
	copy(out, s)
	return out
}

// Use executes fn with the underlying bytes (not a copy). fn must not retain
// the slice.
func (s Secret) Use(fn func([]byte) error) error {
	return fn([]byte(s))
}

// Zero overwrites the underlying byte slice with zeros.
func (s *Secret) Zero() {
	if s == nil || *s == nil {
		return
	}
	for i := range *s {
		(*s)[i] = 0
	}
}

// FromBytes creates a Secret holding a copy of in.
func FromBytes(in []byte) Secret {
	out := make([]byte, len(in))
	copy(out, in)
	return Secret(out)
}

// Wipe zeroes a plain byte slice, for intermediate buffers that held key
// material outside a Secret.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
