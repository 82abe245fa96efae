// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package addr

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for i := 0; i < 64; i++ {
		b := make([]byte, 64)
		if _, err := rand.Read(b); err != nil {
			t.Fatalf("rand: %v", err)
		}
		// Leading zero bytes are the classic base-58 edge case.
		if i%8 == 0 {
			b[0], b[1] = 0, 0
		}
		got, err := Decode(Encode(b))
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !bytes.Equal(got, b) {
			t.Fatalf("round trip mismatch:\n got %x\nwant %x", got, b)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "0OIl", "not base58!"} {
		if _, err := Decode(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestParse(t *testing.T) {
	// Well-known token program id.
	const tokenProgram = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	a, err := Parse("  " + tokenProgram + "\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if a.String() != tokenProgram {
		t.Fatalf("String() = %q", a.String())
	}

	short := Encode([]byte{1, 2, 3})
	if _, err := Parse(short); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress for short input, got %v", err)
	}
}

func TestParseOptional(t *testing.T) {
	got, err := ParseOptional("")
	if err != nil || got != nil {
		t.Fatalf("blank input must be absent, got %v %v", got, err)
	}
	got, err = ParseOptional(" \t")
	if err != nil || got != nil {
		t.Fatalf("whitespace input must be absent, got %v %v", got, err)
	}
	if _, err := ParseOptional("xyz"); err == nil {
		t.Fatalf("expected error for malformed optional address")
	}
	one := FromBytes(bytes.Repeat([]byte{1}, Size))
	got, err = ParseOptional(one.String())
	if err != nil || got == nil || *got != one {
		t.Fatalf("ParseOptional(valid) = %v, %v", got, err)
	}
	if s := StringPtr(got); s == nil || *s != one.String() {
		t.Fatalf("StringPtr mismatch")
	}
	if StringPtr(nil) != nil {
		t.Fatalf("StringPtr(nil) must be nil")
	}
}

func TestMaskShort(t *testing.T) {
	if got := MaskShort(" TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA "); got != "Toke***Q5DA" {
		t.Fatalf("unexpected mask %q", got)
	}
	if got := MaskShort("short"); got != "short" {
		t.Fatalf("short input must be kept, got %q", got)
	}
	if got := MaskShort(""); got != "" {
		t.Fatalf("empty input must stay empty, got %q", got)
	}
}
