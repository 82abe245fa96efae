// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package mint

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/toeirei/mintmaster/internal/apperr"
)

func TestScaleAmount(t *testing.T) {
	cases := []struct {
		amount   string
		decimals uint8
		want     uint64
	}{
		{"10", 6, 10_000_000},
		{"0", 9, 0},
		{"1.5", 1, 15},
		{"0.000000001", 9, 1},
		{"18446744073709551615", 0, math.MaxUint64},
		{"18446744073.709551615", 9, math.MaxUint64},
	}
	for _, c := range cases {
		got, err := ScaleAmount(decimal.RequireFromString(c.amount), c.decimals)
		if err != nil {
			t.Fatalf("ScaleAmount(%s, %d) failed: %v", c.amount, c.decimals, err)
		}
		if got != c.want {
			t.Fatalf("ScaleAmount(%s, %d) = %d, want %d", c.amount, c.decimals, got, c.want)
		}
	}
}

func TestScaleAmountRejects(t *testing.T) {
	cases := []struct {
		amount   string
		decimals uint8
	}{
		{"18446744073709551616", 0},
		{"18446744073.709551616", 9},
		{"0.5", 0},
		{"1.0000001", 6},
		{"-1", 6},
	}
	for _, c := range cases {
		if _, err := ScaleAmount(decimal.RequireFromString(c.amount), c.decimals); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("ScaleAmount(%s, %d): expected validation error, got %v", c.amount, c.decimals, err)
		}
	}
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount(" 2.50 ")
	if err != nil || !d.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("ParseAmount = %s, %v", d, err)
	}
	for _, in := range []string{"", "ten", "-3"} {
		if _, err := ParseAmount(in); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("ParseAmount(%q): expected validation error, got %v", in, err)
		}
	}
}

func TestFormatRaw(t *testing.T) {
	if got := FormatRaw(10_000_000, 6); got != "10.000000" {
		t.Fatalf("FormatRaw = %q", got)
	}
	if got := FormatRaw(42, 0); got != "42" {
		t.Fatalf("FormatRaw = %q", got)
	}
}
