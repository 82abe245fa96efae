// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package mint

import (
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/toeirei/mintmaster/internal/apperr"
)

var maxRaw = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// ParseAmount parses a human token amount such as "10" or "0.25".
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, apperr.Validation("amount %q is not a number", s)
	}
	if d.IsNegative() {
		return decimal.Zero, apperr.Validation("amount must not be negative")
	}
	return d, nil
}

// ScaleAmount converts amount into base units: amount × 10^decimals. The
// result must be a whole number that fits a u64.
func ScaleAmount(amount decimal.Decimal, decimals uint8) (uint64, error) {
	if amount.IsNegative() {
		return 0, apperr.Validation("amount must not be negative")
	}
	raw := amount.Shift(int32(decimals))
	if !raw.IsInteger() {
		return 0, apperr.Validation("amount %s has more than %d decimal places", amount.String(), decimals)
	}
	if raw.GreaterThan(maxRaw) {
		return 0, apperr.Validation("amount %s exceeds the largest mintable value", amount.String())
	}
	return raw.BigInt().Uint64(), nil
}

// FormatRaw renders base units as a human amount.
func FormatRaw(raw uint64, decimals uint8) string {
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -int32(decimals))
	return d.StringFixed(int32(decimals))
}
