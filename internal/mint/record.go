// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package mint

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/toeirei/mintmaster/internal/addr"
)

// MaxDecimals is the largest precision the mint form accepts.
const MaxDecimals = 9

// Record is a mint created in this session. Records are never modified.
type Record struct {
	Mint            string    `json:"mint"`
	Decimals        uint8     `json:"decimals"`
	FreezeAuthority *string   `json:"freezeAuthority,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Validate checks addresses and precision of a record read from outside.
func (r Record) Validate() error {
	if _, err := addr.Parse(r.Mint); err != nil {
		return fmt.Errorf("mint: %w", err)
	}
	if r.Decimals > MaxDecimals {
		return fmt.Errorf("mint %s: decimals %d out of range", r.Mint, r.Decimals)
	}
	if r.FreezeAuthority != nil {
		if _, err := addr.Parse(*r.FreezeAuthority); err != nil {
			return fmt.Errorf("freeze authority: %w", err)
		}
	}
	return nil
}

// MarshalRecords encodes records for the session journal.
func MarshalRecords(records []Record) (string, error) {
	if records == nil {
		records = []Record{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode mint list: %w", err)
	}
	return string(b), nil
}

// UnmarshalRecords decodes and validates a session journal.
func UnmarshalRecords(s string) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal([]byte(s), &records); err != nil {
		return nil, fmt.Errorf("decode mint list: %w", err)
	}
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("decode mint list: %w", err)
		}
	}
	return records, nil
}
