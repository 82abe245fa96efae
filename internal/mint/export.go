// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package mint

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
)

const exportVersion = 1

// exportFile is the snapshot layout. It carries public mint data only.
type exportFile struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	Records    []Record  `json:"records"`
}

// Export writes records as zstd-compressed JSON.
func Export(w io.Writer, records []Record) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if records == nil {
		records = []Record{}
	}
	if err := enc.Encode(exportFile{Version: exportVersion, ExportedAt: time.Now().UTC(), Records: records}); err != nil {
		_ = zw.Close()
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}
	return zw.Close()
}

// Import reads a snapshot written by Export.
func Import(r io.Reader) ([]Record, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zr.Close()

	var f exportFile
	if err := json.NewDecoder(zr).Decode(&f); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	if f.Version != exportVersion {
		return nil, fmt.Errorf("unsupported export version %d", f.Version)
	}
	for _, rec := range f.Records {
		if err := rec.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Records, nil
}
