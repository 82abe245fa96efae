// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package mint

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImport(t *testing.T) {
	freeze := testKeypair(t, 2).PublicKeyBase58()
	records := []Record{
		{Mint: testKeypair(t, 1).PublicKeyBase58(), Decimals: 6, CreatedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
		{Mint: testKeypair(t, 3).PublicKeyBase58(), Decimals: 0, FreezeAuthority: &freeze, CreatedAt: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, records))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0x28, 0xb5, 0x2f, 0xfd}), "export must be a zstd frame")

	got, err := Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestImportRejectsGarbage(t *testing.T) {
	_, err := Import(strings.NewReader("not zstd"))
	require.Error(t, err)
}

func TestImportRejectsInvalidRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, []Record{{Mint: "bad", Decimals: 6}}))
	_, err := Import(&buf)
	require.Error(t, err)
}

func TestJournalRoundTrip(t *testing.T) {
	s, err := MarshalRecords(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)

	rec := Record{Mint: testKeypair(t, 1).PublicKeyBase58(), Decimals: 9, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s, err = MarshalRecords([]Record{rec})
	require.NoError(t, err)
	assert.NotContains(t, s, "freezeAuthority", "absent freeze authority is omitted")

	got, err := UnmarshalRecords(s)
	require.NoError(t, err)
	assert.Equal(t, []Record{rec}, got)

	_, err = UnmarshalRecords(`[{"mint":"x","decimals":1}]`)
	require.Error(t, err)
	_, err = UnmarshalRecords(`{`)
	require.Error(t, err)
}
