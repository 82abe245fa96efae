// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package security keeps signing keys in redacting, zeroizable wrappers so
// the session secret never reaches logs, config dumps or JSON output.
package security
