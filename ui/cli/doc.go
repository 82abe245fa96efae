// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Mintmaster using
// Cobra. Commands stay thin: they load the config, open a session and
// delegate to the keypair manager and the mint orchestrator.
package cli
