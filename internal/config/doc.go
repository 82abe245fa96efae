// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads Mintmaster's configuration with Viper from defaults,
// mintmaster.yaml, MINTMASTER_* environment variables and flags, and writes
// the first-run file with go-yaml.
package config
