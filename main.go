// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Mintmaster.
//
// Usage:
//
//	go run . [flags]
//	./mintmaster [command] [flags]
//
// Without a command it launches the TUI. See --help for options.
package main

import (
	"os"

	"github.com/toeirei/mintmaster/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
