// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/toeirei/mintmaster/internal/i18n"
)

// Config is the application configuration.
type Config struct {
	Cluster  ClusterConfig `mapstructure:"cluster" yaml:"cluster"`
	Store    StoreConfig   `mapstructure:"store" yaml:"store"`
	Mint     MintConfig    `mapstructure:"mint" yaml:"mint"`
	Language string        `mapstructure:"language" yaml:"language"`
}

// ClusterConfig selects the Solana cluster.
type ClusterConfig struct {
	Endpoint   string        `mapstructure:"endpoint" yaml:"endpoint"`
	Commitment string        `mapstructure:"commitment" yaml:"commitment"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// StoreConfig selects the session store. The passphrase is never written
// to disk.
type StoreConfig struct {
	Type            string `mapstructure:"type" yaml:"type"`
	DSN             string `mapstructure:"dsn" yaml:"dsn"`
	Passphrase      string `mapstructure:"passphrase" yaml:"-"`
	CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file,omitempty"`
}

// MintConfig holds form defaults.
type MintConfig struct {
	DefaultDecimals  int    `mapstructure:"default_decimals" yaml:"default_decimals"`
	DefaultAmount    string `mapstructure:"default_amount" yaml:"default_amount"`
	DecimalsFallback bool   `mapstructure:"decimals_fallback" yaml:"decimals_fallback"`
}

// Defaults returns the built-in configuration as viper keys.
func Defaults() map[string]any {
	return map[string]any{
		"cluster.endpoint":       "devnet",
		"cluster.commitment":     "confirmed",
		"cluster.timeout":        "60s",
		"store.type":             "sqlite",
		"store.dsn":              "./mintmaster.db",
		"store.passphrase":       "",
		"store.credentials_file": "",
		"mint.default_decimals":  6,
		"mint.default_amount":    "10",
		"mint.decimals_fallback": false,
		"language":               "en",
	}
}

// Default returns Defaults as a Config.
func Default() Config {
	return Config{
		Cluster:  ClusterConfig{Endpoint: "devnet", Commitment: "confirmed", Timeout: 60 * time.Second},
		Store:    StoreConfig{Type: "sqlite", DSN: "./mintmaster.db"},
		Mint:     MintConfig{DefaultDecimals: 6, DefaultAmount: "10"},
		Language: "en",
	}
}

var storeTypes = map[string]bool{
	"memory": true, "sqlite": true, "postgres": true, "mysql": true, "redis": true, "secretmanager": true,
}

var commitments = map[string]bool{"processed": true, "confirmed": true, "finalized": true}

// Validate checks values that would otherwise fail deep inside a command.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Cluster.Endpoint) == "" {
		return fmt.Errorf("cluster.endpoint must not be empty")
	}
	if !commitments[strings.ToLower(c.Cluster.Commitment)] {
		return fmt.Errorf("cluster.commitment %q is not one of processed, confirmed, finalized", c.Cluster.Commitment)
	}
	if c.Cluster.Timeout <= 0 {
		return fmt.Errorf("cluster.timeout must be positive")
	}
	if !storeTypes[strings.ToLower(c.Store.Type)] {
		return fmt.Errorf("store.type %q is not supported", c.Store.Type)
	}
	if c.Mint.DefaultDecimals < 0 || c.Mint.DefaultDecimals > 9 {
		return fmt.Errorf("mint.default_decimals must be between 0 and 9")
	}
	if d, err := decimal.NewFromString(c.Mint.DefaultAmount); err != nil || d.IsNegative() {
		return fmt.Errorf("mint.default_amount %q is not a non-negative number", c.Mint.DefaultAmount)
	}
	if lang := baseLanguage(c.Language); lang != "" {
		if _, ok := i18n.GetAvailableLocales()[lang]; !ok {
			return fmt.Errorf("language %q has no translation", c.Language)
		}
	}
	return nil
}

// baseLanguage reduces "de-DE" or "de_DE" to "de".
func baseLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return tag
}
