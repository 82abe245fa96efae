// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the cobra command tree for Mintmaster: the root command,
// shared flags, config loading and the session lifecycle around every
// subcommand.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/toeirei/mintmaster/buildvars"
	"github.com/toeirei/mintmaster/internal/config"
	"github.com/toeirei/mintmaster/internal/i18n"
	"github.com/toeirei/mintmaster/internal/logging"
	"github.com/toeirei/mintmaster/internal/session"
	"github.com/toeirei/mintmaster/internal/store"
	"github.com/toeirei/mintmaster/internal/tui"
	"github.com/toeirei/mintmaster/internal/ui"
)

var version = "dev"   // set by the linker
var gitCommit = "dev" // short commit SHA, set at build time
var buildDate = ""    // RFC3339, set at build time

// noSession marks commands that run without opening the store.
const noSession = "mintmaster/no-session"

// app carries the state shared by all subcommands of one invocation.
type app struct {
	cfgFile string
	verbose bool

	cfg  config.Config
	sess *session.Session

	open   func(ctx context.Context, cfg config.Config) (*session.Session, error)
	runTUI func(ctx context.Context, sess *session.Session, cfg config.MintConfig, logOut io.Writer) error
	prompt prompter
	copy   func(string) error
}

func newApp() *app {
	return &app{
		open:   session.Open,
		runTUI: tui.Run,
		prompt: newTermPrompter(os.Stdin, os.Stderr),
		copy:   clipboardWrite,
	}
}

// Execute runs the CLI. The caller handles the process exit code.
func Execute() error {
	a := newApp()
	cmd := newRootCmd(a)
	err := cmd.Execute()
	// PersistentPostRunE is skipped when RunE fails.
	if cerr := a.close(); cerr != nil {
		logging.Warnf("closing session: %v", cerr)
	}
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(ui.ErrorMessage(err)))
		logging.Debugf("command failed: %v", err)
		return err
	}
	return nil
}

// NewRootCmd builds a fresh command tree. Tests create one per run.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mintmaster",
		Short: "Mintmaster manages one Solana keypair and the SPL mints it creates.",
		Long: `Mintmaster keeps a single signing keypair in a local store, creates
SPL token mints with it and mints tokens to associated token accounts.

Running without a subcommand will launch the interactive TUI.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context(), a.sess, a.cfg.Mint, io.Discard)
		},
	}

	v, c, d := resolveBuildVersion(nil)
	cmd.Version = compositeVersion(v, c, d)

	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("cluster", "", `Cluster: devnet, testnet, mainnet-beta, localnet, sandbox or an RPC URL`)
	cmd.PersistentFlags().String("commitment", "", "Confirmation level: processed, confirmed or finalized")
	cmd.PersistentFlags().String("store-type", "", "Store type: sqlite, postgres, mysql, redis, secretmanager or memory")
	cmd.PersistentFlags().String("store-dsn", "", "Store connection string")
	cmd.PersistentFlags().String("language", "", `Language ("en", "de")`)

	versionCmd := &cobra.Command{
		Use:         "version",
		Short:       "Print version",
		Annotations: map[string]string{noSession: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}

	cmd.AddCommand(newKeyCmd(a), newMintCmd(a), versionCmd)
	return cmd
}

// setup loads the config, writes a default file on first run and opens the
// session unless the command opts out.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.verbose {
		logging.SetDebug(true)
	}

	path, err := configPathFromFlag(a.cfgFile)
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig[config.Config](cmd, config.Defaults(), path)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if path == nil && !config.ConfigFileExists() {
		if written, werr := config.WriteConfigFile(&cfg, false); werr != nil {
			logging.Warnf("could not write default config file: %v", werr)
		} else {
			logging.Infof("wrote default config to %s", written)
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	i18n.Init(cfg.Language)
	a.cfg = cfg

	if cmd.Annotations[noSession] == "true" {
		return nil
	}

	if store.NeedsPassphrase(cfg.Store.Type) && cfg.Store.Passphrase == "" {
		pass, err := a.prompt.Secret(i18n.T("cli.passphrase_prompt"))
		if err != nil {
			return fmt.Errorf("read passphrase: %w", err)
		}
		a.cfg.Store.Passphrase = pass
	}

	sess, err := a.open(cmd.Context(), a.cfg)
	a.cfg.Store.Passphrase = ""
	if err != nil {
		return err
	}
	a.sess = sess
	return nil
}

func (a *app) close() error {
	if a.sess == nil {
		return nil
	}
	err := a.sess.Close()
	a.sess = nil
	return err
}

func configPathFromFlag(path string) (*string, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

func compositeVersion(v, c, d string) string {
	out := v
	if c != "" && c != "dev" {
		out += " (" + c + ")"
	}
	if d != "" {
		out += " built: " + d
	}
	return out
}

// resolveBuildVersion computes the best-available version, commit and build
// date. If info is nil it reads build info from the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}
	if info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		if resolvedVersion == "dev" || resolvedVersion == "(devel)" {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/toeirei/mintmaster" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// A bare development build has no version; the commit is the next best thing.
	if (resolvedVersion == "dev" || resolvedVersion == "(devel)") && resolvedCommit != "" && resolvedCommit != "dev" {
		resolvedVersion = resolvedCommit
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}
