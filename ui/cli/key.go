// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/mintmaster/internal/apperr"
	"github.com/toeirei/mintmaster/internal/i18n"
	"github.com/toeirei/mintmaster/internal/logging"
)

func newKeyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the session keypair (generate, import, show, erase)",
	}
	cmd.AddCommand(newKeyGenerateCmd(a), newKeyImportCmd(a), newKeyShowCmd(a), newKeyEraseCmd(a))
	return cmd
}

// confirmReplace asks before a new keypair replaces the current one.
func (a *app) confirmReplace(cmd *cobra.Command, force bool) (bool, error) {
	if force || !a.sess.Keys.HasKeypair(cmd.Context()) {
		return true, nil
	}
	return a.prompt.Confirm(i18n.T("cli.confirm_replace"))
}

func newKeyGenerateCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new keypair and make it the session keypair",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.confirmReplace(cmd, force)
			if err != nil || !ok {
				return err
			}
			kp, err := a.sess.Keys.Generate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.key_generated", kp.PublicKeyBase58()))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing keypair without asking")
	return cmd
}

func newKeyImportCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a base58 encoded 64-byte secret key",
		Long: `Reads the secret key from the terminal without echo, or from stdin when
it is piped. The key is never accepted as an argument so it cannot end up in
the shell history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.confirmReplace(cmd, force)
			if err != nil || !ok {
				return err
			}
			encoded, err := a.prompt.Secret(i18n.T("cli.secret_prompt"))
			if err != nil {
				return fmt.Errorf("read secret key: %w", err)
			}
			kp, err := a.sess.Keys.ImportFromEncoded(cmd.Context(), encoded)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.key_imported", kp.PublicKeyBase58()))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing keypair without asking")
	return cmd
}

func newKeyShowCmd(a *app) *cobra.Command {
	var reveal, copyKey bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the public key, and the secret key with --reveal",
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, err := a.sess.Keypair(cmd.Context())
			if err != nil {
				return err
			}
			if kp == nil {
				return apperr.ErrNoKeypair
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, i18n.T("cli.public_key", kp.PublicKeyBase58()))
			if reveal {
				fmt.Fprintln(cmd.ErrOrStderr(), warningStyle.Render(i18n.T("cli.reveal_warning")))
				fmt.Fprintln(out, i18n.T("cli.secret_key", kp.SecretKeyBase58()))
			}
			if copyKey {
				if err := a.copy(kp.PublicKeyBase58()); err != nil {
					logging.Warnf("clipboard unavailable: %v", err)
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(out, i18n.T("tui.copied"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Also print the secret key")
	cmd.Flags().BoolVar(&copyKey, "copy", false, "Copy the public key to the clipboard")
	return cmd
}

func newKeyEraseCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "erase",
		Short: "Erase the keypair and the mint list from the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				ok, err := a.prompt.Confirm(i18n.T("tui.erase_confirm"))
				if err != nil || !ok {
					return err
				}
			}
			if err := a.sess.Keys.Erase(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("tui.erased"))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Do not ask for confirmation")
	return cmd
}
