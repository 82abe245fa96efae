// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/toeirei/mintmaster/internal/apperr"
	"github.com/toeirei/mintmaster/internal/i18n"
	"github.com/toeirei/mintmaster/internal/mint"
	"github.com/toeirei/mintmaster/internal/ui"
)

func newMintCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Create SPL mints and mint tokens",
	}
	cmd.AddCommand(
		newMintCreateCmd(a),
		newMintListCmd(a),
		newMintSelectCmd(a),
		newMintToCmd(a),
		newMintExportCmd(a),
		newMintImportCmd(a),
	)
	return cmd
}

func newMintCreateCmd(a *app) *cobra.Command {
	var freeze string
	var decimals int
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a mint with the session keypair as payer and mint authority",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("decimals") {
				decimals = a.cfg.Mint.DefaultDecimals
			}
			kp, err := a.sess.Keypair(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := a.sess.Mints.CreateMint(cmd.Context(), kp, decimals, freeze)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.mint_created", rec.Mint, rec.Decimals))
			return nil
		},
	}
	cmd.Flags().IntVar(&decimals, "decimals", 6, "Decimal places of the token (0-9, default from config)")
	cmd.Flags().StringVar(&freeze, "freeze-authority", "", "Optional freeze authority address")
	return cmd
}

func newMintListCmd(a *app) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the mints created in this session",
		RunE: func(cmd *cobra.Command, args []string) error {
			records := a.sess.Mints.Records()
			selected := a.sess.Mints.Selected()
			out := cmd.OutOrStdout()

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			shown := 0
			for _, r := range records {
				if filter != "" && !ui.ContainsIgnoreCase(r.Mint, filter) {
					continue
				}
				if shown == 0 {
					fmt.Fprintln(w, "\tMINT\tDECIMALS\tFREEZE AUTHORITY\tCREATED")
				}
				shown++
				mark := ""
				if r.Mint == selected {
					mark = "*"
				}
				freeze := "-"
				if r.FreezeAuthority != nil {
					freeze = *r.FreezeAuthority
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", mark, r.Mint, r.Decimals, freeze, r.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			if shown == 0 {
				fmt.Fprintln(out, i18n.T("tui.no_mints"))
				return nil
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Only show mints whose address contains this text")
	return cmd
}

func newMintSelectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select <mint>",
		Short: "Select the mint used by 'mint to'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sess.Mints.Select(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.mint_selected", args[0]))
			return nil
		},
	}
}

func newMintToCmd(a *app) *cobra.Command {
	var mintAddr, owner, amount string
	cmd := &cobra.Command{
		Use:   "to",
		Short: "Mint tokens to the associated token account of an owner",
		Long: `Mints --amount tokens of the selected mint, or of --mint, to the associated
token account of --owner. Without --owner the tokens go to the session
keypair's own account. The account is created when it does not exist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if mintAddr == "" {
				if rec, ok := a.sess.Mints.SelectedRecord(); ok {
					mintAddr = rec.Mint
				}
			}
			if mintAddr == "" {
				return apperr.Validation("no mint selected; create one or pass --mint")
			}
			if amount == "" {
				amount = a.cfg.Mint.DefaultAmount
			}
			amt, err := mint.ParseAmount(amount)
			if err != nil {
				return err
			}
			kp, err := a.sess.Keypair(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.sess.Mints.MintTo(cmd.Context(), kp, mintAddr, owner, amt)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, i18n.T("cli.minted", mint.FormatRaw(res.Raw, res.Decimals), res.Mint, res.Owner))
			fmt.Fprintln(out, i18n.T("cli.minted_detail", res.Destination, strconv.FormatUint(res.Raw, 10), res.Signature))
			return nil
		},
	}
	cmd.Flags().StringVar(&mintAddr, "mint", "", "Mint address (default: the selected mint)")
	cmd.Flags().StringVar(&owner, "owner", "", "Destination owner (default: the session keypair)")
	cmd.Flags().StringVar(&amount, "amount", "", "Token amount, e.g. 10 or 0.5 (default from config)")
	return cmd
}

func newMintExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the mint list to a compressed snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.OpenFile(args[0], os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if err != nil {
				return err
			}
			records := a.sess.Mints.Records()
			if err := mint.Export(f, records); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.exported", len(records), args[0]))
			return nil
		},
	}
}

func newMintImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add mints from a snapshot written by 'mint export'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.sess.Keys.HasKeypair(cmd.Context()) {
				return apperr.ErrNoKeypair
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			records, err := mint.Import(f)
			if err != nil {
				return err
			}
			added := a.sess.Mints.Adopt(cmd.Context(), records)
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.imported_mints", added, len(records)-added))
			return nil
		},
	}
}
