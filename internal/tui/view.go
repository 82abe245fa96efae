// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/mintmaster/internal/i18n"
	"github.com/toeirei/mintmaster/internal/ui"
)

func (m model) View() string {
	var body, help string
	switch m.screen {
	case setupScreen:
		body = m.setupView()
		help = i18n.T("tui.help_setup")
	case importScreen:
		body = paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			i18n.T("tui.import_title"), "", m.form.view()))
		help = i18n.T("tui.help_form")
	case confirmEraseScreen:
		body = dialogBoxStyle.Render(specialStyle.Render(i18n.T("tui.erase_confirm")))
		help = i18n.T("tui.help_confirm")
	case createMintScreen:
		body = paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			i18n.T("tui.create_title"), "", m.form.view()))
		help = i18n.T("tui.help_form")
	case mintToScreen:
		target := ""
		if len(m.records) > 0 {
			target = m.records[m.cursor].Mint
		}
		body = paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			i18n.T("tui.mint_to_title", target), "", m.form.view()))
		help = i18n.T("tui.help_form")
	default:
		body = m.walletView()
		help = i18n.T("tui.help_wallet")
	}

	title := mainTitleStyle.Render("◎ " + i18n.T("tui.title"))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		title, "", body, "", m.statusLine(), footerStyle.Render(help)))
}

func (m model) setupView() string {
	return paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		i18n.T("tui.no_keypair"),
		"",
		helpStyle.Render(i18n.T("tui.setup_hint")),
	))
}

func (m model) walletView() string {
	if m.kp == nil {
		return m.setupView()
	}
	secret := ui.SecretView(m.kp.SecretKeyBase58(), m.revealed)
	key := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render(i18n.T("tui.public_key"))+m.kp.PublicKeyBase58(),
		labelStyle.Render(i18n.T("tui.secret_key"))+secret,
	)

	var rows []string
	if len(m.records) == 0 {
		rows = append(rows, helpStyle.Render(i18n.T("tui.no_mints")))
	}
	for i, r := range m.records {
		mark := "  "
		if r.Mint == m.selected {
			mark = "● "
		}
		line := mark + r.Mint + "  " + i18n.T("tui.decimals_short", r.Decimals)
		if r.FreezeAuthority != nil {
			line += "  " + i18n.T("tui.freeze_short", ui.MaskShort(*r.FreezeAuthority))
		}
		if i == m.cursor {
			rows = append(rows, selectedItemStyle.Render("> "+line))
			continue
		}
		rows = append(rows, itemStyle.Render(line))
	}
	mints := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{i18n.T("tui.mints_title", len(m.records))}, rows...)...)

	return lipgloss.JoinVertical(lipgloss.Left, paneStyle.Render(key), "", paneStyle.Render(mints))
}

func (m model) statusLine() string {
	var parts []string
	if m.pending {
		parts = append(parts, m.spinner.View()+" "+i18n.T("tui.pending"))
	}
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, errorStyle.Render(m.status))
		} else {
			parts = append(parts, successStyle.Render(m.status))
		}
	}
	if len(parts) == 0 {
		return statusMessageStyle.Render(i18n.T("tui.ready"))
	}
	return strings.Join(parts, "  ")
}
