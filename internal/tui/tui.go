// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui provides the interactive terminal interface for Mintmaster.
// The top-level model routes key presses between the setup screen, the
// wallet view with its mint list, and the create-mint and mint-to forms.
// Ledger requests run inside tea.Cmd goroutines so the view keeps rendering
// while the orchestrator is Pending.
package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/mintmaster/internal/apperr"
	"github.com/toeirei/mintmaster/internal/config"
	"github.com/toeirei/mintmaster/internal/i18n"
	"github.com/toeirei/mintmaster/internal/keypair"
	"github.com/toeirei/mintmaster/internal/logging"
	"github.com/toeirei/mintmaster/internal/mint"
	"github.com/toeirei/mintmaster/internal/session"
	"github.com/toeirei/mintmaster/internal/ui"
)

// statusTTL is how long a transient status message stays on screen.
const statusTTL = 3 * time.Second

// screen is the currently active view.
type screen int

const (
	setupScreen screen = iota
	importScreen
	walletScreen
	confirmEraseScreen
	createMintScreen
	mintToScreen
)

// walletMsg carries the keypair and mint list after load, generate,
// import or erase.
type walletMsg struct {
	kp   *keypair.Keypair
	note string
	err  error
}

type mintCreatedMsg struct {
	rec mint.Record
	err error
}

type mintedMsg struct {
	res mint.MintToResult
	err error
}

type selectedMsg struct {
	mint string
	err  error
}

type copiedMsg struct{ err error }

// clearStatusMsg clears the status line unless a newer message replaced it.
type clearStatusMsg struct{ seq int }

type model struct {
	ctx  context.Context
	sess *session.Session
	cfg  config.MintConfig

	screen   screen
	kp       *keypair.Keypair
	revealed bool
	records  []mint.Record
	selected string
	cursor   int

	form    form
	pending bool
	spinner spinner.Model

	status    string
	statusErr bool
	statusSeq int
	statusTTL time.Duration

	copyFn func(string) error
	width  int
}

func newModel(ctx context.Context, sess *session.Session, cfg config.MintConfig) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedItemStyle
	return model{
		ctx:       ctx,
		sess:      sess,
		cfg:       cfg,
		screen:    setupScreen,
		spinner:   sp,
		statusTTL: statusTTL,
		copyFn:    clipboard.WriteAll,
	}
}

// Run starts the TUI and blocks until the user quits. Logs are diverted to
// logOut while the program owns the terminal.
func Run(ctx context.Context, sess *session.Session, cfg config.MintConfig, logOut io.Writer) error {
	logging.SetOutput(logOut)
	if _, err := tea.NewProgram(newModel(ctx, sess, cfg), tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		kp, err := m.sess.Keypair(m.ctx)
		return walletMsg{kp: kp, err: err}
	}
}

func (m model) generateCmd() tea.Cmd {
	return func() tea.Msg {
		kp, err := m.sess.Keys.Generate(m.ctx)
		return walletMsg{kp: kp, note: "tui.generated", err: err}
	}
}

func (m model) importCmd(encoded string) tea.Cmd {
	return func() tea.Msg {
		kp, err := m.sess.Keys.ImportFromEncoded(m.ctx, encoded)
		return walletMsg{kp: kp, note: "tui.imported", err: err}
	}
}

func (m model) eraseCmd() tea.Cmd {
	return func() tea.Msg {
		return walletMsg{note: "tui.erased", err: m.sess.Keys.Erase(m.ctx)}
	}
}

func (m model) createMintCmd(decimals int, freeze string) tea.Cmd {
	kp := m.kp
	return func() tea.Msg {
		rec, err := m.sess.Mints.CreateMint(m.ctx, kp, decimals, freeze)
		return mintCreatedMsg{rec: rec, err: err}
	}
}

func (m model) mintToCmd(mintAddr, owner, amount string) tea.Cmd {
	kp := m.kp
	return func() tea.Msg {
		amt, err := mint.ParseAmount(amount)
		if err != nil {
			return mintedMsg{err: err}
		}
		res, err := m.sess.Mints.MintTo(m.ctx, kp, mintAddr, owner, amt)
		return mintedMsg{res: res, err: err}
	}
}

func (m model) selectCmd(mintAddr string) tea.Cmd {
	return func() tea.Msg {
		return selectedMsg{mint: mintAddr, err: m.sess.Mints.Select(m.ctx, mintAddr)}
	}
}

func (m model) copyCmd(text string) tea.Cmd {
	return func() tea.Msg { return copiedMsg{err: m.copyFn(text)} }
}

// setStatus shows a transient message and schedules its removal.
func (m *model) setStatus(text string, isErr bool) tea.Cmd {
	m.status = text
	m.statusErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(m.statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

func (m *model) fail(err error) tea.Cmd {
	logging.Component("tui").Debug("request failed", "err", err)
	return m.setStatus(ui.ErrorMessage(err), true)
}

// sync copies the orchestrator's list and selection into the view.
func (m *model) sync() {
	m.records = m.sess.Mints.Records()
	m.selected = m.sess.Mints.Selected()
	if m.cursor >= len(m.records) {
		m.cursor = len(m.records) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case walletMsg:
		m.revealed = false
		if msg.err != nil {
			if m.screen == confirmEraseScreen {
				m.screen = walletScreen
			}
			cmd := m.fail(msg.err)
			return m, cmd
		}
		m.kp = msg.kp
		m.sync()
		m.screen = walletScreen
		if m.kp == nil {
			m.screen = setupScreen
		}
		if msg.note != "" {
			cmd := m.setStatus(i18n.T(msg.note), false)
			return m, cmd
		}
		return m, nil

	case mintCreatedMsg:
		m.pending = false
		if msg.err != nil {
			cmd := m.fail(msg.err)
			return m, cmd
		}
		m.sync()
		m.cursor = len(m.records) - 1
		cmd := m.setStatus(i18n.T("tui.mint_created", ui.MaskShort(msg.rec.Mint)), false)
		return m, cmd

	case mintedMsg:
		m.pending = false
		if msg.err != nil {
			cmd := m.fail(msg.err)
			return m, cmd
		}
		cmd := m.setStatus(i18n.T("tui.minted", msg.res.Amount.String(), ui.MaskShort(msg.res.Destination), ui.MaskShort(msg.res.Signature)), false)
		return m, cmd

	case selectedMsg:
		if msg.err != nil {
			cmd := m.fail(msg.err)
			return m, cmd
		}
		m.sync()
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			cmd := m.setStatus(i18n.T("tui.copy_failed", msg.err), true)
			return m, cmd
		}
		cmd := m.setStatus(i18n.T("tui.copied"), false)
		return m, cmd
	}

	if m.screen == importScreen || m.screen == createMintScreen || m.screen == mintToScreen {
		cmd := m.form.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case setupScreen:
		switch msg.String() {
		case "g":
			if m.pending {
				cmd := m.fail(apperr.ErrOperationInProgress)
				return m, cmd
			}
			return m, m.generateCmd()
		case "i":
			if m.pending {
				cmd := m.fail(apperr.ErrOperationInProgress)
				return m, cmd
			}
			m.screen = importScreen
			m.form = newForm(newInput(i18n.T("tui.import_prompt"), i18n.T("tui.import_placeholder"), "", true))
			m.form.inputs[0].CharLimit = 256
		case "q":
			return m, tea.Quit
		}
		return m, nil

	case importScreen:
		switch msg.String() {
		case "esc":
			m.form.clear()
			m.screen = setupScreen
			return m, nil
		case "enter":
			encoded := m.form.value(0)
			m.form.clear()
			return m, m.importCmd(encoded)
		}
		cmd := m.form.update(msg)
		return m, cmd

	case confirmEraseScreen:
		switch msg.String() {
		case "y", "Y":
			if m.pending {
				m.screen = walletScreen
				cmd := m.fail(apperr.ErrOperationInProgress)
				return m, cmd
			}
			return m, m.eraseCmd()
		case "n", "N", "esc":
			m.screen = walletScreen
		}
		return m, nil

	case createMintScreen, mintToScreen:
		switch msg.String() {
		case "esc":
			m.screen = walletScreen
			return m, nil
		case "tab", "down":
			m.form.move(1)
			return m, nil
		case "shift+tab", "up":
			m.form.move(-1)
			return m, nil
		case "enter":
			return m.submitForm()
		}
		cmd := m.form.update(msg)
		return m, cmd
	}

	return m.handleWalletKey(msg)
}

func (m model) handleWalletKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		m.revealed = ui.RevealToggle(m.revealed)
	case "c":
		return m, m.copyCmd(m.kp.PublicKeyBase58())
	case "d":
		// Erasing would race the request still in flight.
		if m.pending {
			cmd := m.fail(apperr.ErrOperationInProgress)
			return m, cmd
		}
		m.screen = confirmEraseScreen
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}
	case " ", "s":
		if len(m.records) > 0 {
			return m, m.selectCmd(m.records[m.cursor].Mint)
		}
	case "n":
		m.screen = createMintScreen
		m.form = newForm(
			newInput(i18n.T("tui.decimals_prompt"), "0-9", strconv.Itoa(m.cfg.DefaultDecimals), false),
			newInput(i18n.T("tui.freeze_prompt"), i18n.T("tui.optional"), "", false),
		)
	case "enter":
		if len(m.records) == 0 {
			cmd := m.setStatus(i18n.T("tui.no_mints"), true)
			return m, cmd
		}
		target := m.records[m.cursor].Mint
		m.screen = mintToScreen
		m.form = newForm(
			newInput(i18n.T("tui.amount_prompt"), "10", m.cfg.DefaultAmount, false),
			newInput(i18n.T("tui.owner_prompt"), ui.MaskShort(m.kp.PublicKeyBase58()), "", false),
		)
		if target != m.selected {
			return m, m.selectCmd(target)
		}
	}
	return m, nil
}

func (m model) submitForm() (tea.Model, tea.Cmd) {
	var req tea.Cmd
	switch m.screen {
	case createMintScreen:
		decimals, err := strconv.Atoi(m.form.value(0))
		if err != nil {
			cmd := m.fail(apperr.Validation("decimals %q is not a number", m.form.value(0)))
			return m, cmd
		}
		req = m.createMintCmd(decimals, m.form.value(1))
	case mintToScreen:
		if len(m.records) == 0 {
			cmd := m.fail(apperr.Validation("no mint selected"))
			return m, cmd
		}
		req = m.mintToCmd(m.records[m.cursor].Mint, m.form.value(1), m.form.value(0))
	default:
		return m, nil
	}
	m.screen = walletScreen
	m.pending = true
	return m, tea.Batch(m.spinner.Tick, req)
}
