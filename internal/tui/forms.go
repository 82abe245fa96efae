// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// form is a vertical stack of text inputs with a single focused field.
type form struct {
	inputs []textinput.Model
	focus  int
}

func newInput(prompt, placeholder, value string, masked bool) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.Width = 60
	ti.Cursor.SetMode(cursor.CursorStatic)
	if masked {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	ti.SetValue(value)
	return ti
}

func newForm(inputs ...textinput.Model) form {
	f := form{inputs: inputs}
	f.inputs[0].Focus()
	return f
}

func (f *form) move(delta int) {
	f.inputs[f.focus].Blur()
	n := len(f.inputs)
	f.focus = ((f.focus+delta)%n + n) % n
	f.inputs[f.focus].Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// clear drops every typed value, e.g. a pasted secret key after submit.
func (f *form) clear() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
}

func (f form) view() string {
	rows := make([]string, 0, len(f.inputs))
	for _, in := range f.inputs {
		rows = append(rows, in.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
