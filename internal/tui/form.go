// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/railbook/internal/i18n"
)

type formField struct {
	prompt      string
	placeholder string
	secret      bool
}

// formSubmittedMsg carries the trimmed values of a submitted form, in field
// order. Secret fields are not trimmed.
type formSubmittedMsg struct{ values []string }

// formModel is a column of text inputs. Enter on the last input submits.
type formModel struct {
	title      string
	focusIndex int
	inputs     []textinput.Model
	secret     []bool
	err        string
	note       string
}

func newFormModel(title string, fields ...formField) formModel {
	m := formModel{
		title:  title,
		inputs: make([]textinput.Model, len(fields)),
		secret: make([]bool, len(fields)),
	}
	width := 0
	for _, f := range fields {
		if w := lipgloss.Width(f.prompt); w > width {
			width = w
		}
	}
	for i, f := range fields {
		t := textinput.New()
		t.Cursor.Style = focusedStyle
		t.CharLimit = 128
		t.Width = 40
		t.Prompt = f.prompt + strings.Repeat(" ", width-lipgloss.Width(f.prompt)+1)
		t.Placeholder = f.placeholder
		if f.secret {
			t.EchoMode = textinput.EchoPassword
			t.EchoCharacter = '•'
		}
		m.inputs[i] = t
		m.secret[i] = f.secret
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
		m.inputs[0].TextStyle = focusedStyle
	}
	return m
}

func newLoginForm() formModel {
	return newFormModel(i18n.T("form.login.title"),
		formField{prompt: i18n.T("form.login.login"), placeholder: "name@example.com"},
		formField{prompt: i18n.T("form.login.password"), secret: true},
	)
}

func newSignUpForm() formModel {
	return newFormModel(i18n.T("form.signup.title"),
		formField{prompt: i18n.T("form.signup.name")},
		formField{prompt: i18n.T("form.signup.email"), placeholder: "name@example.com"},
		formField{prompt: i18n.T("form.signup.phone")},
		formField{prompt: i18n.T("form.signup.password"), secret: true},
	)
}

func newSearchForm() formModel {
	return newFormModel(i18n.T("form.search.title"),
		formField{prompt: i18n.T("form.search.source"), placeholder: "Mumbai"},
		formField{prompt: i18n.T("form.search.destination"), placeholder: "Hyderabad"},
	)
}

func newDateForm() formModel {
	return newFormModel(i18n.T("form.date.title"),
		formField{prompt: i18n.T("form.date.prompt"), placeholder: "15-08-2026 10:30 AM"},
	)
}

func newCancelForm() formModel {
	return newFormModel(i18n.T("form.cancel.title"),
		formField{prompt: i18n.T("form.cancel.ticket_id")},
	)
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch s := keyMsg.String(); s {
		case "esc":
			return m, backCmd
		case "enter", "tab", "down", "shift+tab", "up":
			if s == "enter" && m.focusIndex == len(m.inputs)-1 {
				values := m.values()
				return m, func() tea.Msg { return formSubmittedMsg{values: values} }
			}
			if s == "up" || s == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}
			if m.focusIndex >= len(m.inputs) {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs) - 1
			}
			return m, m.refocus()
		}
	}
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m *formModel) refocus() tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		if i == m.focusIndex {
			cmds[i] = m.inputs[i].Focus()
			m.inputs[i].TextStyle = focusedStyle
			continue
		}
		m.inputs[i].Blur()
		m.inputs[i].TextStyle = lipgloss.NewStyle()
	}
	return tea.Batch(cmds...)
}

func (m formModel) values() []string {
	out := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		if m.secret[i] {
			out[i] = in.Value()
		} else {
			out[i] = strings.TrimSpace(in.Value())
		}
	}
	return out
}

// withError returns the form with an error line and the secret fields cleared.
func (m formModel) withError(msg string) formModel {
	m.err = msg
	for i := range m.inputs {
		if m.secret[i] {
			m.inputs[i].SetValue("")
		}
	}
	return m
}

func (m formModel) View() string {
	lines := []string{titleStyle.Render(m.title)}
	for _, in := range m.inputs {
		lines = append(lines, in.View())
	}
	if m.note != "" {
		lines = append(lines, "", specialStyle.Render(m.note))
	}
	if m.err != "" {
		lines = append(lines, "", errorStyle.Render(m.err))
	}
	lines = append(lines, "", helpStyle.Render(i18n.T("form.hint")))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
