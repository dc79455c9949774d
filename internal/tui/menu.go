// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/railbook/internal/i18n"
)

// menuAction identifies a menu entry independent of its translated label.
type menuAction int

const (
	actionLogin menuAction = iota
	actionSignUp
	actionLanguage
	actionQuit
	actionSearch
	actionBookings
	actionCancel
	actionLogout
)

type menuItem struct {
	action menuAction
	label  string
}

// menuChosenMsg is sent when enter is pressed on a menu entry.
type menuChosenMsg struct{ action menuAction }

// menuModel holds the state for a simple vertical menu.
type menuModel struct {
	title  string
	items  []menuItem
	cursor int
}

func newWelcomeMenu() menuModel {
	return menuModel{
		title: i18n.T("menu.welcome"),
		items: []menuItem{
			{actionLogin, i18n.T("menu.login")},
			{actionSignUp, i18n.T("menu.signup")},
			{actionLanguage, i18n.T("menu.language")},
			{actionQuit, i18n.T("menu.quit")},
		},
	}
}

func newUserMenu() menuModel {
	return menuModel{
		title: i18n.T("menu.user"),
		items: []menuItem{
			{actionSearch, i18n.T("menu.search")},
			{actionBookings, i18n.T("menu.bookings")},
			{actionCancel, i18n.T("menu.cancel")},
			{actionLogout, i18n.T("menu.logout")},
		},
	}
}

func (m menuModel) Update(msg tea.Msg) (menuModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, defaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, defaultKeyMap.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, defaultKeyMap.Select):
		action := m.items[m.cursor].action
		return m, func() tea.Msg { return menuChosenMsg{action: action} }
	}
	return m, nil
}

func (m menuModel) View() string {
	lines := []string{titleStyle.Render(m.title)}
	for i, it := range m.items {
		if i == m.cursor {
			lines = append(lines, selectedItemStyle.Render("▸ "+it.label))
		} else {
			lines = append(lines, itemStyle.Render("  "+it.label))
		}
	}
	lines = append(lines, "", renderHelp(viewKeys{defaultKeyMap.Up, defaultKeyMap.Down, defaultKeyMap.Select, defaultKeyMap.Quit}))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// languageModel holds the state for the language selection menu.
type languageModel struct {
	choices []string
	cursor  int
}

// languageChangedMsg signals that the UI should be rebuilt with new translations.
type languageChangedMsg struct{ lang string }

func newLanguageModel() languageModel {
	m := languageModel{choices: i18n.Languages()}
	for i, c := range m.choices {
		if c == i18n.Lang() {
			m.cursor = i
		}
	}
	return m
}

func (m languageModel) Update(msg tea.Msg) (languageModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, defaultKeyMap.Back):
		return m, backCmd
	case key.Matches(keyMsg, defaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, defaultKeyMap.Down):
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, defaultKeyMap.Select):
		if len(m.choices) == 0 {
			return m, backCmd
		}
		lang := m.choices[m.cursor]
		i18n.SetLang(lang)
		return m, func() tea.Msg { return languageChangedMsg{lang: lang} }
	}
	return m, nil
}

func (m languageModel) View() string {
	lines := []string{titleStyle.Render(i18n.T("language.title"))}
	for i, c := range m.choices {
		if i == m.cursor {
			lines = append(lines, selectedItemStyle.Render("▸ "+c))
		} else {
			lines = append(lines, itemStyle.Render("  "+c))
		}
	}
	lines = append(lines, "", renderHelp(listKeys))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
