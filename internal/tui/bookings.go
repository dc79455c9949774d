// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/railbook/internal/i18n"
	"github.com/toeirei/railbook/internal/model"
)

// cancelRequestedMsg asks the router to cancel a ticket.
type cancelRequestedMsg struct{ ticketID string }

// bookingsModel lists the logged-in user's tickets.
type bookingsModel struct {
	tickets []model.Ticket
	cursor  int
}

func newBookingsModel(tickets []model.Ticket) bookingsModel {
	return bookingsModel{tickets: tickets}
}

func (m bookingsModel) Update(msg tea.Msg) (bookingsModel, tea.Cmd) {
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
		if m.cursor < len(m.tickets)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, defaultKeyMap.Cancel):
		if len(m.tickets) == 0 {
			return m, nil
		}
		id := m.tickets[m.cursor].TicketID
		return m, func() tea.Msg { return cancelRequestedMsg{ticketID: id} }
	}
	return m, nil
}

func (m bookingsModel) View() string {
	lines := []string{titleStyle.Render(i18n.T("bookings.title"))}
	if len(m.tickets) == 0 {
		lines = append(lines, helpStyle.Render(i18n.T("bookings.none")))
	}
	for i, t := range m.tickets {
		card := t.Info()
		if i == m.cursor {
			lines = append(lines, ticketBoxStyle.Render(card))
		} else {
			lines = append(lines, itemStyle.PaddingLeft(1).Render(card))
		}
	}
	lines = append(lines, "", renderHelp(bookingsKeys))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
