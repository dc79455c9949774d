// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/railbook/internal/i18n"
	"github.com/toeirei/railbook/internal/model"
)

// seatChosenMsg is sent when enter is pressed on a seat.
type seatChosenMsg struct{ row, seat int }

// seatsModel renders a train's seat grid with a movable cursor.
type seatsModel struct {
	train     model.Train
	row, seat int
	err       string
}

func newSeatsModel(t model.Train) seatsModel {
	m := seatsModel{train: t}
	// Start on the first free seat.
	for r, cells := range t.Seats {
		for s := range cells {
			if t.Seats.IsFree(r, s) {
				m.row, m.seat = r, s
				return m
			}
		}
	}
	return m
}

func (m seatsModel) Update(msg tea.Msg) (seatsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	rows, cols := m.train.Seats.Dimensions()
	switch {
	case key.Matches(keyMsg, defaultKeyMap.Back):
		return m, backCmd
	case key.Matches(keyMsg, defaultKeyMap.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(keyMsg, defaultKeyMap.Down):
		if m.row < rows-1 {
			m.row++
		}
	case key.Matches(keyMsg, defaultKeyMap.Left):
		if m.seat > 0 {
			m.seat--
		}
	case key.Matches(keyMsg, defaultKeyMap.Right):
		if m.seat < cols-1 {
			m.seat++
		}
	case key.Matches(keyMsg, defaultKeyMap.Select):
		r, s := m.row, m.seat
		return m, func() tea.Msg { return seatChosenMsg{row: r, seat: s} }
	}
	m.err = ""
	return m, nil
}

func (m seatsModel) View() string {
	var sb strings.Builder
	for r, cells := range m.train.Seats {
		sb.WriteString(i18n.T("seats.row", r))
		for s, v := range cells {
			cell := " 0 "
			style := seatFreeStyle
			if v != model.SeatFree {
				cell = " 1 "
				style = seatBookedStyle
			}
			if r == m.row && s == m.seat {
				style = seatCursorStyle
			}
			sb.WriteString(style.Render(cell))
		}
		sb.WriteString("\n")
	}
	lines := []string{
		titleStyle.Render(i18n.T("seats.title", m.train.Info())),
		helpStyle.Render(i18n.T("seats.legend")),
		"",
		sb.String(),
		i18n.T("seats.selected", m.row, m.seat),
	}
	if m.err != "" {
		lines = append(lines, "", errorStyle.Render(m.err))
	}
	lines = append(lines, "", renderHelp(gridKeys))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
