// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/railbook/internal/i18n"
	"github.com/toeirei/railbook/internal/model"
	"github.com/toeirei/railbook/util/slicest"
)

// trainChosenMsg is sent when a search result is selected.
type trainChosenMsg struct{ trainNo string }

// trainsModel lists search results in a table.
type trainsModel struct {
	trains []model.Train
	table  table.Model
}

func newTrainsModel(trains []model.Train, height int) trainsModel {
	cols := []table.Column{
		{Title: "#", Width: 3},
		{Title: i18n.T("trains.col.no"), Width: 10},
		{Title: i18n.T("trains.col.name"), Width: 24},
		{Title: i18n.T("trains.col.route"), Width: 30},
		{Title: i18n.T("trains.col.free"), Width: 10},
	}
	rows := slicest.MapI(trains, func(i int, t model.Train) table.Row {
		return table.Row{
			strconv.Itoa(i + 1),
			t.TrainNo,
			t.TrainName,
			fmt.Sprintf("%s → %s", t.Source(), t.Destination()),
			strconv.Itoa(t.Seats.FreeCount()),
		}
	})
	h := len(rows) + 1
	if height > 8 && h > height-8 {
		h = height - 8
	}
	tbl := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(h),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(colorSubtle)
	s.Selected = s.Selected.Foreground(colorWhite).Background(colorHighlight)
	tbl.SetStyles(s)
	return trainsModel{trains: trains, table: tbl}
}

func (m trainsModel) Update(msg tea.Msg) (trainsModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, defaultKeyMap.Back):
			return m, backCmd
		case key.Matches(keyMsg, defaultKeyMap.Select):
			i := m.table.Cursor()
			if i < 0 || i >= len(m.trains) {
				return m, nil
			}
			no := m.trains[i].TrainNo
			return m, func() tea.Msg { return trainChosenMsg{trainNo: no} }
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m trainsModel) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(i18n.T("trains.title")),
		m.table.View(),
		"",
		renderHelp(listKeys),
	)
}
