// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Cancel key.Binding
	Back   key.Binding
	Quit   key.Binding
}

var defaultKeyMap = keyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("→/l", "right"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("x", "delete"),
		key.WithHelp("x", "cancel ticket"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// viewKeys is the subset of bindings a view advertises in its help line.
type viewKeys []key.Binding

func (v viewKeys) ShortHelp() []key.Binding  { return v }
func (v viewKeys) FullHelp() [][]key.Binding { return [][]key.Binding{v} }

// viewKeys implements help.KeyMap
var _ help.KeyMap = viewKeys(nil)

var (
	listKeys     = viewKeys{defaultKeyMap.Up, defaultKeyMap.Down, defaultKeyMap.Select, defaultKeyMap.Back}
	gridKeys     = viewKeys{defaultKeyMap.Up, defaultKeyMap.Down, defaultKeyMap.Left, defaultKeyMap.Right, defaultKeyMap.Select, defaultKeyMap.Back}
	bookingsKeys = viewKeys{defaultKeyMap.Up, defaultKeyMap.Down, defaultKeyMap.Cancel, defaultKeyMap.Back}
)

func renderHelp(k help.KeyMap) string {
	return help.New().View(k)
}
