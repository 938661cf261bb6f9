package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Flight keys. Their held state drives the scene speed.
const (
	keyFineUp     = "w"
	keyFineDown   = "s"
	keyCoarseUp   = "e"
	keyCoarseDown = "d"
)

func isFlightKey(k string) bool {
	switch k {
	case keyFineUp, keyFineDown, keyCoarseUp, keyCoarseDown:
		return true
	}
	return false
}

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

type keyMap struct {
	Speed    key.Binding
	Play     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Select   key.Binding
	Up       key.Binding
	Down     key.Binding
	Like     key.Binding
	VolUp    key.Binding
	VolDown  key.Binding
	Mute     key.Binding
	Back     key.Binding
	Forward  key.Binding
	Fraction key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Speed:    key.NewBinding(key.WithKeys("w", "s", "e", "d"), key.WithHelp("w/s e/d", "speed")),
	Play:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play")),
	Next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n/p", "track")),
	Prev:     key.NewBinding(key.WithKeys("p")),
	Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play selected")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "select")),
	Down:     key.NewBinding(key.WithKeys("down", "j")),
	Like:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "like")),
	VolUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "volume")),
	VolDown:  key.NewBinding(key.WithKeys("-", "_")),
	Mute:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
	Back:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "seek")),
	Forward:  key.NewBinding(key.WithKeys("right", "l")),
	Fraction: key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("0-9", "jump")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Speed, k.Play, k.Next, k.Select, k.Up, k.Like, k.VolUp, k.Mute, k.Back, k.Fraction, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Speed},
		{k.Play, k.Next, k.Select, k.Up, k.Like},
		{k.VolUp, k.Mute, k.Back, k.Fraction, k.Quit},
	}
}
