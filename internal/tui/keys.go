package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tatianab/text-adventure/internal/dispatcher"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Enter    key.Binding
	Erase    key.Binding
	Exit     key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "scroll back"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "scroll forward"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "choose"),
	),
	Erase: key.NewBinding(
		key.WithKeys("backspace"),
	),
	Exit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
}

var (
	menuHelp = []key.Binding{
		key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		keys.Enter,
		keys.Exit,
	}
	gameHelp = []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "act")),
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "scroll")),
		keys.PageUp,
		keys.PageDown,
		keys.Exit,
	}
)

// translate turns a terminal key message into dispatcher key events. Pasted
// text becomes one event per character. Unbound keys produce nothing.
func translate(msg tea.KeyMsg) []dispatcher.KeyEvent {
	switch {
	case msg.Type == tea.KeyRunes:
		events := make([]dispatcher.KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, dispatcher.PressRune(r))
		}
		return events
	case msg.Type == tea.KeySpace:
		return []dispatcher.KeyEvent{dispatcher.PressRune(' ')}
	case key.Matches(msg, keys.Exit):
		return []dispatcher.KeyEvent{dispatcher.Press(dispatcher.KeyEscape)}
	case key.Matches(msg, keys.Enter):
		return []dispatcher.KeyEvent{dispatcher.Press(dispatcher.KeyEnter)}
	case key.Matches(msg, keys.Erase):
		return []dispatcher.KeyEvent{dispatcher.Press(dispatcher.KeyBackspace)}
	case key.Matches(msg, keys.Up):
		return []dispatcher.KeyEvent{dispatcher.Press(dispatcher.KeyUp)}
	case key.Matches(msg, keys.Down):
		return []dispatcher.KeyEvent{dispatcher.Press(dispatcher.KeyDown)}
	case key.Matches(msg, keys.PageUp):
		return []dispatcher.KeyEvent{dispatcher.Press(dispatcher.KeyPageUp)}
	case key.Matches(msg, keys.PageDown):
		return []dispatcher.KeyEvent{dispatcher.Press(dispatcher.KeyPageDown)}
	}
	return nil
}
