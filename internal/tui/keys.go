package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/litfind/internal/session"
)

// Only non-printable keys are bound; every printable key is search input
// while typing.
type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Open  key.Binding
	Back  key.Binding
	Erase key.Binding
	Quit  key.Binding
	// Variant and Action share the digit keys and differ only in help
	// text; decodeKey passes digits through as runes.
	Variant    key.Binding
	Action     key.Binding
	StopScroll key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "results")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open best")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Erase:      key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "erase")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Variant:    key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "pick source")),
		Action:     key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "run action")),
		StopScroll: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
	}
}

// helpFor lists the bindings that do something in the given mode.
func (k keyMap) helpFor(mode session.Mode, hasPapers bool) []key.Binding {
	switch mode {
	case session.Scrolling:
		return []key.Binding{k.Up, k.Down, k.Variant, k.Open, k.StopScroll, k.Back, k.Quit}
	case session.Selected:
		return []key.Binding{k.Action, k.Back, k.Quit}
	default:
		bindings := []key.Binding{k.Erase}
		if mode == session.Idle && hasPapers {
			bindings = append(bindings, k.Down)
		}
		return append(bindings, k.Quit)
	}
}

// decodeKey translates a terminal key into the session's key vocabulary.
func (k keyMap) decodeKey(msg tea.KeyMsg) session.Key {
	switch {
	case key.Matches(msg, k.Quit):
		return session.Key{Kind: session.KeyInterrupt}
	case key.Matches(msg, k.Erase):
		return session.Key{Kind: session.KeyBackspace}
	case key.Matches(msg, k.Open):
		return session.Key{Kind: session.KeyEnter}
	case key.Matches(msg, k.Back):
		return session.Key{Kind: session.KeyEsc}
	case key.Matches(msg, k.Up):
		return session.Key{Kind: session.KeyUp}
	case key.Matches(msg, k.Down):
		return session.Key{Kind: session.KeyDown}
	}
	switch msg.Type {
	case tea.KeySpace:
		return session.RuneKey(' ')
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && !msg.Alt {
			return session.RuneKey(msg.Runes[0])
		}
	}
	return session.Key{Kind: session.KeyOther}
}
