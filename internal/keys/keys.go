package keys

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/nhle/mail-assistant/internal/model"
)

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Generate triggers a chat-completion call from the compose view.
	// Its key comes from the configured hotkey.
	Generate key.Binding

	// Views
	Preferences key.Binding
	Inbox       key.Binding
	History     key.Binding
	Help        key.Binding
}

// NewKeyMap returns the keybindings, with the generate action bound to
// the configured hotkey.
func NewKeyMap(hotkey string) *KeyMap {
	gen := NormalizeHotkey(hotkey)

	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Generate: key.NewBinding(
			key.WithKeys(gen),
			key.WithHelp(gen, "generate"),
		),
		Preferences: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "preferences"),
		),
		Inbox: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "inbox"),
		),
		History: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "history"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+_"),
			key.WithHelp("ctrl+/", "help"),
		),
	}
}

// NormalizeHotkey converts a configured hotkey like "ctrl+shift+g"
// into the key string Bubble Tea reports. Terminals cannot see a shift
// modifier on ctrl chords, so it is dropped.
func NormalizeHotkey(hotkey string) string {
	if hotkey == "" {
		hotkey = model.DefaultHotkey
	}

	parts := strings.Split(strings.ToLower(hotkey), "+")
	kept := parts[:0]
	for _, p := range parts {
		if p == "shift" || p == "" {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return NormalizeHotkey(model.DefaultHotkey)
	}
	return strings.Join(kept, "+")
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Generate, k.Preferences, k.Inbox, k.History, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Generate, k.Preferences, k.Inbox, k.History},
		{k.Up, k.Down, k.Select, k.Back},
		{k.Help, k.Quit},
	}
}
