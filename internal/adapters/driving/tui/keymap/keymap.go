// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application from anywhere.
	Quit key.Binding

	// Open shows the search surface again after it was closed.
	Open key.Binding

	// Close hides the search surface.
	Close key.Binding

	// Up moves the highlight up.
	Up key.Binding

	// Down moves the highlight down.
	Down key.Binding

	// Select picks the highlighted item.
	Select key.Binding

	// NextCategory moves to the next category tab.
	NextCategory key.Binding

	// PrevCategory moves to the previous category tab.
	PrevCategory key.Binding

	// LoadMore fetches the next page of the selected category.
	LoadMore key.Binding

	// Retry re-runs failed categories in view.
	Retry key.Binding

	// Settings toggles the settings view.
	Settings key.Binding
}

// DefaultKeyMap returns the default keybindings. Letters are left free for
// typing, so every command uses a control or navigation key.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Open: key.NewBinding(
			key.WithKeys("/", "enter"),
			key.WithHelp("/", "search"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		NextCategory: key.NewBinding(
			key.WithKeys("tab", "right"),
			key.WithHelp("tab", "category"),
		),
		PrevCategory: key.NewBinding(
			key.WithKeys("shift+tab", "left"),
			key.WithHelp("shift+tab", "prev category"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "more"),
		),
		Retry: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "retry"),
		),
		Settings: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "settings"),
		),
	}
}

// ShortHelp returns the hints shown while idle.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextCategory, k.Close, k.Quit}
}

// ResultsHelp returns the hints shown while results are listed.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.Up, k.Select, k.NextCategory, k.LoadMore, k.Close}
}

// ClosedHelp returns the hints shown while the surface is closed.
func (k *KeyMap) ClosedHelp() []key.Binding {
	return []key.Binding{k.Open, k.Settings, k.Quit}
}

// FullHelp returns the full list of keybindings.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.NextCategory, k.PrevCategory, k.LoadMore, k.Retry},
		{k.Open, k.Close, k.Settings, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
