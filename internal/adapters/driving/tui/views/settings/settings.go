// Package settings provides the settings editor view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quickfind/internal/core/ports/driving"
)

// ErrNoSettingsService indicates that no settings service was provided.
var ErrNoSettingsService = errors.New("settings service not available")

// Key constants for key handling.
const (
	keyUp    = "up"
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

// View lists every setting with its effective value and edits one at a time.
// Saved values reach a running engine through the config watcher.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	keys     []string
	values   map[string]string
	selected int
	editing  bool
	editor   textinput.Model

	err    error
	notice string

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	editor := textinput.New()
	editor.CharLimit = 256
	editor.Prompt = "= "

	v := &View{
		styles:          s,
		settingsService: settingsService,
		values:          map[string]string{},
		editor:          editor,
	}
	if settingsService != nil {
		v.keys = settingsService.Keys()
	}
	return v
}

// Init loads the current values.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	service := v.settingsService
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		values, err := service.Values()
		return messages.SettingsLoaded{Values: values, Err: err}
	}
}

func (v *View) save(key, value string) tea.Cmd {
	service := v.settingsService
	return func() tea.Msg {
		if service == nil {
			return messages.SettingSaved{Key: key, Err: ErrNoSettingsService}
		}
		return messages.SettingSaved{Key: key, Err: service.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case messages.SettingsLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.values = msg.Values
		}
		return v, nil

	case messages.SettingSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved " + msg.Key
		return v, v.loadSettings()

	case messages.SettingsReloaded:
		v.notice = "Settings reloaded"
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKeys(msg)
		}
		return v.handleListKeys(msg)
	}

	return v, nil
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	case keyUp, "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case keyEnter:
		if len(v.keys) == 0 {
			return v, nil
		}
		v.editing = true
		v.notice = ""
		v.editor.SetValue(v.values[v.keys[v.selected]])
		v.editor.CursorEnd()
		return v, v.editor.Focus()
	}
	return v, nil
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		v.editing = false
		v.editor.Blur()
		return v, nil
	case keyEnter:
		v.editing = false
		v.editor.Blur()
		return v, v.save(v.keys[v.selected], strings.TrimSpace(v.editor.Value()))
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

// View renders the settings view.
func (v *View) View() string {
	if !v.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	width := 0
	for _, k := range v.keys {
		width = max(width, len(k))
	}

	for i, k := range v.keys {
		line := fmt.Sprintf("%-*s  ", width, k)
		if v.editing && i == v.selected {
			b.WriteString(v.styles.Highlighted.Render("> "+line) + v.editor.View())
		} else if i == v.selected {
			b.WriteString(v.styles.Highlighted.Render("> " + line + v.display(k)))
		} else {
			b.WriteString(v.styles.Normal.Render("  "+line) + v.styles.Muted.Render(v.display(k)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.notice != "":
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}

	help := "↑/↓ select · enter edit · esc back"
	if v.editing {
		help = "enter save · esc cancel"
	}
	b.WriteString(v.styles.Muted.Render(help))
	return b.String()
}

func (v *View) display(key string) string {
	if value := v.values[key]; value != "" {
		return value
	}
	return "(default)"
}

// Selected returns the key under the cursor.
func (v *View) Selected() string {
	if v.selected < 0 || v.selected >= len(v.keys) {
		return ""
	}
	return v.keys[v.selected]
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
