// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	// Accent marks the active tab and the highlighted row.
	Accent lipgloss.Color

	// Heading colours category section headers.
	Heading lipgloss.Color

	// Surface is the background of bars and the active tab.
	Surface lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for secondary text such as subtitles and hints.
	Muted lipgloss.Color

	// Success marks confirmations.
	Success lipgloss.Color

	// Warning marks loading states.
	Warning lipgloss.Color

	// Error marks failed categories.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:     lipgloss.Color("#2563EB"), // Blue
		Heading:    lipgloss.Color("#0EA5E9"), // Sky
		Surface:    lipgloss.Color("#1F2430"), // Slate
		Foreground: lipgloss.Color("#E5E9F0"), // Snow
		Muted:      lipgloss.Color("#7B8394"), // Grey
		Success:    lipgloss.Color("#4ADE80"), // Green
		Warning:    lipgloss.Color("#FACC15"), // Amber
		Error:      lipgloss.Color("#F87171"), // Red
		Border:     lipgloss.Color("#3B4252"), // Border grey
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title         lipgloss.Style
	SectionHeader lipgloss.Style
	Normal        lipgloss.Style
	Muted         lipgloss.Style

	// Highlighted is the row the navigator points at.
	Highlighted lipgloss.Style

	Tab       lipgloss.Style
	ActiveTab lipgloss.Style

	Loading lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Border     lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),
		SectionHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Heading),
		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),
		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Highlighted: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Accent),
		Tab: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Accent).
			Padding(0, 1),
		Loading: lipgloss.NewStyle().
			Italic(true).
			Foreground(theme.Warning),
		Error: lipgloss.NewStyle().
			Foreground(theme.Error),
		Success: lipgloss.NewStyle().
			Foreground(theme.Success),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Surface).
			Padding(0, 1),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
