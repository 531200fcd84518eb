// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quickfind/internal/core/domain"
)

// State is what the status bar reports on the left.
type State string

const (
	StateIdle      State = "idle"
	StateSearching State = "searching"
	StateResults   State = "results"
	StateError     State = "error"
	StateClosed    State = "closed"
)

// Bar displays search status and keybinding hints.
type Bar struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	state       State
	message     string
	resultCount int
	failed      int
	width       int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{
		styles: s,
		keymap: km,
		state:  StateIdle,
		width:  80,
	}
}

// Observe derives state and counts from the categories in view.
func (s *Bar) Observe(state domain.AggregateState, view domain.Category) {
	if s.state == StateClosed {
		return
	}
	s.resultCount, s.failed = 0, 0
	loading, active := false, false
	for _, st := range state.Ordered(domain.ViewCategories(view)) {
		s.resultCount += len(st.Items)
		switch st.Status {
		case domain.StatusLoading:
			loading = true
		case domain.StatusFailed:
			s.failed++
		case domain.StatusLoaded:
			active = true
		case domain.StatusIdle:
			continue
		}
		active = true
	}
	switch {
	case loading:
		s.state = StateSearching
	case active:
		s.state = StateResults
	default:
		s.state = StateIdle
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := max(s.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (s *Bar) renderLeft() string {
	if s.message != "" {
		if s.state == StateError {
			return s.styles.Error.Render(s.message)
		}
		return s.styles.Normal.Render(s.message)
	}

	switch s.state {
	case StateSearching:
		return s.styles.Loading.Render("Searching...")
	case StateError:
		return s.styles.Error.Render("Error")
	case StateClosed:
		return s.styles.Muted.Render("Search closed")
	case StateResults:
		text := fmt.Sprintf("%d results", s.resultCount)
		if s.resultCount == 1 {
			text = "1 result"
		}
		if s.failed > 0 {
			return s.styles.Normal.Render(text) + s.styles.Error.Render(fmt.Sprintf(", %d failed", s.failed))
		}
		return s.styles.Normal.Render(text)
	case StateIdle:
	}
	return s.styles.Muted.Render("Type to search")
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch {
	case s.state == StateClosed:
		bindings = s.keymap.ClosedHelp()
	case s.resultCount > 0:
		bindings = s.keymap.ResultsHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}
	return s.styles.Muted.Render(strings.Join(hints, " · "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a transient message shown instead of the state.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// ResultCount returns the number of items in view.
func (s *Bar) ResultCount() int {
	return s.resultCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to idle.
func (s *Bar) Clear() {
	s.state = StateIdle
	s.message = ""
	s.resultCount = 0
	s.failed = 0
}
