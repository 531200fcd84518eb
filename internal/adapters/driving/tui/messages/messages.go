// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/quickfind/internal/core/domain"
)

// StateChanged carries a fresh aggregate snapshot published by the engine.
type StateChanged struct {
	State domain.AggregateState
}

// Action names an engine operation run off the update loop.
type Action string

// Engine actions.
const (
	ActionSearch   Action = "search"
	ActionLoadMore Action = "load more"
	ActionRetry    Action = "retry"
)

// ActionFinished reports the outcome of an engine operation. Category
// failures are already recorded in the state; Err is informational.
type ActionFinished struct {
	Action   Action
	Category domain.Category
	Err      error
}

// ItemSelected is sent when the highlighted item is picked.
type ItemSelected struct {
	Item domain.Item
}

// SurfaceClosed is sent after the search surface was closed.
type SurfaceClosed struct{}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the search surface.
	ViewSearch ViewType = iota
	// ViewSettings is the settings editor.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// SettingsLoaded carries the effective value of every setting.
type SettingsLoaded struct {
	Values map[string]string
	Err    error
}

// SettingSaved signals a single setting was written.
type SettingSaved struct {
	Key string
	Err error
}

// SettingsReloaded signals the config file changed and was applied.
type SettingsReloaded struct {
	Settings domain.SearchSettings
}
