// Package tui provides an interactive terminal user interface for quickfind.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"fmt"

	"github.com/custodia-labs/quickfind/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session is the interactive search surface.
	Session driving.SearchSession

	// Settings manages application settings. Optional: without it the
	// settings view reports that it is unavailable.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(session driving.SearchSession, settings driving.SettingsService) *Ports {
	return &Ports{
		Session:  session,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Session == nil {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, ErrMissingSearchSession)
	}
	return nil
}
