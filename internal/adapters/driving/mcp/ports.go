package mcp

import (
	"github.com/custodia-labs/quickfind/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// Lookup answers one-shot category searches.
	Lookup driving.Lookup

	// Catalog reads stored items. Optional; item resources are unavailable without it.
	Catalog driving.Catalog
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Lookup == nil {
		return ErrMissingLookup
	}
	return nil
}
