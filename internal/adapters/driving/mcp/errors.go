// Package mcp provides an MCP (Model Context Protocol) server adapter for quickfind.
// It lets AI assistants run category searches against the local catalog.
package mcp

import "errors"

// ErrMissingLookup is returned when the lookup port is not provided.
var ErrMissingLookup = errors.New("mcp: lookup is required")
