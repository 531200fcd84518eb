// Package api serves quickfind lookups as a JSON HTTP API.
package api

import "errors"

// ErrMissingLookup is returned when the lookup port is not provided.
var ErrMissingLookup = errors.New("api: lookup is required")
