// Package domain defines the core business entities for quickfind.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Category: An independently searchable content partition
//   - Item: A single result returned by a category
//   - SearchQuery: An immutable (text, category, offset) triple
//   - CategoryState: The per-category result state machine
//   - AggregateState: Every category's state, always fully keyed
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
