// Package sqlite provides the SQLite-backed catalog behind the category fetchers.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A single items table holds every category; each category's
// fetcher runs a case-insensitive substring match with LIMIT/OFFSET paging.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.quickfind/data/catalog.db
//
// # Thread Safety
//
// All operations are thread-safe. The store relies on SQLite's WAL mode.
package sqlite
