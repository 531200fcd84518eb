// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CategoryFetcher: Fetches one page of items for a category
//   - CatalogStore: Owns the per-category item stores and hands out fetchers
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the core falls back to a no-op or goroutine default:
//
//   - SearchMetrics: Cache and fetch instrumentation
//   - WorkerPool: Bounded execution of fan-out branches
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
