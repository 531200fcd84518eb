package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// StorageBackend selects where category catalogs live.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite keeps catalogs in a local SQLite database.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps catalogs in process memory (lost on exit).
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StorageMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageSQLite:
		return "SQLite (persistent)"
	case StorageMemory:
		return "Memory (volatile)"
	default:
		return unknownDescription
	}
}

// SearchSettings holds the search engine's tunables.
type SearchSettings struct {
	// CacheTTL is how long a fetched page may be served from cache.
	CacheTTL time.Duration

	// Debounce is the quiet period before typed input is dispatched.
	Debounce time.Duration

	// PageSize is the size of the first page of every category.
	PageSize int

	// LoadMorePageSize is the size of subsequent pages. It is larger than PageSize.
	LoadMorePageSize int

	// ScrollThreshold is the near-bottom distance that triggers a load-more.
	ScrollThreshold int

	// LoadMoreCooldown is how long a load-more dedupe marker lives.
	LoadMoreCooldown time.Duration

	// FetchTimeout bounds a single category fetch. Zero disables the timeout.
	FetchTimeout time.Duration

	// Workers bounds the number of concurrent category fetches.
	Workers int

	// RateLimit is the per-category fetch rate in requests per second.
	// Zero means unlimited.
	RateLimit float64

	// RecentLimit is the number of recent queries remembered for the idle view.
	RecentLimit int
}

// StorageSettings holds catalog storage configuration.
type StorageSettings struct {
	// Backend selects the catalog implementation.
	Backend StorageBackend

	// DataDir overrides the data directory. Empty means ~/.quickfind/data.
	DataDir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Search  SearchSettings
	Storage StorageSettings
}

// DefaultSearchSettings returns the engine defaults.
func DefaultSearchSettings() SearchSettings {
	return SearchSettings{
		CacheTTL:         5 * time.Minute,
		Debounce:         300 * time.Millisecond,
		PageSize:         6,
		LoadMorePageSize: 12,
		ScrollThreshold:  3,
		LoadMoreCooldown: time.Second,
		FetchTimeout:     10 * time.Second,
		Workers:          8,
		RateLimit:        0,
		RecentLimit:      5,
	}
}

// DefaultAppSettings returns sensible defaults for all settings.
func DefaultAppSettings() *AppSettings {
	return &AppSettings{
		Search: DefaultSearchSettings(),
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
	}
}

// Validate checks that the search settings are usable.
func (s SearchSettings) Validate() error {
	switch {
	case s.CacheTTL <= 0:
		return fmt.Errorf("%w: cache_ttl must be positive", ErrInvalidInput)
	case s.Debounce < 0:
		return fmt.Errorf("%w: debounce must not be negative", ErrInvalidInput)
	case s.PageSize <= 0:
		return fmt.Errorf("%w: page_size must be positive", ErrInvalidInput)
	case s.LoadMorePageSize <= s.PageSize:
		return fmt.Errorf("%w: load_more_page_size must exceed page_size", ErrInvalidInput)
	case s.ScrollThreshold < 0:
		return fmt.Errorf("%w: scroll_threshold must not be negative", ErrInvalidInput)
	case s.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidInput)
	case s.RateLimit < 0:
		return fmt.Errorf("%w: rate_limit must not be negative", ErrInvalidInput)
	}
	return nil
}
