package driven

import (
	"time"

	"github.com/custodia-labs/quickfind/internal/core/domain"
)

// SearchMetrics records cache and fetch behaviour of the search engine.
type SearchMetrics interface {
	// CacheLookup records a cache hit or miss for a category.
	CacheLookup(category domain.Category, hit bool)

	// FetchCompleted records a finished fetch and its outcome.
	FetchCompleted(category domain.Category, duration time.Duration, err error)

	// StaleDiscarded records a result dropped by the generation guard.
	StaleDiscarded(category domain.Category)
}
