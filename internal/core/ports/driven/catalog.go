package driven

import (
	"context"

	"github.com/custodia-labs/quickfind/internal/core/domain"
)

// CatalogStore persists items for every category and exposes a fetcher per
// category for the search engine to consume.
type CatalogStore interface {
	// Save stores or updates items. Items without an ID are assigned one.
	Save(ctx context.Context, items []domain.Item) error

	// Get retrieves an item by category and ID.
	Get(ctx context.Context, category domain.Category, id string) (*domain.Item, error)

	// Count returns the number of items stored for a category.
	Count(ctx context.Context, category domain.Category) (int, error)

	// Fetcher returns the fetch function for a category.
	Fetcher(category domain.Category) CategoryFetcher

	// Close releases resources.
	Close() error
}
