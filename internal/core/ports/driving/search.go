package driving

import (
	"context"

	"github.com/custodia-labs/quickfind/internal/core/domain"
)

// SearchEngine is the stateful multi-category search surface.
// It owns one AggregateState and is the only writer of it.
type SearchEngine interface {
	// Search dispatches text to one category, or to every category when
	// category is domain.CategoryAll.
	Search(ctx context.Context, text string, category domain.Category) error

	// LoadMore fetches the next page of a category and appends it.
	LoadMore(ctx context.Context, category domain.Category, text string) error

	// Retry re-issues the first page of a category, replacing its items.
	Retry(ctx context.Context, category domain.Category, text string) error

	// Clear resets every category to idle.
	Clear()

	// Snapshot returns a copy of the current aggregate state.
	Snapshot() domain.AggregateState

	// Subscribe registers a render callback invoked on every state change.
	// The returned function removes the subscription.
	Subscribe(fn func(domain.AggregateState)) func()
}

// SearchSession is a SearchEngine bound to one interactive search surface:
// debounced input, a selected category view, keyboard navigation and
// infinite scroll.
type SearchSession interface {
	SearchEngine

	// Input feeds raw typed text. Dispatch happens once input is quiet.
	Input(text string)

	// Text returns the current query text.
	Text() string

	// SelectCategory switches the view and re-searches the current text.
	SelectCategory(ctx context.Context, category domain.Category) error

	// Category returns the selected view.
	Category() domain.Category

	// Open shows the search surface. Key handling is inert until opened.
	Open()

	// Close hides the search surface.
	Close()

	// IsOpen reports whether the surface is shown.
	IsOpen() bool

	// HandleKey maps a navigation key to highlight, selection or close.
	HandleKey(key domain.Key) bool

	// Scroll reports the scroll position of the single-category view and
	// triggers a load-more when warranted.
	Scroll(ctx context.Context, pos domain.ScrollPosition) bool

	// Flattened returns the ordered items of the categories in view.
	Flattened() []domain.Item

	// Highlighted returns the highlighted index into Flattened.
	Highlighted() int

	// Recent returns recent queries, most recent first.
	Recent() []string
}

// Lookup answers one-shot searches for request/response surfaces.
// It shares the engine's cache but never touches session state.
type Lookup interface {
	// Lookup fetches one page for the query's category, or every category
	// when the query targets domain.CategoryAll. A limit of zero uses the
	// configured page size.
	Lookup(ctx context.Context, query domain.SearchQuery, limit int) domain.AggregateState
}

// Catalog reads stored items by identity. Any driven.CatalogStore satisfies it.
type Catalog interface {
	// Get retrieves an item by category and ID.
	Get(ctx context.Context, category domain.Category, id string) (*domain.Item, error)

	// Count returns the number of items stored for a category.
	Count(ctx context.Context, category domain.Category) (int, error)
}
