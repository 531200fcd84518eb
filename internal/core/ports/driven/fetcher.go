package driven

import (
	"context"

	"github.com/custodia-labs/quickfind/internal/core/domain"
)

// CategoryFetcher fetches one page of items for a single category.
// Implementations are supplied by the surrounding application and may hit
// any store. Failures must be returned, never swallowed.
type CategoryFetcher interface {
	// Fetch returns up to limit items matching text, skipping offset items.
	Fetch(ctx context.Context, text string, limit, offset int) ([]domain.Item, error)
}

// FetchFunc adapts a plain function to CategoryFetcher.
type FetchFunc func(ctx context.Context, text string, limit, offset int) ([]domain.Item, error)

// Fetch calls f.
func (f FetchFunc) Fetch(ctx context.Context, text string, limit, offset int) ([]domain.Item, error) {
	return f(ctx, text, limit, offset)
}
