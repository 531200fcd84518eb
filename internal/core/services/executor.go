package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/core/ports/driven"
)

// executor wraps one category's fetcher behind the uniform contract the
// aggregator relies on. It normalises the result shape and wraps failures in
// *domain.FetchError; it never decides partial-failure policy itself.
type executor struct {
	category domain.Category
	fetcher  driven.CategoryFetcher
	timeout  time.Duration
}

func newExecutor(category domain.Category, fetcher driven.CategoryFetcher, timeout time.Duration) *executor {
	return &executor{
		category: category,
		fetcher:  fetcher,
		timeout:  timeout,
	}
}

// Execute fetches one page. The returned slice is never nil on success, holds
// at most limit items, and every item carries the executor's category.
func (e *executor) Execute(ctx context.Context, text string, limit, offset int) (items []domain.Item, err error) {
	if e.fetcher == nil {
		return nil, &domain.FetchError{Category: e.category, Err: domain.ErrFetcherMissing}
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			items = nil
			err = &domain.FetchError{
				Category: e.category,
				Err:      fmt.Errorf("%w: %v", domain.ErrFetchPanicked, r),
			}
		}
	}()

	page, err := e.fetcher.Fetch(ctx, text, limit, offset)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
			err = fmt.Errorf("%w after %s: %w", domain.ErrFetchTimeout, e.timeout, err)
		}
		return nil, &domain.FetchError{Category: e.category, Err: err}
	}

	return e.normalise(page, limit), nil
}

// normalise copies page, stamps the category and trims overfull pages.
func (e *executor) normalise(page []domain.Item, limit int) []domain.Item {
	if limit > 0 && len(page) > limit {
		page = page[:limit]
	}
	out := make([]domain.Item, len(page))
	for i := range page {
		out[i] = page[i]
		out[i].Category = e.category
	}
	return out
}
