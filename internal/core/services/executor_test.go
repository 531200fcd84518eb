package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/core/ports/driven"
)

func TestExecutor_NormalisesPage(t *testing.T) {
	fetcher := driven.FetchFunc(func(context.Context, string, int, int) ([]domain.Item, error) {
		return makeItems("", "p", 0, 8), nil
	})
	exec := newExecutor(domain.CategoryPeople, fetcher, 0)

	items, err := exec.Execute(context.Background(), "anna", 6, 0)
	require.NoError(t, err)
	require.Len(t, items, 6, "overfull pages are trimmed to the limit")
	for _, item := range items {
		assert.Equal(t, domain.CategoryPeople, item.Category)
	}
}

func TestExecutor_NilPageBecomesEmpty(t *testing.T) {
	fetcher := driven.FetchFunc(func(context.Context, string, int, int) ([]domain.Item, error) {
		return nil, nil
	})
	exec := newExecutor(domain.CategoryEvents, fetcher, 0)

	items, err := exec.Execute(context.Background(), "x", 6, 0)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestExecutor_PropagatesErrors(t *testing.T) {
	boom := errors.New("connection refused")
	fetcher := driven.FetchFunc(func(context.Context, string, int, int) ([]domain.Item, error) {
		return nil, boom
	})
	exec := newExecutor(domain.CategoryPosts, fetcher, 0)

	_, err := exec.Execute(context.Background(), "x", 6, 0)
	require.ErrorIs(t, err, boom)

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, domain.CategoryPosts, fetchErr.Category)
}

func TestExecutor_Timeout(t *testing.T) {
	fetcher := driven.FetchFunc(func(ctx context.Context, _ string, _, _ int) ([]domain.Item, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	exec := newExecutor(domain.CategoryLocations, fetcher, 20*time.Millisecond)

	_, err := exec.Execute(context.Background(), "x", 6, 0)
	assert.ErrorIs(t, err, domain.ErrFetchTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecutor_RecoversPanics(t *testing.T) {
	fetcher := driven.FetchFunc(func(context.Context, string, int, int) ([]domain.Item, error) {
		panic("nil map")
	})
	exec := newExecutor(domain.CategoryComments, fetcher, 0)

	items, err := exec.Execute(context.Background(), "x", 6, 0)
	assert.Nil(t, items)
	assert.ErrorIs(t, err, domain.ErrFetchPanicked)
}

func TestExecutor_MissingFetcher(t *testing.T) {
	exec := newExecutor(domain.CategoryPeople, nil, 0)

	_, err := exec.Execute(context.Background(), "x", 6, 0)
	assert.ErrorIs(t, err, domain.ErrFetcherMissing)
}

func TestExecutor_PassesArguments(t *testing.T) {
	stub := pagedFetcher(domain.CategoryPeople, 20)
	exec := newExecutor(domain.CategoryPeople, stub, time.Second)

	_, err := exec.Execute(context.Background(), "anna", 12, 6)
	require.NoError(t, err)
	assert.Equal(t, []fetchCall{{text: "anna", limit: 12, offset: 6}}, stub.Calls())
}
