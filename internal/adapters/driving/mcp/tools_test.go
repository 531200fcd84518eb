package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickfind/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns sections in category order", func(t *testing.T) {
		state := domain.NewAggregateState(domain.Categories())
		people := state[domain.CategoryPeople]
		people.Complete("anna", []domain.Item{{ID: "p1", Title: "Anna Berg", URL: "/people/p1"}}, 0, 6)
		state[domain.CategoryPeople] = people
		posts := state[domain.CategoryPosts]
		posts.Fail(&domain.FetchError{Category: domain.CategoryPosts, Err: errors.New("boom")})
		state[domain.CategoryPosts] = posts

		lookup := &mockLookup{state: state}
		server, err := NewServer(&Ports{Lookup: lookup})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "  Anna "})
		require.NoError(t, err)

		assert.Equal(t, "anna", output.Query)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Categories, len(domain.Categories()))
		assert.Equal(t, "people", output.Categories[0].Category)
		assert.Equal(t, "Anna Berg", output.Categories[0].Items[0].Title)
		assert.Equal(t, "/people/p1", output.Categories[0].Items[0].URL)
		assert.Equal(t, "posts", output.Categories[1].Category)
		assert.Equal(t, "failed", output.Categories[1].Status)
		assert.Contains(t, output.Categories[1].Error, "boom")
		assert.Equal(t, domain.CategoryAll, lookup.lastQuery.Category)
	})

	t.Run("passes category, limit and offset", func(t *testing.T) {
		state := domain.NewAggregateState([]domain.Category{domain.CategoryEvents})
		lookup := &mockLookup{state: state}
		server, err := NewServer(&Ports{Lookup: lookup})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{
			Query: "oslo", Category: "Events", Limit: 3, Offset: 6,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.CategoryEvents, lookup.lastQuery.Category)
		assert.Equal(t, 6, lookup.lastQuery.Offset)
		assert.Equal(t, 3, lookup.lastLimit)
		require.Len(t, output.Categories, 1)
		assert.Empty(t, output.Categories[0].Items)
	})

	t.Run("unknown category is an error", func(t *testing.T) {
		server, err := NewServer(&Ports{Lookup: &mockLookup{}})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "x", Category: "videos"})
		assert.ErrorIs(t, err, domain.ErrUnknownCategory)
	})
}
