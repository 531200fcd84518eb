package mcp

import (
	"context"

	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/core/ports/driving"
)

// mockLookup is a mock implementation of driving.Lookup.
type mockLookup struct {
	state     domain.AggregateState
	lastQuery domain.SearchQuery
	lastLimit int
}

var _ driving.Lookup = (*mockLookup)(nil)

func (m *mockLookup) Lookup(_ context.Context, query domain.SearchQuery, limit int) domain.AggregateState {
	m.lastQuery = query
	m.lastLimit = limit
	return m.state
}

// mockCatalog is a mock implementation of driving.Catalog.
type mockCatalog struct {
	items  map[string]domain.Item
	counts map[domain.Category]int
	err    error
}

var _ driving.Catalog = (*mockCatalog)(nil)

func (m *mockCatalog) Get(_ context.Context, category domain.Category, id string) (*domain.Item, error) {
	if m.err != nil {
		return nil, m.err
	}
	item, ok := m.items[string(category)+"/"+id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

func (m *mockCatalog) Count(_ context.Context, category domain.Category) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.counts[category], nil
}
