package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/core/ports/driven"
)

// Ensure Catalog implements the interface.
var _ driven.CatalogStore = (*Catalog)(nil)

// Catalog is an in-memory implementation of driven.CatalogStore.
// Matching and ordering follow the SQLite store: a case-insensitive substring
// match on title, subtitle or snippet, ordered by title then ID.
type Catalog struct {
	mu    sync.RWMutex
	items map[domain.Category]map[string]domain.Item
}

// NewCatalog creates an empty in-memory catalog.
func NewCatalog() *Catalog {
	items := make(map[domain.Category]map[string]domain.Item)
	for _, c := range domain.Categories() {
		items[c] = make(map[string]domain.Item)
	}
	return &Catalog{items: items}
}

// Save stores or updates items. Items without an ID are assigned one in place.
func (s *Catalog) Save(_ context.Context, items []domain.Item) error {
	for i := range items {
		if !items[i].Category.IsValid() {
			return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, items[i].Category)
		}
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.items[item.Category][item.ID] = item
	}
	return nil
}

// Get retrieves an item by category and ID.
func (s *Catalog) Get(_ context.Context, category domain.Category, id string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[category][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

// Count returns the number of items stored for a category.
func (s *Catalog) Count(_ context.Context, category domain.Category) (int, error) {
	if !category.IsValid() {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items[category]), nil
}

// Fetcher returns the fetch function for a category.
func (s *Catalog) Fetcher(category domain.Category) driven.CategoryFetcher {
	return driven.FetchFunc(func(ctx context.Context, text string, limit, offset int) ([]domain.Item, error) {
		return s.fetch(ctx, category, text, limit, offset)
	})
}

// Close is a no-op.
func (s *Catalog) Close() error {
	return nil
}

func (s *Catalog) fetch(ctx context.Context, category domain.Category, text string, limit, offset int) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}

	needle := domain.NormalizeText(text)

	s.mu.RLock()
	matches := make([]domain.Item, 0, len(s.items[category]))
	for _, item := range s.items[category] {
		if matchesItem(item, needle) {
			matches = append(matches, item)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		ti, tj := strings.ToLower(matches[i].Title), strings.ToLower(matches[j].Title)
		if ti != tj {
			return ti < tj
		}
		return matches[i].ID < matches[j].ID
	})

	if offset >= len(matches) {
		return []domain.Item{}, nil
	}
	matches = matches[offset:]
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func matchesItem(item domain.Item, needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range []string{item.Title, item.Subtitle, item.Snippet} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
