package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/quickfind/internal/core/domain"
)

func loadedState(c domain.Category, n int, hasMore bool) domain.CategoryState {
	st := domain.NewCategoryState(c)
	st.Complete("oslo", makeItems(c, "i", 0, n), 0, n)
	st.HasMore = hasMore
	return st
}

func nearBottom() domain.ScrollPosition {
	return domain.ScrollPosition{Top: 78, Height: 100, Viewport: 20}
}

func TestNextPage(t *testing.T) {
	settings := testSettings()

	offset, limit := NextPage(domain.NewCategoryState(domain.CategoryPeople), settings, false)
	assert.Equal(t, 0, offset)
	assert.Equal(t, settings.PageSize, limit)

	st := loadedState(domain.CategoryPeople, 6, true)
	offset, limit = NextPage(st, settings, false)
	assert.Equal(t, 6, offset)
	assert.Equal(t, settings.LoadMorePageSize, limit)

	offset, limit = NextPage(st, settings, true)
	assert.Equal(t, 0, offset)
	assert.Equal(t, settings.PageSize, limit)
}

func TestPaginator_ShouldLoadMore(t *testing.T) {
	tests := []struct {
		name string
		view domain.Category
		st   domain.CategoryState
		pos  domain.ScrollPosition
		want bool
	}{
		{"near bottom with more", domain.CategoryLocations, loadedState(domain.CategoryLocations, 6, true), nearBottom(), true},
		{"all view never scrolls", domain.CategoryAll, loadedState(domain.CategoryLocations, 6, true), nearBottom(), false},
		{"no more pages", domain.CategoryLocations, loadedState(domain.CategoryLocations, 6, false), nearBottom(), false},
		{"far from bottom", domain.CategoryLocations, loadedState(domain.CategoryLocations, 6, true),
			domain.ScrollPosition{Top: 0, Height: 100, Viewport: 20}, false},
		{"loading", domain.CategoryLocations, func() domain.CategoryState {
			st := loadedState(domain.CategoryLocations, 6, true)
			st.Begin()
			return st
		}(), nearBottom(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginator(testSettings())
			assert.Equal(t, tt.want, p.ShouldLoadMore(tt.view, tt.st, tt.pos))
		})
	}
}

func TestPaginator_DedupesSameItemCount(t *testing.T) {
	clock := newFakeClock()
	settings := testSettings()
	settings.LoadMoreCooldown = time.Second
	p := NewPaginator(settings).WithClock(clock.Now)
	st := loadedState(domain.CategoryLocations, 6, true)

	assert.True(t, p.ShouldLoadMore(domain.CategoryLocations, st, nearBottom()))
	assert.False(t, p.ShouldLoadMore(domain.CategoryLocations, st, nearBottom()))

	clock.Advance(time.Second)
	assert.True(t, p.ShouldLoadMore(domain.CategoryLocations, st, nearBottom()))
}

func TestPaginator_NewItemCountIsNewMarker(t *testing.T) {
	p := NewPaginator(testSettings())

	assert.True(t, p.ShouldLoadMore(domain.CategoryLocations, loadedState(domain.CategoryLocations, 6, true), nearBottom()))
	assert.True(t, p.ShouldLoadMore(domain.CategoryLocations, loadedState(domain.CategoryLocations, 18, true), nearBottom()))
}

func TestPaginator_DoneAndReset(t *testing.T) {
	p := NewPaginator(testSettings())
	st := loadedState(domain.CategoryPosts, 6, true)

	assert.True(t, p.ShouldLoadMore(domain.CategoryPosts, st, nearBottom()))
	p.Done(domain.CategoryPosts, 6)
	assert.True(t, p.ShouldLoadMore(domain.CategoryPosts, st, nearBottom()))

	p.Reset()
	assert.True(t, p.ShouldLoadMore(domain.CategoryPosts, st, nearBottom()))
}

func TestPaginator_Configure(t *testing.T) {
	p := NewPaginator(testSettings())
	settings := testSettings()
	settings.ScrollThreshold = 0
	p.Configure(settings)

	pos := domain.ScrollPosition{Top: 79, Height: 100, Viewport: 20}
	assert.False(t, p.ShouldLoadMore(domain.CategoryPosts, loadedState(domain.CategoryPosts, 6, true), pos))

	pos.Top = 80
	assert.True(t, p.ShouldLoadMore(domain.CategoryPosts, loadedState(domain.CategoryPosts, 6, true), pos))
}

func TestPaginator_ConfigureWhileScrolling(t *testing.T) {
	p := NewPaginator(testSettings())
	st := loadedState(domain.CategoryPosts, 6, true)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			settings := testSettings()
			settings.ScrollThreshold = i % 5
			p.Configure(settings)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			p.ShouldLoadMore(domain.CategoryPosts, st, nearBottom())
			p.Reset()
		}
	}()
	wg.Wait()

	settings := testSettings()
	settings.ScrollThreshold = 3
	p.Configure(settings)
	p.Reset()
	assert.True(t, p.ShouldLoadMore(domain.CategoryPosts, st, nearBottom()))
}
