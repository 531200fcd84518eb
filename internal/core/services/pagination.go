package services

import (
	"strconv"
	"sync"
	"time"

	"github.com/custodia-labs/quickfind/internal/core/domain"
)

// NextPage returns the offset and limit of the next fetch for a category.
// A first page (or a retry) starts at offset 0 with the initial page size;
// later pages start at len(items) with the larger load-more size.
func NextPage(st domain.CategoryState, settings domain.SearchSettings, first bool) (offset, limit int) {
	if first || len(st.Items) == 0 {
		return 0, settings.PageSize
	}
	return len(st.Items), settings.LoadMorePageSize
}

// Paginator decides when a scrolled single-category view should load its
// next page. It never triggers on the all view.
//
// A dedupe marker keyed by category and item count suppresses repeat
// triggers for the same page until the cooldown elapses.
type Paginator struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	now       func() time.Time
	markers   map[string]time.Time
}

// NewPaginator creates a paginator from the search settings.
func NewPaginator(settings domain.SearchSettings) *Paginator {
	return &Paginator{
		threshold: settings.ScrollThreshold,
		cooldown:  settings.LoadMoreCooldown,
		now:       time.Now,
		markers:   make(map[string]time.Time),
	}
}

// WithClock replaces the time source. Intended for tests.
func (p *Paginator) WithClock(now func() time.Time) *Paginator {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = now
	return p
}

// Configure updates the threshold and cooldown.
func (p *Paginator) Configure(settings domain.SearchSettings) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.threshold = settings.ScrollThreshold
	p.cooldown = settings.LoadMoreCooldown
}

// ShouldLoadMore reports whether a load-more should fire for the given view.
// A true result records a marker; the caller is expected to issue the fetch.
func (p *Paginator) ShouldLoadMore(view domain.Category, st domain.CategoryState, pos domain.ScrollPosition) bool {
	if view.IsAll() || !view.IsValid() {
		return false
	}
	if st.Loading() || !st.HasMore {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if pos.DistanceToBottom() > p.threshold {
		return false
	}

	key := markerKey(view, len(st.Items))
	now := p.now()
	if at, ok := p.markers[key]; ok && now.Sub(at) < p.cooldown {
		return false
	}
	p.markers[key] = now
	p.prune(now)
	return true
}

// Done clears the marker for a category page once its load-more resolved.
func (p *Paginator) Done(c domain.Category, count int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.markers, markerKey(c, count))
}

// Reset drops every marker. Called when the query changes.
func (p *Paginator) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.markers = make(map[string]time.Time)
}

// prune drops expired markers. Caller must hold mu.
func (p *Paginator) prune(now time.Time) {
	for k, at := range p.markers {
		if now.Sub(at) >= p.cooldown {
			delete(p.markers, k)
		}
	}
}

func markerKey(c domain.Category, count int) string {
	return string(c) + ":" + strconv.Itoa(count)
}
