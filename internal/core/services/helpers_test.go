package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/core/ports/driven"
)

type fetchCall struct {
	text   string
	limit  int
	offset int
}

// stubFetcher records calls and delegates to fn.
type stubFetcher struct {
	mu    sync.Mutex
	calls []fetchCall
	fn    func(ctx context.Context, text string, limit, offset int) ([]domain.Item, error)
}

func (f *stubFetcher) Fetch(ctx context.Context, text string, limit, offset int) ([]domain.Item, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{text: text, limit: limit, offset: offset})
	f.mu.Unlock()
	return f.fn(ctx, text, limit, offset)
}

func (f *stubFetcher) Calls() []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fetchCall(nil), f.calls...)
}

func (f *stubFetcher) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func makeItems(c domain.Category, prefix string, from, n int) []domain.Item {
	items := make([]domain.Item, 0, n)
	for i := from; i < from+n; i++ {
		items = append(items, domain.Item{
			ID:       fmt.Sprintf("%s-%d", prefix, i),
			Category: c,
			Title:    fmt.Sprintf("%s %d", prefix, i),
		})
	}
	return items
}

// pagedFetcher serves total items for any query, honouring limit and offset.
func pagedFetcher(c domain.Category, total int) *stubFetcher {
	all := makeItems(c, string(c), 0, total)
	return &stubFetcher{fn: func(_ context.Context, _ string, limit, offset int) ([]domain.Item, error) {
		if offset >= len(all) {
			return nil, nil
		}
		end := min(offset+limit, len(all))
		return append([]domain.Item(nil), all[offset:end]...), nil
	}}
}

// gatedFetcher blocks queries equal to slow until release is closed.
type gatedFetcher struct {
	*stubFetcher
	started chan struct{}
	release chan struct{}
}

func newGatedFetcher(c domain.Category, slow string) *gatedFetcher {
	g := &gatedFetcher{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	g.stubFetcher = &stubFetcher{fn: func(_ context.Context, text string, _, _ int) ([]domain.Item, error) {
		if text == slow {
			g.started <- struct{}{}
			<-g.release
		}
		return makeItems(c, text, 0, 2), nil
	}}
	return g
}

func testSettings() domain.SearchSettings {
	s := domain.DefaultSearchSettings()
	s.Debounce = 30 * time.Millisecond
	s.FetchTimeout = 2 * time.Second
	s.LoadMoreCooldown = time.Minute
	return s
}

func allFetchers(total int) map[domain.Category]driven.CategoryFetcher {
	out := make(map[domain.Category]driven.CategoryFetcher)
	for _, c := range domain.Categories() {
		out[c] = pagedFetcher(c, total)
	}
	return out
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingMetrics struct {
	mu     sync.Mutex
	hits   int
	misses int
	fetch  int
	failed int
	stale  int
}

func (m *recordingMetrics) CacheLookup(_ domain.Category, hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func (m *recordingMetrics) FetchCompleted(_ domain.Category, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetch++
	if err != nil {
		m.failed++
	}
}

func (m *recordingMetrics) StaleDiscarded(domain.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stale++
}

type countingPool struct {
	mu        sync.Mutex
	submitted int
	err       error
}

func (p *countingPool) Submit(task func()) error {
	p.mu.Lock()
	p.submitted++
	err := p.err
	p.mu.Unlock()
	if err != nil {
		return err
	}
	go task()
	return nil
}
