package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/core/ports/driven"
	"github.com/custodia-labs/quickfind/internal/core/ports/driving"
	"github.com/custodia-labs/quickfind/internal/logger"
)

// Ensure Aggregator implements the interfaces.
var (
	_ driving.Lookup = (*Aggregator)(nil)
)

// Aggregator dispatches searches to category executors and merges the results
// into the aggregate state. It is the only component that writes the cache or
// the category states.
//
// Every dispatch for a category captures a generation number. A completion is
// applied only if its generation is still the latest issued for that category;
// anything older is discarded silently. In-flight fetches are never cancelled.
type Aggregator struct {
	mu          sync.Mutex
	categories  []domain.Category
	fetchers    map[domain.Category]driven.CategoryFetcher
	executors   map[domain.Category]*executor
	state       domain.AggregateState
	generations map[domain.Category]uint64
	settings    domain.SearchSettings
	version     uint64

	cache   *TTLCache[[]domain.Item]
	pool    driven.WorkerPool
	metrics driven.SearchMetrics

	subMu       sync.Mutex
	subscribers []subscriber
	nextSubID   int
	published   uint64
}

// NewAggregator creates an aggregator over every searchable category.
// Categories without a fetcher fail with domain.ErrFetcherMissing when searched.
func NewAggregator(fetchers map[domain.Category]driven.CategoryFetcher, settings domain.SearchSettings) *Aggregator {
	categories := domain.Categories()
	a := &Aggregator{
		categories:  categories,
		fetchers:    make(map[domain.Category]driven.CategoryFetcher, len(fetchers)),
		executors:   make(map[domain.Category]*executor, len(categories)),
		state:       domain.NewAggregateState(categories),
		generations: make(map[domain.Category]uint64, len(categories)),
		settings:    settings,
		cache:       NewTTLCache[[]domain.Item](settings.CacheTTL),
		pool:        goroutinePool{},
		metrics:     noopMetrics{},
	}
	for c, f := range fetchers {
		a.fetchers[c] = f
	}
	a.buildExecutors()
	return a
}

// SetWorkerPool sets the pool that runs fan-out branches.
func (a *Aggregator) SetWorkerPool(pool driven.WorkerPool) {
	if pool == nil {
		pool = goroutinePool{}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pool = pool
}

// SetMetrics sets the metrics sink.
func (a *Aggregator) SetMetrics(metrics driven.SearchMetrics) {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.metrics = metrics
}

// Cache exposes the page cache for inspection and clock injection.
func (a *Aggregator) Cache() *TTLCache[[]domain.Item] {
	return a.cache
}

// Settings returns the active search settings.
func (a *Aggregator) Settings() domain.SearchSettings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings
}

// ApplySettings swaps the search settings. Cached pages are judged against
// the new TTL; in-flight fetches keep their original timeout.
func (a *Aggregator) ApplySettings(settings domain.SearchSettings) {
	a.mu.Lock()
	a.settings = settings
	a.buildExecutors()
	a.mu.Unlock()
	a.cache.SetTTL(settings.CacheTTL)
}

// buildExecutors (re)creates executors. Caller must hold mu or own a.
func (a *Aggregator) buildExecutors() {
	for _, c := range a.categories {
		a.executors[c] = newExecutor(c, a.fetchers[c], a.settings.FetchTimeout)
	}
}

// Categories returns the searchable categories in declared order.
func (a *Aggregator) Categories() []domain.Category {
	return append([]domain.Category(nil), a.categories...)
}

// Snapshot returns a copy of the aggregate state.
func (a *Aggregator) Snapshot() domain.AggregateState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Clone()
}

// State returns a copy of one category's state.
func (a *Aggregator) State(category domain.Category) (domain.CategoryState, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	st, ok := a.state[category]
	return st.Clone(), ok
}

type subscriber struct {
	id int
	fn func(domain.AggregateState)
}

// Subscribe registers fn to receive a snapshot after every state change.
// Subscribers run in registration order. Snapshots are delivered in state
// order; a stale snapshot is never delivered after a newer one.
// fn must not call Subscribe or the returned function.
func (a *Aggregator) Subscribe(fn func(domain.AggregateState)) func() {
	a.subMu.Lock()
	defer a.subMu.Unlock()
	id := a.nextSubID
	a.nextSubID++
	a.subscribers = append(a.subscribers, subscriber{id: id, fn: fn})
	return func() {
		a.subMu.Lock()
		defer a.subMu.Unlock()
		for i, sub := range a.subscribers {
			if sub.id == id {
				a.subscribers = append(a.subscribers[:i], a.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Refresh republishes the current state to every subscriber. The snapshot
// is versioned like any other change, so it never overtakes a newer one.
func (a *Aggregator) Refresh() {
	a.mu.Lock()
	snap, version := a.snapshotLocked()
	a.mu.Unlock()
	a.publish(snap, version)
}

// Search runs a single-category search. A cache hit is applied directly with
// no fetch; a miss marks the category loading, fetches, caches the page on
// success and records the outcome. Offset 0 replaces items, any other offset
// appends. A limit of zero uses the configured page size.
func (a *Aggregator) Search(ctx context.Context, category domain.Category, text string, limit, offset int) error {
	if !category.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	if limit <= 0 {
		limit = a.Settings().PageSize
	}
	q := domain.NewSearchQuery(text, category, offset)

	if page, ok := a.cached(q, limit); ok {
		a.mu.Lock()
		gen := a.bump(category)
		a.mu.Unlock()
		a.settle(category, gen, q, page, limit, nil)
		return nil
	}

	a.mu.Lock()
	gen := a.bump(category)
	a.begin(category)
	snap, version := a.snapshotLocked()
	a.mu.Unlock()
	a.publish(snap, version)

	return a.fetch(ctx, q, limit, gen)
}

// FanOut marks every category loading, then searches them all concurrently.
// Each branch publishes its own result as soon as it resolves; a failing
// branch affects only its own category. FanOut returns once every branch has
// settled, joining the branch errors.
func (a *Aggregator) FanOut(ctx context.Context, text string, limit int) error {
	if limit <= 0 {
		limit = a.Settings().PageSize
	}

	logger.Section("Fan-out")
	logger.Debug("Query: %q, limit=%d", text, limit)

	a.mu.Lock()
	gens := make(map[domain.Category]uint64, len(a.categories))
	for _, c := range a.categories {
		gens[c] = a.bump(c)
		a.begin(c)
	}
	pool := a.pool
	snap, version := a.snapshotLocked()
	a.mu.Unlock()
	a.publish(snap, version)

	var (
		wg    sync.WaitGroup
		errMu sync.Mutex
		errs  []error
	)
	record := func(err error) {
		if err == nil {
			return
		}
		errMu.Lock()
		errs = append(errs, err)
		errMu.Unlock()
	}

	for _, c := range a.categories {
		q := domain.NewSearchQuery(text, c, 0)
		gen := gens[c]
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if page, ok := a.cached(q, limit); ok {
				a.settle(q.Category, gen, q, page, limit, nil)
				return
			}
			record(a.fetch(ctx, q, limit, gen))
		})
		if err != nil {
			wg.Done()
			ferr := &domain.FetchError{Category: c, Err: fmt.Errorf("submit: %w", err)}
			a.settle(c, gen, q, nil, limit, ferr)
			record(ferr)
		}
	}

	wg.Wait()
	return errors.Join(errs...)
}

// LoadMore fetches the next, larger page of a category at offset
// len(items) and appends it.
func (a *Aggregator) LoadMore(ctx context.Context, category domain.Category, text string) error {
	st, ok := a.State(category)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	offset, limit := NextPage(st, a.Settings(), false)
	logger.For(string(category)).Debug("load more offset=%d limit=%d", offset, limit)
	return a.Search(ctx, category, text, limit, offset)
}

// Retry re-issues the first page of a category, replacing its items.
func (a *Aggregator) Retry(ctx context.Context, category domain.Category, text string) error {
	st, ok := a.State(category)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	offset, limit := NextPage(st, a.Settings(), true)
	return a.Search(ctx, category, text, limit, offset)
}

// Clear resets every category to idle. Fetches still in flight will land
// against a superseded generation and be discarded.
func (a *Aggregator) Clear() {
	a.mu.Lock()
	for _, c := range a.categories {
		a.bump(c)
		st := a.state[c]
		st.Reset()
		a.state[c] = st
	}
	snap, version := a.snapshotLocked()
	a.mu.Unlock()

	logger.Debug("Cleared all categories")
	a.publish(snap, version)
}

// Lookup answers a one-shot query. It reads and fills the shared cache but
// builds a fresh aggregate, leaving the session state untouched. Branches run
// on the worker pool, like FanOut.
func (a *Aggregator) Lookup(ctx context.Context, query domain.SearchQuery, limit int) domain.AggregateState {
	settings := a.Settings()
	if limit <= 0 {
		limit = settings.PageSize
	}

	result := domain.NewAggregateState(a.categories)
	if query.IsEmpty() {
		return result
	}

	view := domain.ViewCategories(query.Category)
	if !query.Category.IsAll() && !query.Category.IsValid() {
		return result
	}

	var (
		wg    sync.WaitGroup
		resMu sync.Mutex
	)
	apply := func(c domain.Category, page []domain.Item, err error) {
		resMu.Lock()
		defer resMu.Unlock()
		st := result[c]
		if err != nil {
			st.Fail(err)
		} else {
			st.Complete(query.Text, page, query.Offset, limit)
		}
		result[c] = st
	}

	a.mu.Lock()
	pool := a.pool
	a.mu.Unlock()

	for _, c := range view {
		q := query.ForCategory(c)
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if page, ok := a.cached(q, limit); ok {
				apply(c, page, nil)
				return
			}
			page, err := a.execute(ctx, q, limit)
			apply(c, page, err)
		})
		if err != nil {
			wg.Done()
			apply(c, nil, &domain.FetchError{Category: c, Err: fmt.Errorf("submit: %w", err)})
		}
	}
	wg.Wait()

	// Appends at a non-zero offset start from an empty list here.
	return result
}

// fetch runs the executor for q and settles the outcome against gen.
func (a *Aggregator) fetch(ctx context.Context, q domain.SearchQuery, limit int, gen uint64) error {
	page, err := a.execute(ctx, q, limit)
	if !a.settle(q.Category, gen, q, page, limit, err) {
		return nil
	}
	return err
}

// execute fetches a page and caches it on success.
func (a *Aggregator) execute(ctx context.Context, q domain.SearchQuery, limit int) ([]domain.Item, error) {
	log := logger.For(string(q.Category))

	a.mu.Lock()
	exec := a.executors[q.Category]
	metrics := a.metrics
	a.mu.Unlock()

	log.Debug("fetch %q limit=%d offset=%d", q.Text, limit, q.Offset)
	start := time.Now()
	page, err := exec.Execute(ctx, q.Text, limit, q.Offset)
	metrics.FetchCompleted(q.Category, time.Since(start), err)
	if err != nil {
		log.Warn("fetch failed: %v", err)
		return nil, err
	}

	log.Debug("fetched %d items in %s", len(page), time.Since(start))
	a.cache.Set(q.PageKey(limit), page)
	return page, nil
}

// cached returns the page cached for q at limit, recording the lookup.
func (a *Aggregator) cached(q domain.SearchQuery, limit int) ([]domain.Item, bool) {
	page, ok := a.cache.Get(q.PageKey(limit))

	a.mu.Lock()
	metrics := a.metrics
	a.mu.Unlock()
	metrics.CacheLookup(q.Category, ok)

	if ok {
		logger.For(string(q.Category)).Debug("cache hit %q offset=%d", q.Normalized(), q.Offset)
	}
	return page, ok
}

// settle applies a completion if gen is still current. It reports whether
// the result was applied.
func (a *Aggregator) settle(
	category domain.Category, gen uint64, q domain.SearchQuery, page []domain.Item, limit int, err error,
) bool {
	a.mu.Lock()
	if a.generations[category] != gen {
		metrics := a.metrics
		a.mu.Unlock()
		metrics.StaleDiscarded(category)
		logger.For(string(category)).Debug("discarding stale result for %q (generation %d)", q.Text, gen)
		return false
	}

	st := a.state[category]
	if err != nil {
		st.Fail(err)
	} else {
		st.Complete(q.Text, page, q.Offset, limit)
	}
	a.state[category] = st
	snap, version := a.snapshotLocked()
	a.mu.Unlock()

	a.publish(snap, version)
	return true
}

// bump issues a new generation for category. Caller must hold mu.
func (a *Aggregator) bump(category domain.Category) uint64 {
	a.generations[category]++
	return a.generations[category]
}

// begin marks category loading. Caller must hold mu.
func (a *Aggregator) begin(category domain.Category) {
	st := a.state[category]
	st.Begin()
	a.state[category] = st
}

// snapshotLocked clones the state and stamps a version. Caller must hold mu.
func (a *Aggregator) snapshotLocked() (domain.AggregateState, uint64) {
	a.version++
	return a.state.Clone(), a.version
}

// publish delivers snap to subscribers unless a newer snapshot already went out.
func (a *Aggregator) publish(snap domain.AggregateState, version uint64) {
	a.subMu.Lock()
	defer a.subMu.Unlock()
	if version <= a.published {
		return
	}
	a.published = version
	for _, sub := range a.subscribers {
		sub.fn(snap)
	}
}

// goroutinePool runs every task on its own goroutine.
type goroutinePool struct{}

func (goroutinePool) Submit(task func()) error {
	go task()
	return nil
}

// noopMetrics discards all measurements.
type noopMetrics struct{}

func (noopMetrics) CacheLookup(domain.Category, bool)                    {}
func (noopMetrics) FetchCompleted(domain.Category, time.Duration, error) {}
func (noopMetrics) StaleDiscarded(domain.Category)                       {}
