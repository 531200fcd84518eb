package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/core/ports/driving"
	"github.com/custodia-labs/quickfind/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.SearchSession = (*Session)(nil)

// SessionCallbacks are invoked by a session in response to navigation keys.
type SessionCallbacks struct {
	// OnSelect receives the highlighted item when Enter is pressed.
	OnSelect func(domain.Item)

	// OnClose is called after Escape closed the surface.
	OnClose func()
}

// Session binds an aggregator to one interactive search surface. It routes
// typed input through the debouncer, keeps the navigator in step with every
// state change and drives infinite scroll for the selected category.
type Session struct {
	ctx       context.Context
	engine    *Aggregator
	debouncer *Debouncer
	paginator *Paginator
	navigator *Navigator
	callbacks SessionCallbacks

	mu          sync.Mutex
	text        string
	view        domain.Category
	recent      []string
	recentLimit int

	unsubscribe func()
}

// NewSession creates a closed session over engine. ctx bounds fetches
// dispatched after the debounce period.
func NewSession(ctx context.Context, engine *Aggregator, callbacks SessionCallbacks) *Session {
	settings := engine.Settings()
	s := &Session{
		ctx:         ctx,
		engine:      engine,
		paginator:   NewPaginator(settings),
		callbacks:   callbacks,
		view:        domain.CategoryAll,
		recentLimit: settings.RecentLimit,
	}
	s.debouncer = NewDebouncer(settings.Debounce, s.dispatch)
	s.navigator = NewNavigator(callbacks.OnSelect, s.escape)
	s.unsubscribe = engine.Subscribe(func(state domain.AggregateState) {
		s.navigator.Sync(state, s.Category())
	})
	return s
}

// Release detaches the session from its engine and drops pending input.
func (s *Session) Release() {
	s.debouncer.Cancel()
	s.unsubscribe()
}

// Engine returns the underlying aggregator.
func (s *Session) Engine() *Aggregator {
	return s.engine
}

// ApplySettings hot-swaps the search settings of the whole session.
func (s *Session) ApplySettings(settings domain.SearchSettings) {
	s.engine.ApplySettings(settings)
	s.debouncer.SetDelay(settings.Debounce)
	s.paginator.Configure(settings)

	s.mu.Lock()
	s.recentLimit = settings.RecentLimit
	s.trimRecent()
	s.mu.Unlock()
}

// Input records typed text and dispatches it once input has been quiet for
// the debounce period. Clearing the text resets the results immediately.
func (s *Session) Input(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()

	if domain.NormalizeText(text) == "" {
		s.debouncer.Cancel()
		s.resetResults()
		return
	}
	s.debouncer.Push(text)
}

// Text returns the current query text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Category returns the selected view.
func (s *Session) Category() domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Search dispatches text to the given view immediately, bypassing the
// debouncer. Empty text clears the results.
func (s *Session) Search(ctx context.Context, text string, category domain.Category) error {
	if !category.IsAll() && !category.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
	s.debouncer.Cancel()

	s.mu.Lock()
	s.text = text
	changed := s.view != category
	s.view = category
	s.mu.Unlock()

	if changed {
		// Subscribers read the new view when the snapshot is delivered.
		s.engine.Refresh()
	}
	if domain.NormalizeText(text) == "" {
		s.resetResults()
		return nil
	}

	s.paginator.Reset()
	s.remember(text)

	if category.IsAll() {
		return s.engine.FanOut(ctx, text, 0)
	}
	return s.engine.Search(ctx, category, text, 0, 0)
}

// SelectCategory switches the view and re-searches the current text.
func (s *Session) SelectCategory(ctx context.Context, category domain.Category) error {
	return s.Search(ctx, s.Text(), category)
}

// LoadMore fetches the next page of a category and appends it.
func (s *Session) LoadMore(ctx context.Context, category domain.Category, text string) error {
	return s.engine.LoadMore(ctx, category, text)
}

// Retry re-issues the first page of a category.
func (s *Session) Retry(ctx context.Context, category domain.Category, text string) error {
	return s.engine.Retry(ctx, category, text)
}

// Clear empties the query and resets every category to idle.
func (s *Session) Clear() {
	s.debouncer.Cancel()
	s.mu.Lock()
	s.text = ""
	s.mu.Unlock()
	s.resetResults()
}

// Snapshot returns a copy of the aggregate state.
func (s *Session) Snapshot() domain.AggregateState {
	return s.engine.Snapshot()
}

// Subscribe registers a render callback. It runs after the navigator has
// been synchronised with the same snapshot.
func (s *Session) Subscribe(fn func(domain.AggregateState)) func() {
	return s.engine.Subscribe(fn)
}

// Open shows the surface. Reopening with no query starts from idle.
func (s *Session) Open() {
	if domain.NormalizeText(s.Text()) == "" {
		s.resetResults()
	}
	s.navigator.Open()
}

// Close hides the surface and drops pending input.
func (s *Session) Close() {
	s.navigator.Close()
	s.debouncer.Cancel()
	if domain.NormalizeText(s.Text()) == "" {
		s.resetResults()
	}
}

// IsOpen reports whether the surface is shown.
func (s *Session) IsOpen() bool {
	return s.navigator.IsOpen()
}

// HandleKey maps a navigation key to highlight, selection or close.
func (s *Session) HandleKey(key domain.Key) bool {
	return s.navigator.HandleKey(key)
}

// Scroll samples the scroll position of the single-category view and starts
// a load-more in the background when the bottom is near. It reports whether
// a load-more was started.
func (s *Session) Scroll(ctx context.Context, pos domain.ScrollPosition) bool {
	view := s.Category()
	if view.IsAll() {
		return false
	}
	st, ok := s.engine.State(view)
	if !ok || !s.paginator.ShouldLoadMore(view, st, pos) {
		return false
	}

	text, count := st.Query, len(st.Items)
	logger.For(string(view)).Debug("scroll load-more at %d items", count)
	go func() {
		if err := s.engine.LoadMore(ctx, view, text); err == nil {
			s.paginator.Done(view, count)
		}
	}()
	return true
}

// Flattened returns the items of the categories in view.
func (s *Session) Flattened() []domain.Item {
	return s.navigator.Items()
}

// Highlighted returns the highlighted index into Flattened.
func (s *Session) Highlighted() int {
	return s.navigator.Highlighted()
}

// Current returns the highlighted item, if any.
func (s *Session) Current() (domain.Item, bool) {
	return s.navigator.Current()
}

// Recent returns recent queries, most recent first.
func (s *Session) Recent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.recent...)
}

// dispatch runs a debounced query against the current view.
func (s *Session) dispatch(text string) {
	if err := s.Search(s.ctx, text, s.Category()); err != nil {
		logger.Debug("debounced search %q: %v", text, err)
	}
}

func (s *Session) escape() {
	s.Close()
	if s.callbacks.OnClose != nil {
		s.callbacks.OnClose()
	}
}

func (s *Session) resetResults() {
	s.engine.Clear()
	s.navigator.Reset()
	s.paginator.Reset()
}

func (s *Session) remember(text string) {
	q := domain.NormalizeText(text)
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.recent)+1)
	out = append(out, q)
	for _, r := range s.recent {
		if r != q {
			out = append(out, r)
		}
	}
	s.recent = out
	s.trimRecent()
}

// trimRecent bounds the recent list. Caller must hold mu.
func (s *Session) trimRecent() {
	if s.recentLimit >= 0 && len(s.recent) > s.recentLimit {
		s.recent = s.recent[:s.recentLimit]
	}
}
