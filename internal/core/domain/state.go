package domain

// Status is the lifecycle state of one category's results.
type Status string

// Category result states.
const (
	// StatusIdle means no query has been issued yet (or the session was cleared).
	StatusIdle Status = "idle"

	// StatusLoading means a fetch is in flight. Previous items stay visible.
	StatusLoading Status = "loading"

	// StatusLoaded means the last fetch succeeded.
	StatusLoaded Status = "loaded"

	// StatusFailed means the last fetch failed. Previous items are retained.
	StatusFailed Status = "failed"
)

// String returns the string representation.
func (s Status) String() string {
	return string(s)
}

// CategoryState tracks the results of one category.
type CategoryState struct {
	// Category identifies the category.
	Category Category

	// Status is the current lifecycle state.
	Status Status

	// Query is the text that produced Items.
	Query string

	// Items is append-only within a query session except on offset-0 replacement.
	Items []Item

	// Err is the last failure, nil unless Status is StatusFailed.
	Err error

	// HasMore is true iff the last fetched page was exactly full-sized.
	HasMore bool

	// Total is the running count of items loaded so far.
	Total int
}

// NewCategoryState returns the idle state for a category.
func NewCategoryState(c Category) CategoryState {
	return CategoryState{Category: c, Status: StatusIdle}
}

// Loading reports whether a fetch is in flight.
func (s CategoryState) Loading() bool {
	return s.Status == StatusLoading
}

// Begin transitions to loading. Items and Query are kept so a retry or a
// load-more never blanks the list.
func (s *CategoryState) Begin() {
	s.Status = StatusLoading
	s.Err = nil
}

// Complete applies a successful page. Offset 0 replaces the items, any other
// offset appends.
func (s *CategoryState) Complete(query string, page []Item, offset, limit int) {
	if offset == 0 {
		s.Items = make([]Item, len(page))
		copy(s.Items, page)
	} else {
		s.Items = append(s.Items, page...)
	}
	s.Query = query
	s.Status = StatusLoaded
	s.Err = nil
	s.HasMore = limit > 0 && len(page) == limit
	s.Total = len(s.Items)
}

// Fail records a failure, retaining previously loaded items.
func (s *CategoryState) Fail(err error) {
	s.Status = StatusFailed
	s.Err = err
}

// Reset returns the state to idle, dropping items.
func (s *CategoryState) Reset() {
	*s = NewCategoryState(s.Category)
}

// Clone returns a copy that shares no item storage with s.
func (s CategoryState) Clone() CategoryState {
	if s.Items != nil {
		items := make([]Item, len(s.Items))
		copy(items, s.Items)
		s.Items = items
	}
	return s
}

// AggregateState maps every searchable category to its state.
// It is always fully populated, never partially keyed.
type AggregateState map[Category]CategoryState

// NewAggregateState returns an idle state for every category given.
func NewAggregateState(categories []Category) AggregateState {
	agg := make(AggregateState, len(categories))
	for _, c := range categories {
		agg[c] = NewCategoryState(c)
	}
	return agg
}

// Clone deep copies the aggregate.
func (a AggregateState) Clone() AggregateState {
	out := make(AggregateState, len(a))
	for c, st := range a {
		out[c] = st.Clone()
	}
	return out
}

// Ordered returns the states of the given categories in that order.
// Categories missing from the aggregate are skipped.
func (a AggregateState) Ordered(categories []Category) []CategoryState {
	out := make([]CategoryState, 0, len(categories))
	for _, c := range categories {
		if st, ok := a[c]; ok {
			out = append(out, st)
		}
	}
	return out
}

// AnyLoading reports whether any category has a fetch in flight.
func (a AggregateState) AnyLoading() bool {
	for _, st := range a {
		if st.Status == StatusLoading {
			return true
		}
	}
	return false
}

// TotalItems returns the number of items across every category.
func (a AggregateState) TotalItems() int {
	n := 0
	for _, st := range a {
		n += len(st.Items)
	}
	return n
}
