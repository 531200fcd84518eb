package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickfind/internal/core/domain"
)

func stateWith(counts map[domain.Category]int) domain.AggregateState {
	state := domain.NewAggregateState(domain.Categories())
	for c, n := range counts {
		st := state[c]
		st.Complete("q", makeItems(c, string(c), 0, n), 0, 6)
		state[c] = st
	}
	return state
}

func TestFlatten_DeclaredOrder(t *testing.T) {
	state := stateWith(map[domain.Category]int{
		domain.CategoryLocations: 1,
		domain.CategoryPeople:    2,
		domain.CategoryEvents:    1,
	})

	items := Flatten(state, domain.CategoryAll)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"people-0", "people-1", "events-0", "locations-0"}, ids)

	assert.Len(t, Flatten(state, domain.CategoryEvents), 1)
	assert.Empty(t, Flatten(state, domain.CategoryPosts))
}

func TestNavigator_KeysInertWhenClosed(t *testing.T) {
	closed := false
	nav := NewNavigator(nil, func() { closed = true })
	nav.Sync(stateWith(map[domain.Category]int{domain.CategoryPeople: 3}), domain.CategoryAll)

	assert.False(t, nav.HandleKey(domain.KeyDown))
	assert.False(t, nav.HandleKey(domain.KeyEscape))
	assert.Equal(t, 0, nav.Highlighted())
	assert.False(t, closed)
}

func TestNavigator_ArrowsClamp(t *testing.T) {
	nav := NewNavigator(nil, nil)
	nav.Open()
	nav.Sync(stateWith(map[domain.Category]int{domain.CategoryPeople: 3}), domain.CategoryAll)

	assert.True(t, nav.HandleKey(domain.KeyUp))
	assert.Equal(t, 0, nav.Highlighted())

	for range 5 {
		nav.HandleKey(domain.KeyDown)
	}
	assert.Equal(t, 2, nav.Highlighted())

	nav.HandleKey(domain.KeyUp)
	assert.Equal(t, 1, nav.Highlighted())
}

func TestNavigator_EnterSelectsHighlighted(t *testing.T) {
	var selected []domain.Item
	nav := NewNavigator(func(item domain.Item) { selected = append(selected, item) }, nil)
	nav.Open()
	nav.Sync(stateWith(map[domain.Category]int{domain.CategoryPeople: 1, domain.CategoryPosts: 2}), domain.CategoryAll)

	nav.HandleKey(domain.KeyDown)
	nav.HandleKey(domain.KeyDown)
	assert.True(t, nav.HandleKey(domain.KeyEnter))

	require.Len(t, selected, 1)
	assert.Equal(t, "posts-1", selected[0].ID)
}

func TestNavigator_EnterOnEmptyList(t *testing.T) {
	called := false
	nav := NewNavigator(func(domain.Item) { called = true }, nil)
	nav.Open()
	nav.Sync(domain.NewAggregateState(domain.Categories()), domain.CategoryAll)

	assert.False(t, nav.HandleKey(domain.KeyEnter))
	assert.False(t, called)
	_, ok := nav.Current()
	assert.False(t, ok)
}

func TestNavigator_EscapeCallsClose(t *testing.T) {
	closed := 0
	nav := NewNavigator(nil, func() { closed++ })
	nav.Open()

	assert.True(t, nav.HandleKey(domain.KeyEscape))
	assert.Equal(t, 1, closed)
	assert.False(t, nav.HandleKey(domain.KeyNone))
}

func TestNavigator_ResetOnIdentityChange(t *testing.T) {
	nav := NewNavigator(nil, nil)
	nav.Open()
	state := stateWith(map[domain.Category]int{domain.CategoryPeople: 6})
	nav.Sync(state, domain.CategoryPeople)

	nav.HandleKey(domain.KeyDown)
	nav.HandleKey(domain.KeyDown)
	require.Equal(t, 2, nav.Highlighted())

	// Same lists: highlight is kept.
	nav.Sync(state.Clone(), domain.CategoryPeople)
	assert.Equal(t, 2, nav.Highlighted())

	// Page append.
	st := state[domain.CategoryPeople]
	st.Complete("q", makeItems(domain.CategoryPeople, "more", 0, 4), 6, 12)
	state[domain.CategoryPeople] = st
	nav.Sync(state, domain.CategoryPeople)
	assert.Equal(t, 0, nav.Highlighted())

	// Category switch.
	nav.HandleKey(domain.KeyDown)
	nav.Sync(state, domain.CategoryAll)
	assert.Equal(t, 0, nav.Highlighted())
}

func TestNavigator_ClampOnShrink(t *testing.T) {
	nav := NewNavigator(nil, nil)
	nav.Open()
	nav.Sync(stateWith(map[domain.Category]int{domain.CategoryPeople: 3}), domain.CategoryAll)
	nav.HandleKey(domain.KeyDown)

	nav.Reset()
	assert.Equal(t, 0, nav.Highlighted())
	assert.Empty(t, nav.Items())
}
