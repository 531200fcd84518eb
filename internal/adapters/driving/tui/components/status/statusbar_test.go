package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickfind/internal/core/domain"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
	assert.Equal(t, StateIdle, bar.State())
	assert.Contains(t, bar.View(), "Type to search")
}

func TestBar_Observe(t *testing.T) {
	state := domain.NewAggregateState(domain.Categories())
	bar := NewBar(nil, nil)
	bar.SetWidth(200)

	bar.Observe(state, domain.CategoryAll)
	assert.Equal(t, StateIdle, bar.State())

	people := state[domain.CategoryPeople]
	people.Begin()
	state[domain.CategoryPeople] = people
	bar.Observe(state, domain.CategoryAll)
	assert.Equal(t, StateSearching, bar.State())
	assert.Contains(t, bar.View(), "Searching...")

	people.Complete("anna", []domain.Item{{ID: "1"}, {ID: "2"}}, 0, 6)
	state[domain.CategoryPeople] = people
	posts := state[domain.CategoryPosts]
	posts.Fail(errors.New("down"))
	state[domain.CategoryPosts] = posts
	bar.Observe(state, domain.CategoryAll)
	assert.Equal(t, StateResults, bar.State())
	assert.Equal(t, 2, bar.ResultCount())
	assert.Contains(t, bar.View(), "2 results")
	assert.Contains(t, bar.View(), "1 failed")

	// Only the categories in view count.
	bar.Observe(state, domain.CategoryEvents)
	assert.Equal(t, StateIdle, bar.State())
	assert.Zero(t, bar.ResultCount())
}

func TestBar_ClosedIgnoresObserve(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)
	bar.SetState(StateClosed)

	state := domain.NewAggregateState(domain.Categories())
	bar.Observe(state, domain.CategoryAll)

	assert.Equal(t, StateClosed, bar.State())
	out := bar.View()
	assert.Contains(t, out, "Search closed")
	assert.Contains(t, out, "/ search")
}

func TestBar_Message(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetMessage("Selected Anna Berg")
	assert.Equal(t, "Selected Anna Berg", bar.Message())
	assert.Contains(t, bar.View(), "Selected Anna Berg")

	bar.SetState(StateError)
	bar.SetMessage("boom")
	assert.Contains(t, bar.View(), "boom")

	bar.Clear()
	assert.Equal(t, StateIdle, bar.State())
	assert.Empty(t, bar.Message())
}

func TestBar_Width(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)
	assert.Equal(t, 120, bar.Width())
}
