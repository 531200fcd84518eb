package cli

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickfind/internal/app"
	"github.com/custodia-labs/quickfind/internal/core/domain"
)

func seedTestApp(t *testing.T) {
	t.Helper()
	a := useTestApp(t)
	_, err := app.Seed(t.Context(), a.Catalog)
	require.NoError(t, err)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_Flags(t *testing.T) {
	limit := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "n", limit.Shorthand)
	assert.Equal(t, "0", limit.DefValue)

	category := searchCmd.Flags().Lookup("category")
	require.NotNil(t, category)
	assert.Equal(t, "c", category.Shorthand)

	assert.NotNil(t, searchCmd.Flags().Lookup("offset"))
	assert.NotNil(t, searchCmd.Flags().Lookup("json"))
}

func TestSearchCmd_AllCategories(t *testing.T) {
	seedTestApp(t)

	out, err := execute(t, "search", "oslo")

	require.NoError(t, err)
	assert.Contains(t, out, "People (1)")
	assert.Contains(t, out, "Posts (6+)")
	assert.Contains(t, out, "Locations (1)")
	assert.Contains(t, out, "  Oslo · Norway")
	assert.Less(t, strings.Index(out, "People"), strings.Index(out, "Locations"))
}

func TestSearchCmd_SingleCategory(t *testing.T) {
	seedTestApp(t)

	out, err := execute(t, "search", "--category", "locations", "oslo")

	require.NoError(t, err)
	assert.Contains(t, out, "Locations (1)")
	assert.NotContains(t, out, "People")
}

func TestSearchCmd_NoResults(t *testing.T) {
	seedTestApp(t)

	out, err := execute(t, "search", "-c", "people", "zzzz")

	require.NoError(t, err)
	assert.Contains(t, out, "No results.")
}

func TestSearchCmd_JSON(t *testing.T) {
	seedTestApp(t)

	out, err := execute(t, "search", "--json", "--limit", "3", "oslo")
	require.NoError(t, err)

	var sections []searchSection
	require.NoError(t, json.Unmarshal([]byte(out), &sections))
	require.Len(t, sections, len(domain.Categories()))
	assert.Equal(t, "people", sections[0].Category)
	assert.Equal(t, "posts", sections[1].Category)
	assert.Len(t, sections[1].Items, 3)
	assert.True(t, sections[1].HasMore)
	assert.Equal(t, "loaded", sections[4].Status)
}

func TestSearchCmd_InvalidInput(t *testing.T) {
	useTestApp(t)

	_, err := execute(t, "search", "--category", "videos", "oslo")
	require.ErrorIs(t, err, domain.ErrUnknownCategory)

	_, err = execute(t, "search", "   ")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute(t, "search", "--limit=-1", "oslo")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAllFailed(t *testing.T) {
	failed := domain.NewCategoryState(domain.CategoryPeople)
	failed.Fail(errors.New("down"))
	loaded := domain.NewCategoryState(domain.CategoryPosts)
	loaded.Complete("x", nil, 0, 6)

	assert.NoError(t, allFailed(nil))
	assert.NoError(t, allFailed([]domain.CategoryState{failed, loaded}))

	err := allFailed([]domain.CategoryState{failed})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "people: down")
}

func TestClip(t *testing.T) {
	assert.Equal(t, "hello", clip("hello", 0))
	assert.Equal(t, "hello", clip("hello", 5))
	assert.Equal(t, "he...", clip("hello world", 5))
	assert.Equal(t, "Tr", clip("Tromsø", 2))
}
