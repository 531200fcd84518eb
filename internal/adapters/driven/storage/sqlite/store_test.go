package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickfind/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "quickfind-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func seedItems(t *testing.T, store *Store, c domain.Category, title string, n int) {
	t.Helper()
	items := make([]domain.Item, 0, n)
	for i := range n {
		items = append(items, domain.Item{
			ID:       fmt.Sprintf("%s-%02d", c, i),
			Category: c,
			Title:    fmt.Sprintf("%s %02d", title, i),
		})
	}
	require.NoError(t, store.Save(context.Background(), items))
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	dbPath := filepath.Join(tempDir, "catalog.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	nestedDir := filepath.Join(t.TempDir(), "nested", "path", "to", "db")

	store, err := NewStore(nestedDir)
	require.NoError(t, err)
	defer store.Close()

	assert.DirExists(t, nestedDir)
}

func TestNewStore_Migrations(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	var version int
	err := store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	var tableExists int
	err = store.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='items'").Scan(&tableExists)
	require.NoError(t, err)
	assert.Equal(t, 1, tableExists)
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	seedItems(t, store, domain.CategoryPeople, "Anna", 2)
	require.NoError(t, store.Close())

	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	n, err := store.Count(context.Background(), domain.CategoryPeople)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_Close(t *testing.T) {
	store, _ := setupTestStore(t)

	require.NoError(t, store.Close())
	assert.Error(t, store.db.Ping())
}

// ==================== Catalog Tests ====================

func TestStore_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	created := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	item := domain.Item{
		ID:        "evt-1",
		Category:  domain.CategoryEvents,
		Title:     "Jazz night",
		Subtitle:  "Blå, Oslo",
		Snippet:   "Late set",
		URL:       "/events/evt-1",
		CreatedAt: created,
	}
	require.NoError(t, store.Save(ctx, []domain.Item{item}))

	got, err := store.Get(ctx, domain.CategoryEvents, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, item.Title, got.Title)
	assert.Equal(t, item.Subtitle, got.Subtitle)
	assert.Equal(t, item.URL, got.URL)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestStore_SaveUpserts(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []domain.Item{{ID: "p1", Category: domain.CategoryPosts, Title: "Draft"}}))
	require.NoError(t, store.Save(ctx, []domain.Item{{ID: "p1", Category: domain.CategoryPosts, Title: "Final"}}))

	got, err := store.Get(ctx, domain.CategoryPosts, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)

	n, err := store.Count(ctx, domain.CategoryPosts)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_SaveAssignsIDs(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	items := []domain.Item{{Category: domain.CategoryComments, Title: "Nice"}}
	require.NoError(t, store.Save(context.Background(), items))
	assert.NotEmpty(t, items[0].ID)
}

func TestStore_SaveRejectsUnknownCategory(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.Save(context.Background(), []domain.Item{{Category: "widgets", Title: "x"}})
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestStore_Get_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.Get(context.Background(), domain.CategoryPeople, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_FetcherPaginates(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	seedItems(t, store, domain.CategoryLocations, "Oslo", 10)
	seedItems(t, store, domain.CategoryPeople, "Oslo", 3)
	fetch := store.Fetcher(domain.CategoryLocations)
	ctx := context.Background()

	first, err := fetch.Fetch(ctx, "oslo", 6, 0)
	require.NoError(t, err)
	require.Len(t, first, 6)
	assert.Equal(t, "locations-00", first[0].ID)
	assert.Equal(t, domain.CategoryLocations, first[0].Category)

	rest, err := fetch.Fetch(ctx, "OSLO", 12, 6)
	require.NoError(t, err)
	require.Len(t, rest, 4)
	assert.Equal(t, "locations-06", rest[0].ID)

	none, err := fetch.Fetch(ctx, "bergen", 6, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestStore_FetcherMatchesFields(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []domain.Item{
		{ID: "1", Category: domain.CategoryPosts, Title: "Trip report", Snippet: "A weekend in Bergen"},
		{ID: "2", Category: domain.CategoryPosts, Title: "Recipes", Subtitle: "by Bergen kitchen"},
		{ID: "3", Category: domain.CategoryPosts, Title: "Unrelated"},
	}))

	got, err := store.Fetcher(domain.CategoryPosts).Fetch(ctx, " bergen ", 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Recipes", got[0].Title)
	assert.Equal(t, "Trip report", got[1].Title)

	all, err := store.Fetcher(domain.CategoryPosts).Fetch(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStore_FetcherEscapesWildcards(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []domain.Item{
		{ID: "1", Category: domain.CategoryComments, Title: "100% agree"},
		{ID: "2", Category: domain.CategoryComments, Title: "1000 times"},
	}))

	got, err := store.Fetcher(domain.CategoryComments).Fetch(ctx, "100%", 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestStore_CountUnknownCategory(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.Count(context.Background(), "widgets")
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
}
