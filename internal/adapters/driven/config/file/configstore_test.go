package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".quickfind", "config.toml"), store.Path())
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[search\npage_size ="), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("search.cache_ttl", "5m"))
	require.NoError(t, store.Set("search.page_size", 6))
	require.NoError(t, store.Set("search.rate_limit", 2.5))
	require.NoError(t, store.Set("ui.colour", true))

	assert.Equal(t, "5m", store.GetString("search.cache_ttl"))
	assert.Equal(t, 6, store.GetInt("search.page_size"))
	assert.InDelta(t, 2.5, store.GetFloat("search.rate_limit"), 0.0001)
	assert.InDelta(t, 6.0, store.GetFloat("search.page_size"), 0.0001)
	assert.True(t, store.GetBool("ui.colour"))

	assert.Empty(t, store.GetString("search.page_size"))
	assert.Zero(t, store.GetInt("search.cache_ttl"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("search.page_size", 8))
	require.NoError(t, store.Set("storage.backend", "memory"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[search]")
	assert.Contains(t, string(raw), "[storage]")

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 8, reopened.GetInt("search.page_size"))
	assert.Equal(t, "memory", reopened.GetString("storage.backend"))
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[search]
debounce = "200ms"
workers = 4
rate_limit = 3
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "200ms", store.GetString("search.debounce"))
	assert.Equal(t, 4, store.GetInt("search.workers"))
	assert.InDelta(t, 3.0, store.GetFloat("search.rate_limit"), 0.0001)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Load_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	_, ok := store.Get("search.page_size")
	assert.False(t, ok)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("search.workers", i+1)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("search.workers")
		}()
	}
	wg.Wait()

	assert.Positive(t, store.GetInt("search.workers"))
}

func TestConfigStore_WatchReloadsOnChange(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("search.page_size", 6))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, func() { changed <- struct{}{} })
	}()

	// Give the watcher time to register before editing the file.
	time.Sleep(100 * time.Millisecond)

	other, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, other.Set("search.page_size", 9))

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not report the change")
	}
	assert.Eventually(t, func() bool { return store.GetInt("search.page_size") == 9 }, time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestNestMap_InverseOfFlatten(t *testing.T) {
	flat := map[string]any{
		"search.page_size": 6,
		"search.debounce":  "300ms",
		"storage.backend":  "sqlite",
		"top":              true,
	}

	assert.Equal(t, flat, flattenMap(nestMap(flat), ""))
}
