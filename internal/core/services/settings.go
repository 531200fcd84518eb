package services

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/core/ports/driven"
	"github.com/custodia-labs/quickfind/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyCacheTTL         = "search.cache_ttl"
	keyDebounce         = "search.debounce"
	keyPageSize         = "search.page_size"
	keyLoadMorePageSize = "search.load_more_page_size"
	keyScrollThreshold  = "search.scroll_threshold"
	keyLoadMoreCooldown = "search.load_more_cooldown"
	keyFetchTimeout     = "search.fetch_timeout"
	keyWorkers          = "search.workers"
	keyRateLimit        = "search.rate_limit"
	keyRecentLimit      = "search.recent_limit"
	keyStorageBackend   = "storage.backend"
	keyStorageDataDir   = "storage.data_dir"
)

type settingKind int

const (
	kindDuration settingKind = iota
	kindInt
	kindFloat
	kindString
)

var settingKinds = map[string]settingKind{
	keyCacheTTL:         kindDuration,
	keyDebounce:         kindDuration,
	keyPageSize:         kindInt,
	keyLoadMorePageSize: kindInt,
	keyScrollThreshold:  kindInt,
	keyLoadMoreCooldown: kindDuration,
	keyFetchTimeout:     kindDuration,
	keyWorkers:          kindInt,
	keyRateLimit:        kindFloat,
	keyRecentLimit:      kindInt,
	keyStorageBackend:   kindString,
	keyStorageDataDir:   kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or malformed values
// fall back to their defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := s.read()
	if err := settings.Search.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

func (s *SettingsService) read() *domain.AppSettings {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Search: domain.SearchSettings{
			CacheTTL:         s.getDuration(keyCacheTTL, defaults.Search.CacheTTL),
			Debounce:         s.getDuration(keyDebounce, defaults.Search.Debounce),
			PageSize:         s.getInt(keyPageSize, defaults.Search.PageSize),
			LoadMorePageSize: s.getInt(keyLoadMorePageSize, defaults.Search.LoadMorePageSize),
			ScrollThreshold:  s.getInt(keyScrollThreshold, defaults.Search.ScrollThreshold),
			LoadMoreCooldown: s.getDuration(keyLoadMoreCooldown, defaults.Search.LoadMoreCooldown),
			FetchTimeout:     s.getDuration(keyFetchTimeout, defaults.Search.FetchTimeout),
			Workers:          s.getInt(keyWorkers, defaults.Search.Workers),
			RateLimit:        s.getFloat(keyRateLimit, defaults.Search.RateLimit),
			RecentLimit:      s.getInt(keyRecentLimit, defaults.Search.RecentLimit),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			DataDir: s.configStore.GetString(keyStorageDataDir),
		},
	}
	return settings
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Search.Validate(); err != nil {
		return err
	}
	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: storage backend %q", domain.ErrInvalidInput, settings.Storage.Backend)
	}

	search := settings.Search
	values := []struct {
		key   string
		value any
	}{
		{keyCacheTTL, search.CacheTTL.String()},
		{keyDebounce, search.Debounce.String()},
		{keyPageSize, search.PageSize},
		{keyLoadMorePageSize, search.LoadMorePageSize},
		{keyScrollThreshold, search.ScrollThreshold},
		{keyLoadMoreCooldown, search.LoadMoreCooldown.String()},
		{keyFetchTimeout, search.FetchTimeout.String()},
		{keyWorkers, search.Workers},
		{keyRateLimit, search.RateLimit},
		{keyRecentLimit, search.RecentLimit},
		{keyStorageBackend, settings.Storage.Backend.String()},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	if settings.Storage.DataDir != "" {
		if err := s.configStore.Set(keyStorageDataDir, settings.Storage.DataDir); err != nil {
			return fmt.Errorf("save %s: %w", keyStorageDataDir, err)
		}
	}
	return nil
}

// Set parses value according to the key's type, validates the resulting
// settings and persists the single key.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var parsed any
	switch kind {
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		parsed = d.String()
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		parsed = f
	default:
		if key == keyStorageBackend && !domain.StorageBackend(value).IsValid() {
			return fmt.Errorf("%w: storage backend %q", domain.ErrInvalidInput, value)
		}
		parsed = value
	}

	candidate := s.read()
	applySetting(candidate, key, parsed)
	if err := candidate.Search.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every supported setting key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns the effective value of every key, defaults included.
func (s *SettingsService) Values() (map[string]string, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	search := settings.Search
	return map[string]string{
		keyCacheTTL:         search.CacheTTL.String(),
		keyDebounce:         search.Debounce.String(),
		keyPageSize:         strconv.Itoa(search.PageSize),
		keyLoadMorePageSize: strconv.Itoa(search.LoadMorePageSize),
		keyScrollThreshold:  strconv.Itoa(search.ScrollThreshold),
		keyLoadMoreCooldown: search.LoadMoreCooldown.String(),
		keyFetchTimeout:     search.FetchTimeout.String(),
		keyWorkers:          strconv.Itoa(search.Workers),
		keyRateLimit:        strconv.FormatFloat(search.RateLimit, 'g', -1, 64),
		keyRecentLimit:      strconv.Itoa(search.RecentLimit),
		keyStorageBackend:   settings.Storage.Backend.String(),
		keyStorageDataDir:   settings.Storage.DataDir,
	}, nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return *domain.DefaultAppSettings()
}

// applySetting writes a parsed value into settings.
func applySetting(settings *domain.AppSettings, key string, value any) {
	search := &settings.Search
	switch key {
	case keyCacheTTL:
		search.CacheTTL, _ = time.ParseDuration(value.(string))
	case keyDebounce:
		search.Debounce, _ = time.ParseDuration(value.(string))
	case keyLoadMoreCooldown:
		search.LoadMoreCooldown, _ = time.ParseDuration(value.(string))
	case keyFetchTimeout:
		search.FetchTimeout, _ = time.ParseDuration(value.(string))
	case keyPageSize:
		search.PageSize = value.(int)
	case keyLoadMorePageSize:
		search.LoadMorePageSize = value.(int)
	case keyScrollThreshold:
		search.ScrollThreshold = value.(int)
	case keyWorkers:
		search.Workers = value.(int)
	case keyRecentLimit:
		search.RecentLimit = value.(int)
	case keyRateLimit:
		search.RateLimit = value.(float64)
	case keyStorageBackend:
		settings.Storage.Backend = domain.StorageBackend(value.(string))
	case keyStorageDataDir:
		settings.Storage.DataDir = value.(string)
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
