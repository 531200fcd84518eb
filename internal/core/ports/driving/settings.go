package driving

import "github.com/custodia-labs/quickfind/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by key, validating the result.
	Set(key, value string) error

	// Keys returns every supported setting key.
	Keys() []string

	// Values returns the effective value of every key as text.
	Values() (map[string]string, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
