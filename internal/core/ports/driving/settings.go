package driving

import "github.com/custodia-labs/safetyqa/internal/core/domain"

// SettingsService reads and updates application settings.
type SettingsService interface {
	// Get returns the effective settings: defaults, overridden by the
	// config file, overridden by environment variables.
	Get() (*domain.Settings, error)

	// Set parses value for key, validates the result and persists it.
	// Returns domain.ErrConfigNotFound for unknown keys.
	Set(key, value string) error

	// Keys returns every settable key in display order.
	Keys() []string
}
