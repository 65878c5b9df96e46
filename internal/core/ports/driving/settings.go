package driving

import "github.com/custodia-labs/wbedit/internal/core/domain"

// SettingsService manages client settings.
type SettingsService interface {
	// Get retrieves current client settings.
	Get() (*domain.ClientSettings, error)

	// Save persists client settings.
	Save(settings *domain.ClientSettings) error

	// Set updates a single setting by its configuration key.
	Set(key, value string) error

	// Unset removes a setting so that its default applies again.
	Unset(key string) error

	// Keys returns the configuration keys accepted by Set.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.ClientSettings
}
