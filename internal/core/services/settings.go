package services

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/custodia-labs/wbedit/internal/core/domain"
	"github.com/custodia-labs/wbedit/internal/core/ports/driven"
	"github.com/custodia-labs/wbedit/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyAPIURL      = "api.url"
	keySiteIRI     = "api.site_iri"
	keyUserAgent   = "api.user_agent"
	keyMaxlag      = "api.maxlag"
	keyRate        = "api.requests_per_second"
	keyUsername    = "auth.username"
	keyPassword    = "auth.password"
	keyAccessToken = "auth.access_token"
)

var settingKeys = []string{
	keyAPIURL, keySiteIRI, keyUserAgent, keyMaxlag, keyRate,
	keyUsername, keyPassword, keyAccessToken,
}

// SettingsService manages client settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current client settings.
func (s *SettingsService) Get() (*domain.ClientSettings, error) {
	defaults := domain.DefaultClientSettings()

	settings := &domain.ClientSettings{
		APIURL:            s.getString(keyAPIURL, defaults.APIURL),
		SiteIRI:           s.getString(keySiteIRI, defaults.SiteIRI),
		UserAgent:         s.getString(keyUserAgent, defaults.UserAgent),
		Maxlag:            s.getInt(keyMaxlag, defaults.Maxlag),
		RequestsPerSecond: s.getFloat(keyRate, defaults.RequestsPerSecond),
		Auth: domain.AuthSettings{
			Username:    s.configStore.GetString(keyUsername),
			Password:    s.configStore.GetString(keyPassword),
			AccessToken: s.configStore.GetString(keyAccessToken),
		},
	}

	return settings, nil
}

// Save persists client settings.
func (s *SettingsService) Save(settings *domain.ClientSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyAPIURL, settings.APIURL},
		{keySiteIRI, settings.SiteIRI},
		{keyUserAgent, settings.UserAgent},
		{keyMaxlag, settings.Maxlag},
		{keyRate, settings.RequestsPerSecond},
		{keyUsername, settings.Auth.Username},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Secrets are only written when set.
	if settings.Auth.Password != "" {
		if err := s.configStore.Set(keyPassword, settings.Auth.Password); err != nil {
			return fmt.Errorf("save %s: %w", keyPassword, err)
		}
	}
	if settings.Auth.AccessToken != "" {
		if err := s.configStore.Set(keyAccessToken, settings.Auth.AccessToken); err != nil {
			return fmt.Errorf("save %s: %w", keyAccessToken, err)
		}
	}

	return nil
}

// Set updates a single setting, converting numeric values.
func (s *SettingsService) Set(key, value string) error {
	switch key {
	case keyMaxlag:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, n)
	case keyRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, f)
	}

	if !slices.Contains(settingKeys, key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return s.configStore.Set(key, value)
}

// Unset removes a setting so that its default applies again.
func (s *SettingsService) Unset(key string) error {
	if !slices.Contains(settingKeys, key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return s.configStore.Delete(key)
}

// Keys returns the configuration keys accepted by Set.
func (s *SettingsService) Keys() []string {
	return slices.Clone(settingKeys)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.ClientSettings {
	return domain.DefaultClientSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		return defaultVal
	default:
		return defaultVal
	}
}
