package models

import (
	"fmt"

	"github.com/julianstephens/slotbook/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingBackendURL:
			settings.BackendURL = value
		case constants.SettingRequestTimeoutSec:
			if _, err := fmt.Sscanf(value, "%d", &settings.RequestTimeoutSec); err != nil {
				return Settings{}, fmt.Errorf("parsing request_timeout_sec: %w", err)
			}
		case constants.SettingSessionBackend:
			settings.SessionBackend = value
		case constants.SettingRateLimitRPS:
			if _, err := fmt.Sscanf(value, "%d", &settings.RateLimitRPS); err != nil {
				return Settings{}, fmt.Errorf("parsing rate_limit_rps: %w", err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingBackendURL:        settings.BackendURL,
		constants.SettingRequestTimeoutSec: fmt.Sprintf("%d", settings.RequestTimeoutSec),
		constants.SettingSessionBackend:    settings.SessionBackend,
		constants.SettingRateLimitRPS:      fmt.Sprintf("%d", settings.RateLimitRPS),
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.BackendURL == "" {
		settings.BackendURL = constants.DefaultBackendURL
	}
	if settings.RequestTimeoutSec <= 0 {
		settings.RequestTimeoutSec = constants.DefaultRequestTimeoutSec
	}
	if settings.SessionBackend == "" {
		settings.SessionBackend = constants.DefaultSessionBackend
	}
	if settings.RateLimitRPS < 0 {
		settings.RateLimitRPS = 0
	}
}

// ValidateSessionBackend checks that the backend name is one the client knows how to open
func ValidateSessionBackend(name string) error {
	switch name {
	case constants.SessionBackendKeyring, constants.SessionBackendSQLite:
		return nil
	default:
		return fmt.Errorf("unknown session backend %q (expected %q or %q)", name, constants.SessionBackendKeyring, constants.SessionBackendSQLite)
	}
}
