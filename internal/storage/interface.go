package storage

import "github.com/julianstephens/slotbook/internal/models"

// Provider is the local client database
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Session persistence. The stored row is replaced or removed as a whole.
	LoadSession() (models.Session, error)
	SaveSession(models.Session) error
	ClearSession() error

	// Utils
	GetConfigPath() string
}
