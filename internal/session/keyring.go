package session

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/julianstephens/slotbook/internal/keyring"
	"github.com/julianstephens/slotbook/internal/models"
)

// KeyringBackend keeps the whole session in one OS keyring secret
type KeyringBackend struct{}

func (KeyringBackend) LoadSession() (models.Session, error) {
	payload, err := keyring.GetSession()
	if errors.Is(err, keyring.ErrNotFound) {
		return models.Session{}, nil
	}
	if err != nil {
		return models.Session{}, err
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return models.Session{}, fmt.Errorf("failed to decode stored session: %w", err)
	}
	return sess, nil
}

func (KeyringBackend) SaveSession(sess models.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return keyring.SetSession(string(payload))
}

func (KeyringBackend) ClearSession() error {
	if err := keyring.DeleteSession(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
