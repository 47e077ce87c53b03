package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/models"
)

// LoadSession returns the stored session, or the anonymous session if none is stored
func (s *Store) LoadSession() (models.Session, error) {
	var (
		sess models.Session
		role string
	)
	err := s.db.QueryRow("SELECT token, role, email, name FROM session WHERE id = 1").
		Scan(&sess.Token, &role, &sess.Email, &sess.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, nil
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	sess.Role = constants.Role(role)
	return sess, nil
}

// SaveSession replaces the stored session in one statement
func (s *Store) SaveSession(sess models.Session) error {
	if sess.Token == "" {
		return errors.New("cannot save a session without a token")
	}
	_, err := s.db.Exec(`
		INSERT INTO session (id, token, role, email, name, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			role = excluded.role,
			email = excluded.email,
			name = excluded.name,
			updated_at = excluded.updated_at`,
		sess.Token, string(sess.Role), sess.Email, sess.Name, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Store) ClearSession() error {
	if _, err := s.db.Exec("DELETE FROM session"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
