// Package session holds the process-wide bearer-token session.
//
// Only the authentication flow writes it (through *Store); every other
// component receives a Reader.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/models"
)

// Identity is who the token was issued to
type Identity struct {
	Email string
	Name  string
}

// Reader is the read-only view of the session
type Reader interface {
	Token() (string, bool)
	Role() (constants.Role, bool)
	Identity() (Identity, bool)
	Snapshot() models.Session
}

// Backend persists the session. Save and Clear must replace or remove
// token, role and identity as a single unit.
type Backend interface {
	LoadSession() (models.Session, error)
	SaveSession(models.Session) error
	ClearSession() error
}

// Store is the session held in memory and mirrored to a durable backend
type Store struct {
	mu      sync.RWMutex
	backend Backend
	loaded  bool
	current models.Session
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// NewInMemory returns a store that never touches durable storage
func NewInMemory(initial models.Session) *Store {
	return &Store{backend: &memoryBackend{sess: initial}}
}

// snapshot returns the current session, reading the backend on first use
func (s *Store) snapshot() models.Session {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.current
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		sess, err := s.backend.LoadSession()
		if err != nil {
			logger.Warn("Failed to load session, continuing anonymously", "error", err)
			sess = models.Session{}
		}
		if sess.Token == "" {
			sess = models.Session{}
		}
		s.current = sess
		s.loaded = true
	}
	return s.current
}

func (s *Store) Snapshot() models.Session {
	return s.snapshot()
}

func (s *Store) Token() (string, bool) {
	sess := s.snapshot()
	return sess.Token, sess.Token != ""
}

// Role is only reported while a token is held
func (s *Store) Role() (constants.Role, bool) {
	sess := s.snapshot()
	if sess.Token == "" || sess.Role == "" {
		return "", false
	}
	return sess.Role, true
}

func (s *Store) Identity() (Identity, bool) {
	sess := s.snapshot()
	if sess.Token == "" {
		return Identity{}, false
	}
	return Identity{Email: sess.Email, Name: sess.Name}, true
}

// Set persists and publishes a new session. Readers observe either the old
// session or the new one, never a mix.
func (s *Store) Set(token string, role constants.Role, id Identity) error {
	if token == "" {
		return errors.New("session token cannot be empty")
	}
	if role != constants.RolePatient && role != constants.RoleAdmin {
		return fmt.Errorf("unknown role %q", role)
	}
	sess := models.Session{Token: token, Role: role, Email: id.Email, Name: id.Name}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.SaveSession(sess); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	s.current = sess
	s.loaded = true
	logger.Debug("Session set", "role", role, "email", id.Email)
	return nil
}

// Clear removes token, role and identity together
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.ClearSession(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.current = models.Session{}
	s.loaded = true
	logger.Debug("Session cleared")
	return nil
}

// WellFormedToken reports whether token is present and made of exactly
// three non-empty dot-separated segments. Signature and expiry are left
// to the scheduling service.
func WellFormedToken(token string) bool {
	if token == "" {
		return false
	}
	parts := strings.Split(token, ".")
	if len(parts) != constants.TokenSegments {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

type memoryBackend struct {
	sess models.Session
}

func (m *memoryBackend) LoadSession() (models.Session, error) { return m.sess, nil }

func (m *memoryBackend) SaveSession(sess models.Session) error {
	m.sess = sess
	return nil
}

func (m *memoryBackend) ClearSession() error {
	m.sess = models.Session{}
	return nil
}
