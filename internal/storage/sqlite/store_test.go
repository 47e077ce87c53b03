package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return store
}

func TestInitWritesDefaultSettings(t *testing.T) {
	store := setupTestStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if settings.BackendURL != constants.DefaultBackendURL {
		t.Errorf("BackendURL = %q, want %q", settings.BackendURL, constants.DefaultBackendURL)
	}
	if settings.SessionBackend != constants.DefaultSessionBackend {
		t.Errorf("SessionBackend = %q, want %q", settings.SessionBackend, constants.DefaultSessionBackend)
	}
	if settings.RequestTimeoutSec != constants.DefaultRequestTimeoutSec {
		t.Errorf("RequestTimeoutSec = %d, want %d", settings.RequestTimeoutSec, constants.DefaultRequestTimeoutSec)
	}
}

func TestSaveSettings(t *testing.T) {
	store := setupTestStore(t)

	want := models.Settings{
		BackendURL:        "https://scheduling.example.com",
		RequestTimeoutSec: 10,
		SessionBackend:    constants.SessionBackendSQLite,
		RateLimitRPS:      2,
	}
	if err := store.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if got != want {
		t.Errorf("GetSettings() = %+v, want %+v", got, want)
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := setupTestStore(t)

	sess, err := store.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() failed: %v", err)
	}
	if !sess.Anonymous() {
		t.Errorf("fresh store should hold no session, got %+v", sess)
	}

	first := models.Session{Token: "a.b.c", Role: constants.RolePatient, Email: "a@x.com", Name: "A"}
	if err := store.SaveSession(first); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	second := models.Session{Token: "d.e.f", Role: constants.RoleAdmin, Email: "admin@x.com"}
	if err := store.SaveSession(second); err != nil {
		t.Fatalf("SaveSession() overwrite failed: %v", err)
	}

	got, err := store.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() failed: %v", err)
	}
	if got != second {
		t.Errorf("LoadSession() = %+v, want %+v", got, second)
	}

	if err := store.ClearSession(); err != nil {
		t.Fatalf("ClearSession() failed: %v", err)
	}
	got, err = store.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() after clear failed: %v", err)
	}
	if !got.Anonymous() || got.Role != "" || got.Email != "" {
		t.Errorf("after ClearSession() got %+v, want anonymous", got)
	}
}

func TestSaveSessionRequiresToken(t *testing.T) {
	store := setupTestStore(t)

	if err := store.SaveSession(models.Session{Role: constants.RolePatient}); err == nil {
		t.Error("SaveSession() without token should fail")
	}
}

func TestSessionSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	sess := models.Session{Token: "a.b.c", Role: constants.RolePatient, Email: "a@x.com"}
	if err := store.SaveSession(sess); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() failed: %v", err)
	}
	if got != sess {
		t.Errorf("LoadSession() after reopen = %+v, want %+v", got, sess)
	}
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("Load() on a missing database should fail")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := setupTestStore(t)

	before, err := store.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() failed: %v", err)
	}
	if before < 1 {
		t.Errorf("SchemaVersion() = %d, want at least 1", before)
	}

	applied, err := store.Migrate(func(string) {})
	if err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("Migrate() applied %d migrations on an up-to-date database", applied)
	}
}
