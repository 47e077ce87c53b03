package system

import (
	"fmt"
	"net/url"
	"time"

	"github.com/julianstephens/slotbook/internal/cli"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/keyring"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/session"
	"github.com/julianstephens/slotbook/internal/storage/sqlite"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	report := func(name string, err error) {
		if err != nil {
			ctx.Printf("❌ %s: FAIL\n", name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			return
		}
		ctx.Printf("✓ %s: OK\n", name)
	}

	// Check 1: DB reachable
	dbErr := checkDBReachable(ctx)
	report("Database reachable", dbErr)

	// Check 2: Schema version (only if DB is reachable)
	if dbErr == nil {
		report("Schema version", checkSchemaVersion(ctx))
	} else {
		ctx.Printf("⊘ Schema version: SKIPPED (database not reachable)\n")
	}

	// Check 3: Settings
	report("Settings", checkSettings(ctx.Settings))

	// Check 4: Keyring (warning only, the database is the fallback)
	if ctx.Settings.SessionBackend == constants.SessionBackendKeyring {
		if keyring.IsAvailable() {
			ctx.Printf("✓ OS keyring: OK\n")
		} else {
			ctx.Printf("⚠ OS keyring: WARNING\n")
			ctx.Printf("   Keyring unavailable, sessions are stored in the local database\n")
		}
	} else {
		ctx.Printf("⊘ OS keyring: SKIPPED (session backend is %s)\n", ctx.Settings.SessionBackend)
	}

	// Check 5: Session (informational)
	checkSession(ctx, time.Now())

	// Check 6: Scheduling service reachable
	report("Scheduling service", checkService(ctx))

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if store, ok := ctx.Store.(*sqlite.Store); ok {
		db := store.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	store, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil
	}
	version, err := store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version == 0 {
		return fmt.Errorf("no migrations applied, run '%s migrate'", constants.AppName)
	}
	return nil
}

func checkSettings(s models.Settings) error {
	u, err := url.Parse(s.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend URL %q is not an absolute URL", s.BackendURL)
	}
	if s.RequestTimeoutSec <= 0 {
		return fmt.Errorf("request timeout must be positive, got %d", s.RequestTimeoutSec)
	}
	return models.ValidateSessionBackend(s.SessionBackend)
}

func checkSession(ctx *cli.Context, now time.Time) {
	sess := ctx.Session.Snapshot()
	switch {
	case sess.Anonymous():
		ctx.Printf("ℹ Session: not logged in\n")
	case !session.WellFormedToken(sess.Token):
		ctx.Printf("⚠ Session: WARNING\n")
		ctx.Printf("   Stored token is malformed, log in again\n")
	default:
		if claims, err := session.DecodeClaims(sess.Token); err == nil && claims.Expired(now) {
			ctx.Printf("⚠ Session: WARNING\n")
			ctx.Printf("   Token for %s expired at %s\n", sess.Email, claims.ExpiresAt.Local().Format(time.RFC1123))
			return
		}
		ctx.Printf("✓ Session: OK (%s, %s)\n", sess.Email, sess.Role)
	}
}

func checkService(ctx *cli.Context) error {
	if _, err := ctx.Gateway.ListAvailable(ctx.Context()); err != nil {
		return fmt.Errorf("%s: %w", ctx.Gateway.BaseURL(), err)
	}
	return nil
}
