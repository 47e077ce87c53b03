// Package clitest builds command contexts wired to a fake scheduling service.
package clitest

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/julianstephens/slotbook/internal/cli"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/gateway/gatewaytest"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/session"
	"github.com/julianstephens/slotbook/internal/storage/sqlite"
)

// Env is a command context plus the fake service behind it
type Env struct {
	*cli.Context
	Server *gatewaytest.Server
	Output *bytes.Buffer
}

// New returns an initialized store in a temp dir, a session kept in that
// store and a gateway pointed at a fresh fake service
func New(t *testing.T) *Env {
	t.Helper()

	srv := gatewaytest.NewServer()
	t.Cleanup(srv.Close)

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	settings, err := cli.ResolveSettings(models.Settings{}, cli.Overrides{
		BackendURL:     srv.URL,
		SessionBackend: constants.SessionBackendSQLite,
		RateLimitRPS:   new(int),
	})
	if err != nil {
		t.Fatalf("failed to resolve settings: %v", err)
	}

	ctx := cli.NewContext(store, settings)
	ctx.Ctx = context.Background()
	out := &bytes.Buffer{}
	ctx.Out = out

	return &Env{Context: ctx, Server: srv, Output: out}
}

// Login registers an account on the fake service and stores its session
func (e *Env) Login(t *testing.T, email, name string, role constants.Role) string {
	t.Helper()
	token := e.Server.AddAccount(email, "secret", name, role)
	if err := e.Session.Set(token, role, session.Identity{Email: email, Name: name}); err != nil {
		t.Fatalf("failed to set session: %v", err)
	}
	return token
}
