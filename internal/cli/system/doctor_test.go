package system

import (
	"net/http"
	"strings"
	"testing"

	"github.com/julianstephens/slotbook/internal/cli/clitest"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/session"
)

func TestDoctorCmd_Healthy(t *testing.T) {
	env := clitest.New(t)

	if err := (&DoctorCmd{}).Run(env.Context); err != nil {
		t.Errorf("doctor command failed on healthy setup: %v\n%s", err, env.Output.String())
	}
	out := env.Output.String()
	for _, want := range []string{"✓ Database reachable: OK", "✓ Schema version: OK", "✓ Scheduling service: OK", "Session: not logged in"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDoctorCmd_ServiceDown(t *testing.T) {
	env := clitest.New(t)
	env.Server.FailNext(http.StatusServiceUnavailable, "down")

	if err := (&DoctorCmd{}).Run(env.Context); err == nil {
		t.Error("expected doctor to fail when the service is down")
	}
	if out := env.Output.String(); !strings.Contains(out, "❌ Scheduling service: FAIL") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestDoctorCmd_MalformedSession(t *testing.T) {
	env := clitest.New(t)
	if err := env.Store.SaveSession(models.Session{Token: "not-a-jwt", Role: constants.RolePatient, Email: "pat@example.com"}); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	env.Session = session.NewStore(env.Store)

	if err := (&DoctorCmd{}).Run(env.Context); err != nil {
		t.Errorf("a malformed session is a warning, got error: %v", err)
	}
	if out := env.Output.String(); !strings.Contains(out, "Stored token is malformed") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCheckSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings models.Settings
		wantErr  bool
	}{
		{"valid", models.Settings{BackendURL: "http://localhost:8080", RequestTimeoutSec: 30, SessionBackend: "sqlite"}, false},
		{"relative url", models.Settings{BackendURL: "localhost", RequestTimeoutSec: 30, SessionBackend: "sqlite"}, true},
		{"zero timeout", models.Settings{BackendURL: "http://x", RequestTimeoutSec: 0, SessionBackend: "sqlite"}, true},
		{"bad backend", models.Settings{BackendURL: "http://x", RequestTimeoutSec: 5, SessionBackend: "vault"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := checkSettings(tt.settings); (err != nil) != tt.wantErr {
				t.Errorf("checkSettings() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
