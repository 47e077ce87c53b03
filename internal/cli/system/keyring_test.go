package system

import (
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/slotbook/internal/cli/clitest"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/keyring"
)

func TestKeyringStatusCmd(t *testing.T) {
	gokeyring.MockInit()
	defer func() { _ = keyring.DeleteSession() }()

	env := clitest.New(t)
	cmd := &KeyringStatusCmd{}
	if err := cmd.Run(env.Context); err != nil {
		t.Fatalf("keyring status failed: %v", err)
	}
	out := env.Output.String()
	if !strings.Contains(out, "✓ OS keyring is available") {
		t.Errorf("missing availability line: %q", out)
	}
	if !strings.Contains(out, "No session stored in keyring") {
		t.Errorf("missing empty keyring line: %q", out)
	}

	if err := keyring.SetSession(`{"token":"a.b.c"}`); err != nil {
		t.Fatalf("SetSession() failed: %v", err)
	}
	env.Output.Reset()
	env.Settings.SessionBackend = constants.SessionBackendKeyring
	if err := cmd.Run(env.Context); err != nil {
		t.Fatalf("keyring status failed: %v", err)
	}
	if out := env.Output.String(); !strings.Contains(out, "A session is stored in keyring") {
		t.Errorf("missing stored session line: %q", out)
	}
}
