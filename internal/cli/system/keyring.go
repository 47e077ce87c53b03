package system

import (
	"errors"

	"github.com/julianstephens/slotbook/internal/cli"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/keyring"
)

type KeyringCmd struct {
	Status KeyringStatusCmd `cmd:"" help:"Check OS keyring availability." default:"1"`
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		if ctx.Settings.SessionBackend == constants.SessionBackendKeyring {
			ctx.Println("ℹ Sessions are kept in the local database instead")
		}
		return errors.New("keyring unavailable")
	}

	ctx.Println("✓ OS keyring is available")
	_, err := keyring.GetSession()
	switch {
	case err == nil:
		ctx.Println("✓ A session is stored in keyring")
	case errors.Is(err, keyring.ErrNotFound):
		ctx.Println("ℹ No session stored in keyring")
	default:
		ctx.Printf("⚠ Could not read keyring: %v\n", err)
	}
	if ctx.Settings.SessionBackend != constants.SessionBackendKeyring {
		ctx.Printf("ℹ Session backend is %q; the keyring is not used\n", ctx.Settings.SessionBackend)
	}
	return nil
}
