package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/slotbook/internal/cli"
	"github.com/julianstephens/slotbook/internal/cli/account"
	"github.com/julianstephens/slotbook/internal/cli/admin"
	"github.com/julianstephens/slotbook/internal/cli/appointments"
	"github.com/julianstephens/slotbook/internal/cli/settings"
	"github.com/julianstephens/slotbook/internal/cli/system"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/errors"
	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/storage/sqlite"
)

var CLI struct {
	Version        kong.VersionFlag
	Config         string `help:"Path to the local database." type:"path" default:"${config_path}" env:"SLOTBOOK_CONFIG"`
	BackendURL     string `help:"Base URL of the scheduling service." env:"SLOTBOOK_BACKEND_URL"`
	Timeout        int    `help:"Per-request timeout in seconds." env:"SLOTBOOK_TIMEOUT"`
	SessionBackend string `help:"Where the session is kept: keyring or sqlite." env:"SLOTBOOK_SESSION_BACKEND"`
	RateLimit      *int   `help:"Outbound requests per second, 0 disables limiting." env:"SLOTBOOK_RATE_LIMIT"`
	Debug          bool   `help:"Enable debug logging to stderr." env:"SLOTBOOK_DEBUG"`

	Init     system.InitCmd       `cmd:"" help:"Initialize slotbook storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Tools    system.DebugCmd      `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Inspect the OS keyring."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`

	Login  account.LoginCmd  `cmd:"" help:"Log in to the scheduling service."`
	Logout account.LogoutCmd `cmd:"" help:"Log out and forget the session."`
	Signup account.SignupCmd `cmd:"" help:"Register a patient account."`
	Whoami account.WhoamiCmd `cmd:"" help:"Show the current session."`

	Slots  appointments.SlotsCmd  `cmd:"" help:"List available slots."`
	Show   appointments.ShowCmd   `cmd:"" help:"Show one appointment."`
	Book   appointments.BookCmd   `cmd:"" help:"Book an available slot."`
	Cancel appointments.CancelCmd `cmd:"" help:"Cancel one of your appointments."`
	Mine   appointments.MineCmd   `cmd:"" help:"List your appointments."`

	Admin admin.AdminCmd `cmd:"" help:"Manage every slot (administrators only)."`
}

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Appointment booking client for the scheduling service"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)

	command := ""
	if kctx.Selected() != nil {
		command = kctx.Selected().Name
	}

	logCfg := logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(CLI.Config)}
	// The TUI owns the terminal, so it only logs to the file
	if CLI.Debug && command != "tui" {
		logCfg.Console = os.Stderr
	}
	if err := logger.Init(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store := sqlite.NewStore(CLI.Config)

	stored := models.Settings{}
	if command != "init" {
		if err := openStore(store); err != nil {
			errors.Fatal(err)
		}
		s, err := store.GetSettings()
		if err != nil {
			errors.Fatal(fmt.Errorf("failed to get settings: %w", err))
		}
		stored = s
	}

	resolved, err := cli.ResolveSettings(stored, cli.Overrides{
		BackendURL:     CLI.BackendURL,
		TimeoutSec:     CLI.Timeout,
		SessionBackend: CLI.SessionBackend,
		RateLimitRPS:   CLI.RateLimit,
	})
	if err != nil {
		errors.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	appCtx := cli.NewContext(store, resolved)
	appCtx.Ctx = ctx
	logger.Debug("Running command", "command", command, "backend", resolved.BackendURL)

	err = kctx.Run(appCtx)
	stop()
	if cerr := store.Close(); cerr != nil {
		logger.Warn("Failed to close database", "error", cerr)
	}
	errors.Fatal(err)
}

// openStore loads the database, creating it on first run
func openStore(store *sqlite.Store) error {
	if _, err := os.Stat(store.GetConfigPath()); os.IsNotExist(err) {
		logger.Info("No database found, initializing", "path", store.GetConfigPath())
		return store.Init()
	}
	return store.Load()
}
