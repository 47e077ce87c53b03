package settings

import (
	"fmt"
	"net/url"

	"github.com/julianstephens/slotbook/internal/cli"
	"github.com/julianstephens/slotbook/internal/models"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	BackendURL        *string `help:"Base URL of the scheduling service."`
	RequestTimeoutSec *int    `help:"Per-request timeout in seconds."`
	SessionBackend    *string `help:"Where the session is kept: keyring or sqlite."`
	RateLimitRPS      *int    `help:"Outbound requests per second, 0 disables limiting."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		ctx.Println("Current Settings:")
		ctx.Printf("  Backend URL:      %s\n", settings.BackendURL)
		ctx.Printf("  Request Timeout:  %d sec\n", settings.RequestTimeoutSec)
		ctx.Printf("  Session Backend:  %s\n", settings.SessionBackend)
		ctx.Printf("  Rate Limit:       %d req/sec\n", settings.RateLimitRPS)
		if ctx.Settings != settings {
			ctx.Println("\nEffective Settings (flags and environment applied):")
			ctx.Printf("  Backend URL:      %s\n", ctx.Settings.BackendURL)
			ctx.Printf("  Request Timeout:  %d sec\n", ctx.Settings.RequestTimeoutSec)
			ctx.Printf("  Session Backend:  %s\n", ctx.Settings.SessionBackend)
			ctx.Printf("  Rate Limit:       %d req/sec\n", ctx.Settings.RateLimitRPS)
		}
		return nil
	}

	updated := false
	if c.BackendURL != nil {
		u, err := url.Parse(*c.BackendURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("backend URL must be absolute, e.g. http://localhost:8080")
		}
		settings.BackendURL = *c.BackendURL
		updated = true
	}
	if c.RequestTimeoutSec != nil {
		if *c.RequestTimeoutSec <= 0 {
			return fmt.Errorf("request timeout must be positive")
		}
		settings.RequestTimeoutSec = *c.RequestTimeoutSec
		updated = true
	}
	if c.SessionBackend != nil {
		if err := models.ValidateSessionBackend(*c.SessionBackend); err != nil {
			return err
		}
		settings.SessionBackend = *c.SessionBackend
		updated = true
	}
	if c.RateLimitRPS != nil {
		if *c.RateLimitRPS < 0 {
			return fmt.Errorf("rate limit cannot be negative")
		}
		settings.RateLimitRPS = *c.RateLimitRPS
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Println("Settings updated successfully.")
	} else {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
	}
	return nil
}
