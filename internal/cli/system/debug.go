package system

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/julianstephens/slotbook/internal/cli"
	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/models"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	LogPath      *DebugLogPathCmd      `cmd:"" help:"Show log file path."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump effective settings as JSON."`
	DumpSession  *DebugDumpSessionCmd  `cmd:"" help:"Dump the stored session as JSON with the token masked."`
	DumpSlot     *DebugDumpSlotCmd     `cmd:"" help:"Dump a slot as the service returns it."`
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugLogPathCmd struct{}

func (cmd *DebugLogPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"path": logger.Path(),
	})
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	stored, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(ctx, struct {
		Stored    models.Settings `json:"stored"`
		Effective models.Settings `json:"effective"`
	}{stored, ctx.Settings})
}

type DebugDumpSessionCmd struct{}

func (cmd *DebugDumpSessionCmd) Run(ctx *cli.Context) error {
	sess := ctx.Session.Snapshot()
	sess.Token = cli.MaskToken(sess.Token)
	return printJSON(ctx, sess)
}

type DebugDumpSlotCmd struct {
	ID string `arg:"" help:"ID of the slot to dump."`
}

func (cmd *DebugDumpSlotCmd) Run(ctx *cli.Context) error {
	slot, err := ctx.Gateway.Get(ctx.Context(), models.SlotID(cmd.ID))
	if err != nil {
		return fmt.Errorf("failed to get slot: %w", err)
	}
	return printJSON(ctx, slot)
}
