// Package admin holds the administrator commands over the full slot listing.
package admin

import (
	"strings"

	slotadmin "github.com/julianstephens/slotbook/internal/admin"
	"github.com/julianstephens/slotbook/internal/cli"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/slots"
)

type AdminCmd struct {
	List     ListCmd     `cmd:"" help:"List every slot with its status." default:"1"`
	Add      AddCmd      `cmd:"" help:"Add a new slot."`
	Edit     EditCmd     `cmd:"" help:"Change a slot's date or times."`
	Delete   DeleteCmd   `cmd:"" help:"Delete a slot."`
	Validate ValidateCmd `cmd:"" help:"Check the listing for overlapping or inconsistent slots."`
}

// console loads the admin listing and returns a console over it
func console(ctx *cli.Context, op string) (*slotadmin.Console, *slots.Controller, error) {
	if err := ctx.RequireAdmin(op); err != nil {
		return nil, nil, err
	}
	list := slots.NewController(constants.ViewAdmin, ctx.Gateway, ctx.Session)
	if err := list.Mount(ctx.Context()); err != nil {
		return nil, nil, cli.Failed(op, list.Snapshot().Message, err)
	}
	return slotadmin.NewConsole(ctx.Gateway, list), list, nil
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	con, list, err := console(ctx, "admin list")
	if err != nil {
		return err
	}

	rows := con.Rows()
	if len(rows) == 0 {
		ctx.Println(list.EmptyMessage())
		return nil
	}
	ctx.Println("All Slots:")
	for _, row := range rows {
		ctx.Printf("  %s\n", cli.FormatAdminLine(row.Slot))
	}
	if n := len(list.Anomalies()); n > 0 {
		ctx.Printf("\n⚠ %d slot(s) look inconsistent. Run 'slotbook admin validate' for details.\n", n)
	}
	return nil
}

type AddCmd struct {
	Date  string `help:"Date (YYYY-MM-DD)."`
	Start string `help:"Start time (HH:MM)."`
	End   string `help:"End time (HH:MM)."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	con, _, err := console(ctx, "admin add")
	if err != nil {
		return err
	}
	if err := cli.PromptMissing(
		cli.Field{Title: "Date (YYYY-MM-DD)", Value: &c.Date, Validate: cli.Required},
		cli.Field{Title: "Start (HH:MM)", Value: &c.Start, Validate: cli.Required},
		cli.Field{Title: "End (HH:MM)", Value: &c.End, Validate: cli.Required},
	); err != nil {
		return err
	}

	created, err := con.Add(ctx.Context(), models.SlotInput{Date: c.Date, StartTime: c.Start, EndTime: c.End})
	if err != nil {
		return err
	}
	ctx.Println(constants.MsgSlotAdded)
	if created.ID != "" {
		ctx.Printf("  %s\n", cli.FormatAdminLine(created))
	}
	return nil
}

type EditCmd struct {
	ID    string `arg:"" help:"Slot ID."`
	Date  string `help:"New date (YYYY-MM-DD)."`
	Start string `help:"New start time (HH:MM)."`
	End   string `help:"New end time (HH:MM)."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	con, _, err := console(ctx, "admin edit")
	if err != nil {
		return err
	}

	id := models.SlotID(c.ID)
	if err := con.BeginEdit(id); err != nil {
		return err
	}
	if err := con.EditDraft(id, func(d *models.SlotInput) {
		if c.Date != "" {
			d.Date = c.Date
		}
		if c.Start != "" {
			d.StartTime = c.Start
		}
		if c.End != "" {
			d.EndTime = c.End
		}
	}); err != nil {
		return err
	}

	draft, _ := con.Draft(id)
	if err := cli.PromptMissing(
		cli.Field{Title: "Date (YYYY-MM-DD)", Value: &draft.Date, Validate: cli.Required},
		cli.Field{Title: "Start (HH:MM)", Value: &draft.StartTime, Validate: cli.Required},
		cli.Field{Title: "End (HH:MM)", Value: &draft.EndTime, Validate: cli.Required},
	); err != nil {
		con.CancelEdit(id)
		return err
	}
	if err := con.SetDraft(id, draft); err != nil {
		return err
	}

	if err := con.Save(ctx.Context(), id); err != nil {
		return err
	}
	ctx.Printf("Updated slot %s: %s %s-%s\n", id, draft.Date, draft.StartTime, draft.EndTime)
	return nil
}

type DeleteCmd struct {
	ID  string `arg:"" help:"Slot ID."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	con, _, err := console(ctx, "admin delete")
	if err != nil {
		return err
	}

	ok, err := cli.Confirm("Delete slot "+c.ID+"?", c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Delete aborted.")
		return nil
	}

	if err := con.Delete(ctx.Context(), models.SlotID(c.ID)); err != nil {
		return err
	}
	ctx.Printf("Deleted slot %s\n", c.ID)
	return nil
}

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	con, _, err := console(ctx, "admin validate")
	if err != nil {
		return err
	}
	ctx.Println("Validating slots...")
	result := con.Audit()
	ctx.Println()
	// Conflicts are reported, not returned as an error
	ctx.Println(strings.TrimRight(result.FormatReport(), "\n"))
	return nil
}
