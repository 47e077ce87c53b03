package appointments

import (
	"github.com/julianstephens/slotbook/internal/booking"
	"github.com/julianstephens/slotbook/internal/cli"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/errors"
	"github.com/julianstephens/slotbook/internal/models"
)

type BookCmd struct {
	ID    string `arg:"" help:"Appointment ID to book."`
	Name  string `help:"Patient name. Prompted for when omitted."`
	Email string `help:"Patient email. Defaults to the logged-in account."`
}

func (c *BookCmd) Run(ctx *cli.Context) error {
	if _, ok := ctx.Session.Token(); !ok {
		return errors.Unauthenticated("book", constants.MsgLoginRequired)
	}

	if c.Email == "" {
		if id, ok := ctx.Session.Identity(); ok {
			c.Email = id.Email
		}
	}

	// The form stays usable when the details cannot be fetched
	if slot, err := ctx.Gateway.Get(ctx.Context(), models.SlotID(c.ID)); err != nil {
		ctx.Println(constants.MsgFetchDetailsFailed)
	} else {
		printSlot(ctx, slot)
	}

	if err := cli.PromptMissing(
		cli.Field{Title: "Name", Value: &c.Name, Validate: cli.Required},
		cli.Field{Title: "Email", Value: &c.Email, Validate: cli.Required},
	); err != nil {
		return err
	}

	wf := booking.New(ctx.Gateway, ctx.Session)
	err := wf.Book(ctx.Context(), booking.Form{
		AppointmentID: models.SlotID(c.ID),
		Name:          c.Name,
		Email:         c.Email,
	})
	if err != nil {
		return cli.Failed("book", wf.Message(), err)
	}

	ctx.Println(wf.Message())
	if msg := wf.Confirmation().Message; msg != "" {
		ctx.Printf("  %s\n", msg)
	}
	return nil
}

type CancelCmd struct {
	ID  string `arg:"" help:"Appointment ID to cancel."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *CancelCmd) Run(ctx *cli.Context) error {
	ok, err := cli.Confirm("Cancel appointment "+c.ID+"?", c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Cancellation aborted.")
		return nil
	}

	wf := booking.New(ctx.Gateway, ctx.Session)
	if err := wf.Cancel(ctx.Context(), models.SlotID(c.ID)); err != nil {
		return cli.Failed("cancel", wf.Message(), err)
	}
	ctx.Println(wf.Message())
	return nil
}
