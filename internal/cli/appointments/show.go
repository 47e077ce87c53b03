package appointments

import (
	"github.com/julianstephens/slotbook/internal/cli"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/utils"
)

type ShowCmd struct {
	ID string `arg:"" help:"Appointment ID."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	slot, err := ctx.Gateway.Get(ctx.Context(), models.SlotID(c.ID))
	if err != nil {
		return cli.Failed("show", constants.MsgFetchDetailsFailed, err)
	}
	printSlot(ctx, slot)
	return nil
}

func printSlot(ctx *cli.Context, slot models.AppointmentSlot) {
	d := utils.FormatSlot(slot)
	ctx.Printf("Appointment %s\n", slot.ID)
	ctx.Printf("  Date:    %s\n", d.Date)
	ctx.Printf("  Time:    %s - %s\n", d.Start, d.End)
	ctx.Printf("  Status:  %s\n", slot.Status())
	if slot.Scheduled {
		ctx.Printf("  Patient: %s <%s>\n", slot.UserName(), slot.UserEmail())
	}
}
