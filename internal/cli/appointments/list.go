package appointments

import (
	"github.com/julianstephens/slotbook/internal/cli"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/slots"
)

type SlotsCmd struct{}

func (c *SlotsCmd) Run(ctx *cli.Context) error {
	return listView(ctx, constants.ViewAvailable, "Available Slots:")
}

type MineCmd struct{}

func (c *MineCmd) Run(ctx *cli.Context) error {
	return listView(ctx, constants.ViewMine, "My Appointments:")
}

func listView(ctx *cli.Context, view constants.View, title string) error {
	ctrl := slots.NewController(view, ctx.Gateway, ctx.Session)
	if err := ctrl.Mount(ctx.Context()); err != nil {
		return cli.Failed("list "+string(view), ctrl.Snapshot().Message, err)
	}

	list := ctrl.Slots()
	if len(list) == 0 {
		ctx.Println(ctrl.EmptyMessage())
		return nil
	}

	ctx.Println(title)
	for _, slot := range list {
		ctx.Printf("  %s\n", cli.FormatSlotLine(slot))
	}
	return nil
}
