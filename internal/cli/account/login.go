package account

import (
	"github.com/julianstephens/slotbook/internal/auth"
	"github.com/julianstephens/slotbook/internal/cli"
)

type LoginCmd struct {
	Email    string `help:"Account email." env:"SLOTBOOK_EMAIL"`
	Password string `help:"Account password. Prompted for when omitted." env:"SLOTBOOK_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if err := cli.PromptMissing(
		cli.Field{Title: "Email", Value: &c.Email, Validate: cli.Required},
		cli.Field{Title: "Password", Value: &c.Password, Secret: true, Validate: cli.Required},
	); err != nil {
		return err
	}

	sess, err := ctx.Auth().Login(ctx.Context(), c.Email, c.Password)
	if err != nil {
		return err
	}

	ctx.Printf("Logged in as %s (%s)\n", sess.Email, sess.Role)
	ctx.Printf("Start with: slotbook tui (%s view)\n", auth.LandingView(sess.Role))
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Auth().Logout(); err != nil {
		return err
	}
	ctx.Println("Logged out.")
	return nil
}
