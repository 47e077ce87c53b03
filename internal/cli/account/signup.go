package account

import "github.com/julianstephens/slotbook/internal/cli"

type SignupCmd struct {
	Name     string `help:"Full name."`
	Email    string `help:"Account email."`
	Password string `help:"Account password. Prompted for when omitted."`
}

func (c *SignupCmd) Run(ctx *cli.Context) error {
	if err := cli.PromptMissing(
		cli.Field{Title: "Name", Value: &c.Name, Validate: cli.Required},
		cli.Field{Title: "Email", Value: &c.Email, Validate: cli.Required},
		cli.Field{Title: "Password", Value: &c.Password, Secret: true, Validate: cli.Required},
	); err != nil {
		return err
	}

	msg, err := ctx.Auth().Signup(ctx.Context(), c.Name, c.Email, c.Password)
	if err != nil {
		return err
	}
	ctx.Println(msg)
	return nil
}
