package account

import (
	"time"

	"github.com/julianstephens/slotbook/internal/cli"
	"github.com/julianstephens/slotbook/internal/session"
)

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	sess := ctx.Session.Snapshot()
	if sess.Anonymous() {
		ctx.Println("Not logged in.")
		return nil
	}

	ctx.Println("Current Session:")
	ctx.Printf("  Email:   %s\n", sess.Email)
	if sess.Name != "" {
		ctx.Printf("  Name:    %s\n", sess.Name)
	}
	ctx.Printf("  Role:    %s\n", sess.Role)
	ctx.Printf("  Token:   %s\n", cli.MaskToken(sess.Token))

	if !session.WellFormedToken(sess.Token) {
		ctx.Println("  ⚠ Token is malformed. Log in again before booking.")
		return nil
	}

	// Claims are informational; the service decides whether the token is valid
	claims, err := session.DecodeClaims(sess.Token)
	if err != nil {
		ctx.Println("  Claims:  unreadable")
		return nil
	}
	if claims.Subject != "" {
		ctx.Printf("  Subject: %s\n", claims.Subject)
	}
	if !claims.ExpiresAt.IsZero() {
		status := "valid"
		if claims.Expired(time.Now()) {
			status = "expired"
		}
		ctx.Printf("  Expires: %s (%s)\n", claims.ExpiresAt.Local().Format(time.RFC1123), status)
	}
	return nil
}
