package gateway

import (
	"context"
	"net/http"
	"strings"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/models"
)

// Login exchanges credentials for a token. It never attaches a token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.call(ctx, request{
		op:     "login",
		method: http.MethodPost,
		path:   constants.PathLogin,
		body:   req,
	}, &resp)
	return resp, err
}

// Signup registers a patient account and returns the service's confirmation text
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (string, error) {
	body, err := c.send(ctx, request{
		op:     "signup",
		method: http.MethodPost,
		path:   constants.PathSignup,
		body:   req,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}
