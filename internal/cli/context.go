package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/slotbook/internal/auth"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/errors"
	"github.com/julianstephens/slotbook/internal/gateway"
	"github.com/julianstephens/slotbook/internal/keyring"
	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/session"
	"github.com/julianstephens/slotbook/internal/storage"
)

type Context struct {
	Ctx      context.Context
	Store    storage.Provider
	Settings models.Settings
	Session  *session.Store
	Gateway  *gateway.Client
	Out      io.Writer
}

// Overrides are settings given on the command line or in the environment.
// Zero values mean "not given".
type Overrides struct {
	BackendURL     string
	TimeoutSec     int
	SessionBackend string
	RateLimitRPS   *int
}

// ResolveSettings layers flags and environment over the stored settings,
// falling back to defaults for anything still unset
func ResolveSettings(stored models.Settings, o Overrides) (models.Settings, error) {
	s := stored
	if o.BackendURL != "" {
		s.BackendURL = o.BackendURL
	}
	if o.TimeoutSec > 0 {
		s.RequestTimeoutSec = o.TimeoutSec
	}
	if o.SessionBackend != "" {
		s.SessionBackend = o.SessionBackend
	}
	if o.RateLimitRPS != nil {
		s.RateLimitRPS = *o.RateLimitRPS
	}
	models.ApplyDefaultSettings(&s)
	if err := models.ValidateSessionBackend(s.SessionBackend); err != nil {
		return models.Settings{}, err
	}
	return s, nil
}

// NewContext wires the session and gateway for the resolved settings
func NewContext(store storage.Provider, settings models.Settings) *Context {
	sess := session.NewStore(sessionBackend(store, settings.SessionBackend))
	client := gateway.NewClient(settings.BackendURL, sess,
		gateway.WithTimeout(time.Duration(settings.RequestTimeoutSec)*time.Second),
		gateway.WithRateLimit(settings.RateLimitRPS),
	)
	return &Context{
		Ctx:      context.Background(),
		Store:    store,
		Settings: settings,
		Session:  sess,
		Gateway:  client,
		Out:      os.Stdout,
	}
}

func sessionBackend(store storage.Provider, name string) session.Backend {
	if name == constants.SessionBackendKeyring {
		if keyring.IsAvailable() {
			return session.KeyringBackend{}
		}
		logger.Warn("OS keyring unavailable, storing session in the local database")
	}
	return store
}

// Auth returns the login/logout flow, the only session writer
func (c *Context) Auth() *auth.Service {
	return auth.NewService(c.Gateway, c.Session)
}

// RequireAdmin refuses to continue without an administrator session
func (c *Context) RequireAdmin(op string) error {
	token, ok := c.Session.Token()
	if !ok || !session.WellFormedToken(token) {
		return errors.Unauthenticated(op, constants.MsgInvalidToken)
	}
	if role, _ := c.Session.Role(); role != constants.RoleAdmin {
		return errors.Validation(op, constants.MsgAdminRoleRequired)
	}
	return nil
}

// Context returns the context for outbound requests
func (c *Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// Failed keeps err's kind but shows message to the user
func Failed(op, message string, err error) error {
	return &errors.Error{Kind: errors.KindOf(err), Op: op, Message: message, Err: err}
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}
