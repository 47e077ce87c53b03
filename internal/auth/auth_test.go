package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/errors"
	"github.com/julianstephens/slotbook/internal/gateway"
	"github.com/julianstephens/slotbook/internal/gateway/gatewaytest"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/session"
)

func newService(t *testing.T) (*Service, *session.Store, *gatewaytest.Server) {
	t.Helper()
	srv := gatewaytest.NewServer()
	t.Cleanup(srv.Close)
	store := session.NewInMemory(models.Session{})
	client := gateway.NewClient(srv.URL, store, gateway.WithRateLimit(0))
	return NewService(client, store), store, srv
}

func TestSignupThenLogin(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	msg, err := svc.Signup(ctx, "A", "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, constants.MsgSignupConfirmed, msg)
	assert.True(t, store.Snapshot().Anonymous(), "signup does not log in")

	sess, err := svc.Login(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, constants.RolePatient, sess.Role)
	assert.Equal(t, "a@x.com", sess.Email)

	token, ok := store.Token()
	require.True(t, ok)
	assert.True(t, session.WellFormedToken(token))
	assert.Equal(t, constants.ViewAvailable, LandingView(sess.Role))
}

func TestLoginAdminLandsOnAdminView(t *testing.T) {
	svc, _, srv := newService(t)
	srv.AddAccount("admin@x.com", "pw", "Admin", constants.RoleAdmin)

	sess, err := svc.Login(context.Background(), "admin@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, constants.ViewAdmin, LandingView(sess.Role))
}

func TestLoginFailures(t *testing.T) {
	svc, store, srv := newService(t)
	srv.AddAccount("a@x.com", "pw", "A", constants.RolePatient)
	ctx := context.Background()

	_, err := svc.Login(ctx, "", "pw")
	assert.True(t, errors.Is(err, errors.KindValidation))
	assert.Equal(t, constants.MsgFillAllFields, errors.UserMessage(err))

	_, err = svc.Login(ctx, "a@x.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, constants.MsgInvalidCredentials, errors.UserMessage(err))
	assert.Equal(t, http.StatusUnauthorized, errors.StatusOf(err))

	assert.True(t, store.Snapshot().Anonymous())
}

type fakeGateway struct {
	resp models.LoginResponse
}

func (f fakeGateway) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	return f.resp, nil
}

func (f fakeGateway) Signup(ctx context.Context, req models.SignupRequest) (string, error) {
	return "", nil
}

func TestLoginRejectsMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		resp models.LoginResponse
	}{
		{"short token", models.LoginResponse{Token: "abc", Role: constants.RolePatient}},
		{"unknown role", models.LoginResponse{Token: "a.b.c", Role: "GUEST"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewInMemory(models.Session{})
			_, err := NewService(fakeGateway{resp: tt.resp}, store).Login(context.Background(), "a@x.com", "pw")
			require.Error(t, err)
			assert.True(t, store.Snapshot().Anonymous())
		})
	}
}

func TestLoginFillsMissingEmail(t *testing.T) {
	store := session.NewInMemory(models.Session{})
	svc := NewService(fakeGateway{resp: models.LoginResponse{Token: "a.b.c", Role: constants.RolePatient}}, store)

	sess, err := svc.Login(context.Background(), " a@x.com ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", sess.Email)
}

func TestLogoutClearsEverything(t *testing.T) {
	svc, store, _ := newService(t)
	require.NoError(t, store.Set("a.b.c", constants.RoleAdmin, session.Identity{Email: "admin@x.com"}))

	require.NoError(t, svc.Logout())
	_, ok := store.Token()
	assert.False(t, ok)
	_, ok = store.Role()
	assert.False(t, ok)
	_, ok = store.Identity()
	assert.False(t, ok)

	assert.NoError(t, svc.Logout())
}

func TestSignupValidation(t *testing.T) {
	svc, _, srv := newService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "", "a@x.com", "pw")
	assert.Equal(t, constants.MsgFillAllFields, errors.UserMessage(err))

	_, err = svc.Signup(ctx, "A", "not-an-email", "pw")
	assert.Equal(t, "email must be a valid email address", errors.UserMessage(err))

	assert.Empty(t, srv.Calls())
}

func TestSignupFailureMessages(t *testing.T) {
	svc, _, srv := newService(t)
	ctx := context.Background()
	srv.AddAccount("a@x.com", "pw", "A", constants.RolePatient)

	_, err := svc.Signup(ctx, "A", "a@x.com", "pw")
	assert.Equal(t, "Email already registered", errors.UserMessage(err))

	srv.FailNext(http.StatusInternalServerError, "")
	_, err = svc.Signup(ctx, "B", "b@x.com", "pw")
	assert.Equal(t, constants.MsgSignupFailed, errors.UserMessage(err))
}
