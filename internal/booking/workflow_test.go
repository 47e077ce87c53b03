package booking

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/errors"
	"github.com/julianstephens/slotbook/internal/gateway"
	"github.com/julianstephens/slotbook/internal/gateway/gatewaytest"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/session"
	"github.com/julianstephens/slotbook/internal/slots"
)

type env struct {
	srv    *gatewaytest.Server
	sess   *session.Store
	client *gateway.Client
	slotID models.SlotID
}

func newEnv(t *testing.T) *env {
	t.Helper()
	srv := gatewaytest.NewServer()
	t.Cleanup(srv.Close)

	token := srv.AddAccount("a@x.com", "pw", "A", constants.RolePatient)
	id := srv.AddSlot([]int{2024, 5, 10}, []int{9, 0}, []int{9, 30})

	sess := session.NewInMemory(models.Session{Token: token, Role: constants.RolePatient, Email: "a@x.com", Name: "A"})
	return &env{
		srv:    srv,
		sess:   sess,
		client: gateway.NewClient(srv.URL, sess, gateway.WithRateLimit(0)),
		slotID: models.SlotID(strconv.FormatInt(id, 10)),
	}
}

type recorder struct {
	mutations []slots.Mutation
	ids       []models.SlotID
}

func (r *recorder) Reconcile(ctx context.Context, m slots.Mutation, id models.SlotID) error {
	r.mutations = append(r.mutations, m)
	r.ids = append(r.ids, id)
	return nil
}

func TestBookEmptyFieldsFailsWithoutNetwork(t *testing.T) {
	e := newEnv(t)
	w := New(e.client, e.sess)

	for _, form := range []Form{
		{AppointmentID: e.slotID, Name: "", Email: "a@x.com"},
		{AppointmentID: e.slotID, Name: "A", Email: "   "},
	} {
		err := w.Book(context.Background(), form)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.KindValidation))
		assert.Equal(t, StateFailed, w.State())
		assert.Equal(t, constants.MsgFillAllFields, w.Message())
	}
	assert.Empty(t, e.srv.Calls())
}

func TestBookMalformedTokenLocksUntilReauth(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.sess.Set("broken-token", constants.RolePatient, session.Identity{Email: "a@x.com"}))
	w := New(e.client, e.sess)
	form := Form{AppointmentID: e.slotID, Name: "A", Email: "a@x.com"}

	err := w.Book(context.Background(), form)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KindUnauthenticated))
	assert.Equal(t, constants.MsgInvalidToken, w.Message())
	assert.True(t, w.NeedsReauth())

	// Retrying with the same session is refused
	err = w.Book(context.Background(), form)
	assert.True(t, errors.Is(err, errors.KindUnauthenticated))
	assert.Empty(t, e.srv.Calls())

	// Logging in again releases the lock
	resp, err := e.client.Login(context.Background(), models.LoginRequest{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, e.sess.Set(resp.Token, resp.Role, session.Identity{Email: resp.Email}))
	assert.False(t, w.NeedsReauth())

	require.NoError(t, w.Book(context.Background(), form))
	assert.Equal(t, StateConfirmed, w.State())
}

func TestBookConfirmedReconcilesViews(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	available := slots.NewController(constants.ViewAvailable, e.client, e.sess)
	mine := slots.NewController(constants.ViewMine, e.client, e.sess)
	require.NoError(t, available.Mount(ctx))
	require.NoError(t, mine.Mount(ctx))
	require.Len(t, available.Slots(), 1)
	require.Empty(t, mine.Slots())

	rec := &recorder{}
	w := New(e.client, e.sess, available, mine)
	w.Attach(rec)

	require.NoError(t, w.Book(ctx, Form{AppointmentID: e.slotID, Name: "A", Email: "a@x.com"}))
	assert.Equal(t, StateConfirmed, w.State())
	assert.Equal(t, constants.MsgBookingConfirmed, w.Message())
	assert.Equal(t, "Appointment booked successfully", w.Confirmation().Message)

	assert.Empty(t, available.Slots(), "a booked slot must not stay bookable")
	got := mine.Slots()
	require.Len(t, got, 1)
	assert.True(t, got[0].Scheduled)
	assert.Equal(t, []slots.Mutation{slots.MutationBook}, rec.mutations)
}

func TestBookConflictKeepsLocalSlotUntouched(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	otherToken := e.srv.AddAccount("b@x.com", "pw", "B", constants.RolePatient)
	otherSess := session.NewInMemory(models.Session{Token: otherToken, Role: constants.RolePatient, Email: "b@x.com"})
	otherClient := gateway.NewClient(e.srv.URL, otherSess, gateway.WithRateLimit(0))

	// The second patient loaded the list while the slot was still open
	otherView := slots.NewController(constants.ViewAvailable, otherClient, otherSess)
	require.NoError(t, otherView.Mount(ctx))

	require.NoError(t, New(e.client, e.sess).Book(ctx, Form{AppointmentID: e.slotID, Name: "A", Email: "a@x.com"}))

	w := New(otherClient, otherSess)
	err := w.Book(ctx, Form{AppointmentID: e.slotID, Name: "B", Email: "b@x.com"})
	require.Error(t, err)
	assert.Equal(t, StateFailed, w.State())
	assert.Equal(t, "Appointment is already booked", w.Message())

	local := otherView.Slots()
	require.Len(t, local, 1)
	assert.False(t, local[0].Scheduled, "only a refetch may mark the slot scheduled")
}

func TestBookFailureMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"bare conflict", http.StatusConflict, "", constants.MsgBookingConflict},
		{"server message", http.StatusBadRequest, "Appointment date is in the past", "Appointment date is in the past"},
		{"no message", http.StatusInternalServerError, "", constants.MsgBookingFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			e.srv.FailNext(tt.status, tt.body)
			w := New(e.client, e.sess)

			err := w.Book(context.Background(), Form{AppointmentID: e.slotID, Name: "A", Email: "a@x.com"})
			require.Error(t, err)
			assert.Equal(t, StateFailed, w.State())
			assert.Equal(t, tt.want, w.Message())
			assert.False(t, w.NeedsReauth())
		})
	}
}

func TestBookServiceUnreachable(t *testing.T) {
	e := newEnv(t)
	e.srv.Close()
	w := New(e.client, e.sess)

	err := w.Book(context.Background(), Form{AppointmentID: e.slotID, Name: "A", Email: "a@x.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.KindTransport))
	assert.Equal(t, constants.MsgBookingFailed, w.Message())
}

func TestBookRejectedTokenLocks(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.sess.Set("xxx.yyy.zzz", constants.RolePatient, session.Identity{Email: "a@x.com"}))
	w := New(e.client, e.sess)

	err := w.Book(context.Background(), Form{AppointmentID: e.slotID, Name: "A", Email: "a@x.com"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, errors.StatusOf(err))
	assert.Equal(t, "Unauthorized", w.Message())
	assert.True(t, w.NeedsReauth())
}

func TestRejectedTokenKeepsServiceMessage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	form := Form{AppointmentID: e.slotID, Name: "A", Email: "a@x.com"}

	w := New(e.client, e.sess)
	e.srv.FailNext(http.StatusUnauthorized, "Session expired, please sign in")
	require.Error(t, w.Book(ctx, form))
	assert.Equal(t, "Session expired, please sign in", w.Message())
	assert.True(t, w.NeedsReauth())

	c := New(e.client, e.sess)
	e.srv.FailNext(http.StatusUnauthorized, "Session expired, please sign in")
	require.Error(t, c.Cancel(ctx, e.slotID))
	assert.Equal(t, "Session expired, please sign in", c.Message())
	assert.True(t, c.NeedsReauth())
}

func TestRejectedTokenWithoutPayloadAsksForLogin(t *testing.T) {
	e := newEnv(t)
	w := New(e.client, e.sess)

	e.srv.FailNext(http.StatusUnauthorized, "")
	require.Error(t, w.Book(context.Background(), Form{AppointmentID: e.slotID, Name: "A", Email: "a@x.com"}))
	assert.Equal(t, constants.MsgInvalidToken, w.Message())
	assert.True(t, w.NeedsReauth())
}

func TestCancelFromMine(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, New(e.client, e.sess).Book(ctx, Form{AppointmentID: e.slotID, Name: "A", Email: "a@x.com"}))

	mine := slots.NewController(constants.ViewMine, e.client, e.sess)
	require.NoError(t, mine.Mount(ctx))
	require.Len(t, mine.Slots(), 1)
	callsBefore := len(e.srv.Calls())

	w := New(e.client, e.sess, mine)
	require.NoError(t, w.Cancel(ctx, e.slotID))
	assert.Equal(t, StateConfirmed, w.State())
	assert.Equal(t, constants.MsgCancelConfirmed, w.Message())
	assert.Empty(t, mine.Slots())
	assert.Len(t, e.srv.Calls(), callsBefore+1, "only the cancel request is sent")

	slot, ok := e.srv.Slot(1)
	require.True(t, ok)
	assert.False(t, slot.Scheduled)
	assert.Nil(t, slot.User)
}

func TestCancelFailureLeavesEntry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, New(e.client, e.sess).Book(ctx, Form{AppointmentID: e.slotID, Name: "A", Email: "a@x.com"}))

	mine := slots.NewController(constants.ViewMine, e.client, e.sess)
	require.NoError(t, mine.Mount(ctx))
	before := mine.Slots()

	e.srv.FailNext(http.StatusInternalServerError, "")
	w := New(e.client, e.sess, mine)
	require.Error(t, w.Cancel(ctx, e.slotID))
	assert.Equal(t, StateFailed, w.State())
	assert.Equal(t, constants.MsgCancelFailed, w.Message())
	assert.Equal(t, before, mine.Slots())
}

func TestResetReturnsToIdle(t *testing.T) {
	e := newEnv(t)
	w := New(e.client, e.sess)
	assert.Equal(t, StateIdle, w.State())

	_ = w.Book(context.Background(), Form{})
	w.Reset()
	assert.Equal(t, StateIdle, w.State())
	assert.Empty(t, w.Message())
}
