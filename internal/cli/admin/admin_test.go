package admin

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/slotbook/internal/cli/clitest"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/errors"
	"github.com/julianstephens/slotbook/internal/gateway/gatewaytest"
)

func adminEnv(t *testing.T) *clitest.Env {
	t.Helper()
	env := clitest.New(t)
	env.Login(t, "admin@example.com", "Admin", constants.RoleAdmin)
	return env
}

func TestAdminRequiresAdminSession(t *testing.T) {
	env := clitest.New(t)
	err := (&ListCmd{}).Run(env.Context)
	assert.Equal(t, errors.KindUnauthenticated, errors.KindOf(err))

	env.Login(t, "pat@example.com", "Pat", constants.RolePatient)
	err = (&ListCmd{}).Run(env.Context)
	assert.Equal(t, constants.MsgAdminRoleRequired, errors.UserMessage(err))
	assert.Empty(t, env.Server.Calls())
}

func TestListCmd(t *testing.T) {
	env := adminEnv(t)
	require.NoError(t, (&ListCmd{}).Run(env.Context))
	assert.Contains(t, env.Output.String(), constants.MsgNoAppointments)

	env.Output.Reset()
	env.Server.AddSlot([]int{2024, 5, 10}, []int{9, 0}, []int{9, 30})
	env.Server.Seed(gatewaytest.Slot{
		ID: 50, Date: []int{2024, 5, 11}, StartTime: []int{9, 0}, EndTime: []int{9, 30},
		Scheduled: true, User: &gatewaytest.Patient{Name: "Pat", Email: "pat@example.com"},
	})

	require.NoError(t, (&ListCmd{}).Run(env.Context))
	out := env.Output.String()
	assert.Contains(t, out, "2024-05-10 09:00-09:30")
	assert.Contains(t, out, constants.StatusPending)
	assert.Contains(t, out, "Pat <pat@example.com>")
	assert.NotContains(t, out, "inconsistent")
}

func TestAddCmd(t *testing.T) {
	env := adminEnv(t)

	require.NoError(t, (&AddCmd{Date: "2024-05-10", Start: "09:00", End: "09:30"}).Run(env.Context))
	assert.Contains(t, env.Output.String(), constants.MsgSlotAdded)

	env.Output.Reset()
	require.NoError(t, (&ListCmd{}).Run(env.Context))
	assert.Contains(t, env.Output.String(), "2024-05-10 09:00-09:30")

	calls := len(env.Server.Calls())
	err := (&AddCmd{Date: "2024-05-10", Start: "10:00", End: "09:00"}).Run(env.Context)
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
	// Only the listing fetch went out
	assert.Len(t, env.Server.Calls(), calls+1)
}

func TestEditCmd(t *testing.T) {
	env := adminEnv(t)
	id := env.Server.AddSlot([]int{2024, 5, 10}, []int{9, 0}, []int{9, 30})
	sid := strconv.FormatInt(id, 10)

	require.NoError(t, (&EditCmd{ID: sid, Start: "10:00", End: "10:30"}).Run(env.Context))
	slot, ok := env.Server.Slot(id)
	require.True(t, ok)
	assert.Equal(t, []int{2024, 5, 10}, slot.Date)
	assert.Equal(t, []int{10, 0}, slot.StartTime)
	assert.Equal(t, []int{10, 30}, slot.EndTime)

	err := (&EditCmd{ID: "999", Date: "2024-05-10"}).Run(env.Context)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
}

func TestEditCmdFailureKeepsSlot(t *testing.T) {
	env := adminEnv(t)
	id := env.Server.AddSlot([]int{2024, 5, 10}, []int{9, 0}, []int{9, 30})

	err := (&EditCmd{ID: strconv.FormatInt(id, 10), Start: "11:00", End: "10:00"}).Run(env.Context)
	require.Error(t, err)

	slot, _ := env.Server.Slot(id)
	assert.Equal(t, []int{9, 0}, slot.StartTime)
}

func TestDeleteCmd(t *testing.T) {
	env := adminEnv(t)
	id := env.Server.AddSlot([]int{2024, 5, 10}, []int{9, 0}, []int{9, 30})

	require.NoError(t, (&DeleteCmd{ID: strconv.FormatInt(id, 10), Yes: true}).Run(env.Context))
	_, ok := env.Server.Slot(id)
	assert.False(t, ok)

	err := (&DeleteCmd{ID: "999", Yes: true}).Run(env.Context)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, errors.StatusOf(err))
	assert.Equal(t, "Appointment not found", errors.UserMessage(err))
}

func TestValidateCmd(t *testing.T) {
	env := adminEnv(t)
	env.Server.AddSlot([]int{2024, 5, 10}, []int{9, 0}, []int{10, 0})
	env.Server.AddSlot([]int{2024, 5, 10}, []int{9, 30}, []int{10, 30})

	require.NoError(t, (&ValidateCmd{}).Run(env.Context))
	out := env.Output.String()
	assert.Contains(t, out, "Conflicts detected:")
}
