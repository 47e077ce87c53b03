// Package tui is the interactive booking client.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/slotbook/internal/admin"
	"github.com/julianstephens/slotbook/internal/auth"
	"github.com/julianstephens/slotbook/internal/booking"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/gateway"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/session"
	"github.com/julianstephens/slotbook/internal/slots"
	"github.com/julianstephens/slotbook/internal/tui/components/slotlist"
)

// tabs are the top-level views in display order
var tabs = []constants.SessionState{constants.StateAvailable, constants.StateMine, constants.StateAdmin}

var tabTitles = map[constants.SessionState]string{
	constants.StateAvailable: "Available",
	constants.StateMine:      "My Appointments",
	constants.StateAdmin:     "Admin",
}

// Gateway is the remote client as the TUI uses it
type Gateway interface {
	slots.Source
	booking.Gateway
	admin.Gateway
	auth.Gateway
	Get(ctx context.Context, id models.SlotID) (models.AppointmentSlot, error)
}

var _ Gateway = (*gateway.Client)(nil)

type Model struct {
	ctx     context.Context
	gateway Gateway
	session *session.Store
	auth    *auth.Service
	booking *booking.Workflow
	console *admin.Console

	controllers map[constants.SessionState]*slots.Controller
	available   slotlist.Model
	mine        slotlist.Model
	adminList   slotlist.Model

	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model

	form        *huh.Form
	bookingForm *BookingFormModel
	loginForm   *LoginFormModel
	slotForm    *SlotFormModel
	targetID    models.SlotID
	details     string

	status    string
	statusErr bool
	conflicts int
	quitting  bool
	width     int
	height    int
}

func NewModel(ctx context.Context, gw Gateway, sess *session.Store) Model {
	available := slots.NewController(constants.ViewAvailable, gw, sess)
	mine := slots.NewController(constants.ViewMine, gw, sess)
	all := slots.NewController(constants.ViewAdmin, gw, sess)

	console := admin.NewConsole(gw, all)
	console.Attach(available, mine)

	m := Model{
		ctx:     ctx,
		gateway: gw,
		session: sess,
		auth:    auth.NewService(gw, sess),
		booking: booking.New(gw, sess, available, mine, all),
		console: console,
		controllers: map[constants.SessionState]*slots.Controller{
			constants.StateAvailable: available,
			constants.StateMine:      mine,
			constants.StateAdmin:     all,
		},
		available: slotlist.New(constants.ViewAvailable, constants.MsgNoAvailableSlots, 0, 10),
		mine:      slotlist.New(constants.ViewMine, constants.MsgNoAppointments, 0, 10),
		adminList: slotlist.New(constants.ViewAdmin, constants.MsgNoAppointments, 0, 10),
		state:     constants.StateAvailable,
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}
	if role, ok := sess.Role(); ok {
		m.state = stateFor(auth.LandingView(role))
	}
	return m
}

func stateFor(view constants.View) constants.SessionState {
	switch view {
	case constants.ViewMine:
		return constants.StateMine
	case constants.ViewAdmin:
		return constants.StateAdmin
	default:
		return constants.StateAvailable
	}
}

func isTab(s constants.SessionState) bool {
	_, ok := tabTitles[s]
	return ok
}

func (m Model) isAdmin() bool {
	role, ok := m.session.Role()
	return ok && role == constants.RoleAdmin
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Refresh}
	switch m.state {
	case constants.StateAvailable:
		keys = append(keys, m.keys.Book)
	case constants.StateMine:
		keys = append(keys, m.keys.Cancel)
	case constants.StateAdmin:
		keys = append(keys, m.keys.Add, m.keys.Edit, m.keys.Delete)
	}
	if _, ok := m.session.Token(); ok {
		keys = append(keys, m.keys.Logout)
	} else {
		keys = append(keys, m.keys.Login)
	}
	return append(keys, m.keys.Help, m.keys.Quit)
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Refresh, m.keys.Login, m.keys.Logout, m.keys.Help, m.keys.Quit}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case constants.StateAvailable:
		actions = []key.Binding{m.keys.Book}
	case constants.StateMine:
		actions = []key.Binding{m.keys.Cancel}
	case constants.StateAdmin:
		actions = []key.Binding{m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.Audit}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return m.activate(m.state)
}
