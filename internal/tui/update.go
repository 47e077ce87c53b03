package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/slotbook/internal/auth"
	"github.com/julianstephens/slotbook/internal/booking"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/errors"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/tui/components/slotlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h := msg.Height - 10
		if h < 3 {
			h = 3
		}
		m.available.SetSize(msg.Width-4, h)
		m.mine.SetSize(msg.Width-4, h)
		m.adminList.SetSize(msg.Width-4, h)
		m.help.Width = msg.Width
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m, nil

	case slotsFetchedMsg:
		m.sync()
		return m, nil

	case detailsMsg:
		if msg.id != m.targetID || m.state == constants.StateBooking {
			return m, nil
		}
		m.details = msg.text
		m.status = ""
		return m.openForm(constants.StateBooking)

	case bookedMsg:
		m.report(m.booking.Message(), msg.err)
		m.sync()
		return m, nil

	case cancelledMsg:
		m.report(m.booking.Message(), msg.err)
		m.sync()
		return m, nil

	case loggedInMsg:
		if msg.err != nil {
			m.report(errors.UserMessage(msg.err), msg.err)
			return m, nil
		}
		m.booking.Reset()
		m.resetPrivateViews()
		m.state = stateFor(auth.LandingView(msg.sess.Role))
		m.report(fmt.Sprintf("Logged in as %s", msg.sess.Email), nil)
		return m, tea.Batch(m.activate(m.state), m.activate(constants.StateMine))

	case loggedOutMsg:
		if msg.err != nil {
			m.report(errors.UserMessage(msg.err), msg.err)
			return m, nil
		}
		m.booking.Reset()
		m.resetPrivateViews()
		m.state = constants.StateAvailable
		m.report("Logged out.", nil)
		return m, m.activate(m.state)

	case adminDoneMsg:
		m.sync()
		if msg.err != nil {
			m.report(errors.UserMessage(msg.err), msg.err)
			if msg.editID != "" {
				if draft, ok := m.console.Draft(msg.editID); ok {
					m.targetID = msg.editID
					m.slotForm = &SlotFormModel{Date: draft.Date, Start: draft.StartTime, End: draft.EndTime}
					return m.openForm(constants.StateEditSlot)
				}
			}
			return m, nil
		}
		m.report(msg.message, nil)
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case constants.StateConfirmCancel, constants.StateConfirmDelete:
			return m.updateConfirm(k)
		}
		return m.handleKey(k)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		return m.switchTab(1)
	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchTab(-1)
	case key.Matches(msg, m.keys.Refresh):
		if m.state == constants.StateAdmin && !m.isAdmin() {
			m.report(constants.MsgAdminRoleRequired, errors.Validation("refresh", constants.MsgAdminRoleRequired))
			return m, nil
		}
		m.status = ""
		return m, m.refetch(m.state)
	case key.Matches(msg, m.keys.Login):
		m.loginForm = &LoginFormModel{}
		return m.openForm(constants.StateLogin)
	case key.Matches(msg, m.keys.Logout):
		if _, ok := m.session.Token(); !ok {
			return m, nil
		}
		return m, m.submitLogout()
	}

	switch m.state {
	case constants.StateAvailable:
		if key.Matches(msg, m.keys.Book) {
			return m.beginBooking()
		}
	case constants.StateMine:
		if key.Matches(msg, m.keys.Cancel) {
			if slot, ok := m.mine.Selected(); ok {
				m.targetID = slot.ID
				m.previousState = m.state
				m.state = constants.StateConfirmCancel
			}
			return m, nil
		}
	case constants.StateAdmin:
		if m.isAdmin() {
			if next, cmd, ok := m.handleAdminKey(msg); ok {
				return next, cmd
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateAvailable:
		m.available, cmd = m.available.Update(msg)
	case constants.StateMine:
		m.mine, cmd = m.mine.Update(msg)
	case constants.StateAdmin:
		m.adminList, cmd = m.adminList.Update(msg)
	}
	return m, cmd
}

func (m Model) handleAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Add):
		m.slotForm = &SlotFormModel{}
		next, cmd := m.openForm(constants.StateAddSlot)
		return next, cmd, true
	case key.Matches(msg, m.keys.Edit):
		slot, ok := m.adminList.Selected()
		if !ok {
			return m, nil, true
		}
		if err := m.console.BeginEdit(slot.ID); err != nil {
			m.report(errors.UserMessage(err), err)
			return m, nil, true
		}
		draft, _ := m.console.Draft(slot.ID)
		m.targetID = slot.ID
		m.slotForm = &SlotFormModel{Date: draft.Date, Start: draft.StartTime, End: draft.EndTime}
		next, cmd := m.openForm(constants.StateEditSlot)
		return next, cmd, true
	case key.Matches(msg, m.keys.Delete):
		if slot, ok := m.adminList.Selected(); ok {
			m.targetID = slot.ID
			m.previousState = m.state
			m.state = constants.StateConfirmDelete
		}
		return m, nil, true
	case key.Matches(msg, m.keys.Audit):
		result := m.console.Audit()
		m.conflicts = len(result.Conflicts)
		if result.HasConflicts() {
			m.report(fmt.Sprintf("Found %d conflict(s)", m.conflicts), errors.Validation("validate", "conflicts"))
		} else {
			m.report("No conflicts found", nil)
		}
		return m, nil, true
	}
	return m, nil, false
}

// beginBooking checks the session before anything goes over the wire
func (m Model) beginBooking() (tea.Model, tea.Cmd) {
	if _, ok := m.session.Token(); !ok {
		m.report(constants.MsgLoginRequired, errors.Unauthenticated("book", constants.MsgLoginRequired))
		return m, nil
	}
	slot, ok := m.available.Selected()
	if !ok {
		return m, nil
	}
	m.targetID = slot.ID
	m.details = ""
	m.booking.Reset()
	m.bookingForm = &BookingFormModel{}
	if id, ok := m.session.Identity(); ok {
		m.bookingForm.Email = id.Email
	}
	m.status = "Loading appointment details..."
	m.statusErr = false
	return m, m.fetchDetails(slot.ID)
}

func (m Model) switchTab(step int) (tea.Model, tea.Cmd) {
	idx := 0
	for i, s := range tabs {
		if s == m.state {
			idx = i
		}
	}
	idx = (idx + step + len(tabs)) % len(tabs)
	m.state = tabs[idx]
	m.status = ""
	return m, m.activate(m.state)
}

func (m Model) openForm(state constants.SessionState) (tea.Model, tea.Cmd) {
	if isTab(m.state) {
		m.previousState = m.state
	}
	switch state {
	case constants.StateBooking:
		m.form = NewBookingForm(m.bookingForm, m.details)
	case constants.StateLogin:
		m.form = NewLoginForm(m.loginForm)
	case constants.StateAddSlot:
		m.form = NewSlotForm(m.slotForm, "New slot")
	case constants.StateEditSlot:
		m.form = NewSlotForm(m.slotForm, "Slot "+m.targetID.String())
	}
	m.state = state
	return m, m.form.Init()
}

func (m Model) closeForm() Model {
	m.form = nil
	m.state = m.previousState
	if !isTab(m.state) {
		m.state = constants.StateAvailable
	}
	return m
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		if m.state == constants.StateEditSlot {
			m.console.CancelEdit(m.targetID)
		}
		return m.closeForm(), nil
	}

	next, cmd := m.form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		if m.state == constants.StateEditSlot {
			m.console.CancelEdit(m.targetID)
		}
		return m.closeForm(), nil
	case huh.StateCompleted:
		return m.submitForm()
	}
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	state := m.state
	m = m.closeForm()

	switch state {
	case constants.StateBooking:
		m.status = "Booking..."
		m.statusErr = false
		return m, m.submitBooking(booking.Form{
			AppointmentID: m.targetID,
			Name:          m.bookingForm.Name,
			Email:         m.bookingForm.Email,
		})
	case constants.StateLogin:
		return m, m.submitLogin(m.loginForm.Email, m.loginForm.Password)
	case constants.StateAddSlot:
		return m, m.submitAdd(slotInput(m.slotForm))
	case constants.StateEditSlot:
		return m, m.submitEdit(m.targetID, slotInput(m.slotForm))
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		state := m.state
		m.state = m.previousState
		if state == constants.StateConfirmCancel {
			return m, m.submitCancel(m.targetID)
		}
		return m, m.submitDelete(m.targetID)
	case "n", "esc", "q":
		m.state = m.previousState
	}
	return m, nil
}

func slotInput(fm *SlotFormModel) models.SlotInput {
	return models.SlotInput{
		Date:      strings.TrimSpace(fm.Date),
		StartTime: strings.TrimSpace(fm.Start),
		EndTime:   strings.TrimSpace(fm.End),
	}
}

// sync copies each controller's collection into its table
func (m *Model) sync() {
	lists := map[constants.SessionState]*slotlist.Model{
		constants.StateAvailable: &m.available,
		constants.StateMine:      &m.mine,
		constants.StateAdmin:     &m.adminList,
	}
	for s, l := range lists {
		l.SetSlots(m.controllers[s].Snapshot().Slots)
	}
	if m.isAdmin() {
		m.conflicts = len(m.console.Audit().Conflicts)
	} else {
		m.conflicts = 0
	}
}

// resetPrivateViews drops collections that belong to the previous identity
func (m *Model) resetPrivateViews() {
	m.controllers[constants.StateMine].Unmount()
	m.controllers[constants.StateAdmin].Unmount()
	m.sync()
}

func (m *Model) report(message string, err error) {
	m.status = message
	m.statusErr = err != nil
}
