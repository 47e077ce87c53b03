package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/slotbook/internal/booking"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/slots"
	"github.com/julianstephens/slotbook/internal/utils"
)

type slotsFetchedMsg struct {
	state constants.SessionState
}

// detailsMsg carries the text shown above the booking form
type detailsMsg struct {
	id   models.SlotID
	text string
	err  error
}

type bookedMsg struct{ err error }

type cancelledMsg struct{ err error }

type loggedInMsg struct {
	sess models.Session
	err  error
}

type loggedOutMsg struct{ err error }

type adminDoneMsg struct {
	message string
	// editID is set when a save failed and the draft should be reopened
	editID models.SlotID
	err    error
}

// activate mounts a tab's controller the first time it is shown
func (m Model) activate(s constants.SessionState) tea.Cmd {
	ctrl, ok := m.controllers[s]
	if !ok {
		return nil
	}
	if s == constants.StateAdmin && !m.isAdmin() {
		return nil
	}
	if ctrl.State() != slots.StateIdle {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		_ = ctrl.Mount(ctx)
		return slotsFetchedMsg{state: s}
	}
}

func (m Model) refetch(s constants.SessionState) tea.Cmd {
	ctrl, ok := m.controllers[s]
	if !ok {
		return nil
	}
	if s == constants.StateAdmin && !m.isAdmin() {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		_ = ctrl.Refetch(ctx)
		return slotsFetchedMsg{state: s}
	}
}

func (m Model) fetchDetails(id models.SlotID) tea.Cmd {
	ctx, gw := m.ctx, m.gateway
	return func() tea.Msg {
		slot, err := gw.Get(ctx, id)
		if err != nil {
			return detailsMsg{id: id, text: constants.MsgFetchDetailsFailed, err: err}
		}
		d := utils.FormatSlot(slot)
		return detailsMsg{id: id, text: fmt.Sprintf("%s\n%s - %s", d.Date, d.Start, d.End)}
	}
}

func (m Model) submitBooking(form booking.Form) tea.Cmd {
	ctx, wf := m.ctx, m.booking
	return func() tea.Msg {
		return bookedMsg{err: wf.Book(ctx, form)}
	}
}

func (m Model) submitCancel(id models.SlotID) tea.Cmd {
	ctx, wf := m.ctx, m.booking
	return func() tea.Msg {
		return cancelledMsg{err: wf.Cancel(ctx, id)}
	}
}

func (m Model) submitLogin(email, password string) tea.Cmd {
	ctx, svc := m.ctx, m.auth
	return func() tea.Msg {
		sess, err := svc.Login(ctx, email, password)
		return loggedInMsg{sess: sess, err: err}
	}
}

func (m Model) submitLogout() tea.Cmd {
	svc := m.auth
	return func() tea.Msg {
		return loggedOutMsg{err: svc.Logout()}
	}
}

func (m Model) submitAdd(in models.SlotInput) tea.Cmd {
	ctx, con := m.ctx, m.console
	return func() tea.Msg {
		if _, err := con.Add(ctx, in); err != nil {
			return adminDoneMsg{err: err}
		}
		return adminDoneMsg{message: constants.MsgSlotAdded}
	}
}

func (m Model) submitEdit(id models.SlotID, in models.SlotInput) tea.Cmd {
	ctx, con := m.ctx, m.console
	return func() tea.Msg {
		if err := con.SetDraft(id, in); err != nil {
			return adminDoneMsg{err: err}
		}
		if err := con.Save(ctx, id); err != nil {
			return adminDoneMsg{editID: id, err: err}
		}
		return adminDoneMsg{message: fmt.Sprintf("Slot %s updated", id)}
	}
}

func (m Model) submitDelete(id models.SlotID) tea.Cmd {
	ctx, con := m.ctx, m.console
	return func() tea.Msg {
		if err := con.Delete(ctx, id); err != nil {
			return adminDoneMsg{err: err}
		}
		return adminDoneMsg{message: fmt.Sprintf("Slot %s deleted", id)}
	}
}
