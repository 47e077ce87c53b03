package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/slots"
	"github.com/julianstephens/slotbook/internal/tui/components/slotlist"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateAvailable:
		content = m.viewList(constants.StateAvailable, m.available)
	case constants.StateMine:
		content = m.viewList(constants.StateMine, m.mine)
	case constants.StateAdmin:
		content = m.viewAdmin()
	case constants.StateBooking, constants.StateLogin, constants.StateAddSlot, constants.StateEditSlot:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmCancel:
		content = m.viewConfirm(fmt.Sprintf("Cancel appointment %s?", m.targetID))
	case constants.StateConfirmDelete:
		content = m.viewConfirm(fmt.Sprintf("Delete slot %s?", m.targetID))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewIdentity(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var rendered []string
	for _, s := range tabs {
		if s == m.state || (!isTab(m.state) && s == m.previousState) {
			rendered = append(rendered, activeTabStyle.Render(tabTitles[s]))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(tabTitles[s]))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) viewIdentity() string {
	id, ok := m.session.Identity()
	if !ok {
		return identityStyle.Render("Not logged in")
	}
	role, _ := m.session.Role()
	return identityStyle.Render(fmt.Sprintf("%s <%s> · %s", id.Name, id.Email, role))
}

func (m Model) viewList(s constants.SessionState, list slotlist.Model) string {
	snap := m.controllers[s].Snapshot()
	switch snap.State {
	case slots.StateIdle, slots.StateLoading:
		return docStyle.Render("Loading...")
	case slots.StateFailed:
		return docStyle.Render(dangerStyle.Render(snap.Message))
	}
	return docStyle.Render(list.View())
}

func (m Model) viewAdmin() string {
	if !m.isAdmin() {
		return docStyle.Render(warningStyle.Render(constants.MsgAdminRoleRequired))
	}
	content := m.viewList(constants.StateAdmin, m.adminList)
	if m.conflicts > 0 {
		banner := bannerStyle.Render(fmt.Sprintf("%d scheduling conflict(s) detected. Press v to review.", m.conflicts))
		content = lipgloss.JoinVertical(lipgloss.Left, banner, content)
	}
	return content
}

func (m Model) viewConfirm(question string) string {
	return lipgloss.Place(m.width, m.height-6,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(question),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return dangerStyle.Render(m.status)
	}
	return successStyle.Render(m.status)
}
