// Package slotlist renders one view's slot collection as a table.
package slotlist

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/utils"
)

type Model struct {
	view  constants.View
	table table.Model
	slots []models.AppointmentSlot
	empty string
}

func columns(view constants.View) []table.Column {
	if view == constants.ViewAdmin {
		return []table.Column{
			{Title: "ID", Width: 6},
			{Title: "Date", Width: 12},
			{Title: "Start", Width: 7},
			{Title: "End", Width: 7},
			{Title: "Status", Width: 10},
			{Title: "Patient", Width: 18},
			{Title: "Email", Width: 26},
		}
	}
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Date", Width: 30},
		{Title: "Start", Width: 10},
		{Title: "End", Width: 10},
	}
}

func New(view constants.View, empty string, width, height int) Model {
	t := table.New(
		table.WithColumns(columns(view)),
		table.WithFocused(true),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return Model{view: view, table: t, empty: empty}
}

// SetSlots replaces the rows, keeping the service's order
func (m *Model) SetSlots(slots []models.AppointmentSlot) {
	m.slots = slots
	rows := make([]table.Row, len(slots))
	for i, slot := range slots {
		rows[i] = m.row(slot)
	}
	m.table.SetRows(rows)
	// An empty table leaves the cursor at -1
	switch c := m.table.Cursor(); {
	case len(rows) == 0:
	case c < 0:
		m.table.SetCursor(0)
	case c >= len(rows):
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m Model) row(slot models.AppointmentSlot) table.Row {
	if m.view == constants.ViewAdmin {
		d := utils.FormatSlotTimesWith(utils.AdminLayout, slot.Date, slot.StartTime, slot.EndTime)
		return table.Row{string(slot.ID), d.Date, d.Start, d.End, slot.Status(), slot.UserName(), slot.UserEmail()}
	}
	d := utils.FormatSlot(slot)
	return table.Row{string(slot.ID), d.Date, d.Start, d.End}
}

// Selected returns the slot under the cursor
func (m Model) Selected() (models.AppointmentSlot, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.slots) {
		return models.AppointmentSlot{}, false
	}
	return m.slots[i], true
}

func (m Model) Len() int {
	return len(m.slots)
}

func (m *Model) SetSize(width, height int) {
	m.table.SetWidth(width)
	m.table.SetHeight(height)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.slots) == 0 {
		return m.empty
	}
	return m.table.View()
}
