package slotlist

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/models"
)

func slot(id string, hour int) models.AppointmentSlot {
	return models.AppointmentSlot{
		ID:        models.SlotID(id),
		Date:      models.DateParts{2024, 5, 10},
		StartTime: models.ClockParts{hour, 0},
		EndTime:   models.ClockParts{hour, 30},
	}
}

func TestEmptyMessage(t *testing.T) {
	m := New(constants.ViewAvailable, constants.MsgNoAvailableSlots, 80, 10)
	if got := m.View(); got != constants.MsgNoAvailableSlots {
		t.Errorf("View() = %q, want empty message", got)
	}
	if _, ok := m.Selected(); ok {
		t.Error("Selected() on an empty list should report false")
	}
}

func TestSelectionFollowsCursor(t *testing.T) {
	m := New(constants.ViewAvailable, "", 80, 10)
	m.SetSlots([]models.AppointmentSlot{slot("1", 9), slot("2", 10)})

	got, ok := m.Selected()
	if !ok || got.ID != "1" {
		t.Fatalf("Selected() = %v, %v; want slot 1", got.ID, ok)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got, _ := m.Selected(); got.ID != "2" {
		t.Errorf("after down, Selected() = %v, want 2", got.ID)
	}

	// Shrinking the list keeps the cursor in range
	m.SetSlots([]models.AppointmentSlot{slot("1", 9)})
	if got, ok := m.Selected(); !ok || got.ID != "1" {
		t.Errorf("after shrink, Selected() = %v, %v", got.ID, ok)
	}
}

func TestSelectionAfterEmptyLoad(t *testing.T) {
	m := New(constants.ViewMine, "", 80, 10)
	m.SetSlots(nil)
	if _, ok := m.Selected(); ok {
		t.Fatal("Selected() on an empty list should report false")
	}

	m.SetSlots([]models.AppointmentSlot{slot("4", 9), slot("5", 10)})
	got, ok := m.Selected()
	if !ok || got.ID != "4" {
		t.Errorf("Selected() after rows arrived = %v, %v; want slot 4", got.ID, ok)
	}

	// Emptied again and refilled
	m.SetSlots([]models.AppointmentSlot{})
	m.SetSlots([]models.AppointmentSlot{slot("6", 11)})
	if got, ok := m.Selected(); !ok || got.ID != "6" {
		t.Errorf("Selected() after refill = %v, %v; want slot 6", got.ID, ok)
	}
}

func TestAdminRowsShowStatus(t *testing.T) {
	m := New(constants.ViewAdmin, "", 120, 10)
	booked := slot("7", 9)
	booked.Scheduled = true
	booked.User = &models.Patient{Name: "Pat", Email: "pat@example.com"}
	m.SetSlots([]models.AppointmentSlot{booked, slot("8", 10)})

	view := m.View()
	for _, want := range []string{"2024-05-10", "09:00", constants.StatusScheduled, constants.StatusPending, "Pat"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
