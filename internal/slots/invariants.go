package slots

import (
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/utils"
)

// Anomaly is a fetched record that breaks a slot invariant.
// The record stays in the collection; the anomaly is only reported.
type Anomaly struct {
	ID     models.SlotID
	Reason string
}

const (
	ReasonUserWithoutBooking = "unscheduled slot carries a user"
	ReasonBookingWithoutUser = "scheduled slot has no user"
	ReasonMalformedTime      = "malformed date or time"
	ReasonEndBeforeStart     = "end time is not after start time"
	ReasonBookableInMine     = "unscheduled slot in my appointments"
	ReasonBookedInAvailable  = "scheduled slot listed as available"
)

func checkSlots(view constants.View, slots []models.AppointmentSlot) []Anomaly {
	var found []Anomaly
	report := func(id models.SlotID, reason string) {
		found = append(found, Anomaly{ID: id, Reason: reason})
		logger.Warn("Slot invariant violated", "view", view, "id", id, "reason", reason)
	}

	for _, slot := range slots {
		if !slot.Consistent() {
			if slot.Scheduled {
				report(slot.ID, ReasonBookingWithoutUser)
			} else {
				report(slot.ID, ReasonUserWithoutBooking)
			}
		}
		if utils.IsInvalidDisplay(utils.FormatSlot(slot)) {
			report(slot.ID, ReasonMalformedTime)
		} else if minutes(slot.StartTime) >= minutes(slot.EndTime) {
			report(slot.ID, ReasonEndBeforeStart)
		}
		switch {
		case view == constants.ViewAvailable && slot.Scheduled:
			report(slot.ID, ReasonBookedInAvailable)
		case view == constants.ViewMine && !slot.Scheduled:
			report(slot.ID, ReasonBookableInMine)
		}
	}
	return found
}

func minutes(c models.ClockParts) int {
	return c[0]*60 + c[1]
}
