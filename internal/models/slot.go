package models

import (
	"bytes"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/julianstephens/slotbook/internal/constants"
)

// SlotID is the opaque identifier the scheduling service assigns to a slot.
// The service may emit it as a JSON number or string; it is always carried as a string.
type SlotID string

func (id *SlotID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = SlotID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("slot id must be a string or number, got %s", data)
	}
	*id = SlotID(data)
	return nil
}

func (id SlotID) String() string { return string(id) }

// DateParts is the wire form of a calendar date: [year, month(1-12), day].
// Anything that is not an integer array decodes to nil so one bad record
// does not fail a whole listing.
type DateParts []int

func (d *DateParts) UnmarshalJSON(data []byte) error {
	*d = DateParts(lenientInts(data))
	return nil
}

// ClockParts is the wire form of a time of day: [hour(0-23), minute(0-59)].
type ClockParts []int

func (c *ClockParts) UnmarshalJSON(data []byte) error {
	*c = ClockParts(lenientInts(data))
	return nil
}

func lenientInts(data []byte) []int {
	var parts []int
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil
	}
	return parts
}

// Patient is the identity attached to a booked slot
type Patient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AppointmentSlot is a bookable time range owned by the scheduling service
type AppointmentSlot struct {
	ID        SlotID     `json:"id"`
	Date      DateParts  `json:"date"`
	StartTime ClockParts `json:"startTime"`
	EndTime   ClockParts `json:"endTime"`
	Scheduled bool       `json:"scheduled"`
	User      *Patient   `json:"user,omitempty"`
}

// Consistent reports whether the booking flag agrees with the attached user:
// unscheduled slots carry no user and scheduled slots always carry one.
func (s AppointmentSlot) Consistent() bool {
	return s.Scheduled == (s.User != nil)
}

// Status returns the admin-facing status label
func (s AppointmentSlot) Status() string {
	if s.Scheduled {
		return constants.StatusScheduled
	}
	return constants.StatusPending
}

func (s AppointmentSlot) UserName() string {
	if s.Scheduled && s.User != nil {
		return s.User.Name
	}
	return constants.EmptyCell
}

func (s AppointmentSlot) UserEmail() string {
	if s.Scheduled && s.User != nil {
		return s.User.Email
	}
	return constants.EmptyCell
}

// SlotInput is the admin create/update payload. Values travel as ISO strings
// (YYYY-MM-DD and HH:MM), which the service parses into its date/time types.
type SlotInput struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
}
