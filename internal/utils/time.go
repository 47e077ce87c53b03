package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/models"
)

// ErrMalformedSlot is returned when a slot's wire date or times cannot be read
var ErrMalformedSlot = errors.New("slot has a malformed date or time")

// SlotDisplay is the human-readable form of a slot's date and time range
type SlotDisplay struct {
	Date  string
	Start string
	End   string
}

// Layout pairs a date layout with a time-of-day layout
type Layout struct {
	Date string
	Time string
}

var (
	// PatientLayout is used by the availability, booking and my-appointments views
	PatientLayout = Layout{Date: constants.DisplayDateFormat, Time: constants.DisplayTimeFormat}
	// AdminLayout renders the same values the admin enters (YYYY-MM-DD, HH:MM)
	AdminLayout = Layout{Date: constants.DateFormat, Time: constants.TimeFormat}
)

var invalidDisplay = SlotDisplay{
	Date:  constants.InvalidDate,
	Start: constants.InvalidTime,
	End:   constants.InvalidTime,
}

// FormatSlotTimes renders wire date/time arrays with the patient layout.
// If any argument is missing, has the wrong arity or is out of range the
// whole result is the "Invalid Date"/"Invalid Time" sentinel triple.
func FormatSlotTimes(date, start, end []int) SlotDisplay {
	return FormatSlotTimesWith(PatientLayout, date, start, end)
}

// FormatSlotTimesWith is FormatSlotTimes with an explicit layout
func FormatSlotTimesWith(layout Layout, date, start, end []int) SlotDisplay {
	d, okDate := civilDate(date)
	s, okStart := clockTime(start)
	e, okEnd := clockTime(end)
	if !okDate || !okStart || !okEnd {
		return invalidDisplay
	}
	return SlotDisplay{
		Date:  d.Format(layout.Date),
		Start: s.Format(layout.Time),
		End:   e.Format(layout.Time),
	}
}

// FormatSlot renders a slot with the patient layout
func FormatSlot(slot models.AppointmentSlot) SlotDisplay {
	return FormatSlotTimes(slot.Date, slot.StartTime, slot.EndTime)
}

// IsInvalidDisplay reports whether a display value carries the malformed-record sentinels
func IsInvalidDisplay(d SlotDisplay) bool {
	return d.Date == constants.InvalidDate || d.Start == constants.InvalidTime || d.End == constants.InvalidTime
}

// civilDate reads [year, month(1-12), day]. Month is 1-indexed on the wire.
// Dates that would roll over (Feb 30) are rejected.
func civilDate(parts []int) (time.Time, bool) {
	if len(parts) != 3 {
		return time.Time{}, false
	}
	year, month, day := parts[0], parts[1], parts[2]
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// clockTime reads [hour(0-23), minute(0-59)]
func clockTime(parts []int) (time.Time, bool) {
	if len(parts) != 2 {
		return time.Time{}, false
	}
	hour, minute := parts[0], parts[1]
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, false
	}
	return time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC), true
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// ParseDate parses a date string in the standard format (YYYY-MM-DD).
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(constants.DateFormat, dateStr)
}

// ParseDateParts converts "YYYY-MM-DD" into the wire triple
func ParseDateParts(dateStr string) (models.DateParts, error) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", dateStr, err)
	}
	return models.DateParts{t.Year(), int(t.Month()), t.Day()}, nil
}

// ParseClockParts converts "HH:MM" into the wire pair
func ParseClockParts(timeStr string) (models.ClockParts, error) {
	t, err := ParseTime(timeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q (expected HH:MM): %w", timeStr, err)
	}
	return models.ClockParts{t.Hour(), t.Minute()}, nil
}

// SlotInputFromSlot converts a committed slot into the admin edit payload.
// The caller's arrays are only read.
func SlotInputFromSlot(slot models.AppointmentSlot) (models.SlotInput, error) {
	display := FormatSlotTimesWith(AdminLayout, slot.Date, slot.StartTime, slot.EndTime)
	if IsInvalidDisplay(display) {
		return models.SlotInput{}, fmt.Errorf("%w: %s", ErrMalformedSlot, slot.ID)
	}
	return models.SlotInput{Date: display.Date, StartTime: display.Start, EndTime: display.End}, nil
}

// ValidateSlotInput checks that the payload parses and that start is before end
func ValidateSlotInput(in models.SlotInput) error {
	if _, err := ParseDate(in.Date); err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", in.Date)
	}
	start, err := ParseTime(in.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start time %q (expected HH:MM)", in.StartTime)
	}
	end, err := ParseTime(in.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end time %q (expected HH:MM)", in.EndTime)
	}
	if !start.Before(end) {
		return fmt.Errorf("start time %s must be before end time %s", in.StartTime, in.EndTime)
	}
	return nil
}
