package constants

const (
	// DateFormat is the wire and admin date format (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the wire and admin time format (HH:MM)
	TimeFormat = "15:04"

	// DisplayDateFormat is the patient-facing date format, e.g. "Friday, May 10, 2024"
	DisplayDateFormat = "Monday, January 2, 2006"

	// DisplayTimeFormat is the patient-facing 12-hour clock, e.g. "9:00 AM"
	DisplayTimeFormat = "3:04 PM"

	InvalidDate = "Invalid Date"
	InvalidTime = "Invalid Time"
)
