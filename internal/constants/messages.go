package constants

// User-facing messages
const (
	MsgFillAllFields       = "Please fill in all fields."
	MsgInvalidToken        = "Invalid or missing JWT token. Please log in again."
	MsgBookingFailed       = "Error booking appointment. Please try again."
	MsgBookingConflict     = "This appointment has already been booked."
	MsgBookingConfirmed    = "Appointment booked successfully!"
	MsgCancelFailed        = "Error cancelling appointment. Please try again."
	MsgCancelConfirmed     = "Appointment cancelled"
	MsgLoginRequired       = "Please log in to book an appointment."
	MsgInvalidCredentials  = "Invalid credentials. Please try again."
	MsgSignupFailed        = "Error signing up. Please try again."
	MsgSignupConfirmed     = "Signup successful! Please login."
	MsgLoadSlotsFailed     = "Failed to load available slots. Please try again."
	MsgLoadApptsFailed     = "Failed to load appointments. Please try again."
	MsgFetchDetailsFailed  = "Failed to fetch appointment details."
	MsgServiceUnreachable  = "Unable to reach the scheduling service. Please try again."
	MsgAdminRoleRequired   = "This action requires an administrator session."
	MsgSlotAdded           = "Appointment added successfully"
	MsgNoAvailableSlots    = "No available slots"
	MsgNoAppointments      = "No appointments found."
	MsgEmailOrTokenMissing = "User email or token missing"
)
