package constants

import "time"

// Role is the role claim attached to a session
type Role string

// View identifies which slot collection a list controller owns
type View string

// SessionState represents the current tab of the TUI application
type SessionState int

const (
	AppName            = "slotbook"
	DefaultKeyringUser = "session"
	DefaultConfigPath  = "~/.config/slotbook/slotbook.db"
	Version            = "v0.1.0"

	// Roles
	RolePatient Role = "PATIENT"
	RoleAdmin   Role = "ADMIN"

	// Views
	ViewAvailable View = "available"
	ViewAdmin     View = "admin"
	ViewMine      View = "mine"

	// Remote endpoints
	PathAvailable      = "/api/appointments/available"
	PathAdminAll       = "/api/appointments/admin/all"
	PathGetAppointment = "/api/appointments/getappointment/"
	PathAdminAdd       = "/api/appointments/admin/add"
	PathAdminUpdate    = "/api/appointments/admin/update/"
	PathAdminDelete    = "/api/appointments/admin/delete/"
	PathBook           = "/api/appointments/book"
	PathCancel         = "/api/appointments/cancel/"
	PathUserAppts      = "/api/appointments/user/"
	PathLogin          = "/api/auth/login"
	PathSignup         = "/api/auth/signup"

	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderRequestID     = "X-Request-ID"
	MIMEApplicationJSON = "application/json"

	// TokenSegments is the number of dot-separated parts in a well-formed bearer token
	TokenSegments = 3

	// Admin row status labels
	StatusScheduled = "Scheduled"
	StatusPending   = "Pending"
	EmptyCell       = "-"
)

// Session States
const (
	StateAvailable SessionState = iota
	StateMine
	StateAdmin
	StateBooking
	StateAddSlot
	StateEditSlot
	StateLogin
	StateConfirmCancel
	StateConfirmDelete
)

const (
	DefaultBackendURL     = "http://localhost:8080"
	DefaultRequestTimeout = 30 * time.Second
	DefaultRateLimitRPS   = 5
)
