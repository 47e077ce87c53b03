package models

import "github.com/julianstephens/slotbook/internal/constants"

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string         `json:"token"`
	Role  constants.Role `json:"role"`
	Email string         `json:"email"`
	Name  string         `json:"name,omitempty"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// BookingRequest is sent to reserve a slot for the named patient
type BookingRequest struct {
	AppointmentID SlotID `json:"appointmentId" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required"`
}

// BookingConfirmation is whatever the service returned for a successful booking.
// Slot is set when the body decoded as a slot, otherwise Message holds the raw text.
type BookingConfirmation struct {
	Message string
	Slot    *AppointmentSlot
}
