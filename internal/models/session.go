package models

import "github.com/julianstephens/slotbook/internal/constants"

// Session is the persisted form of an authenticated session.
// The zero value is the anonymous session.
type Session struct {
	Token string         `json:"token"`
	Role  constants.Role `json:"role"`
	Email string         `json:"email"`
	Name  string         `json:"name,omitempty"`
}

// Anonymous reports whether no token is held
func (s Session) Anonymous() bool {
	return s.Token == ""
}
