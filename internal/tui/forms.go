package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/slotbook/internal/utils"
)

type BookingFormModel struct {
	Name  string
	Email string
}

type LoginFormModel struct {
	Email    string
	Password string
}

type SlotFormModel struct {
	Date  string
	Start string
	End   string
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func NewBookingForm(fm *BookingFormModel, details string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Book appointment").
				Description(details),
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(required("name")),
			huh.NewInput().
				Title("Email").
				Value(&fm.Email).
				Validate(required("email")),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewLoginForm(fm *LoginFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&fm.Email).
				Validate(required("email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password).
				Validate(required("password")),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewSlotForm is used for both adding and editing. Values are checked on
// submit by the admin console so a bad draft stays in the form.
func NewSlotForm(fm *SlotFormModel, title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title+" date (YYYY-MM-DD)").
				Value(&fm.Date).
				Validate(func(s string) error {
					if _, err := utils.ParseDate(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("date must be YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().
				Title("Start (HH:MM)").
				Value(&fm.Start).
				Validate(func(s string) error {
					if _, err := utils.ParseTime(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("start time must be HH:MM")
					}
					return nil
				}),
			huh.NewInput().
				Title("End (HH:MM)").
				Value(&fm.End).
				Validate(func(s string) error {
					if _, err := utils.ParseTime(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("end time must be HH:MM")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
