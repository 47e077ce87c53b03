package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/utils"
)

// FormatSlotLine renders a slot for patient-facing listings
func FormatSlotLine(slot models.AppointmentSlot) string {
	d := utils.FormatSlot(slot)
	return fmt.Sprintf("[%s] %s, %s - %s", slot.ID, d.Date, d.Start, d.End)
}

// FormatAdminLine renders a slot with its status and patient for the admin listing
func FormatAdminLine(slot models.AppointmentSlot) string {
	d := utils.FormatSlotTimesWith(utils.AdminLayout, slot.Date, slot.StartTime, slot.EndTime)
	return fmt.Sprintf("[%s] %s %s-%s  %-9s  %s <%s>",
		slot.ID, d.Date, d.Start, d.End, slot.Status(), slot.UserName(), slot.UserEmail())
}

// MaskToken hides all but the edges of a bearer token
func MaskToken(token string) string {
	if len(token) <= 12 {
		return strings.Repeat("*", len(token))
	}
	return token[:6] + "…" + token[len(token)-4:]
}
