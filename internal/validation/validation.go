package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictOverlappingSlots  ConflictType = "overlapping_slots"
	ConflictDuplicateSlotID   ConflictType = "duplicate_slot_id"
	ConflictMissingSlotID     ConflictType = "missing_slot_id"
	ConflictInvalidDateTime   ConflictType = "invalid_datetime"
	ConflictBookingMismatch   ConflictType = "booking_mismatch"
	ConflictDoubleBookedEmail ConflictType = "double_booked_email"
)

// Conflict represents a detected problem in a slot listing
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string // YYYY-MM-DD format (if applicable)
	SlotIDs     []models.SlotID
	TimeRange   string // Human-readable time range (if applicable)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns how many conflicts of the given type were found
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator audits slot listings
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

type span struct {
	id    models.SlotID
	date  string
	start string
	end   string
}

// ValidateSlots checks a full admin listing for records and schedules the
// service should never produce: malformed times, bookings without a patient,
// duplicate ids and overlapping slots on the same day.
func (v *Validator) ValidateSlots(slots []models.AppointmentSlot) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	seen := make(map[models.SlotID]int)
	for _, slot := range slots {
		if slot.ID == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingSlotID,
				Description: "Slot without an id",
			})
			continue
		}
		seen[slot.ID]++
	}
	for id, n := range seen {
		if n > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateSlotID,
				Description: fmt.Sprintf("Slot id %s appears %d times", id, n),
				SlotIDs:     []models.SlotID{id},
			})
		}
	}

	// Record-level checks
	var spans []span
	bookedBy := make(map[string][]span)
	for _, slot := range slots {
		in, err := utils.SlotInputFromSlot(slot)
		if err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Slot %s has a malformed date or time", slot.ID),
				SlotIDs:     []models.SlotID{slot.ID},
			})
			continue
		}
		if err := utils.ValidateSlotInput(in); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("%s: Slot %s end time '%s' is not after start time '%s'", in.Date, slot.ID, in.EndTime, in.StartTime),
				Date:        in.Date,
				SlotIDs:     []models.SlotID{slot.ID},
			})
			continue
		}

		if !slot.Consistent() {
			desc := fmt.Sprintf("Slot %s is scheduled but has no patient", slot.ID)
			if !slot.Scheduled {
				desc = fmt.Sprintf("Slot %s is not scheduled but has a patient attached", slot.ID)
			}
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictBookingMismatch,
				Description: desc,
				Date:        in.Date,
				SlotIDs:     []models.SlotID{slot.ID},
			})
		}

		s := span{id: slot.ID, date: in.Date, start: in.StartTime, end: in.EndTime}
		spans = append(spans, s)
		if slot.Scheduled && slot.User != nil && slot.User.Email != "" {
			bookedBy[slot.User.Email] = append(bookedBy[slot.User.Email], s)
		}
	}

	// Check for overlapping slots on the same date
	// O(n²) per date - acceptable for the size of an appointment book
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].date != spans[j].date {
			return spans[i].date < spans[j].date
		}
		return spans[i].start < spans[j].start
	})
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans) && spans[j].date == spans[i].date; j++ {
			s1, s2 := spans[i], spans[j]
			if timesOverlap(s1.start, s1.end, s2.start, s2.end) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type: ConflictOverlappingSlots,
					Description: fmt.Sprintf("%s: slot %s (%s-%s) overlaps slot %s (%s-%s)",
						s1.date, s1.id, s1.start, s1.end, s2.id, s2.start, s2.end),
					Date:      s1.date,
					SlotIDs:   []models.SlotID{s1.id, s2.id},
					TimeRange: fmt.Sprintf("%s-%s", s1.start, s1.end),
				})
			}
		}
	}

	// A patient booked into two overlapping slots
	emails := make([]string, 0, len(bookedBy))
	for email := range bookedBy {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	for _, email := range emails {
		booked := bookedBy[email]
		for i := 0; i < len(booked); i++ {
			for j := i + 1; j < len(booked); j++ {
				b1, b2 := booked[i], booked[j]
				if b1.date == b2.date && timesOverlap(b1.start, b1.end, b2.start, b2.end) {
					result.Conflicts = append(result.Conflicts, Conflict{
						Type:        ConflictDoubleBookedEmail,
						Description: fmt.Sprintf("%s: %s is booked into overlapping slots %s and %s", b1.date, email, b1.id, b2.id),
						Date:        b1.date,
						SlotIDs:     []models.SlotID{b1.id, b2.id},
					})
				}
			}
		}
	}

	return result
}

// Helper functions

// timesOverlap compares HH:MM strings, which order lexically
func timesOverlap(start1, end1, start2, end2 string) bool {
	return start1 < end2 && start2 < end1
}
