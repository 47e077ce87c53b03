// Package admin reconciles administrator edits with the full slot listing.
package admin

import (
	"context"
	"fmt"
	"sync"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/errors"
	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/slots"
	"github.com/julianstephens/slotbook/internal/utils"
	"github.com/julianstephens/slotbook/internal/validation"
)

// Gateway is the subset of the remote client the console needs
type Gateway interface {
	Create(ctx context.Context, in models.SlotInput) (models.AppointmentSlot, error)
	Update(ctx context.Context, id models.SlotID, in models.SlotInput) (models.AppointmentSlot, error)
	Delete(ctx context.Context, id models.SlotID) error
}

// List is the admin view the console reads rows from
type List interface {
	slots.Reconciler
	Slots() []models.AppointmentSlot
}

// Row is one committed slot plus its in-progress edit, if any
type Row struct {
	Slot    models.AppointmentSlot
	Display utils.SlotDisplay
	Editing bool
	Draft   models.SlotInput
	// Err is the last failure saving this row
	Err error
}

type edit struct {
	draft models.SlotInput
	err   error
}

// Console tracks per-row edit state over the admin list
type Console struct {
	gateway Gateway
	list    List

	mu    sync.Mutex
	views []slots.Reconciler
	edits map[models.SlotID]*edit
}

func NewConsole(gw Gateway, list List) *Console {
	return &Console{
		gateway: gw,
		list:    list,
		edits:   make(map[models.SlotID]*edit),
	}
}

// Attach registers other views that must catch up after admin changes
func (c *Console) Attach(views ...slots.Reconciler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views = append(c.views, views...)
}

// Rows returns the committed rows in list order with their edit state
func (c *Console) Rows() []Row {
	listed := c.list.Slots()

	c.mu.Lock()
	defer c.mu.Unlock()
	rows := make([]Row, 0, len(listed))
	for _, slot := range listed {
		row := Row{
			Slot:    slot,
			Display: utils.FormatSlotTimesWith(utils.AdminLayout, slot.Date, slot.StartTime, slot.EndTime),
		}
		if e, ok := c.edits[slot.ID]; ok {
			row.Editing = true
			row.Draft = e.draft
			row.Err = e.err
		}
		rows = append(rows, row)
	}
	return rows
}

func (c *Console) find(id models.SlotID) (models.AppointmentSlot, bool) {
	for _, slot := range c.list.Slots() {
		if slot.ID == id {
			return slot, true
		}
	}
	return models.AppointmentSlot{}, false
}

// BeginEdit copies the committed value into a fresh draft. A row whose
// committed date or time is malformed starts with the unreadable parts blank
// rather than a guessed value.
func (c *Console) BeginEdit(id models.SlotID) error {
	slot, ok := c.find(id)
	if !ok {
		return errors.Validation("edit", fmt.Sprintf("slot %s not found", id))
	}

	draft, err := utils.SlotInputFromSlot(slot)
	if err != nil {
		logger.Warn("Editing malformed slot", "id", id, "error", err)
		draft = partialInput(slot)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.edits[id] = &edit{draft: draft}
	logger.Debug("Edit started", "id", id)
	return nil
}

func partialInput(slot models.AppointmentSlot) models.SlotInput {
	var in models.SlotInput
	probe := []int{0, 0}
	if d := utils.FormatSlotTimesWith(utils.AdminLayout, slot.Date, probe, probe); !utils.IsInvalidDisplay(d) {
		in.Date = d.Date
	}
	probeDate := []int{2000, 1, 1}
	if d := utils.FormatSlotTimesWith(utils.AdminLayout, probeDate, slot.StartTime, probe); !utils.IsInvalidDisplay(d) {
		in.StartTime = d.Start
	}
	if d := utils.FormatSlotTimesWith(utils.AdminLayout, probeDate, probe, slot.EndTime); !utils.IsInvalidDisplay(d) {
		in.EndTime = d.End
	}
	return in
}

// Editing reports whether the row is in edit mode
func (c *Console) Editing(id models.SlotID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.edits[id]
	return ok
}

// Draft returns the row's draft, if it is being edited
func (c *Console) Draft(id models.SlotID) (models.SlotInput, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.edits[id]; ok {
		return e.draft, true
	}
	return models.SlotInput{}, false
}

// EditDraft applies fn to the row's draft. The committed row is never touched.
func (c *Console) EditDraft(id models.SlotID, fn func(*models.SlotInput)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.edits[id]
	if !ok {
		return errors.Validation("edit", fmt.Sprintf("slot %s is not being edited", id))
	}
	fn(&e.draft)
	return nil
}

// SetDraft replaces the row's draft
func (c *Console) SetDraft(id models.SlotID, in models.SlotInput) error {
	return c.EditDraft(id, func(d *models.SlotInput) { *d = in })
}

// CancelEdit discards the draft. Nothing is sent.
func (c *Console) CancelEdit(id models.SlotID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.edits, id)
	logger.Debug("Edit cancelled", "id", id)
}

// Save sends the draft. On failure the row stays in edit mode with the draft
// intact and the error recorded on the row.
func (c *Console) Save(ctx context.Context, id models.SlotID) error {
	const op = "update appointment"

	draft, ok := c.Draft(id)
	if !ok {
		return errors.Validation(op, fmt.Sprintf("slot %s is not being edited", id))
	}
	if err := checkInput(op, draft); err != nil {
		c.recordErr(id, err)
		return err
	}

	if _, err := c.gateway.Update(ctx, id, draft); err != nil {
		c.recordErr(id, err)
		logger.Warn("Slot update failed", "id", id, "error", err)
		return err
	}

	c.mu.Lock()
	delete(c.edits, id)
	c.mu.Unlock()
	logger.Info("Slot updated", "id", id)

	c.reconcile(ctx, slots.MutationUpdate, id)
	return nil
}

// Add creates a slot and refetches. Nothing changes locally on failure.
func (c *Console) Add(ctx context.Context, in models.SlotInput) (models.AppointmentSlot, error) {
	const op = "create appointment"

	if err := checkInput(op, in); err != nil {
		return models.AppointmentSlot{}, err
	}
	created, err := c.gateway.Create(ctx, in)
	if err != nil {
		logger.Warn("Slot create failed", "error", err)
		return models.AppointmentSlot{}, err
	}
	logger.Info("Slot created", "id", created.ID)

	c.reconcile(ctx, slots.MutationAdd, created.ID)
	return created, nil
}

// Delete removes a slot and refetches. Nothing changes locally on failure.
func (c *Console) Delete(ctx context.Context, id models.SlotID) error {
	if err := c.gateway.Delete(ctx, id); err != nil {
		logger.Warn("Slot delete failed", "id", id, "error", err)
		return err
	}
	c.mu.Lock()
	delete(c.edits, id)
	c.mu.Unlock()
	logger.Info("Slot deleted", "id", id)

	c.reconcile(ctx, slots.MutationDelete, id)
	return nil
}

// Audit checks the current listing for overlapping or inconsistent slots
func (c *Console) Audit() validation.ValidationResult {
	return validation.New().ValidateSlots(c.list.Slots())
}

func (c *Console) recordErr(id models.SlotID, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.edits[id]; ok {
		e.err = err
	}
}

func (c *Console) reconcile(ctx context.Context, m slots.Mutation, id models.SlotID) {
	c.mu.Lock()
	views := append([]slots.Reconciler{c.list}, c.views...)
	c.mu.Unlock()

	for _, v := range views {
		if err := v.Reconcile(ctx, m, id); err != nil {
			logger.Warn("View reconcile failed", "mutation", m, "id", id, "error", err)
		}
	}
}

// checkInput rejects drafts that would corrupt the slot's date or times
func checkInput(op string, in models.SlotInput) error {
	if err := validation.ValidateStruct(in); err != nil {
		if validation.HasTag(err, "required") {
			return errors.Validation(op, constants.MsgFillAllFields)
		}
		return errors.Validation(op, validation.FormatFirstError(err))
	}
	if err := utils.ValidateSlotInput(in); err != nil {
		return errors.Validation(op, err.Error())
	}
	return nil
}
