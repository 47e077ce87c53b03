// Package slots owns the in-memory slot collection behind each list view.
package slots

import (
	"context"
	"fmt"
	"sync"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/errors"
	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/session"
)

// State is the lifecycle of a view's collection
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Source is the subset of the gateway the controller reads from
type Source interface {
	ListAvailable(ctx context.Context) ([]models.AppointmentSlot, error)
	ListAll(ctx context.Context) ([]models.AppointmentSlot, error)
	ListMine(ctx context.Context, email string) ([]models.AppointmentSlot, error)
}

// Reconciler is anything that must catch up after a successful mutation
type Reconciler interface {
	Reconcile(ctx context.Context, m Mutation, id models.SlotID) error
}

// Snapshot is a copy of the controller's state at one point in time
type Snapshot struct {
	View    constants.View
	State   State
	Slots   []models.AppointmentSlot
	Err     error
	Message string
}

// Controller holds one view's collection. No two controllers share a slice.
type Controller struct {
	view    constants.View
	source  Source
	session session.Reader

	mu        sync.Mutex
	state     State
	slots     []models.AppointmentSlot
	err       error
	message   string
	anomalies []Anomaly

	// issued counts fetches started. applied is the newest fetch whose
	// successful result is in slots; failed is the newest failure shown.
	// A success older than applied is dropped, a failure is dropped unless it
	// is newer than both. An older success still replaces a newer failure.
	issued    uint64
	applied   uint64
	failed    uint64
	unmounted bool
	// removed maps optimistically removed ids to the last fetch issued before
	// the removal. Results from those fetches are filtered.
	removed map[models.SlotID]uint64
}

// NewController creates an idle controller for view. sess supplies the
// owner's email for the Mine view.
func NewController(view constants.View, source Source, sess session.Reader) *Controller {
	return &Controller{
		view:    view,
		source:  source,
		session: sess,
	}
}

func (c *Controller) View() constants.View {
	return c.view
}

// Mount starts the first fetch. Mounting again after Unmount starts over.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	c.unmounted = false
	c.mu.Unlock()
	return c.fetch(ctx)
}

// Refetch re-enters Loading and replaces the collection with the service's
func (c *Controller) Refetch(ctx context.Context) error {
	return c.fetch(ctx)
}

// Unmount discards every response still in flight
func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unmounted = true
	c.issued++
	c.applied = c.issued
	c.failed = c.issued
	c.removed = nil
	c.state = StateIdle
	logger.Debug("View unmounted", "view", c.view)
}

// Reconcile brings the collection up to date after a successful mutation.
// A view that was never mounted has nothing to reconcile; it fetches fresh
// data when it is first shown.
func (c *Controller) Reconcile(ctx context.Context, m Mutation, id models.SlotID) error {
	if c.State() == StateIdle {
		logger.Debug("Skipping reconcile of idle view", "view", c.view, "mutation", m, "id", id)
		return nil
	}
	policy := PolicyFor(c.view, m)
	logger.Debug("Reconciling view", "view", c.view, "mutation", m, "id", id, "policy", policy)

	if policy == PolicyOptimisticRemove {
		c.remove(id)
		return nil
	}
	return c.fetch(ctx)
}

func (c *Controller) remove(id models.SlotID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unmounted {
		return
	}
	kept := make([]models.AppointmentSlot, 0, len(c.slots))
	for _, slot := range c.slots {
		if slot.ID != id {
			kept = append(kept, slot)
		}
	}
	c.slots = kept
	// Fetches already in flight may still list the entry
	if c.issued > c.applied {
		if c.removed == nil {
			c.removed = map[models.SlotID]uint64{}
		}
		c.removed[id] = c.issued
	}
}

// withoutRemoved drops entries removed after fetch seq was issued and
// forgets removals no later fetch can still report. Callers hold mu.
func (c *Controller) withoutRemoved(seq uint64, slots []models.AppointmentSlot) []models.AppointmentSlot {
	if len(c.removed) == 0 {
		return slots
	}
	kept := make([]models.AppointmentSlot, 0, len(slots))
	for _, slot := range slots {
		if at, ok := c.removed[slot.ID]; ok && seq <= at {
			continue
		}
		kept = append(kept, slot)
	}
	for id, at := range c.removed {
		if at <= seq {
			delete(c.removed, id)
		}
	}
	return kept
}

func (c *Controller) list(ctx context.Context) ([]models.AppointmentSlot, error) {
	switch c.view {
	case constants.ViewAvailable:
		return c.source.ListAvailable(ctx)
	case constants.ViewAdmin:
		return c.source.ListAll(ctx)
	case constants.ViewMine:
		email, err := c.owner()
		if err != nil {
			return nil, err
		}
		return c.source.ListMine(ctx, email)
	default:
		return nil, fmt.Errorf("unknown view %q", c.view)
	}
}

// owner returns the signed-in patient's email for the Mine view
func (c *Controller) owner() (string, error) {
	if c.session == nil {
		return "", errors.Unauthenticated("list mine", constants.MsgEmailOrTokenMissing)
	}
	_, hasToken := c.session.Token()
	id, hasIdentity := c.session.Identity()
	if !hasToken || !hasIdentity || id.Email == "" {
		return "", errors.Unauthenticated("list mine", constants.MsgEmailOrTokenMissing)
	}
	return id.Email, nil
}

func (c *Controller) fetch(ctx context.Context) error {
	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		return nil
	}
	c.issued++
	seq := c.issued
	c.state = StateLoading
	c.mu.Unlock()

	logger.Debug("Fetching slots", "view", c.view, "seq", seq)
	slots, err := c.list(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	stale := c.unmounted || seq <= c.applied
	if err != nil {
		stale = stale || seq <= c.failed
	}
	if stale {
		logger.Debug("Discarding stale response", "view", c.view, "seq", seq, "applied", c.applied, "failed", c.failed)
		return nil
	}

	if err != nil {
		c.failed = seq
		c.state = StateFailed
		c.slots = []models.AppointmentSlot{}
		c.err = err
		c.message = c.failureMessage(err)
		logger.Warn("Failed to load slots", "view", c.view, "error", err)
		return err
	}

	c.applied = seq
	slots = c.withoutRemoved(seq, slots)
	if slots == nil {
		slots = []models.AppointmentSlot{}
	}
	c.state = StateLoaded
	c.slots = slots
	c.err = nil
	c.message = ""
	c.anomalies = checkSlots(c.view, slots)
	logger.Debug("Slots loaded", "view", c.view, "count", len(slots))
	return nil
}

func (c *Controller) failureMessage(err error) string {
	switch errors.KindOf(err) {
	case errors.KindUnauthenticated, errors.KindValidation:
		return errors.UserMessage(err)
	case errors.KindApplication:
		if msg := errors.UserMessage(err); msg != "" && msg != err.Error() {
			return msg
		}
	}
	if c.view == constants.ViewAvailable {
		return constants.MsgLoadSlotsFailed
	}
	return constants.MsgLoadApptsFailed
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Slots returns a copy of the collection in the order the service sent it
func (c *Controller) Slots() []models.AppointmentSlot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.AppointmentSlot(nil), c.slots...)
}

func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Anomalies returns the records from the last applied fetch that broke a slot invariant
func (c *Controller) Anomalies() []Anomaly {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Anomaly(nil), c.anomalies...)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		View:    c.view,
		State:   c.state,
		Slots:   append([]models.AppointmentSlot(nil), c.slots...),
		Err:     c.err,
		Message: c.message,
	}
}

// EmptyMessage is shown when a loaded view has nothing in it
func (c *Controller) EmptyMessage() string {
	if c.view == constants.ViewAvailable {
		return constants.MsgNoAvailableSlots
	}
	return constants.MsgNoAppointments
}
