// Package booking runs the patient-facing book and cancel actions.
//
// The client never pre-checks whether a slot is already scheduled: slot state
// can change between fetch and submit, so every booking attempt is treated as
// racing other clients and the service's answer is final.
package booking

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/errors"
	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/session"
	"github.com/julianstephens/slotbook/internal/slots"
	"github.com/julianstephens/slotbook/internal/validation"
)

// State is where a workflow is in its current action
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateConfirmed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Gateway is the subset of the remote client the workflow needs
type Gateway interface {
	Book(ctx context.Context, req models.BookingRequest) (models.BookingConfirmation, error)
	Cancel(ctx context.Context, id models.SlotID) error
}

// Form is what the patient typed into the booking form
type Form struct {
	AppointmentID models.SlotID
	Name          string
	Email         string
}

// Workflow books and cancels appointments for the signed-in patient
type Workflow struct {
	gateway Gateway
	session session.Reader

	mu           sync.Mutex
	views        []slots.Reconciler
	state        State
	message      string
	err          error
	confirmation models.BookingConfirmation
	// lockedToken is the token that failed authentication. Submissions are
	// refused until the session holds a different one.
	locked      bool
	lockedToken string
}

func New(gw Gateway, sess session.Reader, views ...slots.Reconciler) *Workflow {
	return &Workflow{
		gateway: gw,
		session: sess,
		views:   views,
	}
}

// Attach registers views to reconcile after a successful action
func (w *Workflow) Attach(views ...slots.Reconciler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.views = append(w.views, views...)
}

// Book validates the form and session, then submits the booking.
// The returned error is classified; Message holds the user-facing text.
func (w *Workflow) Book(ctx context.Context, form Form) error {
	const op = "book"

	if err := w.begin(op, StateValidating); err != nil {
		return err
	}

	req := models.BookingRequest{
		AppointmentID: form.AppointmentID,
		Name:          strings.TrimSpace(form.Name),
		Email:         strings.TrimSpace(form.Email),
	}
	if err := validation.ValidateStruct(req); err != nil {
		return w.fail(errors.Validation(op, constants.MsgFillAllFields), constants.MsgFillAllFields)
	}

	token, _ := w.currentToken()
	if !session.WellFormedToken(token) {
		w.lock(token)
		return w.fail(errors.Unauthenticated(op, constants.MsgInvalidToken), constants.MsgInvalidToken)
	}

	w.setState(StateSubmitting)
	logger.Info("Submitting booking", "id", req.AppointmentID, "email", req.Email)

	conf, err := w.gateway.Book(ctx, req)
	if err != nil {
		if isAuthFailure(err) {
			w.lock(token)
			return w.fail(err, failureMessage(err, constants.MsgInvalidToken))
		}
		return w.fail(err, bookingMessage(err))
	}

	w.mu.Lock()
	w.confirmation = conf
	w.mu.Unlock()
	w.succeed(constants.MsgBookingConfirmed)
	logger.Info("Booking confirmed", "id", req.AppointmentID)

	w.reconcile(ctx, slots.MutationBook, req.AppointmentID)
	return nil
}

// Cancel releases a booked slot. There is no form to validate.
func (w *Workflow) Cancel(ctx context.Context, id models.SlotID) error {
	const op = "cancel"

	if err := w.begin(op, StateSubmitting); err != nil {
		return err
	}
	logger.Info("Submitting cancellation", "id", id)

	if err := w.gateway.Cancel(ctx, id); err != nil {
		if isAuthFailure(err) {
			token, _ := w.currentToken()
			w.lock(token)
			return w.fail(err, failureMessage(err, constants.MsgInvalidToken))
		}
		return w.fail(err, failureMessage(err, constants.MsgCancelFailed))
	}

	w.succeed(constants.MsgCancelConfirmed)
	logger.Info("Cancellation confirmed", "id", id)

	w.reconcile(ctx, slots.MutationCancel, id)
	return nil
}

// Reset returns a finished workflow to Idle
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateValidating || w.state == StateSubmitting {
		return
	}
	w.state = StateIdle
	w.message = ""
	w.err = nil
	w.confirmation = models.BookingConfirmation{}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Message is the user-facing outcome of the last action
func (w *Workflow) Message() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.message
}

func (w *Workflow) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Confirmation is what the service returned for the last successful booking
func (w *Workflow) Confirmation() models.BookingConfirmation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.confirmation
}

// NeedsReauth reports whether submissions are blocked until the user logs in again
func (w *Workflow) NeedsReauth() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lockedLocked()
}

func (w *Workflow) currentToken() (string, bool) {
	if w.session == nil {
		return "", false
	}
	return w.session.Token()
}

// lockedLocked reports the re-auth lock, releasing it once the token changed
func (w *Workflow) lockedLocked() bool {
	if !w.locked {
		return false
	}
	token, _ := w.currentToken()
	if token != w.lockedToken {
		w.locked = false
		w.lockedToken = ""
		return false
	}
	return true
}

// begin moves to the first state of an action, refusing overlapping
// submissions and submissions after an authentication failure.
func (w *Workflow) begin(op string, first State) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateValidating || w.state == StateSubmitting {
		return errors.Validation(op, "a submission is already in progress")
	}
	if w.lockedLocked() {
		err := errors.Unauthenticated(op, constants.MsgInvalidToken)
		w.state = StateFailed
		w.message = constants.MsgInvalidToken
		w.err = err
		return err
	}
	w.state = first
	w.message = ""
	w.err = nil
	w.confirmation = models.BookingConfirmation{}
	return nil
}

func (w *Workflow) setState(s State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = s
}

func (w *Workflow) lock(token string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.locked = true
	w.lockedToken = token
}

func (w *Workflow) fail(err error, message string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = StateFailed
	w.message = message
	w.err = err
	logger.Warn("Action failed", "error", err)
	return err
}

func (w *Workflow) succeed(message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = StateConfirmed
	w.message = message
}

// reconcile lets each attached view catch up. A view that fails to refetch
// reports it through its own state; the action itself already succeeded.
func (w *Workflow) reconcile(ctx context.Context, m slots.Mutation, id models.SlotID) {
	w.mu.Lock()
	views := append([]slots.Reconciler(nil), w.views...)
	w.mu.Unlock()

	for _, v := range views {
		if err := v.Reconcile(ctx, m, id); err != nil {
			logger.Warn("View reconcile failed", "mutation", m, "id", id, "error", err)
		}
	}
}

func isAuthFailure(err error) bool {
	if errors.Is(err, errors.KindUnauthenticated) {
		return true
	}
	return errors.StatusOf(err) == http.StatusUnauthorized
}

// bookingMessage prefers the service's own words. A bare 409 still reads as a conflict.
func bookingMessage(err error) string {
	if errors.StatusOf(err) == http.StatusConflict {
		return failureMessage(err, constants.MsgBookingConflict)
	}
	return failureMessage(err, constants.MsgBookingFailed)
}

func failureMessage(err error, fallback string) string {
	if errors.Is(err, errors.KindApplication) {
		if msg := errors.MessageOf(err); msg != "" {
			return msg
		}
	}
	return fallback
}
