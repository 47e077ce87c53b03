package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/models"
)

// ListAvailable returns the open slots. No token is required.
func (c *Client) ListAvailable(ctx context.Context) ([]models.AppointmentSlot, error) {
	var slots []models.AppointmentSlot
	err := c.call(ctx, request{
		op:     "list available",
		method: http.MethodGet,
		path:   constants.PathAvailable,
	}, &slots)
	return slots, err
}

// ListAll returns every slot, booked or not
func (c *Client) ListAll(ctx context.Context) ([]models.AppointmentSlot, error) {
	var slots []models.AppointmentSlot
	err := c.call(ctx, request{
		op:     "list all",
		method: http.MethodGet,
		path:   constants.PathAdminAll,
		auth:   true,
	}, &slots)
	return slots, err
}

// ListMine returns the slots booked under email
func (c *Client) ListMine(ctx context.Context, email string) ([]models.AppointmentSlot, error) {
	var slots []models.AppointmentSlot
	err := c.call(ctx, request{
		op:     "list mine",
		method: http.MethodGet,
		path:   constants.PathUserAppts + url.PathEscape(email),
		auth:   true,
	}, &slots)
	return slots, err
}

func (c *Client) Get(ctx context.Context, id models.SlotID) (models.AppointmentSlot, error) {
	var slot models.AppointmentSlot
	err := c.call(ctx, request{
		op:     "get appointment",
		method: http.MethodGet,
		path:   constants.PathGetAppointment + url.PathEscape(id.String()),
		auth:   true,
	}, &slot)
	return slot, err
}

// Create adds a new unscheduled slot
func (c *Client) Create(ctx context.Context, in models.SlotInput) (models.AppointmentSlot, error) {
	var slot models.AppointmentSlot
	err := c.call(ctx, request{
		op:     "create appointment",
		method: http.MethodPost,
		path:   constants.PathAdminAdd,
		auth:   true,
		body:   in,
	}, &slot)
	return slot, err
}

// Update replaces the date and times of an existing slot
func (c *Client) Update(ctx context.Context, id models.SlotID, in models.SlotInput) (models.AppointmentSlot, error) {
	var slot models.AppointmentSlot
	err := c.call(ctx, request{
		op:     "update appointment",
		method: http.MethodPut,
		path:   constants.PathAdminUpdate + url.PathEscape(id.String()),
		auth:   true,
		body:   in,
	}, &slot)
	return slot, err
}

func (c *Client) Delete(ctx context.Context, id models.SlotID) error {
	return c.call(ctx, request{
		op:     "delete appointment",
		method: http.MethodDelete,
		path:   constants.PathAdminDelete + url.PathEscape(id.String()),
		auth:   true,
	}, nil)
}

// Book reserves a slot. The service may answer with the booked slot or with
// a plain confirmation message; both are returned as-is.
func (c *Client) Book(ctx context.Context, req models.BookingRequest) (models.BookingConfirmation, error) {
	body, err := c.send(ctx, request{
		op:     "book",
		method: http.MethodPost,
		path:   constants.PathBook,
		auth:   true,
		body:   req,
	})
	if err != nil {
		return models.BookingConfirmation{}, err
	}

	text := strings.TrimSpace(string(body))
	if strings.HasPrefix(text, "{") {
		var slot models.AppointmentSlot
		if err := json.Unmarshal([]byte(text), &slot); err == nil && slot.ID != "" {
			return models.BookingConfirmation{Slot: &slot}, nil
		}
	}
	return models.BookingConfirmation{Message: text}, nil
}

func (c *Client) Cancel(ctx context.Context, id models.SlotID) error {
	return c.call(ctx, request{
		op:     "cancel",
		method: http.MethodPost,
		path:   constants.PathCancel + url.PathEscape(id.String()),
		auth:   true,
	}, nil)
}
