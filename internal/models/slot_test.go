package models

import (
	"testing"

	json "github.com/goccy/go-json"
)

func TestAppointmentSlotUnmarshal(t *testing.T) {
	data := []byte(`[
		{"id": 1, "date": [2024, 5, 10], "startTime": [9, 0], "endTime": [9, 30], "scheduled": false, "user": null},
		{"id": "abc", "date": "2024-05-10", "startTime": [9], "endTime": {"h": 9}, "scheduled": true,
		 "user": {"name": "A", "email": "a@x.com"}}
	]`)

	var slots []AppointmentSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}

	first := slots[0]
	if first.ID != "1" {
		t.Errorf("numeric id decoded as %q, want %q", first.ID, "1")
	}
	if len(first.Date) != 3 || first.Date[1] != 5 {
		t.Errorf("date = %v, want [2024 5 10]", first.Date)
	}
	if first.User != nil {
		t.Errorf("user = %+v, want nil", first.User)
	}

	second := slots[1]
	if second.ID != "abc" {
		t.Errorf("string id decoded as %q, want %q", second.ID, "abc")
	}
	if second.Date != nil {
		t.Errorf("non-array date should decode to nil, got %v", second.Date)
	}
	if len(second.StartTime) != 1 {
		t.Errorf("short time should be kept as-is, got %v", second.StartTime)
	}
	if second.EndTime != nil {
		t.Errorf("object time should decode to nil, got %v", second.EndTime)
	}
	if second.User == nil || second.User.Email != "a@x.com" {
		t.Errorf("user = %+v, want a@x.com", second.User)
	}
}

func TestSlotIDRejectsGarbage(t *testing.T) {
	var slot AppointmentSlot
	if err := json.Unmarshal([]byte(`{"id": true}`), &slot); err == nil {
		t.Error("expected error for boolean id")
	}
}

func TestAppointmentSlotConsistent(t *testing.T) {
	tests := []struct {
		name string
		slot AppointmentSlot
		want bool
	}{
		{name: "open slot", slot: AppointmentSlot{Scheduled: false}, want: true},
		{name: "booked slot", slot: AppointmentSlot{Scheduled: true, User: &Patient{Name: "A"}}, want: true},
		{name: "booked without user", slot: AppointmentSlot{Scheduled: true}, want: false},
		{name: "open with user", slot: AppointmentSlot{Scheduled: false, User: &Patient{Name: "A"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.slot.Consistent(); got != tt.want {
				t.Errorf("Consistent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppointmentSlotAdminColumns(t *testing.T) {
	open := AppointmentSlot{}
	if open.Status() != "Pending" || open.UserName() != "-" || open.UserEmail() != "-" {
		t.Errorf("open slot columns = %q %q %q", open.Status(), open.UserName(), open.UserEmail())
	}

	booked := AppointmentSlot{Scheduled: true, User: &Patient{Name: "A", Email: "a@x.com"}}
	if booked.Status() != "Scheduled" || booked.UserName() != "A" || booked.UserEmail() != "a@x.com" {
		t.Errorf("booked slot columns = %q %q %q", booked.Status(), booked.UserName(), booked.UserEmail())
	}
}

func TestSettingsRoundTripDefaults(t *testing.T) {
	s, err := MapToSettings(map[string]string{"request_timeout_sec": "abc"})
	if err == nil {
		t.Errorf("expected parse error, got settings %+v", s)
	}

	var empty Settings
	ApplyDefaultSettings(&empty)
	if empty.BackendURL == "" || empty.RequestTimeoutSec == 0 || empty.SessionBackend == "" {
		t.Errorf("ApplyDefaultSettings() left gaps: %+v", empty)
	}
	if err := ValidateSessionBackend(empty.SessionBackend); err != nil {
		t.Errorf("default session backend invalid: %v", err)
	}
	if err := ValidateSessionBackend("postgres"); err == nil {
		t.Error("expected error for unknown session backend")
	}
}
