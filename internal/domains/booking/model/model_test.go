package model_test

import (
	"barber/internal/domains/booking/model"
	"barber/internal/domains/booking/slot"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCalendarEvent(t *testing.T) {
	booking := model.Booking{
		FirstName: "Ali",
		LastName:  "Veli",
		Phone:     "05551234567",
		Date:      slot.Date{Year: 2024, Month: 6, Day: 10},
		Clock:     slot.Clock{Hour: 10, Minute: 30},
	}

	event := model.NewCalendarEvent(booking, slot.Translate(booking.Date, booking.Clock, slot.DurationMinutes))

	assert.Equal(t, "Ali Veli - 05551234567", event.Summary)
	assert.Contains(t, event.Description, "Müşteri: Ali Veli")
	assert.Contains(t, event.Description, "Telefon: 05551234567")
	assert.Contains(t, event.Description, "Tarih: 2024-06-10")
	assert.Contains(t, event.Description, "Saat: 10:30")
	assert.Equal(t, "2024-06-10T10:30:00+03:00", event.Start)
	assert.Equal(t, "2024-06-10T11:00:00+03:00", event.End)
	assert.Equal(t, "Europe/Istanbul", event.TimeZone)
	assert.Equal(t, []model.Reminder{
		{Method: "email", Minutes: 1440},
		{Method: "popup", Minutes: 60},
	}, event.Reminders)
}

func TestIsMockID(t *testing.T) {
	assert.True(t, model.IsMockID("mock-0190a1b2"))
	assert.False(t, model.IsMockID("mock-"))
	assert.False(t, model.IsMockID("abc123"))
}

func TestCalendarError(t *testing.T) {
	cause := errors.New("transport")
	err := &model.CalendarError{Status: 403, Message: "Rate Limit Exceeded", Reason: "rateLimitExceeded", Err: cause}

	assert.Equal(t, "calendar error 403 (rateLimitExceeded): Rate Limit Exceeded", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "calendar error 404: Not Found", (&model.CalendarError{Status: 404, Message: "Not Found"}).Error())
}
