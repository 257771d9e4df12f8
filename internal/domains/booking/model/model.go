package model

import (
	"barber/internal/domains/booking/slot"
	"fmt"
	"strings"
	"time"
)

const (
	EntityName = "booking"

	EventStatusCancelled  = "cancelled"
	EventTransparencyFree = "transparent"
	ReminderMethodEmail   = "email"
	ReminderMethodPopup   = "popup"
	ReminderEmailMinutes  = 1440
	ReminderPopupMinutes  = 60
	MessageTypeCreated    = "booking.created"
	MessageTypeCancelled  = "booking.cancelled"
	MockEventIDPrefix     = "mock-"
)

// Booking is a validated customer request in shop-local components.
type Booking struct {
	FirstName string
	LastName  string
	Phone     string
	Date      slot.Date
	Clock     slot.Clock
}

// FullName is the customer's display name.
func (b Booking) FullName() string {
	return b.FirstName + " " + b.LastName
}

type Reminder struct {
	Method  string
	Minutes int64
}

// CalendarEvent is the payload written to, and read back from, the calendar.
type CalendarEvent struct {
	ID          string
	Summary     string
	Description string
	Start       string
	End         string
	TimeZone    string
	Reminders   []Reminder
	HTMLLink    string
	Status      string
}

// NewCalendarEvent builds the appointment event for booking over interval.
func NewCalendarEvent(booking Booking, interval slot.Interval) CalendarEvent {
	return CalendarEvent{
		Summary: fmt.Sprintf("%s - %s", booking.FullName(), booking.Phone),
		Description: fmt.Sprintf("Müşteri: %s\nTelefon: %s\nTarih: %s\nSaat: %s",
			booking.FullName(), booking.Phone, booking.Date, booking.Clock),
		Start:    interval.Start.String(),
		End:      interval.End.String(),
		TimeZone: interval.TimeZone,
		Reminders: []Reminder{
			{Method: ReminderMethodEmail, Minutes: ReminderEmailMinutes},
			{Method: ReminderMethodPopup, Minutes: ReminderPopupMinutes},
		},
	}
}

// Busy is an existing event occupying part of the calendar.
type Busy struct {
	ID    string
	Start time.Time
	End   time.Time
}

// CalendarError is a normalized calendar backend failure.
type CalendarError struct {
	Status  int
	Message string
	Reason  string
	Err     error
}

func (e *CalendarError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("calendar error %d (%s): %s", e.Status, e.Reason, e.Message)
	}

	return fmt.Sprintf("calendar error %d: %s", e.Status, e.Message)
}

func (e *CalendarError) Unwrap() error {
	return e.Err
}

type CheckStatus string

const (
	CheckedNoConflict CheckStatus = "no_conflict"
	CheckedConflict   CheckStatus = "conflict"
	CheckSkipped      CheckStatus = "skipped"
)

// ConflictCheck is the result of looking for overlapping events.
type ConflictCheck struct {
	Status CheckStatus
	Reason string
	Busy   []Busy
}

type Mode string

const (
	ModeCreated Mode = "created"
	ModeMock    Mode = "mock"
)

// Reservation is the successful outcome of a reserve call.
type Reservation struct {
	Mode     Mode
	EventID  string
	HTMLLink string
	Booking  Booking
	Interval slot.Interval
	Check    ConflictCheck
}

// IsMockID reports whether id was synthesized locally.
func IsMockID(id string) bool {
	return len(id) > len(MockEventIDPrefix) && strings.HasPrefix(id, MockEventIDPrefix)
}

// BookingMessage is the kafka payload of a booking lifecycle event.
// It never carries the customer phone number.
type BookingMessage struct {
	Type       string    `json:"type"`
	EventID    string    `json:"eventId"`
	CalendarID string    `json:"calendarId"`
	Customer   string    `json:"customer,omitempty"`
	Start      string    `json:"start,omitempty"`
	End        string    `json:"end,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
