package dto

import (
	"barber/internal/domains/booking/model"
	"barber/internal/domains/booking/slot"
	"strings"
)

type ReserveRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"     example:"Ali"`
	LastName  string `json:"lastName"  validate:"required,max=100"     example:"Veli"`
	Phone     string `json:"phone"     validate:"required,max=20"      example:"05551234567"`
	Date      string `json:"date"      validate:"required,date"        example:"2024-06-10"`
	Time      string `json:"time"      validate:"required,clock"       example:"10:30"`
}

// Normalize trims surrounding whitespace from every field.
func (r *ReserveRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Date = strings.TrimSpace(r.Date)
	r.Time = strings.TrimSpace(r.Time)
}

// HasMissingField reports whether any of the five fields is empty.
func (r *ReserveRequest) HasMissingField() bool {
	return r.FirstName == "" || r.LastName == "" || r.Phone == "" || r.Date == "" || r.Time == ""
}

func (r *ReserveRequest) ToModel() (model.Booking, error) {
	date, err := slot.ParseDate(r.Date)
	if err != nil {
		return model.Booking{}, err
	}

	clock, err := slot.ParseClock(r.Time)
	if err != nil {
		return model.Booking{}, err
	}

	return model.Booking{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Date:      date,
		Clock:     clock,
	}, nil
}

type BookingResponse struct {
	ID        string `json:"id"        example:"mock-0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b"`
	FirstName string `json:"firstName" example:"Ali"`
	LastName  string `json:"lastName"  example:"Veli"`
	Phone     string `json:"phone"     example:"05551234567"`
	Date      string `json:"date"      example:"2024-06-10"`
	Time      string `json:"time"      example:"10:30"`
}

func (r *BookingResponse) FromModel(id string, booking model.Booking) {
	r.ID = id
	r.FirstName = booking.FirstName
	r.LastName = booking.LastName
	r.Phone = booking.Phone
	r.Date = booking.Date.String()
	r.Time = booking.Clock.String()
}

type ReserveResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	EventID string          `json:"eventId,omitempty"`
	Mock    bool            `json:"mock,omitempty"`
	Booking BookingResponse `json:"booking"`
}

const (
	MessageCreated = "Randevu başarıyla oluşturuldu"
	MessageMock    = MessageCreated + " (Mock - Google Calendar credentials not configured)"
)

func (r *ReserveResponse) FromModel(reservation model.Reservation) {
	r.Success = true
	r.Booking.FromModel(reservation.EventID, reservation.Booking)

	if reservation.Mode == model.ModeMock {
		r.Message = MessageMock
		r.Mock = true

		return
	}

	r.Message = MessageCreated
	r.EventID = reservation.EventID
}

type SlotsResponse struct {
	Date   string   `json:"date"   example:"2024-06-10"`
	Closed bool     `json:"closed"`
	Slots  []string `json:"slots"`
	Mock   bool     `json:"mock,omitempty"`
}

func (r *SlotsResponse) FromModel(date slot.Date, free []slot.Clock, mock bool) {
	r.Date = date.String()
	r.Closed = date.Weekday() == slot.ClosedDay
	r.Mock = mock

	r.Slots = make([]string, len(free))
	for i, clock := range free {
		r.Slots[i] = clock.String()
	}
}
