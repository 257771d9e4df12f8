package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"barber/config"
	"barber/infras/otel"
	"barber/internal/domains/booking/model"
	"barber/internal/domains/booking/slot"
	"barber/shared/constant"
	"barber/shared/timezone"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

const (
	listPageSize            = 250
	listOrderBy             = "startTime"
	otelCalendarIDAttribute = "calendar.id"
	otelEventIDAttribute    = "calendar.event_id"
)

// ErrNotConfigured is returned by every call when no calendar client was built.
var ErrNotConfigured = errors.New("calendar client is not configured")

type Calendar interface {
	Configured() bool
	CalendarID() string
	ListOverlapping(ctx context.Context, start, end time.Time) ([]model.Busy, error)
	Insert(ctx context.Context, event model.CalendarEvent) (model.CalendarEvent, error)
	Delete(ctx context.Context, eventID string) error
}

type repositoryImpl struct {
	service    *calendar.Service
	calendarID string
	otel       otel.Otel
}

func New(service *calendar.Service, cfg *config.Config, otel otel.Otel) Calendar {
	return &repositoryImpl{
		service:    service,
		calendarID: cfg.Google.CalendarID,
		otel:       otel,
	}
}

func (r *repositoryImpl) Configured() bool {
	return r.service != nil
}

func (r *repositoryImpl) CalendarID() string {
	return r.calendarID
}

// ListOverlapping returns the events that occupy any part of [start, end).
// Cancelled and free (transparent) events are skipped; all-day events count as busy.
func (r *repositoryImpl) ListOverlapping(ctx context.Context, start, end time.Time) (res []model.Busy, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ListOverlapping")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if r.service == nil {
		return nil, ErrNotConfigured
	}

	scope.SetAttribute(otelCalendarIDAttribute, r.calendarID)

	call := r.service.Events.List(r.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		ShowDeleted(false).
		OrderBy(listOrderBy).
		MaxResults(listPageSize)

	res = []model.Busy{}

	err = call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			if item.Status == model.EventStatusCancelled || item.Transparency == model.EventTransparencyFree {
				continue
			}

			busy, ok := toBusy(item)
			if !ok {
				log.Warn().Str("eventId", item.Id).Msg("skipping calendar event without a usable start or end")

				continue
			}

			if slot.Overlaps(start, end, busy.Start, busy.End) {
				res = append(res, busy)
			}
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("calendarId", r.calendarID).Msg("failed to list calendar events")

		return nil, fmt.Errorf("failed to list calendar events: %w", toCalendarError(err))
	}

	return res, nil
}

func (r *repositoryImpl) Insert(ctx context.Context, event model.CalendarEvent) (res model.CalendarEvent, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Insert")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if r.service == nil {
		return res, ErrNotConfigured
	}

	scope.SetAttribute(otelCalendarIDAttribute, r.calendarID)

	created, err := r.service.Events.Insert(r.calendarID, toGoogleEvent(event)).Context(ctx).Do()
	if err != nil {
		log.Error().Err(err).Str("calendarId", r.calendarID).Msg("failed to insert calendar event")

		return res, fmt.Errorf("failed to insert calendar event: %w", toCalendarError(err))
	}

	scope.SetAttribute(otelEventIDAttribute, created.Id)

	return fromGoogleEvent(created), nil
}

func (r *repositoryImpl) Delete(ctx context.Context, eventID string) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if r.service == nil {
		return ErrNotConfigured
	}

	scope.SetAttribute(otelCalendarIDAttribute, r.calendarID)
	scope.SetAttribute(otelEventIDAttribute, eventID)

	if err = r.service.Events.Delete(r.calendarID, eventID).Context(ctx).Do(); err != nil {
		log.Error().Err(err).Str("calendarId", r.calendarID).Str("eventId", eventID).Msg("failed to delete calendar event")

		return fmt.Errorf("failed to delete calendar event: %w", toCalendarError(err))
	}

	return nil
}

func toGoogleEvent(event model.CalendarEvent) *calendar.Event {
	overrides := make([]*calendar.EventReminder, len(event.Reminders))
	for i, reminder := range event.Reminders {
		overrides[i] = &calendar.EventReminder{Method: reminder.Method, Minutes: reminder.Minutes}
	}

	return &calendar.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start:       &calendar.EventDateTime{DateTime: event.Start, TimeZone: event.TimeZone},
		End:         &calendar.EventDateTime{DateTime: event.End, TimeZone: event.TimeZone},
		Reminders: &calendar.EventReminders{
			UseDefault:      false,
			Overrides:       overrides,
			ForceSendFields: []string{"UseDefault"},
		},
	}
}

func fromGoogleEvent(event *calendar.Event) model.CalendarEvent {
	res := model.CalendarEvent{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		HTMLLink:    event.HtmlLink,
		Status:      event.Status,
	}

	if event.Start != nil {
		res.Start = event.Start.DateTime
		res.TimeZone = event.Start.TimeZone
	}

	if event.End != nil {
		res.End = event.End.DateTime
	}

	if event.Reminders != nil {
		for _, override := range event.Reminders.Overrides {
			res.Reminders = append(res.Reminders, model.Reminder{Method: override.Method, Minutes: override.Minutes})
		}
	}

	return res
}

func toBusy(event *calendar.Event) (model.Busy, bool) {
	start, ok := parseEventTime(event.Start)
	if !ok {
		return model.Busy{}, false
	}

	end, ok := parseEventTime(event.End)
	if !ok {
		return model.Busy{}, false
	}

	return model.Busy{ID: event.Id, Start: start, End: end}, true
}

func parseEventTime(value *calendar.EventDateTime) (time.Time, bool) {
	if value == nil {
		return time.Time{}, false
	}

	if value.DateTime != constant.Empty {
		t, err := time.Parse(time.RFC3339, value.DateTime)

		return t, err == nil
	}

	if value.Date != constant.Empty {
		t, err := time.ParseInLocation(constant.DateLayout, value.Date, timezone.GetLocation())

		return t, err == nil
	}

	return time.Time{}, false
}

// toCalendarError normalizes googleapi failures; other errors pass through.
func toCalendarError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	res := &model.CalendarError{
		Status:  apiErr.Code,
		Message: apiErr.Message,
		Err:     err,
	}

	if len(apiErr.Errors) > 0 {
		res.Reason = apiErr.Errors[0].Reason

		if res.Message == constant.Empty {
			res.Message = apiErr.Errors[0].Message
		}
	}

	if res.Message == constant.Empty {
		res.Message = http.StatusText(apiErr.Code)
	}

	return res
}
