package repository_test

import (
	"barber/config"
	"barber/infras/otel/mocks"
	"barber/internal/domains/booking/model"
	"barber/internal/domains/booking/repository"
	"barber/internal/domains/booking/slot"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const calendarID = "primary"

func newRepository(t *testing.T, handler http.HandlerFunc) repository.Calendar {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := calendar.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Google.CalendarID = calendarID

	return repository.New(svc, cfg, mocks.NewOtel())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func googleError(w http.ResponseWriter, status int, reason, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    status,
			"message": message,
			"errors":  []map[string]any{{"reason": reason, "message": message}},
		},
	})
}

func TestCalendar_NotConfigured(t *testing.T) {
	cfg := &config.Config{}
	repo := repository.New(nil, cfg, mocks.NewOtel())
	ctx := context.Background()

	assert.False(t, repo.Configured())

	_, err := repo.ListOverlapping(ctx, time.Now(), time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, repository.ErrNotConfigured)

	_, err = repo.Insert(ctx, model.CalendarEvent{})
	assert.ErrorIs(t, err, repository.ErrNotConfigured)

	assert.ErrorIs(t, repo.Delete(ctx, "evt"), repository.ErrNotConfigured)
}

func TestCalendar_Insert(t *testing.T) {
	var received map[string]any

	repo := newRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		writeJSON(w, http.StatusOK, map[string]any{
			"id":       "evt123",
			"htmlLink": "https://calendar.google.com/event?eid=evt123",
			"status":   "confirmed",
			"summary":  received["summary"],
			"start":    received["start"],
			"end":      received["end"],
		})
	})

	assert.True(t, repo.Configured())
	assert.Equal(t, calendarID, repo.CalendarID())

	booking := model.Booking{
		FirstName: "Ali",
		LastName:  "Veli",
		Phone:     "05551234567",
		Date:      slot.Date{Year: 2024, Month: 6, Day: 10},
		Clock:     slot.Clock{Hour: 10, Minute: 30},
	}
	event := model.NewCalendarEvent(booking, slot.Translate(booking.Date, booking.Clock, slot.DurationMinutes))

	created, err := repo.Insert(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, "evt123", created.ID)
	assert.Equal(t, "https://calendar.google.com/event?eid=evt123", created.HTMLLink)
	assert.Equal(t, "2024-06-10T10:30:00+03:00", created.Start)
	assert.Equal(t, "2024-06-10T11:00:00+03:00", created.End)

	assert.Equal(t, "Ali Veli - 05551234567", received["summary"])
	assert.Equal(t, map[string]any{"dateTime": "2024-06-10T10:30:00+03:00", "timeZone": "Europe/Istanbul"}, received["start"])
	assert.Equal(t, map[string]any{"dateTime": "2024-06-10T11:00:00+03:00", "timeZone": "Europe/Istanbul"}, received["end"])

	reminders, ok := received["reminders"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, reminders["useDefault"])
	assert.Equal(t, []any{
		map[string]any{"method": "email", "minutes": float64(1440)},
		map[string]any{"method": "popup", "minutes": float64(60)},
	}, reminders["overrides"])
}

func TestCalendar_InsertErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		reason     string
		message    string
		wantStatus int
	}{
		{name: "not found", status: http.StatusNotFound, reason: "notFound", message: "Not Found", wantStatus: 404},
		{name: "forbidden", status: http.StatusForbidden, reason: "forbidden", message: "Forbidden", wantStatus: 403},
		{name: "backend", status: http.StatusServiceUnavailable, reason: "backendError", message: "Backend Error", wantStatus: 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepository(t, func(w http.ResponseWriter, _ *http.Request) {
				googleError(w, tt.status, tt.reason, tt.message)
			})

			_, err := repo.Insert(context.Background(), model.CalendarEvent{Summary: "x"})
			require.Error(t, err)

			var calErr *model.CalendarError
			require.True(t, errors.As(err, &calErr))
			assert.Equal(t, tt.wantStatus, calErr.Status)
			assert.Equal(t, tt.reason, calErr.Reason)
			assert.Equal(t, tt.message, calErr.Message)
		})
	}
}

func TestCalendar_ListOverlapping(t *testing.T) {
	start := time.Date(2024, 6, 10, 10, 30, 0, 0, time.FixedZone("+03:00", 3*60*60))
	end := start.Add(30 * time.Minute)

	repo := newRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)

		query := r.URL.Query()
		assert.Equal(t, "2024-06-10T10:30:00+03:00", query.Get("timeMin"))
		assert.Equal(t, "2024-06-10T11:00:00+03:00", query.Get("timeMax"))
		assert.Equal(t, "true", query.Get("singleEvents"))

		if query.Get("pageToken") == "" {
			writeJSON(w, http.StatusOK, map[string]any{
				"items": []map[string]any{
					{
						"id":    "overlap",
						"start": map[string]any{"dateTime": "2024-06-10T10:00:00+03:00"},
						"end":   map[string]any{"dateTime": "2024-06-10T10:45:00+03:00"},
					},
					{
						"id":     "cancelled",
						"status": "cancelled",
						"start":  map[string]any{"dateTime": "2024-06-10T10:30:00+03:00"},
						"end":    map[string]any{"dateTime": "2024-06-10T11:00:00+03:00"},
					},
					{
						"id":           "free",
						"transparency": "transparent",
						"start":        map[string]any{"dateTime": "2024-06-10T10:30:00+03:00"},
						"end":          map[string]any{"dateTime": "2024-06-10T11:00:00+03:00"},
					},
				},
				"nextPageToken": "page2",
			})

			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"items": []map[string]any{
				{
					"id":    "allday",
					"start": map[string]any{"date": "2024-06-10"},
					"end":   map[string]any{"date": "2024-06-11"},
				},
				{
					"id":    "adjacent",
					"start": map[string]any{"dateTime": "2024-06-10T11:00:00+03:00"},
					"end":   map[string]any{"dateTime": "2024-06-10T11:30:00+03:00"},
				},
			},
		})
	})

	busy, err := repo.ListOverlapping(context.Background(), start, end)
	require.NoError(t, err)

	ids := make([]string, len(busy))
	for i, b := range busy {
		ids[i] = b.ID
	}

	assert.Equal(t, []string{"overlap", "allday"}, ids)
}

func TestCalendar_ListOverlappingError(t *testing.T) {
	repo := newRepository(t, func(w http.ResponseWriter, _ *http.Request) {
		googleError(w, http.StatusForbidden, "rateLimitExceeded", "Rate Limit Exceeded")
	})

	_, err := repo.ListOverlapping(context.Background(), time.Now(), time.Now().Add(time.Hour))

	var calErr *model.CalendarError
	require.True(t, errors.As(err, &calErr))
	assert.Equal(t, "rateLimitExceeded", calErr.Reason)
}

func TestCalendar_Delete(t *testing.T) {
	repo := newRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)

		if r.URL.Path == "/calendars/primary/events/gone" {
			googleError(w, http.StatusGone, "deleted", "Resource has been deleted")

			return
		}

		assert.Equal(t, "/calendars/primary/events/evt123", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, repo.Delete(context.Background(), "evt123"))

	err := repo.Delete(context.Background(), "gone")

	var calErr *model.CalendarError
	require.True(t, errors.As(err, &calErr))
	assert.Equal(t, http.StatusGone, calErr.Status)
}
