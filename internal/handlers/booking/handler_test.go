package booking_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"barber/config"
	"barber/infras/otel/mocks"
	bookingMocks "barber/internal/domains/booking/mocks"
	"barber/internal/domains/booking/model"
	"barber/internal/domains/booking/model/dto"
	"barber/internal/domains/booking/slot"
	"barber/internal/handlers/booking"
	"barber/shared/failure"
	"barber/transport/http/middleware"
)

const apiKey = "operator-key"

func newRouter(t *testing.T) (http.Handler, *bookingMocks.MockBooking) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockService := bookingMocks.NewMockBooking(ctrl)

	cfg := &config.Config{}
	cfg.App.APIKey = apiKey

	handler := booking.New(mockService, middleware.NewAuthMiddleware(mocks.NewOtel(), cfg), mocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/api", handler.Router)

	return router, mockService
}

func serve(router http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var body map[string]any
	_ = json.Unmarshal(recorder.Body.Bytes(), &body)

	return recorder, body
}

const aliVeli = `{"firstName":"Ali","lastName":"Veli","phone":"05551234567","date":"2024-06-10","time":"10:30"}`

func reservation(mode model.Mode, id string) model.Reservation {
	return model.Reservation{
		Mode:    mode,
		EventID: id,
		Booking: model.Booking{
			FirstName: "Ali",
			LastName:  "Veli",
			Phone:     "05551234567",
			Date:      slot.Date{Year: 2024, Month: 6, Day: 10},
			Clock:     slot.Clock{Hour: 10, Minute: 30},
		},
	}
}

func TestHandler_Reserve(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		setupMock func(mockService *bookingMocks.MockBooking)
		wantCode  int
		wantBody  map[string]any
	}{
		{
			name: "created",
			body: aliVeli,
			setupMock: func(mockService *bookingMocks.MockBooking) {
				mockService.EXPECT().
					Reserve(gomock.Any(), dto.ReserveRequest{
						FirstName: "Ali",
						LastName:  "Veli",
						Phone:     "05551234567",
						Date:      "2024-06-10",
						Time:      "10:30",
					}).
					Return(reservation(model.ModeCreated, "evt123"), nil)
			},
			wantCode: http.StatusOK,
			wantBody: map[string]any{
				"success": true,
				"message": "Randevu başarıyla oluşturuldu",
				"eventId": "evt123",
				"booking": map[string]any{
					"id":        "evt123",
					"firstName": "Ali",
					"lastName":  "Veli",
					"phone":     "05551234567",
					"date":      "2024-06-10",
					"time":      "10:30",
				},
			},
		},
		{
			name: "mock",
			body: aliVeli,
			setupMock: func(mockService *bookingMocks.MockBooking) {
				mockService.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(reservation(model.ModeMock, "mock-1"), nil)
			},
			wantCode: http.StatusOK,
			wantBody: map[string]any{
				"success": true,
				"message": "Randevu başarıyla oluşturuldu (Mock - Google Calendar credentials not configured)",
				"mock":    true,
				"booking": map[string]any{
					"id":        "mock-1",
					"firstName": "Ali",
					"lastName":  "Veli",
					"phone":     "05551234567",
					"date":      "2024-06-10",
					"time":      "10:30",
				},
			},
		},
		{
			name:      "malformed body",
			body:      `{"firstName":`,
			setupMock: func(*bookingMocks.MockBooking) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "missing field",
			body: `{"firstName":"Ali"}`,
			setupMock: func(mockService *bookingMocks.MockBooking) {
				mockService.EXPECT().Reserve(gomock.Any(), gomock.Any()).
					Return(model.Reservation{}, failure.Validation("Tüm alanlar gereklidir", "lastName is required"))
			},
			wantCode: http.StatusBadRequest,
			wantBody: map[string]any{"error": "Tüm alanlar gereklidir", "details": "lastName is required"},
		},
		{
			name: "conflict",
			body: aliVeli,
			setupMock: func(mockService *bookingMocks.MockBooking) {
				mockService.EXPECT().Reserve(gomock.Any(), gomock.Any()).
					Return(model.Reservation{}, failure.Conflict("Bu saatte zaten bir randevu var", "Lütfen başka bir saat seçin", "11:00, 11:30"))
			},
			wantCode: http.StatusConflict,
			wantBody: map[string]any{
				"error":          "Bu saatte zaten bir randevu var",
				"details":        "Lütfen başka bir saat seçin",
				"availableSlots": "11:00, 11:30",
			},
		},
		{
			name: "calendar not shared",
			body: aliVeli,
			setupMock: func(mockService *bookingMocks.MockBooking) {
				mockService.EXPECT().Reserve(gomock.Any(), gomock.Any()).
					Return(model.Reservation{}, failure.CalendarNotFound("Randevu oluşturulurken bir hata oluştu", "Please share the calendar", 404))
			},
			wantCode: http.StatusInternalServerError,
			wantBody: map[string]any{
				"error":   "Randevu oluşturulurken bir hata oluştu",
				"details": "Please share the calendar",
				"code":    float64(404),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockService := newRouter(t)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/book", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			recorder, body := serve(router, req)

			assert.Equal(t, tt.wantCode, recorder.Code)

			if tt.wantBody != nil {
				assert.Equal(t, tt.wantBody, body)
			}
		})
	}
}

func TestHandler_GetSlots(t *testing.T) {
	router, mockService := newRouter(t)

	mockService.EXPECT().AvailableSlots(gomock.Any(), "2024-06-10").Return(dto.SlotsResponse{
		Date:  "2024-06-10",
		Slots: []string{"10:30", "11:00"},
	}, nil)

	recorder, body := serve(router, httptest.NewRequest(http.MethodGet, "/api/slots?date=2024-06-10", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, map[string]any{
		"date":   "2024-06-10",
		"closed": false,
		"slots":  []any{"10:30", "11:00"},
	}, body)
}

func TestHandler_Cancel(t *testing.T) {
	t.Run("requires api key", func(t *testing.T) {
		router, _ := newRouter(t)

		recorder, _ := serve(router, httptest.NewRequest(http.MethodDelete, "/api/book/evt123", nil))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("cancelled", func(t *testing.T) {
		router, mockService := newRouter(t)

		mockService.EXPECT().Cancel(gomock.Any(), "evt123").Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/book/evt123", nil)
		req.Header.Set("X-API-Key", apiKey)

		recorder, body := serve(router, req)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "Booking cancelled successfully", body["message"])
	})

	t.Run("not found", func(t *testing.T) {
		router, mockService := newRouter(t)

		mockService.EXPECT().
			Cancel(gomock.Any(), "missing").
			DoAndReturn(func(context.Context, string) error { return failure.NotFound("booking not found") })

		req := httptest.NewRequest(http.MethodDelete, "/api/book/missing", nil)
		req.Header.Set("X-API-Key", apiKey)

		recorder, body := serve(router, req)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, "booking not found", body["error"])
	})
}
