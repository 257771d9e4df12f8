package response_test

import (
	"barber/shared/failure"
	"barber/transport/http/response"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	return body
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody map[string]any
	}{
		{
			name:     "validation",
			err:      failure.Validation("Tüm alanlar gereklidir", "firstName is required"),
			wantCode: http.StatusBadRequest,
			wantBody: map[string]any{"error": "Tüm alanlar gereklidir", "details": "firstName is required"},
		},
		{
			name:     "conflict",
			err:      failure.Conflict("Bu saatte zaten bir randevu var", "Lütfen başka bir saat seçin", "11:00, 11:30"),
			wantCode: http.StatusConflict,
			wantBody: map[string]any{
				"error":          "Bu saatte zaten bir randevu var",
				"details":        "Lütfen başka bir saat seçin",
				"availableSlots": "11:00, 11:30",
			},
		},
		{
			name:     "upstream with code",
			err:      failure.Upstream("Google Calendar API hatası", "Backend Error", 503),
			wantCode: http.StatusInternalServerError,
			wantBody: map[string]any{"error": "Google Calendar API hatası", "details": "Backend Error", "code": float64(503)},
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantBody: map[string]any{"error": "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			response.WithError(recorder, tt.err)

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantBody, decode(t, recorder))
		})
	}
}

func TestWithBodyAndMessage(t *testing.T) {
	recorder := httptest.NewRecorder()
	response.WithBody(recorder, http.StatusOK, map[string]any{"success": true})

	assert.Equal(t, map[string]any{"success": true}, decode(t, recorder))

	recorder = httptest.NewRecorder()
	response.WithJSON(recorder, http.StatusOK, map[string]string{"status": "ok"})

	assert.Equal(t, map[string]any{"data": map[string]any{"status": "ok"}}, decode(t, recorder))

	recorder = httptest.NewRecorder()
	response.WithRequestLimitExceeded(recorder)

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, map[string]any{"message": "REQUEST LIMIT EXCEEDED"}, decode(t, recorder))
}
