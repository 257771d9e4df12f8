package middleware_test

import (
	"barber/config"
	"barber/infras/otel/mocks"
	"barber/shared/cache"
	cacheMocks "barber/shared/cache/mocks"
	"barber/transport/http/middleware"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAPIKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.APIKey = "secret"

	handler := middleware.NewAuthMiddleware(mocks.NewOtel(), cfg).APIKey(ok)

	tests := []struct {
		name     string
		key      string
		wantCode int
	}{
		{name: "valid", key: "secret", wantCode: http.StatusOK},
		{name: "missing", key: "", wantCode: http.StatusUnauthorized},
		{name: "wrong", key: "guess", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/book/evt123", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, req)

			assert.Equal(t, tt.wantCode, recorder.Code)
		})
	}
}

func TestAPIKey_NotConfigured(t *testing.T) {
	handler := middleware.NewAuthMiddleware(mocks.NewOtel(), &config.Config{}).APIKey(ok)

	req := httptest.NewRequest(http.MethodDelete, "/api/book/evt123", nil)
	req.Header.Set("X-API-Key", "")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	handler := middleware.NewAppMiddleware(mocks.NewOtel(), &config.Config{}, mockCache).RateLimit()(ok)

	for range 5 {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/book", nil))
		assert.Equal(t, http.StatusOK, recorder.Code)
	}
}

func TestRateLimit_InMemory(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Enabled().Return(false).AnyTimes()

	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 3600

	handler := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, mockCache).RateLimit()(ok)

	codes := make([]int, 0, 3)

	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/book", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)
		codes = append(codes, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/api/book", nil)
	other.Header.Set("X-Real-IP", "198.51.100.1")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, other)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRateLimit_InMemoryIgnoresUserAgent(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Enabled().Return(false).AnyTimes()

	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 3600

	handler := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, mockCache).RateLimit()(ok)

	allowed := 0

	for i := range 50 {
		req := httptest.NewRequest(http.MethodPost, "/api/book", nil)
		req.Header.Set("X-Real-IP", "198.51.100.9")
		req.Header.Set("User-Agent", fmt.Sprintf("bot-%d", i))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code == http.StatusOK {
			allowed++
		}
	}

	assert.Equal(t, 2, allowed)
}

func TestRateLimit_Redis(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	const key = "limiter:203.0.113.7"

	tests := []struct {
		name      string
		setupMock func(mockCache *cacheMocks.MockRedisCache)
		wantCode  int
	}{
		{
			name: "first request",
			setupMock: func(mockCache *cacheMocks.MockRedisCache) {
				mockCache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(cache.Nil)
				mockCache.EXPECT().Save(gomock.Any(), key, 1, 60).Return(nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "over the limit",
			setupMock: func(mockCache *cacheMocks.MockRedisCache) {
				mockCache.EXPECT().Get(gomock.Any(), key, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						*value.(*int) = 2

						return nil
					})
			},
			wantCode: http.StatusTooManyRequests,
		},
		{
			name: "cache failure lets the request through",
			setupMock: func(mockCache *cacheMocks.MockRedisCache) {
				mockCache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(errors.New("redis down"))
			},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockCache := cacheMocks.NewMockRedisCache(ctrl)
			mockCache.EXPECT().Enabled().Return(true).AnyTimes()
			tt.setupMock(mockCache)

			handler := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, mockCache).RateLimit()(ok)

			req := httptest.NewRequest(http.MethodPost, "/api/book", nil)
			req.Header.Set("X-Forwarded-For", "203.0.113.7")
			req.Header.Del("User-Agent")

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, req)

			assert.Equal(t, tt.wantCode, recorder.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.CORS.Enable = true
	cfg.App.CORS.AllowedOrigins = []string{"https://barber.example"}

	handler := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, nil).CORS()(ok)

	req := httptest.NewRequest(http.MethodOptions, "/api/book", nil)
	req.Header.Set("Origin", "https://barber.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, "https://barber.example", recorder.Header().Get("Access-Control-Allow-Origin"))
}

func TestTracing(t *testing.T) {
	handler := middleware.NewAppMiddleware(mocks.NewOtel(), &config.Config{}, nil).Tracing(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
	)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusTeapot, recorder.Code)
}
