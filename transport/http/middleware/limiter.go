package middleware

import (
	"barber/shared"
	"barber/shared/cache"
	"barber/shared/constant"
	"barber/transport/http/response"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	cacheKeyRateLimit = "limiter"

	defaultMaxRequests   = 60
	defaultWindowSeconds = 60
)

// limiterStore keeps one token bucket per client IP for instances running
// without redis. Buckets idle for longer than the window are swept on get,
// since a bucket that has been idle that long has fully refilled anyway.
type limiterStore struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(now func() time.Time) *limiterStore {
	return &limiterStore{
		limiters:  make(map[string]*limiterEntry),
		lastSweep: now(),
		now:       now,
	}
}

func (s *limiterStore) get(ip string, maxReqs, windowSecs int) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	window := time.Duration(windowSecs) * time.Second

	if now.Sub(s.lastSweep) >= window {
		for key, entry := range s.limiters {
			if now.Sub(entry.lastSeen) >= window {
				delete(s.limiters, key)
			}
		}

		s.lastSweep = now
	}

	entry, ok := s.limiters[ip]
	if !ok {
		every := window / time.Duration(maxReqs)
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(every), maxReqs)}
		s.limiters[ip] = entry
	}

	entry.lastSeen = now

	return entry.limiter
}

func (s *limiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.limiters)
}

func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.config.App.RateLimiter.Enable {
				next.ServeHTTP(w, r)

				return
			}

			maxReqs := shared.Coalesce(a.config.App.RateLimiter.MaxRequests, defaultMaxRequests)
			windowSecs := shared.Coalesce(a.config.App.RateLimiter.WindowSeconds, defaultWindowSeconds)

			clientIP := a.getClientIP(r)
			cacheKey := shared.BuildCacheKey(cacheKeyRateLimit, clientIP)

			if !a.cache.Enabled() {
				if !a.limiters.get(clientIP, maxReqs, windowSecs).Allow() {
					log.Warn().Str("ip", clientIP).Msg("rate limit exceeded")
					response.WithRequestLimitExceeded(w)

					return
				}

				w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(maxReqs))
				w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(windowSecs))

				next.ServeHTTP(w, r)

				return
			}

			var count int
			err := a.cache.Get(r.Context(), cacheKey, &count)

			if err != nil {
				if errors.Is(err, cache.Nil) {
					count = 1
				} else {
					// If cache fails, allow the request to continue
					next.ServeHTTP(w, r)

					return
				}
			} else {
				count++
			}

			if count > maxReqs {
				log.Warn().Str("ip", clientIP).Msg("rate limit exceeded")
				response.WithRequestLimitExceeded(w)

				return
			}

			err = a.cache.Save(r.Context(), cacheKey, count, windowSecs)
			if err != nil {
				// If cache save fails, allow the request to continue
				next.ServeHTTP(w, r)

				return
			}

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(maxReqs))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, maxReqs-count)))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(windowSecs))

			next.ServeHTTP(w, r)
		})
	}
}

func (a *appMiddleware) getClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs, take the first one
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		if commaIdx := strings.Index(xff, ","); commaIdx > 0 {
			return strings.TrimSpace(xff[:commaIdx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
