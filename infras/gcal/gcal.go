package gcal

import (
	"barber/config"
	"barber/shared/constant"
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// TokenConfig builds the service account assertion flow for the calendar scope.
func TokenConfig(cfg *config.Config) *jwt.Config {
	return &jwt.Config{
		Email:      cfg.Google.ClientEmail,
		PrivateKey: []byte(cfg.GooglePrivateKey()),
		Scopes:     []string{calendar.CalendarScope},
		TokenURL:   google.JWTTokenURL,
	}
}

// New returns a calendar client authenticated as the configured service
// account. It returns nil when any credential is missing; reservations then
// run in mock mode.
func New(cfg *config.Config) *calendar.Service {
	log.Info().
		Bool("hasClientEmail", cfg.Google.ClientEmail != "").
		Bool("hasPrivateKey", cfg.Google.PrivateKey != "").
		Bool("hasCalendarId", cfg.Google.CalendarID != "").
		Str("calendarId", cfg.Google.CalendarID).
		Msg("Google Calendar environment check")

	if !cfg.CalendarConfigured() {
		log.Warn().Msg("Google Calendar credentials not configured, bookings will be mocked")

		return nil
	}

	timeout := cfg.Google.RequestTimeoutSeconds
	if timeout <= 0 {
		timeout = constant.DefaultRequestTimeoutSeconds
	}

	ctx := context.Background()

	httpClient := TokenConfig(cfg).Client(ctx)
	httpClient.Timeout = time.Duration(timeout) * time.Second

	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Google Calendar client")
	}

	log.Info().Str("calendarId", cfg.Google.CalendarID).Int("timeoutSeconds", timeout).Msg("Google Calendar client initialized")

	return service
}
