package middleware

import (
	"barber/config"
	"barber/infras/otel"
	"barber/shared/constant"
	"barber/shared/failure"
	"barber/transport/http/response"
	"crypto/subtle"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Auth guards operator endpoints.
type Auth interface {
	APIKey(http.Handler) http.Handler
}

type authImpl struct {
	otel otel.Otel
	cfg  *config.Config
}

func NewAuthMiddleware(otel otel.Otel, cfg *config.Config) Auth {
	if cfg.App.APIKey == constant.Empty {
		log.Warn().Msg("APP_API_KEY is not set, operator endpoints reject every request")
	}

	return &authImpl{
		otel: otel,
		cfg:  cfg,
	}
}

// APIKey requires the X-API-Key header to match the configured key.
func (m *authImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "api_key.middleware")

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)
		expected := m.cfg.App.APIKey

		if apiKey == constant.Empty || expected == constant.Empty ||
			subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			err := failure.Unauthorized("invalid or missing API key")

			scope.TraceError(err)
			scope.End()

			response.WithError(writer, err)

			return
		}

		scope.SetAttribute("http.source", "operator")
		scope.End()

		next.ServeHTTP(writer, request)
	})
}
