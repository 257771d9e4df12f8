//go:build wireinject
// +build wireinject

package di

import (
	"barber/config"
	"barber/infras/gcal"
	"barber/infras/kafka"
	"barber/infras/otel"
	"barber/infras/redis"
	"barber/shared/cache"
	"barber/shared/lock"
	"barber/transport/http"
	"barber/transport/http/middleware"
	"barber/transport/http/router"

	bookingRepository "barber/internal/domains/booking/repository"
	bookingService "barber/internal/domains/booking/service"
	bookingHandler "barber/internal/handlers/booking"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	otel.New,
	redis.New,
	gcal.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	lock.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
