//go:build wireinject
// +build wireinject

package di

import (
	"lodge/config"
	"lodge/infras/jwt"
	"lodge/infras/kafka"
	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/infras/redis"
	"lodge/infras/s3"
	"lodge/permissions"
	"lodge/shared/cache"
	gRepo "lodge/shared/repository"
	"lodge/shared/timezone"
	"lodge/transport/http"
	"lodge/transport/http/middleware"
	"lodge/transport/http/router"

	bookingRepository "lodge/internal/domains/booking/repository"
	bookingService "lodge/internal/domains/booking/service"
	partnerRepository "lodge/internal/domains/partner/repository"
	partnerService "lodge/internal/domains/partner/service"
	"lodge/internal/domains/stay/availability"
	stayRepository "lodge/internal/domains/stay/repository"
	stayService "lodge/internal/domains/stay/service"
	bookingHandler "lodge/internal/handlers/booking"
	partnerHandler "lodge/internal/handlers/partner"
	stayHandler "lodge/internal/handlers/stay"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	gRepo.NewTransactor,
	timezone.NewClock,
)

var stayDomain = wire.NewSet(
	stayRepository.NewPackage,
	stayRepository.NewAvailability,
	availability.New,
	stayService.New,
)

var partnerDomain = wire.NewSet(
	partnerRepository.NewPartner,
	partnerRepository.NewOffer,
	partnerRepository.NewReservation,
	partnerService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	stayDomain,
	partnerDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	stayHandler.New,
	bookingHandler.New,
	partnerHandler.New,
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
