package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"lodge/config"
	"lodge/infras/otel"
	"lodge/internal/domains/partner/model"
	"lodge/internal/domains/partner/model/dto"
	"lodge/internal/domains/partner/repository"
	"lodge/shared"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	gRepo "lodge/shared/repository"

	"github.com/rs/zerolog/log"
)

const (
	CacheGetOffer    = "partner_offer:get"
	CacheGetAllOffer = "partner_offer:get_all"
)

type Partner interface {
	CreatePartner(ctx context.Context, req dto.CreatePartnerRequest) (dto.PartnerResponse, error)
	GetPartners(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPartnersResponse, error)
	CreateOffer(ctx context.Context, partnerID string, req dto.CreateOfferRequest) (dto.OfferResponse, error)
	GetOffer(ctx context.Context, id string) (dto.OfferResponse, error)
	GetOffers(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetOffersResponse, error)
	DeleteOffer(ctx context.Context, id string) error
	GetReservations(ctx context.Context, bookingID string) ([]dto.ReservationResponse, error)
}

type serviceImpl struct {
	partnerRepo     repository.Partner
	offerRepo       repository.Offer
	reservationRepo repository.Reservation
	cfg             *config.Config
	cache           cache.RedisCache
	otel            otel.Otel
}

func New(
	partnerRepo repository.Partner,
	offerRepo repository.Offer,
	reservationRepo repository.Reservation,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Partner {
	return &serviceImpl{
		partnerRepo:     partnerRepo,
		offerRepo:       offerRepo,
		reservationRepo: reservationRepo,
		cfg:             cfg,
		cache:           cache,
		otel:            otel,
	}
}

func (s *serviceImpl) CreatePartner(ctx context.Context, req dto.CreatePartnerRequest) (res dto.PartnerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreatePartner")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	partner := req.ToModel(user)

	if err = s.partnerRepo.Insert(ctx, partner); err != nil {
		log.Error().Err(err).Msg("failed to create partner")

		return res, fmt.Errorf("failed to create partner: %w", err)
	}

	res.FromModel(partner)

	return res, nil
}

func (s *serviceImpl) GetPartners(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPartnersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetPartners")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	total, err := s.partnerRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count partners")

		return res, fmt.Errorf("failed to count partners: %w", err)
	}

	partners, err := s.partnerRepo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get partners")

		return res, fmt.Errorf("failed to get partners: %w", err)
	}

	res.FromModels(partners, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) CreateOffer(ctx context.Context, partnerID string, req dto.CreateOfferRequest) (res dto.OfferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateOffer")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	offer, err := req.ToModel(partnerID, user)
	if err != nil {
		return res, err
	}

	exist, err := s.partnerRepo.Exist(ctx, shared.FilterByID(partnerID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check partner existence")

		return res, fmt.Errorf("failed to check partner existence: %w", err)
	}

	if !exist {
		return res, failure.NotFound("partner not found")
	}

	if err = s.offerRepo.Insert(ctx, offer); err != nil {
		log.Error().Err(err).Msg("failed to create partner offer")

		return res, fmt.Errorf("failed to create partner offer: %w", err)
	}

	res.FromModel(offer)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, CacheGetAllOffer)
	}()

	return res, nil
}

func (s *serviceImpl) GetOffer(ctx context.Context, id string) (res dto.OfferResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetOffer")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(CacheGetOffer, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for partner offer")

		return res, nil
	}

	offer, err := s.offerRepo.Get(ctx, shared.FilterByID(id, model.FieldID, model.OfferTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get partner offer")

		return res, fmt.Errorf("failed to get partner offer: %w", err)
	}

	if offer.ID == constant.Empty {
		return res, failure.NotFound("partner offer not found")
	}

	res.FromModel(offer)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save partner offer to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetOffers(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetOffersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetOffers")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(CacheGetAllOffer, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for partner offers")

		return res, nil
	}

	total, err := s.offerRepo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count partner offers")

		return res, fmt.Errorf("failed to count partner offers: %w", err)
	}

	offers, err := s.offerRepo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get partner offers")

		return res, fmt.Errorf("failed to get partner offers: %w", err)
	}

	res.FromModels(offers, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save partner offers to cache")
		}
	}()

	return res, nil
}

// DeleteOffer removes the offer. Package links are left in place and surface as
// warnings when a booking tries to reserve the missing offer.
func (s *serviceImpl) DeleteOffer(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteOffer")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.OfferTableName)

	exist, err := s.offerRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check partner offer existence")

		return fmt.Errorf("failed to check partner offer existence: %w", err)
	}

	if !exist {
		return failure.NotFound("partner offer not found")
	}

	if err = s.offerRepo.Delete(ctx, filter); err != nil {
		if gRepo.IsForeignKeyViolation(err) {
			return failure.Conflict("partner offer has reservations, deactivate it instead")
		}

		log.Error().Err(err).Msg("failed to delete partner offer")

		return fmt.Errorf("failed to delete partner offer: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(CacheGetOffer, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete partner offer cache")
		}

		shared.InvalidateCaches(c, s.cache, CacheGetAllOffer)
	}()

	return nil
}

func (s *serviceImpl) GetReservations(ctx context.Context, bookingID string) (res []dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetReservations")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	reservations, err := s.reservationRepo.GetAll(ctx, params, shared.FilterByID(bookingID, model.FieldPackageBookingID, model.ReservationTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get partner reservations")

		return nil, fmt.Errorf("failed to get partner reservations: %w", err)
	}

	return dto.FromReservations(reservations), nil
}
