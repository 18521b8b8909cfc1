package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net/http"

	"lodge/config"
	"lodge/infras/kafka"
	"lodge/infras/otel"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/repository"
	partnerModel "lodge/internal/domains/partner/model"
	partnerDto "lodge/internal/domains/partner/model/dto"
	partnerRepo "lodge/internal/domains/partner/repository"
	"lodge/internal/domains/stay/availability"
	stayModel "lodge/internal/domains/stay/model"
	"lodge/internal/domains/stay/pricing"
	stayRepo "lodge/internal/domains/stay/repository"
	stayService "lodge/internal/domains/stay/service"
	"lodge/shared"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/logger"
	gModel "lodge/shared/model"
	gRepo "lodge/shared/repository"
	"lodge/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	CacheGetBooking    = "booking:get"
	CacheGetAllBooking = "booking:get_all"
	CacheCountBooking  = "booking:count"

	systemUser          = "system"
	partnerFanOutLimit  = 4
	eventTypeHeader     = "event_type"
	msgPackageNotFound  = "package not found"
	msgBookingNotFound  = "booking not found"
	msgConcurrentChange = "booking was changed by another request, reload and try again"
)

type Booking interface {
	// Create reserves capacity, prices and stores the booking in one transaction, then
	// auto-books the package's partner offers.
	Create(ctx context.Context, packageID string, req dto.CreateBookingRequest) (dto.BookingResult, error)
	// Quote prices a stay without reserving capacity.
	Quote(ctx context.Context, packageID string, req dto.QuoteRequest) (dto.QuoteResponse, error)
	// Cancel is idempotent: cancelling a cancelled booking returns it unchanged.
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo            repository.Booking
	packageRepo     stayRepo.Package
	tracker         availability.Tracker
	offerRepo       partnerRepo.Offer
	reservationRepo partnerRepo.Reservation
	transactor      gRepo.Transactor
	cfg             *config.Config
	cache           cache.RedisCache
	otel            otel.Otel
	kafka           kafka.Client
	clock           timezone.Clock
}

func New(
	repo repository.Booking,
	packageRepo stayRepo.Package,
	tracker availability.Tracker,
	offerRepo partnerRepo.Offer,
	reservationRepo partnerRepo.Reservation,
	transactor gRepo.Transactor,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	kafka kafka.Client,
	clock timezone.Clock,
) Booking {
	return &serviceImpl{
		repo:            repo,
		packageRepo:     packageRepo,
		tracker:         tracker,
		offerRepo:       offerRepo,
		reservationRepo: reservationRepo,
		transactor:      transactor,
		cfg:             cfg,
		cache:           cache,
		otel:            otel,
		kafka:           kafka,
		clock:           clock,
	}
}

func (s *serviceImpl) Create(ctx context.Context, packageID string, req dto.CreateBookingRequest) (res dto.BookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := actor(ctx)

	now := s.clock.Now()

	stay, err := req.ToStay(now, s.cfg.Booking.AllowPastCheckIn)
	if err != nil {
		return res, err
	}

	pkg, err := s.activePackage(ctx, packageID)
	if err != nil {
		return res, err
	}

	var booking model.Booking

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		window, err := s.tracker.Reserve(ctx, pkg, stay)
		if err != nil {
			return err
		}

		stay.Occupancy = window.OccupancyRate()

		quote, err := pricing.Evaluate(pkg, stay)
		if err != nil {
			return err
		}

		reference, err := model.NewReference(s.cfg.Booking.ReferencePrefix, pkg.Code)
		if err != nil {
			return err
		}

		booking = req.ToModel(pkg, stay, quote, reference, gModel.NewMetadata(user, now))
		booking.AvailabilityID = &window.ID

		if err := s.repo.Insert(ctx, booking); err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}

		return s.packageRepo.RecordBooking(ctx, pkg.ID, booking.TotalPrice)
	})
	if err != nil {
		if failure.GetCode(err) < http.StatusInternalServerError {
			log.Warn().Err(err).Str("package", pkg.ID).Str("reason", failure.GetReason(err)).Msg("booking rejected")

			return res, err
		}

		log.Error().Err(err).Str("package", pkg.ID).Msg("failed to create booking")

		return res, err
	}

	res.Booking.FromModel(booking)
	res.PartnerReservations, res.Warnings = s.reservePartners(ctx, pkg, booking)

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidate(c, booking)
		s.publish(c, model.EventBookingCreated, booking)
	}()

	return res, nil
}

// reservePartners creates one reservation per auto-bookable offer. Failures are reported as
// warnings and never affect the booking or the other reservations.
func (s *serviceImpl) reservePartners(ctx context.Context, pkg stayModel.Package, booking model.Booking) ([]partnerDto.ReservationResponse, []model.PartnerBookingWarning) {
	links := make([]stayModel.PartnerOfferLink, 0, len(pkg.PartnerOffers))

	for _, link := range pkg.PartnerOffers {
		if link.AutoBookable() {
			links = append(links, link)
		}
	}

	results := make([]model.PartnerResult, len(links))

	var group errgroup.Group

	group.SetLimit(partnerFanOutLimit)

	for i, link := range links {
		group.Go(func() error {
			results[i] = s.reserveOffer(ctx, link, booking)

			return nil
		})
	}

	_ = group.Wait()

	reservations := []partnerDto.ReservationResponse{}
	warnings := []model.PartnerBookingWarning{}

	for _, result := range results {
		if warning := result.Warning(); warning != nil {
			log.Warn().Err(result.Err).Str("booking", booking.ID).Str("offer", result.PartnerOfferID).Msg("partner reservation skipped")

			warnings = append(warnings, *warning)

			continue
		}

		var reservation partnerDto.ReservationResponse

		reservation.FromModel(*result.Reservation)
		reservations = append(reservations, reservation)
	}

	return reservations, warnings
}

func (s *serviceImpl) reserveOffer(ctx context.Context, link stayModel.PartnerOfferLink, booking model.Booking) (result model.PartnerResult) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reserveOffer")
	defer scope.End()
	defer func() { scope.TraceIfError(result.Err) }()

	result.PartnerOfferID = link.PartnerOfferID

	offer, err := s.offerRepo.Get(ctx, shared.FilterByID(link.PartnerOfferID, partnerModel.FieldID, partnerModel.OfferTableName))
	if err != nil {
		result.Err = fmt.Errorf("failed to get partner offer: %w", err)

		return result
	}

	if offer.ID == constant.Empty {
		result.Err = model.ErrOfferNotFound

		return result
	}

	if !offer.IsActive {
		result.Err = model.ErrOfferInactive

		return result
	}

	reservation := partnerModel.NewReservation(
		uuid.NewString(),
		offer,
		booking.ID,
		booking.GuestName,
		booking.CheckInDate,
		booking.GuestsCount,
		gModel.NewMetadata(booking.CreatedBy, s.clock.Now()),
	)

	if err = s.reservationRepo.Insert(ctx, reservation); err != nil {
		result.Err = fmt.Errorf("failed to insert partner reservation: %w", err)

		return result
	}

	result.Reservation = &reservation

	return result
}

func (s *serviceImpl) Quote(ctx context.Context, packageID string, req dto.QuoteRequest) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Quote")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	stay, err := req.ToStay(s.clock.Now(), s.cfg.Booking.AllowPastCheckIn)
	if err != nil {
		return res, err
	}

	pkg, err := s.activePackage(ctx, packageID)
	if err != nil {
		return res, err
	}

	window, err := s.tracker.CheckEligibility(ctx, pkg, stay)
	if err != nil {
		return res, err
	}

	stay.Occupancy = window.Reserved().OccupancyRate()

	quote, err := pricing.Evaluate(pkg, stay)
	if err != nil {
		return res, err
	}

	res.FromQuote(pkg, stay, quote)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.IsCancelled() {
		res.FromModel(booking)

		return res, nil
	}

	if booking.Status == model.StatusCompleted {
		return res, failure.Conflict("completed bookings cannot be cancelled")
	}

	pkg, err := s.packageRepo.GetAggregate(ctx, booking.PackageID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get package")

		return res, fmt.Errorf("failed to get package: %w", err)
	}

	user := actor(ctx)

	now := s.clock.Now()
	cancelled := false

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.repo.Transition(ctx, id, model.Cancellable(), map[string]any{
			model.FieldStatus:        model.StatusCancelled,
			model.FieldCancelledAt:   now,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		})
		if err != nil || !ok {
			return err
		}

		cancelled = true

		if err := s.tracker.Release(ctx, pkg, booking.WindowID(), booking.CheckInDate, booking.CheckOutDate); err != nil {
			return err
		}

		if err := s.packageRepo.RevertBooking(ctx, booking.PackageID, booking.TotalPrice); err != nil {
			return err
		}

		return s.reservationRepo.Update(ctx, map[string]any{
			partnerModel.FieldStatus: partnerModel.ReservationStatusCancelled,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}, shared.FilterByID(id, partnerModel.FieldPackageBookingID, partnerModel.ReservationTableName))
	})
	if err != nil {
		log.Error().Err(err).Str("booking", id).Msg("failed to cancel booking")

		return res, err
	}

	if !cancelled {
		return s.afterLostRace(ctx, id)
	}

	booking.Status = model.StatusCancelled
	booking.CancelledAt = &now
	booking.ModifiedAt = now
	booking.ModifiedBy = user

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidate(c, booking)
		s.publish(c, model.EventBookingCancelled, booking)
	}()

	return res, nil
}

// afterLostRace resolves a cancel whose conditional update matched nothing because another
// request changed the booking first.
func (s *serviceImpl) afterLostRace(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	if !booking.IsCancelled() {
		return res, failure.Conflict(msgConcurrentChange)
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = req.Validate(); err != nil {
		return res, err
	}

	if req.Status == model.StatusCancelled {
		if res, err = s.Cancel(ctx, id); err != nil || req.PaymentStatus == constant.Empty {
			return res, err
		}

		req.Status = constant.Empty
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	user := actor(ctx)
	now := s.clock.Now()

	fields := map[string]any{
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if req.PaymentStatus != constant.Empty {
		fields[model.FieldPaymentStatus] = req.PaymentStatus
		booking.PaymentStatus = req.PaymentStatus
	}

	statusChanged := req.Status != constant.Empty && req.Status != booking.Status

	if statusChanged {
		if !model.CanTransition(booking.Status, req.Status) {
			return res, failure.Conflict(fmt.Sprintf("booking cannot move from %s to %s", booking.Status, req.Status))
		}

		fields[model.FieldStatus] = req.Status

		ok, err := s.repo.Transition(ctx, id, []string{booking.Status}, fields)
		if err != nil {
			log.Error().Err(err).Msg("failed to update booking status")

			return res, fmt.Errorf("failed to update booking status: %w", err)
		}

		if !ok {
			return res, failure.Conflict(msgConcurrentChange)
		}

		booking.Status = req.Status
	} else if req.PaymentStatus != constant.Empty {
		if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to update booking payment status")

			return res, fmt.Errorf("failed to update booking payment status: %w", err)
		}
	}

	booking.ModifiedAt = now
	booking.ModifiedBy = user

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidate(c, booking)

		if statusChanged {
			s.publish(c, model.EventBookingStatusChanged, booking)
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(CacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(CacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	bookings, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(bookings, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(CacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &total)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return total, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) activePackage(ctx context.Context, id string) (stayModel.Package, error) {
	pkg, err := s.packageRepo.GetAggregate(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get package")

		return pkg, fmt.Errorf("failed to get package: %w", err)
	}

	if pkg.ID == constant.Empty || !pkg.IsActive() {
		return pkg, failure.NotFound(msgPackageNotFound)
	}

	return pkg, nil
}

func (s *serviceImpl) getBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound(msgBookingNotFound)
	}

	return booking, nil
}

// actor is the user recorded in audit columns. Requests without a signed-in user are recorded
// as the system.
func actor(ctx context.Context) string {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return systemUser
	}

	return user
}

// invalidate drops cached bookings and the booked package, whose statistics changed.
func (s *serviceImpl) invalidate(ctx context.Context, booking model.Booking) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(CacheGetBooking, booking.ID)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking cache")
	}

	if err := s.cache.Delete(ctx, shared.BuildCacheKey(stayService.CacheGetPackage, booking.PackageID)); err != nil {
		log.Error().Err(err).Msg("failed to delete package cache")
	}

	shared.InvalidateCaches(ctx, s.cache, CacheGetAllBooking)
	shared.InvalidateCaches(ctx, s.cache, CacheCountBooking)
	shared.InvalidateCaches(ctx, s.cache, stayService.CacheGetAllPackage)
}

func (s *serviceImpl) publish(ctx context.Context, eventType string, booking model.Booking) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+"."+eventType)
	defer scope.End()

	event := model.NewEvent(eventType, booking, s.clock.Now())

	err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.Booking, kafka.Message{
		Key:     booking.ID,
		Value:   event,
		Headers: map[string]string{eventTypeHeader: eventType},
	})
	if err != nil {
		scope.TraceError(err)
		logger.FromContext(ctx).Error().Err(err).Str("event", eventType).Str("booking", booking.ID).Msg("failed to publish booking event")
	}
}
