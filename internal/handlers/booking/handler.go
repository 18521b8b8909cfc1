package booking

import (
	"net/http"

	"lodge/infras/otel"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/service"
	partnerService "lodge/internal/domains/partner/service"
	"lodge/shared/constant"
	"lodge/shared/date"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/logger"
	"lodge/shared/validator"
	"lodge/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

var sortableFields = []string{constant.FieldCreatedAt, model.FieldCheckInDate, model.FieldCheckOutDate, model.FieldTotalPrice, model.FieldBookingReference}

const (
	queryCheckInFrom = "check_in_from"
	queryCheckInTo   = "check_in_to"
)

type Handler struct {
	service        service.Booking
	partnerService partnerService.Partner
	otel           otel.Otel
}

func New(service service.Booking, partnerService partnerService.Partner, otel otel.Otel) Handler {
	return Handler{
		service:        service,
		partnerService: partnerService,
		otel:           otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/packages/{id}/bookings", handler.CreateBooking)
	router.Post("/packages/{id}/price-quote", handler.Quote)

	router.Get("/bookings", handler.GetBookings)
	router.Get("/bookings/{id}", handler.GetBookingByID)
	router.Post("/bookings/{id}/cancel", handler.CancelBooking)
	router.Patch("/bookings/{id}/status", handler.UpdateStatus)
	router.Get("/bookings/{id}/partner-reservations", handler.GetPartnerReservations)
}

// CreateBooking books a stay package for a guest.
// @Summary Book a stay package
// @Description Prices the stay, takes one unit of capacity and auto-books linked partner offers.
// @Description Partner reservations that fail are returned as warnings and never fail the booking.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Package ID"
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResult]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Rejected with a reason such as capacity_exceeded or minimum_stay_not_met"
// @Failure 500 {object} response.Error
// @Router /v1/packages/{id}/bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	packageID := chi.URLParam(request, constant.RequestParamID)

	req := dto.CreateBookingRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	result, err := handler.service.Create(ctx, packageID, req)
	if err != nil {
		scope.TraceError(err)

		if failure.IsRejection(err) {
			logger.FromContext(ctx).Warn().Err(err).Str("package_id", packageID).Str("reason", failure.GetReason(err)).Msg("booking rejected")
		} else {
			logger.FromContext(ctx).Error().Err(err).Str("package_id", packageID).Msg("failed to create booking")
		}

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created " + result.Booking.BookingReference)

	response.WithJSON(writer, http.StatusCreated, result)
}

// Quote prices a stay without booking it.
// @Summary Quote a stay
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Package ID"
// @Param request body dto.QuoteRequest true "Quote Request"
// @Success 200 {object} response.Data[dto.QuoteResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages/{id}/price-quote [post]
func (handler *Handler) Quote(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Quote")
	defer scope.End()

	packageID := chi.URLParam(request, constant.RequestParamID)

	req := dto.QuoteRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	quote, err := handler.service.Quote(ctx, packageID, req)
	if err != nil {
		scope.TraceError(err)
		logger.FromContext(ctx).Warn().Err(err).Str("package_id", packageID).Str("reason", failure.GetReason(err)).Msg("failed to quote stay")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, quote)
}

func dateFilter(value, operator string) (gDto.Filter, error) {
	day, err := date.Parse(value)
	if err != nil {
		return gDto.Filter{}, failure.BadRequestFromString("dates must be formatted as YYYY-MM-DD")
	}

	return gDto.Bound(model.TableName, model.FieldCheckInDate, operator, day.String()), nil
}

// GetBookings lists bookings.
// @Summary List bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param package_id query string false "Filter by package ID"
// @Param status query string false "Filter by status (pending, confirmed, cancelled, completed)"
// @Param payment_status query string false "Filter by payment status"
// @Param guest_email query string false "Filter by guest email"
// @Param check_in_from query string false "Check-in on or after (YYYY-MM-DD)"
// @Param check_in_to query string false "Check-in on or before (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	if err := queryParams.Sortable(sortableFields...); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	query := request.URL.Query()

	filterGroup := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)

	for _, field := range []string{model.FieldPackageID, model.FieldStatus, model.FieldPaymentStatus, model.FieldGuestEmail} {
		if value := query.Get(field); value != constant.Empty {
			filterGroup.Add(gDto.Eq(model.TableName, field, value))
		}
	}

	bounds := []struct {
		param    string
		operator string
	}{
		{param: queryCheckInFrom, operator: gDto.FilterOperatorGreaterEq},
		{param: queryCheckInTo, operator: gDto.FilterOperatorLessEq},
	}

	for _, bound := range bounds {
		value := query.Get(bound.param)
		if value == constant.Empty {
			continue
		}

		filter, err := dateFilter(value, bound.operator)
		if err != nil {
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		filterGroup.Add(filter)
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

// GetBookingByID returns a booking.
// @Summary Get a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
func (handler *Handler) GetBookingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// CancelBooking cancels a booking and returns its unit of capacity. Cancelling twice is a no-op.
// @Summary Cancel a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/cancel [post]
func (handler *Handler) CancelBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	booking, err := handler.service.Cancel(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to cancel booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// UpdateStatus moves a booking through its lifecycle or records a payment.
// @Summary Update booking status
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateStatusRequest true "Status Update"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateStatus")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.UpdateStatusRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.UpdateStatus(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to update booking status")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking status updated by user " + user)

	response.WithJSON(writer, http.StatusOK, booking)
}

// GetPartnerReservations lists the partner reservations made for a booking.
// @Summary List partner reservations of a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[[]partnerDto.ReservationResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/partner-reservations [get]
// @Security BearerAuth
func (handler *Handler) GetPartnerReservations(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPartnerReservations")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	// 404 for unknown bookings rather than an empty list
	if _, err := handler.service.Get(ctx, id); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	reservations, err := handler.partnerService.GetReservations(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get partner reservations")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, reservations)
}
