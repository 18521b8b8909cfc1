package partner

import (
	"net/http"

	"lodge/infras/otel"
	"lodge/internal/domains/partner/model"
	"lodge/internal/domains/partner/model/dto"
	"lodge/internal/domains/partner/service"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/validator"
	"lodge/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Partner
	otel    otel.Otel
}

func New(service service.Partner, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/partners", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreatePartner)
		routerGroup.Get("/", handler.GetPartners)
		routerGroup.Post("/{id}/offers", handler.CreateOffer)
	})

	router.Route("/partner-offers", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetOffers)
		routerGroup.Get("/{id}", handler.GetOfferByID)
		routerGroup.Delete("/{id}", handler.DeleteOffer)
	})
}

// CreatePartner registers a partner business.
// @Summary Create a partner
// @Tags Partner
// @Accept json
// @Produce json
// @Param request body dto.CreatePartnerRequest true "Create Partner Request"
// @Success 201 {object} response.Data[dto.PartnerResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/partners [post]
// @Security BearerAuth
func (handler *Handler) CreatePartner(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePartner")
	defer scope.End()

	req := dto.CreatePartnerRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	partner, err := handler.service.CreatePartner(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create partner")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, partner)
}

// GetPartners lists partners.
// @Summary List partners
// @Tags Partner
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param category query string false "Filter by category"
// @Param is_active query boolean false "Filter by active flag"
// @Success 200 {object} response.Data[dto.GetPartnersResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/partners [get]
// @Security BearerAuth
func (handler *Handler) GetPartners(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPartners")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	if err := queryParams.Sortable(constant.FieldCreatedAt, model.FieldName, model.FieldCategory); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	filterGroup := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)

	if category := request.URL.Query().Get(model.FieldCategory); category != constant.Empty {
		filterGroup.Add(gDto.Eq(model.TableName, model.FieldCategory, category))
	}

	if isActive := shared.ConvertStringToBool(request.URL.Query().Get(model.FieldIsActive)); isActive != nil {
		filterGroup.Add(gDto.Eq(model.TableName, model.FieldIsActive, *isActive))
	}

	partners, err := handler.service.GetPartners(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get partners")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, partners)
}

// CreateOffer adds a bookable offer to a partner.
// @Summary Create a partner offer
// @Tags Partner
// @Accept json
// @Produce json
// @Param id path string true "Partner ID"
// @Param request body dto.CreateOfferRequest true "Create Offer Request"
// @Success 201 {object} response.Data[dto.OfferResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/partners/{id}/offers [post]
// @Security BearerAuth
func (handler *Handler) CreateOffer(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateOffer")
	defer scope.End()

	partnerID := chi.URLParam(request, constant.RequestParamID)

	req := dto.CreateOfferRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	offer, err := handler.service.CreateOffer(ctx, partnerID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("partner_id", partnerID).Msg("failed to create partner offer")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, offer)
}

// GetOffers lists partner offers.
// @Summary List partner offers
// @Tags Partner
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param partner_id query string false "Filter by partner ID"
// @Param is_active query boolean false "Filter by active flag"
// @Success 200 {object} response.Data[dto.GetOffersResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/partner-offers [get]
func (handler *Handler) GetOffers(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOffers")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	if err := queryParams.Sortable(constant.FieldCreatedAt, model.FieldTitle, model.FieldPrice); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	filterGroup := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)

	if partnerID := request.URL.Query().Get(model.FieldPartnerID); partnerID != constant.Empty {
		filterGroup.Add(gDto.Eq(model.OfferTableName, model.FieldPartnerID, partnerID))
	}

	if isActive := shared.ConvertStringToBool(request.URL.Query().Get(model.FieldIsActive)); isActive != nil {
		filterGroup.Add(gDto.Eq(model.OfferTableName, model.FieldIsActive, *isActive))
	}

	offers, err := handler.service.GetOffers(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get partner offers")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, offers)
}

// GetOfferByID returns a partner offer.
// @Summary Get a partner offer
// @Tags Partner
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} response.Data[dto.OfferResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/partner-offers/{id} [get]
func (handler *Handler) GetOfferByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOfferByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	offer, err := handler.service.GetOffer(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("offer_id", id).Msg("failed to get partner offer")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, offer)
}

// DeleteOffer removes a partner offer. Packages linking it keep the link and report a warning when booked.
// @Summary Delete a partner offer
// @Tags Partner
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/partner-offers/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteOffer(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteOffer")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.DeleteOffer(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("offer_id", id).Msg("failed to delete partner offer")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Partner offer deleted successfully")
}
