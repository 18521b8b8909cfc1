package stay

import (
	"net/http"

	"lodge/infras/otel"
	"lodge/internal/domains/stay/model"
	"lodge/internal/domains/stay/model/dto"
	"lodge/internal/domains/stay/service"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/validator"
	"lodge/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

var sortableFields = []string{
	constant.FieldCreatedAt,
	model.FieldCode,
	model.FieldName,
	model.FieldBasePrice,
	model.FieldTotalBookings,
	model.FieldTotalRevenue,
}

type Handler struct {
	service service.Package
	otel    otel.Otel
}

func New(service service.Package, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/packages", handler.CreatePackage)
	router.Get("/packages", handler.GetPackages)
	router.Get("/packages/{id}", handler.GetPackageByID)
	router.Patch("/packages/{id}", handler.UpdatePackage)
	router.Delete("/packages/{id}", handler.DeletePackage)
	router.Post("/packages/{id}/pricing-rules", handler.AddPricingRule)
	router.Post("/packages/{id}/availability", handler.AddAvailability)
	router.Put("/packages/{id}/image", handler.UploadImage)
}

// CreatePackage handles the creation of a stay package with its components, rules, windows and partner links.
// @Summary Create a stay package
// @Tags Package
// @Accept json
// @Produce json
// @Param request body dto.CreatePackageRequest true "Create Package Request"
// @Success 201 {object} response.Data[dto.PackageResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages [post]
// @Security BearerAuth
func (handler *Handler) CreatePackage(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePackage")
	defer scope.End()

	req := dto.CreatePackageRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	pkg, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("code", req.Code).Msg("failed to create package")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Package created " + pkg.ID)

	response.WithJSON(writer, http.StatusCreated, pkg)
}

// GetPackages lists stay packages.
// @Summary List stay packages
// @Tags Package
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (draft, active, inactive, archived)"
// @Param code query string false "Filter by package code"
// @Success 200 {object} response.Data[dto.GetPackagesResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages [get]
func (handler *Handler) GetPackages(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPackages")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	if err := queryParams.Sortable(sortableFields...); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	filterGroup := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)

	for _, field := range []string{model.FieldStatus, model.FieldCode} {
		if value := request.URL.Query().Get(field); value != constant.Empty {
			filterGroup.Add(gDto.Eq(model.TableName, field, value))
		}
	}

	packages, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get packages")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, packages)
}

// GetPackageByID returns a package with its components, rules and availability windows.
// @Summary Get a stay package
// @Tags Package
// @Produce json
// @Param id path string true "Package ID"
// @Success 200 {object} response.Data[dto.PackageResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages/{id} [get]
func (handler *Handler) GetPackageByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPackageByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	pkg, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("package_id", id).Msg("failed to get package")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, pkg)
}

// UpdatePackage partially updates a package.
// @Summary Update a stay package
// @Tags Package
// @Accept json
// @Produce json
// @Param id path string true "Package ID"
// @Param request body dto.UpdatePackageRequest true "Update Package Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdatePackage(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdatePackage")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.UpdatePackageRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("package_id", id).Msg("failed to update package")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Package updated successfully")
}

// DeletePackage removes a package that has no bookings.
// @Summary Delete a stay package
// @Tags Package
// @Produce json
// @Param id path string true "Package ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeletePackage(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeletePackage")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("package_id", id).Msg("failed to delete package")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Package deleted successfully")
}

// AddPricingRule appends a pricing rule to a package.
// @Summary Add a pricing rule
// @Tags Package
// @Accept json
// @Produce json
// @Param id path string true "Package ID"
// @Param request body dto.CreatePricingRuleRequest true "Pricing Rule"
// @Success 201 {object} response.Data[dto.PricingRuleResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages/{id}/pricing-rules [post]
// @Security BearerAuth
func (handler *Handler) AddPricingRule(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddPricingRule")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.CreatePricingRuleRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	rule, err := handler.service.AddPricingRule(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("package_id", id).Msg("failed to add pricing rule")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, rule)
}

// AddAvailability opens a new availability window on a package.
// @Summary Add an availability window
// @Tags Package
// @Accept json
// @Produce json
// @Param id path string true "Package ID"
// @Param request body dto.CreateAvailabilityRequest true "Availability Window"
// @Success 201 {object} response.Data[dto.AvailabilityResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages/{id}/availability [post]
// @Security BearerAuth
func (handler *Handler) AddAvailability(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddAvailability")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.CreateAvailabilityRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	window, err := handler.service.AddAvailability(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("package_id", id).Msg("failed to add availability window")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, window)
}

// UploadImage stores the package cover image.
// @Summary Upload a package image
// @Description The image is sent as a base64 data URI (png, jpeg or webp, up to 5 MB).
// @Tags Package
// @Accept json
// @Produce json
// @Param id path string true "Package ID"
// @Param request body dto.UploadImageRequest true "Image"
// @Success 200 {object} response.Data[dto.UploadImageResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/packages/{id}/image [put]
// @Security BearerAuth
func (handler *Handler) UploadImage(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadImage")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.UploadImageRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	image, err := handler.service.UploadImage(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("package_id", id).Msg("failed to upload package image")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, image)
}
