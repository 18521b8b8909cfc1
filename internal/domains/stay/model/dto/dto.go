package dto

import (
	"fmt"
	"strings"

	"lodge/internal/domains/stay/model"
	"lodge/shared"
	"lodge/shared/date"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultCurrency = "USD"

type CreatePackageRequest struct {
	Code          string                      `json:"code"           validate:"required,max=50"`
	Name          string                      `json:"name"           validate:"required,max=150"`
	Description   string                      `json:"description"    validate:"omitempty,max=2000"`
	BasePrice     decimal.Decimal             `json:"base_price"     swaggertype:"string"`
	Currency      string                      `json:"currency"       validate:"omitempty,iso4217"`
	MinimumStay   int                         `json:"minimum_stay"   validate:"omitempty,gte=1"`
	MaximumStay   *int                        `json:"maximum_stay"   validate:"omitempty,gte=1"`
	MaxGuests     int                         `json:"max_guests"     validate:"required,gte=1"`
	Status        string                      `json:"status"         validate:"omitempty,oneof=draft active inactive archived"`
	Components    []CreateComponentRequest    `json:"components"     validate:"omitempty,dive"`
	PricingRules  []CreatePricingRuleRequest  `json:"pricing_rules"  validate:"omitempty,dive"`
	Availability  []CreateAvailabilityRequest `json:"availability"   validate:"omitempty,dive"`
	PartnerOffers []PartnerOfferLinkRequest   `json:"partner_offers" validate:"omitempty,dive"`
}

// ToModel builds the package aggregate. Rule positions follow the request order.
func (c *CreatePackageRequest) ToModel(user string) (model.Package, error) {
	minimumStay := max(c.MinimumStay, 1)
	if !model.ValidStayBounds(minimumStay, c.MaximumStay) {
		return model.Package{}, failure.BadRequestFromString("minimum_stay must not exceed maximum_stay")
	}

	if c.BasePrice.IsNegative() {
		return model.Package{}, failure.BadRequestFromString("base_price must not be negative")
	}

	currency := strings.ToUpper(c.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}

	status := c.Status
	if status == "" {
		status = model.StatusDraft
	}

	metadata := gModel.NewMetadata(user, timezone.Now())

	pkg := model.Package{
		ID:           uuid.NewString(),
		Code:         strings.ToUpper(strings.TrimSpace(c.Code)),
		Name:         c.Name,
		Description:  c.Description,
		BasePrice:    c.BasePrice,
		Currency:     currency,
		MinimumStay:  minimumStay,
		MaximumStay:  c.MaximumStay,
		MaxGuests:    c.MaxGuests,
		Status:       status,
		TotalRevenue: decimal.Zero,
		Metadata:     metadata,
	}

	for _, component := range c.Components {
		pkg.Components = append(pkg.Components, component.ToModel(pkg.ID, metadata))
	}

	for position, rule := range c.PricingRules {
		pkg.PricingRules = append(pkg.PricingRules, rule.ToModel(pkg.ID, position, metadata))
	}

	for _, window := range c.Availability {
		availability, err := window.ToModel(pkg.ID, metadata)
		if err != nil {
			return model.Package{}, err
		}

		pkg.Availability = append(pkg.Availability, availability)
	}

	for _, link := range c.PartnerOffers {
		pkg.PartnerOffers = append(pkg.PartnerOffers, link.ToModel(pkg.ID, metadata))
	}

	return pkg, nil
}

type CreateComponentRequest struct {
	Type        string          `json:"type"         validate:"required,oneof=room meal service amenity"`
	Name        string          `json:"name"         validate:"required,max=150"`
	IsMandatory bool            `json:"is_mandatory"`
	Quantity    int             `json:"quantity"     validate:"omitempty,gte=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"   swaggertype:"string"`
}

// ToModel computes the line total; a total sent by the client is never trusted.
func (c *CreateComponentRequest) ToModel(packageID string, metadata gModel.Metadata) model.Component {
	quantity := max(c.Quantity, 1)

	return model.Component{
		ID:          uuid.NewString(),
		PackageID:   packageID,
		Type:        c.Type,
		Name:        c.Name,
		IsMandatory: c.IsMandatory,
		Quantity:    quantity,
		UnitPrice:   c.UnitPrice,
		TotalPrice:  c.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		Metadata:    metadata,
	}
}

type CreatePricingRuleRequest struct {
	Name            string           `json:"name"             validate:"required,max=150"`
	Type            string           `json:"type"             validate:"required,oneof=base seasonal occupancy early_bird last_minute loyalty"`
	Conditions      model.Conditions `json:"conditions"`
	AdjustmentType  string           `json:"adjustment_type"  validate:"required,oneof=fixed percentage multiplier"`
	AdjustmentValue decimal.Decimal  `json:"adjustment_value" swaggertype:"string"`
	IsActive        *bool            `json:"is_active"`
	Priority        int              `json:"priority"`
}

func (c *CreatePricingRuleRequest) ToModel(packageID string, position int, metadata gModel.Metadata) model.PricingRule {
	active := c.IsActive == nil || *c.IsActive

	return model.PricingRule{
		ID:              uuid.NewString(),
		PackageID:       packageID,
		Name:            c.Name,
		Type:            c.Type,
		Conditions:      c.Conditions,
		AdjustmentType:  c.AdjustmentType,
		AdjustmentValue: c.AdjustmentValue,
		IsActive:        active,
		Priority:        c.Priority,
		Position:        position,
		Metadata:        metadata,
	}
}

type CreateAvailabilityRequest struct {
	DateFrom      string   `json:"date_from"      validate:"required,date"`
	DateTo        string   `json:"date_to"        validate:"required,date"`
	IsAvailable   *bool    `json:"is_available"`
	MaxBookings   *int     `json:"max_bookings"   validate:"omitempty,gte=0"`
	BlackoutDates []string `json:"blackout_dates" validate:"omitempty,dive,date"`
	MinimumStay   *int     `json:"minimum_stay"   validate:"omitempty,gte=1"`
	MaximumStay   *int     `json:"maximum_stay"   validate:"omitempty,gte=1"`
}

func (c *CreateAvailabilityRequest) ToModel(packageID string, metadata gModel.Metadata) (model.Availability, error) {
	from, err := date.Parse(c.DateFrom)
	if err != nil {
		return model.Availability{}, failure.BadRequest(err)
	}

	to, err := date.Parse(c.DateTo)
	if err != nil {
		return model.Availability{}, failure.BadRequest(err)
	}

	if to.Before(from) {
		return model.Availability{}, failure.BadRequestFromString("date_to must not be before date_from")
	}

	if c.MinimumStay != nil && !model.ValidStayBounds(*c.MinimumStay, c.MaximumStay) {
		return model.Availability{}, failure.BadRequestFromString("minimum_stay must not exceed maximum_stay")
	}

	blackout := make(date.List, 0, len(c.BlackoutDates))

	for _, raw := range c.BlackoutDates {
		day, err := date.Parse(raw)
		if err != nil {
			return model.Availability{}, failure.BadRequest(err)
		}

		if !day.Within(from, to) {
			return model.Availability{}, failure.BadRequestFromString(fmt.Sprintf("blackout date %s is outside the window", day))
		}

		blackout = append(blackout, day)
	}

	return model.Availability{
		ID:            uuid.NewString(),
		PackageID:     packageID,
		DateFrom:      from,
		DateTo:        to,
		IsAvailable:   c.IsAvailable == nil || *c.IsAvailable,
		MaxBookings:   c.MaxBookings,
		BlackoutDates: blackout,
		MinimumStay:   c.MinimumStay,
		MaximumStay:   c.MaximumStay,
		Metadata:      metadata,
	}, nil
}

type PartnerOfferLinkRequest struct {
	PartnerOfferID    string `json:"partner_offer_id"    validate:"required,uuid"`
	IncludedInPackage bool   `json:"included_in_package"`
	AutoBook          bool   `json:"auto_book"`
}

func (c *PartnerOfferLinkRequest) ToModel(packageID string, metadata gModel.Metadata) model.PartnerOfferLink {
	return model.PartnerOfferLink{
		ID:                uuid.NewString(),
		PackageID:         packageID,
		PartnerOfferID:    c.PartnerOfferID,
		IncludedInPackage: c.IncludedInPackage,
		AutoBook:          c.AutoBook,
		Metadata:          metadata,
	}
}

type UpdatePackageRequest struct {
	Name        string           `db:"name"         json:"name"         validate:"omitempty,max=150"`
	Description string           `db:"description"  json:"description"  validate:"omitempty,max=2000"`
	BasePrice   *decimal.Decimal `db:"base_price"   json:"base_price"   swaggertype:"string"`
	Currency    string           `db:"currency"     json:"currency"     validate:"omitempty,iso4217"`
	MinimumStay *int             `db:"minimum_stay" json:"minimum_stay" validate:"omitempty,gte=1"`
	MaximumStay *int             `db:"maximum_stay" json:"maximum_stay" validate:"omitempty,gte=1"`
	MaxGuests   *int             `db:"max_guests"   json:"max_guests"   validate:"omitempty,gte=1"`
	Status      string           `db:"status"       json:"status"       validate:"omitempty,oneof=draft active inactive archived"`
}

// Merge applies the request on top of the stored package so stay bounds can be re-validated.
func (u *UpdatePackageRequest) Merge(pkg model.Package) (model.Package, error) {
	if u.MinimumStay != nil {
		pkg.MinimumStay = *u.MinimumStay
	}

	if u.MaximumStay != nil {
		pkg.MaximumStay = u.MaximumStay
	}

	if !model.ValidStayBounds(pkg.MinimumStay, pkg.MaximumStay) {
		return pkg, failure.BadRequestFromString("minimum_stay must not exceed maximum_stay")
	}

	if u.BasePrice != nil && u.BasePrice.IsNegative() {
		return pkg, failure.BadRequestFromString("base_price must not be negative")
	}

	u.Currency = strings.ToUpper(u.Currency)

	return pkg, nil
}

type UploadImageRequest struct {
	Image string `json:"image" validate:"required,mimetypes=image/png image/jpeg image/webp,maxfilesize=5"`
}

type UploadImageResponse struct {
	URL string `json:"url"`
}

type ComponentResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	IsMandatory bool            `json:"is_mandatory"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"  swaggertype:"string"`
	TotalPrice  decimal.Decimal `json:"total_price" swaggertype:"string"`
}

func (r *ComponentResponse) FromModel(model model.Component) {
	r.ID = model.ID
	r.Type = model.Type
	r.Name = model.Name
	r.IsMandatory = model.IsMandatory
	r.Quantity = model.Quantity
	r.UnitPrice = model.UnitPrice
	r.TotalPrice = model.TotalPrice
}

type PricingRuleResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Type            string           `json:"type"`
	Conditions      model.Conditions `json:"conditions"`
	AdjustmentType  string           `json:"adjustment_type"`
	AdjustmentValue decimal.Decimal  `json:"adjustment_value" swaggertype:"string"`
	IsActive        bool             `json:"is_active"`
	Priority        int              `json:"priority"`
	Position        int              `json:"position"`
}

func (r *PricingRuleResponse) FromModel(model model.PricingRule) {
	r.ID = model.ID
	r.Name = model.Name
	r.Type = model.Type
	r.Conditions = model.Conditions
	r.AdjustmentType = model.AdjustmentType
	r.AdjustmentValue = model.AdjustmentValue
	r.IsActive = model.IsActive
	r.Priority = model.Priority
	r.Position = model.Position
}

type AvailabilityResponse struct {
	ID              string    `json:"id"`
	DateFrom        date.Date `json:"date_from"        swaggertype:"string" format:"date"`
	DateTo          date.Date `json:"date_to"          swaggertype:"string" format:"date"`
	IsAvailable     bool      `json:"is_available"`
	MaxBookings     *int      `json:"max_bookings"`
	CurrentBookings int       `json:"current_bookings"`
	BlackoutDates   date.List `json:"blackout_dates"   swaggertype:"array,string"`
	MinimumStay     *int      `json:"minimum_stay"`
	MaximumStay     *int      `json:"maximum_stay"`
}

func (r *AvailabilityResponse) FromModel(model model.Availability) {
	r.ID = model.ID
	r.DateFrom = model.DateFrom
	r.DateTo = model.DateTo
	r.IsAvailable = model.IsAvailable
	r.MaxBookings = model.MaxBookings
	r.CurrentBookings = model.CurrentBookings
	r.BlackoutDates = model.BlackoutDates
	r.MinimumStay = model.MinimumStay
	r.MaximumStay = model.MaximumStay

	if r.BlackoutDates == nil {
		r.BlackoutDates = date.List{}
	}
}

type PartnerOfferLinkResponse struct {
	PartnerOfferID    string `json:"partner_offer_id"`
	IncludedInPackage bool   `json:"included_in_package"`
	AutoBook          bool   `json:"auto_book"`
}

type PackageResponse struct {
	ID            string                     `json:"id"`
	Code          string                     `json:"code"`
	Name          string                     `json:"name"`
	Description   string                     `json:"description"`
	BasePrice     decimal.Decimal            `json:"base_price"    swaggertype:"string"`
	Currency      string                     `json:"currency"`
	MinimumStay   int                        `json:"minimum_stay"`
	MaximumStay   *int                       `json:"maximum_stay"`
	MaxGuests     int                        `json:"max_guests"`
	Status        string                     `json:"status"`
	ImageURL      string                     `json:"image_url"`
	TotalBookings int                        `json:"total_bookings"`
	TotalRevenue  decimal.Decimal            `json:"total_revenue" swaggertype:"string"`
	Components    []ComponentResponse        `json:"components,omitempty"`
	PricingRules  []PricingRuleResponse      `json:"pricing_rules,omitempty"`
	Availability  []AvailabilityResponse     `json:"availability,omitempty"`
	PartnerOffers []PartnerOfferLinkResponse `json:"partner_offers,omitempty"`
	gDto.Metadata
}

func (r *PackageResponse) FromModel(model model.Package) {
	r.ID = model.ID
	r.Code = model.Code
	r.Name = model.Name
	r.Description = model.Description
	r.BasePrice = model.BasePrice
	r.Currency = model.Currency
	r.MinimumStay = model.MinimumStay
	r.MaximumStay = model.MaximumStay
	r.MaxGuests = model.MaxGuests
	r.Status = model.Status
	r.ImageURL = model.ImageURL
	r.TotalBookings = model.TotalBookings
	r.TotalRevenue = model.TotalRevenue
	r.Metadata.FromModel(model.Metadata)

	r.Components = make([]ComponentResponse, len(model.Components))
	for i, component := range model.Components {
		r.Components[i].FromModel(component)
	}

	r.PricingRules = make([]PricingRuleResponse, len(model.PricingRules))
	for i, rule := range model.PricingRules {
		r.PricingRules[i].FromModel(rule)
	}

	r.Availability = make([]AvailabilityResponse, len(model.Availability))
	for i, window := range model.Availability {
		r.Availability[i].FromModel(window)
	}

	r.PartnerOffers = make([]PartnerOfferLinkResponse, len(model.PartnerOffers))
	for i, link := range model.PartnerOffers {
		r.PartnerOffers[i] = PartnerOfferLinkResponse{
			PartnerOfferID:    link.PartnerOfferID,
			IncludedInPackage: link.IncludedInPackage,
			AutoBook:          link.AutoBook,
		}
	}
}

type GetPackagesResponse struct {
	Packages  []PackageResponse `json:"packages"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPackagesResponse) FromModels(models []model.Package, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Packages = make([]PackageResponse, len(models))
	for i, mod := range models {
		r.Packages[i].FromModel(mod)
	}
}
