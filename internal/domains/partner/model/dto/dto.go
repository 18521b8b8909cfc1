package dto

import (
	"strings"

	"lodge/internal/domains/partner/model"
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

type CreatePartnerRequest struct {
	Name         string `json:"name"          validate:"required,max=150"`
	Category     string `json:"category"      validate:"required,oneof=dining spa tour transport activity"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	IsActive     *bool  `json:"is_active"`
}

func (c *CreatePartnerRequest) ToModel(user string) model.Partner {
	return model.Partner{
		ID:           uuid.NewString(),
		Name:         c.Name,
		Category:     c.Category,
		ContactEmail: c.ContactEmail,
		IsActive:     c.IsActive == nil || *c.IsActive,
		Metadata:     gModel.NewMetadata(user, timezone.Now()),
	}
}

type CreateOfferRequest struct {
	Title           string          `json:"title"             validate:"required,max=150"`
	Description     string          `json:"description"       validate:"omitempty,max=2000"`
	Price           decimal.Decimal `json:"price"             swaggertype:"string"`
	Currency        string          `json:"currency"          validate:"omitempty,iso4217"`
	CapacityPerSlot int             `json:"capacity_per_slot"`
	IsActive        *bool           `json:"is_active"`
}

func (c *CreateOfferRequest) ToModel(partnerID, user string) (model.Offer, error) {
	if c.Price.IsNegative() {
		return model.Offer{}, failure.BadRequestFromString("price must not be negative")
	}

	currency := strings.ToUpper(c.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}

	return model.Offer{
		ID:              uuid.NewString(),
		PartnerID:       partnerID,
		Title:           c.Title,
		Description:     c.Description,
		Price:           c.Price,
		Currency:        currency,
		CapacityPerSlot: c.CapacityPerSlot,
		IsActive:        c.IsActive == nil || *c.IsActive,
		Metadata:        gModel.NewMetadata(user, timezone.Now()),
	}, nil
}

type PartnerResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	ContactEmail string `json:"contact_email"`
	IsActive     bool   `json:"is_active"`
	gDto.Metadata
}

func (r *PartnerResponse) FromModel(model model.Partner) {
	r.ID = model.ID
	r.Name = model.Name
	r.Category = model.Category
	r.ContactEmail = model.ContactEmail
	r.IsActive = model.IsActive
	r.Metadata.FromModel(model.Metadata)
}

type GetPartnersResponse struct {
	Partners  []PartnerResponse `json:"partners"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetPartnersResponse) FromModels(models []model.Partner, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Partners = make([]PartnerResponse, len(models))
	for i, mod := range models {
		r.Partners[i].FromModel(mod)
	}
}

type OfferResponse struct {
	ID              string          `json:"id"`
	PartnerID       string          `json:"partner_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"             swaggertype:"string"`
	Currency        string          `json:"currency"`
	CapacityPerSlot int             `json:"capacity_per_slot"`
	IsActive        bool            `json:"is_active"`
	gDto.Metadata
}

func (r *OfferResponse) FromModel(model model.Offer) {
	r.ID = model.ID
	r.PartnerID = model.PartnerID
	r.Title = model.Title
	r.Description = model.Description
	r.Price = model.Price
	r.Currency = model.Currency
	r.CapacityPerSlot = model.CapacityPerSlot
	r.IsActive = model.IsActive
	r.Metadata.FromModel(model.Metadata)
}

type GetOffersResponse struct {
	Offers    []OfferResponse `json:"offers"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetOffersResponse) FromModels(models []model.Offer, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Offers = make([]OfferResponse, len(models))
	for i, mod := range models {
		r.Offers[i].FromModel(mod)
	}
}

type ReservationResponse struct {
	ID               string          `json:"id"`
	PartnerOfferID   string          `json:"partner_offer_id"`
	PackageBookingID string          `json:"package_booking_id"`
	GuestName        string          `json:"guest_name"`
	ReservationDate  date.Date       `json:"reservation_date"  swaggertype:"string" format:"date"`
	NumberOfPeople   int             `json:"number_of_people"`
	TotalPrice       decimal.Decimal `json:"total_price"       swaggertype:"string"`
	Status           string          `json:"status"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.PartnerOfferID = model.PartnerOfferID
	r.PackageBookingID = model.PackageBookingID
	r.GuestName = model.GuestName
	r.ReservationDate = model.ReservationDate
	r.NumberOfPeople = model.NumberOfPeople
	r.TotalPrice = model.TotalPrice
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

func FromReservations(models []model.Reservation) []ReservationResponse {
	res := make([]ReservationResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
