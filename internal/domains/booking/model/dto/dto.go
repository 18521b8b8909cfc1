package dto

import (
	"fmt"
	"strings"
	"time"

	"lodge/internal/domains/booking/model"
	partnerDto "lodge/internal/domains/partner/model/dto"
	stayModel "lodge/internal/domains/stay/model"
	"lodge/internal/domains/stay/pricing"
	"lodge/shared"
	"lodge/shared/date"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	gModel "lodge/shared/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type QuoteRequest struct {
	CheckInDate  string `json:"check_in_date"  validate:"required,date"`
	CheckOutDate string `json:"check_out_date" validate:"required,date"`
	Guests       int    `json:"guests"         validate:"required,gte=1"`
	LoyaltyTier  string `json:"loyalty_tier"   validate:"omitempty,max=30"`
}

// ToStay parses the requested dates. Check-in must not be before the booking day unless allowPast is set.
func (q *QuoteRequest) ToStay(bookedAt time.Time, allowPast bool) (stayModel.Stay, error) {
	if q.Guests < 1 {
		return stayModel.Stay{}, failure.BadRequestFromString("guests must be at least 1")
	}

	checkIn, err := date.Parse(q.CheckInDate)
	if err != nil {
		return stayModel.Stay{}, failure.BadRequest(fmt.Errorf("invalid check_in_date: %w", err))
	}

	checkOut, err := date.Parse(q.CheckOutDate)
	if err != nil {
		return stayModel.Stay{}, failure.BadRequest(fmt.Errorf("invalid check_out_date: %w", err))
	}

	stay := stayModel.Stay{
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Guests:      q.Guests,
		BookedAt:    bookedAt,
		LoyaltyTier: strings.ToLower(strings.TrimSpace(q.LoyaltyTier)),
	}

	if err = stay.Validate(); err != nil {
		return stayModel.Stay{}, err
	}

	if !allowPast && checkIn.Before(stay.BookedOn()) {
		return stayModel.Stay{}, failure.BadRequestFromString("check_in_date must not be in the past")
	}

	return stay, nil
}

type CreateBookingRequest struct {
	QuoteRequest
	GuestName       string `json:"guest_name"       validate:"required,max=150"`
	GuestEmail      string `json:"guest_email"      validate:"required,email,max=150"`
	GuestPhone      string `json:"guest_phone"      validate:"omitempty,max=30"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=2000"`
}

// ToModel builds a pending, unpaid booking priced by quote.
func (c *CreateBookingRequest) ToModel(pkg stayModel.Package, stay stayModel.Stay, quote pricing.Quote, reference string, metadata gModel.Metadata) model.Booking {
	var appliedRuleID *string
	if quote.AppliedRule != nil {
		id := quote.AppliedRule.ID
		appliedRuleID = &id
	}

	return model.Booking{
		ID:               uuid.NewString(),
		PackageID:        pkg.ID,
		BookingReference: reference,
		GuestName:        c.GuestName,
		GuestEmail:       c.GuestEmail,
		GuestPhone:       c.GuestPhone,
		LoyaltyTier:      stay.LoyaltyTier,
		SpecialRequests:  c.SpecialRequests,
		CheckInDate:      stay.CheckIn,
		CheckOutDate:     stay.CheckOut,
		Nights:           quote.Nights,
		GuestsCount:      stay.Guests,
		TotalPrice:       quote.TotalPrice,
		Currency:         pkg.Currency,
		AppliedRuleID:    appliedRuleID,
		Status:           model.StatusPending,
		PaymentStatus:    model.PaymentStatusUnpaid,
		Metadata:         metadata,
	}
}

type AppliedRuleResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type QuoteResponse struct {
	PackageID    string               `json:"package_id"`
	CheckInDate  date.Date            `json:"check_in_date"  swaggertype:"string" format:"date"`
	CheckOutDate date.Date            `json:"check_out_date" swaggertype:"string" format:"date"`
	Guests       int                  `json:"guests"`
	Nights       int                  `json:"nights"`
	BasePrice    decimal.Decimal      `json:"base_price"     swaggertype:"string"`
	TotalPrice   decimal.Decimal      `json:"total_price"    swaggertype:"string"`
	Currency     string               `json:"currency"`
	Occupancy    *decimal.Decimal     `json:"occupancy"      swaggertype:"string"`
	AppliedRule  *AppliedRuleResponse `json:"applied_rule"`
}

func (r *QuoteResponse) FromQuote(pkg stayModel.Package, stay stayModel.Stay, quote pricing.Quote) {
	r.PackageID = pkg.ID
	r.CheckInDate = stay.CheckIn
	r.CheckOutDate = stay.CheckOut
	r.Guests = stay.Guests
	r.Nights = quote.Nights
	r.BasePrice = quote.BasePrice
	r.TotalPrice = quote.TotalPrice
	r.Currency = pkg.Currency
	r.Occupancy = stay.Occupancy

	if quote.AppliedRule != nil {
		r.AppliedRule = &AppliedRuleResponse{
			ID:   quote.AppliedRule.ID,
			Name: quote.AppliedRule.Name,
			Type: quote.AppliedRule.Type,
		}
	}
}

type UpdateStatusRequest struct {
	Status        string `json:"status"         validate:"omitempty,oneof=confirmed cancelled completed"`
	PaymentStatus string `json:"payment_status" validate:"omitempty,oneof=unpaid partial paid refunded"`
}

func (u *UpdateStatusRequest) Validate() error {
	if u.Status == "" && u.PaymentStatus == "" {
		return failure.BadRequestFromString("status or payment_status is required")
	}

	return nil
}

type BookingResponse struct {
	ID               string          `json:"id"`
	PackageID        string          `json:"package_id"`
	AvailabilityID   *string         `json:"availability_id,omitempty"`
	BookingReference string          `json:"booking_reference"`
	GuestName        string          `json:"guest_name"`
	GuestEmail       string          `json:"guest_email"`
	GuestPhone       string          `json:"guest_phone"`
	LoyaltyTier      string          `json:"loyalty_tier"`
	SpecialRequests  string          `json:"special_requests"`
	CheckInDate      date.Date       `json:"check_in_date"     swaggertype:"string" format:"date"`
	CheckOutDate     date.Date       `json:"check_out_date"    swaggertype:"string" format:"date"`
	Nights           int             `json:"nights"`
	GuestsCount      int             `json:"guests_count"`
	TotalPrice       decimal.Decimal `json:"total_price"       swaggertype:"string"`
	Currency         string          `json:"currency"`
	AppliedRuleID    *string         `json:"applied_rule_id"`
	Status           string          `json:"status"`
	PaymentStatus    string          `json:"payment_status"`
	CancelledAt      *time.Time      `json:"cancelled_at"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.PackageID = model.PackageID
	r.AvailabilityID = model.AvailabilityID
	r.BookingReference = model.BookingReference
	r.GuestName = model.GuestName
	r.GuestEmail = model.GuestEmail
	r.GuestPhone = model.GuestPhone
	r.LoyaltyTier = model.LoyaltyTier
	r.SpecialRequests = model.SpecialRequests
	r.CheckInDate = model.CheckInDate
	r.CheckOutDate = model.CheckOutDate
	r.Nights = model.Nights
	r.GuestsCount = model.GuestsCount
	r.TotalPrice = model.TotalPrice
	r.Currency = model.Currency
	r.AppliedRuleID = model.AppliedRuleID
	r.Status = model.Status
	r.PaymentStatus = model.PaymentStatus
	r.CancelledAt = model.CancelledAt
	r.Metadata.FromModel(model.Metadata)
}

// BookingResult is returned when a booking is created. Partner reservations that could not be
// made are listed as warnings.
type BookingResult struct {
	Booking             BookingResponse                  `json:"booking"`
	PartnerReservations []partnerDto.ReservationResponse `json:"partner_reservations"`
	Warnings            []model.PartnerBookingWarning    `json:"warnings"`
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
