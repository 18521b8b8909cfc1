package model

import (
	"lodge/shared/date"
	"lodge/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "partners"
	EntityName = "partner"

	FieldID        = "id"
	FieldName      = "name"
	FieldCategory  = "category"
	FieldIsActive  = "is_active"
	FieldPartnerID = "partner_id"
)

const (
	CategoryDining    = "dining"
	CategorySpa       = "spa"
	CategoryTour      = "tour"
	CategoryTransport = "transport"
	CategoryActivity  = "activity"
)

type Partner struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Category     string `db:"category"`
	ContactEmail string `db:"contact_email"`
	IsActive     bool   `db:"is_active"`
	model.Metadata
}

const (
	OfferTableName  = "partner_offers"
	OfferEntityName = "partner_offer"

	FieldTitle = "title"
	FieldPrice = "price"
)

type Offer struct {
	ID              string          `db:"id"`
	PartnerID       string          `db:"partner_id"`
	Title           string          `db:"title"`
	Description     string          `db:"description"`
	Price           decimal.Decimal `db:"price"`
	Currency        string          `db:"currency"`
	CapacityPerSlot int             `db:"capacity_per_slot"`
	IsActive        bool            `db:"is_active"`
	model.Metadata
}

// Seats caps a party to the offer's slot capacity. Non-positive capacity is unlimited.
func (o Offer) Seats(people int) int {
	if o.CapacityPerSlot > 0 && people > o.CapacityPerSlot {
		return o.CapacityPerSlot
	}

	return people
}

const (
	ReservationTableName  = "partner_reservations"
	ReservationEntityName = "partner_reservation"

	FieldPartnerOfferID   = "partner_offer_id"
	FieldPackageBookingID = "package_booking_id"
	FieldReservationDate  = "reservation_date"
	FieldStatus           = "status"
)

const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
)

type Reservation struct {
	ID               string          `db:"id"`
	PartnerOfferID   string          `db:"partner_offer_id"`
	PackageBookingID string          `db:"package_booking_id"`
	GuestName        string          `db:"guest_name"`
	ReservationDate  date.Date       `db:"reservation_date"`
	NumberOfPeople   int             `db:"number_of_people"`
	TotalPrice       decimal.Decimal `db:"total_price"`
	Status           string          `db:"status"`
	model.Metadata
}

// NewReservation books an offer for a package booking's party on its check-in date.
func NewReservation(id string, offer Offer, bookingID, guestName string, on date.Date, guests int, metadata model.Metadata) Reservation {
	people := offer.Seats(guests)

	return Reservation{
		ID:               id,
		PartnerOfferID:   offer.ID,
		PackageBookingID: bookingID,
		GuestName:        guestName,
		ReservationDate:  on,
		NumberOfPeople:   people,
		TotalPrice:       offer.Price.Mul(decimal.NewFromInt(int64(people))).Round(2),
		Status:           ReservationStatusPending,
		Metadata:         metadata,
	}
}
