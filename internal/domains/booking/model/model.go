package model

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	partnerModel "lodge/internal/domains/partner/model"
	"lodge/shared/date"
	"lodge/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "package_bookings"
	EntityName = "booking"

	FieldID               = "id"
	FieldPackageID        = "package_id"
	FieldAvailabilityID   = "availability_id"
	FieldBookingReference = "booking_reference"
	FieldGuestName        = "guest_name"
	FieldGuestEmail       = "guest_email"
	FieldCheckInDate      = "check_in_date"
	FieldCheckOutDate     = "check_out_date"
	FieldTotalPrice       = "total_price"
	FieldStatus           = "status"
	FieldPaymentStatus    = "payment_status"
	FieldCancelledAt      = "cancelled_at"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPartial  = "partial"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	return slices.Contains(transitions[from], to)
}

// Cancellable lists the statuses a booking can be cancelled from.
func Cancellable() []string {
	return []string{StatusPending, StatusConfirmed}
}

type Booking struct {
	ID               string          `db:"id"`
	PackageID        string          `db:"package_id"`
	AvailabilityID   *string         `db:"availability_id"`
	BookingReference string          `db:"booking_reference"`
	GuestName        string          `db:"guest_name"`
	GuestEmail       string          `db:"guest_email"`
	GuestPhone       string          `db:"guest_phone"`
	LoyaltyTier      string          `db:"loyalty_tier"`
	SpecialRequests  string          `db:"special_requests"`
	CheckInDate      date.Date       `db:"check_in_date"`
	CheckOutDate     date.Date       `db:"check_out_date"`
	Nights           int             `db:"nights"`
	GuestsCount      int             `db:"guests_count"`
	TotalPrice       decimal.Decimal `db:"total_price"`
	Currency         string          `db:"currency"`
	AppliedRuleID    *string         `db:"applied_rule_id"`
	Status           string          `db:"status"`
	PaymentStatus    string          `db:"payment_status"`
	CancelledAt      *time.Time      `db:"cancelled_at"`
	model.Metadata
}

func (b Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// WindowID is the availability window the booking holds a slot in. It is empty for bookings
// stored before the window was recorded.
func (b Booking) WindowID() string {
	if b.AvailabilityID == nil {
		return ""
	}

	return *b.AvailabilityID
}

const referenceRandomBytes = 6

// NewReference builds a booking reference such as PKG-ROMANCE-9F3A1C07B2D4.
func NewReference(prefix, packageCode string) (string, error) {
	buf := make([]byte, referenceRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate booking reference: %w", err)
	}

	return strings.Join([]string{prefix, strings.ToUpper(packageCode), strings.ToUpper(hex.EncodeToString(buf))}, "-"), nil
}

// PartnerBookingWarning describes a partner reservation that could not be made. It never fails the booking.
type PartnerBookingWarning struct {
	PartnerOfferID string `json:"partner_offer_id"`
	Message        string `json:"message"`
}

var (
	ErrOfferNotFound = errors.New("partner offer no longer exists")
	ErrOfferInactive = errors.New("partner offer is not active")
)

// PartnerResult is the outcome of one partner auto-book attempt.
type PartnerResult struct {
	PartnerOfferID string
	Reservation    *partnerModel.Reservation
	Err            error
}

// Warning returns the guest-facing warning for a failed attempt, nil when the reservation was made.
func (r PartnerResult) Warning() *PartnerBookingWarning {
	if r.Err == nil {
		return nil
	}

	message := "partner reservation could not be created"
	if errors.Is(r.Err, ErrOfferNotFound) || errors.Is(r.Err, ErrOfferInactive) {
		message = r.Err.Error()
	}

	return &PartnerBookingWarning{
		PartnerOfferID: r.PartnerOfferID,
		Message:        message,
	}
}

const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingCancelled     = "booking.cancelled"
)

// Event is published whenever a booking is created or changes status.
type Event struct {
	Type             string          `json:"type"`
	BookingID        string          `json:"booking_id"`
	PackageID        string          `json:"package_id"`
	BookingReference string          `json:"booking_reference"`
	Status           string          `json:"status"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	OccurredAt       time.Time       `json:"occurred_at"`
}

func NewEvent(eventType string, booking Booking, at time.Time) Event {
	return Event{
		Type:             eventType,
		BookingID:        booking.ID,
		PackageID:        booking.PackageID,
		BookingReference: booking.BookingReference,
		Status:           booking.Status,
		TotalPrice:       booking.TotalPrice,
		OccurredAt:       at,
	}
}
