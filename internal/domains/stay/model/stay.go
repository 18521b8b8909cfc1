package model

import (
	"time"

	"lodge/shared/date"
	"lodge/shared/failure"

	"github.com/shopspring/decimal"
)

var ErrInvalidRange = failure.BadRequestFromString("check-out date must be after check-in date")

// Stay is the request being priced or checked: the dates, party size and when the booking is made.
type Stay struct {
	CheckIn     date.Date
	CheckOut    date.Date
	Guests      int
	BookedAt    time.Time
	LoyaltyTier string
	Occupancy   *decimal.Decimal
}

func (s Stay) Nights() int {
	return s.CheckIn.DaysUntil(s.CheckOut)
}

// BookedOn is the calendar day the booking is made, in the clock's location.
func (s Stay) BookedOn() date.Date {
	return date.Of(s.BookedAt)
}

// LeadDays is the number of days between the booking day and check-in.
func (s Stay) LeadDays() int {
	return s.BookedOn().DaysUntil(s.CheckIn)
}

// Nightly lists the occupied nights, check-in included and check-out excluded.
func (s Stay) Nightly() []date.Date {
	return date.Range(s.CheckIn, s.CheckOut)
}

func (s Stay) Validate() error {
	if s.CheckIn.IsZero() || s.CheckOut.IsZero() || s.Nights() <= 0 {
		return ErrInvalidRange
	}

	return nil
}
