package model

import (
	"lodge/shared/date"
	"lodge/shared/model"

	"github.com/shopspring/decimal"
)

const (
	AvailabilityTableName  = "package_availability"
	AvailabilityEntityName = "package_availability"

	FieldDateFrom        = "date_from"
	FieldDateTo          = "date_to"
	FieldIsAvailable     = "is_available"
	FieldMaxBookings     = "max_bookings"
	FieldCurrentBookings = "current_bookings"
)

var hundred = decimal.NewFromInt(100)

// Availability is a bookable window [DateFrom, DateTo] of one package.
type Availability struct {
	ID              string    `db:"id"`
	PackageID       string    `db:"package_id"`
	DateFrom        date.Date `db:"date_from"`
	DateTo          date.Date `db:"date_to"`
	IsAvailable     bool      `db:"is_available"`
	MaxBookings     *int      `db:"max_bookings"`
	CurrentBookings int       `db:"current_bookings"`
	BlackoutDates   date.List `db:"blackout_dates"`
	MinimumStay     *int      `db:"minimum_stay"`
	MaximumStay     *int      `db:"maximum_stay"`
	model.Metadata
}

// Contains reports whether the whole stay [checkIn, checkOut] lies inside the window.
func (a Availability) Contains(checkIn, checkOut date.Date) bool {
	return !a.DateFrom.After(checkIn) && !checkOut.After(a.DateTo)
}

// HasCapacity reports whether one more booking fits under MaxBookings.
func (a Availability) HasCapacity() bool {
	return a.MaxBookings == nil || a.CurrentBookings < *a.MaxBookings
}

// Reserved returns the window as it looks after one more booking was counted.
func (a Availability) Reserved() Availability {
	a.CurrentBookings++

	return a
}

// Released returns the window as it looks after one booking was given back.
func (a Availability) Released() Availability {
	a.CurrentBookings = max(a.CurrentBookings-1, 0)

	return a
}

// OccupancyRate is CurrentBookings as a percentage of MaxBookings, or nil for uncapped windows.
func (a Availability) OccupancyRate() *decimal.Decimal {
	if a.MaxBookings == nil || *a.MaxBookings <= 0 {
		return nil
	}

	rate := decimal.NewFromInt(int64(a.CurrentBookings)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(*a.MaxBookings))).
		Round(2)

	return &rate
}
