package model

import (
	"lodge/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "stay_packages"
	EntityName = "package"

	FieldID            = "id"
	FieldCode          = "code"
	FieldName          = "name"
	FieldDescription   = "description"
	FieldBasePrice     = "base_price"
	FieldCurrency      = "currency"
	FieldMinimumStay   = "minimum_stay"
	FieldMaximumStay   = "maximum_stay"
	FieldMaxGuests     = "max_guests"
	FieldStatus        = "status"
	FieldImageURL      = "image_url"
	FieldTotalBookings = "total_bookings"
	FieldTotalRevenue  = "total_revenue"
	FieldPackageID     = "package_id"
)

const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"
)

const (
	ComponentTypeRoom    = "room"
	ComponentTypeMeal    = "meal"
	ComponentTypeService = "service"
	ComponentTypeAmenity = "amenity"
)

// Rejection reasons reported by the availability tracker.
const (
	ReasonTooManyGuests       = "too_many_guests"
	ReasonMinimumStayNotMet   = "minimum_stay_not_met"
	ReasonMaximumStayExceeded = "maximum_stay_exceeded"
	ReasonNotAvailable        = "not_available"
	ReasonBlackoutDate        = "blackout_date"
)

// Package is a sellable stay bundle. Components, PricingRules, Availability and
// PartnerOffers are loaded by the repository and are not columns of the package row.
type Package struct {
	ID            string          `db:"id"`
	Code          string          `db:"code"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	BasePrice     decimal.Decimal `db:"base_price"`
	Currency      string          `db:"currency"`
	MinimumStay   int             `db:"minimum_stay"`
	MaximumStay   *int            `db:"maximum_stay"`
	MaxGuests     int             `db:"max_guests"`
	Status        string          `db:"status"`
	ImageURL      string          `db:"image_url"`
	TotalBookings int             `db:"total_bookings"`
	TotalRevenue  decimal.Decimal `db:"total_revenue"`
	model.Metadata

	Components    []Component        `db:"-"`
	PricingRules  []PricingRule      `db:"-"`
	Availability  []Availability     `db:"-"`
	PartnerOffers []PartnerOfferLink `db:"-"`
}

func (p Package) IsActive() bool {
	return p.Status == StatusActive
}

// ValidStayBounds reports whether the minimum and maximum stay are consistent.
func ValidStayBounds(minimum int, maximum *int) bool {
	if minimum < 1 {
		return false
	}

	return maximum == nil || minimum <= *maximum
}

const (
	ComponentTableName  = "package_components"
	ComponentEntityName = "package_component"
)

type Component struct {
	ID          string          `db:"id"`
	PackageID   string          `db:"package_id"`
	Type        string          `db:"type"`
	Name        string          `db:"name"`
	IsMandatory bool            `db:"is_mandatory"`
	Quantity    int             `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	TotalPrice  decimal.Decimal `db:"total_price"`
	model.Metadata
}

const (
	PartnerOfferTableName  = "package_partner_offers"
	PartnerOfferEntityName = "package_partner_offer"

	FieldPartnerOfferID = "partner_offer_id"
)

// PartnerOfferLink refers to a partner offer by id. The package does not own the offer.
type PartnerOfferLink struct {
	ID                string `db:"id"`
	PackageID         string `db:"package_id"`
	PartnerOfferID    string `db:"partner_offer_id"`
	IncludedInPackage bool   `db:"included_in_package"`
	AutoBook          bool   `db:"auto_book"`
	model.Metadata
}

// AutoBookable reports whether a package booking should reserve this offer.
func (l PartnerOfferLink) AutoBookable() bool {
	return l.IncludedInPackage && l.AutoBook
}
