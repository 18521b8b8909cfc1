package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"

	"lodge/shared/date"
	"lodge/shared/model"

	"github.com/shopspring/decimal"
)

const (
	PricingRuleTableName  = "package_pricing_rules"
	PricingRuleEntityName = "package_pricing_rule"

	FieldPriority = "priority"
	FieldPosition = "position"
)

const (
	RuleTypeBase       = "base"
	RuleTypeSeasonal   = "seasonal"
	RuleTypeOccupancy  = "occupancy"
	RuleTypeEarlyBird  = "early_bird"
	RuleTypeLastMinute = "last_minute"
	RuleTypeLoyalty    = "loyalty"
)

const (
	AdjustmentFixed      = "fixed"
	AdjustmentPercentage = "percentage"
	AdjustmentMultiplier = "multiplier"
)

type PricingRule struct {
	ID              string          `db:"id"`
	PackageID       string          `db:"package_id"`
	Name            string          `db:"name"`
	Type            string          `db:"type"`
	Conditions      Conditions      `db:"conditions"`
	AdjustmentType  string          `db:"adjustment_type"`
	AdjustmentValue decimal.Decimal `db:"adjustment_value"`
	IsActive        bool            `db:"is_active"`
	Priority        int             `db:"priority"`
	Position        int             `db:"position"`
	model.Metadata
}

// Conditions is the optional predicate of a pricing rule. Unset fields do not constrain the stay.
type Conditions struct {
	DateFrom          *date.Date       `json:"date_from,omitempty"`
	DateTo            *date.Date       `json:"date_to,omitempty"`
	MinStay           *int             `json:"min_stay,omitempty"`
	MaxStay           *int             `json:"max_stay,omitempty"`
	MinOccupancy      *decimal.Decimal `json:"min_occupancy,omitempty"`
	MaxOccupancy      *decimal.Decimal `json:"max_occupancy,omitempty"`
	BookingWindowDays *int             `json:"booking_window_days,omitempty"`
	LoyaltyTiers      []string         `json:"loyalty_tiers,omitempty"`
}

func (c Conditions) HasLoyaltyTier(tier string) bool {
	return slices.Contains(c.LoyaltyTiers, tier)
}

func (c *Conditions) Scan(src any) error {
	var raw []byte

	switch value := src.(type) {
	case nil:
		*c = Conditions{}

		return nil
	case []byte:
		raw = value
	case string:
		raw = []byte(value)
	default:
		return fmt.Errorf("cannot scan %T into conditions", src)
	}

	var out Conditions
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to decode conditions: %w", err)
	}

	*c = out

	return nil
}

func (c Conditions) Value() (driver.Value, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode conditions: %w", err)
	}

	return string(raw), nil
}
