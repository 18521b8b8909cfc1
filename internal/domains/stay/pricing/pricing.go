// Package pricing computes the guest-facing price of a stay from a package's base rate and
// its prioritised pricing rules. Evaluation is pure: the booking instant is part of the input.
package pricing

import (
	"cmp"
	"slices"

	"lodge/internal/domains/stay/model"

	"github.com/shopspring/decimal"
)

const pricePrecision = 2

var hundred = decimal.NewFromInt(100)

type Quote struct {
	Nights      int
	BasePrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	AppliedRule *model.PricingRule
}

// Evaluate prices the stay. The highest priority active rule whose conditions match is applied
// and evaluation stops there; rules never stack. Equal priorities keep their list order.
func Evaluate(pkg model.Package, stay model.Stay) (Quote, error) {
	if err := stay.Validate(); err != nil {
		return Quote{}, err
	}

	nights := stay.Nights()
	base := pkg.BasePrice.Mul(decimal.NewFromInt(int64(nights)))

	quote := Quote{
		Nights:     nights,
		BasePrice:  base,
		TotalPrice: clamp(base),
	}

	for _, rule := range Candidates(pkg.PricingRules) {
		if !Matches(rule, stay) {
			continue
		}

		quote.TotalPrice = clamp(Apply(base, rule))
		quote.AppliedRule = &rule

		break
	}

	return quote, nil
}

// Candidates returns the active rules ordered by priority, highest first.
func Candidates(rules []model.PricingRule) []model.PricingRule {
	active := make([]model.PricingRule, 0, len(rules))

	for _, rule := range rules {
		if rule.IsActive {
			active = append(active, rule)
		}
	}

	slices.SortStableFunc(active, func(a, b model.PricingRule) int {
		return cmp.Compare(b.Priority, a.Priority)
	})

	return active
}

// Matches reports whether the rule's conditions hold for the stay. A rule whose relevant
// condition fields are all unset matches any stay.
func Matches(rule model.PricingRule, stay model.Stay) bool {
	cond := rule.Conditions

	switch rule.Type {
	case model.RuleTypeSeasonal:
		return stay.CheckIn.Within(deref(cond.DateFrom), deref(cond.DateTo))
	case model.RuleTypeEarlyBird:
		return cond.BookingWindowDays == nil || stay.LeadDays() >= *cond.BookingWindowDays
	case model.RuleTypeLastMinute:
		return cond.BookingWindowDays == nil || stay.LeadDays() <= *cond.BookingWindowDays
	case model.RuleTypeBase:
		nights := stay.Nights()

		if cond.MinStay != nil && nights < *cond.MinStay {
			return false
		}

		return cond.MaxStay == nil || nights <= *cond.MaxStay
	case model.RuleTypeOccupancy:
		if cond.MinOccupancy == nil && cond.MaxOccupancy == nil {
			return true
		}

		if stay.Occupancy == nil {
			return false
		}

		if cond.MinOccupancy != nil && stay.Occupancy.LessThan(*cond.MinOccupancy) {
			return false
		}

		return cond.MaxOccupancy == nil || !stay.Occupancy.GreaterThan(*cond.MaxOccupancy)
	case model.RuleTypeLoyalty:
		return len(cond.LoyaltyTiers) == 0 || cond.HasLoyaltyTier(stay.LoyaltyTier)
	default:
		return false
	}
}

// Apply adjusts price by a single rule. Percentage values are discounts: 15 takes 15% off.
func Apply(price decimal.Decimal, rule model.PricingRule) decimal.Decimal {
	value := rule.AdjustmentValue

	switch rule.AdjustmentType {
	case model.AdjustmentPercentage:
		return price.Mul(decimal.NewFromInt(1).Sub(value.Div(hundred)))
	case model.AdjustmentFixed:
		return price.Sub(value)
	case model.AdjustmentMultiplier:
		return price.Mul(value)
	default:
		return price
	}
}

func clamp(price decimal.Decimal) decimal.Decimal {
	if price.IsNegative() {
		return decimal.Zero.Round(pricePrecision)
	}

	return price.Round(pricePrecision)
}

func deref[T any](value *T) T {
	var zero T
	if value == nil {
		return zero
	}

	return *value
}
