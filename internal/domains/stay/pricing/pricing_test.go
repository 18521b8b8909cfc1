package pricing_test

import (
	"testing"
	"time"

	"lodge/internal/domains/stay/model"
	"lodge/internal/domains/stay/pricing"
	"lodge/shared/date"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func datePtr(v string) *date.Date {
	d := date.MustParse(v)

	return &d
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)

	return &d
}

func valentinePackage() model.Package {
	return model.Package{
		ID:          "pkg-1",
		Code:        "ROMANCE",
		BasePrice:   decimal.NewFromInt(100),
		MinimumStay: 2,
		MaxGuests:   2,
		Status:      model.StatusActive,
		PricingRules: []model.PricingRule{
			{
				ID:       "rule-early-bird",
				Type:     model.RuleTypeEarlyBird,
				Priority: 5,
				IsActive: true,
				Conditions: model.Conditions{
					BookingWindowDays: intPtr(30),
				},
				AdjustmentType:  model.AdjustmentPercentage,
				AdjustmentValue: decimal.NewFromInt(10),
			},
			{
				ID:       "rule-seasonal",
				Type:     model.RuleTypeSeasonal,
				Priority: 10,
				IsActive: true,
				Conditions: model.Conditions{
					DateFrom: datePtr("2025-02-10"),
					DateTo:   datePtr("2025-02-16"),
				},
				AdjustmentType:  model.AdjustmentPercentage,
				AdjustmentValue: decimal.NewFromInt(15),
			},
		},
	}
}

func stayOf(checkIn string, nights, leadDays int) model.Stay {
	in := date.MustParse(checkIn)

	return model.Stay{
		CheckIn:  in,
		CheckOut: in.AddDays(nights),
		Guests:   2,
		BookedAt: in.AddDays(-leadDays).Time().Add(9 * time.Hour),
	}
}

func TestEvaluate_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		stay     model.Stay
		wantRule string
		want     string
	}{
		{
			name:     "seasonal wins over early bird",
			stay:     stayOf("2025-02-14", 2, 45),
			wantRule: "rule-seasonal",
			want:     "170",
		},
		{
			name:     "early bird outside the season",
			stay:     stayOf("2025-03-01", 2, 45),
			wantRule: "rule-early-bird",
			want:     "180",
		},
		{
			name: "no rule matches",
			stay: stayOf("2025-03-01", 3, 5),
			want: "300",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := pricing.Evaluate(valentinePackage(), tt.stay)
			require.NoError(t, err)

			assert.True(t, decimal.RequireFromString(tt.want).Equal(quote.TotalPrice), "got %s", quote.TotalPrice)
			assert.Equal(t, tt.stay.Nights(), quote.Nights)

			if tt.wantRule == "" {
				assert.Nil(t, quote.AppliedRule)

				return
			}

			require.NotNil(t, quote.AppliedRule)
			assert.Equal(t, tt.wantRule, quote.AppliedRule.ID)
		})
	}
}

func TestEvaluate_InvalidRange(t *testing.T) {
	stay := stayOf("2025-03-01", 0, 10)

	_, err := pricing.Evaluate(valentinePackage(), stay)
	assert.ErrorIs(t, err, model.ErrInvalidRange)

	stay.CheckOut = stay.CheckIn.AddDays(-1)
	_, err = pricing.Evaluate(valentinePackage(), stay)
	assert.ErrorIs(t, err, model.ErrInvalidRange)
}

func TestEvaluate_NeverStacks(t *testing.T) {
	pkg := valentinePackage()
	pkg.PricingRules = append(pkg.PricingRules, model.PricingRule{
		ID:              "rule-base",
		Type:            model.RuleTypeBase,
		Priority:        1,
		IsActive:        true,
		AdjustmentType:  model.AdjustmentFixed,
		AdjustmentValue: decimal.NewFromInt(50),
	})

	quote, err := pricing.Evaluate(pkg, stayOf("2025-02-14", 2, 45))
	require.NoError(t, err)

	assert.Equal(t, "rule-seasonal", quote.AppliedRule.ID)
	assert.True(t, decimal.NewFromInt(170).Equal(quote.TotalPrice))
}

func TestEvaluate_NeverNegative(t *testing.T) {
	adjustments := []model.PricingRule{
		{Type: model.RuleTypeBase, AdjustmentType: model.AdjustmentFixed, AdjustmentValue: decimal.NewFromInt(1000)},
		{Type: model.RuleTypeBase, AdjustmentType: model.AdjustmentPercentage, AdjustmentValue: decimal.NewFromInt(150)},
		{Type: model.RuleTypeBase, AdjustmentType: model.AdjustmentMultiplier, AdjustmentValue: decimal.NewFromInt(-2)},
	}

	for _, rule := range adjustments {
		t.Run(rule.AdjustmentType, func(t *testing.T) {
			rule.IsActive = true
			pkg := model.Package{BasePrice: decimal.NewFromInt(80), PricingRules: []model.PricingRule{rule}}

			quote, err := pricing.Evaluate(pkg, stayOf("2025-05-01", 2, 3))
			require.NoError(t, err)

			assert.True(t, quote.TotalPrice.IsZero())
			assert.NotNil(t, quote.AppliedRule)
		})
	}
}

func TestCandidates(t *testing.T) {
	rules := []model.PricingRule{
		{ID: "a", Priority: 1, IsActive: true},
		{ID: "b", Priority: 5, IsActive: true},
		{ID: "inactive", Priority: 99, IsActive: false},
		{ID: "c", Priority: 5, IsActive: true},
		{ID: "d", Priority: 3, IsActive: true},
	}

	got := pricing.Candidates(rules)

	ids := make([]string, len(got))
	for i, rule := range got {
		ids[i] = rule.ID
	}

	assert.Equal(t, []string{"b", "c", "d", "a"}, ids)
}

func TestEvaluate_TieKeepsInsertionOrder(t *testing.T) {
	pkg := model.Package{
		BasePrice: decimal.NewFromInt(100),
		PricingRules: []model.PricingRule{
			{ID: "first", Type: model.RuleTypeBase, Priority: 5, IsActive: true, AdjustmentType: model.AdjustmentFixed, AdjustmentValue: decimal.NewFromInt(10)},
			{ID: "second", Type: model.RuleTypeBase, Priority: 5, IsActive: true, AdjustmentType: model.AdjustmentFixed, AdjustmentValue: decimal.NewFromInt(20)},
		},
	}

	quote, err := pricing.Evaluate(pkg, stayOf("2025-05-01", 1, 0))
	require.NoError(t, err)

	assert.Equal(t, "first", quote.AppliedRule.ID)
	assert.True(t, decimal.NewFromInt(90).Equal(quote.TotalPrice))
}

func TestMatches(t *testing.T) {
	base := stayOf("2025-06-10", 3, 20)
	gold := base
	gold.LoyaltyTier = "gold"
	busy := base
	busy.Occupancy = decPtr(80)

	tests := []struct {
		name string
		rule model.PricingRule
		stay model.Stay
		want bool
	}{
		{name: "seasonal inside", rule: model.PricingRule{Type: model.RuleTypeSeasonal, Conditions: model.Conditions{DateFrom: datePtr("2025-06-01"), DateTo: datePtr("2025-06-10")}}, stay: base, want: true},
		{name: "seasonal outside", rule: model.PricingRule{Type: model.RuleTypeSeasonal, Conditions: model.Conditions{DateFrom: datePtr("2025-06-11")}}, stay: base, want: false},
		{name: "seasonal open", rule: model.PricingRule{Type: model.RuleTypeSeasonal}, stay: base, want: true},
		{name: "early bird met", rule: model.PricingRule{Type: model.RuleTypeEarlyBird, Conditions: model.Conditions{BookingWindowDays: intPtr(20)}}, stay: base, want: true},
		{name: "early bird missed", rule: model.PricingRule{Type: model.RuleTypeEarlyBird, Conditions: model.Conditions{BookingWindowDays: intPtr(21)}}, stay: base, want: false},
		{name: "last minute met", rule: model.PricingRule{Type: model.RuleTypeLastMinute, Conditions: model.Conditions{BookingWindowDays: intPtr(20)}}, stay: base, want: true},
		{name: "last minute missed", rule: model.PricingRule{Type: model.RuleTypeLastMinute, Conditions: model.Conditions{BookingWindowDays: intPtr(7)}}, stay: base, want: false},
		{name: "base min stay met", rule: model.PricingRule{Type: model.RuleTypeBase, Conditions: model.Conditions{MinStay: intPtr(3)}}, stay: base, want: true},
		{name: "base min stay missed", rule: model.PricingRule{Type: model.RuleTypeBase, Conditions: model.Conditions{MinStay: intPtr(4)}}, stay: base, want: false},
		{name: "base max stay exceeded", rule: model.PricingRule{Type: model.RuleTypeBase, Conditions: model.Conditions{MaxStay: intPtr(2)}}, stay: base, want: false},
		{name: "occupancy unbounded", rule: model.PricingRule{Type: model.RuleTypeOccupancy}, stay: base, want: true},
		{name: "occupancy unknown", rule: model.PricingRule{Type: model.RuleTypeOccupancy, Conditions: model.Conditions{MinOccupancy: decPtr(70)}}, stay: base, want: false},
		{name: "occupancy in band", rule: model.PricingRule{Type: model.RuleTypeOccupancy, Conditions: model.Conditions{MinOccupancy: decPtr(70), MaxOccupancy: decPtr(80)}}, stay: busy, want: true},
		{name: "occupancy below band", rule: model.PricingRule{Type: model.RuleTypeOccupancy, Conditions: model.Conditions{MinOccupancy: decPtr(90)}}, stay: busy, want: false},
		{name: "loyalty member", rule: model.PricingRule{Type: model.RuleTypeLoyalty, Conditions: model.Conditions{LoyaltyTiers: []string{"gold", "platinum"}}}, stay: gold, want: true},
		{name: "loyalty guest", rule: model.PricingRule{Type: model.RuleTypeLoyalty, Conditions: model.Conditions{LoyaltyTiers: []string{"gold"}}}, stay: base, want: false},
		{name: "loyalty any tier", rule: model.PricingRule{Type: model.RuleTypeLoyalty}, stay: base, want: true},
		{name: "unknown type", rule: model.PricingRule{Type: "surge"}, stay: base, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pricing.Matches(tt.rule, tt.stay))
		})
	}
}

func TestApply(t *testing.T) {
	price := decimal.NewFromInt(200)

	assert.True(t, decimal.NewFromInt(170).Equal(pricing.Apply(price, model.PricingRule{AdjustmentType: model.AdjustmentPercentage, AdjustmentValue: decimal.NewFromInt(15)})))
	assert.True(t, decimal.NewFromInt(230).Equal(pricing.Apply(price, model.PricingRule{AdjustmentType: model.AdjustmentPercentage, AdjustmentValue: decimal.NewFromInt(-15)})))
	assert.True(t, decimal.NewFromInt(175).Equal(pricing.Apply(price, model.PricingRule{AdjustmentType: model.AdjustmentFixed, AdjustmentValue: decimal.NewFromInt(25)})))
	assert.True(t, decimal.NewFromInt(300).Equal(pricing.Apply(price, model.PricingRule{AdjustmentType: model.AdjustmentMultiplier, AdjustmentValue: decimal.RequireFromString("1.5")})))
	assert.True(t, price.Equal(pricing.Apply(price, model.PricingRule{AdjustmentType: "unknown"})))
}
