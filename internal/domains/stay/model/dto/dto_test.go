package dto_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"lodge/internal/domains/stay/model"
	"lodge/internal/domains/stay/model/dto"
	"lodge/shared/date"
	"lodge/shared/failure"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func TestCreatePackageRequest_ToModel(t *testing.T) {
	inactive := false

	req := dto.CreatePackageRequest{
		Code:        " romance-weekend ",
		Name:        "Romance Weekend",
		BasePrice:   decimal.NewFromInt(100),
		MinimumStay: 2,
		MaxGuests:   2,
		Components: []dto.CreateComponentRequest{
			{Type: model.ComponentTypeMeal, Name: "Breakfast", Quantity: 2, UnitPrice: decimal.RequireFromString("12.50")},
			{Type: model.ComponentTypeAmenity, Name: "Spa", UnitPrice: decimal.NewFromInt(40)},
		},
		PricingRules: []dto.CreatePricingRuleRequest{
			{Name: "Valentine", Type: model.RuleTypeSeasonal, AdjustmentType: model.AdjustmentPercentage, AdjustmentValue: decimal.NewFromInt(15), Priority: 10},
			{Name: "Early bird", Type: model.RuleTypeEarlyBird, AdjustmentType: model.AdjustmentPercentage, AdjustmentValue: decimal.NewFromInt(10), Priority: 5, IsActive: &inactive},
		},
		Availability: []dto.CreateAvailabilityRequest{
			{DateFrom: "2025-02-01", DateTo: "2025-02-28", MaxBookings: intPtr(5), BlackoutDates: []string{"2025-02-20"}},
		},
		PartnerOffers: []dto.PartnerOfferLinkRequest{
			{PartnerOfferID: "9b2f8a53-4d4e-4b3e-9a43-1c1f6f7d2a10", IncludedInPackage: true, AutoBook: true},
		},
	}

	pkg, err := req.ToModel("staff-1")
	require.NoError(t, err)

	assert.NotEmpty(t, pkg.ID)
	assert.Equal(t, "ROMANCE-WEEKEND", pkg.Code)
	assert.Equal(t, dto.DefaultCurrency, pkg.Currency)
	assert.Equal(t, model.StatusDraft, pkg.Status)
	assert.Equal(t, "staff-1", pkg.CreatedBy)

	require.Len(t, pkg.Components, 2)
	assert.True(t, decimal.NewFromInt(25).Equal(pkg.Components[0].TotalPrice))
	assert.Equal(t, 1, pkg.Components[1].Quantity)
	assert.True(t, decimal.NewFromInt(40).Equal(pkg.Components[1].TotalPrice))
	assert.Equal(t, pkg.ID, pkg.Components[0].PackageID)

	require.Len(t, pkg.PricingRules, 2)
	assert.Equal(t, 0, pkg.PricingRules[0].Position)
	assert.Equal(t, 1, pkg.PricingRules[1].Position)
	assert.True(t, pkg.PricingRules[0].IsActive)
	assert.False(t, pkg.PricingRules[1].IsActive)

	require.Len(t, pkg.Availability, 1)
	assert.True(t, pkg.Availability[0].IsAvailable)
	assert.True(t, pkg.Availability[0].BlackoutDates.Contains(date.MustParse("2025-02-20")))

	require.Len(t, pkg.PartnerOffers, 1)
	assert.True(t, pkg.PartnerOffers[0].AutoBookable())
}

func TestCreatePackageRequest_ToModelRejects(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreatePackageRequest
	}{
		{
			name: "minimum above maximum",
			req:  dto.CreatePackageRequest{Code: "A", MinimumStay: 5, MaximumStay: intPtr(3), MaxGuests: 1},
		},
		{
			name: "negative base price",
			req:  dto.CreatePackageRequest{Code: "A", BasePrice: decimal.NewFromInt(-1), MaxGuests: 1},
		},
		{
			name: "window ends before it starts",
			req: dto.CreatePackageRequest{Code: "A", MaxGuests: 1, Availability: []dto.CreateAvailabilityRequest{
				{DateFrom: "2025-03-01", DateTo: "2025-02-01"},
			}},
		},
		{
			name: "blackout outside window",
			req: dto.CreatePackageRequest{Code: "A", MaxGuests: 1, Availability: []dto.CreateAvailabilityRequest{
				{DateFrom: "2025-02-01", DateTo: "2025-02-28", BlackoutDates: []string{"2025-03-05"}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.ToModel("staff-1")

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestUpdatePackageRequest_Merge(t *testing.T) {
	stored := model.Package{MinimumStay: 2, MaximumStay: intPtr(5)}

	req := dto.UpdatePackageRequest{MinimumStay: intPtr(4), Currency: "eur"}
	merged, err := req.Merge(stored)
	require.NoError(t, err)
	assert.Equal(t, 4, merged.MinimumStay)
	assert.Equal(t, "EUR", req.Currency)

	req = dto.UpdatePackageRequest{MaximumStay: intPtr(1)}
	_, err = req.Merge(stored)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestPackageResponse_FromModel(t *testing.T) {
	now := timezone.Now()
	pkg := model.Package{
		ID:        "pkg-1",
		Code:      "ROMANCE",
		BasePrice: decimal.NewFromInt(100),
		Status:    model.StatusActive,
		Metadata:  gModel.NewMetadata("staff-1", now),
		PricingRules: []model.PricingRule{
			{ID: "rule-1", Type: model.RuleTypeLoyalty, Conditions: model.Conditions{LoyaltyTiers: []string{"gold"}}},
		},
		Availability: []model.Availability{
			{ID: "window-1", DateFrom: date.MustParse("2025-02-01"), DateTo: date.MustParse("2025-02-28")},
		},
	}

	var res dto.PackageResponse
	res.FromModel(pkg)

	assert.Equal(t, "pkg-1", res.ID)
	assert.Equal(t, "staff-1", res.CreatedBy)
	require.Len(t, res.PricingRules, 1)
	assert.Equal(t, []string{"gold"}, res.PricingRules[0].Conditions.LoyaltyTiers)

	encoded, err := json.Marshal(res.Availability[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"window-1","date_from":"2025-02-01","date_to":"2025-02-28","is_available":false,
		"max_bookings":null,"current_bookings":0,"blackout_dates":[],"minimum_stay":null,"maximum_stay":null}`, string(encoded))
}

func TestGetPackagesResponse_FromModels(t *testing.T) {
	var res dto.GetPackagesResponse
	res.FromModels([]model.Package{{ID: "a"}, {ID: "b"}}, 12, 5)

	assert.Len(t, res.Packages, 2)
	assert.Equal(t, 12, res.TotalData)
	assert.Equal(t, 3, res.TotalPage)
}
