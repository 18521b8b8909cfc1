package dto_test

import (
	"net/http"
	"testing"

	"lodge/internal/domains/partner/model"
	"lodge/internal/domains/partner/model/dto"
	"lodge/shared/failure"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePartnerRequest_ToModel(t *testing.T) {
	inactive := false

	partner := (&dto.CreatePartnerRequest{Name: "Blue Lagoon Spa", Category: model.CategorySpa}).ToModel("staff")
	assert.NotEmpty(t, partner.ID)
	assert.True(t, partner.IsActive)
	assert.Equal(t, "staff", partner.CreatedBy)

	partner = (&dto.CreatePartnerRequest{Name: "Closed", Category: model.CategoryTour, IsActive: &inactive}).ToModel("staff")
	assert.False(t, partner.IsActive)
}

func TestCreateOfferRequest_ToModel(t *testing.T) {
	tests := []struct {
		name     string
		req      dto.CreateOfferRequest
		wantErr  bool
		currency string
	}{
		{
			name:     "defaults currency",
			req:      dto.CreateOfferRequest{Title: "Couples massage", Price: decimal.NewFromInt(80), CapacityPerSlot: 2},
			currency: dto.DefaultCurrency,
		},
		{
			name:     "upper-cases currency",
			req:      dto.CreateOfferRequest{Title: "Dinner", Price: decimal.NewFromInt(60), Currency: "eur"},
			currency: "EUR",
		},
		{
			name:    "negative price",
			req:     dto.CreateOfferRequest{Title: "Refund", Price: decimal.NewFromInt(-1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer, err := tt.req.ToModel("partner-1", "staff")
			if tt.wantErr {
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "partner-1", offer.PartnerID)
			assert.Equal(t, tt.currency, offer.Currency)
			assert.True(t, offer.IsActive)
		})
	}
}

func TestGetOffersResponse_FromModels(t *testing.T) {
	var res dto.GetOffersResponse

	res.FromModels([]model.Offer{{ID: "a"}, {ID: "b"}, {ID: "c"}}, 3, 2)

	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Offers, 3)
}
