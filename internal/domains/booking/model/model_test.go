package model_test

import (
	"errors"
	"regexp"
	"testing"

	"lodge/internal/domains/booking/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{from: model.StatusPending, to: model.StatusConfirmed, want: true},
		{from: model.StatusPending, to: model.StatusCancelled, want: true},
		{from: model.StatusConfirmed, to: model.StatusCompleted, want: true},
		{from: model.StatusConfirmed, to: model.StatusCancelled, want: true},
		{from: model.StatusPending, to: model.StatusCompleted, want: false},
		{from: model.StatusConfirmed, to: model.StatusPending, want: false},
		{from: model.StatusCompleted, to: model.StatusCancelled, want: false},
		{from: model.StatusCancelled, to: model.StatusPending, want: false},
		{from: model.StatusCancelled, to: model.StatusConfirmed, want: false},
		{from: "unknown", to: model.StatusConfirmed, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanTransition(tt.from, tt.to))
		})
	}
}

func TestBooking_WindowID(t *testing.T) {
	window := "window-2"

	assert.Equal(t, "window-2", model.Booking{AvailabilityID: &window}.WindowID())
	assert.Empty(t, model.Booking{}.WindowID())

	assert.True(t, model.Booking{Status: model.StatusCancelled}.IsCancelled())
	assert.False(t, model.Booking{Status: model.StatusConfirmed}.IsCancelled())
}

func TestNewReference(t *testing.T) {
	pattern := regexp.MustCompile(`^PKG-ROMANCE-[0-9A-F]{12}$`)

	first, err := model.NewReference("PKG", "romance")
	require.NoError(t, err)
	assert.Regexp(t, pattern, first)

	second, err := model.NewReference("PKG", "ROMANCE")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestPartnerResult_Warning(t *testing.T) {
	assert.Nil(t, model.PartnerResult{PartnerOfferID: "offer-1"}.Warning())

	warning := model.PartnerResult{PartnerOfferID: "offer-1", Err: model.ErrOfferInactive}.Warning()
	require.NotNil(t, warning)
	assert.Equal(t, model.ErrOfferInactive.Error(), warning.Message)

	warning = model.PartnerResult{PartnerOfferID: "offer-2", Err: errors.New("pq: connection reset")}.Warning()
	require.NotNil(t, warning)
	assert.Equal(t, "offer-2", warning.PartnerOfferID)
	assert.NotContains(t, warning.Message, "pq")
}
