package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"lodge/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantMsg    string
		wantReason string
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("guests must be at least 1")), wantCode: http.StatusBadRequest, wantMsg: "guests must be at least 1"},
		{name: "bad request from string", err: failure.BadRequestFromString("check-out must be after check-in"), wantCode: http.StatusBadRequest, wantMsg: "check-out must be after check-in"},
		{name: "unauthorized", err: failure.Unauthorized("Token has expired"), wantCode: http.StatusUnauthorized, wantMsg: "Token has expired"},
		{name: "not found", err: failure.NotFound("package not found"), wantCode: http.StatusNotFound, wantMsg: "package not found"},
		{name: "conflict", err: failure.Conflict("package code ROMANCE already exists"), wantCode: http.StatusConflict, wantMsg: "package code ROMANCE already exists"},
		{name: "forbidden", err: failure.ForbiddenError, wantCode: http.StatusForbidden, wantMsg: "You don't have the required permissions"},
		{
			name:       "ineligible",
			err:        failure.Ineligible("blackout_date", "2025-02-14 is a blackout date"),
			wantCode:   http.StatusConflict,
			wantMsg:    "2025-02-14 is a blackout date",
			wantReason: "blackout_date",
		},
		{
			name:       "capacity exceeded",
			err:        failure.CapacityExceeded("no availability left for the requested dates"),
			wantCode:   http.StatusConflict,
			wantMsg:    "no availability left for the requested dates",
			wantReason: failure.ReasonCapacityExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fail *failure.Failure
			require.ErrorAs(t, tt.err, &fail)

			assert.Equal(t, tt.wantCode, fail.Code)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.Equal(t, tt.wantReason, fail.Reason)
		})
	}
}

func TestBadRequestNil(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
}

func TestGetCode(t *testing.T) {
	wrapped := fmt.Errorf("reserve window: %w", failure.CapacityExceeded("full"))

	assert.Equal(t, http.StatusConflict, failure.GetCode(wrapped))
	assert.Equal(t, http.StatusNotFound, failure.GetCode(failure.NotFound("booking not found")))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(errors.New("connection reset")))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(nil))
}

func TestRejections(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantReason    string
		wantRejection bool
		wantCapacity  bool
	}{
		{
			name:          "wrapped capacity rejection",
			err:           fmt.Errorf("create booking: %w", failure.CapacityExceeded("full")),
			wantReason:    failure.ReasonCapacityExceeded,
			wantRejection: true,
			wantCapacity:  true,
		},
		{
			name:          "ineligible stay",
			err:           failure.Ineligible("minimum_stay_not_met", "stay must be at least 2 nights"),
			wantReason:    "minimum_stay_not_met",
			wantRejection: true,
		},
		{name: "conflict has no reason", err: failure.Conflict("cannot move booking from completed to pending")},
		{name: "plain error", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantReason, failure.GetReason(tt.err))
			assert.Equal(t, tt.wantRejection, failure.IsRejection(tt.err))
			assert.Equal(t, tt.wantCapacity, failure.IsCapacityExceeded(tt.err))
		})
	}
}
