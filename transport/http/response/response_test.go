package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lodge/shared/failure"
	"lodge/transport/http/response"

	"github.com/stretchr/testify/assert"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "capacity exceeded carries reason",
			err:      failure.CapacityExceeded("no capacity left"),
			wantCode: http.StatusConflict,
			wantBody: `{"error":"no capacity left","reason":"capacity_exceeded"}`,
		},
		{
			name:     "ineligible carries reason",
			err:      failure.Ineligible("minimum_stay_not_met", "stay is too short"),
			wantCode: http.StatusConflict,
			wantBody: `{"error":"stay is too short","reason":"minimum_stay_not_met"}`,
		},
		{
			name:     "not found has no reason",
			err:      failure.NotFound("package not found"),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"package not found"}`,
		},
		{
			name:     "plain error is internal and hidden",
			err:      errors.New("dial tcp 10.0.0.5:5432: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"INTERNAL SERVER ERROR"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			response.WithError(recorder, tt.err)

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, recorder.Body.String())
		})
	}
}

func TestWithJSON(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithJSON(recorder, http.StatusCreated, map[string]string{"id": "b-1"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"id":"b-1"}}`, recorder.Body.String())
}

func TestWithPreparingShutdown(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithPreparingShutdown(recorder)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.JSONEq(t, `{"message":"SERVER PREPARING TO SHUT DOWN"}`, recorder.Body.String())
}
