package stay_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lodge/infras/otel/mocks"
	"lodge/internal/domains/stay/model"
	"lodge/internal/domains/stay/model/dto"
	stayMocks "lodge/internal/domains/stay/service/mocks"
	"lodge/internal/handlers/stay"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const romance = `{
	"code": "romance",
	"name": "Romance Weekend",
	"base_price": 100,
	"minimum_stay": 2,
	"max_guests": 2,
	"status": "active",
	"components": [{"type": "meal", "name": "Dinner", "quantity": 1, "unit_price": 40}]
}`

func setup(t *testing.T) (*stayMocks.MockPackage, chi.Router) {
	t.Helper()

	service := stayMocks.NewMockPackage(gomock.NewController(t))
	handler := stay.New(service, mocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return service, router
}

func serve(router chi.Router, method, target, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))

	return recorder
}

func TestCreatePackage(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		service, router := setup(t)

		service.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req dto.CreatePackageRequest) (dto.PackageResponse, error) {
				assert.Equal(t, "romance", req.Code)
				assert.True(t, decimal.NewFromInt(100).Equal(req.BasePrice))
				require.Len(t, req.Components, 1)

				return dto.PackageResponse{ID: "p-1", Code: "ROMANCE", Status: model.StatusActive}, nil
			})

		recorder := serve(router, http.MethodPost, "/v1/packages", romance)
		require.Equal(t, http.StatusCreated, recorder.Code)

		var body struct {
			Data dto.PackageResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "ROMANCE", body.Data.Code)
	})

	t.Run("duplicate code", func(t *testing.T) {
		service, router := setup(t)

		service.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.PackageResponse{}, failure.Conflict("package code ROMANCE already exists"))

		recorder := serve(router, http.MethodPost, "/v1/packages", romance)

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "missing name", body: `{"code":"romance","base_price":100,"max_guests":2}`},
		{name: "unknown component type", body: `{"code":"romance","name":"Romance","base_price":100,"max_guests":2,"components":[{"type":"boat","name":"Cruise"}]}`},
		{name: "not json", body: `code=romance`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, router := setup(t)

			recorder := serve(router, http.MethodPost, "/v1/packages", tt.body)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestGetPackages(t *testing.T) {
	t.Run("status and code filters", func(t *testing.T) {
		service, router := setup(t)

		service.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPackagesResponse, error) {
				assert.Equal(t, "base_price", params.SortBy)
				require.Len(t, filter.Filters, 2)

				status, ok := filter.Filters[0].(gDto.Filter)
				require.True(t, ok)
				assert.Equal(t, model.FieldStatus, status.Field)
				assert.Equal(t, model.StatusActive, status.Value)

				code, ok := filter.Filters[1].(gDto.Filter)
				require.True(t, ok)
				assert.Equal(t, model.FieldCode, code.Field)
				assert.Equal(t, model.TableName, code.Table)

				return dto.GetPackagesResponse{Packages: []dto.PackageResponse{{ID: "p-1"}}, TotalData: 1, TotalPage: 1}, nil
			})

		recorder := serve(router, http.MethodGet, "/v1/packages?status=active&code=ROMANCE&sort_by=base_price", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("unknown sort column", func(t *testing.T) {
		_, router := setup(t)

		recorder := serve(router, http.MethodGet, "/v1/packages?sort_by=description", "")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestPackageByID(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		mock     func(service *stayMocks.MockPackage)
		wantCode int
	}{
		{
			name:   "get unknown package",
			method: http.MethodGet,
			target: "/v1/packages/missing",
			mock: func(service *stayMocks.MockPackage) {
				service.EXPECT().Get(gomock.Any(), "missing").Return(dto.PackageResponse{}, failure.NotFound("package not found"))
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:   "update",
			method: http.MethodPatch,
			target: "/v1/packages/p-1",
			body:   `{"name":"Romance Escape","maximum_stay":5}`,
			mock: func(service *stayMocks.MockPackage) {
				service.EXPECT().Update(gomock.Any(), gomock.Any(), "p-1").Return(nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "delete with bookings",
			method: http.MethodDelete,
			target: "/v1/packages/p-1",
			mock: func(service *stayMocks.MockPackage) {
				service.EXPECT().Delete(gomock.Any(), "p-1").Return(failure.Conflict("package has bookings"))
			},
			wantCode: http.StatusConflict,
		},
		{
			name:     "rule with unknown adjustment",
			method:   http.MethodPost,
			target:   "/v1/packages/p-1/pricing-rules",
			body:     `{"name":"Winter","type":"seasonal","adjustment_type":"bonus","adjustment_value":10}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "rule added",
			method: http.MethodPost,
			target: "/v1/packages/p-1/pricing-rules",
			body:   `{"name":"Winter","type":"seasonal","conditions":{"date_from":"2025-12-01","date_to":"2026-02-28"},"adjustment_type":"percentage","adjustment_value":15,"priority":10}`,
			mock: func(service *stayMocks.MockPackage) {
				service.EXPECT().
					AddPricingRule(gomock.Any(), "p-1", gomock.Any()).
					DoAndReturn(func(_ any, _ string, req dto.CreatePricingRuleRequest) (dto.PricingRuleResponse, error) {
						assert.Equal(t, 10, req.Priority)
						assert.True(t, decimal.NewFromInt(15).Equal(req.AdjustmentValue))

						return dto.PricingRuleResponse{}, nil
					})
			},
			wantCode: http.StatusCreated,
		},
		{
			name:     "window with malformed date",
			method:   http.MethodPost,
			target:   "/v1/packages/p-1/availability",
			body:     `{"date_from":"2025/03/01","date_to":"2025-03-31"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "window added",
			method: http.MethodPost,
			target: "/v1/packages/p-1/availability",
			body:   `{"date_from":"2025-03-01","date_to":"2025-03-31","max_bookings":10,"blackout_dates":["2025-03-14"]}`,
			mock: func(service *stayMocks.MockPackage) {
				service.EXPECT().
					AddAvailability(gomock.Any(), "p-1", gomock.Any()).
					DoAndReturn(func(_ any, _ string, req dto.CreateAvailabilityRequest) (dto.AvailabilityResponse, error) {
						require.NotNil(t, req.MaxBookings)
						assert.Equal(t, 10, *req.MaxBookings)
						assert.Equal(t, []string{"2025-03-14"}, req.BlackoutDates)

						return dto.AvailabilityResponse{}, nil
					})
			},
			wantCode: http.StatusCreated,
		},
		{
			name:     "image that is not an image",
			method:   http.MethodPut,
			target:   "/v1/packages/p-1/image",
			body:     `{"image":"data:text/plain;base64,aGVsbG8="}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, router := setup(t)
			if tt.mock != nil {
				tt.mock(service)
			}

			recorder := serve(router, tt.method, tt.target, tt.body)

			assert.Equal(t, tt.wantCode, recorder.Code)
		})
	}
}
