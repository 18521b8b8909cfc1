package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lodge/config"
	"lodge/infras/jwt"
	"lodge/infras/otel/mocks"
	"lodge/permissions"
	"lodge/shared/constant"
	"lodge/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	jwtGo "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	secret = "access-secret"
	apiKey = "channel-manager-key"
)

func token(t *testing.T, role string, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.Claims{
		UserID:  "u-1",
		Email:   "desk@example.com",
		Role:    role,
		TokenID: "t-1",
		Type:    jwt.AccessToken,
		RegisteredClaims: jwtGo.RegisteredClaims{
			ExpiresAt: jwtGo.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwtGo.NewWithClaims(jwtGo.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return "Bearer " + signed
}

func newRouter(t *testing.T) chi.Router {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.AccessSecret = secret
	cfg.App.APIKey = apiKey

	perms, err := permissions.Parse([]byte(`{
		"endpoints": [
			{"path": "/v1/packages", "method": "GET", "skip": true},
			{"path": "/v1/packages/{id}", "method": "DELETE", "permissions": ["admin"]},
			{"path": "/v1/bookings", "method": "GET", "permissions": ["staff", "admin"]}
		]
	}`))
	require.NoError(t, err)

	authRole := middleware.NewAuthRoleMiddleware(jwt.New(cfg), mocks.NewOtel(), perms, cfg)

	whoAmI := func(writer http.ResponseWriter, request *http.Request) {
		userID, _ := request.Context().Value(constant.ContextKeyUserID).(string)
		_, _ = writer.Write([]byte(userID))
	}

	router := chi.NewRouter()
	router.Route("/v1", func(r chi.Router) {
		r.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)
		r.Get("/packages", whoAmI)
		r.Delete("/packages/{id}", whoAmI)
		r.Get("/bookings", whoAmI)
	})

	return router
}

func TestAuthRole(t *testing.T) {
	later := time.Now().Add(time.Hour)

	tests := []struct {
		name     string
		method   string
		target   string
		headers  map[string]string
		wantCode int
		wantUser string
	}{
		{
			name:     "public route as guest",
			method:   http.MethodGet,
			target:   "/v1/packages",
			wantCode: http.StatusOK,
			wantUser: constant.ContextGuest,
		},
		{
			name:     "staff route without token",
			method:   http.MethodGet,
			target:   "/v1/bookings",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "malformed authorization header",
			method:   http.MethodGet,
			target:   "/v1/bookings",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "expired token",
			method:   http.MethodGet,
			target:   "/v1/bookings",
			headers:  map[string]string{constant.RequestHeaderAuthorization: token(t, constant.RoleStaff, time.Now().Add(-time.Minute))},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "staff token on staff route",
			method:   http.MethodGet,
			target:   "/v1/bookings",
			headers:  map[string]string{constant.RequestHeaderAuthorization: token(t, constant.RoleStaff, later)},
			wantCode: http.StatusOK,
			wantUser: "u-1",
		},
		{
			name:     "staff token on admin route",
			method:   http.MethodDelete,
			target:   "/v1/packages/p-1",
			headers:  map[string]string{constant.RequestHeaderAuthorization: token(t, constant.RoleStaff, later)},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "admin token on admin route",
			method:   http.MethodDelete,
			target:   "/v1/packages/p-1",
			headers:  map[string]string{constant.RequestHeaderAuthorization: token(t, constant.RoleAdmin, later)},
			wantCode: http.StatusOK,
			wantUser: "u-1",
		},
		{
			name:     "superadmin passes every route",
			method:   http.MethodDelete,
			target:   "/v1/packages/p-1",
			headers:  map[string]string{constant.RequestHeaderAuthorization: token(t, constant.RoleSuperAdmin, later)},
			wantCode: http.StatusOK,
			wantUser: "u-1",
		},
		{
			name:     "internal api key",
			method:   http.MethodGet,
			target:   "/v1/bookings",
			headers:  map[string]string{constant.RequestHeaderAPIKey: apiKey},
			wantCode: http.StatusOK,
			wantUser: constant.ContextInternal,
		},
		{
			name:     "wrong api key",
			method:   http.MethodGet,
			target:   "/v1/packages",
			headers:  map[string]string{constant.RequestHeaderAPIKey: "nope"},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t)

			request := httptest.NewRequest(tt.method, tt.target, nil)
			for key, value := range tt.headers {
				request.Header.Set(key, value)
			}

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantCode, recorder.Code)

			if tt.wantUser != "" {
				assert.Equal(t, tt.wantUser, recorder.Body.String())
			}
		})
	}
}
