package jwt_test

import (
	"testing"
	"time"

	"lodge/config"
	"lodge/infras/jwt"

	jwtGo "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "access-secret"

func sign(t *testing.T, method jwtGo.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()

	token, err := jwtGo.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func claims(tokenType jwt.TokenType, expiresAt time.Time) jwt.Claims {
	registered := jwtGo.RegisteredClaims{}
	if !expiresAt.IsZero() {
		registered.ExpiresAt = jwtGo.NewNumericDate(expiresAt)
	}

	return jwt.Claims{
		UserID:           "u-1",
		Email:            "desk@example.com",
		Role:             "staff",
		Type:             tokenType,
		RegisteredClaims: registered,
	}
}

func TestValidateToken(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = secret

	service := jwt.New(cfg)
	later := time.Now().Add(time.Hour)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:  "valid access token",
			token: sign(t, jwtGo.SigningMethodHS256, []byte(secret), claims(jwt.AccessToken, later)),
		},
		{
			name:    "expired",
			token:   sign(t, jwtGo.SigningMethodHS256, []byte(secret), claims(jwt.AccessToken, time.Now().Add(-time.Hour))),
			wantErr: jwt.ErrExpiredToken,
		},
		{
			name:    "wrong secret",
			token:   sign(t, jwtGo.SigningMethodHS256, []byte("other"), claims(jwt.AccessToken, later)),
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name:    "wrong token type",
			token:   sign(t, jwtGo.SigningMethodHS256, []byte(secret), claims("refresh", later)),
			wantErr: jwt.ErrInvalidClaim,
		},
		{
			name:    "no expiry",
			token:   sign(t, jwtGo.SigningMethodHS256, []byte(secret), claims(jwt.AccessToken, time.Time{})),
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name:    "unsigned",
			token:   sign(t, jwtGo.SigningMethodNone, jwtGo.UnsafeAllowNoneSignatureType, claims(jwt.AccessToken, later)),
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name:    "garbage",
			token:   "not-a-token",
			wantErr: jwt.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ValidateToken(tt.token, jwt.AccessToken)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "u-1", got.UserID)
			assert.Equal(t, "staff", got.Role)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{header: "Bearer abc.def", want: "abc.def"},
		{header: "bearer  abc.def ", want: "abc.def"},
		{header: "", wantErr: jwt.ErrMissingHeader},
		{header: "Basic abc", wantErr: jwt.ErrMalformedHeader},
		{header: "Bearer", wantErr: jwt.ErrMalformedHeader},
		{header: "Bearer   ", wantErr: jwt.ErrMalformedHeader},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := jwt.ExtractTokenFromHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
