package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lodge/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token has expired")
	ErrInvalidClaim    = errors.New("invalid token claim")
	ErrMissingHeader   = errors.New("authorization header is required")
	ErrMalformedHeader = errors.New("authorization header must be a bearer token")
)

type TokenType string

const AccessToken TokenType = "access"

const (
	bearerScheme = "bearer"
	leeway       = 30 * time.Second
)

// Claims are issued by the identity provider for staff and back-office clients.
type Claims struct {
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Role    string    `json:"role,omitempty"`
	TokenID string    `json:"token_id"`
	Type    TokenType `json:"type"`
	jwt.RegisteredClaims
}

// JWT validates tokens signed with the shared HMAC access secret. This service never issues tokens.
type JWT interface {
	ValidateToken(tokenString string, tokenType TokenType) (*Claims, error)
}

type Service struct {
	secret []byte
	parser *jwt.Parser
}

func New(cfg *config.Config) JWT {
	return &Service{
		secret: []byte(cfg.JWT.AccessSecret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(leeway),
		),
	}
}

// ValidateToken checks signature, expiry and token type. Errors are one of ErrExpiredToken,
// ErrInvalidClaim or ErrInvalidToken.
func (s *Service) ValidateToken(tokenString string, tokenType TokenType) (*Claims, error) {
	if tokenType != AccessToken {
		return nil, fmt.Errorf("%w: unknown token type %q", ErrInvalidClaim, tokenType)
	}

	claims := &Claims{}

	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	case claims.Type != tokenType:
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

// ExtractTokenFromHeader returns the token of an "Authorization: Bearer <token>" header. The scheme
// is matched case-insensitively.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingHeader
	}

	scheme, token, found := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) || strings.TrimSpace(token) == "" {
		return "", ErrMalformedHeader
	}

	return strings.TrimSpace(token), nil
}
