package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"slices"

	"lodge/config"
	"lodge/infras/jwt"
	"lodge/infras/otel"
	"lodge/permissions"
	"lodge/shared/constant"
	"lodge/shared/failure"
	"lodge/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type SkipAuthKey string

const skipAuthKey = SkipAuthKey("skip")

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

// Role defines the interface for role-based access control middleware
type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole combines all middleware interfaces
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

// routePermission resolves the matched route pattern of the request and its configured permission.
func (m *authRoleImpl) routePermission(request *http.Request) (string, permissions.Permission) {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil || rctx.Routes == nil {
		return request.URL.Path, permissions.Permission{}
	}

	pattern := rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
	if m.permission == nil {
		return pattern, permissions.Permission{}
	}

	return pattern, m.permission.FindPermissions(pattern, request.Method)
}

// Auth validates the bearer token of staff requests. Public endpoints, such as guest bookings and
// quotes, pass through as the guest user.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		if skip, _ := ctx.Value(skipAuthKey).(bool); skip {
			next.ServeHTTP(writer, request)

			return
		}

		path, permission := m.routePermission(request)

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		if permission.Skip {
			ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.ContextGuest)
			next.ServeHTTP(writer, request.WithContext(ctx))

			return
		}

		claims, err := m.authenticate(request)
		if err != nil {
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		next.ServeHTTP(writer, request.WithContext(withClaims(ctx, claims)))
	})
}

// RBAC checks the authenticated role against the roles allowed for the route.
// Requires prior authentication via Auth middleware.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		if skip, _ := ctx.Value(skipAuthKey).(bool); skip {
			next.ServeHTTP(writer, request)

			return
		}

		if m.permission == nil {
			forbidden(writer, scope)

			return
		}

		_, permission := m.routePermission(request)
		if m.permission.Skip || permission.Skip || len(permission.Permissions) == 0 {
			next.ServeHTTP(writer, request)

			return
		}

		userRole, _ := ctx.Value(constant.ContextKeyUserRole).(string)

		// superadmin is implied everywhere
		if userRole == constant.RoleSuperAdmin || slices.Contains(permission.Permissions, userRole) {
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"user_role":     userRole,
			"allowed_roles": permission.Permissions,
			"reason":        "role_not_allowed",
		})
		forbidden(writer, scope)
	})
}

// APIKey lets internal services, such as the channel manager, call staff endpoints with the shared key.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)
		if apiKey == "" {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttribute("http.source", "internal")

		if m.cfg.App.APIKey == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(m.cfg.App.APIKey)) != 1 {
			forbidden(writer, scope)

			return
		}

		ctx = context.WithValue(ctx, skipAuthKey, true)
		ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.ContextInternal)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// authenticate resolves the bearer token of the request into its claims. Every error it returns is
// a 401 failure.
func (m *authRoleImpl) authenticate(request *http.Request) (*jwt.Claims, error) {
	token, err := jwt.ExtractTokenFromHeader(request.Header.Get(constant.RequestHeaderAuthorization))
	if err != nil {
		return nil, failure.Unauthorized(headerMessage(err))
	}

	claims, err := m.jwtService.ValidateToken(token, jwt.AccessToken)
	if err != nil {
		return nil, failure.Unauthorized(tokenMessage(err))
	}

	if claims.UserID == "" || claims.Email == "" {
		log.Error().Str("token_id", claims.TokenID).Msg("JWT claims are missing user_id or email")

		return nil, failure.Unauthorized("Invalid token claims")
	}

	return claims, nil
}

func headerMessage(err error) string {
	if errors.Is(err, jwt.ErrMissingHeader) {
		return "Missing authorization header"
	}

	return "Invalid authorization header format"
}

func tokenMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, jwt.ErrInvalidClaim):
		return "Invalid token claims"
	default:
		return "Invalid token"
	}
}

func withClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)

	return context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)
}

func forbidden(writer http.ResponseWriter, scope otel.Scope) {
	scope.TraceError(failure.ForbiddenError)
	response.WithError(writer, failure.ForbiddenError)
}
