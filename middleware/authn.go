// Package middleware carries the bearer-token authentication middleware.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"go.carehub.io/hospital-api/api"
	"go.carehub.io/hospital-api/domain"
	"go.carehub.io/hospital-api/services"
)

// Authn validates the Authorization bearer token and installs the resolved
// principal into the request context. Authority comes exclusively from the
// token; cookies are never consulted here.
func Authn(tokens *services.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthorized(c, "missing_token", "Authorization header is required")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return unauthorized(c, "invalid_token", "Expected a Bearer token")
			}
			rawToken := parts[1]

			switch result := tokens.ValidateToken(rawToken, services.TokenTypeAccess); result {
			case services.TokenValid:
			case services.TokenExpired:
				return unauthorized(c, "token_expired", "Access token expired")
			default:
				return unauthorized(c, "invalid_token", "Invalid access token")
			}

			principal, err := tokens.IdentityFromToken(rawToken, services.TokenTypeAccess)
			if err != nil {
				return unauthorized(c, "invalid_token", "Invalid access token")
			}

			ctx := domain.WithPrincipal(c.Request().Context(), principal)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func unauthorized(c echo.Context, code, message string) error {
	return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Code: code, Message: message})
}
