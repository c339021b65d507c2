// Package echo exposes the authentication REST surface.
package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"go.carehub.io/hospital-api/api"
	"go.carehub.io/hospital-api/domain"
	"go.carehub.io/hospital-api/middleware"
	"go.carehub.io/hospital-api/services"
)

// SessionAuditCookie correlates the session-audit row with the client
// connection. It is never a source of authority; authorization is always
// derived from the bearer token.
const SessionAuditCookie = "OH_SESSION_AUDIT"

// AuthAPI holds the handler dependencies.
type AuthAPI struct {
	auth   *services.AuthService
	tokens *services.TokenService
}

// NewAuthAPI initializes the authentication API.
func NewAuthAPI(auth *services.AuthService, tokens *services.TokenService) *AuthAPI {
	return &AuthAPI{
		auth:   auth,
		tokens: tokens,
	}
}

// RegisterRoutes registers the authentication routes.
func (a *AuthAPI) RegisterRoutes(e *echo.Echo) {
	e.POST("/auth/login", a.LoginHandler)
	e.POST("/auth/refresh-token", a.RefreshTokenHandler)
	e.POST("/auth/logout", a.LogoutHandler)

	authed := e.Group("/auth", middleware.Authn(a.tokens))
	authed.GET("/me", a.MeHandler)
}

// LoginHandler handles POST /auth/login.
func (a *AuthAPI) LoginHandler(c echo.Context) error {
	var req api.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code: "invalid_request", Message: "Malformed request body",
		})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code: "invalid_request", Message: "Username and password are required",
		})
	}

	result, err := a.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return writeAuthError(c, err)
	}

	if result.AuditID != "" {
		c.SetCookie(auditCookie(result.AuditID, 0))
	}

	return c.JSON(http.StatusOK, api.LoginResponse{
		AccessToken:   result.AccessToken,
		RefreshToken:  result.RefreshToken,
		PrincipalName: result.PrincipalName,
	})
}

// RefreshTokenHandler handles POST /auth/refresh-token.
func (a *AuthAPI) RefreshTokenHandler(c echo.Context) error {
	var req api.TokenRefreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code: "invalid_request", Message: "A refresh token is required",
		})
	}

	result, err := a.auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, api.LoginResponse{
		AccessToken:   result.AccessToken,
		RefreshToken:  result.RefreshToken,
		PrincipalName: result.PrincipalName,
	})
}

// LogoutHandler handles POST /auth/logout. It always succeeds: the refresh
// token lands on the deny list and the audit row is closed, both best
// effort.
func (a *AuthAPI) LogoutHandler(c echo.Context) error {
	var req api.LogoutRequest
	if err := c.Bind(&req); err != nil {
		log.Debug().Err(err).Msg("logout with unreadable body")
	}

	auditID := ""
	if cookie, err := c.Cookie(SessionAuditCookie); err == nil {
		auditID = cookie.Value
	}

	a.auth.Logout(c.Request().Context(), req.RefreshToken, auditID)

	c.SetCookie(auditCookie("", -1))
	return c.NoContent(http.StatusNoContent)
}

// MeHandler handles GET /auth/me behind the bearer middleware.
func (a *AuthAPI) MeHandler(c echo.Context) error {
	principal, ok := domain.PrincipalFromContext(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, api.ErrorResponse{
			Code: "unauthorized", Message: "No authenticated principal",
		})
	}
	return c.JSON(http.StatusOK, api.PrincipalResponse{
		UserName:  principal.UserName,
		GroupName: principal.GroupName,
	})
}

func auditCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionAuditCookie,
		Value:    value,
		Path:     "/auth",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

// writeAuthError maps the domain error taxonomy onto the wire envelope.
func writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, api.ErrorResponse{
			Code: "invalid_credentials", Message: "Invalid username or password",
		})
	case errors.Is(err, domain.ErrRefreshTokenExpired):
		return c.JSON(http.StatusUnauthorized, api.ErrorResponse{
			Code: "refresh_token_expired", Message: "Refresh token expired, please log in again",
		})
	case errors.Is(err, domain.ErrInvalidRefreshToken):
		return c.JSON(http.StatusUnauthorized, api.ErrorResponse{
			Code: "invalid_refresh_token", Message: "Invalid refresh token",
		})
	case errors.Is(err, domain.ErrTokenSigning):
		log.Error().Err(err).Msg("token signing failed, credentials cannot be issued")
		return c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code: "server_error", Message: "Unable to issue credentials",
		})
	default:
		log.Error().Err(err).Msg("unexpected authentication error")
		return c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Code: "server_error", Message: "Internal server error",
		})
	}
}
