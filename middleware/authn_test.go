package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.carehub.io/hospital-api/api"
	"go.carehub.io/hospital-api/domain"
	"go.carehub.io/hospital-api/services"
)

type authnFixture struct {
	e      *echo.Echo
	tokens *services.TokenService
	clock  *time.Time
}

func newAuthnFixture(t *testing.T) *authnFixture {
	t.Helper()

	clock := time.Now()
	signer := services.NewTokenSigner()
	signer.AddKeySigner("middleware-test-secret")
	tokens := services.NewTokenService(signer, "middleware-test-secret", "hospital-api-test",
		time.Minute, time.Hour,
		services.WithNowFunc(func() time.Time { return clock }))

	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		principal, ok := domain.PrincipalFromContext(c.Request().Context())
		require.True(t, ok, "middleware must install the principal")
		return c.String(http.StatusOK, principal.UserName)
	}, Authn(tokens))

	return &authnFixture{e: e, tokens: tokens, clock: &clock}
}

func (f *authnFixture) get(t *testing.T, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *authnFixture) accessToken(t *testing.T) string {
	t.Helper()
	token, err := f.tokens.GenerateAccessToken(&domain.User{UserName: "alice", GroupName: "doctors"})
	require.NoError(t, err)
	return token
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Code
}

func TestAuthn_ValidToken(t *testing.T) {
	f := newAuthnFixture(t)

	rec := f.get(t, "Bearer "+f.accessToken(t))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestAuthn_MissingHeader(t *testing.T) {
	f := newAuthnFixture(t)

	rec := f.get(t, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing_token", errorCode(t, rec))
}

func TestAuthn_NotBearer(t *testing.T) {
	f := newAuthnFixture(t)

	rec := f.get(t, "Basic YWxpY2U6czNjcmV0")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", errorCode(t, rec))
}

func TestAuthn_ExpiredToken(t *testing.T) {
	f := newAuthnFixture(t)
	token := f.accessToken(t)

	*f.clock = f.clock.Add(2 * time.Minute)
	rec := f.get(t, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token_expired", errorCode(t, rec))
}

func TestAuthn_RefreshTokenRejected(t *testing.T) {
	f := newAuthnFixture(t)
	refresh, err := f.tokens.GenerateRefreshToken(&domain.User{UserName: "alice", GroupName: "doctors"})
	require.NoError(t, err)

	rec := f.get(t, "Bearer "+refresh)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", errorCode(t, rec))
}

func TestAuthn_GarbageToken(t *testing.T) {
	f := newAuthnFixture(t)

	rec := f.get(t, "Bearer not.a.jwt")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", errorCode(t, rec))
}
