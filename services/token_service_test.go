package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.carehub.io/hospital-api/domain"
)

const testSecret = "unit-test-signing-secret"

// newTestTokenService returns a token service whose clock can be moved by
// reassigning *clock.
func newTestTokenService(accessTTL, refreshTTL time.Duration) (*TokenService, *time.Time) {
	clock := time.Now()
	signer := NewTokenSigner()
	signer.AddKeySigner(testSecret)
	svc := NewTokenService(signer, testSecret, "hospital-api-test", accessTTL, refreshTTL,
		WithNowFunc(func() time.Time { return clock }))
	return svc, &clock
}

func testUser() *domain.User {
	return &domain.User{
		UserName:  "alice",
		GroupName: "doctors",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc, _ := newTestTokenService(30*time.Minute, 7*24*time.Hour)

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, TokenValid, svc.ValidateToken(token, TokenTypeAccess))

	principal, err := svc.IdentityFromToken(token, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "alice", principal.UserName)
	assert.Equal(t, "doctors", principal.GroupName)
}

func TestTokenExpiresAndNeverRecovers(t *testing.T) {
	svc, clock := newTestTokenService(30*time.Minute, 7*24*time.Hour)

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)
	assert.Equal(t, TokenValid, svc.ValidateToken(token, TokenTypeAccess))

	*clock = clock.Add(31 * time.Minute)
	assert.Equal(t, TokenExpired, svc.ValidateToken(token, TokenTypeAccess))

	// Expired is terminal: more time never flips the token back.
	*clock = clock.Add(24 * time.Hour)
	assert.Equal(t, TokenExpired, svc.ValidateToken(token, TokenTypeAccess))

	_, err = svc.IdentityFromToken(token, TokenTypeAccess)
	assert.Error(t, err)
}

func TestCrossClassUseFailsValidation(t *testing.T) {
	svc, _ := newTestTokenService(30*time.Minute, 7*24*time.Hour)
	user := testUser()

	access, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	assert.Equal(t, TokenWrongType, svc.ValidateToken(access, TokenTypeRefresh))
	assert.Equal(t, TokenWrongType, svc.ValidateToken(refresh, TokenTypeAccess))
}

func TestExpiredAccessTokenStillRejectedAsRefresh(t *testing.T) {
	svc, clock := newTestTokenService(30*time.Minute, 7*24*time.Hour)

	access, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	*clock = clock.Add(time.Hour)
	// Wrong class must win over expiry, otherwise an expired access token
	// would read as an expired refresh token.
	assert.Equal(t, TokenWrongType, svc.ValidateToken(access, TokenTypeRefresh))
}

func TestTamperedSignatureIsNeverExpired(t *testing.T) {
	svc, clock := newTestTokenService(30*time.Minute, 7*24*time.Hour)

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	tampered := flipLastByte(token)
	assert.Equal(t, TokenSignatureInvalid, svc.ValidateToken(tampered, TokenTypeAccess))

	// Even once the embedded expiry has passed, a bad signature dominates.
	*clock = clock.Add(2 * time.Hour)
	assert.Equal(t, TokenSignatureInvalid, svc.ValidateToken(tampered, TokenTypeAccess))
}

func TestMalformedToken(t *testing.T) {
	svc, _ := newTestTokenService(30*time.Minute, 7*24*time.Hour)

	assert.Equal(t, TokenMalformed, svc.ValidateToken("not-a-token", TokenTypeAccess))
	assert.Equal(t, TokenMalformed, svc.ValidateToken("", TokenTypeRefresh))
}

func TestSigningFailureIsConfigurationError(t *testing.T) {
	signer := NewTokenSigner() // no keys registered
	svc := NewTokenService(signer, testSecret, "hospital-api-test", time.Minute, time.Hour)

	_, err := svc.GenerateAccessToken(testUser())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTokenSigning))
}

func TestTokenExpiryReadableAfterExpiration(t *testing.T) {
	svc, clock := newTestTokenService(30*time.Minute, 7*24*time.Hour)
	issued := *clock

	token, err := svc.GenerateRefreshToken(testUser())
	require.NoError(t, err)

	*clock = clock.Add(30 * 24 * time.Hour)
	expiry, err := svc.TokenExpiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, issued.Add(7*24*time.Hour), expiry, time.Second)
}

func flipLastByte(token string) string {
	last := token[len(token)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'B'
	}
	return token[:len(token)-1] + string(replacement)
}
