package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"go.carehub.io/hospital-api/cache"
	"go.carehub.io/hospital-api/domain"
	"go.carehub.io/hospital-api/internal/metrics"
)

// AuthService orchestrates the credential lifecycle: it coordinates the
// credential verifier, the token service and the audit recorder on login,
// refresh and logout. Each request is handled independently; the service
// holds no per-session state.
type AuthService struct {
	verifier *CredentialVerifier
	tokens   *TokenService
	recorder *AuditRecorder
	revoked  cache.RevocationStore
	now      func() time.Time
}

type AuthServiceOption func(*AuthService)

// WithClock overrides the orchestrator clock, primarily for tests.
func WithClock(now func() time.Time) AuthServiceOption {
	return func(s *AuthService) {
		s.now = now
	}
}

// NewAuthService creates the orchestrator. revoked may be nil, in which
// case refresh tokens stay purely self-verifying until natural expiry.
func NewAuthService(
	verifier *CredentialVerifier,
	tokens *TokenService,
	recorder *AuditRecorder,
	revoked cache.RevocationStore,
	opts ...AuthServiceOption,
) *AuthService {
	s := &AuthService{
		verifier: verifier,
		tokens:   tokens,
		recorder: recorder,
		revoked:  revoked,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates the credentials, issues a fresh token pair and opens
// a session-audit row. An audit write failure is absorbed: tokens are still
// valid, only the audit entry is missing. Exactly one audit row is written
// per successful login; none on failure.
func (s *AuthService) Login(ctx context.Context, userName, password string) (*domain.AuthResult, error) {
	user, err := s.verifier.Authenticate(ctx, userName, password)
	if err != nil {
		metrics.LoginFailureTotal.Inc()
		return nil, err
	}

	// Best effort; the stamp is bookkeeping, not part of the login contract.
	if err := s.verifier.StampLastLogin(ctx, user.UserName, s.now()); err != nil {
		log.Debug().Err(err).Str("user", user.UserName).Msg("last-login stamp failed")
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	auditID, err := s.recorder.Open(ctx, user.UserName, s.now())
	if err != nil {
		// Deliberate swallow: the login contract does not depend on the
		// audit trail. See domain.ErrAuditWrite.
		log.Error().Err(err).Str("user", user.UserName).
			Msg("unable to record the login in the session audit store")
		metrics.AuditWriteFailureTotal.Inc()
		auditID = ""
	}

	metrics.LoginSuccessTotal.Inc()
	return &domain.AuthResult{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		PrincipalName: user.UserName,
		AuditID:       auditID,
	}, nil
}

// Refresh validates the presented refresh token and rotates the pair. An
// expired-but-well-formed token maps to ErrRefreshTokenExpired so clients
// can distinguish "log in again" from tampering. No audit row is written.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	switch result := s.tokens.ValidateToken(refreshToken, TokenTypeRefresh); result {
	case TokenValid:
	case TokenExpired:
		metrics.TokenRefreshFailureTotal.Inc()
		return nil, domain.ErrRefreshTokenExpired
	default:
		log.Debug().Stringer("result", result).Msg("refresh token rejected")
		metrics.TokenRefreshFailureTotal.Inc()
		return nil, domain.ErrInvalidRefreshToken
	}

	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, refreshToken)
		if err != nil {
			// Fail open: the base design is stateless and self-verifying,
			// a deny-list outage must not lock everyone out.
			log.Warn().Err(err).Msg("revocation store unavailable, skipping deny-list check")
		} else if revoked {
			metrics.RevokedRefreshRejectedTotal.Inc()
			metrics.TokenRefreshFailureTotal.Inc()
			return nil, domain.ErrInvalidRefreshToken
		}
	}

	principal, err := s.tokens.IdentityFromToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		metrics.TokenRefreshFailureTotal.Inc()
		return nil, domain.ErrInvalidRefreshToken
	}

	user := &domain.User{UserName: principal.UserName, GroupName: principal.GroupName}
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	newRefreshToken, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	metrics.TokenRefreshSuccessTotal.Inc()
	return &domain.AuthResult{
		AccessToken:   accessToken,
		RefreshToken:  newRefreshToken,
		PrincipalName: principal.UserName,
	}, nil
}

// Logout revokes the presented refresh token and closes the correlated
// audit row. Both steps are best effort; logout never fails the client.
func (s *AuthService) Logout(ctx context.Context, refreshToken, auditID string) {
	if refreshToken != "" && s.revoked != nil {
		expiresAt, err := s.tokens.TokenExpiry(refreshToken)
		if err == nil {
			if err := s.revoked.Revoke(ctx, refreshToken, expiresAt); err != nil {
				log.Warn().Err(err).Msg("unable to add refresh token to the deny list")
			}
		}
	}

	if auditID != "" {
		if err := s.recorder.Close(ctx, auditID, s.now()); err != nil {
			if !errors.Is(err, domain.ErrAuditWrite) {
				log.Warn().Err(err).Str("audit_id", auditID).Msg("unexpected audit close failure")
			} else {
				log.Error().Err(err).Str("audit_id", auditID).
					Msg("unable to record the logout in the session audit store")
			}
			metrics.AuditWriteFailureTotal.Inc()
		}
	}
}
