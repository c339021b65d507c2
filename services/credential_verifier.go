package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"go.carehub.io/hospital-api/domain"
)

// CredentialVerifier resolves a username/password pair against the user
// store. All failure modes collapse into domain.ErrInvalidCredentials so the
// caller cannot tell an unknown user from a wrong password.
type CredentialVerifier struct {
	users  domain.UserRepository
	hasher PasswordHasher
}

// NewCredentialVerifier creates a new CredentialVerifier.
func NewCredentialVerifier(users domain.UserRepository, hasher PasswordHasher) *CredentialVerifier {
	return &CredentialVerifier{
		users:  users,
		hasher: hasher,
	}
}

// Authenticate returns the resolved user on a credential match. It performs
// no side effects beyond the comparison and does not record attempts.
func (v *CredentialVerifier) Authenticate(ctx context.Context, userName, password string) (*domain.User, error) {
	user, err := v.users.GetUserByName(ctx, userName)
	if err != nil {
		log.Debug().Err(err).Str("user", userName).Msg("credential check: user lookup failed")
		return nil, domain.ErrInvalidCredentials
	}
	if user.Deleted {
		log.Debug().Str("user", userName).Msg("credential check: user is soft deleted")
		return nil, domain.ErrInvalidCredentials
	}
	if err := v.hasher.Verify(user.Passwd, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// StampLastLogin records the time of a successful login on the user row.
func (v *CredentialVerifier) StampLastLogin(ctx context.Context, userName string, at time.Time) error {
	return v.users.UpdateLastLogin(ctx, userName, at)
}
