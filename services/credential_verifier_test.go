package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go.carehub.io/hospital-api/domain"
	"go.carehub.io/hospital-api/internal/auth"
)

// The verifier is exercised here against the real bcrypt hasher so the
// round trip from stored hash to accepted password is covered end to end.
func newVerifierFixture(t *testing.T, password string) (*CredentialVerifier, *MockUserRepository) {
	t.Helper()

	hasher := auth.NewBcryptPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash(password)
	require.NoError(t, err)

	users := new(MockUserRepository)
	users.On("GetUserByName", mock.Anything, "alice").Return(&domain.User{
		UserName:  "alice",
		GroupName: "doctors",
		Passwd:    hash,
	}, nil).Maybe()

	return NewCredentialVerifier(users, hasher), users
}

func TestAuthenticate_CorrectPassword(t *testing.T) {
	verifier, _ := newVerifierFixture(t, "s3cret")

	user, err := verifier.Authenticate(context.Background(), "alice", "s3cret")

	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserName)
	assert.Equal(t, "doctors", user.GroupName)
}

func TestAuthenticate_WritesNothing(t *testing.T) {
	verifier, users := newVerifierFixture(t, "s3cret")

	_, err := verifier.Authenticate(context.Background(), "alice", "s3cret")

	require.NoError(t, err)
	users.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestStampLastLogin(t *testing.T) {
	verifier, users := newVerifierFixture(t, "s3cret")
	at := time.Now()
	users.On("UpdateLastLogin", mock.Anything, "alice", at).Return(nil).Once()

	require.NoError(t, verifier.StampLastLogin(context.Background(), "alice", at))
	users.AssertExpectations(t)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	verifier, _ := newVerifierFixture(t, "s3cret")

	user, err := verifier.Authenticate(context.Background(), "alice", "S3CRET")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	verifier, users := newVerifierFixture(t, "s3cret")
	users.On("GetUserByName", mock.Anything, "bob").Return(nil, domain.ErrUserNotFound)

	user, err := verifier.Authenticate(context.Background(), "bob", "s3cret")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticate_RepositoryOutageLooksLikeBadCredentials(t *testing.T) {
	hasher := auth.NewBcryptPasswordHasher(bcrypt.MinCost)
	users := new(MockUserRepository)
	users.On("GetUserByName", mock.Anything, "alice").Return(nil, assert.AnError)
	verifier := NewCredentialVerifier(users, hasher)

	_, err := verifier.Authenticate(context.Background(), "alice", "s3cret")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
