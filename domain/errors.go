package domain

import "errors"

// Authentication error taxonomy. The transport layer maps these onto wire
// codes; everything else wraps them with %w.
var (
	// ErrInvalidCredentials covers unknown user, deleted user and password
	// mismatch alike, so callers cannot enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidRefreshToken means the refresh token is malformed, carries a
	// bad signature, is of the wrong token class, or has been revoked.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrRefreshTokenExpired means the refresh token decoded fine but its
	// validity window has passed. Clients should prompt a fresh login.
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// ErrTokenSigning indicates the service cannot sign tokens at all. This
	// is a configuration failure and must surface as a 5xx, never as a
	// credential rejection.
	ErrTokenSigning = errors.New("token signing unavailable")

	// ErrAuditWrite is recoverable: login proceeds without the audit row.
	ErrAuditWrite = errors.New("session audit write failed")

	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("user already exists")
	ErrAuditNotFound = errors.New("session audit not found")
)
