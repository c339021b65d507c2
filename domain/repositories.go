package domain

import (
	"context"
	"time"
)

// UserRepository is the user store boundary. The authentication flow only
// reads from it; account management lives elsewhere.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByName(ctx context.Context, userName string) (*User, error)
	UpdateLastLogin(ctx context.Context, userName string, at time.Time) error
}

// SessionAuditRepository is the audit store boundary.
type SessionAuditRepository interface {
	Create(ctx context.Context, audit *SessionAudit) (string, error)
	GetByID(ctx context.Context, id string) (*SessionAudit, error)
	SetLogoutDate(ctx context.Context, id string, at time.Time) error
}
