// Package api holds the transport DTOs shared by handlers and clients.
package api

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenRefreshRequest is the body of POST /auth/refresh-token.
type TokenRefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LogoutRequest is the body of POST /auth/logout. The refresh token is
// optional; without it only the audit row is closed.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// LoginResponse is the success contract of login and refresh.
type LoginResponse struct {
	AccessToken   string `json:"accessToken"`
	RefreshToken  string `json:"refreshToken"`
	PrincipalName string `json:"principalName"`
}

// PrincipalResponse describes the authenticated caller.
type PrincipalResponse struct {
	UserName  string `json:"userName"`
	GroupName string `json:"groupName"`
}

// ErrorResponse is the error envelope for every authentication failure.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
