package domain

// AuthResult is the externally observable success contract of a login or
// refresh: a fresh token pair plus the resolved principal name. AuditID is
// set only when a login produced a session-audit row; it is a correlation
// handle for the transport session, never a source of authority.
type AuthResult struct {
	AccessToken   string
	RefreshToken  string
	PrincipalName string
	AuditID       string
}
