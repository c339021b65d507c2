package services

import (
	"context"
	"fmt"
	"time"

	"go.carehub.io/hospital-api/domain"
)

// AuditRecorder opens and closes session-audit rows. Its failures wrap
// domain.ErrAuditWrite so the orchestrator can swallow them deliberately:
// audit-trail completeness is desirable but not safety critical for
// authentication correctness.
type AuditRecorder struct {
	audits domain.SessionAuditRepository
}

// NewAuditRecorder creates a new AuditRecorder.
func NewAuditRecorder(audits domain.SessionAuditRepository) *AuditRecorder {
	return &AuditRecorder{audits: audits}
}

// Open inserts a session-audit row for a successful login and returns its
// identifier.
func (r *AuditRecorder) Open(ctx context.Context, userName string, loginAt time.Time) (string, error) {
	id, err := r.audits.Create(ctx, &domain.SessionAudit{
		UserName:  userName,
		LoginDate: loginAt,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAuditWrite, err)
	}
	return id, nil
}

// Close stamps the logout date on an open audit row. Identity and login
// date stay immutable.
func (r *AuditRecorder) Close(ctx context.Context, auditID string, logoutAt time.Time) error {
	if err := r.audits.SetLogoutDate(ctx, auditID, logoutAt); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAuditWrite, err)
	}
	return nil
}
