package domain

import "context"

// Principal is the authenticated identity derived from a validated bearer
// token. It travels in the request context instead of any process-wide
// holder, so concurrent requests stay isolated.
type Principal struct {
	UserName  string
	GroupName string
}

type principalContextKey struct{}

// WithPrincipal returns a context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*Principal)
	return p, ok
}
