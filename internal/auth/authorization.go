package auth

import (
	"context"
	"errors"
	"slices"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Roles carried in tokens
const (
	RoleAdmin   = "admin"
	RoleTrainer = "trainer"
	RoleMember  = "member"
)

// Principal is an already-authenticated caller. It is resolved once per request
// and passed explicitly to anything that needs to know who is calling.
type Principal struct {
	IdentityID string
	Email      string
	Role       string
	TokenID    string
}

// HasAnyRole reports whether the principal holds one of roles
func (p *Principal) HasAnyRole(roles ...string) bool {
	return p != nil && slices.Contains(roles, p.Role)
}

type contextKey string

const principalContextKey contextKey = "principal"

// GetPrincipalFromContext extracts the authenticated caller placed by middleware
func GetPrincipalFromContext(ctx context.Context) (*Principal, error) {
	p, ok := ctx.Value(principalContextKey).(*Principal)
	if !ok || p == nil {
		return nil, ErrUnauthenticated
	}
	return p, nil
}

// SetPrincipalInContext stores the authenticated caller in the context
func SetPrincipalInContext(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// RequireAnyRole checks that the caller in ctx holds one of roles
func RequireAnyRole(ctx context.Context, roles ...string) (*Principal, error) {
	p, err := GetPrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !p.HasAnyRole(roles...) {
		return nil, ErrForbidden
	}
	return p, nil
}
