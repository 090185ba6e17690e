package auth

import (
	"context"
	"strings"
)

type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// Principal is the authenticated caller as resolved by the auth
// collaborator. The token protocol itself lives outside this module.
type Principal struct {
	Email string
	Role  Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Context exposes the current caller, if any. Implementations typically
// read a request-scoped value set by HTTP middleware.
type Context interface {
	CurrentUser(ctx context.Context) (Principal, bool)
}

// CanManage applies the owner-or-admin rule for property mutations.
func CanManage(p Principal, ownerEmail string) bool {
	if p.IsAdmin() {
		return true
	}
	return p.Email != "" && strings.EqualFold(p.Email, ownerEmail)
}

type principalKey struct{}

// WithPrincipal stores the principal in the context for RequestContext to
// find.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// RequestContext resolves the principal from context values, the shape the
// HTTP middleware produces.
type RequestContext struct{}

func (RequestContext) CurrentUser(ctx context.Context) (Principal, bool) {
	val := ctx.Value(principalKey{})
	if val == nil {
		return Principal{}, false
	}
	p, ok := val.(Principal)
	return p, ok
}
