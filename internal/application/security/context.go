package security

import (
	"context"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/shared"
)

// Context is the security context every command and query runs under. It is
// produced by the HTTP middleware from bearer-token claims (or trusted
// headers) and carried through the request context; the core never issues or
// validates credentials itself.
type Context struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Roles    []string
}

// HasRole returns true if the context carries the role
func (c Context) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type contextKey struct{}

// WithContext attaches the security context to the request context
func WithContext(ctx context.Context, sc Context) context.Context {
	return context.WithValue(ctx, contextKey{}, sc)
}

// FromContext retrieves the security context. The second return value is
// false when no context was set for the request.
func FromContext(ctx context.Context) (Context, bool) {
	sc, ok := ctx.Value(contextKey{}).(Context)
	return sc, ok
}

// RequireTenant enforces the tenant isolation contract for a command: a
// security context must be present, and the tenant the command claims must
// be the tenant the request was authenticated for. Every command handler
// calls this before touching any aggregate.
func RequireTenant(ctx context.Context, commandTenantID uuid.UUID) (Context, error) {
	sc, ok := FromContext(ctx)
	if !ok || sc.TenantID == uuid.Nil {
		return Context{}, shared.ErrTenantRequired
	}
	if commandTenantID != uuid.Nil && commandTenantID != sc.TenantID {
		return Context{}, shared.ErrTenantMismatch
	}
	return sc, nil
}
