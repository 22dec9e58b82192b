package shared

import "context"

type identityContextKey struct{}

type tenantContextKey struct{}

// ContextWithIdentity stores the authenticated identity in context.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context. Nil when unauthenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityContextKey{}).(*Identity)
	return id
}

// TenantRef is the resolved tenant carried through a request.
type TenantRef struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// ContextWithTenant stores the resolved tenant in context.
func ContextWithTenant(ctx context.Context, t *TenantRef) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, t)
}

// TenantFromContext extracts the resolved tenant from context. Nil when no tenant applies.
func TenantFromContext(ctx context.Context) *TenantRef {
	t, _ := ctx.Value(tenantContextKey{}).(*TenantRef)
	return t
}
