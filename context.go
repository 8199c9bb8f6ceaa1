package rentroam

import "context"

type ctxKey string

const (
	ctxKeyIdentity ctxKey = "rentroam_identity"
	ctxKeyRole     ctxKey = "rentroam_role"
)

// WithIdentity stores the authenticated identity in the context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// IdentityFromContext extracts the authenticated identity from the context,
// or nil when anonymous.
func IdentityFromContext(ctx context.Context) *Identity {
	v, _ := ctx.Value(ctxKeyIdentity).(*Identity)
	return v
}

// WithRole stores the session role in the context.
func WithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, ctxKeyRole, role)
}

// RoleFromContext extracts the session role from the context. Returns
// RoleGuest when no role was stored.
func RoleFromContext(ctx context.Context) Role {
	if v, ok := ctx.Value(ctxKeyRole).(Role); ok {
		return v
	}
	return RoleGuest
}
