package auth

import "context"

type identityContextKey struct{}

// SetIdentityToContext stores the verified identity in ctx.
func SetIdentityToContext(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext returns the identity stored by SetIdentityToContext.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(*Identity)
	return id, ok && id != nil
}
