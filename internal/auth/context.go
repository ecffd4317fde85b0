package auth

import "context"

// Identity is the account identity and role resolved from a verified token.
// It is attached to the request context by the authentication middleware,
// lives only for that request, and is never shared across requests.
type Identity struct {
	AccountID string
	Role      Role
}

// identityKey is the private context key type for Identity.
type identityKey struct{}

// WithIdentity returns a new context with the identity attached.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext retrieves the identity from the context, or nil if the
// authentication middleware has not run.
func IdentityFromContext(ctx context.Context) *Identity {
	identity, ok := ctx.Value(identityKey{}).(*Identity)
	if !ok {
		return nil
	}
	return identity
}
