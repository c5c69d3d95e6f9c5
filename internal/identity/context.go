package identity

import "context"

// ctxKey is the context key type for the authenticated identity.
type ctxKey struct{}

// NewContext stores the authenticated identity in the context.
// This is called by the identity middleware after successful authentication.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext retrieves the authenticated identity from the context.
// Returns (identity, true) when present, or a zero identity and false when the
// request never passed the identity middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
