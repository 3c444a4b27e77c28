package auth

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned when an operation requires a caller
// identity and none is present.
var ErrUnauthenticated = errors.New("unauthenticated")

// Identity is the authenticated caller, resolved once at the transport
// boundary and passed explicitly into every operation. The session provider
// that produces it is external to this service.
type Identity struct {
	UserID      string
	DisplayName string
}

type contextKey struct{}

// WithIdentity returns a context carrying the caller identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext extracts the caller identity from ctx.
func FromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, ErrUnauthenticated
	}
	return id, nil
}
