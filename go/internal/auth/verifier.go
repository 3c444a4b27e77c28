package auth

import (
	"context"
	"fmt"
)

// Verifier resolves a bearer token into a caller identity. Implementations
// wrap whatever session provider fronts the service.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// StaticVerifier resolves tokens from a fixed map. It backs development and
// test setups where no real session provider is wired.
type StaticVerifier struct {
	tokens map[string]Identity
}

func NewStaticVerifier(tokens map[string]Identity) *StaticVerifier {
	return &StaticVerifier{tokens: tokens}
}

func (v *StaticVerifier) Verify(_ context.Context, token string) (Identity, error) {
	id, ok := v.tokens[token]
	if !ok {
		return Identity{}, fmt.Errorf("unknown token: %w", ErrUnauthenticated)
	}
	return id, nil
}
