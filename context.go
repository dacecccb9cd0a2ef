package claimset

import "context"

type claimSetKey struct{}

// BindClaimSet stores a verified claim set inside the context for
// downstream consumers. The claim set is immutable, so sharing it through
// the context is safe.
func BindClaimSet(ctx context.Context, claims *ClaimSet) context.Context {
	return context.WithValue(ctx, claimSetKey{}, claims)
}

// ClaimSetFromContext retrieves a claim set previously stored in the context.
func ClaimSetFromContext(ctx context.Context) (*ClaimSet, bool) {
	if ctx == nil {
		return nil, false
	}
	claims, ok := ctx.Value(claimSetKey{}).(*ClaimSet)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}
