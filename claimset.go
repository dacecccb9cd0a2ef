package claimset

import (
	"fmt"
	"sort"
	"time"
)

// Registered claim names defined by RFC 7519 section 4.1.
const (
	claimIssuer     = "iss"
	claimSubject    = "sub"
	claimJWTID      = "jti"
	claimAudience   = "aud"
	claimExpiration = "exp"
	claimNotBefore  = "nbf"
	claimIssuedAt   = "iat"
)

var registeredNames = map[string]struct{}{
	claimIssuer:     {},
	claimSubject:    {},
	claimJWTID:      {},
	claimAudience:   {},
	claimExpiration: {},
	claimNotBefore:  {},
	claimIssuedAt:   {},
}

// ClaimSet is a validated set of JWT claims: the token body handed to a
// signer, or the payload obtained from a verifier.
//
// A ClaimSet is immutable once constructed and safe for concurrent readers.
// The only ways to obtain one are New and the parse entry points
// (FromJSONPayload and the interop adapters); every path runs the same
// validation, so a live ClaimSet always satisfies the registered-claim
// shape rules.
//
// Payload values are held in decoded-JSON form: nil, bool, float64, string,
// []any, or map[string]any. Nothing else is representable.
type ClaimSet struct {
	payload map[string]any
}

// HasIssuer reports whether the iss claim is present.
func (c *ClaimSet) HasIssuer() bool { return c.has(claimIssuer) }

// Issuer returns the iss claim. It fails if the claim is absent.
func (c *ClaimSet) Issuer() (string, error) { return c.stringClaim(claimIssuer) }

// HasSubject reports whether the sub claim is present.
func (c *ClaimSet) HasSubject() bool { return c.has(claimSubject) }

// Subject returns the sub claim. It fails if the claim is absent.
func (c *ClaimSet) Subject() (string, error) { return c.stringClaim(claimSubject) }

// HasJWTID reports whether the jti claim is present.
func (c *ClaimSet) HasJWTID() bool { return c.has(claimJWTID) }

// JWTID returns the jti claim. It fails if the claim is absent.
func (c *ClaimSet) JWTID() (string, error) { return c.stringClaim(claimJWTID) }

// HasAudiences reports whether the aud claim is present.
func (c *ClaimSet) HasAudiences() bool { return c.has(claimAudience) }

// Audiences returns the aud claim as a fresh slice; mutating the result
// does not affect the claim set. It fails if the claim is absent.
func (c *ClaimSet) Audiences() ([]string, error) {
	value, ok := c.payload[claimAudience]
	if !ok {
		return nil, newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q is not present", claimAudience))
	}
	list, ok := value.([]any)
	if !ok {
		return nil, newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q must be a list of strings", claimAudience))
	}
	audiences := make([]string, len(list))
	for i, item := range list {
		aud, ok := item.(string)
		if !ok {
			return nil, newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q must only contain strings", claimAudience))
		}
		audiences[i] = aud
	}
	return audiences, nil
}

// HasExpiration reports whether the exp claim is present.
func (c *ClaimSet) HasExpiration() bool { return c.has(claimExpiration) }

// Expiration returns the exp claim as a UTC instant with whole-second
// precision. It fails if the claim is absent.
func (c *ClaimSet) Expiration() (time.Time, error) { return c.timeClaim(claimExpiration) }

// HasNotBefore reports whether the nbf claim is present.
func (c *ClaimSet) HasNotBefore() bool { return c.has(claimNotBefore) }

// NotBefore returns the nbf claim as a UTC instant with whole-second
// precision. It fails if the claim is absent.
func (c *ClaimSet) NotBefore() (time.Time, error) { return c.timeClaim(claimNotBefore) }

// HasIssuedAt reports whether the iat claim is present.
func (c *ClaimSet) HasIssuedAt() bool { return c.has(claimIssuedAt) }

// IssuedAt returns the iat claim as a UTC instant with whole-second
// precision. It fails if the claim is absent.
func (c *ClaimSet) IssuedAt() (time.Time, error) { return c.timeClaim(claimIssuedAt) }

// CustomClaimNames returns the sorted names of all non-registered claims.
func (c *ClaimSet) CustomClaimNames() []string {
	names := make([]string, 0, len(c.payload))
	for name := range c.payload {
		if _, registered := registeredNames[name]; registered {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CustomClaim returns the named custom claim. Compound values (lists and
// mappings) are returned as deep copies, so callers can never mutate the
// claim set through the result. Registered names and absent names fail.
func (c *ClaimSet) CustomClaim(name string) (any, error) {
	if err := validateCustomClaimName(name); err != nil {
		return nil, err
	}
	value, ok := c.payload[name]
	if !ok {
		return nil, newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q is not present", name))
	}
	switch value.(type) {
	case []any, map[string]any:
		return deepCopyValue(value), nil
	default:
		return value, nil
	}
}

func (c *ClaimSet) has(name string) bool {
	_, ok := c.payload[name]
	return ok
}

func (c *ClaimSet) stringClaim(name string) (string, error) {
	value, ok := c.payload[name]
	if !ok {
		return "", newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q is not present", name))
	}
	s, ok := value.(string)
	if !ok {
		return "", newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q must be a string", name))
	}
	return s, nil
}

func (c *ClaimSet) timeClaim(name string) (time.Time, error) {
	value, ok := c.payload[name]
	if !ok {
		return time.Time{}, newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q is not present", name))
	}
	seconds, ok := value.(float64)
	if !ok {
		return time.Time{}, newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q must be a number", name))
	}
	return time.Unix(int64(seconds), 0).UTC(), nil
}

func deepCopyValue(value any) any {
	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = deepCopyValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for name, item := range v {
			out[name] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
