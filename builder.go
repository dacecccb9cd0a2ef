package claimset

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Options describes the claims placed into a new ClaimSet. Absent optional
// fields are expressed with nil pointers; there are no implicit defaults.
type Options struct {
	Issuer  *string
	Subject *string

	// JWTID sets the jti claim verbatim. GenerateJWTID mints a random UUID
	// as the jti claim instead. Setting both is an error.
	JWTID         *string
	GenerateJWTID bool

	// Audience places a single audience value, normalized to a one-element
	// list. Audiences places the given non-empty list. Setting both is an
	// error.
	Audience  *string
	Audiences []string

	// Timestamps are stored as whole seconds since the Unix epoch;
	// sub-second precision is truncated. Zero instants are rejected.
	ExpiresAt *time.Time
	NotBefore *time.Time
	IssuedAt  *time.Time

	// CustomClaims may hold nil, bool, string, and numeric values, plus
	// lists and string-keyed mappings of those. Compound values are
	// canonicalized through a JSON round trip at build time, never aliased.
	CustomClaims map[string]any
}

// validate ensures the option combination is usable before any claim is built.
func (o Options) validate() error {
	switch {
	case o.Audience != nil && o.Audiences != nil:
		return newError(ErrCodeInvalidClaim, errors.New("Audience and Audiences are mutually exclusive"))
	case o.Audiences != nil && len(o.Audiences) == 0:
		return newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q must be a non-empty list", claimAudience))
	case o.JWTID != nil && o.GenerateJWTID:
		return newError(ErrCodeInvalidClaim, errors.New("JWTID and GenerateJWTID are mutually exclusive"))
	}
	return nil
}

// New builds a validated, immutable ClaimSet from typed fields. Construction
// either fully succeeds or fails with no usable object; option inputs are
// copied or canonicalized, never aliased.
func New(opts Options) (*ClaimSet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	payload := make(map[string]any)
	if opts.Issuer != nil {
		payload[claimIssuer] = *opts.Issuer
	}
	if opts.Subject != nil {
		payload[claimSubject] = *opts.Subject
	}
	if opts.JWTID != nil {
		payload[claimJWTID] = *opts.JWTID
	}
	if opts.GenerateJWTID {
		payload[claimJWTID] = uuid.NewString()
	}
	if opts.Audience != nil {
		payload[claimAudience] = *opts.Audience
	}
	if opts.Audiences != nil {
		audiences := make([]any, len(opts.Audiences))
		for i, aud := range opts.Audiences {
			audiences[i] = aud
		}
		payload[claimAudience] = audiences
	}

	timestamps := []struct {
		name  string
		value *time.Time
	}{
		{claimExpiration, opts.ExpiresAt},
		{claimNotBefore, opts.NotBefore},
		{claimIssuedAt, opts.IssuedAt},
	}
	for _, ts := range timestamps {
		if ts.value == nil {
			continue
		}
		seconds, err := epochSeconds(ts.name, *ts.value)
		if err != nil {
			return nil, err
		}
		payload[ts.name] = seconds
	}

	for name, value := range opts.CustomClaims {
		if err := validateCustomClaimName(name); err != nil {
			return nil, err
		}
		canonical, err := canonicalClaimValue(name, value)
		if err != nil {
			return nil, err
		}
		payload[name] = canonical
	}

	if err := validatePayload(payload); err != nil {
		return nil, err
	}
	return &ClaimSet{payload: payload}, nil
}

// epochSeconds converts an instant to whole seconds since the Unix epoch,
// truncating sub-second precision.
func epochSeconds(name string, t time.Time) (float64, error) {
	if t.IsZero() {
		return 0, newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q has a zero time value", name))
	}
	return float64(t.Unix()), nil
}

// canonicalClaimValue converts a custom claim input into decoded-JSON form.
// Scalars map directly (all numbers become float64); lists and mappings go
// through a JSON round trip so the stored value is always something JSON can
// express, with no aliasing of the caller's input.
func canonicalClaimValue(name string, value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool:
		return v, nil
	case string:
		return v, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q: %w", name, err))
		}
		return f, nil
	case []any, []string, map[string]any:
		return jsonRoundTrip(name, v)
	default:
		return nil, newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q has unsupported type %T", name, value))
	}
}

func jsonRoundTrip(name string, value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q is not JSON-representable: %w", name, err))
	}
	var canonical any
	if err := json.Unmarshal(data, &canonical); err != nil {
		return nil, newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q: %w", name, err))
	}
	return canonical, nil
}
