package claimset

import "fmt"

// validatePayload checks the registered-claim shape rules over a candidate
// payload and normalizes the audience claim in place. Both construction
// paths (New and FromJSONPayload) converge here, so untrusted parse input
// is held to exactly the same rules as builder input.
func validatePayload(payload map[string]any) error {
	for _, name := range []string{claimIssuer, claimSubject, claimJWTID} {
		if err := validateStringClaim(payload, name); err != nil {
			return err
		}
	}
	for _, name := range []string{claimExpiration, claimNotBefore, claimIssuedAt} {
		if err := validateNumberClaim(payload, name); err != nil {
			return err
		}
	}
	return normalizeAudienceClaim(payload)
}

func validateStringClaim(payload map[string]any, name string) error {
	value, ok := payload[name]
	if !ok {
		return nil
	}
	if _, ok := value.(string); !ok {
		return newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q must be a string", name))
	}
	return nil
}

func validateNumberClaim(payload map[string]any, name string) error {
	value, ok := payload[name]
	if !ok {
		return nil
	}
	if _, ok := value.(float64); !ok {
		return newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q must be a number", name))
	}
	return nil
}

// normalizeAudienceClaim rewrites a bare string audience into the canonical
// one-element list and rejects everything that is not a non-empty list of
// strings.
func normalizeAudienceClaim(payload map[string]any) error {
	value, ok := payload[claimAudience]
	if !ok {
		return nil
	}
	switch audiences := value.(type) {
	case string:
		payload[claimAudience] = []any{audiences}
		return nil
	case []any:
		if len(audiences) == 0 {
			return newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q must be a non-empty list", claimAudience))
		}
		for _, item := range audiences {
			if _, ok := item.(string); !ok {
				return newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q must only contain strings", claimAudience))
			}
		}
		return nil
	default:
		return newError(ErrCodeInvalidClaim, fmt.Errorf("claim %q must be a string or a non-empty list of strings", claimAudience))
	}
}

func validateCustomClaimName(name string) error {
	if _, registered := registeredNames[name]; registered {
		return newError(ErrCodeInvalidClaim, fmt.Errorf("registered name %q cannot be used as a custom claim name", name))
	}
	return nil
}
