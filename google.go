package claimset

import (
	"encoding/json"
	"errors"

	"google.golang.org/api/idtoken"
)

// FromIDTokenPayload converts a Google-verified ID token payload into a
// ClaimSet. The payload's claim map usually already contains the registered
// claims; the typed struct fields win when both are present.
func FromIDTokenPayload(payload *idtoken.Payload) (*ClaimSet, error) {
	if payload == nil {
		return nil, newError(ErrCodeMalformedPayload, errors.New("idtoken payload is nil"))
	}

	claims := make(map[string]any, len(payload.Claims)+5)
	for name, value := range payload.Claims {
		claims[name] = value
	}
	if payload.Issuer != "" {
		claims[claimIssuer] = payload.Issuer
	}
	if payload.Subject != "" {
		claims[claimSubject] = payload.Subject
	}
	if payload.Audience != "" {
		claims[claimAudience] = payload.Audience
	}
	if payload.Expires != 0 {
		claims[claimExpiration] = float64(payload.Expires)
	}
	if payload.IssuedAt != 0 {
		claims[claimIssuedAt] = float64(payload.IssuedAt)
	}

	// Round trip through JSON so claim values from the Google validator end
	// up in the same canonical form as every other construction path.
	data, err := json.Marshal(claims)
	if err != nil {
		return nil, newError(ErrCodeMalformedPayload, err)
	}
	return FromJSONPayload(data)
}
