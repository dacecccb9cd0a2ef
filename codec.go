package claimset

import (
	"encoding/json"
	"errors"
)

// FromJSONPayload parses a token payload into a validated ClaimSet. This is
// the entry point for untrusted input: the payload of a token whose
// signature has been checked by a verifier, but whose claims have not. Any
// shape violation fails here, before the caller can observe a claim set.
func FromJSONPayload(payload []byte) (*ClaimSet, error) {
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, newError(ErrCodeMalformedPayload, err)
	}
	if decoded == nil {
		// "null" unmarshals into a nil map without error.
		return nil, newError(ErrCodeMalformedPayload, errors.New("payload is not a JSON object"))
	}
	if err := validatePayload(decoded); err != nil {
		return nil, err
	}
	return &ClaimSet{payload: decoded}, nil
}

// JSONPayload renders the claim set as a JSON object for a signer to embed
// as the token body. Keys are emitted in sorted order, so the output is
// deterministic for a given claim set.
func (c *ClaimSet) JSONPayload() ([]byte, error) {
	payload, err := json.Marshal(c.payload)
	if err != nil {
		return nil, newError(ErrCodeInvalidClaim, err)
	}
	return payload, nil
}
