package claimset

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/oauth2"
)

// FromToken converts a token parsed by a jwx-based verifier into a
// ClaimSet. The token's payload is re-validated; jwx accepting a token does
// not exempt it from the claim-shape rules.
func FromToken(tok jwt.Token) (*ClaimSet, error) {
	if tok == nil {
		return nil, newError(ErrCodeMalformedPayload, errors.New("token is nil"))
	}
	payload, err := json.Marshal(tok)
	if err != nil {
		return nil, newError(ErrCodeMalformedPayload, err)
	}
	return FromJSONPayload(payload)
}

// Token converts the claim set into a jwx token, ready to be signed. The
// token holds copies of the claim values; the claim set stays immutable.
func (c *ClaimSet) Token() (jwt.Token, error) {
	tok := jwt.New()
	for name, value := range c.payload {
		if err := tok.Set(name, deepCopyValue(value)); err != nil {
			return nil, newError(ErrCodeInvalidClaim, fmt.Errorf("set claim %q: %w", name, err))
		}
	}
	return tok, nil
}

// FromSignedToken extracts the payload of a compact JWS and validates it as
// a claim set. The signature is NOT checked here; callers must have
// verified it already. Freshness policy (expiry, not-before) stays with the
// caller as well, using the timestamp accessors.
func FromSignedToken(serialized []byte) (*ClaimSet, error) {
	msg, err := jws.Parse(serialized)
	if err != nil {
		return nil, newError(ErrCodeMalformedPayload, err)
	}
	return FromJSONPayload(msg.Payload())
}

// FromOAuth2Token decodes the claim set of the id_token carried by an
// OAuth2 token, as returned by an OpenID Connect flow.
func FromOAuth2Token(tok *oauth2.Token) (*ClaimSet, error) {
	if tok == nil {
		return nil, newError(ErrCodeMalformedPayload, errors.New("oauth2 token is nil"))
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, newError(ErrCodeMalformedPayload, errors.New("oauth2 token carries no id_token"))
	}
	return FromSignedToken([]byte(raw))
}
