package claimset

// DevClaims holds attributes used when issuing synthetic claims in dev mode.
type DevClaims struct {
	Subject  string
	Issuer   string
	Audience []string
	Email    string
}

// ToClaimSet builds the synthetic dev claim set through the normal factory;
// dev mode never bypasses validation.
func (d DevClaims) ToClaimSet() (*ClaimSet, error) {
	custom := map[string]any{"dev_bypass": true}
	if d.Email != "" {
		custom["email"] = d.Email
	}
	opts := Options{CustomClaims: custom}
	if d.Issuer != "" {
		opts.Issuer = &d.Issuer
	}
	if d.Subject != "" {
		opts.Subject = &d.Subject
	}
	if len(d.Audience) > 0 {
		opts.Audiences = append([]string(nil), d.Audience...)
	}
	return New(opts)
}

// DefaultDevClaims returns a baseline set of claims suitable for local
// development.
func DefaultDevClaims(audience string) DevClaims {
	aud := audience
	if aud == "" {
		aud = "https://dev.local"
	}
	return DevClaims{
		Subject:  "dev-bypass",
		Issuer:   "claimset.dev",
		Audience: []string{aud},
	}
}
