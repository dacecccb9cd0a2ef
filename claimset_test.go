package claimset

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestClaimSet_AbsentGetters(t *testing.T) {
	claims, err := New(Options{Issuer: strptr("issuer")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if claims.HasSubject() {
		t.Fatal("expected subject to be absent")
	}
	if _, err := claims.Subject(); err == nil {
		t.Fatal("expected error for absent subject")
	}
	if _, err := claims.JWTID(); err == nil {
		t.Fatal("expected error for absent jti")
	}
	if _, err := claims.Audiences(); err == nil {
		t.Fatal("expected error for absent audiences")
	}
	if _, err := claims.Expiration(); err == nil {
		t.Fatal("expected error for absent expiration")
	}
	if _, err := claims.NotBefore(); err == nil {
		t.Fatal("expected error for absent not-before")
	}
	if _, err := claims.IssuedAt(); err == nil {
		t.Fatal("expected error for absent issued-at")
	}
	if _, err := claims.CustomClaim("missing"); err == nil {
		t.Fatal("expected error for absent custom claim")
	}
}

func TestClaimSet_AudiencesCopy(t *testing.T) {
	claims, err := New(Options{Audiences: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first, err := claims.Audiences()
	if err != nil {
		t.Fatalf("Audiences: %v", err)
	}
	first[0] = "mutated"

	second, err := claims.Audiences()
	if err != nil {
		t.Fatalf("Audiences: %v", err)
	}
	if second[0] != "a" || second[1] != "b" {
		t.Fatalf("audience slice was not defensively copied: %v", second)
	}
}

func TestClaimSet_CustomClaimDeepCopy(t *testing.T) {
	claims, err := New(Options{
		CustomClaims: map[string]any{
			"meta": map[string]any{
				"nested": map[string]any{"k": "v"},
				"list":   []any{"x", "y"},
			},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first, err := claims.CustomClaim("meta")
	if err != nil {
		t.Fatalf("CustomClaim: %v", err)
	}
	meta := first.(map[string]any)
	meta["added"] = true
	meta["nested"].(map[string]any)["k"] = "mutated"
	meta["list"].([]any)[0] = "mutated"

	second, err := claims.CustomClaim("meta")
	if err != nil {
		t.Fatalf("CustomClaim: %v", err)
	}
	got := second.(map[string]any)
	if _, ok := got["added"]; ok {
		t.Fatal("top-level mutation leaked into the claim set")
	}
	if got["nested"].(map[string]any)["k"] != "v" {
		t.Fatal("nested map mutation leaked into the claim set")
	}
	if got["list"].([]any)[0] != "x" {
		t.Fatal("nested list mutation leaked into the claim set")
	}
}

func TestClaimSet_CustomClaimRegisteredName(t *testing.T) {
	claims, err := New(Options{Issuer: strptr("issuer")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, name := range []string{"iss", "sub", "jti", "aud", "exp", "nbf", "iat"} {
		if _, err := claims.CustomClaim(name); err == nil {
			t.Fatalf("CustomClaim(%q): expected error, got nil", name)
		}
	}
}

func TestClaimSet_CustomClaimNamesSorted(t *testing.T) {
	claims, err := New(Options{
		Issuer: strptr("issuer"),
		CustomClaims: map[string]any{
			"zeta":  1,
			"alpha": 2,
			"mid":   3,
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	names := claims.CustomClaimNames()
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("unexpected names: %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestClaimSet_JSONPayloadDeterministic(t *testing.T) {
	claims, err := New(Options{
		Issuer:    strptr("issuer"),
		Audiences: []string{"a", "b"},
		CustomClaims: map[string]any{
			"zeta":  1,
			"alpha": map[string]any{"b": 2, "a": 1},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	first, err := claims.JSONPayload()
	if err != nil {
		t.Fatalf("JSONPayload: %v", err)
	}
	second, err := claims.JSONPayload()
	if err != nil {
		t.Fatalf("JSONPayload: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("payload rendering is not deterministic:\n%s\n%s", first, second)
	}
}

func TestClaimSetContext(t *testing.T) {
	if _, ok := ClaimSetFromContext(context.Background()); ok {
		t.Fatal("expected no claim set in fresh context")
	}

	claims, err := New(Options{Subject: strptr("user-1")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := BindClaimSet(context.Background(), claims)

	got, ok := ClaimSetFromContext(ctx)
	if !ok {
		t.Fatal("expected claim set in context")
	}
	sub, err := got.Subject()
	if err != nil {
		t.Fatalf("Subject: %v", err)
	}
	if sub != "user-1" {
		t.Fatalf("unexpected subject: %s", sub)
	}
}

func TestDevClaims(t *testing.T) {
	claims, err := DefaultDevClaims("https://api.local.dev").ToClaimSet()
	if err != nil {
		t.Fatalf("ToClaimSet: %v", err)
	}
	sub, err := claims.Subject()
	if err != nil {
		t.Fatalf("Subject: %v", err)
	}
	if sub != "dev-bypass" {
		t.Fatalf("unexpected subject: %s", sub)
	}
	audiences, err := claims.Audiences()
	if err != nil {
		t.Fatalf("Audiences: %v", err)
	}
	if len(audiences) != 1 || audiences[0] != "https://api.local.dev" {
		t.Fatalf("unexpected audiences: %v", audiences)
	}
	bypass, err := claims.CustomClaim("dev_bypass")
	if err != nil {
		t.Fatalf("CustomClaim: %v", err)
	}
	if bypass != true {
		t.Fatalf("unexpected dev_bypass value: %v", bypass)
	}
}

// Immutable claim sets are shared between readers without locking; hammer
// the accessors from multiple goroutines so the race detector can object.
func TestClaimSet_ConcurrentReaders(t *testing.T) {
	now := time.Now()
	claims, err := New(Options{
		Issuer:    strptr("issuer"),
		Audiences: []string{"a", "b"},
		ExpiresAt: timeptr(now.Add(time.Hour)),
		CustomClaims: map[string]any{
			"meta": map[string]any{"k": "v"},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				if _, err := claims.Audiences(); err != nil {
					t.Errorf("Audiences: %v", err)
					return
				}
				if _, err := claims.CustomClaim("meta"); err != nil {
					t.Errorf("CustomClaim: %v", err)
					return
				}
				if _, err := claims.JSONPayload(); err != nil {
					t.Errorf("JSONPayload: %v", err)
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
