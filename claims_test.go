package signet

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNumericClaim(t *testing.T) {
	cases := []struct {
		in   any
		want int64
		ok   bool
	}{
		{int(5), 5, true},
		{int64(7), 7, true},
		{float64(9.9), 9, true},
		{json.Number("11"), 11, true},
		{json.Number("nope"), 0, false},
		{"12", 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := numericClaim(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("numericClaim(%v) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestValidateClaimsFailFastOrder(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	expect := claimExpectations{aud: "api"}

	// Both exp and aud are wrong; exp must be the reported failure.
	claims := map[string]any{
		"exp": float64(now.Unix() - 100),
		"aud": "other",
	}
	err := expect.validateClaims(claims, now)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expiry to be reported first, got %v", err)
	}
}

func TestValidateClaimsTogglesDisableChecks(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	claims := map[string]any{
		"exp": float64(now.Unix() - 100),
		"nbf": float64(now.Unix() + 100),
	}

	expect := claimExpectations{ignoreExpiry: true, ignoreNotBefore: true}
	if err := expect.validateClaims(claims, now); err != nil {
		t.Fatalf("disabled checks should pass: %v", err)
	}
}

func TestValidateClaimsMaxAgeRequiresIAT(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	expect := claimExpectations{maxAge: time.Minute}
	err := expect.validateClaims(map[string]any{}, now)
	if !errors.Is(err, ErrInvalidClaimValue) {
		t.Fatalf("expected invalid claim value without iat, got %v", err)
	}
}

func TestMergeClaimsPrecedence(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	spec := claimsSpec{iss: "configured", expiresIn: time.Minute}

	payload := map[string]any{"iss": "caller", "exp": 42, "extra": true}
	merged := spec.mergeClaims(payload, now, false)

	if merged["iss"] != "configured" {
		t.Fatalf("iss = %v", merged["iss"])
	}
	// Computed exp overrides the caller's exp.
	if merged["exp"] != now.Unix()+60 {
		t.Fatalf("exp = %v", merged["exp"])
	}
	if merged["extra"] != true {
		t.Fatalf("extra = %v", merged["extra"])
	}
	if payload["iss"] != "caller" {
		t.Fatalf("caller payload was mutated: %v", payload)
	}
}
