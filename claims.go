package signet

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Reserved claim names handled by the engine.
const (
	claimIAT   = "iat"
	claimEXP   = "exp"
	claimNBF   = "nbf"
	claimJTI   = "jti"
	claimAUD   = "aud"
	claimISS   = "iss"
	claimSUB   = "sub"
	claimNonce = "nonce"
)

// claimsSpec is the sign-side claim configuration, fixed at Signer construction.
type claimsSpec struct {
	jti       string
	randomJTI bool
	aud       string
	iss       string
	sub       string
	nonce     string

	expiresIn   time.Duration
	notBefore   time.Duration
	noTimestamp bool
}

// mergeClaims layers the configured claims over the caller payload.
// Precedence, lowest to highest: caller fields, fixed identity claims,
// computed temporal claims. When inPlace is true the caller's map is written
// to and returned; otherwise the caller's map is left untouched.
func (c *claimsSpec) mergeClaims(payload map[string]any, now time.Time, inPlace bool) map[string]any {
	// A nil map cannot be written in place, so it always gets a fresh one.
	out := payload
	if !inPlace || out == nil {
		out = make(map[string]any, len(payload)+4)
		for k, v := range payload {
			out[k] = v
		}
	}

	if c.jti != "" {
		out[claimJTI] = c.jti
	}
	if c.randomJTI {
		out[claimJTI] = uuid.NewString()
	}
	if c.aud != "" {
		out[claimAUD] = c.aud
	}
	if c.iss != "" {
		out[claimISS] = c.iss
	}
	if c.sub != "" {
		out[claimSUB] = c.sub
	}
	if c.nonce != "" {
		out[claimNonce] = c.nonce
	}

	// The iat baseline is an existing numeric iat from the caller when present,
	// else the clock, truncated to whole seconds.
	base := now.Unix()
	if v, ok := numericClaim(payload[claimIAT]); ok {
		base = v
	}
	if !c.noTimestamp {
		out[claimIAT] = base
	}
	if c.expiresIn > 0 {
		out[claimEXP] = base + int64(c.expiresIn/time.Second)
	}
	if c.notBefore > 0 {
		out[claimNBF] = base + int64(c.notBefore/time.Second)
	}

	return out
}

// claimExpectations is the verify-side claim configuration, fixed at Verifier
// construction.
type claimExpectations struct {
	tolerance time.Duration
	maxAge    time.Duration

	aud   string
	iss   string
	sub   string
	nonce string

	ignoreExpiry    bool
	ignoreNotBefore bool
	ignoreIssuedAt  bool
}

// validateClaims runs the temporal and identity checks, fail-fast, in a fixed
// order: exp, nbf, future iat, max age, aud, iss, sub, nonce. It is only
// called after the signature has been verified.
func (e *claimExpectations) validateClaims(claims map[string]any, now time.Time) *TokenError {
	tol := e.tolerance

	if !e.ignoreExpiry {
		if exp, ok := numericClaim(claims[claimEXP]); ok {
			if now.Unix() > exp+int64(tol/time.Second) {
				return newTokenError(KindTokenExpired, "token expired")
			}
		}
	}
	if !e.ignoreNotBefore {
		if nbf, ok := numericClaim(claims[claimNBF]); ok {
			if now.Unix() < nbf-int64(tol/time.Second) {
				return newTokenError(KindTokenNotActive, "token not active yet")
			}
		}
	}

	iat, hasIAT := numericClaim(claims[claimIAT])
	if !e.ignoreIssuedAt && hasIAT {
		if iat > now.Unix()+int64(tol/time.Second) {
			return newTokenError(KindInvalidClaimValue, "iat is in the future")
		}
	}
	if e.maxAge > 0 {
		if !hasIAT {
			return newTokenError(KindInvalidClaimValue, "max age requires iat")
		}
		if now.Unix()-iat > int64((e.maxAge+tol)/time.Second) {
			return newTokenError(KindTokenExpired, "token exceeds max age")
		}
	}

	if e.aud != "" && !audienceMatches(claims[claimAUD], e.aud) {
		return newTokenError(KindInvalidClaimValue, "aud mismatch")
	}
	if e.iss != "" && !stringClaimEquals(claims[claimISS], e.iss) {
		return newTokenError(KindInvalidClaimValue, "iss mismatch")
	}
	if e.sub != "" && !stringClaimEquals(claims[claimSUB], e.sub) {
		return newTokenError(KindInvalidClaimValue, "sub mismatch")
	}
	if e.nonce != "" && !stringClaimEquals(claims[claimNonce], e.nonce) {
		return newTokenError(KindInvalidClaimValue, "nonce mismatch")
	}

	return nil
}

// numericClaim reads a claim as epoch seconds. JSON decoding yields float64;
// caller-built payloads may carry native integer types.
func numericClaim(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func stringClaimEquals(v any, want string) bool {
	s, ok := v.(string)
	return ok && s == want
}

// audienceMatches accepts either a single string aud or a list containing the
// expected value.
func audienceMatches(v any, want string) bool {
	switch aud := v.(type) {
	case string:
		return aud == want
	case []string:
		for _, a := range aud {
			if a == want {
				return true
			}
		}
	case []any:
		for _, a := range aud {
			if s, ok := a.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}
