package signet

import (
	"fmt"
	"time"
)

const defaultCacheTTL = 10 * time.Minute

// SignerConfig configures a Signer. All fields are read once by NewSigner and
// treated as immutable afterward.
type SignerConfig struct {
	// Secret supplies the signing key material. Required for every algorithm
	// except AlgNone, which must not carry one.
	Secret Secret
	// Algorithm selects the signing algorithm. Defaults to AlgHS256.
	Algorithm Algorithm
	// KeyID is written to the header's kid field when non-empty.
	KeyID string
	// HeaderExtra adds caller extension fields to the header.
	HeaderExtra map[string]any

	// ExpiresIn sets exp = iat + ExpiresIn when positive.
	ExpiresIn time.Duration
	// NotBefore sets nbf = iat + NotBefore when positive.
	NotBefore time.Duration
	// NoTimestamp suppresses the iat claim.
	NoTimestamp bool

	// JTI, Audience, Issuer, Subject, and Nonce are fixed claims injected into
	// every structured payload when non-empty.
	JTI      string
	Audience string
	Issuer   string
	Subject  string
	Nonce    string
	// RandomJTI mints a fresh UUID jti per token. Mutually exclusive with JTI.
	RandomJTI bool

	// MutatePayload writes merged claims back into the caller's map instead of
	// copying. The returned map aliases the argument.
	MutatePayload bool
	// Offload dispatches the signature computation to the shared worker pool.
	Offload bool

	// CacheTTL bounds how long resolver-fetched key material is reused.
	// Zero means the 10 minute default; resolver secrets only.
	CacheTTL time.Duration

	// Clock overrides the time source. Nil means time.Now. Test seam.
	Clock func() time.Time
}

func (c *SignerConfig) validate() *TokenError {
	if c.Algorithm == "" {
		c.Algorithm = AlgHS256
	}
	info, ok := lookupAlgorithm(c.Algorithm)
	if !ok {
		return newTokenError(KindInvalidOption, fmt.Sprintf("unsupported algorithm %q", c.Algorithm))
	}
	if info.family == familyNone {
		if c.Secret.configured() {
			return newTokenError(KindInvalidOption, "algorithm none does not take a secret")
		}
	} else if !c.Secret.configured() {
		return newTokenError(KindInvalidOption, "secret is required")
	}
	if c.ExpiresIn < 0 {
		return newTokenError(KindInvalidOption, "ExpiresIn must not be negative")
	}
	if c.NotBefore < 0 {
		return newTokenError(KindInvalidOption, "NotBefore must not be negative")
	}
	if c.CacheTTL < 0 {
		return newTokenError(KindInvalidOption, "CacheTTL must not be negative")
	}
	if c.JTI != "" && c.RandomJTI {
		return newTokenError(KindInvalidOption, "JTI and RandomJTI are mutually exclusive")
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = defaultCacheTTL
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return nil
}

// VerifierConfig configures a Verifier. All fields are read once by
// NewVerifier and treated as immutable afterward.
type VerifierConfig struct {
	// Secret supplies the verification key material. Required unless the
	// allow-list is exactly {AlgNone}.
	Secret Secret
	// Algorithms is the explicit allow-list of acceptable header algorithms.
	// It must be non-empty; AlgNone is accepted only when listed here.
	Algorithms []Algorithm

	// ClockTolerance is the slack applied to every time comparison.
	ClockTolerance time.Duration
	// MaxAge rejects tokens older than this span since iat, independent of exp.
	MaxAge time.Duration

	// Audience, Issuer, Subject, and Nonce are expected claim values checked
	// when non-empty. Audience matches a string claim or membership in a list
	// claim; the others are exact string equality.
	Audience string
	Issuer   string
	Subject  string
	Nonce    string

	// IgnoreExpiration, IgnoreNotBefore, and IgnoreIssuedAt switch off the
	// corresponding temporal check.
	IgnoreExpiration bool
	IgnoreNotBefore  bool
	IgnoreIssuedAt   bool

	// Offload dispatches signature verification to the shared worker pool.
	Offload bool

	// CacheTTL bounds how long resolver-fetched key material is reused.
	// Zero means the 10 minute default; resolver secrets only.
	CacheTTL time.Duration

	// Clock overrides the time source. Nil means time.Now. Test seam.
	Clock func() time.Time
}

func (c *VerifierConfig) validate() *TokenError {
	if len(c.Algorithms) == 0 {
		return newTokenError(KindInvalidOption, "algorithm allow-list is required")
	}
	requiresKey := false
	for _, alg := range c.Algorithms {
		info, ok := lookupAlgorithm(alg)
		if !ok {
			return newTokenError(KindInvalidOption, fmt.Sprintf("unsupported algorithm %q", alg))
		}
		if info.family != familyNone {
			requiresKey = true
		}
	}
	if requiresKey && !c.Secret.configured() {
		return newTokenError(KindInvalidOption, "secret is required")
	}
	if c.ClockTolerance < 0 {
		return newTokenError(KindInvalidOption, "ClockTolerance must not be negative")
	}
	if c.MaxAge < 0 {
		return newTokenError(KindInvalidOption, "MaxAge must not be negative")
	}
	if c.CacheTTL < 0 {
		return newTokenError(KindInvalidOption, "CacheTTL must not be negative")
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = defaultCacheTTL
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return nil
}
