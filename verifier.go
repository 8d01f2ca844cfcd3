package signet

import (
	"context"
	"encoding/json"
)

// VerifiedToken is the successful result of a verification.
//
// For a structured token Claims holds the parsed payload and Payload is nil.
// For a raw-content token Payload holds the decoded bytes and Claims is nil.
type VerifiedToken struct {
	Header  Header
	Claims  map[string]any
	Payload []byte
}

// Verifier validates tokens under a configuration fixed at construction.
// It is safe for concurrent use.
type Verifier struct {
	cfg     VerifierConfig
	allowed map[Algorithm]algorithmInfo
	expect  claimExpectations
	secrets *secretSource
}

// NewVerifier validates cfg and builds a Verifier. All configuration errors
// are reported here, synchronously, before any token is examined.
func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	allowed := make(map[Algorithm]algorithmInfo, len(cfg.Algorithms))
	for _, alg := range cfg.Algorithms {
		info, _ := lookupAlgorithm(alg)
		allowed[alg] = info
	}
	return &Verifier{
		cfg:     cfg,
		allowed: allowed,
		expect: claimExpectations{
			tolerance:       cfg.ClockTolerance,
			maxAge:          cfg.MaxAge,
			aud:             cfg.Audience,
			iss:             cfg.Issuer,
			sub:             cfg.Subject,
			nonce:           cfg.Nonce,
			ignoreExpiry:    cfg.IgnoreExpiration,
			ignoreNotBefore: cfg.IgnoreNotBefore,
			ignoreIssuedAt:  cfg.IgnoreIssuedAt,
		},
		secrets: newSecretSource(cfg.Secret, cfg.CacheTTL, cfg.Clock),
	}, nil
}

// Verify decodes token, checks its signature, and validates its claims.
// With a static or keyed secret and offload disabled the call runs fully
// inline. Failures are reported as a *TokenError whose kind distinguishes
// malformed input, a disallowed algorithm, a fetch failure, a bad signature,
// and each claim-check category — and nothing more specific than that.
func (v *Verifier) Verify(token string) (*VerifiedToken, error) {
	return v.VerifyContext(context.Background(), token)
}

// VerifyContext is Verify with a caller-imposed deadline on secret resolution
// and offloaded verification. Cancellation abandons the wait; the underlying
// operation still runs to completion and its result is dropped.
func (v *Verifier) VerifyContext(ctx context.Context, token string) (*VerifiedToken, error) {
	verified, err := v.verify(ctx, token)
	if err != nil {
		metricAdd(MetricVerifyFailure, 1)
		return nil, err
	}
	metricAdd(MetricVerifySuccess, 1)
	return verified, nil
}

// VerifyResult delivers the outcome of VerifyAsync.
type VerifyResult struct {
	Token *VerifiedToken
	Err   error
}

// VerifyAsync verifies on a background goroutine and delivers the result on
// the returned buffered channel. This is the deferred calling convention; the
// channel receives exactly one result.
func (v *Verifier) VerifyAsync(ctx context.Context, token string) <-chan VerifyResult {
	out := make(chan VerifyResult, 1)
	go func() {
		verified, err := v.VerifyContext(ctx, token)
		out <- VerifyResult{Token: verified, Err: err}
	}()
	return out
}

// InvalidateKey drops resolver-cached key material for kid, forcing the next
// verification to re-fetch. No-op for static and keyed secrets.
func (v *Verifier) InvalidateKey(kid string) {
	v.secrets.invalidate(kid)
}

// verify runs the fixed pipeline: decode, algorithm allow-list, secret
// resolution, signature check, then claim validation. Claims are never
// examined before the signature has been verified.
func (v *Verifier) verify(ctx context.Context, token string) (*VerifiedToken, error) {
	raw, terr := decodeToken(token)
	if terr != nil {
		return nil, terr
	}

	info, ok := v.allowed[raw.header.Alg]
	if !ok {
		return nil, newTokenError(KindInvalidAlgorithm, "algorithm not allowed")
	}

	var key any
	if info.family != familyNone {
		material, err := v.secrets.resolve(ctx, raw.header)
		if err != nil {
			return nil, err
		}
		key, terr = parseVerifyKey(info, material)
		if terr != nil {
			return nil, terr
		}
	}

	valid, err := v.checkSignature(ctx, info, key, raw)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, newTokenError(KindInvalidSignature, "signature verification failed")
	}

	verified := &VerifiedToken{Header: raw.header}
	if raw.structured() {
		if err := json.Unmarshal(raw.payload, &verified.Claims); err != nil {
			return nil, wrapTokenError(KindMalformedToken, "payload is not valid JSON", err)
		}
		if terr := v.expect.validateClaims(verified.Claims, v.cfg.Clock()); terr != nil {
			return nil, terr
		}
	} else {
		verified.Payload = raw.payload
	}
	return verified, nil
}

func (v *Verifier) checkSignature(ctx context.Context, info algorithmInfo, key any, raw *rawToken) (bool, error) {
	if v.cfg.Offload && info.family != familyNone {
		metricAdd(MetricOffloadedOps, 1)
		res, err := sharedPool().submit(ctx, cryptoTask{
			op:        opVerify,
			info:      info,
			key:       key,
			input:     raw.signingInput,
			signature: raw.signature,
		})
		if err != nil {
			return false, err
		}
		return res.valid, nil
	}
	return verifyBytes(info, key, raw.signingInput, raw.signature), nil
}
