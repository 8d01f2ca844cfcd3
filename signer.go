package signet

import (
	"context"
	"encoding/json"
)

// Signer produces tokens from payloads under a configuration fixed at
// construction. It is safe for concurrent use.
type Signer struct {
	cfg     SignerConfig
	info    algorithmInfo
	claims  claimsSpec
	secrets *secretSource
}

// NewSigner validates cfg and builds a Signer. All configuration errors are
// reported here, synchronously, before any token is produced.
func NewSigner(cfg SignerConfig) (*Signer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	info, _ := lookupAlgorithm(cfg.Algorithm)
	return &Signer{
		cfg:  cfg,
		info: info,
		claims: claimsSpec{
			jti:         cfg.JTI,
			randomJTI:   cfg.RandomJTI,
			aud:         cfg.Audience,
			iss:         cfg.Issuer,
			sub:         cfg.Subject,
			nonce:       cfg.Nonce,
			expiresIn:   cfg.ExpiresIn,
			notBefore:   cfg.NotBefore,
			noTimestamp: cfg.NoTimestamp,
		},
		secrets: newSecretSource(cfg.Secret, cfg.CacheTTL, cfg.Clock),
	}, nil
}

// Sign produces a token from payload. The payload is either raw content
// (string or []byte, encoded verbatim with no claim injection) or a claims
// map (map[string]any, merged with the configured claims). With a static or
// keyed secret and offload disabled the call runs fully inline.
func (s *Signer) Sign(payload any) (string, error) {
	return s.SignContext(context.Background(), payload)
}

// SignContext is Sign with a caller-imposed deadline on secret resolution and
// offloaded signing. Cancellation abandons the wait; an in-flight resolver
// call or pool task still runs to completion and its result is dropped.
func (s *Signer) SignContext(ctx context.Context, payload any) (string, error) {
	token, err := s.sign(ctx, payload)
	if err != nil {
		metricAdd(MetricSignFailure, 1)
		return "", err
	}
	metricAdd(MetricSignSuccess, 1)
	return token, nil
}

// SignResult delivers the outcome of SignAsync.
type SignResult struct {
	Token string
	Err   error
}

// SignAsync signs on a background goroutine and delivers the result on the
// returned buffered channel. This is the deferred calling convention; the
// channel receives exactly one result.
func (s *Signer) SignAsync(ctx context.Context, payload any) <-chan SignResult {
	out := make(chan SignResult, 1)
	go func() {
		token, err := s.SignContext(ctx, payload)
		out <- SignResult{Token: token, Err: err}
	}()
	return out
}

// InvalidateKey drops resolver-cached key material for kid, forcing the next
// sign to re-fetch. No-op for static and keyed secrets.
func (s *Signer) InvalidateKey(kid string) {
	s.secrets.invalidate(kid)
}

func (s *Signer) sign(ctx context.Context, payload any) (string, error) {
	payloadRaw, structured, err := s.encodePayload(payload)
	if err != nil {
		return "", err
	}

	header := Header{Alg: s.cfg.Algorithm, Kid: s.cfg.KeyID, Extra: s.cfg.HeaderExtra}
	if structured {
		header.Typ = structuredTyp
	}
	headerSeg, terr := encodeHeader(header)
	if terr != nil {
		return "", terr
	}
	signingInput := []byte(headerSeg + "." + encodeSegment(payloadRaw))

	var key any
	if s.info.family != familyNone {
		material, err := s.secrets.resolve(ctx, header)
		if err != nil {
			return "", err
		}
		key, terr = parseSignKey(s.info, material)
		if terr != nil {
			return "", terr
		}
	}

	signature, err := s.computeSignature(ctx, key, signingInput)
	if err != nil {
		return "", err
	}
	return assembleToken(signingInput, signature), nil
}

func (s *Signer) computeSignature(ctx context.Context, key any, signingInput []byte) ([]byte, error) {
	if s.cfg.Offload && s.info.family != familyNone {
		metricAdd(MetricOffloadedOps, 1)
		res, err := sharedPool().submit(ctx, cryptoTask{
			op:    opSign,
			info:  s.info,
			key:   key,
			input: signingInput,
		})
		if err != nil {
			return nil, err
		}
		if res.err != nil {
			return nil, res.err
		}
		return res.signature, nil
	}

	signature, terr := signBytes(s.info, key, signingInput)
	if terr != nil {
		return nil, terr
	}
	return signature, nil
}

// encodePayload returns the decoded payload bytes and whether the payload is
// structured. Claims are merged only into structured payloads.
func (s *Signer) encodePayload(payload any) ([]byte, bool, error) {
	switch p := payload.(type) {
	case string:
		return []byte(p), false, nil
	case []byte:
		return p, false, nil
	case map[string]any:
		merged := s.claims.mergeClaims(p, s.cfg.Clock(), s.cfg.MutatePayload)
		raw, err := json.Marshal(merged)
		if err != nil {
			return nil, false, wrapTokenError(KindInvalidType, "payload not serializable", err)
		}
		return raw, true, nil
	default:
		return nil, false, newTokenError(KindInvalidType, "payload must be a string, []byte, or map[string]any")
	}
}
