package signet

import "errors"

var (
	// ErrInvalidOption is reported for bad configuration, at Signer/Verifier construction.
	ErrInvalidOption = errors.New("invalid option")
	// ErrInvalidType is reported when a payload is neither text, bytes, nor a claims map.
	ErrInvalidType = errors.New("invalid payload type")
	// ErrMalformedToken is reported for a wrong segment count or undecodable base64/JSON.
	ErrMalformedToken = errors.New("malformed token")
	// ErrInvalidAlgorithm is reported when the header algorithm is not in the verifier's allow-list.
	ErrInvalidAlgorithm = errors.New("algorithm not allowed")
	// ErrSecretFetching is reported when key resolution failed or produced nothing usable.
	ErrSecretFetching = errors.New("secret fetching failed")
	// ErrInvalidSignature is reported when cryptographic verification failed.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrTokenExpired is reported when the token is past its exp claim or the verifier's max age.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenNotActive is reported when the token's nbf claim is still in the future.
	ErrTokenNotActive = errors.New("token not active yet")
	// ErrInvalidClaimValue is reported for an aud/iss/sub/nonce/iat claim mismatch.
	ErrInvalidClaimValue = errors.New("invalid claim value")
)

// ErrorKind tags a TokenError with the failure category it reports.
//
// The kind is intentionally coarse: signature and claim failures never disclose
// which byte or which expected value mismatched, only the category.
type ErrorKind int

const (
	// KindInvalidOption tags configuration errors raised at construction.
	KindInvalidOption ErrorKind = iota
	// KindInvalidType tags payloads of an unsupported shape.
	KindInvalidType
	// KindMalformedToken tags structurally invalid tokens.
	KindMalformedToken
	// KindInvalidAlgorithm tags disallowed header algorithms.
	KindInvalidAlgorithm
	// KindSecretFetching tags key-resolution failures.
	KindSecretFetching
	// KindInvalidSignature tags failed cryptographic verification.
	KindInvalidSignature
	// KindTokenExpired tags expiry and max-age failures.
	KindTokenExpired
	// KindTokenNotActive tags not-before failures.
	KindTokenNotActive
	// KindInvalidClaimValue tags identity-claim mismatches.
	KindInvalidClaimValue
)

var kindSentinels = map[ErrorKind]error{
	KindInvalidOption:     ErrInvalidOption,
	KindInvalidType:       ErrInvalidType,
	KindMalformedToken:    ErrMalformedToken,
	KindInvalidAlgorithm:  ErrInvalidAlgorithm,
	KindSecretFetching:    ErrSecretFetching,
	KindInvalidSignature:  ErrInvalidSignature,
	KindTokenExpired:      ErrTokenExpired,
	KindTokenNotActive:    ErrTokenNotActive,
	KindInvalidClaimValue: ErrInvalidClaimValue,
}

// TokenError is the error type returned by every signet operation.
//
// It carries a kind, a human-readable message, and an optional wrapped cause.
// errors.Is matches the per-kind sentinel (for example ErrTokenExpired), and
// errors.Unwrap exposes the cause when one exists.
type TokenError struct {
	Kind  ErrorKind
	msg   string
	cause error
}

func newTokenError(kind ErrorKind, msg string) *TokenError {
	return &TokenError{Kind: kind, msg: msg}
}

func wrapTokenError(kind ErrorKind, msg string, cause error) *TokenError {
	return &TokenError{Kind: kind, msg: msg, cause: cause}
}

// Error implements the error interface.
func (e *TokenError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	if s, ok := kindSentinels[e.Kind]; ok {
		return s.Error()
	}
	return "token error"
}

// Unwrap returns the wrapped cause, if any.
func (e *TokenError) Unwrap() error {
	return e.cause
}

// Is reports whether target is the sentinel for this error's kind.
func (e *TokenError) Is(target error) bool {
	return target == kindSentinels[e.Kind]
}
