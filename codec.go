package signet

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// structuredTyp marks a header whose payload segment is a JSON claims object.
// Raw string/byte payloads carry no typ at all.
const structuredTyp = "JWT"

// Header is the decoded first segment of a token.
//
// Alg is always present. Typ is set to "JWT" only for structured payloads.
// Kid selects the verification key when the secret is keyed or resolved.
// Extra holds caller-supplied extension fields and round-trips through
// encoding untouched.
type Header struct {
	Alg   Algorithm
	Typ   string
	Kid   string
	Extra map[string]any
}

// MarshalJSON folds Extra into the same JSON object as the named fields.
func (h Header) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, 3+len(h.Extra))
	for k, v := range h.Extra {
		obj[k] = v
	}
	obj["alg"] = string(h.Alg)
	if h.Typ != "" {
		obj["typ"] = h.Typ
	}
	if h.Kid != "" {
		obj["kid"] = h.Kid
	}
	return json.Marshal(obj)
}

// UnmarshalJSON splits the named fields out of the object and keeps the rest
// in Extra.
func (h *Header) UnmarshalJSON(data []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if alg, ok := obj["alg"].(string); ok {
		h.Alg = Algorithm(alg)
	}
	if typ, ok := obj["typ"].(string); ok {
		h.Typ = typ
	}
	if kid, ok := obj["kid"].(string); ok {
		h.Kid = kid
	}
	delete(obj, "alg")
	delete(obj, "typ")
	delete(obj, "kid")
	if len(obj) > 0 {
		h.Extra = obj
	}
	return nil
}

func encodeSegment(raw []byte) string {
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeSegment(seg string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(seg)
}

func encodeHeader(h Header) (string, *TokenError) {
	raw, err := json.Marshal(h)
	if err != nil {
		return "", wrapTokenError(KindInvalidType, "header not serializable", err)
	}
	return encodeSegment(raw), nil
}

// rawToken is a decoded but not yet verified token. The payload is held as
// bytes; JSON parsing of a structured payload is deferred until after the
// signature has been checked.
type rawToken struct {
	header       Header
	payload      []byte
	signature    []byte
	signingInput []byte
}

func (t *rawToken) structured() bool {
	return t.header.Typ == structuredTyp
}

// decodeToken splits and base64-decodes the three segments. It performs no
// cryptographic work: malformed input must be rejected before any key is
// resolved or any signature checked.
func decodeToken(token string) (*rawToken, *TokenError) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, newTokenError(KindMalformedToken, "token must have 3 segments")
	}
	if parts[0] == "" || parts[1] == "" {
		return nil, newTokenError(KindMalformedToken, "empty token segment")
	}

	headerRaw, err := decodeSegment(parts[0])
	if err != nil {
		return nil, wrapTokenError(KindMalformedToken, "header segment not base64url", err)
	}
	payloadRaw, err := decodeSegment(parts[1])
	if err != nil {
		return nil, wrapTokenError(KindMalformedToken, "payload segment not base64url", err)
	}
	signature, err := decodeSegment(parts[2])
	if err != nil {
		return nil, wrapTokenError(KindMalformedToken, "signature segment not base64url", err)
	}

	var header Header
	if err := json.Unmarshal(headerRaw, &header); err != nil {
		return nil, wrapTokenError(KindMalformedToken, "header is not valid JSON", err)
	}
	if header.Alg == "" {
		return nil, newTokenError(KindMalformedToken, "header has no alg")
	}

	return &rawToken{
		header:       header,
		payload:      payloadRaw,
		signature:    signature,
		signingInput: []byte(parts[0] + "." + parts[1]),
	}, nil
}

// assembleToken joins the encoded segments with the signature bytes.
func assembleToken(signingInput []byte, signature []byte) string {
	return string(signingInput) + "." + encodeSegment(signature)
}
