package signet

import (
	"crypto/ecdsa"

	"github.com/golang-jwt/jwt/v5"
)

// Key material arrives as bytes: a raw secret for the HMAC family, PEM for the
// asymmetric families. PEM parsing is delegated to golang-jwt's helpers, which
// accept PKCS#1, PKCS#8, SEC1, and certificate-wrapped keys.

func parseSignKey(info algorithmInfo, material []byte) (any, *TokenError) {
	switch info.family {
	case familyNone:
		return nil, nil
	case familyHMAC:
		if len(material) == 0 {
			return nil, newTokenError(KindSecretFetching, "empty hmac secret")
		}
		return material, nil
	case familyRSA, familyRSAPSS:
		key, err := jwt.ParseRSAPrivateKeyFromPEM(material)
		if err != nil {
			return nil, wrapTokenError(KindSecretFetching, "invalid rsa private key", err)
		}
		return key, nil
	case familyECDSA:
		key, err := jwt.ParseECPrivateKeyFromPEM(material)
		if err != nil {
			return nil, wrapTokenError(KindSecretFetching, "invalid ecdsa private key", err)
		}
		if key.Curve.Params().BitSize != info.curveBits {
			return nil, newTokenError(KindSecretFetching, "key curve does not match algorithm")
		}
		return key, nil
	}
	return nil, newTokenError(KindSecretFetching, "unsupported key family")
}

// parseVerifyKey accepts a public key, and falls back to extracting the public
// half from a private key so a service holding the signing key can verify its
// own tokens without re-encoding anything.
func parseVerifyKey(info algorithmInfo, material []byte) (any, *TokenError) {
	switch info.family {
	case familyNone:
		return nil, nil
	case familyHMAC:
		if len(material) == 0 {
			return nil, newTokenError(KindSecretFetching, "empty hmac secret")
		}
		return material, nil
	case familyRSA, familyRSAPSS:
		if pub, err := jwt.ParseRSAPublicKeyFromPEM(material); err == nil {
			return pub, nil
		}
		priv, err := jwt.ParseRSAPrivateKeyFromPEM(material)
		if err != nil {
			return nil, wrapTokenError(KindSecretFetching, "invalid rsa key", err)
		}
		return &priv.PublicKey, nil
	case familyECDSA:
		var pub *ecdsa.PublicKey
		if parsed, err := jwt.ParseECPublicKeyFromPEM(material); err == nil {
			pub = parsed
		} else {
			priv, err := jwt.ParseECPrivateKeyFromPEM(material)
			if err != nil {
				return nil, wrapTokenError(KindSecretFetching, "invalid ecdsa key", err)
			}
			pub = &priv.PublicKey
		}
		if pub.Curve.Params().BitSize != info.curveBits {
			return nil, newTokenError(KindSecretFetching, "key curve does not match algorithm")
		}
		return pub, nil
	}
	return nil, newTokenError(KindSecretFetching, "unsupported key family")
}
