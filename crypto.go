package signet

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"math/big"
)

// signBytes computes the signature over the signing input (the two encoded
// segments joined by "."). key must already be parsed for the family.
// Running inline or on the worker pool goes through this same function, so
// offload can never change the cryptographic outcome.
func signBytes(info algorithmInfo, key any, signingInput []byte) ([]byte, *TokenError) {
	switch info.family {
	case familyNone:
		return nil, nil

	case familyHMAC:
		mac := hmac.New(info.hash.New, key.([]byte))
		mac.Write(signingInput)
		return mac.Sum(nil), nil

	case familyRSA:
		sig, err := rsa.SignPKCS1v15(rand.Reader, key.(*rsa.PrivateKey), info.hash, digest(info.hash, signingInput))
		if err != nil {
			return nil, wrapTokenError(KindSecretFetching, "rsa signing failed", err)
		}
		return sig, nil

	case familyRSAPSS:
		// PSSSaltLengthAuto on the signing side selects the largest salt that
		// fits the key and hash.
		opts := &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthAuto, Hash: info.hash}
		sig, err := rsa.SignPSS(rand.Reader, key.(*rsa.PrivateKey), info.hash, digest(info.hash, signingInput), opts)
		if err != nil {
			return nil, wrapTokenError(KindSecretFetching, "rsa-pss signing failed", err)
		}
		return sig, nil

	case familyECDSA:
		priv := key.(*ecdsa.PrivateKey)
		r, s, err := ecdsa.Sign(rand.Reader, priv, digest(info.hash, signingInput))
		if err != nil {
			return nil, wrapTokenError(KindSecretFetching, "ecdsa signing failed", err)
		}
		return encodeECDSASignature(r, s, info.curveBits), nil
	}
	return nil, newTokenError(KindSecretFetching, "unsupported algorithm family")
}

// verifyBytes reports whether signature matches signingInput under key.
// A false return carries no detail about where the mismatch occurred.
func verifyBytes(info algorithmInfo, key any, signingInput, signature []byte) bool {
	switch info.family {
	case familyNone:
		// Reachable only when the verifier explicitly allows "none".
		return true

	case familyHMAC:
		mac := hmac.New(info.hash.New, key.([]byte))
		mac.Write(signingInput)
		return hmac.Equal(mac.Sum(nil), signature)

	case familyRSA:
		err := rsa.VerifyPKCS1v15(key.(*rsa.PublicKey), info.hash, digest(info.hash, signingInput), signature)
		return err == nil

	case familyRSAPSS:
		opts := &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthAuto, Hash: info.hash}
		err := rsa.VerifyPSS(key.(*rsa.PublicKey), info.hash, digest(info.hash, signingInput), signature, opts)
		return err == nil

	case familyECDSA:
		r, s, ok := decodeECDSASignature(signature, info.curveBits)
		if !ok {
			return false
		}
		return ecdsa.Verify(key.(*ecdsa.PublicKey), digest(info.hash, signingInput), r, s)
	}
	return false
}

func digest(h crypto.Hash, input []byte) []byte {
	hasher := h.New()
	hasher.Write(input)
	return hasher.Sum(nil)
}

func curveByteSize(curveBits int) int {
	size := curveBits / 8
	if curveBits%8 != 0 {
		size++
	}
	return size
}

// encodeECDSASignature packs r and s into the fixed-width r||s form used on
// the wire, left-padded to the curve byte size.
func encodeECDSASignature(r, s *big.Int, curveBits int) []byte {
	size := curveByteSize(curveBits)
	sig := make([]byte, 2*size)
	r.FillBytes(sig[:size])
	s.FillBytes(sig[size:])
	return sig
}

func decodeECDSASignature(sig []byte, curveBits int) (r, s *big.Int, ok bool) {
	size := curveByteSize(curveBits)
	if len(sig) != 2*size {
		return nil, nil, false
	}
	r = new(big.Int).SetBytes(sig[:size])
	s = new(big.Int).SetBytes(sig[size:])
	return r, s, true
}
