package signet

import (
	"crypto"
	_ "crypto/sha256" // linked in for HS256/384 and the RS/PS/ES digests
	_ "crypto/sha512"
)

// Algorithm identifies a signing algorithm accepted by this package.
//
// The set is closed: symmetric HMAC (HS256/HS384/HS512), RSA PKCS#1 v1.5
// (RS256/RS384/RS512), RSA-PSS (PS256/PS384/PS512), ECDSA (ES256/ES384/ES512),
// and the unsigned AlgNone. Anything else is rejected at Signer/Verifier
// construction.
type Algorithm string

const (
	// AlgHS256 is HMAC with SHA-256.
	AlgHS256 Algorithm = "HS256"
	// AlgHS384 is HMAC with SHA-384.
	AlgHS384 Algorithm = "HS384"
	// AlgHS512 is HMAC with SHA-512.
	AlgHS512 Algorithm = "HS512"
	// AlgRS256 is RSA PKCS#1 v1.5 with SHA-256.
	AlgRS256 Algorithm = "RS256"
	// AlgRS384 is RSA PKCS#1 v1.5 with SHA-384.
	AlgRS384 Algorithm = "RS384"
	// AlgRS512 is RSA PKCS#1 v1.5 with SHA-512.
	AlgRS512 Algorithm = "RS512"
	// AlgPS256 is RSA-PSS with SHA-256.
	AlgPS256 Algorithm = "PS256"
	// AlgPS384 is RSA-PSS with SHA-384.
	AlgPS384 Algorithm = "PS384"
	// AlgPS512 is RSA-PSS with SHA-512.
	AlgPS512 Algorithm = "PS512"
	// AlgES256 is ECDSA over P-256 with SHA-256.
	AlgES256 Algorithm = "ES256"
	// AlgES384 is ECDSA over P-384 with SHA-384.
	AlgES384 Algorithm = "ES384"
	// AlgES512 is ECDSA over P-521 with SHA-512.
	AlgES512 Algorithm = "ES512"
	// AlgNone produces an empty signature segment. A Verifier accepts it only
	// when it is explicitly present in the allow-list.
	AlgNone Algorithm = "none"
)

type family int

const (
	familyHMAC family = iota
	familyRSA
	familyRSAPSS
	familyECDSA
	familyNone
)

type algorithmInfo struct {
	family family
	hash   crypto.Hash
	// curveBits is the ECDSA curve size in bits, zero for other families.
	curveBits int
}

var algorithmTable = map[Algorithm]algorithmInfo{
	AlgHS256: {family: familyHMAC, hash: crypto.SHA256},
	AlgHS384: {family: familyHMAC, hash: crypto.SHA384},
	AlgHS512: {family: familyHMAC, hash: crypto.SHA512},
	AlgRS256: {family: familyRSA, hash: crypto.SHA256},
	AlgRS384: {family: familyRSA, hash: crypto.SHA384},
	AlgRS512: {family: familyRSA, hash: crypto.SHA512},
	AlgPS256: {family: familyRSAPSS, hash: crypto.SHA256},
	AlgPS384: {family: familyRSAPSS, hash: crypto.SHA384},
	AlgPS512: {family: familyRSAPSS, hash: crypto.SHA512},
	AlgES256: {family: familyECDSA, hash: crypto.SHA256, curveBits: 256},
	AlgES384: {family: familyECDSA, hash: crypto.SHA384, curveBits: 384},
	AlgES512: {family: familyECDSA, hash: crypto.SHA512, curveBits: 521},
	AlgNone:  {family: familyNone},
}

func lookupAlgorithm(alg Algorithm) (algorithmInfo, bool) {
	info, ok := algorithmTable[alg]
	return info, ok
}
