package signet

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"sync"
	"testing"
	"time"
)

const testHMACSecret = "secretsecretsecret"

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

var (
	testRSAOnce sync.Once
	testRSAKey  *rsa.PrivateKey
	testRSAErr  error
)

func rsaTestKey(t testing.TB) *rsa.PrivateKey {
	t.Helper()
	testRSAOnce.Do(func() {
		testRSAKey, testRSAErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	if testRSAErr != nil {
		t.Fatalf("generate rsa key: %v", testRSAErr)
	}
	return testRSAKey
}

func rsaKeyPEM(t testing.TB) (privPEM, pubPEM []byte) {
	t.Helper()
	key := rsaTestKey(t)
	privPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal rsa public key: %v", err)
	}
	pubPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return privPEM, pubPEM
}

func ecKeyPEM(t testing.TB, curve elliptic.Curve) (privPEM, pubPEM []byte) {
	t.Helper()
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		t.Fatalf("generate ecdsa key: %v", err)
	}
	privDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshal ecdsa private key: %v", err)
	}
	privPEM = pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: privDER})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal ecdsa public key: %v", err)
	}
	pubPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return privPEM, pubPEM
}

func newHMACSigner(t testing.TB, mutate func(*SignerConfig)) *Signer {
	t.Helper()
	cfg := SignerConfig{Secret: StaticKeyString(testHMACSecret), Algorithm: AlgHS256}
	if mutate != nil {
		mutate(&cfg)
	}
	signer, err := NewSigner(cfg)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	return signer
}

func newHMACVerifier(t testing.TB, mutate func(*VerifierConfig)) *Verifier {
	t.Helper()
	cfg := VerifierConfig{Secret: StaticKeyString(testHMACSecret), Algorithms: []Algorithm{AlgHS256}}
	if mutate != nil {
		mutate(&cfg)
	}
	verifier, err := NewVerifier(cfg)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	return verifier
}
