// Package keystore provides a Redis-backed key directory for signet.
//
// It stores raw key material under kid-addressed keys and exposes a
// signet.KeyResolver so a Verifier (or Signer) can fetch keys on demand.
// The directory is the remote end of the resolver flow: signet's per-kid
// cache and request coalescing bound how often Redis is actually hit.
package keystore
