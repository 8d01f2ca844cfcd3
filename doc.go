// Package signet issues and validates signed, claim-bearing tokens in the
// three-segment header.payload.signature wire format, with HMAC, RSA, RSA-PSS,
// and ECDSA signing, asynchronous key resolution, and optional offload of
// CPU-bound cryptography to a shared worker pool.
//
// The package is designed for concurrent server workloads: Signer and Verifier
// methods are safe to call from multiple goroutines after construction through
// [NewSigner] and [NewVerifier].
//
// # Architecture boundaries
//
// signet is the public surface. It exposes [Signer], [Verifier], [Secret],
// [Header], and the TokenError kinds. Optional integrations live in
// sub-packages: keystore (Redis-backed key directory) and metrics/export/otel
// (OpenTelemetry metrics export). Sub-packages may import signet; signet never
// imports them.
//
// # What this package must NOT do
//
//   - Log or swallow errors internally; every failure is returned to the caller
//     through the calling convention the caller used.
//   - Retry secret resolution or offloaded operations on its own.
//   - Manage key lifecycle (rotation, revocation, storage); callers supply key
//     material as bytes or through a resolver callback.
//
// # Performance contract
//
// Verify is the hot path. With a static secret and offload disabled it runs
// fully inline with no goroutine handoff and no shared-state round-trips beyond
// the metrics counters. Offloaded operations touch the process-wide worker pool
// exactly once per call.
package signet
