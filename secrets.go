package signet

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// KeyResolver produces key material for a token given its decoded header.
// It may block (remote key directory, database, HSM front-end); the engine
// imposes no deadline of its own — cancel through ctx from the caller.
type KeyResolver func(ctx context.Context, header Header) ([]byte, error)

type secretKind int

const (
	secretUnset secretKind = iota
	secretStatic
	secretKeyed
	secretResolver
)

// Secret is the key-material specification for a Signer or Verifier.
// It is a tagged variant chosen once at construction: a static byte secret,
// a kid-indexed key set, or a resolver callback. The zero value is unset and
// only valid for the "none" algorithm.
type Secret struct {
	kind     secretKind
	static   []byte
	keyed    map[string][]byte
	resolver KeyResolver
}

// StaticKey builds a Secret from fixed key material.
func StaticKey(material []byte) Secret {
	return Secret{kind: secretStatic, static: material}
}

// StaticKeyString builds a Secret from a string secret, for the HMAC family.
func StaticKeyString(secret string) Secret {
	return StaticKey([]byte(secret))
}

// KeySet builds a Secret that selects key material by the header's kid.
// The map is copied; later mutation of the argument has no effect.
func KeySet(keys map[string][]byte) Secret {
	copied := make(map[string][]byte, len(keys))
	for kid, material := range keys {
		copied[kid] = material
	}
	return Secret{kind: secretKeyed, keyed: copied}
}

// KeyResolverFunc builds a Secret backed by a resolver callback. Resolved
// material is cached per kid and concurrent resolutions for the same kid are
// coalesced into a single callback invocation.
func KeyResolverFunc(fn KeyResolver) Secret {
	return Secret{kind: secretResolver, resolver: fn}
}

func (s Secret) configured() bool { return s.kind != secretUnset }

// isImmediate reports whether resolution can never block, which is what makes
// the fully-inline Sign/Verify fast path possible.
func (s Secret) isImmediate() bool {
	return s.kind == secretStatic || s.kind == secretKeyed || s.kind == secretUnset
}

type cachedSecret struct {
	material   []byte
	resolvedAt time.Time
}

// secretCache holds resolved key material per kid with a TTL, and coalesces
// concurrent in-flight resolutions so a burst of verifications keyed to the
// same kid costs at most one callback round-trip.
type secretCache struct {
	ttl     time.Duration
	mu      sync.Mutex
	entries map[string]cachedSecret
	group   singleflight.Group
}

func newSecretCache(ttl time.Duration) *secretCache {
	return &secretCache{ttl: ttl, entries: make(map[string]cachedSecret)}
}

func (c *secretCache) get(kid string, now time.Time) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[kid]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && now.Sub(entry.resolvedAt) > c.ttl {
		delete(c.entries, kid)
		return nil, false
	}
	return entry.material, true
}

func (c *secretCache) put(kid string, material []byte, now time.Time) {
	c.mu.Lock()
	c.entries[kid] = cachedSecret{material: material, resolvedAt: now}
	c.mu.Unlock()
}

// invalidate drops a cached entry, forcing the next resolution to re-fetch.
func (c *secretCache) invalidate(kid string) {
	c.mu.Lock()
	delete(c.entries, kid)
	c.mu.Unlock()
}

// secretSource binds a Secret to its cache and clock. One instance lives for
// the lifetime of the owning Signer or Verifier.
type secretSource struct {
	secret Secret
	cache  *secretCache
	clock  func() time.Time
}

func newSecretSource(secret Secret, cacheTTL time.Duration, clock func() time.Time) *secretSource {
	src := &secretSource{secret: secret, clock: clock}
	if secret.kind == secretResolver {
		src.cache = newSecretCache(cacheTTL)
	}
	return src
}

// resolve turns the configured Secret into key material for one token.
func (s *secretSource) resolve(ctx context.Context, header Header) ([]byte, error) {
	switch s.secret.kind {
	case secretStatic:
		return s.secret.static, nil

	case secretKeyed:
		if header.Kid == "" {
			return nil, newTokenError(KindSecretFetching, "header has no kid")
		}
		material, ok := s.secret.keyed[header.Kid]
		if !ok {
			return nil, newTokenError(KindSecretFetching, "no key for kid")
		}
		return material, nil

	case secretResolver:
		return s.resolveRemote(ctx, header)
	}
	return nil, newTokenError(KindSecretFetching, "no secret configured")
}

func (s *secretSource) resolveRemote(ctx context.Context, header Header) ([]byte, error) {
	if material, ok := s.cache.get(header.Kid, s.clock()); ok {
		metricAdd(MetricSecretCacheHit, 1)
		return material, nil
	}
	metricAdd(MetricSecretCacheMiss, 1)

	// Concurrent callers for the same kid join the single in-flight
	// resolution instead of issuing duplicate fetches. DoChan lets a joiner
	// stop waiting when its context ends; the in-flight fetch keeps running
	// for the remaining callers.
	ch := s.cache.group.DoChan(header.Kid, func() (any, error) {
		metricAdd(MetricSecretResolved, 1)
		material, err := s.secret.resolver(ctx, header)
		if err != nil {
			return nil, wrapTokenError(KindSecretFetching, "secret resolver failed", err)
		}
		if len(material) == 0 {
			return nil, newTokenError(KindSecretFetching, "secret resolver returned no key")
		}
		s.cache.put(header.Kid, material, s.clock())
		return material, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// invalidate drops the cached material for kid, if this source caches at all.
func (s *secretSource) invalidate(kid string) {
	if s.cache != nil {
		s.cache.invalidate(kid)
	}
}
