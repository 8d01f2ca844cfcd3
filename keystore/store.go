package keystore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/signet"
)

const defaultKeyPrefix = "sigkey"

var (
	// ErrKeyNotFound is returned when no key material exists for a kid.
	ErrKeyNotFound = errors.New("key not found")
	// ErrStoreUnavailable wraps Redis transport failures.
	ErrStoreUnavailable = errors.New("key store unavailable")
)

// Store is a kid-addressed key directory on Redis.
//
// Store instances are cheap and safe for concurrent use; they hold only the
// client handle and the key prefix.
type Store struct {
	redis  *redis.Client
	prefix string
}

// New builds a Store on client. An empty prefix selects "sigkey".
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Store{redis: client, prefix: prefix}
}

func (s *Store) key(kid string) string {
	return s.prefix + ":" + kid
}

// Put stores key material for kid. A zero ttl stores it without expiry.
func (s *Store) Put(ctx context.Context, kid string, material []byte, ttl time.Duration) error {
	if kid == "" {
		return errors.New("empty kid")
	}
	if len(material) == 0 {
		return errors.New("empty key material")
	}
	if err := s.redis.Set(ctx, s.key(kid), material, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Delete removes the key material for kid. Deleting an absent kid is not an
// error.
func (s *Store) Delete(ctx context.Context, kid string) error {
	if err := s.redis.Del(ctx, s.key(kid)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Get fetches the key material for kid.
func (s *Store) Get(ctx context.Context, kid string) ([]byte, error) {
	material, err := s.redis.Get(ctx, s.key(kid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, kid)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return material, nil
}

// Resolver adapts the store to signet's resolver callback. The token header's
// kid selects the directory entry; a header without a kid is rejected before
// Redis is consulted.
func (s *Store) Resolver() signet.KeyResolver {
	return func(ctx context.Context, header signet.Header) ([]byte, error) {
		if header.Kid == "" {
			return nil, errors.New("header has no kid")
		}
		return s.Get(ctx, header.Kid)
	}
}
