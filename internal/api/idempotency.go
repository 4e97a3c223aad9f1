package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// IdempotencyHeader carries the client-chosen key of a mutating request.
const IdempotencyHeader = "Idempotency-Key"

// DefaultIdempotencyTTL is how long a processed key is remembered.
const DefaultIdempotencyTTL = 10 * time.Minute

// KeyState is what a Deduper knew about a key before Begin claimed it.
type KeyState int

const (
	// KeyNew means the caller now owns the key and must Complete or
	// Release it.
	KeyNew KeyState = iota
	// KeyPending means another request holds the key and hasn't finished.
	KeyPending
	// KeyDone means a request with this key was applied.
	KeyDone
)

func (s KeyState) String() string {
	switch s {
	case KeyNew:
		return "new"
	case KeyPending:
		return "pending"
	case KeyDone:
		return "done"
	}
	return fmt.Sprintf("KeyState(%d)", int(s))
}

const (
	statePending = "pending"
	stateDone    = "done"
)

// Deduper tracks idempotency keys through pending and done so a retried
// request is acknowledged only once the original was applied.
type Deduper interface {
	// Begin claims key under scope unless it is already known.
	Begin(ctx context.Context, scope, key string) (KeyState, error)
	// Complete marks a claimed key as applied.
	Complete(ctx context.Context, scope, key string) error
	// Release forgets a claimed key so a retry is applied.
	Release(ctx context.Context, scope, key string) error
}

// RedisDeduper stores keys in Redis so every server sharing the instance
// agrees on them.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisDeduper creates a deduper using the provided Redis client and TTL.
func NewRedisDeduper(client *redis.Client, ttl time.Duration, prefix string) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl, prefix: prefix}
}

func (r *RedisDeduper) key(scope, key string) string {
	return fmt.Sprintf("%s:idem:%s:%s", r.prefix, scope, key)
}

func (r *RedisDeduper) Begin(ctx context.Context, scope, key string) (KeyState, error) {
	k := r.key(scope, key)
	claimed, err := r.client.SetNX(ctx, k, statePending, r.ttl).Result()
	if err != nil {
		return KeyNew, err
	}
	if claimed {
		return KeyNew, nil
	}

	state, err := r.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// Released between the two calls; the client's retry will claim it.
		return KeyPending, nil
	}
	if err != nil {
		return KeyNew, err
	}
	if state == stateDone {
		return KeyDone, nil
	}
	return KeyPending, nil
}

func (r *RedisDeduper) Complete(ctx context.Context, scope, key string) error {
	return r.client.Set(ctx, r.key(scope, key), stateDone, r.ttl).Err()
}

func (r *RedisDeduper) Release(ctx context.Context, scope, key string) error {
	return r.client.Del(ctx, r.key(scope, key)).Err()
}

// MemoryDeduper is the single-process fallback used when no Redis is
// configured.
type MemoryDeduper struct {
	keys *gocache.Cache
}

func NewMemoryDeduper(ttl time.Duration) *MemoryDeduper {
	return &MemoryDeduper{keys: gocache.New(ttl, ttl)}
}

func (m *MemoryDeduper) Begin(_ context.Context, scope, key string) (KeyState, error) {
	k := scope + ":" + key
	if err := m.keys.Add(k, statePending, gocache.DefaultExpiration); err == nil {
		return KeyNew, nil
	}
	if state, ok := m.keys.Get(k); ok && state == stateDone {
		return KeyDone, nil
	}
	return KeyPending, nil
}

func (m *MemoryDeduper) Complete(_ context.Context, scope, key string) error {
	m.keys.SetDefault(scope+":"+key, stateDone)
	return nil
}

func (m *MemoryDeduper) Release(_ context.Context, scope, key string) error {
	m.keys.Delete(scope + ":" + key)
	return nil
}
