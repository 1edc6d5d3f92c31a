// Package ratelimit counts hits per key in fixed windows.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store records one hit for key and reports the hit count in the current
// window and the time left until the window resets.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}

type bucket struct {
	count     int64
	windowEnd time.Time
}

// Memory is a per-process Store.
type Memory struct {
	mu      sync.Mutex
	clients map[string]*bucket
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		clients: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (m *Memory) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.clients[key]

	if !ok || now.After(b.windowEnd) {
		b = &bucket{windowEnd: now.Add(window)}
		m.clients[key] = b
		m.sweep(now)
	}

	b.count++

	return b.count, b.windowEnd.Sub(now), nil
}

// sweep drops expired buckets so idle keys do not accumulate. Caller holds mu.
func (m *Memory) sweep(now time.Time) {
	for k, b := range m.clients {
		if now.After(b.windowEnd) {
			delete(m.clients, k)
		}
	}
}

// Redis shares counters across every API replica.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

func NewRedis(rdb *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	k := r.prefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	resetIn := ttl.Val()

	// first hit of the window, or a key that lost its expiry
	if resetIn < 0 {
		if err := r.rdb.PExpire(ctx, k, window).Err(); err != nil {
			return 0, 0, err
		}
		resetIn = window
	}

	return incr.Val(), resetIn, nil
}
