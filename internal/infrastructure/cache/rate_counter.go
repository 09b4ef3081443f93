package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateKeyPrefix = "erp-obras:rate:"

// RedisRateCounter counts hits in fixed windows shared by every instance.
// The first hit of a window sets the key's expiry.
type RedisRateCounter struct {
	client *redis.Client
}

func NewRedisRateCounter(client *redis.Client) *RedisRateCounter {
	return &RedisRateCounter{client: client}
}

// Hit increments key and returns the count so far plus the time left in the window.
func (r *RedisRateCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	key = rateKeyPrefix + key
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.ExpireNX(ctx, key, window)
		ttl = p.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("rate counter %s: %w", key, err)
	}
	reset := ttl.Val()
	if reset <= 0 {
		reset = window
	}
	return incr.Val(), reset, nil
}

type rateWindow struct {
	count   int64
	resetAt time.Time
}

// MemoryRateCounter is the process-local counter used without Redis.
// Expired windows are swept lazily, at most once per sweepEvery.
type MemoryRateCounter struct {
	mu         sync.Mutex
	windows    map[string]*rateWindow
	lastSweep  time.Time
	sweepEvery time.Duration
	now        func() time.Time
}

func NewMemoryRateCounter() *MemoryRateCounter {
	return &MemoryRateCounter{
		windows:    make(map[string]*rateWindow),
		sweepEvery: time.Minute,
		now:        time.Now,
	}
}

func (m *MemoryRateCounter) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= m.sweepEvery {
		for k, w := range m.windows {
			if !now.Before(w.resetAt) {
				delete(m.windows, k)
			}
		}
		m.lastSweep = now
	}

	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &rateWindow{resetAt: now.Add(window)}
		m.windows[key] = w
	}
	w.count++
	return w.count, w.resetAt.Sub(now), nil
}

// Len reports how many windows are tracked.
func (m *MemoryRateCounter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}
