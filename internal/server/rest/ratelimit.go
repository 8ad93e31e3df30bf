package rest

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/geoledger/internal/logging"
	"github.com/dmitrijs2005/geoledger/internal/server/metrics"
	"github.com/redis/go-redis/v9"
)

// RateCounter counts hits per key inside a fixed window and reports the
// total so far together with the time left in the window.
type RateCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

// RedisCounter shares the window across server replicas.
type RedisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

func (c *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		return count, window, nil
	}
	ttl, err := c.rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if ttl < 0 {
		// A previous Expire was lost; restart the window.
		_ = c.rdb.Expire(ctx, key, window).Err()
		ttl = window
	}
	return count, ttl, nil
}

// MemoryCounter is a process-local RateCounter used when no redis is
// configured.
type MemoryCounter struct {
	mu      sync.Mutex
	now     func() time.Time
	windows map[string]*memoryWindow
}

// memoryCounterSweepAt is the key count at which expired windows are dropped.
const memoryCounterSweepAt = 10000

type memoryWindow struct {
	count int64
	ends  time.Time
}

func NewMemoryCounter(now func() time.Time) *MemoryCounter {
	return &MemoryCounter{now: now, windows: make(map[string]*memoryWindow)}
}

func (c *MemoryCounter) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if len(c.windows) >= memoryCounterSweepAt {
		for k, w := range c.windows {
			if !now.Before(w.ends) {
				delete(c.windows, k)
			}
		}
	}
	w, ok := c.windows[key]
	if !ok || !now.Before(w.ends) {
		w = &memoryWindow{ends: now.Add(window)}
		c.windows[key] = w
	}
	w.count++
	return w.count, w.ends.Sub(now), nil
}

// RateLimit rejects clients that exceed limit requests per window, keyed
// by remote address. Counter failures let the request through.
func RateLimit(counter RateCounter, limit int, window time.Duration, prefix string, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := prefix + ":ip:" + clientIP(r)

			count, ttl, err := counter.Hit(r.Context(), key, window)
			if err != nil {
				logging.FromContext(r.Context(), log).Warn(r.Context(), "rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			remaining := int64(limit) - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(ttl.Seconds())))

			if count > int64(limit) {
				metrics.RateLimitExceeded.Inc()
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
				writeError(w, http.StatusTooManyRequests, "rate-limited")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
