package statscache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const leadStatsKey = "stats:leads"

// Cache holds aggregate stats blocks in Redis. Every mutation that can change
// a block invalidates its key, so a hit is never older than the last write
// through this service. A nil *Cache (or one without a client) is a no-op.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Open parses a redis:// URL and pings the server.
func Open(ctx context.Context, url string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return New(rdb, ttl), nil
}

func (c *Cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func BookingKey(vendorID string) string {
	return "stats:bookings:" + vendorID
}

func LeadKey() string {
	return leadStatsKey
}

func (c *Cache) enabled() bool {
	return c != nil && c.rdb != nil
}

func (c *Cache) get(ctx context.Context, key string, dst any) bool {
	if !c.enabled() {
		return false
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("statscache get failed key=%s err=%v", key, err)
		}
		return false
	}
	return json.Unmarshal(b, dst) == nil
}

func (c *Cache) set(ctx context.Context, key string, v any) {
	if !c.enabled() {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		log.Printf("statscache set failed key=%s err=%v", key, err)
	}
}

// Invalidate drops keys. Failures are logged only; the TTL bounds staleness.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("statscache invalidate failed keys=%v err=%v", keys, err)
	}
}

// Load returns the cached block for key or computes and stores it.
func Load[T any](ctx context.Context, c *Cache, key string, compute func(context.Context) (T, error)) (T, error) {
	var v T
	if c.get(ctx, key, &v) {
		return v, nil
	}
	v, err := compute(ctx)
	if err != nil {
		return v, err
	}
	c.set(ctx, key, v)
	return v, nil
}
