package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/trip-planner/internal/domain"
)

// keyPrefix namespaces itinerary entries inside a shared Redis database.
const keyPrefix = "trip-planner:itinerary:"

// Redis is an itinerary cache shared between processes. Expiry is enforced
// by Redis itself (SET ... EX ttl), which gives the same read-time eviction
// semantics as Memory.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps an existing client. ttl <= 0 selects DefaultTTL.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

// OpenRedis parses a redis:// URL, connects and verifies the server responds.
func OpenRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cache.OpenRedis: parse url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache.OpenRedis: ping: %w", err)
	}
	return NewRedis(client, ttl), nil
}

// Get returns the stored itinerary on a hit. Redis errors and undecodable
// payloads are reported as misses; the cache is an optimisation only.
func (r *Redis) Get(ctx context.Context, key string) (domain.TravelItinerary, bool) {
	b, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		return domain.TravelItinerary{}, false
	}
	var it domain.TravelItinerary
	if err := json.Unmarshal(b, &it); err != nil {
		r.client.Del(ctx, keyPrefix+key)
		return domain.TravelItinerary{}, false
	}
	return it, true
}

// Put stores it under key with the configured TTL.
func (r *Redis) Put(ctx context.Context, key string, it domain.TravelItinerary) error {
	b, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("cache.Redis.Put: marshal: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+key, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache.Redis.Put: %w", err)
	}
	return nil
}

// Clear deletes every itinerary entry, leaving other keys alone.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("cache.Redis.Clear: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache.Redis.Clear: scan: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
