package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rsilvagit/resumatch/internal/availability"
)

// HealthCache shares gateway probe results between runs through Redis, so
// consecutive screens reuse one probe until it expires.
type HealthCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// New connects to Redis at the given URL and returns a HealthCache for the
// gateway at apiURL.
// URL format: redis://localhost:6379
func New(redisURL, apiURL string, ttl time.Duration) (*HealthCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	return NewWithClient(client, apiURL, ttl), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, apiURL string, ttl time.Duration) *HealthCache {
	return &HealthCache{client: client, key: buildKey(apiURL), ttl: ttl}
}

// Load returns the stored snapshot and true if a fresh entry exists.
func (c *HealthCache) Load(ctx context.Context) (availability.Snapshot, bool) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[cache] get %s: %v", c.key, err)
		}
		return availability.Snapshot{}, false
	}

	var snap availability.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return availability.Snapshot{}, false
	}

	return snap, true
}

// Save stores the snapshot with the configured TTL.
func (c *HealthCache) Save(ctx context.Context, snap availability.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("cache: marshal error: %w", err)
	}

	return c.client.Set(ctx, c.key, data, c.ttl).Err()
}

// Clear drops the stored snapshot, forcing the next run to probe.
func (c *HealthCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}

// Close closes the Redis connection.
func (c *HealthCache) Close() error {
	return c.client.Close()
}

func buildKey(apiURL string) string {
	raw := strings.ToLower(strings.TrimRight(apiURL, "/"))
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("resumatch:health:%x", hash[:8])
}
