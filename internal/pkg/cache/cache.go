package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/LwandleM/SafeSuburb/internal/pkg/env"
)

var (
	client *redis.Client
	ctx    = context.Background()
)

// SetupCache connects to the Redis instance shared by sessions, presence,
// statistics, the changefeed pub/sub channels and the job queue.
func SetupCache() {
	client = redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s",
			env.GetEnv("CACHE_HOST", "localhost"),
			env.GetEnv("CACHE_PORT", "6379")),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		// Degraded but not fatal: counters and presence go dark, the
		// HTTP API keeps serving from the database.
		log.Warnf("[Cache] Redis unreachable: %v", err)
		return
	}
	log.Info("[Cache] Connected to Redis")
}

// GetClient returns the shared Redis client, connecting lazily if
// SetupCache has not run yet.
func GetClient() *redis.Client {
	if client == nil {
		SetupCache()
	}
	return client
}

// Set stores a value under key for the given lifetime.
func Set(key string, value interface{}, expiration time.Duration) error {
	return GetClient().Set(ctx, key, value, expiration).Err()
}

// Get returns the string value stored under key (redis.Nil when absent).
func Get(key string) (string, error) {
	return GetClient().Get(ctx, key).Result()
}

// Delete removes key from the cache.
func Delete(key string) error {
	return GetClient().Del(ctx, key).Err()
}
