package cache

import (
	"context"
	"log"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/genbuddy/GenBuddy/internal/pkg/env"
)

var (
	client *redis.Client
	ctx    = context.Background()
)

// SetupCache connects the Redis client used for analysis status tracking.
// A missing Redis is logged but not fatal; status reads then fall back to
// "pending" and the analyses themselves are unaffected.
func SetupCache() {
	client = redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(env.GetEnv("CACHE_HOST", "localhost"), env.GetEnv("CACHE_PORT", "6379")),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       0,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Printf("cache: redis not reachable: %v", err)
		return
	}
	log.Print("cache: connected to redis")
}

// GetClient returns the Redis client, connecting lazily if SetupCache has not
// run yet.
func GetClient() *redis.Client {
	if client == nil {
		SetupCache()
	}
	return client
}

func set(key string, value interface{}, ttl time.Duration) error {
	return GetClient().Set(ctx, key, value, ttl).Err()
}

func get(key string) (string, error) {
	return GetClient().Get(ctx, key).Result()
}
