package utils

import (
	"context"
	"log"
	"time"

	"remindcall/config"

	"github.com/go-redis/redis/v8"
)

// DedupCacheClient is the Redis client backing the webhook dedup fast path.
var DedupCacheClient *redis.Client

// InitDedupCache initializes the Redis client used for webhook dedup caching.
func InitDedupCache() {
	DedupCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDedupDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := DedupCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Dedup Cache): %v", err)
	}
}

// GetDedupCacheClient returns the dedup cache client.
func GetDedupCacheClient() *redis.Client {
	if DedupCacheClient == nil {
		InitDedupCache()
	}
	return DedupCacheClient
}
