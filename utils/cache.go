// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"github.com/JustinVargasQ/ProyectoBueno/config"

	"github.com/go-redis/redis/v8"
)

// CacheClient is the generic cache client, used for the short-lived
// business-profile cache that backs dialogue context assembly.
var CacheClient *redis.Client

// InitCache initializes the generic Redis cache client (using DB from AppConfig for general caching).
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitRedis initializes all Redis clients used by the service.
func InitRedis() {
	InitCache()
}
