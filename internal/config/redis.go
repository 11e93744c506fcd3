package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis builds the shared Redis client used by the analytics sink.
// A failed ping is logged but not fatal: analytics are best-effort and the
// booking path must come up without Redis.
func ConnectRedis(env Env) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
		DB:       env.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis unavailable, analytics degraded: %v", err)
	} else {
		log.Println("connected to Redis")
	}
	return client
}
