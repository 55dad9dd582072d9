package cache

import (
	"context"
	"log"

	"algoclub/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// RDB backs short-lived caches of derived data (the leaderboard); nothing
// durable lives here and a cold cache is always safe.
var RDB *redis.Client

func ConnectRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	if _, err := RDB.Ping(ctx).Result(); err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
	}
}
