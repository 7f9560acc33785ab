package common

import (
	"context"
	"time"

	"transportsystem/avganger/internal/logging"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a client and pings it once. A failed ping is only
// logged; the pool keeps reconnecting.
func NewRedisClient(addr, password string, db int) *redis.Client {
	logging.Info("Initializing Redis client", "addr", addr, "db", db)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Error("Failed to ping Redis", "addr", addr, "error", err.Error())
		return client
	}

	logging.Info("Connected to Redis", "addr", addr)
	return client
}
