package database

import (
	"context"
	"fmt"
	"log"
	"patient-directory-service/internal/app/config"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func NewRedisClient(driverConfig *config.DriverConfig) *redis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", driverConfig.Redis.Host, driverConfig.Redis.Port),
		Password: driverConfig.Redis.Password,
		DB:       driverConfig.Redis.DB,
	})

	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	log.Println("Successfully connected to redis")
	return rdb
}

// NewEmbeddedRedisClient serves the memory store driver with an in-process
// Redis, so sessions and record locks behave as in a real deployment.
func NewEmbeddedRedisClient() (*redis.Client, func()) {
	server, err := miniredis.Run()
	if err != nil {
		log.Fatalf("Could not start embedded Redis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: server.Addr()})
	log.Println("Successfully started embedded redis")
	return rdb, server.Close
}
