package database

import (
	"context"
	"fmt"
	"time"

	"sports-prediction/pkg/utils"

	"github.com/go-redis/redis/v8"
)

// InitRedis connects to the session backend when SESSION_STORE=redis.
func InitRedis(config utils.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis failed: %w", err)
	}

	return client, nil
}
