package cache

import (
	"context"
	"sync"

	"facegate.io/application/config"
	"facegate.io/infrastructure/logger"
	"github.com/redis/go-redis/v9"
)

type RedisConnection struct {
	Client *redis.Client
}

var (
	instance *RedisConnection
	once     sync.Once
)

func ConnectToCache(settings *config.Settings) {
	once.Do(func() {
		client := redis.NewClient(&redis.Options{
			Addr:     settings.RedisAddr,
			Password: settings.RedisPassword,
			DB:       0,
			PoolSize: 10,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Warning("could not reach redis", logger.LoggerOptions{Key: "error", Data: err})
		} else {
			logger.Info("connected to redis successfully")
		}
		instance = &RedisConnection{Client: client}
	})
}

func GetInstance() (*RedisConnection, error) {
	return instance, nil
}
