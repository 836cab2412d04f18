package database

import (
	"context"
	"log"
	"time"

	"dukkan-backend/internal/config"

	"github.com/go-redis/redis/v8"
)

var Redis *redis.Client

func InitRedis(cfg *config.Config) {
	Redis = redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     10,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Redis.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis'e bağlanılamadı: %v", err)
	}
	log.Println("Redis bağlantısı başarılı.")
}
