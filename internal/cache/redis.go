// internal/cache/redis.go
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore は go-redis クライアントをラップした Store 実装です
type redisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisStore はRedisに接続し、疎通確認の上で Store を返します
func NewRedisStore(addr, password string, db int, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to ping redis", slog.String("addr", addr), slog.Any("error", err))
		return nil, err
	}

	logger.Info("Redis connection established", slog.String("addr", addr))
	return &redisStore{client: client, logger: logger}, nil
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		s.logger.Warn("Redis GET failed", slog.String("key", key), slog.Any("error", err))
		return nil, false, err
	}
	return val, true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logger.Warn("Redis SET failed", slog.String("key", key), slog.Any("error", err))
		return err
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("Redis DEL failed", slog.Any("keys", keys), slog.Any("error", err))
		return err
	}
	return nil
}
