package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"facilitydesk/backend/internal/config"

	"github.com/redis/go-redis/v9"
)

var ErrRedisDisabled = errors.New("redis is not configured")

// OpenRedis connects to cfg.RedisAddr and pings it. It returns nil, nil when
// no address is configured.
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return rdb, nil
}

// PushEvent appends a payload to the head of a Redis list.
func (s *Service) PushEvent(ctx context.Context, key string, payload []byte) error {
	if s.Redis == nil {
		return ErrRedisDisabled
	}
	return s.Redis.LPush(ctx, key, payload).Err()
}

// PopEvent blocks up to timeout for the oldest payload in the list.
// It returns nil, nil when the wait times out.
func (s *Service) PopEvent(ctx context.Context, key string, timeout time.Duration) ([]byte, error) {
	if s.Redis == nil {
		return nil, ErrRedisDisabled
	}
	res, err := s.Redis.BRPop(ctx, timeout, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// BRPop returns [key, value]
	return []byte(res[1]), nil
}

// Publish sends a payload on a Redis pub/sub channel.
func (s *Service) Publish(ctx context.Context, channel string, payload []byte) error {
	if s.Redis == nil {
		return ErrRedisDisabled
	}
	return s.Redis.Publish(ctx, channel, payload).Err()
}

// Subscribe returns a subscription to a Redis channel, or nil without Redis.
func (s *Service) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Subscribe(ctx, channel)
}
