package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cotizador/internal/config"
)

// NewRedisClient parses the configured URL and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("storage.redis.url is required")
	}
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if opt.ReadTimeout == 0 {
		opt.ReadTimeout = timeout
	}
	if opt.WriteTimeout == 0 {
		opt.WriteTimeout = timeout
	}
	if opt.DialTimeout == 0 {
		opt.DialTimeout = timeout
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisSlot keeps the payload under a single redis key.
type RedisSlot struct {
	client *redis.Client
	key    string
}

// NewRedisSlot binds a client to a key, prefixed with prefix when set.
func NewRedisSlot(client *redis.Client, prefix, key string) *RedisSlot {
	if key == "" {
		key = DefaultKey
	}
	return &RedisSlot{client: client, key: prefix + key}
}

// Key is the full redis key of the slot.
func (s *RedisSlot) Key() string {
	return s.key
}

// Close closes the client.
func (s *RedisSlot) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *RedisSlot) Load(ctx context.Context) ([]byte, bool, error) {
	if s.client == nil {
		return nil, false, ErrNotConfigured
	}
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load slot: %w", err)
	}
	return data, true, nil
}

func (s *RedisSlot) Save(ctx context.Context, data []byte) error {
	if s.client == nil {
		return ErrNotConfigured
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save slot: %w", err)
	}
	return nil
}

func (s *RedisSlot) Clear(ctx context.Context) error {
	if s.client == nil {
		return ErrNotConfigured
	}
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear slot: %w", err)
	}
	return nil
}

var _ Slot = (*RedisSlot)(nil)
