package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/redis/go-redis/v9"
)

const storePrefix = "kv:"

// Store implements domain.KVStore on Redis strings without expiry
type Store struct {
	client *Client
}

// NewStore creates a new key-value store
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.rdb.Get(ctx, storePrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.rdb.Set(ctx, storePrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.rdb.Del(ctx, storePrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

// Ping verifies connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}
