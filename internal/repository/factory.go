// Package repository selects and opens the key-value medium the chat state lives in.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rrens/chatrooms/internal/config"
	"github.com/Rrens/chatrooms/internal/domain"
	badgerstore "github.com/Rrens/chatrooms/internal/repository/badger"
	"github.com/Rrens/chatrooms/internal/repository/memory"
	mongostore "github.com/Rrens/chatrooms/internal/repository/mongo"
	"github.com/Rrens/chatrooms/internal/repository/mysql"
	"github.com/Rrens/chatrooms/internal/repository/postgres"
	redisstore "github.com/Rrens/chatrooms/internal/repository/redis"
	"github.com/Rrens/chatrooms/internal/repository/sqlite"
	"github.com/rs/zerolog/log"
)

// Store is a KVStore that owns a connection
type Store interface {
	domain.KVStore
	Close() error
}

// Open builds the store named by cfg.Driver
func Open(ctx context.Context, cfg config.StorageConfig, redisCfg config.RedisConfig) (Store, error) {
	var (
		store Store
		err   error
	)

	switch strings.ToLower(cfg.Driver) {
	case "", "memory":
		store = memory.NewStore()
	case "sqlite":
		store, err = sqlite.Open(ctx, cfg.SQLite.Path)
	case "postgres":
		store, err = postgres.Open(ctx, cfg.Postgres)
	case "mysql":
		store, err = mysql.Open(ctx, cfg.MySQL)
	case "redis":
		var client *redisstore.Client
		client, err = redisstore.NewClient(ctx, redisCfg)
		if err == nil {
			store = redisstore.NewStore(client)
		}
	case "mongo":
		store, err = mongostore.Open(ctx, cfg.Mongo)
	case "badger":
		store, err = badgerstore.Open(cfg.Badger)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Driver, err)
	}

	log.Info().Str("driver", cfg.Driver).Str("namespace", cfg.Namespace).Msg("Storage opened")

	if cfg.Namespace != "" {
		return &namespaced{Store: store, prefix: cfg.Namespace + ":"}, nil
	}
	return store, nil
}

// namespaced prefixes every key so several deployments can share one medium
type namespaced struct {
	Store
	prefix string
}

func (n *namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.Store.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.Store.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Remove(ctx context.Context, key string) error {
	return n.Store.Remove(ctx, n.prefix+key)
}
