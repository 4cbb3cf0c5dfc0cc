package storage

import (
	"context"
	"fmt"
	"strings"

	"cotizador/internal/config"
)

// Backend names accepted by storage.backend.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Open builds the slot selected by cfg.Backend and returns a closer for it.
func Open(ctx context.Context, cfg config.StorageConfig) (Slot, func(), error) {
	noop := func() {}

	switch strings.ToLower(cfg.Backend) {
	case BackendFile, "":
		slot, err := NewFileSlot(cfg.File.Dir, cfg.Key)
		if err != nil {
			return nil, nil, err
		}
		return slot, noop, nil

	case BackendSQLite:
		slot, err := NewSQLiteSlot(cfg.SQLite.Path, cfg.Key)
		if err != nil {
			return nil, nil, err
		}
		return slot, func() { _ = slot.Close() }, nil

	case BackendPostgres:
		pool, err := NewPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		slot, err := NewPostgresSlot(ctx, pool, cfg.Postgres.Table, cfg.Key)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return slot, slot.Close, nil

	case BackendRedis:
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		slot := NewRedisSlot(client, cfg.Redis.Prefix, cfg.Key)
		return slot, func() { _ = slot.Close() }, nil

	case BackendMemory:
		return NewMemorySlot(nil), noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
