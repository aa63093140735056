package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"hotel-checkin/internal/config"
)

// Open builds the store selected by cfg.Storage. The returned close function
// releases the substrate and is never nil.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage {
	case config.StorageFile:
		blob, err := NewFileBlob(cfg.DataDir)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		return NewBlobStore(blob, log), noop, nil

	case config.StorageSQLite:
		kv, err := OpenSQLiteKV(cfg.SQLiteFile())
		if err != nil {
			return nil, noop, fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		return NewKVStore(kv, log), kv.Close, nil

	case config.StorageRedis:
		kv, err := ConnectRedis(ctx, RedisOptions{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("failed to initialize redis storage: %w", err)
		}
		return NewKVStore(kv, log), kv.Close, nil

	case config.StorageMemory:
		return NewKVStore(NewMemoryKV(), log), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage)
}
