package storage

import (
	"context"
	"fmt"

	"github.com/blacktie/storefront/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the durable key-value substrate. A single Set is atomic per key;
// there is no cross-key transaction and concurrent writers race (last write wins).
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

type Backend interface {
	Store
	Close() error
}

const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Open connects the backend selected in cfg.Storage. The postgres backend reuses pool.
func Open(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (Backend, error) {
	switch cfg.Storage.Backend {
	case BackendSQLite:
		return OpenSQLite(ctx, cfg.Storage.SQLitePath)
	case BackendRedis:
		return NewRedisStore(ctx, cfg.Redis)
	case BackendPostgres:
		if pool == nil {
			return nil, fmt.Errorf("postgres storage requires a database connection")
		}
		return NewPGStore(ctx, pool)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
