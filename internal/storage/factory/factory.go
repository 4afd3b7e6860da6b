package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/blas-bench/internal/storage"
	"github.com/DjordjeVuckovic/blas-bench/internal/storage/es"
	"github.com/DjordjeVuckovic/blas-bench/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/blas-bench/internal/storage/pg"
	"github.com/DjordjeVuckovic/blas-bench/internal/storage/sqlite"
	pkgserver "github.com/DjordjeVuckovic/blas-bench/pkg/server"
)

// NewStorer creates a new storage.Storer based on the storage type
func NewStorer(ctx context.Context, cfg *StorageConfig) (storage.Storer, error) {
	switch cfg.Type {
	case storage.PG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}

		return pg.NewStorer(pool)

	case storage.ES:
		s, err := es.NewStorer(ctx, *cfg.Es)
		if err != nil {
			return nil, err
		}
		return s, nil

	case storage.SQLite:
		s, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil

	case storage.InMem:
		return in_mem.NewInMemStorer(), nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}

// NewReader creates a new storage.Reader based on the storage type, together
// with a health checker for the backing store.
func NewReader(ctx context.Context, cfg *StorageConfig) (storage.Reader, pkgserver.HealthChecker, error) {
	switch cfg.Type {
	case storage.PG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}

		r, err := pg.NewReader(pool)
		if err != nil {
			return nil, nil, err
		}
		return r, pg.NewHealthChecker(pool), nil

	case storage.ES:
		r, err := es.NewReader(*cfg.Es)
		if err != nil {
			return nil, nil, err
		}
		return r, pkgserver.NewOkHealthChecker(), nil

	case storage.SQLite:
		s, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, pkgserver.NewOkHealthChecker(), nil

	case storage.InMem:
		return in_mem.NewInMemStorer(), pkgserver.NewOkHealthChecker(), nil

	default:
		return nil, nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}
