package factory

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/DjordjeVuckovic/blas-bench/internal/storage"
	"github.com/DjordjeVuckovic/blas-bench/internal/storage/es"
	"github.com/DjordjeVuckovic/blas-bench/internal/storage/pg"
	"github.com/DjordjeVuckovic/blas-bench/pkg/utils"
)

const DefaultSQLitePath = "blas_bench.db"

type StorageConfig struct {
	storage.Type
	Pg         *pg.PoolConfig
	Es         *es.ClientConfig
	SQLitePath string
}

// LoadEnv reads the storage settings for the type named by STORAGE_TYPE.
func LoadEnv() (*StorageConfig, error) {
	return LoadEnvFor((storage.Type)(os.Getenv("STORAGE_TYPE")))
}

// LoadEnvFor reads the storage settings for an explicit type, ignoring STORAGE_TYPE.
func LoadEnvFor(storageType storage.Type) (*StorageConfig, error) {
	if storageType == "" {
		slog.Error("STORAGE_TYPE environment variable is not set")
		return nil, fmt.Errorf("STORAGE_TYPE environment variable is not set")
	}
	if !slices.Contains(storage.Types, storageType) {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			storage.Types)
	}

	cfg := &StorageConfig{Type: storageType}

	switch storageType {
	case storage.ES:
		esCfg := &es.ClientConfig{
			Addresses: utils.RemoveEmptyStrings(utils.SplitTrim(os.Getenv("ES_ADDRESSES"), ",")),
			IndexName: os.Getenv("ES_INDEX_NAME"),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
		}
		if len(esCfg.Addresses) == 0 || esCfg.IndexName == "" {
			slog.Error("Elasticsearch configuration is incomplete", "addresses", esCfg.Addresses, "indexName", esCfg.IndexName)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: addresses or index name is missing")
		}
		cfg.Es = esCfg

	case storage.PG:
		pgCfg := &pg.PoolConfig{
			ConnStr: os.Getenv("PG_CONNECTION_STRING"),
		}
		if pgCfg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
		cfg.Pg = pgCfg

	case storage.SQLite:
		cfg.SQLitePath = strings.TrimSpace(os.Getenv("SQLITE_PATH"))
		if cfg.SQLitePath == "" {
			cfg.SQLitePath = DefaultSQLitePath
		}
	}

	return cfg, nil
}
