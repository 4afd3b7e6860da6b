package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/blas-bench/internal/storage"
	"github.com/DjordjeVuckovic/blas-bench/internal/storage/es"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, cfg *StorageConfig)
	}{
		{
			name:    "missing type",
			env:     map[string]string{"STORAGE_TYPE": ""},
			wantErr: true,
		},
		{
			name:    "unknown type",
			env:     map[string]string{"STORAGE_TYPE": "mongo"},
			wantErr: true,
		},
		{
			name: "elasticsearch",
			env: map[string]string{
				"STORAGE_TYPE":  "es",
				"ES_ADDRESSES":  "http://a:9200, http://b:9200,",
				"ES_INDEX_NAME": "blas-runs",
			},
			check: func(t *testing.T, cfg *StorageConfig) {
				require.NotNil(t, cfg.Es)
				assert.Equal(t, []string{"http://a:9200", "http://b:9200"}, cfg.Es.Addresses)
				assert.Equal(t, "blas-runs", cfg.Es.IndexName)
			},
		},
		{
			name:    "elasticsearch without index",
			env:     map[string]string{"STORAGE_TYPE": "es", "ES_ADDRESSES": "http://a:9200", "ES_INDEX_NAME": ""},
			wantErr: true,
		},
		{
			name:    "postgres without connection string",
			env:     map[string]string{"STORAGE_TYPE": "pg", "PG_CONNECTION_STRING": ""},
			wantErr: true,
		},
		{
			name: "postgres",
			env:  map[string]string{"STORAGE_TYPE": "pg", "PG_CONNECTION_STRING": "postgres://u:p@localhost/db"},
			check: func(t *testing.T, cfg *StorageConfig) {
				require.NotNil(t, cfg.Pg)
				assert.Equal(t, "postgres://u:p@localhost/db", cfg.Pg.ConnStr)
			},
		},
		{
			name: "sqlite default path",
			env:  map[string]string{"STORAGE_TYPE": "sqlite", "SQLITE_PATH": ""},
			check: func(t *testing.T, cfg *StorageConfig) {
				assert.Equal(t, DefaultSQLitePath, cfg.SQLitePath)
			},
		},
		{
			name: "in memory",
			env:  map[string]string{"STORAGE_TYPE": "in_mem"},
			check: func(t *testing.T, cfg *StorageConfig) {
				assert.Equal(t, storage.InMem, cfg.Type)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadEnv()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestNewStorer_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &StorageConfig{Type: storage.SQLite, SQLitePath: filepath.Join(t.TempDir(), "runs.db")}

	s, err := NewStorer(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	r, hc, err := NewReader(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	assert.True(t, hc.Healthy(ctx))
}

func TestNewStorer_InMem(t *testing.T) {
	s, err := NewStorer(context.Background(), &StorageConfig{Type: storage.InMem})
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestNewStorer_Unsupported(t *testing.T) {
	_, err := NewStorer(context.Background(), &StorageConfig{Type: "mongo"})
	assert.ErrorContains(t, err, "unsupported storer type: mongo")

	_, _, err = NewReader(context.Background(), &StorageConfig{Type: "mongo", Es: &es.ClientConfig{}})
	assert.Error(t, err)
}
