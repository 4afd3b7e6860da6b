//go:build integration

package es

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/blas-bench/internal/apperr"
	estesting "github.com/DjordjeVuckovic/blas-bench/pkg/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestESStore(t *testing.T) {
	ctx := context.Background()
	container := estesting.NewESContainer(ctx, t)

	cfg := ClientConfig{
		Addresses: []string{container.Address},
		IndexName: "blas-runs-test",
	}

	storer, err := NewStorer(ctx, cfg)
	require.NoError(t, err)
	reader, err := NewReader(cfg)
	require.NoError(t, err)

	older := sampleReport()
	newer := sampleReport()
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)
	require.NoError(t, storer.Save(ctx, older))
	require.NoError(t, storer.Save(ctx, newer))

	t.Run("get", func(t *testing.T) {
		got, err := reader.Get(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, older.ID, got.ID)
		assert.Equal(t, older.Level1, got.Level1)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := reader.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		runs, err := reader.List(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, newer.ID, runs[0].ID)
		assert.Equal(t, older.ID, runs[1].ID)
	})

	t.Run("ensure index is idempotent", func(t *testing.T) {
		assert.NoError(t, storer.EnsureIndex(ctx))
	})
}
