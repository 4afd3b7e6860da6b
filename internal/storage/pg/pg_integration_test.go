//go:build integration

package pg

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/blas-bench/internal/apperr"
	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	pgtesting "github.com/DjordjeVuckovic/blas-bench/pkg/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReport(created time.Time) *domain.BenchmarkReport {
	return &domain.BenchmarkReport{
		ID:        uuid.New(),
		CreatedAt: created,
		Backend:   "gonum",
		Precision: "double",
		System:    domain.SystemInfo{CPUModel: "Test CPU"},
		Config:    domain.BenchmarkConfig{Threads: 4, Cycles: 5},
		Level1: []domain.BenchmarkResult{
			{Name: "ddot", Config: "N=1000000", Threads: 4, MinMs: 0.9, AvgMs: 1, MaxMs: 1.2, GFLOPS: 2, Flops: 2_000_000, Samples: 5},
		},
		Level3: []domain.BenchmarkResult{
			{Name: "dgemm", Config: "M=64,N=64,K=64", Threads: 4, MinMs: 0.1, AvgMs: 0.2, MaxMs: 0.3, GFLOPS: 2.62, Flops: 524288, Samples: 5},
		},
	}
}

func TestPGStore(t *testing.T) {
	ctx := context.Background()
	container := pgtesting.NewPGContainerWithCleanup(ctx, t)

	pool, err := NewConnectionPool(ctx, PoolConfig{ConnStr: container.ConnString})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	storer, err := NewStorer(pool)
	require.NoError(t, err)
	reader, err := NewReader(pool)
	require.NoError(t, err)

	assert.True(t, NewHealthChecker(pool).Healthy(ctx))

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	older := newReport(base)
	newer := newReport(base.Add(time.Hour))
	require.NoError(t, storer.Save(ctx, older))
	require.NoError(t, storer.Save(ctx, newer))

	t.Run("get", func(t *testing.T) {
		got, err := reader.Get(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, older.ID, got.ID)
		assert.Equal(t, older.Level1, got.Level1)
		assert.Equal(t, older.Level3, got.Level3)
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
		assert.Equal(t, 2, runs[0].ResultCount)
		assert.InDelta(t, 2.62, runs[0].PeakGFLOPS, 1e-9)
		assert.Equal(t, "Test CPU", runs[0].CPUModel)
		assert.Equal(t, 4, runs[0].Threads)
	})
}
