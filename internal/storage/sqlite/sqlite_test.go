package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/blas-bench/internal/apperr"
	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReport(created time.Time) *domain.BenchmarkReport {
	return &domain.BenchmarkReport{
		CreatedAt: created,
		Backend:   "gonum",
		Precision: "double",
		System:    domain.SystemInfo{CPUModel: "Test CPU"},
		Config:    domain.BenchmarkConfig{Threads: 2, Cycles: 3},
		Level1: []domain.BenchmarkResult{
			{Name: "ddot", Config: "N=1000", Threads: 2, MinMs: 1, AvgMs: 1.5, MaxMs: 2, GFLOPS: 1.25, Flops: 2000, Samples: 3},
		},
		Level3: []domain.BenchmarkResult{
			{Name: "dgemm", Config: "M=8,N=8,K=8", Threads: 2, MinMs: 0.5, AvgMs: 0.6, MaxMs: 0.7, GFLOPS: 3.5, Flops: 1024, Samples: 3},
		},
	}
}

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaveAndGet(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	r := newReport(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.Save(ctx, r))
	require.NotEqual(t, uuid.Nil, r.ID)

	got, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, r.Level1, got.Level1)
	assert.Equal(t, r.Level3, got.Level3)
	assert.True(t, r.CreatedAt.Equal(got.CreatedAt))
}

func TestStore_GetMissing(t *testing.T) {
	s := newStore(t)

	_, err := s.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStore_List(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	older := newReport(base)
	newer := newReport(base.Add(time.Hour))
	require.NoError(t, s.Save(ctx, older))
	require.NoError(t, s.Save(ctx, newer))

	runs, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, older.ID, runs[1].ID)
	assert.Equal(t, 2, runs[0].ResultCount)
	assert.Equal(t, 3.5, runs[0].PeakGFLOPS)
	assert.Equal(t, "Test CPU", runs[0].CPUModel)
	assert.Equal(t, 2, runs[0].Threads)
	assert.True(t, newer.CreatedAt.Equal(runs[0].CreatedAt))

	one, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestStore_ListEmpty(t *testing.T) {
	s := newStore(t)

	runs, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
