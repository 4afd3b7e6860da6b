package runner

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"runtime"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/blas-bench/internal/apperr"
	"github.com/DjordjeVuckovic/blas-bench/internal/bench/cache"
	"github.com/DjordjeVuckovic/blas-bench/internal/bench/kernel"
	"github.com/DjordjeVuckovic/blas-bench/internal/bench/timer"
	"github.com/DjordjeVuckovic/blas-bench/internal/blas"
	"github.com/DjordjeVuckovic/blas-bench/internal/blas/blastest"
	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSystem struct {
	info domain.SystemInfo
	err  error
}

func (s staticSystem) Collect() (domain.SystemInfo, error) { return s.info, s.err }

type countingEvictor struct {
	targets []int64
}

func (c *countingEvictor) Evict(target int64) error {
	c.targets = append(c.targets, target)
	return nil
}

var desktop = domain.SystemInfo{
	CPUModel: "test cpu",
	L1Cache:  32 << 10,
	L2Cache:  256 << 10,
	L3Cache:  8 << 20,
}

func baseConfig() domain.BenchmarkConfig {
	return domain.BenchmarkConfig{
		Threads:    2,
		Cycles:     3,
		Warmup:     1,
		FlushCache: false,
		Precision:  kernel.Double,
		Seed:       7,
	}
}

func level1(names ...string) domain.LevelConfig[int] {
	return domain.LevelConfig[int]{
		Size: domain.Some(1000),
		Ops:  kernel.Resolve(kernel.Level1, kernel.Double, names),
	}
}

func TestRunAll_AllLevels(t *testing.T) {
	cfg := baseConfig()
	cfg.Level1 = level1("cblas_ddot", "cblas_daxpy", "cblas_dscal")
	cfg.Level2 = domain.LevelConfig[domain.Size2]{
		Size: domain.Some(domain.Size2{M: 8, N: 4}),
		Ops:  kernel.Resolve(kernel.Level2, kernel.Double, []string{"cblas_dgemv"}),
	}
	cfg.Level3 = domain.LevelConfig[domain.Size3]{
		Size: domain.Some(domain.Size3{M: 2, N: 3, K: 4}),
		Ops:  kernel.Resolve(kernel.Level3, kernel.Double, []string{"cblas_dgemm"}),
	}

	fake := blastest.New(2)
	r, err := New[float64](cfg, fake, staticSystem{info: desktop}, WithClock(timer.NewStepClock(timer.Intervals(time.Millisecond)...)))
	require.NoError(t, err)

	report, err := r.RunAll(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Level1, 3)
	require.Len(t, report.Level2, 1)
	require.Len(t, report.Level3, 1)
	assert.Equal(t, []string{"ddot", "daxpy", "dscal"}, names(report.Level1))

	gemm := report.Level3[0]
	assert.Equal(t, "dgemm", gemm.Name)
	assert.Equal(t, "M=2,N=3,K=4", gemm.Config)
	assert.Equal(t, 2, gemm.Threads)
	assert.Equal(t, int64(48), gemm.Flops)
	assert.Equal(t, 3, gemm.Samples)
	assert.Equal(t, "M=8,N=4", report.Level2[0].Config)

	// warmup + cycles per operation
	assert.Equal(t, 4, fake.Count("ddot"))
	assert.Equal(t, 4, fake.Count("dgemm"))
	assert.Len(t, fake.Calls(), 20)

	assert.Equal(t, "fake", report.Backend)
	assert.Equal(t, "double", report.Precision)
	assert.Equal(t, "test cpu", report.System.CPUModel)
	assert.NotEqual(t, [16]byte{}, [16]byte(report.ID))
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestRunAll_SkipsUnrecognizedOperation(t *testing.T) {
	logs := captureLogs(t)

	cfg := baseConfig()
	cfg.Level1 = level1("cblas_dnope", "cblas_ddot")

	fake := blastest.New(1)
	report, err := Run(context.Background(), cfg, fake, staticSystem{info: desktop})
	require.NoError(t, err)

	require.Len(t, report.Level1, 1)
	assert.Equal(t, "ddot", report.Level1[0].Name)
	assert.Empty(t, report.Level2)
	assert.Empty(t, report.Level3)

	assert.Contains(t, logs.String(), `level=WARN msg="Skipping unrecognized operation" op=cblas_dnope`)
}

// scalSpy checks the operand of every SCAL call before the real kernel
// scales it.
type scalSpy struct {
	blas.Backend
	calls      int
	outOfRange int
}

func (s *scalSpy) Float32() blas.Kernels[float32] {
	return spyKernels{Kernels: s.Backend.Float32(), spy: s}
}

type spyKernels struct {
	blas.Kernels[float32]
	spy *scalSpy
}

func (k spyKernels) Scal(n int, alpha float32, x []float32, incX int) error {
	k.spy.calls++
	for _, v := range x[:n] {
		if !(v >= -1 && v <= 1) {
			k.spy.outOfRange++
		}
	}
	return k.Kernels.Scal(n, alpha, x, incX)
}

func TestRun_OperandsStayInRangeAcrossCycles(t *testing.T) {
	prev := runtime.GOMAXPROCS(0)
	t.Cleanup(func() { runtime.GOMAXPROCS(prev) })

	gb, err := blas.NewGonum(1)
	require.NoError(t, err)
	spy := &scalSpy{Backend: gb}

	cfg := baseConfig()
	cfg.Precision = kernel.Single
	cfg.Warmup = 3
	cfg.Cycles = 200
	cfg.Level1 = domain.LevelConfig[int]{
		Size: domain.Some(1000),
		Ops:  kernel.Resolve(kernel.Level1, kernel.Single, []string{"cblas_sscal"}),
	}

	report, err := Run(context.Background(), cfg, spy, nil)
	require.NoError(t, err)

	assert.Equal(t, 203, spy.calls)
	assert.Zero(t, spy.outOfRange, "every call sees operands in [-1, 1]")
	require.Len(t, report.Level1, 1)
	assert.Equal(t, "sscal", report.Level1[0].Name)
}

func TestRun_OperandsOverMemoryBudget(t *testing.T) {
	cfg := baseConfig()
	cfg.Level3 = domain.LevelConfig[domain.Size3]{
		Size: domain.Some(domain.Size3{M: 100_000, N: 100_000, K: 100_000}),
		Ops:  kernel.Resolve(kernel.Level3, kernel.Double, []string{"cblas_dgemm"}),
	}

	fake := blastest.New(1)
	_, err := Run(context.Background(), cfg, fake, staticSystem{info: desktop}, WithMemoryBudget(1<<30))
	require.Error(t, err)

	var re *apperr.ResourceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, int64(3*100_000*100_000*8), re.Bytes)
	assert.Equal(t, int64(3<<28), re.Limit)
	assert.Empty(t, fake.Calls())
}

func TestRun_EvictionOverMemoryBudget(t *testing.T) {
	cfg := baseConfig()
	cfg.FlushCache = true
	cfg.Level1 = level1("cblas_ddot")

	fake := blastest.New(1)
	_, err := Run(context.Background(), cfg, fake, staticSystem{info: desktop}, WithMemoryBudget(64<<20))
	require.Error(t, err)

	var re *apperr.ResourceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, cache.BufferSize(desktop.TotalCache()), re.Bytes)
	assert.Equal(t, int64(16<<20), re.Limit)
	assert.Empty(t, fake.Calls())
}

func TestRunAll_SkipsLevelsWithoutSizeOrOps(t *testing.T) {
	cfg := baseConfig()
	cfg.Level1 = domain.LevelConfig[int]{Ops: kernel.Resolve(kernel.Level1, kernel.Double, []string{"cblas_ddot"})}
	cfg.Level2 = domain.LevelConfig[domain.Size2]{Size: domain.Some(domain.Size2{M: 2, N: 2})}
	cfg.Level3 = domain.LevelConfig[domain.Size3]{
		Size: domain.Some(domain.Size3{M: 2, N: 2, K: 2}),
		Ops:  kernel.Resolve(kernel.Level3, kernel.Double, []string{"cblas_dgemm"}),
	}

	fake := blastest.New(1)
	report, err := Run(context.Background(), cfg, fake, nil)
	require.NoError(t, err)

	assert.Empty(t, report.Level1)
	assert.Empty(t, report.Level2)
	assert.Len(t, report.Level3, 1)
	assert.Zero(t, fake.Count("ddot"))
}

func TestRunAll_BackendErrorPropagates(t *testing.T) {
	cfg := baseConfig()
	cfg.Level1 = level1("cblas_ddot", "cblas_dscal")

	backendErr := apperr.NewBackend("fake", "ddot", errors.New("illegal value"))
	fake := blastest.New(1)
	fake.Err = backendErr

	report, err := Run(context.Background(), cfg, fake, staticSystem{info: desktop})
	require.Error(t, err)
	assert.Nil(t, report)

	var be *apperr.BackendError
	require.True(t, errors.As(err, &be))
	assert.Same(t, backendErr, be)
	assert.Len(t, fake.Calls(), 1, "no retries and no further operations")
}

func TestRunAll_EvictionClampedAndRecorded(t *testing.T) {
	cfg := baseConfig()
	cfg.FlushCache = true
	cfg.Warmup = 2
	cfg.Cycles = 2
	cfg.Level1 = level1("cblas_ddot")

	ev := &countingEvictor{}
	small := domain.SystemInfo{L1Cache: 256 << 10, L2Cache: 256 << 10}

	report, err := Run(context.Background(), cfg, blastest.New(1), staticSystem{info: small}, WithEvictor(ev))
	require.NoError(t, err)

	assert.True(t, report.Eviction.Enabled)
	assert.True(t, report.Eviction.Clamped)
	assert.Equal(t, int64(512<<10), report.Eviction.Detected)
	assert.Equal(t, cache.DefaultEvictionSize, report.Eviction.Effective)

	require.Len(t, ev.targets, 4)
	for _, tgt := range ev.targets {
		assert.Equal(t, int64(16<<20), tgt)
	}
}

func TestRunAll_EvictionUsesDetectedSize(t *testing.T) {
	cfg := baseConfig()
	cfg.FlushCache = true
	cfg.Level1 = level1("cblas_dscal")

	ev := &countingEvictor{}
	report, err := Run(context.Background(), cfg, blastest.New(1), staticSystem{info: desktop}, WithEvictor(ev))
	require.NoError(t, err)

	assert.False(t, report.Eviction.Clamped)
	assert.Equal(t, desktop.TotalCache(), report.Eviction.Effective)
	assert.Len(t, ev.targets, cfg.Warmup+cfg.Cycles)
}

func TestRunAll_NoFlushSkipsEviction(t *testing.T) {
	cfg := baseConfig()
	cfg.Level1 = level1("cblas_ddot")

	ev := &countingEvictor{}
	report, err := Run(context.Background(), cfg, blastest.New(1), staticSystem{info: desktop}, WithEvictor(ev))
	require.NoError(t, err)

	assert.False(t, report.Eviction.Enabled)
	assert.Empty(t, ev.targets)
}

func TestRun_SinglePrecision(t *testing.T) {
	cfg := baseConfig()
	cfg.Precision = kernel.Single
	cfg.Level1 = domain.LevelConfig[int]{
		Size: domain.Some(64),
		Ops:  kernel.Resolve(kernel.Level1, kernel.Single, []string{"cblas_sdot"}),
	}

	fake := blastest.New(1)
	report, err := Run(context.Background(), cfg, fake, nil)
	require.NoError(t, err)

	require.Len(t, report.Level1, 1)
	assert.Equal(t, "sdot", report.Level1[0].Name)
	assert.Equal(t, 4, fake.Count("sdot"))
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.Cycles = 0
	_, err := New[float64](cfg, blastest.New(1), nil)
	assert.Error(t, err)

	cfg = baseConfig()
	cfg.Warmup = -1
	_, err = New[float64](cfg, blastest.New(1), nil)
	assert.Error(t, err)

	_, err = New[float64](baseConfig(), nil, nil)
	assert.Error(t, err)
}

func TestRunAll_SystemInfoError(t *testing.T) {
	cfg := baseConfig()
	cfg.Level1 = level1("cblas_ddot")
	boom := errors.New("no sysfs")

	_, err := Run(context.Background(), cfg, blastest.New(1), staticSystem{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestRunAll_CancelledBetweenOperations(t *testing.T) {
	cfg := baseConfig()
	cfg.Level1 = level1("cblas_ddot", "cblas_daxpy")

	ctx, cancel := context.WithCancel(context.Background())
	fake := blastest.New(1)
	fake.OnCall = func(c blastest.Call) {
		if c.Op == "ddot" {
			cancel()
		}
	}

	_, err := Run(ctx, cfg, fake, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 4, fake.Count("ddot"), "the running measurement completes")
	assert.Zero(t, fake.Count("daxpy"))
}

func names(rs []domain.BenchmarkResult) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}
