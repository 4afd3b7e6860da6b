package runner

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/DjordjeVuckovic/blas-bench/internal/bench/cache"
	"github.com/DjordjeVuckovic/blas-bench/internal/bench/kernel"
	"github.com/DjordjeVuckovic/blas-bench/internal/blas"
	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/google/uuid"
)

// SystemInfoSource supplies the host snapshot and cache sizes of a run.
type SystemInfoSource interface {
	Collect() (domain.SystemInfo, error)
}

// Runner executes the configured operations of every level one after another
// on the calling goroutine. T is the element precision of all operands.
type Runner[T blas.Float] struct {
	cfg     domain.BenchmarkConfig
	backend blas.Backend
	kernels blas.Kernels[T]
	system  SystemInfoSource
	opts    options
	rng     *rand.Rand
	meter   *Meter
}

func New[T blas.Float](cfg domain.BenchmarkConfig, backend blas.Backend, system SystemInfoSource, opts ...Option) (*Runner[T], error) {
	if backend == nil {
		return nil, fmt.Errorf("runner: backend is required")
	}
	if cfg.Cycles < 1 {
		return nil, fmt.Errorf("runner: cycles must be at least 1, got %d", cfg.Cycles)
	}
	if cfg.Warmup < 0 {
		return nil, fmt.Errorf("runner: warmup must not be negative, got %d", cfg.Warmup)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	k := blas.KernelsFor[T](backend)
	if k == nil {
		return nil, fmt.Errorf("runner: backend %s has no %s kernels", backend.Name(), cfg.Precision)
	}

	return &Runner[T]{
		cfg:     cfg,
		backend: backend,
		kernels: k,
		system:  system,
		opts:    o,
		meter:   NewMeter(o.clock, cache.Nop{}, 0),
		rng:     rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}, nil
}

// RunAll runs levels 1, 2 and 3 in order and assembles the report. A level
// is skipped when it has no size or no operations. The context is checked
// between operations only.
func (r *Runner[T]) RunAll(ctx context.Context) (*domain.BenchmarkReport, error) {
	started := time.Now()

	info, err := r.collectSystem()
	if err != nil {
		return nil, err
	}

	eviction := r.prepareEviction(info)

	report := &domain.BenchmarkReport{
		ID:        uuid.New(),
		CreatedAt: started.UTC(),
		Backend:   r.backend.Name(),
		Precision: string(r.cfg.Precision),
		System:    info,
		Config:    r.cfg,
		Eviction:  eviction,
	}

	slog.Info("Starting benchmark",
		"backend", r.backend.Name(),
		"precision", r.cfg.Precision,
		"threads", r.backend.Threads(),
		"warmup", r.cfg.Warmup,
		"cycles", r.cfg.Cycles,
		"flush_cache", eviction.Enabled,
	)

	if n, ok := r.cfg.Level1.Runnable(); ok {
		report.Level1, err = r.RunLevel(ctx, kernel.Vector(n), r.cfg.Level1.Ops)
		if err != nil {
			return nil, fmt.Errorf("level 1: %w", err)
		}
	}
	if s, ok := r.cfg.Level2.Runnable(); ok {
		report.Level2, err = r.RunLevel(ctx, kernel.MatVec(s.M, s.N), r.cfg.Level2.Ops)
		if err != nil {
			return nil, fmt.Errorf("level 2: %w", err)
		}
	}
	if s, ok := r.cfg.Level3.Runnable(); ok {
		report.Level3, err = r.RunLevel(ctx, kernel.MatMat(s.M, s.N, s.K), r.cfg.Level3.Ops)
		if err != nil {
			return nil, fmt.Errorf("level 3: %w", err)
		}
	}

	report.Duration = time.Since(started)
	slog.Info("Benchmark finished", "results", len(report.Results()), "duration", report.Duration)

	return report, nil
}

// RunLevel measures every selection at shape s. Unrecognized selections are
// logged and skipped; any other failure stops the level. Cache eviction is
// only active once RunAll has prepared it.
func (r *Runner[T]) RunLevel(ctx context.Context, s kernel.Shape, ops []kernel.Selection) ([]domain.BenchmarkResult, error) {
	results := make([]domain.BenchmarkResult, 0, len(ops))

	for _, sel := range ops {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !sel.Recognized() || sel.Op.Level() != s.Level {
			slog.Warn("Skipping unrecognized operation", "op", sel.Name, "level", s.Level.String())
			continue
		}

		res, err := r.runOp(sel.Op, s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sel.Name, err)
		}
		results = append(results, res)
	}

	return results, nil
}

func (r *Runner[T]) runOp(op kernel.Op, s kernel.Shape) (domain.BenchmarkResult, error) {
	name := op.ResultName(r.cfg.Precision)
	slog.Info("Running benchmark", "op", name, "config", s.String())

	bound, err := kernel.Bind(r.kernels, op, s, r.rng, r.opts.operandLimit)
	if err != nil {
		return domain.BenchmarkResult{}, err
	}

	m, err := r.meter.Measure(bound, r.cfg.Warmup, r.cfg.Cycles)
	if err != nil {
		return domain.BenchmarkResult{}, err
	}

	res, err := Aggregate(name, s.String(), r.backend.Threads(), bound.Flops, m.Samples)
	if err != nil {
		return domain.BenchmarkResult{}, err
	}

	slog.Info("Benchmark done",
		"op", name,
		"min_ms", res.MinMs,
		"avg_ms", res.AvgMs,
		"max_ms", res.MaxMs,
		"gflops", res.GFLOPS,
	)
	return res, nil
}

func (r *Runner[T]) collectSystem() (domain.SystemInfo, error) {
	if r.system == nil {
		return domain.SystemInfo{}, nil
	}
	info, err := r.system.Collect()
	if err != nil {
		return domain.SystemInfo{}, fmt.Errorf("collect system info: %w", err)
	}
	return info, nil
}

// prepareEviction derives the eviction target from the detected cache sizes
// and builds the meter.
func (r *Runner[T]) prepareEviction(info domain.SystemInfo) domain.Eviction {
	detected := info.TotalCache()
	effective, clamped := cache.EffectiveSize(detected)

	ev := domain.Eviction{
		Enabled:   r.cfg.FlushCache,
		Detected:  detected,
		Effective: effective,
		Clamped:   clamped,
	}

	if !r.cfg.FlushCache {
		r.meter = NewMeter(r.opts.clock, cache.Nop{}, 0)
		return ev
	}

	if clamped {
		slog.Warn("Detected cache size too small, using default eviction size",
			"detected_bytes", detected,
			"effective_bytes", effective,
		)
	}

	evictor := r.opts.evictor
	if evictor == nil {
		evictor = cache.NewBufferEvictor()
	}
	r.meter = NewMeter(r.opts.clock, evictor, effective)
	return ev
}

// Run builds a runner of the configured precision and runs every level.
func Run(ctx context.Context, cfg domain.BenchmarkConfig, backend blas.Backend, system SystemInfoSource, opts ...Option) (*domain.BenchmarkReport, error) {
	switch cfg.Precision {
	case kernel.Single:
		r, err := New[float32](cfg, backend, system, opts...)
		if err != nil {
			return nil, err
		}
		return r.RunAll(ctx)
	case kernel.Double, "":
		r, err := New[float64](cfg, backend, system, opts...)
		if err != nil {
			return nil, err
		}
		return r.RunAll(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", kernel.ErrUnknownPrecision, cfg.Precision)
	}
}
