// Package config builds the BenchmarkConfig of a run from defaults, an
// optional TOML or YAML file and command line overrides.
package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/DjordjeVuckovic/blas-bench/internal/apperr"
	"github.com/DjordjeVuckovic/blas-bench/internal/bench/kernel"
	"github.com/DjordjeVuckovic/blas-bench/internal/blas"
	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
)

const (
	DefaultThreads    = 1
	DefaultCycles     = 5
	DefaultWarmup     = 3
	DefaultFlushCache = true
	DefaultLevel1Size = 1_000_000
	DefaultMatrixDim  = 1024
	DefaultSeed       = 42
	DefaultFormat     = "markdown"
)

// Settings is the raw, layered configuration before operation names are
// resolved. Sizes are optional per level.
type Settings struct {
	Threads    int
	Cycles     int
	Warmup     int
	FlushCache bool
	Precision  string
	Backend    string
	Seed       uint64
	Format     string
	Output     string

	Level1Size domain.Option[int]
	Level2Size domain.Option[domain.Size2]
	Level3Size domain.Option[domain.Size3]

	Level1Ops []string
	Level2Ops []string
	Level3Ops []string

	// Weights per level, keyed by result name ("ddot").
	Weights map[kernel.Level]map[string]float64
}

func Default() Settings {
	return Settings{
		Threads:    DefaultThreads,
		Cycles:     DefaultCycles,
		Warmup:     DefaultWarmup,
		FlushCache: DefaultFlushCache,
		Precision:  string(kernel.Double),
		Backend:    string(blas.Gonum),
		Seed:       DefaultSeed,
		Format:     DefaultFormat,

		Level1Size: domain.Some(DefaultLevel1Size),
		Level2Size: domain.Some(domain.Size2{M: DefaultMatrixDim, N: DefaultMatrixDim}),
		Level3Size: domain.Some(domain.Size3{M: DefaultMatrixDim, N: DefaultMatrixDim, K: DefaultMatrixDim}),

		Level1Ops: kernel.DefaultNames(kernel.Level1, kernel.Double),
		Level2Ops: kernel.DefaultNames(kernel.Level2, kernel.Double),
		Level3Ops: kernel.DefaultNames(kernel.Level3, kernel.Double),

		Weights: make(map[kernel.Level]map[string]float64),
	}
}

// Validate checks the scalar and size invariants. Whether any level can run
// is decided by Build once operation names are resolved.
func (s Settings) Validate() error {
	if s.Threads < 1 {
		return apperr.NewValidationf("threads must be at least 1, got %d", s.Threads)
	}
	if s.Cycles < 1 {
		return apperr.NewValidationf("cycles must be at least 1, got %d", s.Cycles)
	}
	if s.Warmup < 0 {
		return apperr.NewValidationf("warmup must not be negative, got %d", s.Warmup)
	}
	if _, err := kernel.ParsePrecision(s.Precision); err != nil {
		return apperr.NewValidationWrap("invalid precision", err)
	}

	if n, ok := s.Level1Size.Get(); ok && n <= 0 {
		return apperr.NewValidationf("level 1 size must be positive, got N=%d", n)
	}
	if sz, ok := s.Level2Size.Get(); ok && (sz.M <= 0 || sz.N <= 0) {
		return apperr.NewValidationf("level 2 sizes must be positive, got M=%d,N=%d", sz.M, sz.N)
	}
	if sz, ok := s.Level3Size.Get(); ok && (sz.M <= 0 || sz.N <= 0 || sz.K <= 0) {
		return apperr.NewValidationf("level 3 sizes must be positive, got M=%d,N=%d,K=%d", sz.M, sz.N, sz.K)
	}

	for level, ws := range s.Weights {
		for name, w := range ws {
			if w < 0 {
				return apperr.NewValidationf("weight of %s at %s must not be negative, got %g", name, level, w)
			}
		}
	}

	return nil
}

// Build validates the settings and resolves operation names into the
// immutable configuration of a run.
func (s Settings) Build() (domain.BenchmarkConfig, error) {
	if err := s.Validate(); err != nil {
		return domain.BenchmarkConfig{}, err
	}

	precision, _ := kernel.ParsePrecision(s.Precision)

	cfg := domain.BenchmarkConfig{
		Threads:    s.Threads,
		Cycles:     s.Cycles,
		Warmup:     s.Warmup,
		FlushCache: s.FlushCache,
		Precision:  precision,
		Backend:    s.Backend,
		Seed:       s.Seed,
		Level1: domain.LevelConfig[int]{
			Size:    s.Level1Size,
			Ops:     kernel.Resolve(kernel.Level1, precision, s.Level1Ops),
			Weights: copyWeights(s.Weights[kernel.Level1]),
		},
		Level2: domain.LevelConfig[domain.Size2]{
			Size:    s.Level2Size,
			Ops:     kernel.Resolve(kernel.Level2, precision, s.Level2Ops),
			Weights: copyWeights(s.Weights[kernel.Level2]),
		},
		Level3: domain.LevelConfig[domain.Size3]{
			Size:    s.Level3Size,
			Ops:     kernel.Resolve(kernel.Level3, precision, s.Level3Ops),
			Weights: copyWeights(s.Weights[kernel.Level3]),
		},
	}
	if !cfg.AnyRunnable() {
		return domain.BenchmarkConfig{}, apperr.NewValidation("no benchmark level has both a size and a non-empty operation list")
	}
	return cfg, nil
}

// UsePrecisionDefaults swaps default double precision operation names for
// their single precision equivalents when the lists were not customised.
func (s *Settings) UsePrecisionDefaults() {
	p, err := kernel.ParsePrecision(s.Precision)
	if err != nil || p == kernel.Double {
		return
	}
	swap := func(ops []string, level kernel.Level) []string {
		if slices.Equal(ops, kernel.DefaultNames(level, kernel.Double)) {
			return kernel.DefaultNames(level, p)
		}
		return ops
	}
	s.Level1Ops = swap(s.Level1Ops, kernel.Level1)
	s.Level2Ops = swap(s.Level2Ops, kernel.Level2)
	s.Level3Ops = swap(s.Level3Ops, kernel.Level3)
}

// WeightKey normalises an operation name to the result name used as weight
// key: "cblas_ddot" and "ddot" both map to "ddot".
func WeightKey(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "cblas_")
}

func copyWeights(in map[string]float64) map[string]float64 {
	if len(in) == 0 {
		return nil
	}
	return maps.Clone(in)
}

// String renders the settings for debug logs.
func (s Settings) String() string {
	return fmt.Sprintf("threads=%d cycles=%d warmup=%d flush=%t precision=%s backend=%s",
		s.Threads, s.Cycles, s.Warmup, s.FlushCache, s.Precision, s.Backend)
}
