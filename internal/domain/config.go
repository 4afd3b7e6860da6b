package domain

import (
	"github.com/DjordjeVuckovic/blas-bench/internal/bench/kernel"
)

// Size2 is a level 2 problem size.
type Size2 struct {
	M int `json:"m"`
	N int `json:"n"`
}

// Size3 is a level 3 problem size.
type Size3 struct {
	M int `json:"m"`
	N int `json:"n"`
	K int `json:"k"`
}

// LevelConfig is what to run at one BLAS level. A level runs only when Size
// is present and Ops is not empty.
type LevelConfig[S any] struct {
	Size    Option[S]          `json:"size"`
	Ops     []kernel.Selection `json:"ops"`
	Weights map[string]float64 `json:"weights,omitempty"`
}

// Runnable returns the size when the level should run.
func (l LevelConfig[S]) Runnable() (S, bool) {
	s, ok := l.Size.Get()
	if !ok || len(l.Ops) == 0 {
		var zero S
		return zero, false
	}
	return s, true
}

// Weight is the configured weight of a result name, 1.0 when unset.
func (l LevelConfig[S]) Weight(name string) float64 {
	if w, ok := l.Weights[name]; ok {
		return w
	}
	return 1.0
}

// BenchmarkConfig holds the fully resolved execution parameters of a run.
// It is built once at startup and not modified afterwards.
type BenchmarkConfig struct {
	Threads    int              `json:"threads"`
	Cycles     int              `json:"cycles"`
	Warmup     int              `json:"warmup"`
	FlushCache bool             `json:"flushCache"`
	Precision  kernel.Precision `json:"precision"`
	Backend    string           `json:"backend"`
	Seed       uint64           `json:"seed"`

	Level1 LevelConfig[int]   `json:"level1"`
	Level2 LevelConfig[Size2] `json:"level2"`
	Level3 LevelConfig[Size3] `json:"level3"`
}

// AnyRunnable reports whether at least one level has a size and operations.
func (c BenchmarkConfig) AnyRunnable() bool {
	_, l1 := c.Level1.Runnable()
	_, l2 := c.Level2.Runnable()
	_, l3 := c.Level3.Runnable()
	return l1 || l2 || l3
}

// WeightFor returns the weight of a result name at a level.
func (c BenchmarkConfig) WeightFor(level kernel.Level, name string) float64 {
	switch level {
	case kernel.Level1:
		return c.Level1.Weight(name)
	case kernel.Level2:
		return c.Level2.Weight(name)
	case kernel.Level3:
		return c.Level3.Weight(name)
	default:
		return 1.0
	}
}
