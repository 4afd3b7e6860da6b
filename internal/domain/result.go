package domain

import (
	"time"

	"github.com/google/uuid"
)

// BenchmarkResult is the outcome of one operation.
type BenchmarkResult struct {
	Name    string  `json:"name"`
	Config  string  `json:"config"`
	Threads int     `json:"threads"`
	MinMs   float64 `json:"minMs"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
	GFLOPS  float64 `json:"gflops"`
	Flops   int64   `json:"flops"`
	Samples int     `json:"samples"`
}

// Eviction records the cache eviction target of a run. Clamped is set when
// the detected cache size was too small and Effective is the default.
type Eviction struct {
	Enabled   bool  `json:"enabled"`
	Detected  int64 `json:"detectedBytes"`
	Effective int64 `json:"effectiveBytes"`
	Clamped   bool  `json:"clamped"`
}

// BenchmarkReport is the full output of a run.
type BenchmarkReport struct {
	ID        uuid.UUID         `json:"id"`
	CreatedAt time.Time         `json:"createdAt"`
	Duration  time.Duration     `json:"duration"`
	Backend   string            `json:"backend"`
	Precision string            `json:"precision"`
	System    SystemInfo        `json:"system"`
	Config    BenchmarkConfig   `json:"config"`
	Eviction  Eviction          `json:"eviction"`
	Level1    []BenchmarkResult `json:"level1"`
	Level2    []BenchmarkResult `json:"level2"`
	Level3    []BenchmarkResult `json:"level3"`
}

// Results returns every result with its level number, in level order.
func (r *BenchmarkReport) Results() []LeveledResult {
	out := make([]LeveledResult, 0, len(r.Level1)+len(r.Level2)+len(r.Level3))
	for i, rs := range [][]BenchmarkResult{r.Level1, r.Level2, r.Level3} {
		for _, res := range rs {
			out = append(out, LeveledResult{Level: i + 1, BenchmarkResult: res})
		}
	}
	return out
}

type LeveledResult struct {
	Level int `json:"level"`
	BenchmarkResult
}

// RunSummary is the listing view of a stored report.
type RunSummary struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Backend     string    `json:"backend"`
	Precision   string    `json:"precision"`
	CPUModel    string    `json:"cpuModel"`
	Threads     int       `json:"threads"`
	ResultCount int       `json:"resultCount"`
	PeakGFLOPS  float64   `json:"peakGflops"`
}

func (r *BenchmarkReport) Summary() RunSummary {
	s := RunSummary{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Backend:   r.Backend,
		Precision: r.Precision,
		CPUModel:  r.System.CPUModel,
		Threads:   r.Config.Threads,
	}
	for _, res := range r.Results() {
		s.ResultCount++
		if res.GFLOPS > s.PeakGFLOPS {
			s.PeakGFLOPS = res.GFLOPS
		}
	}
	return s
}
