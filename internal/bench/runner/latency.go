package runner

import (
	"errors"
	"math"

	"github.com/DjordjeVuckovic/blas-bench/internal/bench/flops"
	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
)

// LatencyStats summarises timed samples, all in milliseconds.
type LatencyStats struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Mean        float64 `json:"mean"`
	SampleCount int     `json:"sample_count"`
}

var ErrNoSamples = errors.New("no timing samples")

func ComputeLatencyStats(samples []float64) LatencyStats {
	if len(samples) == 0 {
		return LatencyStats{}
	}

	stats := LatencyStats{
		Min:         samples[0],
		Max:         samples[0],
		SampleCount: len(samples),
	}

	var sum float64
	for _, s := range samples {
		sum += s
		stats.Min = math.Min(stats.Min, s)
		stats.Max = math.Max(stats.Max, s)
	}
	stats.Mean = sum / float64(len(samples))
	// rounding in the sum can push the mean a ulp outside the range
	stats.Mean = math.Min(math.Max(stats.Mean, stats.Min), stats.Max)

	return stats
}

// Aggregate reduces the samples of one operation into its result.
func Aggregate(name, config string, threads int, flopCount int64, samples []float64) (domain.BenchmarkResult, error) {
	if len(samples) == 0 {
		return domain.BenchmarkResult{}, ErrNoSamples
	}

	stats := ComputeLatencyStats(samples)
	return domain.BenchmarkResult{
		Name:    name,
		Config:  config,
		Threads: threads,
		MinMs:   stats.Min,
		AvgMs:   stats.Mean,
		MaxMs:   stats.Max,
		GFLOPS:  flops.GFLOPS(flopCount, stats.Mean),
		Flops:   flopCount,
		Samples: stats.SampleCount,
	}, nil
}
