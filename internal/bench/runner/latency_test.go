package runner

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLatencyStats_Empty(t *testing.T) {
	stats := ComputeLatencyStats(nil)
	assert.Zero(t, stats.Min)
	assert.Zero(t, stats.Max)
	assert.Zero(t, stats.Mean)
	assert.Zero(t, stats.SampleCount)
}

func TestComputeLatencyStats_SingleValue(t *testing.T) {
	stats := ComputeLatencyStats([]float64{10})

	assert.Equal(t, 10.0, stats.Min)
	assert.Equal(t, 10.0, stats.Max)
	assert.Equal(t, 10.0, stats.Mean)
	assert.Equal(t, 1, stats.SampleCount)
}

func TestComputeLatencyStats_MultipleValues(t *testing.T) {
	stats := ComputeLatencyStats([]float64{1.0, 2.0, 3.0, 4.0, 5.0})

	assert.Equal(t, 1.0, stats.Min)
	assert.Equal(t, 5.0, stats.Max)
	assert.Equal(t, 3.0, stats.Mean)
	assert.Equal(t, 5, stats.SampleCount)
}

func TestComputeLatencyStats_Unsorted(t *testing.T) {
	samples := []float64{40, 10, 30, 20}
	stats := ComputeLatencyStats(samples)

	assert.Equal(t, 10.0, stats.Min)
	assert.Equal(t, 40.0, stats.Max)
	assert.Equal(t, 25.0, stats.Mean)
	assert.Equal(t, []float64{40, 10, 30, 20}, samples, "input must not be reordered")
}

func TestComputeLatencyStats_MinAvgMaxOrdering(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		n := 1 + rng.IntN(50)
		samples := make([]float64, n)
		var sum float64
		for j := range samples {
			samples[j] = rng.Float64() * 1000
			sum += samples[j]
		}

		stats := ComputeLatencyStats(samples)
		require.LessOrEqual(t, stats.Min, stats.Mean)
		require.LessOrEqual(t, stats.Mean, stats.Max)
		require.InDelta(t, sum/float64(n), stats.Mean, 1e-9)
	}
}

func TestAggregate(t *testing.T) {
	res, err := Aggregate("ddot", "N=1000000", 2, 2_000_000, []float64{1.0, 1.0, 1.0})
	require.NoError(t, err)

	assert.Equal(t, "ddot", res.Name)
	assert.Equal(t, "N=1000000", res.Config)
	assert.Equal(t, 2, res.Threads)
	assert.Equal(t, 1.0, res.AvgMs)
	assert.Equal(t, 2.0, res.GFLOPS)
	assert.Equal(t, int64(2_000_000), res.Flops)
	assert.Equal(t, 3, res.Samples)

	_, err = Aggregate("ddot", "N=1", 1, 2, nil)
	assert.True(t, errors.Is(err, ErrNoSamples))
}
