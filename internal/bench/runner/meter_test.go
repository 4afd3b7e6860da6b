package runner

import (
	"errors"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/blas-bench/internal/bench/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trace records operand resets, kernel calls and evictions in order.
type trace struct {
	events []string
	failAt int
	err    error
}

func (tr *trace) Invoke() error {
	tr.events = append(tr.events, "call")
	if tr.err != nil && len(tr.calls()) == tr.failAt {
		return tr.err
	}
	return nil
}

func (tr *trace) Reset() {
	tr.events = append(tr.events, "reset")
}

func (tr *trace) Evict(target int64) error {
	tr.events = append(tr.events, "evict")
	return nil
}

func (tr *trace) calls() []string {
	var out []string
	for _, e := range tr.events {
		if e == "call" {
			out = append(out, e)
		}
	}
	return out
}

func ms(v ...float64) []time.Duration {
	out := make([]time.Duration, len(v))
	for i, f := range v {
		out[i] = time.Duration(f * float64(time.Millisecond))
	}
	return out
}

func TestMeter_FixedSamples(t *testing.T) {
	clk := timer.NewStepClock(timer.Intervals(ms(1, 2, 3, 4, 5)...)...)
	m := NewMeter(clk, nil, 0)

	got, err := m.Measure(&trace{}, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, got.Samples)

	res, err := Aggregate("ddot", "N=1", 1, 2, got.Samples)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.MinMs)
	assert.Equal(t, 3.0, res.AvgMs)
	assert.Equal(t, 5.0, res.MaxMs)
}

func TestMeter_ResetsAndEvictsBeforeEveryCall(t *testing.T) {
	tr := &trace{}
	m := NewMeter(timer.NewStepClock(time.Millisecond), tr, 1<<20)

	got, err := m.Measure(tr, 2, 3)
	require.NoError(t, err)
	assert.Len(t, got.Samples, 3)

	step := []string{"reset", "evict", "call"}
	var want []string
	for i := 0; i < 5; i++ {
		want = append(want, step...)
	}
	assert.Equal(t, want, tr.events)
}

func TestMeter_ResetsWithoutEvictor(t *testing.T) {
	tr := &trace{}
	m := NewMeter(timer.NewStepClock(time.Millisecond), nil, 0)

	_, err := m.Measure(tr, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"reset", "call", "reset", "call", "reset", "call"}, tr.events)
}

func TestMeter_WarmupsAreNotSampled(t *testing.T) {
	// Warmups are not timed, so the clock only advances on timed calls.
	clk := timer.NewStepClock(timer.Intervals(ms(7, 8)...)...)
	tr := &trace{}
	m := NewMeter(clk, nil, 0)

	got, err := m.Measure(tr, 4, 2)
	require.NoError(t, err)
	assert.Len(t, tr.calls(), 6)
	assert.Equal(t, []float64{7, 8}, got.Samples)
}

func TestMeter_RejectsInvalidCounts(t *testing.T) {
	m := NewMeter(timer.NewStepClock(), nil, 0)
	tr := &trace{}

	_, err := m.Measure(tr, 0, 0)
	assert.Error(t, err)
	_, err = m.Measure(tr, -1, 1)
	assert.Error(t, err)
	assert.Empty(t, tr.events)
}

func TestMeter_PropagatesKernelError(t *testing.T) {
	boom := errors.New("kernel fault")
	tr := &trace{err: boom, failAt: 2}
	m := NewMeter(timer.NewStepClock(time.Millisecond), nil, 0)

	_, err := m.Measure(tr, 1, 5)
	assert.Same(t, boom, err)
	assert.Len(t, tr.calls(), 2, "no retry after failure")
}

type failingEvictor struct{ err error }

func (f failingEvictor) Evict(int64) error { return f.err }

func TestMeter_PropagatesEvictionError(t *testing.T) {
	boom := errors.New("no memory")
	m := NewMeter(timer.NewStepClock(), failingEvictor{err: boom}, 1)

	_, err := m.Measure(&trace{}, 0, 1)
	assert.ErrorIs(t, err, boom)
}
