package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimer_MeasuresInterval(t *testing.T) {
	clk := NewStepClock(Intervals(3*time.Millisecond, 1500*time.Microsecond)...)
	tm := New(clk)

	tm.Start()
	assert.Equal(t, 3*time.Millisecond, tm.Stop())
	assert.Equal(t, 3.0, tm.ElapsedMs())

	tm.Start()
	tm.Stop()
	assert.Equal(t, 1500*time.Microsecond, tm.Elapsed())
	assert.InDelta(t, 1.5, tm.ElapsedMs(), 1e-12)
}

func TestTimer_StopWithoutStart(t *testing.T) {
	tm := New(NewStepClock(time.Second))
	assert.Zero(t, tm.Stop())
	assert.Zero(t, tm.ElapsedMs())
}

func TestTimer_SystemClockIsMonotonic(t *testing.T) {
	tm := New(nil)
	tm.Start()
	time.Sleep(time.Millisecond)
	d := tm.Stop()

	assert.GreaterOrEqual(t, d, time.Millisecond)
	assert.GreaterOrEqual(t, tm.ElapsedMs(), 1.0)
}

func TestMilliseconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want float64
	}{
		{0, 0},
		{time.Millisecond, 1},
		{250 * time.Microsecond, 0.25},
		{2 * time.Second, 2000},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.InDelta(t, tt.want, Milliseconds(tt.in), 1e-12)
		})
	}
}
