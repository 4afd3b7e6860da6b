// Package timer measures the wall-clock duration of a single kernel call.
package timer

import "time"

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

// Now returns the current time; its monotonic reading is used for intervals.
func (SystemClock) Now() time.Time { return time.Now() }

// Timer records one interval. Elapsed is only meaningful after Stop.
type Timer struct {
	clock   Clock
	start   time.Time
	elapsed time.Duration
	running bool
}

func New(clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Timer{clock: clock}
}

func (t *Timer) Start() {
	t.elapsed = 0
	t.running = true
	t.start = t.clock.Now()
}

// Stop ends the interval and returns its length. Calling Stop on a timer that
// is not running keeps the previous reading.
func (t *Timer) Stop() time.Duration {
	end := t.clock.Now()
	if !t.running {
		return t.elapsed
	}
	t.running = false
	t.elapsed = end.Sub(t.start)
	if t.elapsed < 0 {
		t.elapsed = 0
	}
	return t.elapsed
}

func (t *Timer) Elapsed() time.Duration { return t.elapsed }

// ElapsedMs returns the last interval in fractional milliseconds.
func (t *Timer) ElapsedMs() float64 {
	return Milliseconds(t.elapsed)
}

func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
