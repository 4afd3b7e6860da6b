package timer

import (
	"sync"
	"time"
)

// StepClock is a deterministic Clock that advances by the next configured
// step on every Now call. After the steps run out it advances by the last one.
type StepClock struct {
	mu    sync.Mutex
	now   time.Time
	steps []time.Duration
	next  int
}

func NewStepClock(steps ...time.Duration) *StepClock {
	return &StepClock{now: time.Unix(0, 0), steps: steps}
}

func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.now
	if len(c.steps) > 0 {
		i := c.next
		if i >= len(c.steps) {
			i = len(c.steps) - 1
		} else {
			c.next++
		}
		c.now = c.now.Add(c.steps[i])
	}
	return cur
}

// Intervals builds steps for a StepClock so that consecutive Start/Stop pairs
// measure exactly the given durations.
func Intervals(ds ...time.Duration) []time.Duration {
	steps := make([]time.Duration, 0, len(ds)*2)
	for _, d := range ds {
		steps = append(steps, d, 0)
	}
	return steps
}
