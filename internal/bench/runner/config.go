package runner

import (
	"github.com/DjordjeVuckovic/blas-bench/internal/bench/cache"
	"github.com/DjordjeVuckovic/blas-bench/internal/bench/timer"
)

const (
	DefaultThreads = 1
	DefaultCycles  = 5
	DefaultWarmup  = 3
	DefaultSeed    = 42
)

// DefaultOperandLimit caps the operand memory of a single operation.
// Zero disables the cap.
const DefaultOperandLimit int64 = 0

type options struct {
	clock        timer.Clock
	evictor      cache.Evictor
	operandLimit int64
}

type Option func(*options)

// WithClock replaces the system clock.
func WithClock(c timer.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithEvictor replaces the buffer evictor used when cache flushing is on.
func WithEvictor(e cache.Evictor) Option {
	return func(o *options) { o.evictor = e }
}

// WithOperandLimit caps the bytes allocated for one operation's operands.
func WithOperandLimit(n int64) Option {
	return func(o *options) { o.operandLimit = n }
}

// WithMemoryBudget derives allocation caps from the physical memory size:
// three quarters for the operands of one operation and one quarter for the
// eviction buffer. Requests above a cap fail with a ResourceError before
// any page is touched. A non-positive total leaves the caps unset.
func WithMemoryBudget(total int64) Option {
	return func(o *options) {
		if total <= 0 {
			return
		}
		WithOperandLimit(total / 4 * 3)(o)
		if o.evictor == nil {
			WithEvictor(cache.NewBufferEvictor(cache.WithMaxBytes(total / 4)))(o)
		}
	}
}

func defaultOptions() options {
	return options{
		clock:        timer.SystemClock{},
		operandLimit: DefaultOperandLimit,
	}
}
