// Package cache forces the memory hierarchy into a cold state before a timed
// kernel call by streaming through a buffer larger than every cache level.
package cache

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/DjordjeVuckovic/blas-bench/internal/apperr"
)

const (
	// MinEvictionSize is the smallest detected cache size trusted as real.
	MinEvictionSize int64 = 1 << 20
	// DefaultEvictionSize replaces a detected size below MinEvictionSize.
	DefaultEvictionSize int64 = 16 << 20
	// Multiplier is how many times the target the eviction buffer spans.
	Multiplier = 4

	elemSize = 8
)

// EffectiveSize returns the eviction target to use for a detected total
// cache size, and whether the detected value was replaced by the default.
func EffectiveSize(detected int64) (int64, bool) {
	if detected < MinEvictionSize {
		return DefaultEvictionSize, true
	}
	return detected, false
}

// BufferSize is the byte length of the buffer touched for a target size.
// It is negative when the product overflows.
func BufferSize(target int64) int64 {
	if target > math.MaxInt64/Multiplier {
		return -1
	}
	return target * Multiplier
}

type Evictor interface {
	Evict(target int64) error
}

// BufferEvictor reads then writes every element of a float64 buffer. The
// buffer is allocated on the first call and grown only when a larger target
// arrives. The running checksum keeps the touches observable.
type BufferEvictor struct {
	buf      []float64
	maxBytes int64
	sum      float64
}

type Option func(*BufferEvictor)

// WithMaxBytes caps the buffer size. Larger requests fail with a ResourceError.
func WithMaxBytes(n int64) Option {
	return func(e *BufferEvictor) { e.maxBytes = n }
}

func NewBufferEvictor(opts ...Option) *BufferEvictor {
	e := &BufferEvictor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *BufferEvictor) Evict(target int64) error {
	if target <= 0 {
		return fmt.Errorf("eviction target must be positive, got %d", target)
	}
	if err := e.ensure(target); err != nil {
		return err
	}

	buf := e.buf
	s := e.sum
	for i := range buf {
		v := buf[i]
		s += v
		buf[i] = v + 1
	}
	e.sum = s
	return nil
}

func (e *BufferEvictor) ensure(target int64) error {
	size := BufferSize(target)
	if size < 0 || size/elemSize > int64(math.MaxInt) {
		return apperr.NewResource("eviction buffer", -1, e.maxBytes)
	}
	if e.maxBytes > 0 && size > e.maxBytes {
		return apperr.NewResource("eviction buffer", size, e.maxBytes)
	}

	n := int(size / elemSize)
	if len(e.buf) >= n {
		return nil
	}

	buf, err := allocate(n)
	if err != nil {
		return apperr.NewResource("eviction buffer", size, e.maxBytes)
	}
	e.buf = buf
	slog.Debug("Allocated eviction buffer", "bytes", size)
	return nil
}

func allocate(n int) (buf []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return make([]float64, n), nil
}

// Nop skips eviction; used when cache flushing is disabled.
type Nop struct{}

func (Nop) Evict(int64) error { return nil }
