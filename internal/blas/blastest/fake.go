// Package blastest provides an in-process fake of blas.Backend for tests.
package blastest

import (
	"sync"

	"github.com/DjordjeVuckovic/blas-bench/internal/blas"
)

// Call is one recorded kernel invocation.
type Call struct {
	Op string
	M  int
	N  int
	K  int
}

// Backend records every kernel call instead of computing anything. When Err
// is set, every call returns it.
type Backend struct {
	mu      sync.Mutex
	threads int
	calls   []Call
	closed  bool

	Err error
	// OnCall runs after a call is recorded and before it returns.
	OnCall func(Call)
}

func New(threads int) *Backend {
	return &Backend{threads: threads}
}

func (b *Backend) Name() string                   { return "fake" }
func (b *Backend) Threads() int                   { return b.threads }
func (b *Backend) Float64() blas.Kernels[float64] { return kernels[float64]{b: b, prefix: "d"} }
func (b *Backend) Float32() blas.Kernels[float32] { return kernels[float32]{b: b, prefix: "s"} }

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *Backend) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Calls returns a copy of the recorded calls in invocation order.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

// Count returns how many times op was invoked.
func (b *Backend) Count(op string) int {
	n := 0
	for _, c := range b.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (b *Backend) record(c Call) error {
	b.mu.Lock()
	b.calls = append(b.calls, c)
	hook := b.OnCall
	err := b.Err
	b.mu.Unlock()

	if hook != nil {
		hook(c)
	}
	return err
}

type kernels[T blas.Float] struct {
	b      *Backend
	prefix string
}

func (k kernels[T]) Dot(n int, _ []T, _ int, _ []T, _ int) (T, error) {
	return 0, k.b.record(Call{Op: k.prefix + "dot", N: n})
}

func (k kernels[T]) Axpy(n int, _ T, _ []T, _ int, _ []T, _ int) error {
	return k.b.record(Call{Op: k.prefix + "axpy", N: n})
}

func (k kernels[T]) Scal(n int, _ T, _ []T, _ int) error {
	return k.b.record(Call{Op: k.prefix + "scal", N: n})
}

func (k kernels[T]) Gemv(_ blas.Order, _ blas.Transpose, m, n int, _ T, _ []T, _ int, _ []T, _ int, _ T, _ []T, _ int) error {
	return k.b.record(Call{Op: k.prefix + "gemv", M: m, N: n})
}

func (k kernels[T]) Gemm(_ blas.Order, _, _ blas.Transpose, m, n, kk int, _ T, _ []T, _ int, _ []T, _ int, _ T, _ []T, _ int) error {
	return k.b.record(Call{Op: k.prefix + "gemm", M: m, N: n, K: kk})
}
