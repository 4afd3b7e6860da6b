// Package blas describes the compute backend that executes the benchmarked
// kernels. The benchmark never implements a kernel itself; it only drives a
// Backend through the Kernels interface of one precision.
package blas

import (
	"errors"
	"fmt"
	"strings"
)

// Float is the closed set of element types a backend can run.
type Float interface {
	float32 | float64
}

// Order is the storage order of a matrix operand. Values match CBLAS.
type Order int

const (
	RowMajor Order = 101
	ColMajor Order = 102
)

// Transpose selects op(A) for matrix operands. Values match CBLAS.
type Transpose int

const (
	NoTrans Transpose = 111
	Trans   Transpose = 112
)

// Kernels are the routines of one precision. Each call returns the error the
// backend raised, if any; implementations never retry.
type Kernels[T Float] interface {
	Dot(n int, x []T, incX int, y []T, incY int) (T, error)
	Axpy(n int, alpha T, x []T, incX int, y []T, incY int) error
	Scal(n int, alpha T, x []T, incX int) error
	Gemv(order Order, tA Transpose, m, n int, alpha T, a []T, lda int, x []T, incX int, beta T, y []T, incY int) error
	Gemm(order Order, tA, tB Transpose, m, n, k int, alpha T, a []T, lda int, b []T, ldb int, beta T, c []T, ldc int) error
}

// Backend is the process-wide compute capability. Its thread count is fixed
// when it is constructed and never changes afterwards.
type Backend interface {
	Name() string
	Threads() int
	Float64() Kernels[float64]
	Float32() Kernels[float32]
	Close() error
}

// KernelsFor returns the routines of b matching the element type T.
func KernelsFor[T Float](b Backend) Kernels[T] {
	var zero T
	var k any
	switch any(zero).(type) {
	case float64:
		k = b.Float64()
	default:
		k = b.Float32()
	}
	kt, _ := k.(Kernels[T])
	return kt
}

type Type string

const (
	Gonum    Type = "gonum"
	OpenBLAS Type = "openblas"
)

var (
	ErrUnsupportedBackend = errors.New("unsupported backend")
	ErrBackendUnavailable = errors.New("backend not available in this build")
	ErrInvalidThreads     = errors.New("thread count must be at least 1")
)

// New constructs the named backend and applies the thread count once.
func New(name string, threads int) (Backend, error) {
	if threads < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidThreads, threads)
	}

	switch Type(strings.ToLower(name)) {
	case Gonum, "":
		b, err := NewGonum(threads)
		if err != nil {
			return nil, err
		}
		return b, nil
	case OpenBLAS:
		b, err := NewOpenBLAS(threads)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %q, expected one of %v", ErrUnsupportedBackend, name, []Type{Gonum, OpenBLAS})
	}
}
