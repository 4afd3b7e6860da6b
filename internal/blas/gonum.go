package blas

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/DjordjeVuckovic/blas-bench/internal/apperr"
	"gonum.org/v1/gonum/blas"
	gonumblas "gonum.org/v1/gonum/blas/gonum"
)

var errColMajor = errors.New("gonum only supports row-major storage")

// GonumBackend runs kernels with the pure Go gonum implementation. Its level 3
// routines spread work over GOMAXPROCS goroutines, so the thread count is
// applied by setting GOMAXPROCS once at construction.
type GonumBackend struct {
	threads int
	f64     gonumKernels64
	f32     gonumKernels32
}

func NewGonum(threads int) (*GonumBackend, error) {
	if threads < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidThreads, threads)
	}

	prev := runtime.GOMAXPROCS(threads)
	slog.Info("Set backend threads", "backend", Gonum, "threads", threads, "previous", prev)

	return &GonumBackend{threads: threads}, nil
}

func (b *GonumBackend) Name() string              { return string(Gonum) }
func (b *GonumBackend) Threads() int              { return b.threads }
func (b *GonumBackend) Float64() Kernels[float64] { return b.f64 }
func (b *GonumBackend) Float32() Kernels[float32] { return b.f32 }
func (b *GonumBackend) Close() error              { return nil }

// gonum reports bad arguments by panicking; guard turns that into an error.
func guard(op string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperr.NewBackend(string(Gonum), op, fmt.Errorf("%v", r))
		}
	}()
	fn()
	return nil
}

func transpose(t Transpose) blas.Transpose {
	if t == Trans {
		return blas.Trans
	}
	return blas.NoTrans
}

type gonumKernels64 struct {
	impl gonumblas.Implementation
}

func (k gonumKernels64) Dot(n int, x []float64, incX int, y []float64, incY int) (float64, error) {
	var r float64
	err := guard("ddot", func() { r = k.impl.Ddot(n, x, incX, y, incY) })
	return r, err
}

func (k gonumKernels64) Axpy(n int, alpha float64, x []float64, incX int, y []float64, incY int) error {
	return guard("daxpy", func() { k.impl.Daxpy(n, alpha, x, incX, y, incY) })
}

func (k gonumKernels64) Scal(n int, alpha float64, x []float64, incX int) error {
	return guard("dscal", func() { k.impl.Dscal(n, alpha, x, incX) })
}

func (k gonumKernels64) Gemv(order Order, tA Transpose, m, n int, alpha float64, a []float64, lda int, x []float64, incX int, beta float64, y []float64, incY int) error {
	if order != RowMajor {
		return apperr.NewBackend(string(Gonum), "dgemv", errColMajor)
	}
	return guard("dgemv", func() { k.impl.Dgemv(transpose(tA), m, n, alpha, a, lda, x, incX, beta, y, incY) })
}

func (k gonumKernels64) Gemm(order Order, tA, tB Transpose, m, n, kk int, alpha float64, a []float64, lda int, b []float64, ldb int, beta float64, c []float64, ldc int) error {
	if order != RowMajor {
		return apperr.NewBackend(string(Gonum), "dgemm", errColMajor)
	}
	return guard("dgemm", func() {
		k.impl.Dgemm(transpose(tA), transpose(tB), m, n, kk, alpha, a, lda, b, ldb, beta, c, ldc)
	})
}

type gonumKernels32 struct {
	impl gonumblas.Implementation
}

func (k gonumKernels32) Dot(n int, x []float32, incX int, y []float32, incY int) (float32, error) {
	var r float32
	err := guard("sdot", func() { r = k.impl.Sdot(n, x, incX, y, incY) })
	return r, err
}

func (k gonumKernels32) Axpy(n int, alpha float32, x []float32, incX int, y []float32, incY int) error {
	return guard("saxpy", func() { k.impl.Saxpy(n, alpha, x, incX, y, incY) })
}

func (k gonumKernels32) Scal(n int, alpha float32, x []float32, incX int) error {
	return guard("sscal", func() { k.impl.Sscal(n, alpha, x, incX) })
}

func (k gonumKernels32) Gemv(order Order, tA Transpose, m, n int, alpha float32, a []float32, lda int, x []float32, incX int, beta float32, y []float32, incY int) error {
	if order != RowMajor {
		return apperr.NewBackend(string(Gonum), "sgemv", errColMajor)
	}
	return guard("sgemv", func() { k.impl.Sgemv(transpose(tA), m, n, alpha, a, lda, x, incX, beta, y, incY) })
}

func (k gonumKernels32) Gemm(order Order, tA, tB Transpose, m, n, kk int, alpha float32, a []float32, lda int, b []float32, ldb int, beta float32, c []float32, ldc int) error {
	if order != RowMajor {
		return apperr.NewBackend(string(Gonum), "sgemm", errColMajor)
	}
	return guard("sgemm", func() {
		k.impl.Sgemm(transpose(tA), transpose(tB), m, n, kk, alpha, a, lda, b, ldb, beta, c, ldc)
	})
}
