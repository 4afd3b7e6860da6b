//go:build openblas && cgo

package blas

/*
#cgo LDFLAGS: -lopenblas -lm

// CBLAS prototypes, enums passed as int (101=RowMajor, 111=NoTrans).
double cblas_ddot(const int n, const double *x, const int incx, const double *y, const int incy);
void cblas_daxpy(const int n, const double alpha, const double *x, const int incx, double *y, const int incy);
void cblas_dscal(const int n, const double alpha, double *x, const int incx);
void cblas_dgemv(const int order, const int trans, const int m, const int n,
                 const double alpha, const double *a, const int lda,
                 const double *x, const int incx, const double beta, double *y, const int incy);
void cblas_dgemm(const int order, const int transa, const int transb,
                 const int m, const int n, const int k,
                 const double alpha, const double *a, const int lda,
                 const double *b, const int ldb, const double beta, double *c, const int ldc);

float cblas_sdot(const int n, const float *x, const int incx, const float *y, const int incy);
void cblas_saxpy(const int n, const float alpha, const float *x, const int incx, float *y, const int incy);
void cblas_sscal(const int n, const float alpha, float *x, const int incx);
void cblas_sgemv(const int order, const int trans, const int m, const int n,
                 const float alpha, const float *a, const int lda,
                 const float *x, const int incx, const float beta, float *y, const int incy);
void cblas_sgemm(const int order, const int transa, const int transb,
                 const int m, const int n, const int k,
                 const float alpha, const float *a, const int lda,
                 const float *b, const int ldb, const float beta, float *c, const int ldc);

void openblas_set_num_threads(int num_threads);
int openblas_get_num_threads(void);
*/
import "C"

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/DjordjeVuckovic/blas-bench/internal/apperr"
)

var errShortBuffer = errors.New("operand buffer shorter than its dimensions")

// OpenBLASBackend calls the system OpenBLAS through its CBLAS interface.
type OpenBLASBackend struct {
	threads int
}

func NewOpenBLAS(threads int) (*OpenBLASBackend, error) {
	if threads < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidThreads, threads)
	}

	C.openblas_set_num_threads(C.int(threads))
	got := int(C.openblas_get_num_threads())
	slog.Info("Set backend threads", "backend", OpenBLAS, "threads", threads, "reported", got)

	return &OpenBLASBackend{threads: threads}, nil
}

func (b *OpenBLASBackend) Name() string              { return string(OpenBLAS) }
func (b *OpenBLASBackend) Threads() int              { return b.threads }
func (b *OpenBLASBackend) Float64() Kernels[float64] { return cblas64{} }
func (b *OpenBLASBackend) Float32() Kernels[float32] { return cblas32{} }
func (b *OpenBLASBackend) Close() error              { return nil }

// checkDims rejects arguments CBLAS would read out of bounds with instead of
// reporting an error, and anything that does not fit a C int.
func checkDims(op string, dims ...int) error {
	for _, d := range dims {
		if d < 0 || d > math.MaxInt32 {
			return apperr.NewBackend(string(OpenBLAS), op, fmt.Errorf("dimension %d out of range", d))
		}
	}
	return nil
}

func need(op string, buf, want int) error {
	if buf < want {
		return apperr.NewBackend(string(OpenBLAS), op, fmt.Errorf("%w: have %d, need %d", errShortBuffer, buf, want))
	}
	return nil
}

func ptr64(s []float64) *C.double {
	if len(s) == 0 {
		return nil
	}
	return (*C.double)(&s[0])
}

func ptr32(s []float32) *C.float {
	if len(s) == 0 {
		return nil
	}
	return (*C.float)(&s[0])
}

type cblas64 struct{}

func (cblas64) Dot(n int, x []float64, incX int, y []float64, incY int) (float64, error) {
	if err := checkDims("ddot", n); err != nil {
		return 0, err
	}
	if err := errors.Join(need("ddot", len(x), n*incX), need("ddot", len(y), n*incY)); err != nil {
		return 0, err
	}
	return float64(C.cblas_ddot(C.int(n), ptr64(x), C.int(incX), ptr64(y), C.int(incY))), nil
}

func (cblas64) Axpy(n int, alpha float64, x []float64, incX int, y []float64, incY int) error {
	if err := checkDims("daxpy", n); err != nil {
		return err
	}
	if err := errors.Join(need("daxpy", len(x), n*incX), need("daxpy", len(y), n*incY)); err != nil {
		return err
	}
	C.cblas_daxpy(C.int(n), C.double(alpha), ptr64(x), C.int(incX), ptr64(y), C.int(incY))
	return nil
}

func (cblas64) Scal(n int, alpha float64, x []float64, incX int) error {
	if err := checkDims("dscal", n); err != nil {
		return err
	}
	if err := need("dscal", len(x), n*incX); err != nil {
		return err
	}
	C.cblas_dscal(C.int(n), C.double(alpha), ptr64(x), C.int(incX))
	return nil
}

func (cblas64) Gemv(order Order, tA Transpose, m, n int, alpha float64, a []float64, lda int, x []float64, incX int, beta float64, y []float64, incY int) error {
	if err := checkDims("dgemv", m, n, lda); err != nil {
		return err
	}
	if err := errors.Join(need("dgemv", len(a), m*lda), need("dgemv", len(x), n*incX), need("dgemv", len(y), m*incY)); err != nil {
		return err
	}
	C.cblas_dgemv(C.int(order), C.int(tA), C.int(m), C.int(n), C.double(alpha), ptr64(a), C.int(lda),
		ptr64(x), C.int(incX), C.double(beta), ptr64(y), C.int(incY))
	return nil
}

func (cblas64) Gemm(order Order, tA, tB Transpose, m, n, k int, alpha float64, a []float64, lda int, b []float64, ldb int, beta float64, c []float64, ldc int) error {
	if err := checkDims("dgemm", m, n, k, lda, ldb, ldc); err != nil {
		return err
	}
	if err := errors.Join(need("dgemm", len(a), m*lda), need("dgemm", len(b), k*ldb), need("dgemm", len(c), m*ldc)); err != nil {
		return err
	}
	C.cblas_dgemm(C.int(order), C.int(tA), C.int(tB), C.int(m), C.int(n), C.int(k), C.double(alpha),
		ptr64(a), C.int(lda), ptr64(b), C.int(ldb), C.double(beta), ptr64(c), C.int(ldc))
	return nil
}

type cblas32 struct{}

func (cblas32) Dot(n int, x []float32, incX int, y []float32, incY int) (float32, error) {
	if err := checkDims("sdot", n); err != nil {
		return 0, err
	}
	if err := errors.Join(need("sdot", len(x), n*incX), need("sdot", len(y), n*incY)); err != nil {
		return 0, err
	}
	return float32(C.cblas_sdot(C.int(n), ptr32(x), C.int(incX), ptr32(y), C.int(incY))), nil
}

func (cblas32) Axpy(n int, alpha float32, x []float32, incX int, y []float32, incY int) error {
	if err := checkDims("saxpy", n); err != nil {
		return err
	}
	if err := errors.Join(need("saxpy", len(x), n*incX), need("saxpy", len(y), n*incY)); err != nil {
		return err
	}
	C.cblas_saxpy(C.int(n), C.float(alpha), ptr32(x), C.int(incX), ptr32(y), C.int(incY))
	return nil
}

func (cblas32) Scal(n int, alpha float32, x []float32, incX int) error {
	if err := checkDims("sscal", n); err != nil {
		return err
	}
	if err := need("sscal", len(x), n*incX); err != nil {
		return err
	}
	C.cblas_sscal(C.int(n), C.float(alpha), ptr32(x), C.int(incX))
	return nil
}

func (cblas32) Gemv(order Order, tA Transpose, m, n int, alpha float32, a []float32, lda int, x []float32, incX int, beta float32, y []float32, incY int) error {
	if err := checkDims("sgemv", m, n, lda); err != nil {
		return err
	}
	if err := errors.Join(need("sgemv", len(a), m*lda), need("sgemv", len(x), n*incX), need("sgemv", len(y), m*incY)); err != nil {
		return err
	}
	C.cblas_sgemv(C.int(order), C.int(tA), C.int(m), C.int(n), C.float(alpha), ptr32(a), C.int(lda),
		ptr32(x), C.int(incX), C.float(beta), ptr32(y), C.int(incY))
	return nil
}

func (cblas32) Gemm(order Order, tA, tB Transpose, m, n, k int, alpha float32, a []float32, lda int, b []float32, ldb int, beta float32, c []float32, ldc int) error {
	if err := checkDims("sgemm", m, n, k, lda, ldb, ldc); err != nil {
		return err
	}
	if err := errors.Join(need("sgemm", len(a), m*lda), need("sgemm", len(b), k*ldb), need("sgemm", len(c), m*ldc)); err != nil {
		return err
	}
	C.cblas_sgemm(C.int(order), C.int(tA), C.int(tB), C.int(m), C.int(n), C.int(k), C.float(alpha),
		ptr32(a), C.int(lda), ptr32(b), C.int(ldb), C.float(beta), ptr32(c), C.int(ldc))
	return nil
}
