// Package flops holds the theoretical floating-point operation counts of the
// benchmarked kernels. Counts treat a fused multiply-add as two operations.
package flops

func Dot(n int) int64  { return 2 * int64(n) }
func Axpy(n int) int64 { return 2 * int64(n) }
func Scal(n int) int64 { return int64(n) }

func Gemv(m, n int) int64 { return 2 * int64(m) * int64(n) }

func Gemm(m, n, k int) int64 { return 2 * int64(m) * int64(n) * int64(k) }

// GFLOPS converts a FLOP count and a mean latency in milliseconds into
// billions of operations per second. A non-positive latency yields 0.
func GFLOPS(flops int64, avgMs float64) float64 {
	if avgMs <= 0 {
		return 0
	}
	return float64(flops) / (avgMs * 1e6)
}
