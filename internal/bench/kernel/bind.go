package kernel

import (
	"fmt"
	"math"
	"math/rand/v2"
	"unsafe"

	"github.com/DjordjeVuckovic/blas-bench/internal/apperr"
	"github.com/DjordjeVuckovic/blas-bench/internal/blas"
)

// Fixed benchmarking coefficients. With these the theoretical FLOP counts hold
// exactly.
const (
	AxpyAlpha = 0.5
	ScalAlpha = 2.0
	MatAlpha  = 1.0
	MatBeta   = 0.0
)

// Invoker runs one kernel call. Reset restores the operands a call
// overwrites in place and runs outside the timed interval.
type Invoker interface {
	Reset()
	Invoke() error
}

// Bound is an operation bound to backend routines and its operand buffers.
// The buffers are allocated once and reused by every Invoke. Operands the
// kernel updates in place keep a pristine copy that Reset writes back, so
// every call sees values in [-1, 1).
type Bound[T blas.Float] struct {
	Op    Op
	Shape Shape
	Flops int64
	Bytes int64

	run      func() error
	sink     T
	dirty    [][]T
	pristine [][]T
}

func (b *Bound[T]) Invoke() error { return b.run() }

func (b *Bound[T]) Reset() {
	for i, buf := range b.dirty {
		copy(buf, b.pristine[i])
	}
}

// Sink is the last scalar result returned by a reducing kernel.
func (b *Bound[T]) Sink() T { return b.sink }

// Bind allocates operands for op at shape s, fills them from rng with values
// in [-1, 1) and returns a call against k. limitBytes caps the total operand
// size when positive; exceeding it, or sizes that overflow, fail with a
// ResourceError naming the requested size.
func Bind[T blas.Float](k blas.Kernels[T], op Op, s Shape, rng *rand.Rand, limitBytes int64) (*Bound[T], error) {
	if k == nil {
		return nil, fmt.Errorf("bind %s: no kernels for this precision", op)
	}
	if op.Level() != s.Level {
		return nil, fmt.Errorf("bind %s: %w at %s", op, ErrUnrecognizedOperation, s.Level)
	}

	lens, err := operandLens(op, s)
	if err != nil {
		return nil, err
	}

	inPlace := updatedInPlace(op)

	var zero T
	elem := int64(unsafe.Sizeof(zero))
	var total int64
	for i, n := range lens {
		copies := int64(1)
		if i == inPlace {
			copies = 2
		}
		if n > (math.MaxInt64-total)/(elem*copies) {
			return nil, apperr.NewResource(op.String()+" operands", -1, limitBytes)
		}
		total += n * elem * copies
	}
	if limitBytes > 0 && total > limitBytes {
		return nil, apperr.NewResource(op.String()+" operands", total, limitBytes)
	}

	bufs := make([][]T, len(lens))
	for i, n := range lens {
		buf, err := allocate[T](n)
		if err != nil {
			return nil, apperr.NewResource(op.String()+" operands", total, limitBytes)
		}
		fill(buf, rng)
		bufs[i] = buf
	}

	b := &Bound[T]{Op: op, Shape: s, Flops: Flops(op, s), Bytes: total}
	if inPlace >= 0 {
		orig, err := allocate[T](lens[inPlace])
		if err != nil {
			return nil, apperr.NewResource(op.String()+" operands", total, limitBytes)
		}
		copy(orig, bufs[inPlace])
		b.dirty = [][]T{bufs[inPlace]}
		b.pristine = [][]T{orig}
	}

	m, n, kk := s.M, s.N, s.K

	switch op {
	case OpDot:
		x, y := bufs[0], bufs[1]
		b.run = func() error {
			r, err := k.Dot(n, x, 1, y, 1)
			b.sink = r
			return err
		}
	case OpAxpy:
		x, y := bufs[0], bufs[1]
		b.run = func() error { return k.Axpy(n, T(AxpyAlpha), x, 1, y, 1) }
	case OpScal:
		x := bufs[0]
		b.run = func() error { return k.Scal(n, T(ScalAlpha), x, 1) }
	case OpGemv:
		a, x, y := bufs[0], bufs[1], bufs[2]
		b.run = func() error {
			return k.Gemv(blas.RowMajor, blas.NoTrans, m, n, T(MatAlpha), a, n, x, 1, T(MatBeta), y, 1)
		}
	case OpGemm:
		a, bb, c := bufs[0], bufs[1], bufs[2]
		b.run = func() error {
			return k.Gemm(blas.RowMajor, blas.NoTrans, blas.NoTrans, m, n, kk, T(MatAlpha), a, kk, bb, n, T(MatBeta), c, n)
		}
	default:
		return nil, fmt.Errorf("bind %s: %w", op, ErrUnrecognizedOperation)
	}

	return b, nil
}

// updatedInPlace is the index of the operand op accumulates into, or -1.
// GEMV and GEMM run with beta = 0, so their outputs are overwritten rather
// than accumulated.
func updatedInPlace(op Op) int {
	switch op {
	case OpAxpy:
		return 1
	case OpScal:
		return 0
	default:
		return -1
	}
}

// operandLens returns the element count of each operand buffer.
func operandLens(op Op, s Shape) ([]int64, error) {
	m, n, k := int64(s.M), int64(s.N), int64(s.K)
	switch op {
	case OpDot, OpAxpy:
		return []int64{n, n}, nil
	case OpScal:
		return []int64{n}, nil
	case OpGemv:
		a, ok := mul(m, n)
		if !ok {
			return nil, apperr.NewResource("gemv operands", -1, 0)
		}
		return []int64{a, n, m}, nil
	case OpGemm:
		a, ok1 := mul(m, k)
		b, ok2 := mul(k, n)
		c, ok3 := mul(m, n)
		if !ok1 || !ok2 || !ok3 {
			return nil, apperr.NewResource("gemm operands", -1, 0)
		}
		return []int64{a, b, c}, nil
	default:
		return nil, fmt.Errorf("bind %s: %w", op, ErrUnrecognizedOperation)
	}
}

func mul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}

func allocate[T blas.Float](n int64) (buf []T, err error) {
	if n > int64(math.MaxInt) {
		return nil, fmt.Errorf("%d elements exceed addressable memory", n)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return make([]T, int(n)), nil
}

func fill[T blas.Float](buf []T, rng *rand.Rand) {
	for i := range buf {
		buf[i] = T(rng.Float64()*2 - 1)
	}
}
