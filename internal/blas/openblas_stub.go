//go:build !openblas || !cgo

package blas

import "fmt"

// OpenBLASBackend is only functional when built with -tags openblas and cgo.
type OpenBLASBackend struct{}

func NewOpenBLAS(threads int) (*OpenBLASBackend, error) {
	return nil, fmt.Errorf("%w: rebuild with -tags openblas (install libopenblas-dev)", ErrBackendUnavailable)
}

func (b *OpenBLASBackend) Name() string              { return string(OpenBLAS) }
func (b *OpenBLASBackend) Threads() int              { return 0 }
func (b *OpenBLASBackend) Float64() Kernels[float64] { return nil }
func (b *OpenBLASBackend) Float32() Kernels[float32] { return nil }
func (b *OpenBLASBackend) Close() error              { return nil }
