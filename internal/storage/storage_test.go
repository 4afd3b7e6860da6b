package storage

import (
	"testing"

	"github.com/DjordjeVuckovic/blas-bench/internal/apperr"
	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-1, DefaultListLimit},
		{0, DefaultListLimit},
		{5, 5},
		{MaxListLimit + 1, MaxListLimit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampLimit(tt.in))
	}
}

func TestNotFound(t *testing.T) {
	id := uuid.New()
	err := NotFound(id)

	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Contains(t, err.Error(), id.String())
}

func TestPrepare(t *testing.T) {
	r := &domain.BenchmarkReport{}
	Prepare(r)
	assert.NotEqual(t, uuid.Nil, r.ID)

	id := r.ID
	Prepare(r)
	assert.Equal(t, id, r.ID)
}
