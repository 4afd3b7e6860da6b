package cache

import (
	"errors"
	"math"
	"testing"

	"github.com/DjordjeVuckovic/blas-bench/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveSize(t *testing.T) {
	tests := []struct {
		name        string
		detected    int64
		want        int64
		wantClamped bool
	}{
		{name: "512 KiB is replaced", detected: 512 << 10, want: 16 << 20, wantClamped: true},
		{name: "zero is replaced", detected: 0, want: DefaultEvictionSize, wantClamped: true},
		{name: "just under floor", detected: MinEvictionSize - 1, want: DefaultEvictionSize, wantClamped: true},
		{name: "floor is kept", detected: MinEvictionSize, want: MinEvictionSize},
		{name: "typical desktop", detected: 32<<10 + 256<<10 + 8<<20, want: 32<<10 + 256<<10 + 8<<20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := EffectiveSize(tt.detected)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantClamped, clamped)
		})
	}
}

func TestBufferSize(t *testing.T) {
	assert.Equal(t, int64(4<<20), BufferSize(1<<20))
	assert.Equal(t, int64(-1), BufferSize(math.MaxInt64/2))
}

func TestBufferEvictor_TouchesWholeBuffer(t *testing.T) {
	e := NewBufferEvictor()

	require.NoError(t, e.Evict(1024))
	assert.Len(t, e.buf, 4096/8)
	assert.Zero(t, e.sum)

	// second pass reads the 1s written by the first
	require.NoError(t, e.Evict(1024))
	assert.Equal(t, float64(4096/8), e.sum)
}

func TestBufferEvictor_ReusesBuffer(t *testing.T) {
	e := NewBufferEvictor()
	require.NoError(t, e.Evict(2048))
	require.NoError(t, e.Evict(1024))
	assert.Len(t, e.buf, 8192/8)

	require.NoError(t, e.Evict(4096))
	assert.Len(t, e.buf, 16384/8)
}

func TestBufferEvictor_Errors(t *testing.T) {
	t.Run("non-positive target", func(t *testing.T) {
		assert.Error(t, NewBufferEvictor().Evict(0))
	})

	t.Run("over limit", func(t *testing.T) {
		e := NewBufferEvictor(WithMaxBytes(1 << 20))
		err := e.Evict(1 << 20)
		require.Error(t, err)

		var re *apperr.ResourceError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, int64(4<<20), re.Bytes)
		assert.Contains(t, err.Error(), "4194304")
	})

	t.Run("overflow", func(t *testing.T) {
		err := NewBufferEvictor().Evict(math.MaxInt64)
		var re *apperr.ResourceError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, int64(-1), re.Bytes)
	})
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Evict(1))
}
