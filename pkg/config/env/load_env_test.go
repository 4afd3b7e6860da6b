package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BLAS_TEST_STORAGE=sqlite\n"), 0o644))

	t.Setenv("ENV_PATH", path)
	t.Setenv("BLAS_TEST_STORAGE", "")
	require.NoError(t, os.Unsetenv("BLAS_TEST_STORAGE"))

	require.NoError(t, LoadDotEnv("local", "unused.env"))
	assert.Equal(t, "sqlite", os.Getenv("BLAS_TEST_STORAGE"))
}

func TestLoadDotEnv_Missing(t *testing.T) {
	t.Setenv("ENV_PATH", "")
	missing := filepath.Join(t.TempDir(), "missing.env")

	assert.Error(t, LoadDotEnv("local", missing))
	assert.NoError(t, LoadDotEnv("production", missing))
}

func TestGetOr(t *testing.T) {
	t.Setenv("BLAS_TEST_PORT", "")
	assert.Equal(t, "8080", GetOr("BLAS_TEST_PORT", "8080"))

	t.Setenv("BLAS_TEST_PORT", "9000")
	assert.Equal(t, "9000", GetOr("BLAS_TEST_PORT", "8080"))
}
