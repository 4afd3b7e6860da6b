package es

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.BenchmarkReport {
	return &domain.BenchmarkReport{
		ID:        uuid.New(),
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Backend:   "gonum",
		Precision: "double",
		System:    domain.SystemInfo{CPUModel: "Test CPU"},
		Config:    domain.BenchmarkConfig{Threads: 2},
		Level1:    []domain.BenchmarkResult{{Name: "ddot", Config: "N=100", Threads: 2, GFLOPS: 1.5}},
		Level2:    []domain.BenchmarkResult{{Name: "dgemv", Config: "M=8,N=8", Threads: 2, GFLOPS: 4}},
	}
}

func TestToRunDocument(t *testing.T) {
	r := sampleReport()

	doc, err := toRunDocument(r)
	require.NoError(t, err)
	assert.Equal(t, r.ID.String(), doc.ID)
	assert.Equal(t, 2, doc.ResultCount)
	assert.Equal(t, 4.0, doc.PeakGFLOPS)
	assert.Equal(t, "Test CPU", doc.CPUModel)

	var back domain.BenchmarkReport
	require.NoError(t, json.Unmarshal(doc.Report, &back))
	assert.Equal(t, r.ID, back.ID)
	assert.Equal(t, r.Level2, back.Level2)

	s, err := doc.summary()
	require.NoError(t, err)
	assert.Equal(t, r.Summary(), s)
}

func TestToResultDocuments(t *testing.T) {
	r := sampleReport()

	docs := toResultDocuments(r)
	require.Len(t, docs, 2)
	assert.Equal(t, 1, docs[0].Level)
	assert.Equal(t, "ddot", docs[0].Name)
	assert.Equal(t, 2, docs[1].Level)
	assert.Equal(t, "M=8,N=8", docs[1].Config)
	assert.Equal(t, r.ID.String(), docs[1].RunID)
}

func TestClientConfig_ResultsIndex(t *testing.T) {
	assert.Equal(t, "blas-runs-results", ClientConfig{IndexName: "blas-runs"}.ResultsIndex())
}
