package es

import (
	"encoding/json"
	"time"

	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
)

// RunDocument is the run-level document; the full report rides along unindexed.
type RunDocument struct {
	ID          string          `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	Backend     string          `json:"backend"`
	Precision   string          `json:"precision"`
	CPUModel    string          `json:"cpu_model"`
	Threads     int             `json:"threads"`
	ResultCount int             `json:"result_count"`
	PeakGFLOPS  float64         `json:"peak_gflops"`
	Report      json.RawMessage `json:"report"`
}

// ResultDocument is one benchmark result, flattened for aggregations.
type ResultDocument struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Backend   string    `json:"backend"`
	CPUModel  string    `json:"cpu_model"`
	Level     int       `json:"level"`
	Name      string    `json:"name"`
	Config    string    `json:"config"`
	Threads   int       `json:"threads"`
	MinMs     float64   `json:"min_ms"`
	AvgMs     float64   `json:"avg_ms"`
	MaxMs     float64   `json:"max_ms"`
	GFLOPS    float64   `json:"gflops"`
	Flops     int64     `json:"flops"`
	Samples   int       `json:"samples"`
}

func toRunDocument(r *domain.BenchmarkReport) (RunDocument, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return RunDocument{}, err
	}
	s := r.Summary()
	return RunDocument{
		ID:          r.ID.String(),
		CreatedAt:   r.CreatedAt,
		Backend:     s.Backend,
		Precision:   s.Precision,
		CPUModel:    s.CPUModel,
		Threads:     s.Threads,
		ResultCount: s.ResultCount,
		PeakGFLOPS:  s.PeakGFLOPS,
		Report:      raw,
	}, nil
}

func toResultDocuments(r *domain.BenchmarkReport) []ResultDocument {
	results := r.Results()
	docs := make([]ResultDocument, len(results))
	for i, res := range results {
		docs[i] = ResultDocument{
			RunID:     r.ID.String(),
			CreatedAt: r.CreatedAt,
			Backend:   r.Backend,
			CPUModel:  r.System.CPUModel,
			Level:     res.Level,
			Name:      res.Name,
			Config:    res.Config,
			Threads:   res.Threads,
			MinMs:     res.MinMs,
			AvgMs:     res.AvgMs,
			MaxMs:     res.MaxMs,
			GFLOPS:    res.GFLOPS,
			Flops:     res.Flops,
			Samples:   res.Samples,
		}
	}
	return docs
}

func (d RunDocument) summary() (domain.RunSummary, error) {
	var s domain.RunSummary
	if err := s.ID.UnmarshalText([]byte(d.ID)); err != nil {
		return s, err
	}
	s.CreatedAt = d.CreatedAt
	s.Backend = d.Backend
	s.Precision = d.Precision
	s.CPUModel = d.CPUModel
	s.Threads = d.Threads
	s.ResultCount = d.ResultCount
	s.PeakGFLOPS = d.PeakGFLOPS
	return s, nil
}
