package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
)

// JSONReport is the JSON shape of a report: the report itself plus its
// weighted level scores.
type JSONReport struct {
	*domain.BenchmarkReport
	Scores []LevelScore `json:"scores,omitempty"`
}

func NewJSONReport(r *domain.BenchmarkReport) JSONReport {
	return JSONReport{BenchmarkReport: r, Scores: Scores(r)}
}

func WriteJSON(r *domain.BenchmarkReport, w io.Writer) error {
	data, err := json.MarshalIndent(NewJSONReport(r), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
