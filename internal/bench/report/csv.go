package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
)

var csvHeader = []string{"Level", "Function", "Config", "Threads", "Min(ms)", "Avg(ms)", "Max(ms)", "GFLOPS"}

// WriteCSV writes one row per result. Shape descriptors containing commas
// are quoted.
func WriteCSV(r *domain.BenchmarkReport, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, res := range r.Results() {
		row := []string{
			strconv.Itoa(res.Level),
			res.Name,
			res.Config,
			strconv.Itoa(res.Threads),
			strconv.FormatFloat(res.MinMs, 'f', 3, 64),
			strconv.FormatFloat(res.AvgMs, 'f', 3, 64),
			strconv.FormatFloat(res.MaxMs, 'f', 3, 64),
			strconv.FormatFloat(res.GFLOPS, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
