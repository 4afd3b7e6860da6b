package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
)

func WriteTable(r *domain.BenchmarkReport, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== BLAS Benchmark (%s, %s precision) ===\n", r.Backend, r.Precision)

	for _, sec := range sections(r) {
		if len(sec.results) == 0 {
			continue
		}
		fmt.Fprintf(tw, "\n--- %s ---\n\n", title(sec.level))
		writeResultTable(tw, sec.results)
	}

	if scores := Scores(r); len(scores) > 0 {
		fmt.Fprintf(tw, "Weighted Scores\n\n")
		header := []string{"Level", "Results", "Weight", "GFLOPS"}
		fmt.Fprintln(tw, strings.Join(header, "\t"))
		fmt.Fprintln(tw, separator(len(header)))
		for _, s := range scores {
			fmt.Fprintf(tw, "%d\t%d\t%.2f\t%.2f\n", s.Level, s.Count, s.Weight, s.Score)
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}

func writeResultTable(tw *tabwriter.Writer, results []domain.BenchmarkResult) {
	header := []string{"Function", "Config", "Threads", "Min(ms)", "Avg(ms)", "Max(ms)", "GFLOPS", "Samples"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, separator(len(header)))

	for _, res := range results {
		row := []string{
			res.Name,
			res.Config,
			fmt.Sprintf("%d", res.Threads),
			fmt.Sprintf("%.3f", res.MinMs),
			fmt.Sprintf("%.3f", res.AvgMs),
			fmt.Sprintf("%.3f", res.MaxMs),
			fmt.Sprintf("%.2f", res.GFLOPS),
			fmt.Sprintf("%d", res.Samples),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func separator(n int) string {
	sep := make([]string, n)
	for i := range sep {
		sep[i] = "---"
	}
	return strings.Join(sep, "\t")
}
