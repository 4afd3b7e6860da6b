package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
)

func WriteMarkdown(r *domain.BenchmarkReport, w io.Writer) error {
	bw := bufio.NewWriter(w)
	sys := r.System

	fmt.Fprintf(bw, "# BLAS Benchmark Results\n\n")
	fmt.Fprintf(bw, "## System Information\n")
	fmt.Fprintf(bw, "- **CPU**: %s\n", sys.CPUModel)
	fmt.Fprintf(bw, "- **Cores**: %d physical, %d logical\n", sys.PhysicalCores, sys.LogicalCores)
	fmt.Fprintf(bw, "- **Cache**: L1=%d KB, L2=%d KB, L3=%d MB\n", sys.L1Cache/kib, sys.L2Cache/kib, sys.L3Cache/mib)
	fmt.Fprintf(bw, "- **Memory**: %.1f GB\n", float64(sys.TotalMemory)/gib)
	fmt.Fprintf(bw, "- **Threads**: %d\n\n", r.Config.Threads)

	for _, sec := range sections(r) {
		if len(sec.results) == 0 {
			continue
		}
		fmt.Fprintf(bw, "### %s\n\n", title(sec.level))
		fmt.Fprintf(bw, "| Function | Config | Threads | Min(ms) | Avg(ms) | Max(ms) | GFLOPS |\n")
		fmt.Fprintf(bw, "|:---------|:-------|:--------|:--------|:--------|:--------|:-------|\n")
		for _, res := range sec.results {
			fmt.Fprintf(bw, "| %s | %s | %d | %.3f | %.3f | %.3f | %.2f |\n",
				res.Name, res.Config, res.Threads, res.MinMs, res.AvgMs, res.MaxMs, res.GFLOPS)
		}
		fmt.Fprintf(bw, "\n")
	}

	if scores := Scores(r); len(scores) > 0 {
		fmt.Fprintf(bw, "### Weighted Scores\n\n")
		fmt.Fprintf(bw, "| Level | Results | Weight | GFLOPS |\n")
		fmt.Fprintf(bw, "|:------|:--------|:-------|:-------|\n")
		for _, s := range scores {
			fmt.Fprintf(bw, "| %d | %d | %.2f | %.2f |\n", s.Level, s.Count, s.Weight, s.Score)
		}
		fmt.Fprintf(bw, "\n")
	}

	return bw.Flush()
}
