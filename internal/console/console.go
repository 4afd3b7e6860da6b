// Package console prints the configuration and system banners shown around
// a benchmark run.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/DjordjeVuckovic/blas-bench/internal/bench/kernel"
	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Width(14)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type row struct {
	label string
	value string
}

func render(w io.Writer, title string, rows []row) {
	var sb strings.Builder
	sb.WriteString("\n" + titleStyle.Render("=== "+title+" ===") + "\n")
	for _, r := range rows {
		sb.WriteString(labelStyle.Render(r.label+":") + valueStyle.Render(r.value) + "\n")
	}
	sb.WriteString("\n")
	fmt.Fprint(w, sb.String())
}

// PrintConfig shows the execution parameters and level sizes of a run.
func PrintConfig(w io.Writer, cfg domain.BenchmarkConfig) {
	rows := []row{
		{"Backend", cfg.Backend},
		{"Precision", string(cfg.Precision)},
		{"Threads", fmt.Sprint(cfg.Threads)},
		{"Warmup", fmt.Sprint(cfg.Warmup)},
		{"Cycles", fmt.Sprint(cfg.Cycles)},
		{"Flush cache", yesNo(cfg.FlushCache)},
	}

	if n, ok := cfg.Level1.Runnable(); ok {
		rows = append(rows, row{"Level 1", fmt.Sprintf("N=%d (%s)", n, opNames(cfg.Level1.Ops))})
	}
	if s, ok := cfg.Level2.Runnable(); ok {
		rows = append(rows, row{"Level 2", fmt.Sprintf("M=%d,N=%d (%s)", s.M, s.N, opNames(cfg.Level2.Ops))})
	}
	if s, ok := cfg.Level3.Runnable(); ok {
		rows = append(rows, row{"Level 3", fmt.Sprintf("M=%d,N=%d,K=%d (%s)", s.M, s.N, s.K, opNames(cfg.Level3.Ops))})
	}

	render(w, "Benchmark Configuration", rows)
}

// PrintSystemInfo shows the host snapshot.
func PrintSystemInfo(w io.Writer, info domain.SystemInfo) {
	rows := []row{
		{"CPU", info.CPUModel},
		{"Cores", fmt.Sprintf("%d physical, %d logical", info.PhysicalCores, info.LogicalCores)},
		{"Frequency", fmt.Sprintf("%.0f MHz", info.FreqMHz)},
		{"L1 Cache", fmt.Sprintf("%d KB", info.L1Cache/1024)},
		{"L2 Cache", fmt.Sprintf("%d KB", info.L2Cache/1024)},
		{"L3 Cache", fmt.Sprintf("%d MB", info.L3Cache/(1024*1024))},
		{"Memory", fmt.Sprintf("%.1f GB", float64(info.TotalMemory)/(1024*1024*1024))},
		{"OS", info.OSName},
		{"Arch", info.Arch},
	}
	if len(info.Features) > 0 {
		rows = append(rows, row{"Features", strings.Join(info.Features, " ")})
	}
	render(w, "System Information", rows)
}

// PrintEviction notes a clamped eviction size next to the banners.
func PrintEviction(w io.Writer, ev domain.Eviction) {
	if !ev.Enabled || !ev.Clamped {
		return
	}
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf(
		"Detected cache size %d KB is below 1 MB, evicting with %d MB instead",
		ev.Detected/1024, ev.Effective/(1024*1024))))
}

func opNames(ops []kernel.Selection) string {
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
	}
	return strings.Join(names, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
