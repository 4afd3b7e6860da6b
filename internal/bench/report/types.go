package report

import (
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/blas-bench/internal/bench/kernel"
	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
)

type Format string

const (
	Markdown Format = "markdown"
	CSV      Format = "csv"
	JSON     Format = "json"
	Table    Format = "table"
)

var Formats = []Format{Markdown, CSV, JSON, Table}

// ParseFormat resolves a format name. Unknown names fall back to Markdown
// and report ok=false.
func ParseFormat(s string) (Format, bool) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case Markdown, CSV, JSON, Table:
		return f, true
	case "md":
		return Markdown, true
	default:
		return Markdown, false
	}
}

// LevelScore is the weighted mean throughput of one level.
type LevelScore struct {
	Level  int     `json:"level"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

type levelSection struct {
	level   kernel.Level
	results []domain.BenchmarkResult
}

func sections(r *domain.BenchmarkReport) []levelSection {
	return []levelSection{
		{level: kernel.Level1, results: r.Level1},
		{level: kernel.Level2, results: r.Level2},
		{level: kernel.Level3, results: r.Level3},
	}
}

func title(l kernel.Level) string {
	return fmt.Sprintf("%s (%s)", l, l.Kind())
}

const (
	kib = 1024
	mib = 1024 * 1024
	gib = 1024 * 1024 * 1024
)
