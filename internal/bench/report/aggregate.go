package report

import (
	"github.com/DjordjeVuckovic/blas-bench/internal/domain"
	"github.com/DjordjeVuckovic/blas-bench/pkg/utils"
)

const ScoreDecimalPlaces = 4

// WeightedScore is Σ weight×GFLOPS / Σ weight over results. Results with
// zero weight do not count. It returns ok=false when no weight remains.
func WeightedScore(results []domain.BenchmarkResult, weight func(name string) float64) (score, total float64, ok bool) {
	var sum float64
	for _, res := range results {
		w := weight(res.Name)
		if w <= 0 {
			continue
		}
		sum += w * res.GFLOPS
		total += w
	}
	if total == 0 {
		return 0, 0, false
	}
	return sum / total, total, true
}

// Scores returns the weighted score of every level that has results.
func Scores(r *domain.BenchmarkReport) []LevelScore {
	var out []LevelScore
	for _, sec := range sections(r) {
		level := sec.level
		score, total, ok := WeightedScore(sec.results, func(name string) float64 {
			return r.Config.WeightFor(level, name)
		})
		if !ok {
			continue
		}
		out = append(out, LevelScore{
			Level:  int(level),
			Score:  utils.RoundDecimal(score, ScoreDecimalPlaces),
			Weight: total,
			Count:  len(sec.results),
		})
	}
	return out
}
