package validation

import (
	"github.com/vpfeiffer/learning/internal/net"
)

// BenchmarkStats aggregates repeated cross-validation runs.
type BenchmarkStats struct {
	Runs []*Summary

	// MeanOfMeans and SDOfMeans aggregate each run's fold means.
	MeanOfMeans FoldStats
	SDOfMeans   FoldStats
}

// Benchmark repeats cross validation numRuns times and aggregates the
// per-run means, smoothing out the variance of individual splits.
func Benchmark(m Model, patterns []net.Pattern, folds, numRuns int, cfg Config, train TrainFunc) (*BenchmarkStats, error) {
	stats := &BenchmarkStats{Runs: make([]*Summary, 0, numRuns)}
	for i := 0; i < numRuns; i++ {
		summary, err := CrossValidate(m, patterns, folds, cfg, train)
		if err != nil {
			return nil, err
		}
		stats.Runs = append(stats.Runs, summary)
	}

	means := make([]FoldStats, len(stats.Runs))
	for i, run := range stats.Runs {
		means[i] = run.Mean
	}
	stats.MeanOfMeans, stats.SDOfMeans = aggregate(means)
	return stats, nil
}
