package validation

import (
	"testing"

	"github.com/vpfeiffer/learning/internal/net"
)

// TestBenchmark tests that runs repeat and their means aggregate.
func TestBenchmark(t *testing.T) {
	m := identityStub()

	stats, err := Benchmark(m, numberedPatterns(6), 3, 4, Config{},
		func(Model, []net.Pattern) (float64, error) { return 0, nil })
	if err != nil {
		t.Fatalf("Benchmark: %v", err)
	}

	if len(stats.Runs) != 4 {
		t.Errorf("got %d runs, want 4", len(stats.Runs))
	}
	if m.resets != 4*3 {
		t.Errorf("model reset %d times, want %d", m.resets, 4*3)
	}
	if stats.MeanOfMeans.Epochs != 7 || stats.SDOfMeans.Epochs != 0 {
		t.Errorf("epoch mean of means = %d, sd = %d, want 7, 0",
			stats.MeanOfMeans.Epochs, stats.SDOfMeans.Epochs)
	}
	if stats.MeanOfMeans.TrainingError != 0 {
		t.Errorf("training error mean of means = %v, want 0",
			stats.MeanOfMeans.TrainingError)
	}
}
