// Package validation evaluates trained models with k-fold cross validation
// and repeated-run benchmarks.
package validation

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/vpfeiffer/learning/internal/net"
)

// Model is the caller-facing surface the harness consumes. Training itself
// is supplied as a TrainFunc so each model keeps its own configuration.
type Model interface {
	Reset()
	Activate(input []float64) ([]float64, error)
	AvgError(patterns []net.Pattern) (float64, error)
	Iteration() int
}

// TrainFunc trains a model on the given patterns and returns its final error.
type TrainFunc func(m Model, patterns []net.Pattern) (float64, error)

// FoldStats are the statistics collected for one cross-validation fold.
type FoldStats struct {
	Time          time.Duration
	Epochs        int
	TrainingError float64
	TestingError  float64

	// Classification stats, populated when Classification is set.
	Accuracy  float64
	Confusion *mat.Dense
}

// Summary aggregates fold statistics with their mean and population
// standard deviation.
type Summary struct {
	Folds []FoldStats
	Mean  FoldStats
	SD    FoldStats
}

// TrainTestSet is one fold's training patterns and held-out test patterns.
type TrainTestSet struct {
	Train []net.Pattern
	Test  []net.Pattern
}

// Config controls a cross-validation run.
type Config struct {
	// Classification collects accuracy and a confusion matrix per fold,
	// reading the class of each sample as its highest output component.
	Classification bool
}

// SplitDataset splits patterns into k disjoint subsets whose union is the
// whole set. The last subset takes the remainder when the split is uneven.
func SplitDataset(patterns []net.Pattern, k int) [][]net.Pattern {
	sets := make([][]net.Pattern, 0, k)
	setSize := len(patterns) / k

	start := 0
	for i := 0; i < k; i++ {
		if i == k-1 {
			sets = append(sets, patterns[start:])
		} else {
			sets = append(sets, patterns[start:start+setSize])
		}
		start += setSize
	}
	return sets
}

// TrainTestSets pairs each subset as a test set with the union of all
// others as its training set.
func TrainTestSets(sets [][]net.Pattern) []TrainTestSet {
	folds := make([]TrainTestSet, len(sets))
	for i := range sets {
		fold := TrainTestSet{Test: sets[i]}
		for j := range sets {
			if i != j {
				fold.Train = append(fold.Train, sets[j]...)
			}
		}
		folds[i] = fold
	}
	return folds
}

// CrossValidate splits the patterns into folds, then trains and tests the
// model on each fold. The model is reset before every fold.
func CrossValidate(m Model, patterns []net.Pattern, folds int, cfg Config, train TrainFunc) (*Summary, error) {
	if folds < 2 {
		return nil, fmt.Errorf("validation: need at least 2 folds, got %d", folds)
	}

	sets := TrainTestSets(SplitDataset(patterns, folds))

	summary := &Summary{Folds: make([]FoldStats, 0, folds)}
	for _, fold := range sets {
		stats, err := validateFold(m, fold, cfg, train)
		if err != nil {
			return nil, err
		}
		summary.Folds = append(summary.Folds, stats)
	}

	summary.Mean, summary.SD = aggregate(summary.Folds)
	return summary, nil
}

func validateFold(m Model, fold TrainTestSet, cfg Config, train TrainFunc) (FoldStats, error) {
	m.Reset()

	start := time.Now()
	if _, err := train(m, fold.Train); err != nil {
		return FoldStats{}, err
	}

	stats := FoldStats{
		Time:   time.Since(start),
		Epochs: m.Iteration(),
	}

	var err error
	if stats.TrainingError, err = m.AvgError(fold.Train); err != nil {
		return FoldStats{}, err
	}
	if stats.TestingError, err = m.AvgError(fold.Test); err != nil {
		return FoldStats{}, err
	}

	if cfg.Classification {
		actual := make([]int, len(fold.Test))
		expected := make([]int, len(fold.Test))
		for i, p := range fold.Test {
			output, err := m.Activate(p.Input)
			if err != nil {
				return FoldStats{}, err
			}
			actual[i] = argmax(output)
			expected[i] = argmax(p.Target)
		}

		numClasses := len(fold.Test[0].Target)
		stats.Accuracy = Accuracy(actual, expected)
		stats.Confusion = ConfusionMatrix(actual, expected, numClasses)
	}

	return stats, nil
}

// aggregate returns the elementwise mean and population standard deviation
// of the numeric fold statistics.
func aggregate(folds []FoldStats) (mean, sd FoldStats) {
	times := make([]float64, len(folds))
	epochs := make([]float64, len(folds))
	trainErrs := make([]float64, len(folds))
	testErrs := make([]float64, len(folds))
	accuracies := make([]float64, len(folds))
	for i, f := range folds {
		times[i] = float64(f.Time)
		epochs[i] = float64(f.Epochs)
		trainErrs[i] = f.TrainingError
		testErrs[i] = f.TestingError
		accuracies[i] = f.Accuracy
	}

	mean = FoldStats{
		Time:          time.Duration(stat.Mean(times, nil)),
		Epochs:        int(stat.Mean(epochs, nil)),
		TrainingError: stat.Mean(trainErrs, nil),
		TestingError:  stat.Mean(testErrs, nil),
		Accuracy:      stat.Mean(accuracies, nil),
	}
	sd = FoldStats{
		Time:          time.Duration(stat.PopStdDev(times, nil)),
		Epochs:        int(stat.PopStdDev(epochs, nil)),
		TrainingError: stat.PopStdDev(trainErrs, nil),
		TestingError:  stat.PopStdDev(testErrs, nil),
		Accuracy:      stat.PopStdDev(accuracies, nil),
	}
	return mean, sd
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

// Accuracy returns the fraction of matching class indices.
func Accuracy(actual, expected []int) float64 {
	var matches int
	for i := range actual {
		if actual[i] == expected[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(actual))
}

// ConfusionMatrix counts classifications with expected classes in rows and
// actual classes in columns.
func ConfusionMatrix(actual, expected []int, numClasses int) *mat.Dense {
	confusion := mat.NewDense(numClasses, numClasses, nil)
	for i := range actual {
		confusion.Set(expected[i], actual[i], confusion.At(expected[i], actual[i])+1)
	}
	return confusion
}
