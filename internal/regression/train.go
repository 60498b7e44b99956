package regression

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/vpfeiffer/learning/internal/net"
)

// RowSelector picks the sample rows visited during one epoch.
type RowSelector func(numRows int) []int

// AllRows visits every sample in its original order.
func AllRows(numRows int) []int {
	idx := make([]int, numRows)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// SampleRows visits size samples drawn without replacement each epoch.
// A nil rng falls back to the package-global source; tests pass a seeded
// one for determinism.
func SampleRows(rng *rand.Rand, size int) RowSelector {
	return func(numRows int) []int {
		idx := perm(rng, numRows)
		if size <= 0 || size > numRows {
			return idx
		}
		return idx[:size]
	}
}

// RandomRows visits size samples drawn with replacement each epoch.
// A nil rng falls back to the package-global source.
func RandomRows(rng *rand.Rand, size int) RowSelector {
	return func(numRows int) []int {
		if size <= 0 {
			size = numRows
		}
		idx := make([]int, size)
		for i := range idx {
			idx[i] = intn(rng, numRows)
		}
		return idx
	}
}

func perm(rng *rand.Rand, n int) []int {
	if rng != nil {
		return rng.Perm(n)
	}
	return rand.Perm(n)
}

func intn(rng *rand.Rand, n int) int {
	if rng != nil {
		return rng.Intn(n)
	}
	return rand.Intn(n)
}

// EpochFunc observes training progress once per epoch.
type EpochFunc func(iteration int, meanError float64)

// TrainConfig controls a training run. The zero value trains for 1000
// iterations with an error break of 0.02, visiting all samples each epoch,
// with no retries.
type TrainConfig struct {
	Iterations int
	ErrorBreak float64

	// Retries resets and retrains the model this many extra times if it
	// fails to converge. Non-convergence itself is a normal outcome.
	Retries int

	Select RowSelector
	Epoch  EpochFunc
}

func (c *TrainConfig) defaults() {
	if c.Iterations == 0 {
		c.Iterations = 1000
	}
	if c.ErrorBreak == 0 {
		c.ErrorBreak = 0.02
	}
	if c.Select == nil {
		c.Select = AllRows
	}
}

// Train runs training epochs until the objective drops below the error
// break, the jacobian norm reports convergence, or the iteration budget is
// exhausted; non-converged runs are retried with re-randomized weights up to
// Retries times. The optimizer's internal state is reset afterwards, since
// the objective surface may differ on the next call.
func (m *Model) Train(inputs, targets *mat.Dense, cfg TrainConfig) (float64, error) {
	cfg.defaults()
	defer m.optimizer.Reset()

	numRows, _ := inputs.Dims()

	var meanError float64
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			m.Reset()
		}
		m.iteration = 0
		m.converged = false

		for m.iteration = 0; m.iteration < cfg.Iterations; m.iteration++ {
			idx := cfg.Select(numRows)
			batchIn, batchTarget := pickRows(inputs, idx), pickRows(targets, idx)

			value, err := m.TrainStep(batchIn, batchTarget)
			if err != nil {
				return 0, err
			}
			meanError = value

			if cfg.Epoch != nil {
				cfg.Epoch(m.iteration, meanError)
			}
			if meanError < cfg.ErrorBreak || m.converged {
				return meanError, nil
			}
		}

		if attempt >= cfg.Retries {
			return meanError, nil
		}
	}
}

// Error returns the mean squared error for one pattern.
func (m *Model) Error(p net.Pattern) (float64, error) {
	output, err := m.Activate(p.Input)
	if err != nil {
		return 0, err
	}
	if len(p.Target) != len(output) {
		return 0, fmt.Errorf("regression: wrong number of targets: expected %d, got %d",
			len(output), len(p.Target))
	}

	var sum float64
	for i := range output {
		d := output[i] - p.Target[i]
		sum += d * d
	}
	return sum / float64(len(output)), nil
}

// AvgError returns the mean squared error averaged over a set of patterns.
func (m *Model) AvgError(patterns []net.Pattern) (float64, error) {
	var sum float64
	for _, p := range patterns {
		e, err := m.Error(p)
		if err != nil {
			return 0, err
		}
		sum += e
	}
	return sum / float64(len(patterns)), nil
}

// pickRows builds a batch matrix from the selected rows of m.
func pickRows(m *mat.Dense, idx []int) *mat.Dense {
	_, cols := m.Dims()
	out := mat.NewDense(len(idx), cols, nil)
	for i, row := range idx {
		out.SetRow(i, mat.Row(nil, row, m))
	}
	return out
}
