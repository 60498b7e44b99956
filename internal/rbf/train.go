package rbf

import (
	"gonum.org/v1/gonum/mat"

	"github.com/vpfeiffer/learning/internal/net"
)

// TrainConfig controls an RBF training run. The zero value trains for 1000
// iterations with an error break of 0.02, visiting patterns iteratively,
// with no retries.
type TrainConfig struct {
	Iterations int
	ErrorBreak float64

	// Retries resets and retrains the model this many extra times if it
	// fails to reach the error break.
	Retries int

	Select net.Selector
	Epoch  net.EpochFunc
}

func (c *TrainConfig) defaults() {
	if c.Iterations == 0 {
		c.Iterations = 1000
	}
	if c.ErrorBreak == 0 {
		c.ErrorBreak = 0.02
	}
	if c.Select == nil {
		c.Select = net.SelectIterative
	}
}

// Train adjusts the model on a set of patterns. When pre-training is
// enabled the clusterer is first trained alone to convergence; afterwards
// every epoch trains the output stage and the clusterer concurrently on the
// same batch.
func (m *RBF) Train(patterns []net.Pattern, cfg TrainConfig) (float64, error) {
	cfg.defaults()

	if m.preTrainClusters {
		inputs, targets := Matrices(patterns)
		if err := m.clusterer.Train(inputs, targets, cfg.Iterations, cfg.ErrorBreak); err != nil {
			return 0, err
		}
	}

	var meanError float64
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			m.Reset()
		}
		m.iteration = 0
		m.converged = false

		for m.iteration = 0; m.iteration < cfg.Iterations; m.iteration++ {
			inputs, targets := Matrices(cfg.Select(patterns))

			value, err := m.TrainStep(inputs, targets)
			if err != nil {
				return 0, err
			}
			meanError = value

			if cfg.Epoch != nil {
				cfg.Epoch(m.iteration, meanError)
			}
			if meanError < cfg.ErrorBreak {
				m.converged = true
				return meanError, nil
			}
		}

		if attempt >= cfg.Retries {
			return meanError, nil
		}
	}
}

// Error returns the mean squared error for one pattern.
func (m *RBF) Error(p net.Pattern) (float64, error) {
	output, err := m.Activate(p.Input)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := range output {
		d := output[i] - p.Target[i]
		sum += d * d
	}
	return sum / float64(len(output)), nil
}

// AvgError returns the mean squared error averaged over a set of patterns.
func (m *RBF) AvgError(patterns []net.Pattern) (float64, error) {
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

// Matrices stacks patterns into input and target matrices, one sample per row.
func Matrices(patterns []net.Pattern) (inputs, targets *mat.Dense) {
	inputs = mat.NewDense(len(patterns), len(patterns[0].Input), nil)
	targets = mat.NewDense(len(patterns), len(patterns[0].Target), nil)
	for i, p := range patterns {
		inputs.SetRow(i, p.Input)
		targets.SetRow(i, p.Target)
	}
	return inputs, targets
}
