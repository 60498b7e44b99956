package net

import (
	"fmt"
	"io"
	"math/rand"
)

// Selector picks the patterns visited during one epoch. Selectors may
// reorder, resample, or subset the training patterns.
type Selector func(patterns []Pattern) []Pattern

// SelectIterative visits every pattern in its original order.
func SelectIterative(patterns []Pattern) []Pattern {
	return patterns
}

// SelectSample visits size patterns drawn without replacement each epoch.
// A size of 0 draws a full shuffled pass. A nil rng falls back to the
// package-global source; tests pass a seeded one for determinism.
func SelectSample(rng *rand.Rand, size int) Selector {
	return func(patterns []Pattern) []Pattern {
		if size <= 0 || size > len(patterns) {
			size = len(patterns)
		}
		selected := make([]Pattern, size)
		for i, j := range perm(rng, len(patterns))[:size] {
			selected[i] = patterns[j]
		}
		return selected
	}
}

// SelectRandom visits size patterns drawn with replacement each epoch.
// A size of 0 draws as many patterns as the set holds. A nil rng falls back
// to the package-global source.
func SelectRandom(rng *rand.Rand, size int) Selector {
	return func(patterns []Pattern) []Pattern {
		if size <= 0 {
			size = len(patterns)
		}
		selected := make([]Pattern, size)
		for i := range selected {
			selected[i] = patterns[intn(rng, len(patterns))]
		}
		return selected
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

// EpochFunc observes training progress. It is invoked once per epoch with
// the epoch index and the epoch's mean squared error.
type EpochFunc func(iteration int, meanError float64)

// LogEpochs returns an EpochFunc that writes progress every interval epochs.
func LogEpochs(w io.Writer, interval int) EpochFunc {
	return func(iteration int, meanError float64) {
		if interval > 0 && iteration%interval == 0 {
			fmt.Fprintf(w, "Iteration %d, Error: %g\n", iteration, meanError)
		}
	}
}

// TrainConfig controls a training run. The zero value trains for 1000
// iterations with an error break of 0.02, visiting patterns iteratively.
type TrainConfig struct {
	// Iterations caps the number of epochs.
	Iterations int

	// ErrorBreak ends training once the epoch's mean error drops below it.
	ErrorBreak float64

	// Retries resets and retrains the network this many extra times if it
	// fails to reach the error break. Non-convergence itself is a normal
	// outcome.
	Retries int

	// Select picks each epoch's patterns. Defaults to SelectIterative.
	Select Selector

	// Epoch, when set, observes every epoch's (iteration, error).
	Epoch EpochFunc

	// NoReset keeps current layer weights instead of reinitializing them
	// at the start of training.
	NoReset bool
}

func (c *TrainConfig) defaults() {
	if c.Iterations == 0 {
		c.Iterations = 1000
	}
	if c.ErrorBreak == 0 {
		c.ErrorBreak = 0.02
	}
	if c.Select == nil {
		c.Select = SelectIterative
	}
}

// Train adjusts the network until the epoch error drops below the break
// value or the iteration budget runs out, and returns the final epoch's
// mean error. Runs that exhaust the budget are retried with reinitialized
// weights up to Retries times. Exhausting the budget is a normal outcome,
// not an error; whether the break was reached is reported by Converged.
func (n *Network) Train(patterns []Pattern, cfg TrainConfig) (float64, error) {
	cfg.defaults()

	var meanError float64
	for attempt := 0; ; attempt++ {
		n.iteration = 0
		n.converged = false
		if !cfg.NoReset || attempt > 0 {
			n.Reset()
		}

		for n.iteration = 0; n.iteration < cfg.Iterations; n.iteration++ {
			selected := cfg.Select(patterns)

			meanError = 0
			for _, p := range selected {
				errs, err := n.Update(p.Input, p.Target)
				if err != nil {
					return 0, err
				}

				var sum float64
				for _, e := range errs {
					sum += e * e
				}
				meanError += sum / float64(len(errs))
			}
			meanError /= float64(len(selected))

			if cfg.Epoch != nil {
				cfg.Epoch(n.iteration, meanError)
			}

			if meanError < cfg.ErrorBreak {
				n.converged = true
				return meanError, nil
			}
		}

		if attempt >= cfg.Retries {
			return meanError, nil
		}
	}
}
