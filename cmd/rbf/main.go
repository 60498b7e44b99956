package main

import (
	"fmt"
	"math"
	"os"

	"github.com/vpfeiffer/learning"
)

// Fits a radial-basis-function model to one period of a sine wave. The
// self-organizing map spreads its cluster centers over the input range and
// the linear output stage learns the local amplitudes.
func main() {
	fmt.Println("=== RBF Sine Example ===")

	const samples = 40
	patterns := make([]learning.Pattern, samples)
	for i := range patterns {
		x := 2 * math.Pi * float64(i) / float64(samples-1)
		patterns[i] = learning.Pattern{
			Input:  []float64{x/math.Pi - 1},
			Target: []float64{math.Sin(x)},
		}
	}

	fmt.Println("Clusters: 10, pre-trained self-organizing map")

	model := learning.NewRBF(1, 10, 1, learning.RBFConfig{
		LearnRate:        0.2,
		PreTrainClusters: true,
	})

	final, err := model.Train(patterns, learning.RBFTrainConfig{
		Iterations: 1000,
		ErrorBreak: 0.005,
		Epoch:      learning.LogEpochs(os.Stdout, 100),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "training: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nFinished after %d epochs, error %.6f, converged: %v\n\n",
		model.Iteration()+1, final, model.Converged())

	fmt.Println("Testing trained model:")
	for i := 0; i < samples; i += 8 {
		p := patterns[i]
		out, err := model.Activate(p.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "activating: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Input: %+.3f, Predicted: %+.4f, Target: %+.4f\n",
			p.Input[0], out[0], p.Target[0])
	}

	fmt.Println("\nCross-validating with 4 folds:")
	summary, err := learning.CrossValidate(model, patterns, 4, false,
		func(m learning.ValidationModel, train []learning.Pattern) (float64, error) {
			return m.(*learning.RBF).Train(train, learning.RBFTrainConfig{
				Iterations: 500,
				ErrorBreak: 0.005,
			})
		})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cross validation: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Mean testing error %.6f (sd %.6f) over %d folds\n",
		summary.Mean.TestingError, summary.SD.TestingError, len(summary.Folds))
}
