package main

import (
	"fmt"
	"os"

	"github.com/vpfeiffer/learning"
)

// Trains a small multi-layer perceptron on the XOR function, the classic
// problem a single-layer perceptron cannot solve.
func main() {
	fmt.Println("=== XOR Training Example ===")

	patterns := []learning.Pattern{
		{Input: []float64{0, 0}, Target: []float64{0}},
		{Input: []float64{0, 1}, Target: []float64{1}},
		{Input: []float64{1, 0}, Target: []float64{1}},
		{Input: []float64{1, 1}, Target: []float64{0}},
	}

	fmt.Println("Network architecture: 2-3-1")
	fmt.Println("Transfer function: tanh")
	fmt.Println("Learn rate 0.6, momentum 0.4")

	network, err := learning.MLP([]int{2, 3, 1}, 0.6, 0.4)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building network: %v\n", err)
		os.Exit(1)
	}

	final, err := network.Train(patterns, learning.TrainConfig{
		Iterations: 5000,
		ErrorBreak: 0.01,
		Epoch:      learning.LogEpochs(os.Stdout, 500),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "training: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nFinished after %d epochs, error %.6f, converged: %v\n\n",
		network.Iteration()+1, final, network.Converged())

	fmt.Println("Testing trained network:")
	if err := network.Test(os.Stdout, patterns); err != nil {
		fmt.Fprintf(os.Stderr, "testing: %v\n", err)
		os.Exit(1)
	}
}
