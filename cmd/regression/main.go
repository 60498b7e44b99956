package main

import (
	"fmt"
	"math/rand"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/vpfeiffer/learning"
)

// Fits a linear and a logistic regression model by gradient descent, with a
// ridge penalty on the linear fit.
func main() {
	fmt.Println("=== Regression Examples ===")

	fmt.Println("Example 1: Linear function y = 2x + 1 with a ridge penalty")
	exampleLinear()

	fmt.Println("\nExample 2: Logistic classification of a threshold")
	exampleLogistic()
}

func exampleLinear() {
	const samples = 50
	inputs := mat.NewDense(samples, 1, nil)
	targets := mat.NewDense(samples, 1, nil)
	for i := 0; i < samples; i++ {
		x := rand.Float64()
		inputs.Set(i, 0, x)
		targets.Set(i, 0, 2*x+1+0.05*(rand.Float64()-0.5))
	}

	model := learning.LinearRegression(1, 1, learning.RegressionConfig{
		Optimizer:   learning.SteepestDescent(0.5),
		ErrorFunc:   learning.MSE(),
		Penalty:     learning.L2(0.001),
		ExcludeBias: true,
	})

	final, err := model.Train(inputs, targets, learning.RegressionTrainConfig{
		Iterations: 2000,
		ErrorBreak: 1e-4,
		Epoch: func(iteration int, meanError float64) {
			if iteration%200 == 0 {
				fmt.Printf("Iteration %d, Error: %g\n", iteration, meanError)
			}
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "training: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Final error %.6f after %d iterations\n", final, model.Iteration()+1)
	fmt.Printf("Fitted weights:\n%v\n",
		mat.Formatted(model.Weights(), mat.Prefix(""), mat.Squeeze()))

	for _, x := range []float64{0, 0.5, 1} {
		out, err := model.Activate([]float64{x})
		if err != nil {
			fmt.Fprintf(os.Stderr, "activating: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("model(%.1f) = %.4f, want %.4f\n", x, out[0], 2*x+1)
	}
}

func exampleLogistic() {
	const samples = 40
	inputs := mat.NewDense(samples, 1, nil)
	targets := mat.NewDense(samples, 1, nil)
	for i := 0; i < samples; i++ {
		x := 2*rand.Float64() - 1
		inputs.Set(i, 0, x)
		if x > 0 {
			targets.Set(i, 0, 1)
		}
	}

	model := learning.LogisticRegression(1, 1, learning.RegressionConfig{
		Optimizer: learning.MomentumDescent(1.0, 0.5),
	})

	final, err := model.Train(inputs, targets, learning.RegressionTrainConfig{
		Iterations: 3000,
		ErrorBreak: 0.05,
		Retries:    2,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "training: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Final error %.6f, converged: %v\n", final, model.Converged())

	for _, x := range []float64{-0.8, -0.2, 0.2, 0.8} {
		out, err := model.Activate([]float64{x})
		if err != nil {
			fmt.Fprintf(os.Stderr, "activating: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("p(class 1 | x = %+.1f) = %.4f\n", x, out[0])
	}
}
