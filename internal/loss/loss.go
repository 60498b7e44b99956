// Package loss provides batch error functions for optimizer-driven models.
package loss

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrorFunc measures the error of a batch of outputs against targets, and
// provides the derivative of that error with respect to each output.
// Both matrices hold one sample per row.
type ErrorFunc interface {
	// Error returns the scalar error over the batch.
	Error(output, target *mat.Dense) (float64, error)

	// Derivative returns the scalar error and its jacobian with respect
	// to the output matrix, with the same shape as output.
	Derivative(output, target *mat.Dense) (float64, *mat.Dense, error)
}

func checkShapes(output, target *mat.Dense) (rows, cols int, err error) {
	or, oc := output.Dims()
	tr, tc := target.Dims()
	if or != tr || oc != tc {
		return 0, 0, fmt.Errorf("loss: output shape (%d, %d) does not match target shape (%d, %d)",
			or, oc, tr, tc)
	}
	return or, oc, nil
}

// MeanSquaredError is the mean of squared output-target differences over
// every element of the batch.
type MeanSquaredError struct{}

// Error returns mean((output - target)^2).
func (MeanSquaredError) Error(output, target *mat.Dense) (float64, error) {
	rows, cols, err := checkShapes(output, target)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d := output.At(i, j) - target.At(i, j)
			sum += d * d
		}
	}
	return sum / float64(rows*cols), nil
}

// Derivative returns the error and its jacobian 2 (output - target) / n.
func (MeanSquaredError) Derivative(output, target *mat.Dense) (float64, *mat.Dense, error) {
	rows, cols, err := checkShapes(output, target)
	if err != nil {
		return 0, nil, err
	}

	n := float64(rows * cols)
	jac := mat.NewDense(rows, cols, nil)
	var sum float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d := output.At(i, j) - target.At(i, j)
			sum += d * d
			jac.Set(i, j, 2*d/n)
		}
	}
	return sum / n, jac, nil
}

// CrossEntropy is the mean negative log likelihood of the targets under the
// outputs. Outputs are clipped away from zero before taking logarithms.
type CrossEntropy struct{}

const crossEntropyEps = 1e-10

// Error returns -mean(target * log(output)).
func (CrossEntropy) Error(output, target *mat.Dense) (float64, error) {
	rows, cols, err := checkShapes(output, target)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			sum += target.At(i, j) * math.Log(output.At(i, j)+crossEntropyEps)
		}
	}
	return -sum / float64(rows*cols), nil
}

// Derivative returns the error and its jacobian -target / output / n.
func (CrossEntropy) Derivative(output, target *mat.Dense) (float64, *mat.Dense, error) {
	rows, cols, err := checkShapes(output, target)
	if err != nil {
		return 0, nil, err
	}

	n := float64(rows * cols)
	jac := mat.NewDense(rows, cols, nil)
	var sum float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			y := output.At(i, j) + crossEntropyEps
			sum += target.At(i, j) * math.Log(y)
			jac.Set(i, j, -target.At(i, j)/(y*n))
		}
	}
	return -sum / n, jac, nil
}
