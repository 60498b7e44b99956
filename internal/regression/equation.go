// Package regression trains the weight matrix of a fixed-form equation by
// numerical optimization.
package regression

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Equation is the model-specific form optimized by a Model: the shape rule
// for its weight matrix, the batch output of the equation, and the jacobian
// of a batch error with respect to the weights.
//
// Weight matrices follow the bias-row convention: row 0 is independent of
// the input.
type Equation interface {
	// Shape returns the weight matrix shape for the given dataset widths.
	Shape(attributes, numOutputs int) (rows, cols int)

	// Output returns the equation output for a batch of samples in rows.
	Output(weights *mat.Dense, inputs mat.Matrix) *mat.Dense

	// Jacobian returns the derivative of the batch error with respect to
	// the weights, given the error jacobian with respect to the outputs.
	Jacobian(weights *mat.Dense, inputs mat.Matrix, errJac *mat.Dense) *mat.Dense
}

// Linear is the equation f(x) = b + W x.
type Linear struct{}

// Shape returns (attributes + 1, numOutputs); the extra row is the bias.
func (Linear) Shape(attributes, numOutputs int) (rows, cols int) {
	return attributes + 1, numOutputs
}

// Output returns bias + inputs . W for every sample row.
func (Linear) Output(weights *mat.Dense, inputs mat.Matrix) *mat.Dense {
	return linearOutput(weights, inputs)
}

// Jacobian stacks the bias derivative (column sums of the error jacobian)
// on the weight derivative inputs^T . errJac.
func (Linear) Jacobian(weights *mat.Dense, inputs mat.Matrix, errJac *mat.Dense) *mat.Dense {
	return stackBiasJacobian(weights, inputs, errJac)
}

// Logistic is the equation f(x) = 1 / (1 + e^-(b + W x)).
type Logistic struct{}

// Shape returns (attributes + 1, numOutputs); the extra row is the bias.
func (Logistic) Shape(attributes, numOutputs int) (rows, cols int) {
	return attributes + 1, numOutputs
}

// Output returns the linear output passed through the logistic function.
func (Logistic) Output(weights *mat.Dense, inputs mat.Matrix) *mat.Dense {
	out := linearOutput(weights, inputs)
	out.Apply(func(_, _ int, v float64) float64 {
		return 1.0 / (1.0 + math.Exp(-v))
	}, out)
	return out
}

// Jacobian scales the error jacobian by the logistic derivative evaluated at
// the linear output, then stacks bias and weight derivatives as Linear does.
func (Logistic) Jacobian(weights *mat.Dense, inputs mat.Matrix, errJac *mat.Dense) *mat.Dense {
	z := linearOutput(weights, inputs)

	var scaled mat.Dense
	scaled.Apply(func(i, j int, v float64) float64 {
		y := 1.0 / (1.0 + math.Exp(-z.At(i, j)))
		return y * (1.0 - y) * v
	}, errJac)

	return stackBiasJacobian(weights, inputs, &scaled)
}

func linearOutput(weights *mat.Dense, inputs mat.Matrix) *mat.Dense {
	wr, wc := weights.Dims()
	rows, _ := inputs.Dims()

	var out mat.Dense
	out.Mul(inputs, weights.Slice(1, wr, 0, wc))

	bias := weights.RowView(0)
	for i := 0; i < rows; i++ {
		for j := 0; j < wc; j++ {
			out.Set(i, j, out.At(i, j)+bias.AtVec(j))
		}
	}
	return &out
}

func stackBiasJacobian(weights *mat.Dense, inputs mat.Matrix, errJac *mat.Dense) *mat.Dense {
	wr, wc := weights.Dims()
	er, _ := errJac.Dims()

	jac := mat.NewDense(wr, wc, nil)

	// Bias derivative is input-independent: a column sum over samples.
	for j := 0; j < wc; j++ {
		var sum float64
		for i := 0; i < er; i++ {
			sum += errJac.At(i, j)
		}
		jac.Set(0, j, sum)
	}

	var body mat.Dense
	body.Mul(inputs.T(), errJac)
	jac.Slice(1, wr, 0, wc).(*mat.Dense).Copy(&body)

	return jac
}
