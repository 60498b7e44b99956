package layer

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// initialWeightsRange bounds the magnitude of freshly drawn weights.
const initialWeightsRange = 0.25

// Perceptron is a fully connected layer trained with the delta rule and
// momentum. It expects a transfer layer after it: during backpropagation the
// incoming outputs signal is the successor's local derivative, and the
// weight change for each connection is input * error * derivative.
type Perceptron struct {
	Base

	LearnRate    float64
	MomentumRate float64

	bias       bool
	rows, cols int
	weights    *mat.Dense
	momentums  *mat.Dense
}

// NewPerceptron creates a dense layer mapping in inputs to out outputs.
// When bias is set, a constant input of 1 is appended internally and a
// matching weight row is learned.
func NewPerceptron(in, out int, bias bool, learnRate, momentumRate float64) *Perceptron {
	rows := in
	if bias {
		rows++
	}
	p := &Perceptron{
		Base:         Base{In: Arity(in), Out: Arity(out)},
		LearnRate:    learnRate,
		MomentumRate: momentumRate,
		bias:         bias,
		rows:         rows,
		cols:         out,
		weights:      mat.NewDense(rows, out, nil),
		momentums:    mat.NewDense(rows, out, nil),
	}
	p.Reset()
	return p
}

// Reset redraws weights uniformly within the initial range and clears the
// momentum buffer. The weight shape is preserved.
func (p *Perceptron) Reset() {
	for i := 0; i < p.rows; i++ {
		for j := 0; j < p.cols; j++ {
			p.weights.Set(i, j, (2*rand.Float64()-1)*initialWeightsRange)
		}
	}
	p.momentums.Zero()
}

// Weights exposes the weight matrix for inspection.
func (p *Perceptron) Weights() *mat.Dense { return p.weights }

func (p *Perceptron) withBias(inputs []float64) []float64 {
	if !p.bias {
		return inputs
	}
	x := make([]float64, len(inputs)+1)
	copy(x, inputs)
	x[len(inputs)] = 1
	return x
}

// Activate computes the weighted sums x . W for the given inputs.
func (p *Perceptron) Activate(inputs []float64) ([]float64, error) {
	if len(inputs) != int(p.In) {
		return nil, fmt.Errorf("perceptron: wrong number of inputs: expected %d, got %d", p.In, len(inputs))
	}
	x := p.withBias(inputs)

	out := mat.NewVecDense(p.cols, nil)
	out.MulVec(p.weights.T(), mat.NewVecDense(p.rows, x))
	return out.RawVector().Data, nil
}

// PrevErrors propagates the error signal through the pre-update weights.
// The incoming outputs signal is the successor's derivative, so the deltas
// are errors scaled componentwise by it. The bias component is dropped, the
// predecessor has no corresponding output.
func (p *Perceptron) PrevErrors(errors, outputs []float64) []float64 {
	deltas := hadamard(errors, outputs)

	prev := mat.NewVecDense(p.rows, nil)
	prev.MulVec(p.weights, mat.NewVecDense(p.cols, deltas))

	raw := prev.RawVector().Data
	if p.bias {
		return raw[:len(raw)-1]
	}
	return raw
}

// Update adjusts the weights by the delta rule with momentum.
func (p *Perceptron) Update(inputs, outputs, errors []float64) {
	x := p.withBias(inputs)
	deltas := hadamard(errors, outputs)

	var changes mat.Dense
	changes.Outer(1, mat.NewVecDense(p.rows, x), mat.NewVecDense(p.cols, deltas))

	var step mat.Dense
	step.Scale(p.LearnRate, &changes)
	var carry mat.Dense
	carry.Scale(p.MomentumRate, p.momentums)
	step.Add(&step, &carry)

	p.weights.Add(p.weights, &step)
	p.momentums.Copy(&changes)
}

// Outputs hands the recorded inputs back unchanged; a perceptron carries no
// local derivative of its own.
func (p *Perceptron) Outputs(inputs, outputs []float64) []float64 {
	return inputs
}

func hadamard(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] * b[i]
	}
	return out
}
