package layer

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Linear is a fully connected output layer. Unlike Perceptron it is meant to
// terminate a chain: its own derivative is constant, so the weight change for
// each connection is input * error with no successor derivative applied.
type Linear struct {
	Base

	LearnRate float64

	bias       bool
	rows, cols int
	weights    *mat.Dense
}

// NewLinear creates a terminal linear layer mapping in inputs to out outputs.
func NewLinear(in, out int, bias bool, learnRate float64) *Linear {
	rows := in
	if bias {
		rows++
	}
	l := &Linear{
		Base:      Base{In: Arity(in), Out: Arity(out)},
		LearnRate: learnRate,
		bias:      bias,
		rows:      rows,
		cols:      out,
		weights:   mat.NewDense(rows, out, nil),
	}
	l.Reset()
	return l
}

// NewSimilarityOutput creates a linear output layer that must be preceded by
// a similarity-producing layer, such as a gaussian transfer. This is the
// output stage of a radial-basis-function chain.
func NewSimilarityOutput(in, out int, learnRate float64) *Linear {
	l := NewLinear(in, out, false, learnRate)
	l.ReqPrev = Caps(CapSimilarity)
	return l
}

// Reset redraws weights uniformly within the initial range.
func (l *Linear) Reset() {
	for i := 0; i < l.rows; i++ {
		for j := 0; j < l.cols; j++ {
			l.weights.Set(i, j, (2*rand.Float64()-1)*initialWeightsRange)
		}
	}
}

// Weights exposes the weight matrix for inspection.
func (l *Linear) Weights() *mat.Dense { return l.weights }

func (l *Linear) withBias(inputs []float64) []float64 {
	if !l.bias {
		return inputs
	}
	x := make([]float64, len(inputs)+1)
	copy(x, inputs)
	x[len(inputs)] = 1
	return x
}

// Activate computes the weighted sums x . W for the given inputs.
func (l *Linear) Activate(inputs []float64) ([]float64, error) {
	if len(inputs) != int(l.In) {
		return nil, fmt.Errorf("linear: wrong number of inputs: expected %d, got %d", l.In, len(inputs))
	}
	x := l.withBias(inputs)

	out := mat.NewVecDense(l.cols, nil)
	out.MulVec(l.weights.T(), mat.NewVecDense(l.rows, x))
	return out.RawVector().Data, nil
}

// PrevErrors propagates the raw error signal through the pre-update weights.
func (l *Linear) PrevErrors(errors, outputs []float64) []float64 {
	prev := mat.NewVecDense(l.rows, nil)
	prev.MulVec(l.weights, mat.NewVecDense(l.cols, errors))

	raw := prev.RawVector().Data
	if l.bias {
		return raw[:len(raw)-1]
	}
	return raw
}

// Update adjusts the weights by input * error.
func (l *Linear) Update(inputs, outputs, errors []float64) {
	x := l.withBias(inputs)

	var changes mat.Dense
	changes.Outer(l.LearnRate, mat.NewVecDense(l.rows, x), mat.NewVecDense(l.cols, errors))
	l.weights.Add(l.weights, &changes)
}

// Outputs hands the recorded inputs back unchanged.
func (l *Linear) Outputs(inputs, outputs []float64) []float64 {
	return inputs
}
