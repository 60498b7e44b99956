package layer

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/vpfeiffer/learning/internal/transfer"
)

// stateless provides the shared behavior of pure transfer layers: no
// learnable state, and errors pass through to the predecessor untouched.
type stateless struct {
	Base
}

func (s stateless) Reset() {}

func (s stateless) Update(inputs, outputs, errors []float64) {}

func (s stateless) PrevErrors(errors, outputs []float64) []float64 {
	return errors
}

// Sigmoid is a tanh transfer layer.
type Sigmoid struct {
	stateless
}

// NewSigmoid creates a tanh transfer layer.
func NewSigmoid() *Sigmoid { return &Sigmoid{} }

// Activate applies tanh to each input.
func (s *Sigmoid) Activate(inputs []float64) ([]float64, error) {
	return transfer.Tanh(inputs), nil
}

// Outputs returns the tanh derivative evaluated at the recorded outputs.
func (s *Sigmoid) Outputs(inputs, outputs []float64) []float64 {
	return transfer.DTanh(outputs)
}

// ReLU is a softplus transfer layer.
type ReLU struct {
	stateless
}

// NewReLU creates a softplus transfer layer.
func NewReLU() *ReLU { return &ReLU{} }

// Activate applies softplus to each input.
func (r *ReLU) Activate(inputs []float64) ([]float64, error) {
	return transfer.ReLU(inputs), nil
}

// Outputs returns the softplus derivative evaluated at the recorded inputs.
func (r *ReLU) Outputs(inputs, outputs []float64) []float64 {
	return transfer.DReLU(inputs)
}

// Bias appends a constant 1 to its inputs, for layers that do not learn a
// bias row of their own. Backward signals drop the appended component, the
// predecessor has no output for it.
type Bias struct {
	stateless
}

// NewBias creates a bias layer over in inputs. The width is declared
// explicitly because the layer changes the vector length, which arity
// derivation could not see through.
func NewBias(in int) *Bias {
	b := &Bias{}
	b.In = Arity(in)
	b.Out = Arity(in + 1)
	return b
}

// Activate returns the inputs with a constant 1 appended.
func (b *Bias) Activate(inputs []float64) ([]float64, error) {
	if len(inputs) != int(b.In) {
		return nil, fmt.Errorf("bias: wrong number of inputs: expected %d, got %d", b.In, len(inputs))
	}
	out := make([]float64, len(inputs)+1)
	copy(out, inputs)
	out[len(inputs)] = 1
	return out, nil
}

// PrevErrors drops the error component of the appended constant.
func (b *Bias) PrevErrors(errors, outputs []float64) []float64 {
	return errors[:len(errors)-1]
}

// Outputs drops the derivative component of the appended constant.
func (b *Bias) Outputs(inputs, outputs []float64) []float64 {
	return outputs[:len(outputs)-1]
}

// Softmax is a softmax transfer layer, normally terminal. Its derivative
// couples every component, so unlike the elementwise transfers it folds the
// full jacobian into the propagated errors and hands a neutral signal down.
type Softmax struct {
	stateless
}

// NewSoftmax creates a softmax transfer layer.
func NewSoftmax() *Softmax { return &Softmax{} }

// Activate applies softmax to the inputs.
func (s *Softmax) Activate(inputs []float64) ([]float64, error) {
	return transfer.Softmax(inputs), nil
}

// PrevErrors multiplies the errors by the softmax jacobian at the recorded
// outputs.
func (s *Softmax) PrevErrors(errors, outputs []float64) []float64 {
	jac := transfer.DSoftmax(outputs)

	prev := mat.NewVecDense(len(errors), nil)
	prev.MulVec(jac, mat.NewVecDense(len(errors), errors))
	return prev.RawVector().Data
}

// Outputs returns a neutral derivative signal; the jacobian is already
// applied in PrevErrors.
func (s *Softmax) Outputs(inputs, outputs []float64) []float64 {
	ones := make([]float64, len(outputs))
	for i := range ones {
		ones[i] = 1
	}
	return ones
}

// Gaussian is a gaussian transfer layer. It declares the similarity
// capability: its outputs are bounded closeness scores, which layers such as
// the similarity output stage require of their predecessor.
type Gaussian struct {
	stateless
	variance float64
}

// NewGaussian creates a gaussian transfer layer with the given variance.
func NewGaussian(variance float64) *Gaussian {
	g := &Gaussian{variance: variance}
	g.Attrs = Caps(CapSimilarity)
	return g
}

// Activate applies the gaussian kernel to each input.
func (g *Gaussian) Activate(inputs []float64) ([]float64, error) {
	return transfer.Gaussian(inputs, g.variance), nil
}

// Outputs returns the gaussian derivative evaluated at the recorded
// inputs and outputs.
func (g *Gaussian) Outputs(inputs, outputs []float64) []float64 {
	return transfer.DGaussian(inputs, outputs, g.variance)
}
