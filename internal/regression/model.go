package regression

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/vpfeiffer/learning/internal/loss"
	"github.com/vpfeiffer/learning/internal/optimize"
	"github.com/vpfeiffer/learning/internal/penalty"
)

// initialWeightsRange bounds the magnitude of freshly drawn weights.
const initialWeightsRange = 0.25

// defaultJacobianNormBreak is the jacobian norm below which a training step
// marks the model converged.
const defaultJacobianNormBreak = 1e-10

// Config tunes a Model. Zero values fall back to a momentum descent
// optimizer, mean squared error, no penalty, and the default jacobian norm
// break.
type Config struct {
	Optimizer optimize.Optimizer
	ErrorFunc loss.ErrorFunc
	Penalty   penalty.PenaltyFunc

	// ExcludeBias leaves the bias row out of the penalized weight vector.
	ExcludeBias bool

	// JacobianNormBreak marks the model converged once the optimizer
	// reports a jacobian with a smaller norm.
	JacobianNormBreak float64
}

// Model optimizes the weight matrix of an equation of a set form. The
// weight shape is fixed at construction; Reset reinitializes values only.
type Model struct {
	equation Equation
	weights  *mat.Dense

	optimizer optimize.Optimizer
	errFunc   loss.ErrorFunc
	penalty   penalty.PenaltyFunc

	excludeBias       bool
	jacobianNormBreak float64

	iteration int
	converged bool
}

// New builds a model for the given equation form and dataset widths.
func New(equation Equation, attributes, numOutputs int, cfg Config) *Model {
	if cfg.Optimizer == nil {
		cfg.Optimizer = optimize.NewMomentumDescent(0.1, 0.2)
	}
	if cfg.ErrorFunc == nil {
		cfg.ErrorFunc = loss.MeanSquaredError{}
	}
	if cfg.JacobianNormBreak == 0 {
		cfg.JacobianNormBreak = defaultJacobianNormBreak
	}

	rows, cols := equation.Shape(attributes, numOutputs)
	m := &Model{
		equation:          equation,
		weights:           mat.NewDense(rows, cols, nil),
		optimizer:         cfg.Optimizer,
		errFunc:           cfg.ErrorFunc,
		penalty:           cfg.Penalty,
		excludeBias:       cfg.ExcludeBias,
		jacobianNormBreak: cfg.JacobianNormBreak,
	}
	m.randomizeWeights()
	return m
}

// NewLinear builds a linear regression model.
func NewLinear(attributes, numOutputs int, cfg Config) *Model {
	return New(Linear{}, attributes, numOutputs, cfg)
}

// NewLogistic builds a logistic regression model.
func NewLogistic(attributes, numOutputs int, cfg Config) *Model {
	return New(Logistic{}, attributes, numOutputs, cfg)
}

func (m *Model) randomizeWeights() {
	rows, cols := m.weights.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.weights.Set(i, j, (2*rand.Float64()-1)*initialWeightsRange)
		}
	}
}

// Reset reinitializes weight values, preserving their shape, and clears the
// optimizer's state.
func (m *Model) Reset() {
	m.randomizeWeights()
	m.optimizer.Reset()
	m.converged = false
	m.iteration = 0
}

// Converged reports whether the last training step's jacobian norm fell
// below the configured break.
func (m *Model) Converged() bool { return m.converged }

// Iteration returns the epoch counter of the most recent training call.
func (m *Model) Iteration() int { return m.iteration }

// Weights exposes the weight matrix for inspection.
func (m *Model) Weights() *mat.Dense { return m.weights }

// Activate returns the equation output for one input vector.
func (m *Model) Activate(input []float64) ([]float64, error) {
	rows, cols := m.weights.Dims()
	if len(input) != rows-1 {
		return nil, fmt.Errorf("regression: wrong number of inputs: expected %d, got %d",
			rows-1, len(input))
	}

	out := m.equation.Output(m.weights, mat.NewDense(1, len(input), input))
	result := make([]float64, cols)
	mat.Row(result, 0, out)
	return result, nil
}

// Outputs returns the equation output for a batch of samples in rows.
func (m *Model) Outputs(inputs *mat.Dense) *mat.Dense {
	return m.equation.Output(m.weights, inputs)
}

// flatWeights returns a copy of the weights as a flat vector.
func (m *Model) flatWeights() []float64 {
	raw := m.weights.RawMatrix().Data
	flat := make([]float64, len(raw))
	copy(flat, raw)
	return flat
}

// setFlatWeights reshapes a flat vector back into the weight matrix.
func (m *Model) setFlatWeights(flat []float64) error {
	raw := m.weights.RawMatrix().Data
	if len(flat) != len(raw) {
		return fmt.Errorf("regression: flat weight length %d does not match weight matrix size %d",
			len(flat), len(raw))
	}
	copy(raw, flat)
	return nil
}

// TrainStep hands the objective for one batch to the optimizer and adopts
// the parameters it returns. It returns the objective value the optimizer
// reported for the step.
func (m *Model) TrainStep(inputs, targets *mat.Dense) (float64, error) {
	problem := optimize.Problem{
		Objective: func(parameters []float64) (float64, error) {
			if err := m.setFlatWeights(parameters); err != nil {
				return 0, err
			}
			return m.objective(inputs, targets)
		},
		ObjectiveJac: func(parameters []float64) (float64, []float64, error) {
			if err := m.setFlatWeights(parameters); err != nil {
				return 0, nil, err
			}
			value, jac, err := m.objectiveJacobian(inputs, targets)
			if err != nil {
				return 0, nil, err
			}
			return value, ravel(jac), nil
		},
	}

	value, flat, err := m.optimizer.Next(problem, m.flatWeights())
	if err != nil {
		return 0, err
	}
	if err := m.setFlatWeights(flat); err != nil {
		return 0, err
	}

	if jac := m.optimizer.Jacobian(); jac != nil {
		m.converged = floats.Norm(jac, 2) < m.jacobianNormBreak
	}
	return value, nil
}

// objective returns the batch error plus any weight penalty.
func (m *Model) objective(inputs, targets *mat.Dense) (float64, error) {
	value, err := m.errFunc.Error(m.Outputs(inputs), targets)
	if err != nil {
		return 0, err
	}
	if m.penalty != nil {
		value += m.penalty.Penalty(m.penalizedWeights())
	}
	return value, nil
}

// objectiveJacobian returns the batch error and its jacobian with respect
// to the weights, both including any penalty term.
func (m *Model) objectiveJacobian(inputs, targets *mat.Dense) (float64, *mat.Dense, error) {
	value, errJac, err := m.errFunc.Derivative(m.Outputs(inputs), targets)
	if err != nil {
		return 0, nil, err
	}

	jac := m.equation.Jacobian(m.weights, inputs, errJac)
	jr, jc := jac.Dims()
	wr, wc := m.weights.Dims()
	if jr*jc != wr*wc {
		return 0, nil, fmt.Errorf("regression: equation jacobian has %d elements, weight matrix has %d",
			jr*jc, wr*wc)
	}

	if m.penalty != nil {
		p := m.penalty.Penalty(m.penalizedWeights())
		value += p
		m.addPenaltyJacobian(jac, p)
	}
	return value, jac, nil
}

// penalizedWeights returns the flat weight vector the penalty applies to.
// With ExcludeBias set, the bias row is left out.
func (m *Model) penalizedWeights() []float64 {
	flat := m.flatWeights()
	if !m.excludeBias {
		return flat
	}
	_, cols := m.weights.Dims()
	return flat[cols:]
}

func (m *Model) addPenaltyJacobian(jac *mat.Dense, penaltyValue float64) {
	penalized := m.penalizedWeights()
	pj := m.penalty.Derivative(penalized, penaltyValue)

	raw := jac.RawMatrix().Data
	offset := 0
	if m.excludeBias {
		_, cols := m.weights.Dims()
		offset = cols
	}
	for i, v := range pj {
		raw[offset+i] += v
	}
}

func ravel(m *mat.Dense) []float64 {
	raw := m.RawMatrix().Data
	flat := make([]float64, len(raw))
	copy(flat, raw)
	return flat
}
