// Package optimize provides the iterative optimizer contract used by
// weight-matrix models, and plain gradient implementations of it.
package optimize

import "gonum.org/v1/gonum/floats"

// Problem bundles the callbacks an optimizer needs: an objective-only
// evaluation and an evaluation returning the objective with its jacobian
// with respect to the parameter vector.
type Problem struct {
	Objective    func(parameters []float64) (float64, error)
	ObjectiveJac func(parameters []float64) (float64, []float64, error)
}

// Optimizer advances a parameter vector one step at a time.
//
// Next returns the objective value at the given parameters and the updated
// parameter vector. Jacobian exposes the last jacobian computed, or nil, for
// convergence checks. Reset clears internal state such as momentum history;
// it must be called between problems, since stale history would give
// incorrect initial steps on a different objective surface.
type Optimizer interface {
	Next(p Problem, parameters []float64) (float64, []float64, error)
	Reset()
	Jacobian() []float64
}

// SteepestDescent steps against the jacobian with a fixed step size.
type SteepestDescent struct {
	StepSize float64

	jacobian []float64
}

// NewSteepestDescent creates a fixed-step gradient descent optimizer.
func NewSteepestDescent(stepSize float64) *SteepestDescent {
	return &SteepestDescent{StepSize: stepSize}
}

// Next returns the objective at parameters and parameters - step * jacobian.
func (o *SteepestDescent) Next(p Problem, parameters []float64) (float64, []float64, error) {
	value, jacobian, err := p.ObjectiveJac(parameters)
	if err != nil {
		return 0, nil, err
	}
	o.jacobian = jacobian

	next := make([]float64, len(parameters))
	floats.AddScaledTo(next, parameters, -o.StepSize, jacobian)
	return value, next, nil
}

// Reset clears the recorded jacobian.
func (o *SteepestDescent) Reset() {
	o.jacobian = nil
}

// Jacobian returns the last jacobian computed, or nil.
func (o *SteepestDescent) Jacobian() []float64 { return o.jacobian }

// MomentumDescent is steepest descent with a velocity term carrying a
// fraction of the previous step into the next one.
type MomentumDescent struct {
	StepSize     float64
	MomentumRate float64

	velocity []float64
	jacobian []float64
}

// NewMomentumDescent creates a gradient descent optimizer with momentum.
func NewMomentumDescent(stepSize, momentumRate float64) *MomentumDescent {
	return &MomentumDescent{StepSize: stepSize, MomentumRate: momentumRate}
}

// Next steps against the jacobian plus the decayed previous step.
func (o *MomentumDescent) Next(p Problem, parameters []float64) (float64, []float64, error) {
	value, jacobian, err := p.ObjectiveJac(parameters)
	if err != nil {
		return 0, nil, err
	}
	o.jacobian = jacobian

	step := make([]float64, len(parameters))
	floats.AddScaledTo(step, step, -o.StepSize, jacobian)
	if o.velocity != nil {
		floats.AddScaled(step, o.MomentumRate, o.velocity)
	}
	o.velocity = step

	next := make([]float64, len(parameters))
	floats.AddTo(next, parameters, step)
	return value, next, nil
}

// Reset clears the velocity and the recorded jacobian.
func (o *MomentumDescent) Reset() {
	o.velocity = nil
	o.jacobian = nil
}

// Jacobian returns the last jacobian computed, or nil.
func (o *MomentumDescent) Jacobian() []float64 { return o.jacobian }
