// Package penalty provides regularization terms over flattened weight vectors.
package penalty

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// PenaltyFunc adds a weight penalty to a training objective. Derivative
// receives the penalty value already computed for the same weights, so
// implementations can reuse it.
type PenaltyFunc interface {
	Penalty(flatWeights []float64) float64
	Derivative(flatWeights []float64, penalty float64) []float64
}

// L1 is the lasso penalty lambda * sum(|w|).
type L1 struct {
	Lambda float64
}

// Penalty returns lambda times the 1-norm of the weights.
func (p L1) Penalty(flatWeights []float64) float64 {
	return p.Lambda * floats.Norm(flatWeights, 1)
}

// Derivative returns lambda * sign(w) for each weight.
func (p L1) Derivative(flatWeights []float64, penalty float64) []float64 {
	jac := make([]float64, len(flatWeights))
	for i, w := range flatWeights {
		if w != 0 {
			jac[i] = math.Copysign(p.Lambda, w)
		}
	}
	return jac
}

// L2 is the ridge penalty lambda * sum(w^2).
type L2 struct {
	Lambda float64
}

// Penalty returns lambda times the squared 2-norm of the weights.
func (p L2) Penalty(flatWeights []float64) float64 {
	n := floats.Norm(flatWeights, 2)
	return p.Lambda * n * n
}

// Derivative returns 2 * lambda * w for each weight.
func (p L2) Derivative(flatWeights []float64, penalty float64) []float64 {
	jac := make([]float64, len(flatWeights))
	for i, w := range flatWeights {
		jac[i] = 2 * p.Lambda * w
	}
	return jac
}
