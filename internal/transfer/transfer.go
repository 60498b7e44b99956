// Package transfer provides elementwise transfer functions and their derivatives.
package transfer

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Tanh computes the hyperbolic tangent of each component of x.
func Tanh(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Tanh(v)
	}
	return out
}

// DTanh computes the tanh derivative 1 - y^2 for each component of y,
// where y is a previously computed tanh output.
func DTanh(y []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = 1.0 - v*v
	}
	return out
}

// Logit computes the logistic function 1 / (1 + e^-x) for each component of x.
func Logit(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = 1.0 / (1.0 + math.Exp(-v))
	}
	return out
}

// DLogit computes the logistic derivative y * (1 - y) for each component of y,
// where y is a previously computed logistic output.
func DLogit(y []float64) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = v * (1.0 - v)
	}
	return out
}

// Gaussian computes e^(-x^2 / variance) for each component of x.
func Gaussian(x []float64, variance float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Exp(-(v * v) / variance)
	}
	return out
}

// DGaussian computes the gaussian derivative -2xy / variance for each
// component, where y is a previously computed gaussian output.
func DGaussian(x, y []float64, variance float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = -2.0 * x[i] * y[i] / variance
	}
	return out
}

// ReLU computes the softplus function ln(1 + e^x) for each component of x.
// Components large enough to overflow the exponential fall back to x itself,
// the asymptote of softplus for large x.
func ReLU(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		r := math.Log(1.0 + math.Exp(v))
		if math.IsInf(r, 1) {
			r = v
		}
		out[i] = r
	}
	return out
}

// DReLU computes the softplus derivative 1 / (1 + e^-x) for each component of x.
func DReLU(x []float64) []float64 {
	return Logit(x)
}

// Softmax computes e^x_i / sum(e^x) for vector x.
// The maximum component is subtracted before exponentiating to prevent
// overflow. Very negative components may underflow to exactly zero,
// which is acceptable.
func Softmax(x []float64) []float64 {
	max := floats.Max(x)

	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Exp(v - max)
	}
	floats.Scale(1.0/floats.Sum(out), out)
	return out
}

// DSoftmax computes the n x n jacobian of softmax for output vector y,
// with y_i * (1 - y_j) on the diagonal and -y_i * y_j off the diagonal.
func DSoftmax(y []float64) *mat.Dense {
	n := len(y)
	jacobian := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				jacobian.Set(i, j, y[i]*(1.0-y[j]))
			} else {
				jacobian.Set(i, j, -y[i]*y[j])
			}
		}
	}
	return jacobian
}

// ProtVecDiv divides a by b componentwise, returning 0 for any component
// where the divisor is 0. The common all-nonzero case takes a single pass;
// only a division that fails falls back to the guarded path.
func ProtVecDiv(a, b []float64) []float64 {
	out := make([]float64, len(a))
	clean := true
	for i := range a {
		if b[i] == 0 {
			clean = false
			break
		}
		out[i] = a[i] / b[i]
	}
	if clean {
		return out
	}

	// Guarded path: zero divisors produce zero components.
	for i := range a {
		if b[i] == 0 {
			out[i] = 0
		} else {
			out[i] = a[i] / b[i]
		}
	}
	return out
}

// Distance computes the Euclidean distance between vectors a and b.
func Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
