package penalty

import (
	"math"
	"testing"
)

const tolerance = 1e-12

// TestL1 tests the lasso penalty and its sign-based derivative.
func TestL1(t *testing.T) {
	p := L1{Lambda: 0.1}
	weights := []float64{3, -4, 0}

	if got, want := p.Penalty(weights), 0.7; math.Abs(got-want) > tolerance {
		t.Errorf("penalty = %v, want %v", got, want)
	}

	jac := p.Derivative(weights, p.Penalty(weights))
	want := []float64{0.1, -0.1, 0}
	for i := range want {
		if math.Abs(jac[i]-want[i]) > tolerance {
			t.Errorf("derivative[%d] = %v, want %v", i, jac[i], want[i])
		}
	}
}

// TestL2 tests the ridge penalty and its derivative.
func TestL2(t *testing.T) {
	p := L2{Lambda: 0.5}
	weights := []float64{3, -4}

	if got, want := p.Penalty(weights), 12.5; math.Abs(got-want) > tolerance {
		t.Errorf("penalty = %v, want %v", got, want)
	}

	jac := p.Derivative(weights, p.Penalty(weights))
	want := []float64{3, -4}
	for i := range want {
		if math.Abs(jac[i]-want[i]) > tolerance {
			t.Errorf("derivative[%d] = %v, want %v", i, jac[i], want[i])
		}
	}
}
