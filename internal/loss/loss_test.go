package loss

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const tolerance = 1e-12

// TestMSEError tests the mean squared error value.
func TestMSEError(t *testing.T) {
	output := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	target := mat.NewDense(2, 2, []float64{1, 0, 3, 2})

	got, err := MeanSquaredError{}.Error(output, target)
	if err != nil {
		t.Fatalf("Error: %v", err)
	}
	// Differences are 0, 2, 0, 2: mean of squares is 2.
	if math.Abs(got-2) > tolerance {
		t.Errorf("MSE = %v, want 2", got)
	}
}

// TestMSEDerivative tests the jacobian 2 (output - target) / n.
func TestMSEDerivative(t *testing.T) {
	output := mat.NewDense(1, 2, []float64{3, 1})
	target := mat.NewDense(1, 2, []float64{1, 1})

	value, jac, err := MeanSquaredError{}.Derivative(output, target)
	if err != nil {
		t.Fatalf("Derivative: %v", err)
	}
	if math.Abs(value-2) > tolerance {
		t.Errorf("error = %v, want 2", value)
	}
	if got := jac.At(0, 0); math.Abs(got-2) > tolerance {
		t.Errorf("jacobian (0,0) = %v, want 2", got)
	}
	if got := jac.At(0, 1); math.Abs(got) > tolerance {
		t.Errorf("jacobian (0,1) = %v, want 0", got)
	}
}

// TestMSEShapeMismatch tests that mismatched shapes fail, never truncate.
func TestMSEShapeMismatch(t *testing.T) {
	output := mat.NewDense(2, 2, nil)
	target := mat.NewDense(2, 3, nil)

	if _, err := (MeanSquaredError{}).Error(output, target); err == nil {
		t.Error("expected shape error")
	}
	if _, _, err := (MeanSquaredError{}).Derivative(output, target); err == nil {
		t.Error("expected shape error")
	}
}

// TestCrossEntropy tests the error value and derivative direction.
func TestCrossEntropy(t *testing.T) {
	output := mat.NewDense(1, 2, []float64{0.9, 0.1})
	target := mat.NewDense(1, 2, []float64{1, 0})

	value, err := CrossEntropy{}.Error(output, target)
	if err != nil {
		t.Fatalf("Error: %v", err)
	}
	if want := -math.Log(0.9+crossEntropyEps) / 2; math.Abs(value-want) > 1e-9 {
		t.Errorf("cross entropy = %v, want %v", value, want)
	}

	_, jac, err := CrossEntropy{}.Derivative(output, target)
	if err != nil {
		t.Fatalf("Derivative: %v", err)
	}
	// Raising the matched output lowers the error.
	if jac.At(0, 0) >= 0 {
		t.Errorf("jacobian (0,0) = %v, want negative", jac.At(0, 0))
	}
	if jac.At(0, 1) != 0 {
		t.Errorf("jacobian (0,1) = %v, want 0 for zero target", jac.At(0, 1))
	}
}
