package transfer

import (
	"math"
	"testing"
)

const tolerance = 1e-9

// TestProtVecDiv tests componentwise division with zero divisors.
func TestProtVecDiv(t *testing.T) {
	got := ProtVecDiv([]float64{4, 0, 9}, []float64{2, 0, 3})
	want := []float64{2, 0, 3}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ProtVecDiv[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestProtVecDivFastPath tests the all-nonzero case.
func TestProtVecDivFastPath(t *testing.T) {
	got := ProtVecDiv([]float64{6, 9}, []float64{2, 3})
	want := []float64{3, 3}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ProtVecDiv[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestSoftmaxStability tests that large inputs do not overflow.
func TestSoftmaxStability(t *testing.T) {
	got := Softmax([]float64{1000, 1000, 1000})

	var sum float64
	for i, v := range got {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("Softmax[%d] = %v, want finite", i, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > tolerance {
		t.Errorf("Softmax sum = %v, want 1", sum)
	}
	for i, v := range got {
		if math.Abs(v-1.0/3.0) > tolerance {
			t.Errorf("Softmax[%d] = %v, want 1/3", i, v)
		}
	}
}

// TestSoftmaxUnderflow tests that very negative components underflow to zero.
func TestSoftmaxUnderflow(t *testing.T) {
	got := Softmax([]float64{0, -100000})
	if got[1] != 0 {
		t.Errorf("Softmax[1] = %v, want exact 0 from underflow", got[1])
	}
	if math.Abs(got[0]-1) > tolerance {
		t.Errorf("Softmax[0] = %v, want 1", got[0])
	}
}

// TestReLUAsymptote tests that softplus falls back to identity on overflow.
func TestReLUAsymptote(t *testing.T) {
	got := ReLU([]float64{1000})
	if math.IsInf(got[0], 0) {
		t.Fatal("ReLU(1000) is infinite")
	}
	if got[0] != 1000 {
		t.Errorf("ReLU(1000) = %v, want 1000", got[0])
	}
}

// TestReLUSmall tests softplus on ordinary input.
func TestReLUSmall(t *testing.T) {
	got := ReLU([]float64{0})
	want := math.Log(2)
	if math.Abs(got[0]-want) > tolerance {
		t.Errorf("ReLU(0) = %v, want %v", got[0], want)
	}
}

// TestDSoftmax tests the softmax jacobian layout.
func TestDSoftmax(t *testing.T) {
	y := []float64{0.3, 0.7}
	jac := DSoftmax(y)

	if got, want := jac.At(0, 0), 0.3*0.7; math.Abs(got-want) > tolerance {
		t.Errorf("diagonal (0,0) = %v, want %v", got, want)
	}
	if got, want := jac.At(1, 1), 0.7*0.3; math.Abs(got-want) > tolerance {
		t.Errorf("diagonal (1,1) = %v, want %v", got, want)
	}
	if got, want := jac.At(0, 1), -0.3*0.7; math.Abs(got-want) > tolerance {
		t.Errorf("off-diagonal (0,1) = %v, want %v", got, want)
	}
	if got, want := jac.At(1, 0), -0.7*0.3; math.Abs(got-want) > tolerance {
		t.Errorf("off-diagonal (1,0) = %v, want %v", got, want)
	}
}

// TestTanhDerivative tests that DTanh matches the analytic derivative.
func TestTanhDerivative(t *testing.T) {
	x := []float64{-1, 0, 0.5, 2}
	y := Tanh(x)
	dy := DTanh(y)

	for i := range x {
		want := 1 - math.Tanh(x[i])*math.Tanh(x[i])
		if math.Abs(dy[i]-want) > tolerance {
			t.Errorf("DTanh at x=%v: got %v, want %v", x[i], dy[i], want)
		}
	}
}

// TestGaussian tests the gaussian kernel at known points.
func TestGaussian(t *testing.T) {
	got := Gaussian([]float64{0, 1}, 1.0)
	if math.Abs(got[0]-1) > tolerance {
		t.Errorf("Gaussian(0) = %v, want 1", got[0])
	}
	if want := math.Exp(-1); math.Abs(got[1]-want) > tolerance {
		t.Errorf("Gaussian(1) = %v, want %v", got[1], want)
	}
}

// TestLogit tests the logistic function and its derivative pairing.
func TestLogit(t *testing.T) {
	y := Logit([]float64{0})
	if math.Abs(y[0]-0.5) > tolerance {
		t.Errorf("Logit(0) = %v, want 0.5", y[0])
	}

	dy := DLogit(y)
	if math.Abs(dy[0]-0.25) > tolerance {
		t.Errorf("DLogit(0.5) = %v, want 0.25", dy[0])
	}
}

// TestDistance tests the Euclidean distance helper.
func TestDistance(t *testing.T) {
	got := Distance([]float64{0, 0}, []float64{3, 4})
	if math.Abs(got-5) > tolerance {
		t.Errorf("Distance = %v, want 5", got)
	}
}
