package learning

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

var xorPatterns = []Pattern{
	{Input: []float64{0, 0}, Target: []float64{0}},
	{Input: []float64{0, 1}, Target: []float64{1}},
	{Input: []float64{1, 0}, Target: []float64{1}},
	{Input: []float64{1, 1}, Target: []float64{0}},
}

// TestMLPShapes tests the convenience constructor's layer chain.
func TestMLPShapes(t *testing.T) {
	n, err := MLP([]int{2, 3, 1}, 0.3, 0.6)
	if err != nil {
		t.Fatalf("MLP: %v", err)
	}

	out, err := n.Activate([]float64{0, 1})
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("output length = %d, want 1", len(out))
	}
}

// TestTrainXOR tests end-to-end network training through the facade.
func TestTrainXOR(t *testing.T) {
	n, err := MLP([]int{2, 3, 1}, 0.6, 0.4)
	if err != nil {
		t.Fatalf("MLP: %v", err)
	}

	before, err := n.AvgError(xorPatterns)
	if err != nil {
		t.Fatalf("AvgError: %v", err)
	}
	if _, err := n.Train(xorPatterns, TrainConfig{Iterations: 4000, ErrorBreak: 0.01, Retries: 2}); err != nil {
		t.Fatalf("Train: %v", err)
	}
	after, err := n.AvgError(xorPatterns)
	if err != nil {
		t.Fatalf("AvgError: %v", err)
	}

	if after >= before {
		t.Errorf("training did not reduce error: before %v, after %v", before, after)
	}
}

// TestRegressionFacade tests the regression constructors and strategies.
func TestRegressionFacade(t *testing.T) {
	m := LinearRegression(1, 1, RegressionConfig{
		Optimizer: SteepestDescent(0.5),
		ErrorFunc: MSE(),
		Penalty:   L2(0.001),
	})

	out, err := m.Activate([]float64{0.5})
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("output length = %d, want 1", len(out))
	}
}

// TestCrossValidateRegression tests that a regression model satisfies the
// harness through the facade alone.
func TestCrossValidateRegression(t *testing.T) {
	m := LinearRegression(1, 1, RegressionConfig{
		Optimizer: SteepestDescent(0.5),
	})

	patterns := make([]Pattern, 8)
	for i := range patterns {
		x := float64(i) / 7
		patterns[i] = Pattern{Input: []float64{x}, Target: []float64{3 * x}}
	}

	summary, err := CrossValidate(m, patterns, 4, false,
		func(model ValidationModel, train []Pattern) (float64, error) {
			inputs := mat.NewDense(len(train), 1, nil)
			targets := mat.NewDense(len(train), 1, nil)
			for i, p := range train {
				inputs.SetRow(i, p.Input)
				targets.SetRow(i, p.Target)
			}
			return model.(*RegressionModel).Train(inputs, targets, RegressionTrainConfig{
				Iterations: 500,
				ErrorBreak: 1e-6,
			})
		})
	if err != nil {
		t.Fatalf("CrossValidate: %v", err)
	}
	if len(summary.Folds) != 4 {
		t.Errorf("got %d folds, want 4", len(summary.Folds))
	}
	for i, f := range summary.Folds {
		if f.TrainingError < 0 || f.TestingError < 0 {
			t.Errorf("fold %d has negative errors: %v, %v",
				i, f.TrainingError, f.TestingError)
		}
	}
}

// TestCrossValidateNetwork tests that a network satisfies the harness.
func TestCrossValidateNetwork(t *testing.T) {
	n, err := MLP([]int{1, 2, 1}, 0.3, 0.3)
	if err != nil {
		t.Fatalf("MLP: %v", err)
	}

	patterns := make([]Pattern, 8)
	for i := range patterns {
		x := float64(i) / 7
		patterns[i] = Pattern{Input: []float64{x}, Target: []float64{x}}
	}

	summary, err := CrossValidate(n, patterns, 4, false,
		func(m ValidationModel, train []Pattern) (float64, error) {
			return m.(*Network).Train(train, TrainConfig{Iterations: 50, ErrorBreak: 1e-6})
		})
	if err != nil {
		t.Fatalf("CrossValidate: %v", err)
	}
	if len(summary.Folds) != 4 {
		t.Errorf("got %d folds, want 4", len(summary.Folds))
	}
	for i, f := range summary.Folds {
		if f.Epochs <= 0 {
			t.Errorf("fold %d recorded %d epochs", i, f.Epochs)
		}
	}
}

// TestNewNetworkValidates tests that facade construction surfaces structure
// errors.
func TestNewNetworkValidates(t *testing.T) {
	_, err := NewNetwork(
		Dense(2, 3, true, 0.3, 0.6),
		Dense(5, 1, false, 0.3, 0.6),
	)
	if err == nil {
		t.Error("expected error for mismatched layer widths")
	}
}
