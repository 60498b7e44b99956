package rbf

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/vpfeiffer/learning/internal/net"
)

// fixedClusterer reports distances from immovable centers, so output-stage
// behavior can be tested in isolation.
type fixedClusterer struct {
	centers [][]float64
}

func (c *fixedClusterer) Activate(input []float64) []float64 {
	distances := make([]float64, len(c.centers))
	for i, center := range c.centers {
		var sum float64
		for j := range center {
			d := input[j] - center[j]
			sum += d * d
		}
		distances[i] = math.Sqrt(sum)
	}
	return distances
}

func (c *fixedClusterer) TrainStep(inputs, targets *mat.Dense) (float64, error) { return 0, nil }
func (c *fixedClusterer) Train(inputs, targets *mat.Dense, iterations int, errorBreak float64) error {
	return nil
}
func (c *fixedClusterer) Reset() {}

// TestActivateShape tests input length validation.
func TestActivateShape(t *testing.T) {
	m := New(2, 3, 1, Config{})

	if _, err := m.Activate([]float64{1}); err == nil {
		t.Error("expected error for wrong input length")
	}
	out, err := m.Activate([]float64{0.1, 0.2})
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("output length = %d, want 1", len(out))
	}
}

// TestActivateCachesSimilarities tests that each activation overwrites the
// similarity cache with values for the latest input.
func TestActivateCachesSimilarities(t *testing.T) {
	clusterer := &fixedClusterer{centers: [][]float64{{0}, {1}}}
	m := New(1, 2, 1, Config{Clusterer: clusterer, Variance: 1})

	if _, err := m.Activate([]float64{0}); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	first := append([]float64(nil), m.similarities...)

	if _, err := m.Activate([]float64{1}); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	// Input 0 sits on center 0, input 1 on center 1; similarity to the own
	// center is exactly 1 and the cache must have swapped.
	if math.Abs(first[0]-1) > 1e-12 || math.Abs(m.similarities[1]-1) > 1e-12 {
		t.Errorf("own-center similarities = %v, %v, want 1", first[0], m.similarities[1])
	}
	if first[0] == m.similarities[0] {
		t.Error("similarity cache was not overwritten by the second activation")
	}
}

// TestActivateFarFromCenters tests the scaling guard when every similarity
// underflows to zero.
func TestActivateFarFromCenters(t *testing.T) {
	clusterer := &fixedClusterer{centers: [][]float64{{0}}}
	m := New(1, 1, 1, Config{Clusterer: clusterer, Variance: 0.01})

	out, err := m.Activate([]float64{1e6})
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	for _, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("output %v not finite for distant input", v)
		}
	}
}

// TestDisableScaling tests that raw and scaled outputs differ when the total
// similarity is not 1.
func TestDisableScaling(t *testing.T) {
	clusterer := &fixedClusterer{centers: [][]float64{{0}, {0.5}}}

	scaled := New(1, 2, 1, Config{Clusterer: clusterer, Variance: 1})
	raw := New(1, 2, 1, Config{Clusterer: clusterer, Variance: 1, DisableScaling: true})
	raw.output = scaled.output

	s, err := scaled.Activate([]float64{0})
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	r, err := raw.Activate([]float64{0})
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}

	if math.Abs(scaled.totalSimilarity-1) < 1e-12 {
		t.Fatal("test setup: total similarity should differ from 1")
	}
	if math.Abs(s[0]*scaled.totalSimilarity-r[0]) > 1e-12 {
		t.Errorf("scaled %v and raw %v outputs are inconsistent", s[0], r[0])
	}
}

// TestTrainReducesError tests learning a small function of one input.
func TestTrainReducesError(t *testing.T) {
	patterns := []net.Pattern{
		{Input: []float64{-1}, Target: []float64{0}},
		{Input: []float64{-0.5}, Target: []float64{0.25}},
		{Input: []float64{0}, Target: []float64{0.5}},
		{Input: []float64{0.5}, Target: []float64{0.75}},
		{Input: []float64{1}, Target: []float64{1}},
	}

	m := New(1, 5, 1, Config{LearnRate: 0.2, PreTrainClusters: true})

	before, err := m.AvgError(patterns)
	if err != nil {
		t.Fatalf("AvgError: %v", err)
	}
	if _, err := m.Train(patterns, TrainConfig{Iterations: 500, ErrorBreak: 0.001}); err != nil {
		t.Fatalf("Train: %v", err)
	}
	after, err := m.AvgError(patterns)
	if err != nil {
		t.Fatalf("AvgError: %v", err)
	}

	if after >= before {
		t.Errorf("training did not reduce error: before %v, after %v", before, after)
	}
	if after > 0.05 {
		t.Errorf("error after training = %v, want below 0.05", after)
	}
}

// TestTrainEpochHook tests that the epoch hook observes every iteration.
func TestTrainEpochHook(t *testing.T) {
	patterns := []net.Pattern{
		{Input: []float64{0}, Target: []float64{0}},
		{Input: []float64{1}, Target: []float64{1}},
	}
	m := New(1, 2, 1, Config{})

	var calls int
	_, err := m.Train(patterns, TrainConfig{
		Iterations: 5,
		ErrorBreak: 1e-300,
		Epoch:      func(iteration int, meanError float64) { calls++ },
	})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if calls != 5 {
		t.Errorf("epoch hook called %d times, want 5", calls)
	}
}

// TestMatrices tests the pattern stacking helper.
func TestMatrices(t *testing.T) {
	patterns := []net.Pattern{
		{Input: []float64{1, 2}, Target: []float64{3}},
		{Input: []float64{4, 5}, Target: []float64{6}},
	}

	inputs, targets := Matrices(patterns)
	if r, c := inputs.Dims(); r != 2 || c != 2 {
		t.Errorf("input shape = (%d, %d), want (2, 2)", r, c)
	}
	if r, c := targets.Dims(); r != 2 || c != 1 {
		t.Errorf("target shape = (%d, %d), want (2, 1)", r, c)
	}
	if inputs.At(1, 0) != 4 || targets.At(0, 0) != 3 {
		t.Error("pattern values landed in the wrong rows")
	}
}

// TestResetClearsCache tests that reset drops the similarity cache.
func TestResetClearsCache(t *testing.T) {
	m := New(1, 2, 1, Config{})
	if _, err := m.Activate([]float64{0.5}); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if m.similarities == nil {
		t.Fatal("activation should populate the similarity cache")
	}

	m.Reset()
	if m.similarities != nil || m.totalSimilarity != 0 {
		t.Error("reset did not clear the similarity cache")
	}
}
