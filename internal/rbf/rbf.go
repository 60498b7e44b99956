// Package rbf provides a radial-basis-function model: a clustering stage
// feeding gaussian similarities into a linear output stage.
package rbf

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/vpfeiffer/learning/internal/cluster"
	"github.com/vpfeiffer/learning/internal/layer"
	"github.com/vpfeiffer/learning/internal/net"
	"github.com/vpfeiffer/learning/internal/transfer"
)

// Clusterer maps an input vector to a distance per cluster. It is consumed
// as an external collaborator: the model trains it but never looks inside.
type Clusterer interface {
	Activate(input []float64) []float64
	TrainStep(inputs, targets *mat.Dense) (float64, error)
	Train(inputs, targets *mat.Dense, iterations int, errorBreak float64) error
	Reset()
}

// Config tunes an RBF model. Zero values fall back to a learn rate of 1, a
// variance of 4 / numClusters, similarity scaling enabled, and a
// self-organizing-map clusterer with the default movement rates.
type Config struct {
	LearnRate float64

	// Variance of the gaussian similarity kernel.
	Variance float64

	// DisableScaling turns off dividing outputs by the total similarity.
	DisableScaling bool

	// PreTrainClusters trains the clusterer to convergence before any
	// output-stage training begins.
	PreTrainClusters bool

	// Clusterer overrides the default self-organizing map.
	Clusterer Clusterer

	// Movement rates for the default self-organizing map.
	MoveRate         float64
	Neighborhood     int
	NeighborMoveRate float64
}

// RBF is a two-stage composite model: cluster distances are turned into
// gaussian similarities, and a linear output layer maps similarities to
// outputs, optionally rescaled by the total similarity.
type RBF struct {
	clusterer Clusterer
	variance  float64
	output    *layer.Linear

	scaleBySimilarity bool
	preTrainClusters  bool

	attributes int
	numOutputs int

	// Cached by Activate for the training step that follows it;
	// overwritten on every activation.
	similarities    []float64
	totalSimilarity float64

	iteration int
	converged bool
}

// New creates an RBF model over the given dataset widths.
func New(attributes, numClusters, numOutputs int, cfg Config) *RBF {
	if cfg.LearnRate == 0 {
		cfg.LearnRate = 1.0
	}
	if cfg.Variance == 0 {
		cfg.Variance = 4.0 / float64(numClusters)
	}
	if cfg.Clusterer == nil {
		moveRate := cfg.MoveRate
		if moveRate == 0 {
			moveRate = 0.1
		}
		neighborhood := cfg.Neighborhood
		if neighborhood == 0 {
			neighborhood = 2
		}
		neighborMoveRate := cfg.NeighborMoveRate
		if neighborMoveRate == 0 {
			neighborMoveRate = 1.0
		}
		cfg.Clusterer = cluster.NewSOM(attributes, numClusters, moveRate, neighborhood, neighborMoveRate)
	}

	return &RBF{
		clusterer:         cfg.Clusterer,
		variance:          cfg.Variance,
		output:            layer.NewSimilarityOutput(numClusters, numOutputs, cfg.LearnRate),
		scaleBySimilarity: !cfg.DisableScaling,
		preTrainClusters:  cfg.PreTrainClusters,
		attributes:        attributes,
		numOutputs:        numOutputs,
	}
}

// Reset resets the clusterer, the output stage, and the similarity cache.
func (m *RBF) Reset() {
	m.clusterer.Reset()
	m.output.Reset()

	m.similarities = nil
	m.totalSimilarity = 0
	m.iteration = 0
	m.converged = false
}

// Iteration returns the epoch counter of the most recent training call.
func (m *RBF) Iteration() int { return m.iteration }

// Converged reports whether the most recent training call reached its
// error break.
func (m *RBF) Converged() bool { return m.converged }

// Activate returns the model outputs for the given inputs. The similarity
// vector and its sum are cached for the training step that follows;
// activating again overwrites them.
func (m *RBF) Activate(input []float64) ([]float64, error) {
	if len(input) != m.attributes {
		return nil, fmt.Errorf("rbf: wrong number of inputs: expected %d, got %d",
			m.attributes, len(input))
	}

	m.similarities = transfer.Gaussian(m.clusterer.Activate(input), m.variance)

	output, err := m.output.Activate(m.similarities)
	if err != nil {
		return nil, err
	}

	if m.scaleBySimilarity {
		m.totalSimilarity = floats.Sum(m.similarities)

		divisor := make([]float64, len(output))
		for i := range divisor {
			divisor[i] = m.totalSimilarity
		}
		output = transfer.ProtVecDiv(output, divisor)
	}

	return output, nil
}

// trainIncrement adjusts the output stage for a single pattern and returns
// its mean squared error. Activation happens immediately before the update
// so the cached similarities always belong to this pattern.
func (m *RBF) trainIncrement(input, target []float64) (float64, error) {
	output, err := m.Activate(input)
	if err != nil {
		return 0, err
	}
	if len(target) != len(output) {
		return 0, fmt.Errorf("%w: wrong number of targets: expected %d, got %d",
			net.ErrShape, len(output), len(target))
	}

	errs := make([]float64, len(output))
	var sum float64
	for i := range errs {
		errs[i] = target[i] - output[i]
		sum += errs[i] * errs[i]
	}
	mse := sum / float64(len(errs))

	if m.scaleBySimilarity {
		divisor := make([]float64, len(errs))
		for i := range divisor {
			divisor[i] = m.totalSimilarity
		}
		errs = transfer.ProtVecDiv(errs, divisor)
	}

	m.output.Update(m.similarities, output, errs)
	return mse, nil
}

// TrainStep adjusts the model for one batch: the output stage learns from
// every sample, then the clusterer takes one training step on the same
// batch. It returns the batch's mean squared error.
func (m *RBF) TrainStep(inputs, targets *mat.Dense) (float64, error) {
	rows, _ := inputs.Dims()

	var total float64
	for r := 0; r < rows; r++ {
		mse, err := m.trainIncrement(mat.Row(nil, r, inputs), mat.Row(nil, r, targets))
		if err != nil {
			return 0, err
		}
		total += mse
	}

	if _, err := m.clusterer.TrainStep(inputs, targets); err != nil {
		return 0, err
	}
	return total / float64(rows), nil
}
