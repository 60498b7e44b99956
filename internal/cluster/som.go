// Package cluster provides the self-organizing-map clusterer consumed by
// the radial-basis-function model.
package cluster

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/vpfeiffer/learning/internal/transfer"
)

// SOM is a one-dimensional self-organizing map. Each node holds a center
// vector; activation reports the Euclidean distance from the input to every
// center, and training moves the nearest node and its index neighborhood
// toward each input.
type SOM struct {
	MoveRate         float64
	Neighborhood     int
	NeighborMoveRate float64

	attributes int
	centers    *mat.Dense
}

// NewSOM creates a map of numNodes centers over the given attribute count.
func NewSOM(attributes, numNodes int, moveRate float64, neighborhood int, neighborMoveRate float64) *SOM {
	s := &SOM{
		MoveRate:         moveRate,
		Neighborhood:     neighborhood,
		NeighborMoveRate: neighborMoveRate,
		attributes:       attributes,
		centers:          mat.NewDense(numNodes, attributes, nil),
	}
	s.Reset()
	return s
}

// Reset redraws every center uniformly in [-1, 1).
func (s *SOM) Reset() {
	rows, cols := s.centers.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			s.centers.Set(i, j, 2*rand.Float64()-1)
		}
	}
}

// Activate returns the distance from the input to every center.
func (s *SOM) Activate(input []float64) []float64 {
	rows, _ := s.centers.Dims()
	distances := make([]float64, rows)
	for i := 0; i < rows; i++ {
		distances[i] = transfer.Distance(input, mat.Row(nil, i, s.centers))
	}
	return distances
}

// nearest returns the index of the closest center and its distance.
func (s *SOM) nearest(input []float64) (int, float64) {
	distances := s.Activate(input)
	best := 0
	for i, d := range distances {
		if d < distances[best] {
			best = i
		}
	}
	return best, distances[best]
}

// move pulls center i toward the input by rate.
func (s *SOM) move(i int, input []float64, rate float64) {
	for j := 0; j < s.attributes; j++ {
		w := s.centers.At(i, j)
		s.centers.Set(i, j, w+rate*(input[j]-w))
	}
}

// TrainStep adjusts centers for one batch of inputs in rows and returns the
// mean distance from each input to its nearest center. Targets are unused;
// clustering is unsupervised, the argument exists to satisfy the sub-model
// contract.
func (s *SOM) TrainStep(inputs, targets *mat.Dense) (float64, error) {
	rows, _ := inputs.Dims()
	numNodes, _ := s.centers.Dims()

	var total float64
	for r := 0; r < rows; r++ {
		input := mat.Row(nil, r, inputs)
		best, distance := s.nearest(input)
		total += distance

		s.move(best, input, s.MoveRate)
		for offset := 1; offset <= s.Neighborhood; offset++ {
			// Neighbor pull falls off linearly with index distance.
			rate := s.MoveRate * s.NeighborMoveRate * (1 - float64(offset)/float64(s.Neighborhood+1))
			if i := best - offset; i >= 0 {
				s.move(i, input, rate)
			}
			if i := best + offset; i < numNodes {
				s.move(i, input, rate)
			}
		}
	}
	return total / float64(rows), nil
}

// Train repeats TrainStep until the mean nearest distance drops below
// errorBreak or the iteration budget runs out.
func (s *SOM) Train(inputs, targets *mat.Dense, iterations int, errorBreak float64) error {
	for i := 0; i < iterations; i++ {
		distance, err := s.TrainStep(inputs, targets)
		if err != nil {
			return err
		}
		if distance < errorBreak {
			return nil
		}
	}
	return nil
}
