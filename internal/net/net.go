// Package net composes layers into a trainable feed-forward network.
package net

import (
	"errors"
	"fmt"
	"io"

	"github.com/vpfeiffer/learning/internal/layer"
)

// ErrShape is wrapped by errors caused by input or target vectors whose
// length does not match a declared arity.
var ErrShape = errors.New("shape mismatch")

// ErrStructure is wrapped by errors caused by adjacent layers whose declared
// arities or capabilities are incompatible. These surface at construction,
// never during activation or training.
var ErrStructure = errors.New("incompatible layers")

// Pattern is one (input, target) training example.
type Pattern struct {
	Input  []float64
	Target []float64
}

// Network is an ordered composition of layers. The layer sequence is
// validated once at construction and fixed afterwards.
type Network struct {
	layers []layer.Layer

	numInputs  layer.Arity
	numOutputs layer.Arity

	iteration int
	converged bool
}

// New validates the layer chain and builds a network from it. Every adjacent
// pair must have compatible arities, and each layer must carry all
// capabilities its neighbors require of it.
func New(layers ...layer.Layer) (*Network, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: network needs at least one layer", ErrStructure)
	}

	for i := 0; i < len(layers)-1; i++ {
		prev, next := layers[i], layers[i+1]

		if !prev.NumOutputs().Compatible(next.NumInputs()) {
			return nil, fmt.Errorf("%w: layer %d produces %d outputs, layer %d expects %d inputs",
				ErrStructure, i+1, prev.NumOutputs(), i+2, next.NumInputs())
		}
		if !next.Attributes().HasAll(prev.RequiresNext()) {
			return nil, fmt.Errorf("%w: layer %d requires capabilities %b of its successor, layer %d has %b",
				ErrStructure, i+1, prev.RequiresNext(), i+2, next.Attributes())
		}
		if !prev.Attributes().HasAll(next.RequiresPrev()) {
			return nil, fmt.Errorf("%w: layer %d requires capabilities %b of its predecessor, layer %d has %b",
				ErrStructure, i+2, next.RequiresPrev(), i+1, prev.Attributes())
		}
	}

	return &Network{
		layers:     layers,
		numInputs:  findNumInputs(layers),
		numOutputs: findNumOutputs(layers),
	}, nil
}

// findNumInputs returns the first fixed input arity scanning forward.
func findNumInputs(layers []layer.Layer) layer.Arity {
	for _, l := range layers {
		if l.NumInputs() != layer.Any {
			return l.NumInputs()
		}
	}
	return layer.Any
}

// findNumOutputs returns the last fixed output arity scanning backward.
func findNumOutputs(layers []layer.Layer) layer.Arity {
	for i := len(layers) - 1; i >= 0; i-- {
		if layers[i].NumOutputs() != layer.Any {
			return layers[i].NumOutputs()
		}
	}
	return layer.Any
}

// NumInputs returns the derived input arity of the whole chain.
func (n *Network) NumInputs() layer.Arity { return n.numInputs }

// NumOutputs returns the derived output arity of the whole chain.
func (n *Network) NumOutputs() layer.Arity { return n.numOutputs }

// Iteration returns the epoch counter of the most recent training call.
func (n *Network) Iteration() int { return n.iteration }

// Converged reports whether the most recent training call ended by reaching
// the error break rather than exhausting its iteration budget.
func (n *Network) Converged() bool { return n.converged }

// forward feeds inputs through every layer and returns the activation
// trace: index 0 is the raw input, index i+1 is layer i's output. The trace
// is rebuilt on every call and threaded explicitly into Update so each layer
// sees exactly the input it received.
func (n *Network) forward(inputs []float64) ([][]float64, error) {
	if n.numInputs != layer.Any && len(inputs) != int(n.numInputs) {
		return nil, fmt.Errorf("%w: wrong number of inputs: expected %d, got %d",
			ErrShape, n.numInputs, len(inputs))
	}

	trace := make([][]float64, 0, len(n.layers)+1)
	trace = append(trace, inputs)
	for i, l := range n.layers {
		var err error
		inputs, err = l.Activate(inputs)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i+1, err)
		}
		trace = append(trace, inputs)
	}
	return trace, nil
}

// Activate returns the network outputs for the given inputs.
func (n *Network) Activate(inputs []float64) ([]float64, error) {
	trace, err := n.forward(inputs)
	if err != nil {
		return nil, err
	}
	return trace[len(trace)-1], nil
}

// Update adjusts the network towards the targets for the given inputs and
// returns the output error signal (target minus output).
//
// Layers are visited in reverse. For each layer the predecessor's error is
// computed before the layer mutates its weights, so propagation always uses
// the weights that produced the activation. The derivative signal for the
// next step is then taken from the layer's Outputs on its recorded input.
func (n *Network) Update(inputs, targets []float64) ([]float64, error) {
	if n.numOutputs != layer.Any && len(targets) != int(n.numOutputs) {
		return nil, fmt.Errorf("%w: wrong number of targets: expected %d, got %d",
			ErrShape, n.numOutputs, len(targets))
	}

	trace, err := n.forward(inputs)
	if err != nil {
		return nil, err
	}
	outputs := trace[len(trace)-1]

	// The arity check above cannot catch a mismatch when the chain derives
	// Any, so the actual output length is the authority.
	if len(targets) != len(outputs) {
		return nil, fmt.Errorf("%w: wrong number of targets: expected %d, got %d",
			ErrShape, len(outputs), len(targets))
	}

	errs := make([]float64, len(outputs))
	for i := range errs {
		errs[i] = targets[i] - outputs[i]
	}
	outputErrors := make([]float64, len(errs))
	copy(outputErrors, errs)

	for i := len(n.layers) - 1; i >= 0; i-- {
		l := n.layers[i]
		recorded := trace[i]

		prevErrors := l.PrevErrors(errs, outputs)
		l.Update(recorded, outputs, errs)

		outputs = l.Outputs(recorded, outputs)
		errs = prevErrors
	}

	return outputErrors, nil
}

// Reset resets every layer in the network.
func (n *Network) Reset() {
	for _, l := range n.layers {
		l.Reset()
	}
}

// Error returns the mean squared error for one pattern.
func (n *Network) Error(p Pattern) (float64, error) {
	outputs, err := n.Activate(p.Input)
	if err != nil {
		return 0, err
	}
	if len(p.Target) != len(outputs) {
		return 0, fmt.Errorf("%w: wrong number of targets: expected %d, got %d",
			ErrShape, len(outputs), len(p.Target))
	}
	return meanSquared(outputs, p.Target), nil
}

// AvgError returns the mean squared error averaged over a set of patterns.
func (n *Network) AvgError(patterns []Pattern) (float64, error) {
	var sum float64
	for _, p := range patterns {
		e, err := n.Error(p)
		if err != nil {
			return 0, err
		}
		sum += e
	}
	return sum / float64(len(patterns)), nil
}

// Test writes each pattern's input and the network's output for it.
func (n *Network) Test(w io.Writer, patterns []Pattern) error {
	for _, p := range patterns {
		outputs, err := n.Activate(p.Input)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%v -> %v\n", p.Input, outputs)
	}
	return nil
}

func meanSquared(outputs, targets []float64) float64 {
	var sum float64
	for i := range outputs {
		d := outputs[i] - targets[i]
		sum += d * d
	}
	return sum / float64(len(outputs))
}
