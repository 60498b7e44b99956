// Package layer provides the computation stages composed by a network.
package layer

// Arity is a declared input or output width. The zero value Any is
// compatible with every width.
type Arity int

// Any marks a layer that accepts or produces vectors of any length.
const Any Arity = 0

// Compatible reports whether two adjacent arities line up.
func (a Arity) Compatible(b Arity) bool {
	return a == Any || b == Any || a == b
}

// Capability is a structural trait a layer can declare. Adjacent layers are
// checked against each other's requirements once, at network construction.
type Capability uint8

const (
	// CapSimilarity marks layers whose outputs are bounded similarity
	// scores, such as a gaussian transfer.
	CapSimilarity Capability = 1 << iota

	// CapGrowing marks layers that can add output neurons.
	CapGrowing

	// CapSupportsGrowing marks layers that accept new inputs from a
	// growing predecessor.
	CapSupportsGrowing
)

// CapabilitySet is a set of capabilities.
type CapabilitySet uint8

// Caps builds a set from individual capabilities.
func Caps(caps ...Capability) CapabilitySet {
	var s CapabilitySet
	for _, c := range caps {
		s |= CapabilitySet(c)
	}
	return s
}

// HasAll reports whether every capability in required is present in s.
func (s CapabilitySet) HasAll(required CapabilitySet) bool {
	return s&required == required
}

// Layer is one stage of a feed-forward computation.
//
// Activate is a pure function of the inputs and current weights. Update
// mutates weights in place; it is a no-op for stateless layers. PrevErrors
// maps this layer's incoming error signal to the signal its predecessor
// should receive, and must be computed from pre-update weights. Outputs
// supplies the derivative-like signal handed to the preceding layer during
// backpropagation; stateful layers return the recorded inputs unchanged,
// transfer layers return their local derivative evaluated at outputs.
type Layer interface {
	Reset()
	Activate(inputs []float64) ([]float64, error)
	PrevErrors(errors, outputs []float64) []float64
	Update(inputs, outputs, errors []float64)
	Outputs(inputs, outputs []float64) []float64

	NumInputs() Arity
	NumOutputs() Arity
	Attributes() CapabilitySet
	RequiresPrev() CapabilitySet
	RequiresNext() CapabilitySet
}

// Base carries the declared shape and structural contract of a layer.
// Concrete layers embed it and implement the computational methods.
type Base struct {
	In, Out Arity
	Attrs   CapabilitySet
	ReqPrev CapabilitySet
	ReqNext CapabilitySet
}

func (b Base) NumInputs() Arity            { return b.In }
func (b Base) NumOutputs() Arity           { return b.Out }
func (b Base) Attributes() CapabilitySet   { return b.Attrs }
func (b Base) RequiresPrev() CapabilitySet { return b.ReqPrev }
func (b Base) RequiresNext() CapabilitySet { return b.ReqNext }
