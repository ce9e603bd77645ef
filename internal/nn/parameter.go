package nn

import (
	"github.com/born-ml/microborn/internal/autodiff"
)

// Parameter represents a trainable parameter in a neural network.
//
// A parameter is a named leaf value. It lives on the model's tape before any
// per-step mark, so it survives when training graphs are truncated.
//
// Example:
//
//	weight := nn.NewParameter("weight", tape.Scalar(0.5))
//
//	// Use in an expression
//	y := weight.Value().Mul(x)
//
//	// Get gradient after backward pass
//	grad := weight.Grad()
type Parameter struct {
	name  string         // Parameter name (e.g., "layers.0.neurons.1.bias")
	value autodiff.Value // Leaf node holding the parameter
}

// NewParameter creates a new trainable parameter.
//
// Panics if v is not a leaf.
func NewParameter(name string, v autodiff.Value) *Parameter {
	if !v.IsLeaf() {
		panic("nn.NewParameter: parameter must be a leaf value")
	}
	return &Parameter{
		name:  name,
		value: v,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the leaf node of the parameter.
func (p *Parameter) Value() autodiff.Value {
	return p.value
}

// Data returns the current parameter value.
func (p *Parameter) Data() float64 {
	return p.value.Data()
}

// SetData overwrites the parameter value.
func (p *Parameter) SetData(x float64) {
	p.value.SetData(x)
}

// Grad returns the gradient accumulated by the last backward pass.
func (p *Parameter) Grad() float64 {
	return p.value.Grad()
}

// ZeroGrad clears the gradient.
//
// This should be called after each training iteration to avoid
// accumulating gradients from previous iterations.
func (p *Parameter) ZeroGrad() {
	p.value.ZeroGrad()
}
