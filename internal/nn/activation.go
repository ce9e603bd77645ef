package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/microborn/internal/autodiff"
)

// Activation selects the nonlinearity applied by a neuron.
type Activation uint8

// Supported activations.
const (
	ActivationSigmoid Activation = iota // σ(x) = 1 / (1 + exp(-x))
	ActivationTanh                      // tanh(x)
)

// String returns the activation name.
func (a Activation) String() string {
	switch a {
	case ActivationSigmoid:
		return "sigmoid"
	case ActivationTanh:
		return "tanh"
	default:
		return fmt.Sprintf("activation(%d)", uint8(a))
	}
}

// Valid reports whether a is a known activation.
func (a Activation) Valid() bool {
	return a == ActivationSigmoid || a == ActivationTanh
}

// Apply applies the activation to v.
func (a Activation) Apply(v autodiff.Value) autodiff.Value {
	switch a {
	case ActivationTanh:
		return v.Tanh()
	case ActivationSigmoid:
		return v.Sigmoid()
	default:
		panic(fmt.Sprintf("nn: unknown %s", a))
	}
}

// ParseActivation parses "sigmoid" or "tanh" (case-insensitive).
func ParseActivation(s string) (Activation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sigmoid":
		return ActivationSigmoid, nil
	case "tanh":
		return ActivationTanh, nil
	default:
		return 0, fmt.Errorf("%w: unknown activation %q", ErrInvalidConfig, s)
	}
}

// Sigmoid is a sigmoid activation module.
//
// Applies the element-wise function: σ(x) = 1 / (1 + exp(-x))
//
// Example:
//
//	sigmoid := nn.NewSigmoid()
//	outputs, _ := sigmoid.Forward(inputs) // Values in range (0, 1)
type Sigmoid struct{}

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid() *Sigmoid {
	return &Sigmoid{}
}

// Forward applies Sigmoid to every input.
func (s *Sigmoid) Forward(inputs []autodiff.Value) ([]autodiff.Value, error) {
	return applyAll(ActivationSigmoid, inputs), nil
}

// Parameters returns an empty slice (Sigmoid has no trainable parameters).
func (s *Sigmoid) Parameters() []*Parameter {
	return nil
}

// Tanh is a hyperbolic tangent activation module.
//
// Tanh squashes values to the range (-1, 1), making it zero-centered
// which can help with training.
type Tanh struct{}

// NewTanh creates a new Tanh activation module.
func NewTanh() *Tanh {
	return &Tanh{}
}

// Forward applies Tanh to every input.
func (t *Tanh) Forward(inputs []autodiff.Value) ([]autodiff.Value, error) {
	return applyAll(ActivationTanh, inputs), nil
}

// Parameters returns an empty slice (Tanh has no trainable parameters).
func (t *Tanh) Parameters() []*Parameter {
	return nil
}

func applyAll(a Activation, inputs []autodiff.Value) []autodiff.Value {
	out := make([]autodiff.Value, len(inputs))
	for i, v := range inputs {
		out[i] = a.Apply(v)
	}
	return out
}
