package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/microborn/internal/autodiff"
)

// LayerConfig configures a fully connected layer of neurons.
type LayerConfig struct {
	Inputs     int         // Inputs per neuron
	Outputs    int         // Number of neurons
	Activation Activation  // Activation of every neuron
	Init       Initializer // Parameter initializer (default: Uniform(-1, 1))
	Rand       *rand.Rand  // Random source for Init (default: seeded with 1)
	Name       string      // Parameter name prefix
}

// Layer applies N independent neurons to the same inputs.
//
// Example:
//
//	layer, err := nn.NewLayer(tape, nn.LayerConfig{Inputs: 3, Outputs: 4})
//	outputs, err := layer.Forward(inputs) // 4 values
type Layer struct {
	neurons []*Neuron
	inputs  int
}

// NewLayer creates a layer whose parameters are leaves on tape.
func NewLayer(tape *autodiff.Tape, config LayerConfig) (*Layer, error) {
	if config.Outputs <= 0 {
		return nil, fmt.Errorf("%w: layer needs at least one neuron, got %d", ErrInvalidConfig, config.Outputs)
	}
	if config.Rand == nil {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		config.Rand = rand.New(rand.NewSource(1))
	}
	if config.Name != "" {
		config.Name += "."
	}

	neurons := make([]*Neuron, config.Outputs)
	for i := range neurons {
		n, err := NewNeuron(tape, NeuronConfig{
			Inputs:     config.Inputs,
			FanOut:     config.Outputs,
			Activation: config.Activation,
			Init:       config.Init,
			Rand:       config.Rand,
			Name:       fmt.Sprintf("%sneurons.%d", config.Name, i),
		})
		if err != nil {
			return nil, fmt.Errorf("neuron %d: %w", i, err)
		}
		neurons[i] = n
	}

	return &Layer{
		neurons: neurons,
		inputs:  config.Inputs,
	}, nil
}

// Forward evaluates every neuron on inputs.
func (l *Layer) Forward(inputs []autodiff.Value) ([]autodiff.Value, error) {
	if len(inputs) != l.inputs {
		return nil, fmt.Errorf("%w: layer expects %d inputs, got %d", ErrShapeMismatch, l.inputs, len(inputs))
	}

	outputs := make([]autodiff.Value, len(l.neurons))
	for i, n := range l.neurons {
		out, err := n.Apply(inputs)
		if err != nil {
			return nil, fmt.Errorf("neuron %d: %w", i, err)
		}
		outputs[i] = out
	}
	return outputs, nil
}

// Parameters returns the parameters of every neuron, in order.
func (l *Layer) Parameters() []*Parameter {
	var params []*Parameter
	for _, n := range l.neurons {
		params = append(params, n.Parameters()...)
	}
	return params
}

// Neurons returns the neurons of the layer.
func (l *Layer) Neurons() []*Neuron {
	return l.neurons
}

// InFeatures returns the number of inputs.
func (l *Layer) InFeatures() int {
	return l.inputs
}

// OutFeatures returns the number of neurons.
func (l *Layer) OutFeatures() int {
	return len(l.neurons)
}
