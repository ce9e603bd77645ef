package nn

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/born-ml/microborn/internal/autodiff"
)

// MLPConfig configures a multi-layer perceptron.
type MLPConfig struct {
	Inputs     int         // Number of model inputs
	Layers     []int       // Neuron count of each layer; the last one is the output width
	Activation Activation  // Activation of every neuron (default: sigmoid)
	Init       Initializer // Parameter initializer (default: Uniform(-1, 1))
	Rand       *rand.Rand  // Random source for Init (default: seeded with 1)
}

// Validate reports every problem with the configuration at once.
func (c MLPConfig) Validate() error {
	var result *multierror.Error

	if c.Inputs <= 0 {
		result = multierror.Append(result, fmt.Errorf("%w: inputs must be positive, got %d", ErrInvalidConfig, c.Inputs))
	}
	if len(c.Layers) == 0 {
		result = multierror.Append(result, fmt.Errorf("%w: at least one layer is required", ErrInvalidConfig))
	}
	for i, n := range c.Layers {
		if n <= 0 {
			result = multierror.Append(result, fmt.Errorf("%w: layer %d must have at least one neuron, got %d", ErrInvalidConfig, i, n))
		}
	}
	if !c.Activation.Valid() {
		result = multierror.Append(result, fmt.Errorf("%w: unknown %s", ErrInvalidConfig, c.Activation))
	}

	return result.ErrorOrNil()
}

// Describe returns the architecture as string metadata, suitable for
// storing next to a checkpoint.
func (c MLPConfig) Describe() map[string]string {
	sizes := make([]string, len(c.Layers))
	for i, n := range c.Layers {
		sizes[i] = strconv.Itoa(n)
	}
	return map[string]string{
		"inputs":     strconv.Itoa(c.Inputs),
		"layers":     strings.Join(sizes, ","),
		"activation": c.Activation.String(),
	}
}

// MLP is a stack of fully connected layers.
//
// Layer i has Layers[i] neurons, each taking the outputs of layer i-1 (or
// the model inputs for the first layer). Every neuron uses the same
// activation, including the output layer.
//
// Example:
//
//	tape := autodiff.NewTape()
//	model, err := nn.NewMLP(tape, nn.MLPConfig{Inputs: 3, Layers: []int{4, 4, 1}})
//	outputs, err := model.Forward(tape.Scalars(2.0, 3.0, -1.0))
type MLP struct {
	config MLPConfig
	layers []*Layer
	seq    *Sequential
}

// NewMLP creates an MLP whose parameters are leaves on tape.
func NewMLP(tape *autodiff.Tape, config MLPConfig) (*MLP, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Rand == nil {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		config.Rand = rand.New(rand.NewSource(1))
	}
	config.Layers = append([]int(nil), config.Layers...)

	m := &MLP{
		config: config,
		layers: make([]*Layer, len(config.Layers)),
		seq:    NewSequential(),
	}

	inputs := config.Inputs
	for i, outputs := range config.Layers {
		layer, err := NewLayer(tape, LayerConfig{
			Inputs:     inputs,
			Outputs:    outputs,
			Activation: config.Activation,
			Init:       config.Init,
			Rand:       config.Rand,
			Name:       fmt.Sprintf("layers.%d", i),
		})
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		m.layers[i] = layer
		m.seq.Add(layer)
		inputs = outputs
	}

	return m, nil
}

// Forward runs inputs through every layer and returns the outputs of the
// last one.
func (m *MLP) Forward(inputs []autodiff.Value) ([]autodiff.Value, error) {
	if len(inputs) != m.config.Inputs {
		return nil, fmt.Errorf("%w: model expects %d inputs, got %d", ErrShapeMismatch, m.config.Inputs, len(inputs))
	}
	outputs, err := m.seq.Forward(inputs)
	if err != nil {
		return nil, fmt.Errorf("mlp: %w", err)
	}
	return outputs, nil
}

// Parameters returns every weight and bias, layer by layer.
func (m *MLP) Parameters() []*Parameter {
	return m.seq.Parameters()
}

// NumParameters returns the number of scalar parameters.
func (m *MLP) NumParameters() int {
	return len(m.Parameters())
}

// Layers returns the layers of the model.
func (m *MLP) Layers() []*Layer {
	return m.layers
}

// Config returns the configuration the model was built with.
func (m *MLP) Config() MLPConfig {
	return m.config
}

// Inputs returns the number of model inputs.
func (m *MLP) Inputs() int {
	return m.config.Inputs
}

// Outputs returns the width of the last layer.
func (m *MLP) Outputs() int {
	return m.config.Layers[len(m.config.Layers)-1]
}
