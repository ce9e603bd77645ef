package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/microborn/internal/autodiff"
)

// NeuronConfig configures a single neuron.
type NeuronConfig struct {
	Inputs     int         // Number of inputs (and weights)
	FanOut     int         // Width of the owning layer, used by Xavier
	Activation Activation  // Nonlinearity applied to the weighted sum
	Init       Initializer // Parameter initializer (default: Uniform(-1, 1))
	Rand       *rand.Rand  // Random source for Init (default: seeded with 1)
	Name       string      // Parameter name prefix
}

// Neuron computes activation(Σ wᵢxᵢ + b).
//
// Example:
//
//	n, err := nn.NewNeuron(tape, nn.NeuronConfig{Inputs: 2, Activation: nn.ActivationTanh})
//	out, err := n.Apply(tape.Scalars(1.0, -2.0))
type Neuron struct {
	weights    []*Parameter
	bias       *Parameter
	activation Activation
}

// NewNeuron creates a neuron whose parameters are leaves on tape.
func NewNeuron(tape *autodiff.Tape, config NeuronConfig) (*Neuron, error) {
	if config.Inputs <= 0 {
		return nil, fmt.Errorf("%w: neuron needs at least one input, got %d", ErrInvalidConfig, config.Inputs)
	}
	if !config.Activation.Valid() {
		return nil, fmt.Errorf("%w: unknown %s", ErrInvalidConfig, config.Activation)
	}
	config = config.withDefaults()

	weights := make([]*Parameter, config.Inputs)
	for i := range weights {
		x := config.Init(config.Rand, config.Inputs, config.FanOut)
		weights[i] = NewParameter(fmt.Sprintf("%sweight.%d", config.Name, i), tape.Scalar(x))
	}
	b := config.Init(config.Rand, config.Inputs, config.FanOut)

	return &Neuron{
		weights:    weights,
		bias:       NewParameter(config.Name+"bias", tape.Scalar(b)),
		activation: config.Activation,
	}, nil
}

func (c NeuronConfig) withDefaults() NeuronConfig {
	if c.Init == nil {
		c.Init = Uniform(-1, 1)
	}
	if c.Rand == nil {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		c.Rand = rand.New(rand.NewSource(1))
	}
	if c.FanOut <= 0 {
		c.FanOut = 1
	}
	if c.Name != "" && c.Name[len(c.Name)-1] != '.' {
		c.Name += "."
	}
	return c
}

// Apply evaluates the neuron and returns its single output node.
//
// The input count is checked before any node is created.
func (n *Neuron) Apply(inputs []autodiff.Value) (autodiff.Value, error) {
	if len(inputs) != len(n.weights) {
		return autodiff.Value{}, fmt.Errorf("%w: neuron expects %d inputs, got %d",
			ErrShapeMismatch, len(n.weights), len(inputs))
	}

	terms := make([]autodiff.Value, len(inputs))
	for i, x := range inputs {
		terms[i] = n.weights[i].Value().Mul(x)
	}
	z := autodiff.Sum(terms[0], terms[1:]...).Add(n.bias.Value())

	return n.activation.Apply(z), nil
}

// Forward implements Module. It returns a single output.
func (n *Neuron) Forward(inputs []autodiff.Value) ([]autodiff.Value, error) {
	out, err := n.Apply(inputs)
	if err != nil {
		return nil, err
	}
	return []autodiff.Value{out}, nil
}

// Parameters returns the weights followed by the bias.
func (n *Neuron) Parameters() []*Parameter {
	params := make([]*Parameter, 0, len(n.weights)+1)
	params = append(params, n.weights...)
	return append(params, n.bias)
}

// Weights returns the weight parameters.
func (n *Neuron) Weights() []*Parameter {
	return n.weights
}

// Bias returns the bias parameter.
func (n *Neuron) Bias() *Parameter {
	return n.bias
}

// Activation returns the configured activation.
func (n *Neuron) Activation() Activation {
	return n.activation
}
