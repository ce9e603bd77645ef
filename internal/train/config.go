package train

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"

	"github.com/born-ml/microborn/internal/nn"
)

// Defaults applied to omitted configuration attributes.
const (
	DefaultEpochs       = 100
	DefaultLearningRate = 0.01
	DefaultActivation   = "sigmoid"
	DefaultOptimizer    = "sgd"
	DefaultLogEvery     = 5
	DefaultSeed         = 1
)

// ErrInvalidConfig is returned when a training configuration is rejected.
var ErrInvalidConfig = errors.New("invalid training configuration")

// Config describes a model, its optimizer and the data to fit.
//
// It is decoded from HCL:
//
//	inputs        = 2
//	layers        = [4, 1]
//	activation    = "tanh"
//	epochs        = 500
//	learning_rate = 0.1
//	checkpoint    = "xor.born"
//
//	sample {
//	  input  = [0, 1]
//	  target = [1]
//	}
type Config struct {
	Inputs       int      `hcl:"inputs"`
	Layers       []int    `hcl:"layers"`
	Activation   string   `hcl:"activation,optional"`
	Epochs       int      `hcl:"epochs,optional"`
	LearningRate float64  `hcl:"learning_rate,optional"`
	Momentum     float64  `hcl:"momentum,optional"`
	Optimizer    string   `hcl:"optimizer,optional"`
	LogEvery     int      `hcl:"log_every,optional"`
	Seed         int64    `hcl:"seed,optional"`
	Checkpoint   string   `hcl:"checkpoint,optional"`
	Samples      []Sample `hcl:"sample,block"`
}

// Sample is one training example. A sample without a target is trained to
// reproduce its input.
type Sample struct {
	Input  []float64 `hcl:"input"`
	Target []float64 `hcl:"target,optional"`
}

// Targets returns the target of s, falling back to its input.
func (s Sample) Targets() []float64 {
	if len(s.Target) == 0 {
		return s.Input
	}
	return s.Target
}

// LoadConfig reads and decodes the HCL file at path. Defaults are applied and
// the result is validated.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(path, src)
}

// ParseConfig decodes HCL source. filename is used in diagnostics and must
// end in ".hcl".
func ParseConfig(filename string, src []byte) (*Config, error) {
	var cfg Config
	if err := hclsimple.Decode(filename, src, nil, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills zero-valued attributes with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Epochs == 0 {
		c.Epochs = DefaultEpochs
	}
	if c.LearningRate == 0 {
		c.LearningRate = DefaultLearningRate
	}
	if c.Activation == "" {
		c.Activation = DefaultActivation
	}
	if c.Optimizer == "" {
		c.Optimizer = DefaultOptimizer
	}
	if c.LogEvery == 0 {
		c.LogEvery = DefaultLogEvery
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	fail := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if _, err := c.modelConfig(); err != nil {
		result = multierror.Append(result, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	if c.Epochs <= 0 {
		fail("epochs must be positive, got %d", c.Epochs)
	}
	if !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 0) {
		fail("learning_rate must be positive and finite, got %v", c.LearningRate)
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		fail("momentum must be in [0, 1), got %v", c.Momentum)
	}
	switch strings.ToLower(c.Optimizer) {
	case "sgd", "adam":
	default:
		fail("unknown optimizer %q", c.Optimizer)
	}
	if c.LogEvery < 0 {
		fail("log_every must not be negative, got %d", c.LogEvery)
	}
	if len(c.Samples) == 0 {
		fail("at least one sample block is required")
	}

	outputs := 0
	if len(c.Layers) > 0 {
		outputs = c.Layers[len(c.Layers)-1]
	}
	for i, s := range c.Samples {
		if len(s.Input) != c.Inputs {
			fail("sample %d has %d inputs, want %d", i, len(s.Input), c.Inputs)
		}
		if got := len(s.Targets()); got != outputs {
			fail("sample %d has %d targets, want %d", i, got, outputs)
		}
	}

	return result.ErrorOrNil()
}

// modelConfig builds the MLP configuration described by c, without a
// random source.
func (c *Config) modelConfig() (nn.MLPConfig, error) {
	activation, err := nn.ParseActivation(c.Activation)
	if err != nil {
		return nn.MLPConfig{}, err
	}
	cfg := nn.MLPConfig{
		Inputs:     c.Inputs,
		Layers:     c.Layers,
		Activation: activation,
	}
	return cfg, cfg.Validate()
}
