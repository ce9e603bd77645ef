// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/spf13/afero"

	"github.com/born-ml/microborn/autodiff"
	"github.com/born-ml/microborn/internal/nn"
	"github.com/born-ml/microborn/internal/serialization"
)

// Module interface defines the common interface for all neural network modules.
type Module = nn.Module

// Parameter represents a trainable parameter in a neural network.
type Parameter = nn.Parameter

// NewParameter creates a new parameter with the given name and leaf value.
func NewParameter(name string, v autodiff.Value) *Parameter {
	return nn.NewParameter(name, v)
}

// Layers

// Neuron computes activation(Σ wᵢxᵢ + b).
type Neuron = nn.Neuron

// NeuronConfig configures a Neuron.
type NeuronConfig = nn.NeuronConfig

// NewNeuron creates a neuron whose parameters are leaves on tape.
func NewNeuron(tape *autodiff.Tape, config NeuronConfig) (*Neuron, error) {
	return nn.NewNeuron(tape, config)
}

// Layer applies N independent neurons to the same inputs.
type Layer = nn.Layer

// LayerConfig configures a Layer.
type LayerConfig = nn.LayerConfig

// NewLayer creates a layer whose parameters are leaves on tape.
func NewLayer(tape *autodiff.Tape, config LayerConfig) (*Layer, error) {
	return nn.NewLayer(tape, config)
}

// MLP is a stack of fully connected layers.
type MLP = nn.MLP

// MLPConfig configures an MLP.
type MLPConfig = nn.MLPConfig

// NewMLP creates an MLP whose parameters are leaves on tape.
//
// Example:
//
//	tape := autodiff.NewTape()
//	model, err := nn.NewMLP(tape, nn.MLPConfig{Inputs: 3, Layers: []int{4, 4, 1}})
func NewMLP(tape *autodiff.Tape, config MLPConfig) (*MLP, error) {
	return nn.NewMLP(tape, config)
}

// Sequential is a container that chains modules together.
type Sequential = nn.Sequential

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// Activations

// Activation selects the nonlinearity applied by a neuron.
type Activation = nn.Activation

// Supported activations.
const (
	ActivationSigmoid = nn.ActivationSigmoid
	ActivationTanh    = nn.ActivationTanh
)

// ParseActivation parses "sigmoid" or "tanh".
func ParseActivation(s string) (Activation, error) {
	return nn.ParseActivation(s)
}

// Sigmoid is a sigmoid activation module.
type Sigmoid = nn.Sigmoid

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid() *Sigmoid {
	return nn.NewSigmoid()
}

// Tanh is a hyperbolic tangent activation module.
type Tanh = nn.Tanh

// NewTanh creates a new Tanh activation module.
func NewTanh() *Tanh {
	return nn.NewTanh()
}

// Initialization

// Initializer draws the initial value of one parameter.
type Initializer = nn.Initializer

// Uniform draws values from U(lo, hi).
func Uniform(lo, hi float64) Initializer {
	return nn.Uniform(lo, hi)
}

// Xavier draws values from the Glorot uniform distribution.
func Xavier() Initializer {
	return nn.Xavier()
}

// Constant sets every parameter to c.
func Constant(c float64) Initializer {
	return nn.Constant(c)
}

// Loss functions

// Loss reduces predictions and targets to a scalar.
type Loss = nn.Loss

// MSELoss computes Σ(predictions - targets)² / n.
func MSELoss(predictions, targets []autodiff.Value) (autodiff.Value, error) {
	return nn.MSELoss(predictions, targets)
}

// SumSquaredError computes Σ(predictions - targets)².
func SumSquaredError(predictions, targets []autodiff.Value) (autodiff.Value, error) {
	return nn.SumSquaredError(predictions, targets)
}

// State

// StateDict returns a map of parameter names to their current values.
func StateDict(m Module) map[string]float64 {
	return nn.StateDict(m)
}

// LoadStateDict copies values from state into the parameters of m.
func LoadStateDict(m Module, state map[string]float64) error {
	return nn.LoadStateDict(m, state)
}

// Header is the metadata block of a .born file.
type Header = serialization.Header

// Save writes the parameters of m to a .born file.
func Save(fs afero.Fs, m Module, path string, metadata map[string]string) error {
	return nn.Save(fs, m, path, metadata)
}

// Load reads a .born file into m and returns its header.
func Load(fs afero.Fs, path string, m Module) (Header, error) {
	return nn.Load(fs, path, m)
}

// Checkpoint represents a complete training state snapshot.
type Checkpoint = nn.Checkpoint

// OptimizerState represents an optimizer that can save/load its state.
type OptimizerState = nn.OptimizerState

// LoadCheckpoint loads a checkpoint into a pre-constructed model and optimizer.
func LoadCheckpoint(fs afero.Fs, path string, model Module, optimizer OptimizerState) (*Checkpoint, error) {
	return nn.LoadCheckpoint(fs, path, model, optimizer)
}

// Errors
var (
	ErrShapeMismatch = nn.ErrShapeMismatch
	ErrInvalidConfig = nn.ErrInvalidConfig
	ErrNotCheckpoint = nn.ErrNotCheckpoint
)
