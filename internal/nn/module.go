// Package nn implements neural network modules on top of the scalar autodiff engine.
//
// This package provides building blocks for constructing neural networks:
//   - Module interface: Base interface for all NN components
//   - Parameter: Trainable leaf value with a name
//   - Neuron, Layer, MLP: Fully connected network of scalar neurons
//   - Activations: Sigmoid, Tanh
//   - Loss functions: MSE
//   - Sequential: Container for stacking modules
//
// Design inspired by PyTorch's nn.Module.
package nn

import (
	"github.com/born-ml/microborn/internal/autodiff"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute outputs from inputs
//   - Parameters: Return all trainable parameters
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential(
//	    layer1,
//	    nn.NewTanh(),
//	    layer2,
//	)
type Module interface {
	// Forward computes the outputs of the module for the given inputs.
	//
	// Returns ErrShapeMismatch when the number of inputs does not match
	// what the module expects. No node is created in that case.
	Forward(inputs []autodiff.Value) ([]autodiff.Value, error)

	// Parameters returns all trainable parameters of this module.
	//
	// Returns an empty slice for modules without trainable parameters
	// (e.g., activation functions).
	Parameters() []*Parameter
}
