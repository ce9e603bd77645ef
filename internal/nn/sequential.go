package nn

import (
	"fmt"

	"github.com/born-ml/microborn/internal/autodiff"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input, creating a
// sequential pipeline of transformations.
//
// Example:
//
//	hidden, _ := nn.NewLayer(tape, nn.LayerConfig{Inputs: 2, Outputs: 4})
//	output, _ := nn.NewLayer(tape, nn.LayerConfig{Inputs: 4, Outputs: 1})
//	model := nn.NewSequential(hidden, output)
//
//	outputs, err := model.Forward(inputs)
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{
		modules: modules,
	}
}

// Forward applies all modules in sequence.
//
// The output of each module becomes the input to the next module. An error
// is annotated with the index of the module that produced it.
func (s *Sequential) Forward(inputs []autodiff.Value) ([]autodiff.Value, error) {
	outputs := inputs

	for i, module := range s.modules {
		var err error
		outputs, err = module.Forward(outputs)
		if err != nil {
			return nil, fmt.Errorf("module %d: %w", i, err)
		}
	}

	return outputs, nil
}

// Parameters returns all trainable parameters from all modules, in order.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter

	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}

	return params
}

// Add appends a module to the sequence.
func (s *Sequential) Add(module Module) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential) Module(index int) Module {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}
