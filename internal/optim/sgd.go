package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/microborn/internal/nn"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Momentum helps accelerate SGD in relevant directions and dampens oscillations.
//
// Example:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
type SGD struct {
	params     []*nn.Parameter
	lr         float64
	momentum   float64
	velocities []float64 // Indexed like params; nil until the first momentum step
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	// Set defaults
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:   params,
		lr:       config.LR,
		momentum: config.Momentum,
	}
}

// Step performs a single optimization step.
func (s *SGD) Step() {
	if s.momentum == 0 {
		for _, param := range s.params {
			param.SetData(param.Data() - s.lr*param.Grad())
		}
		return
	}

	if s.velocities == nil {
		s.velocities = make([]float64, len(s.params))
	}
	for i, param := range s.params {
		s.velocities[i] = s.momentum*s.velocities[i] + param.Grad()
		param.SetData(param.Data() - s.lr*s.velocities[i])
	}
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	zeroGrad(s.params)
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// Name returns "SGD".
func (s *SGD) Name() string {
	return "SGD"
}

// Hyperparameters returns the learning rate and momentum.
func (s *SGD) Hyperparameters() map[string]float64 {
	return map[string]float64{"lr": s.lr, "momentum": s.momentum}
}

// StateDict returns the optimizer state for serialization.
//
// For SGD with momentum, this exports the velocity of each parameter.
// Without momentum, or before the first step, returns an empty map.
//
// State keys: "velocity.{param_index}".
func (s *SGD) StateDict() map[string]float64 {
	stateDict := make(map[string]float64)

	for i, v := range s.velocities {
		stateDict[fmt.Sprintf("velocity.%d", i)] = v
	}

	return stateDict
}

// LoadStateDict loads optimizer state from serialization.
//
// If momentum is 0, ignores the provided state. Missing velocities are
// treated as zero; non-finite ones are rejected.
func (s *SGD) LoadStateDict(stateDict map[string]float64) error {
	if s.momentum == 0 || len(stateDict) == 0 {
		s.velocities = nil
		return nil
	}

	velocities := make([]float64, len(s.params))
	for i := range s.params {
		v, exists := stateDict[fmt.Sprintf("velocity.%d", i)]
		if !exists {
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("velocity for parameter %d is not finite: %v", i, v)
		}
		velocities[i] = v
	}
	s.velocities = velocities

	return nil
}
