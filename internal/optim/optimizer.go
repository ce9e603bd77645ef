// Package optim implements optimization algorithms for training neural networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers read gradients straight from nn.Parameter, so a step follows
// Backward on the loss.
//
// Example usage:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.05})
//
//	for epoch := range epochs {
//	    mark := tape.Mark()
//	    loss := computeLoss(model, data)
//	    loss.Backward()
//
//	    optimizer.Step()
//	    optimizer.ZeroGrad()
//	    tape.Truncate(mark)
//	}
package optim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/born-ml/microborn/internal/nn"
)

// ErrUnknownOptimizer is returned by New for an unsupported optimizer name.
var ErrUnknownOptimizer = errors.New("unknown optimizer")

// Optimizer is the base interface for all optimization algorithms.
//
// Optimizers update model parameters based on computed gradients to
// minimize the loss function during training.
type Optimizer interface {
	// Step applies gradient updates to all parameters.
	//
	// Gradients are read from each parameter, so Backward must have been
	// called on the loss first.
	Step()

	// ZeroGrad clears all parameter gradients.
	//
	// This should be called after each step to prevent gradient
	// accumulation from previous iterations.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate.
	SetLR(lr float64)

	// StateDict returns the optimizer state for serialization.
	StateDict() map[string]float64

	// LoadStateDict restores optimizer state saved by StateDict.
	LoadStateDict(stateDict map[string]float64) error
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR       float64 // Learning rate
	Momentum float64 // Momentum factor, used by SGD only
}

// New creates the optimizer registered under name ("sgd" or "adam").
func New(name string, params []*nn.Parameter, config Config) (Optimizer, error) {
	switch strings.ToLower(name) {
	case "sgd", "":
		return NewSGD(params, SGDConfig{LR: config.LR, Momentum: config.Momentum}), nil
	case "adam":
		return NewAdam(params, AdamConfig{LR: config.LR}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOptimizer, name)
	}
}

func zeroGrad(params []*nn.Parameter) {
	for _, param := range params {
		param.ZeroGrad()
	}
}
