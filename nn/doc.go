// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks on top of the scalar
// autodiff engine.
//
// # Overview
//
// This package contains:
//   - Neuron, Layer, MLP: fully connected networks of scalar neurons
//   - Activations: Sigmoid, Tanh
//   - Loss functions: MSELoss
//   - Utilities: Sequential, Module interface, Parameter, state dicts
//   - Initialization: Uniform, Xavier, Constant
//   - Checkpoints: model and optimizer state in the .born format
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/microborn/autodiff"
//	    "github.com/born-ml/microborn/nn"
//	)
//
//	func main() {
//	    tape := autodiff.NewTape()
//
//	    model, err := nn.NewMLP(tape, nn.MLPConfig{
//	        Inputs:     3,
//	        Layers:     []int{4, 4, 1},
//	        Activation: nn.ActivationTanh,
//	    })
//
//	    outputs, err := model.Forward(tape.Scalars(2.0, 3.0, -1.0))
//	}
//
// # Parameters and the tape
//
// Model parameters are leaves created on the tape when the model is built.
// Per-step graphs should be recorded after a tape.Mark() and dropped with
// tape.Truncate so that the tape does not grow across training steps:
//
//	mark := tape.Mark()
//	outputs, _ := model.Forward(tape.Scalars(x...))
//	loss, _ := nn.MSELoss(outputs, tape.Scalars(y...))
//	loss.Backward()
//	optimizer.Step()
//	optimizer.ZeroGrad()
//	tape.Truncate(mark)
//
// # Saving and Loading
//
//	err := nn.Save(afero.NewOsFs(), model, "model.born", model.Config().Describe())
//	header, err := nn.Load(afero.NewOsFs(), "model.born", model)
package nn
