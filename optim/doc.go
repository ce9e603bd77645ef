// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// Optimizers read gradients directly from nn.Parameter values, so Step is
// called after Backward on the loss.
//
// # Training Loop Pattern
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.05})
//
//	for epoch := range numEpochs {
//	    mark := tape.Mark()
//
//	    // 1. Forward pass
//	    outputs, _ := model.Forward(tape.Scalars(x...))
//	    loss, _ := nn.MSELoss(outputs, tape.Scalars(y...))
//
//	    // 2. Backward pass
//	    loss.Backward()
//
//	    // 3. Update parameters and clear gradients
//	    optimizer.Step()
//	    optimizer.ZeroGrad()
//
//	    // 4. Drop the step's graph
//	    tape.Truncate(mark)
//	}
package optim
