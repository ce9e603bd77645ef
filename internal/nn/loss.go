package nn

import (
	"fmt"

	"github.com/born-ml/microborn/internal/autodiff"
)

// Loss reduces predictions and targets of equal length to a scalar.
type Loss func(predictions, targets []autodiff.Value) (autodiff.Value, error)

// MSELoss computes Mean Squared Error loss.
//
// Loss = Σ(predictions - targets)² / n
//
// Both slices must be non-empty and of equal length.
//
// Example:
//
//	outputs, _ := model.Forward(inputs)
//	loss, err := nn.MSELoss(outputs, tape.Scalars(targets...))
//	loss.Backward()
func MSELoss(predictions, targets []autodiff.Value) (autodiff.Value, error) {
	if len(predictions) == 0 || len(predictions) != len(targets) {
		return autodiff.Value{}, fmt.Errorf("%w: %d predictions vs %d targets",
			ErrShapeMismatch, len(predictions), len(targets))
	}

	squared := make([]autodiff.Value, len(predictions))
	for i := range predictions {
		sq, err := predictions[i].Sub(targets[i]).PowScalar(2)
		if err != nil {
			return autodiff.Value{}, fmt.Errorf("mse: %w", err)
		}
		squared[i] = sq
	}

	return autodiff.Sum(squared[0], squared[1:]...).DivScalar(float64(len(squared)))
}

// SumSquaredError computes Σ(predictions - targets)² without averaging.
func SumSquaredError(predictions, targets []autodiff.Value) (autodiff.Value, error) {
	mean, err := MSELoss(predictions, targets)
	if err != nil {
		return autodiff.Value{}, err
	}
	return mean.MulScalar(float64(len(predictions))), nil
}
