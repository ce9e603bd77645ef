package nn

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/born-ml/microborn/internal/serialization"
)

// optimizerPrefix namespaces optimizer entries in a checkpoint state dict.
const optimizerPrefix = "optimizer."

// ErrNotCheckpoint is returned when loading a .born file without checkpoint metadata.
var ErrNotCheckpoint = errors.New("file is not a checkpoint")

// OptimizerState represents an optimizer that can save/load its state.
//
// This interface is used by checkpoints to serialize optimizer state
// without creating import cycles. Optimizers from the optim package
// implement this interface.
type OptimizerState interface {
	// StateDict returns the optimizer state for serialization.
	StateDict() map[string]float64

	// LoadStateDict loads optimizer state from serialization.
	LoadStateDict(stateDict map[string]float64) error

	// GetLR returns the current learning rate.
	GetLR() float64
}

// namedOptimizer is implemented by optimizers that can report their type
// and hyperparameters.
type namedOptimizer interface {
	Name() string
	Hyperparameters() map[string]float64
}

// Checkpoint represents a complete training state snapshot.
//
// A checkpoint includes:
//   - Model parameters
//   - Optimizer state (momentum buffers, Adam moments), if an optimizer is set
//   - Training metadata (epoch, step, loss)
//   - Custom metadata
//
// Example:
//
//	checkpoint := &nn.Checkpoint{
//	    Model:     model,
//	    Optimizer: optimizer,
//	    Epoch:     10,
//	    Loss:      0.123,
//	    Metadata:  model.Config().Describe(),
//	}
//	err := checkpoint.Save(afero.NewOsFs(), "checkpoint_epoch_10.born")
//
// To resume training:
//
//	checkpoint, err := nn.LoadCheckpoint(afero.NewOsFs(), "checkpoint.born", model, optimizer)
//	startEpoch := checkpoint.Epoch // the next epoch to run
type Checkpoint struct {
	Model     Module            // The neural network model
	Optimizer OptimizerState    // The optimizer with its state (optional)
	Epoch     int               // Next epoch to run
	Step      int64             // Training step number
	Loss      float64           // Loss value at this checkpoint
	RunID     string            // Training run identifier (generated when empty)
	Metadata  map[string]string // Additional training metadata
	CreatedAt time.Time         // When the checkpoint was created
}

// Save writes the checkpoint to path on fs.
//
// Optimizer entries are stored next to the model parameters under the
// "optimizer." prefix.
func (c *Checkpoint) Save(fs afero.Fs, path string) error {
	state := StateDict(c.Model)

	meta := &serialization.CheckpointMeta{
		IsCheckpoint: true,
		Epoch:        c.Epoch,
		Step:         c.Step,
		Loss:         c.Loss,
	}
	if c.Optimizer != nil {
		for name, v := range c.Optimizer.StateDict() {
			state[optimizerPrefix+name] = v
		}
		meta.OptimizerType, meta.OptimizerConfig = describeOptimizer(c.Optimizer)
	}

	if c.RunID == "" {
		c.RunID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	header := serialization.Header{
		ModelType:      modelType(c.Model),
		RunID:          c.RunID,
		CreatedAt:      c.CreatedAt,
		Metadata:       c.Metadata,
		CheckpointMeta: meta,
	}

	if err := serialization.Save(fs, path, state, header); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint loads a checkpoint from path on fs.
//
// The model and optimizer must be pre-constructed with the same
// architecture as when the checkpoint was saved. optimizer may be nil, in
// which case any stored optimizer state is ignored.
func LoadCheckpoint(fs afero.Fs, path string, model Module, optimizer OptimizerState) (*Checkpoint, error) {
	state, header, err := serialization.Load(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	if header.CheckpointMeta == nil || !header.CheckpointMeta.IsCheckpoint {
		return nil, ErrNotCheckpoint
	}

	modelState := make(map[string]float64)
	optimizerState := make(map[string]float64)
	for name, v := range state {
		if rest, ok := strings.CutPrefix(name, optimizerPrefix); ok {
			optimizerState[rest] = v
		} else {
			modelState[name] = v
		}
	}

	if err := LoadStateDict(model, modelState); err != nil {
		return nil, fmt.Errorf("failed to load model state: %w", err)
	}
	if optimizer != nil {
		if err := optimizer.LoadStateDict(optimizerState); err != nil {
			return nil, fmt.Errorf("failed to load optimizer state: %w", err)
		}
	}

	return &Checkpoint{
		Model:     model,
		Optimizer: optimizer,
		Epoch:     header.CheckpointMeta.Epoch,
		Step:      header.CheckpointMeta.Step,
		Loss:      header.CheckpointMeta.Loss,
		RunID:     header.RunID,
		Metadata:  header.Metadata,
		CreatedAt: header.CreatedAt,
	}, nil
}

func describeOptimizer(opt OptimizerState) (string, map[string]float64) {
	if named, ok := opt.(namedOptimizer); ok {
		return named.Name(), named.Hyperparameters()
	}
	return "Optimizer", map[string]float64{"lr": opt.GetLR()}
}

func modelType(m Module) string {
	switch m.(type) {
	case *MLP:
		return "MLP"
	case *Sequential:
		return "Sequential"
	case *Layer:
		return "Layer"
	case *Neuron:
		return "Neuron"
	default:
		return fmt.Sprintf("%T", m)
	}
}
