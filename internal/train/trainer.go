// Package train fits an MLP to a small in-memory data set.
//
// A Trainer owns one tape. Model parameters are created first and survive
// every epoch; each epoch records its forward graph after a mark and drops
// it once the optimizer has stepped.
package train

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/born-ml/microborn/internal/autodiff"
	"github.com/born-ml/microborn/internal/nn"
	"github.com/born-ml/microborn/internal/optim"
)

// History holds the mean loss of every completed epoch.
type History struct {
	StartEpoch int       // Epoch number of Losses[0]
	Losses     []float64 // Mean loss per epoch
}

// Final returns the loss of the last epoch, or 0 when no epoch ran.
func (h History) Final() float64 {
	if len(h.Losses) == 0 {
		return 0
	}
	return h.Losses[len(h.Losses)-1]
}

// Trainer runs the training loop for one model.
type Trainer struct {
	config    Config
	tape      *autodiff.Tape
	model     *nn.MLP
	optimizer optim.Optimizer
	loss      nn.Loss
	logger    hclog.Logger
	fs        afero.Fs
	epoch     int   // Next epoch number
	step      int64 // Optimizer steps taken
	lastLoss  float64
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger hclog.Logger) Option {
	return func(t *Trainer) {
		t.logger = logger
	}
}

// WithFs sets the filesystem used for checkpoints. The default is the OS
// filesystem.
func WithFs(fs afero.Fs) Option {
	return func(t *Trainer) {
		t.fs = fs
	}
}

// WithLoss replaces the mean squared error loss.
func WithLoss(loss nn.Loss) Option {
	return func(t *Trainer) {
		t.loss = loss
	}
}

// New builds the model and optimizer described by config.
func New(config Config, opts ...Option) (*Trainer, error) {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	t := &Trainer{
		config: config,
		tape:   autodiff.NewTape(),
		loss:   nn.MSELoss,
		logger: hclog.NewNullLogger(),
		fs:     afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(t)
	}

	mlpConfig, err := config.modelConfig()
	if err != nil {
		return nil, err
	}
	//nolint:gosec // Using math/rand for weight initialization (not security-critical)
	mlpConfig.Rand = rand.New(rand.NewSource(config.Seed))

	t.model, err = nn.NewMLP(t.tape, mlpConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build model: %w", err)
	}

	t.optimizer, err = optim.New(config.Optimizer, t.model.Parameters(), optim.Config{
		LR:       config.LearningRate,
		Momentum: config.Momentum,
	})
	if err != nil {
		return nil, err
	}

	t.logger.Debug("model created",
		"inputs", config.Inputs,
		"layers", config.Layers,
		"activation", config.Activation,
		"parameters", t.model.NumParameters(),
		"optimizer", config.Optimizer,
	)
	return t, nil
}

// Model returns the model being trained.
func (t *Trainer) Model() *nn.MLP {
	return t.model
}

// Optimizer returns the optimizer.
func (t *Trainer) Optimizer() optim.Optimizer {
	return t.optimizer
}

// Tape returns the tape holding the model parameters.
func (t *Trainer) Tape() *autodiff.Tape {
	return t.tape
}

// Epoch returns the number of the next epoch to run.
func (t *Trainer) Epoch() int {
	return t.epoch
}

// Run fits the configured samples for the configured number of epochs and
// writes a checkpoint when one is configured.
func (t *Trainer) Run(ctx context.Context) (History, error) {
	history, err := t.Fit(ctx, t.config.Samples, t.config.Epochs)
	if err != nil {
		return history, err
	}
	if t.config.Checkpoint != "" {
		if err := t.SaveCheckpoint(t.config.Checkpoint); err != nil {
			return history, err
		}
	}
	return history, nil
}

// Fit runs epochs full-batch epochs over samples.
//
// Each epoch forwards every sample, averages the per-sample losses, runs
// Backward on the average and applies one optimizer step. The context is
// checked between epochs; on cancellation the history so far is returned
// with the context error.
func (t *Trainer) Fit(ctx context.Context, samples []Sample, epochs int) (History, error) {
	history := History{StartEpoch: t.epoch}
	if len(samples) == 0 {
		return history, fmt.Errorf("%w: no samples", ErrInvalidConfig)
	}

	for range epochs {
		if err := ctx.Err(); err != nil {
			t.logger.Warn("training interrupted", "epoch", t.epoch, "error", err)
			return history, err
		}

		loss, err := t.epochStep(samples)
		if err != nil {
			return history, fmt.Errorf("epoch %d: %w", t.epoch, err)
		}
		history.Losses = append(history.Losses, loss)

		if t.config.LogEvery > 0 && t.epoch%t.config.LogEvery == 0 {
			t.logger.Info("epoch complete", "epoch", t.epoch, "loss", loss)
		}
		t.epoch++
	}

	t.logger.Debug("training finished", "epochs", len(history.Losses), "loss", history.Final())
	return history, nil
}

// epochStep runs one full-batch update and returns the mean loss before it.
func (t *Trainer) epochStep(samples []Sample) (float64, error) {
	mark := t.tape.Mark()
	defer t.tape.Truncate(mark)

	losses := make([]autodiff.Value, len(samples))
	for i, s := range samples {
		outputs, err := t.model.Forward(t.tape.Scalars(s.Input...))
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		loss, err := t.loss(outputs, t.tape.Scalars(s.Targets()...))
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		losses[i] = loss
	}

	mean, err := autodiff.Sum(losses[0], losses[1:]...).DivScalar(float64(len(losses)))
	if err != nil {
		return 0, err
	}

	mean.Backward()
	t.optimizer.Step()
	t.optimizer.ZeroGrad()
	t.step++
	t.lastLoss = mean.Data()

	return t.lastLoss, nil
}

// Predict runs the model on inputs without touching gradients.
func (t *Trainer) Predict(inputs []float64) ([]float64, error) {
	mark := t.tape.Mark()
	defer t.tape.Truncate(mark)

	outputs, err := t.model.Forward(t.tape.Scalars(inputs...))
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(outputs))
	for i, v := range outputs {
		out[i] = v.Data()
	}
	return out, nil
}

// SaveCheckpoint writes the model, optimizer state and training progress.
func (t *Trainer) SaveCheckpoint(path string) error {
	checkpoint := &nn.Checkpoint{
		Model:     t.model,
		Optimizer: t.optimizer,
		Epoch:     t.epoch,
		Step:      t.step,
		Loss:      t.lastLoss,
		Metadata:  t.model.Config().Describe(),
	}
	if err := checkpoint.Save(t.fs, path); err != nil {
		return err
	}

	t.logger.Info("checkpoint saved", "path", path, "run_id", checkpoint.RunID, "epoch", t.epoch)
	return nil
}

// Resume restores a checkpoint written by SaveCheckpoint. Training continues
// from the stored epoch.
func (t *Trainer) Resume(path string) error {
	checkpoint, err := nn.LoadCheckpoint(t.fs, path, t.model, t.optimizer)
	if err != nil {
		return err
	}
	t.epoch = checkpoint.Epoch
	t.step = checkpoint.Step
	t.lastLoss = checkpoint.Loss

	t.logger.Info("checkpoint restored", "path", path, "run_id", checkpoint.RunID, "epoch", t.epoch)
	return nil
}
