package nn_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/born-ml/microborn/internal/autodiff"
	"github.com/born-ml/microborn/internal/nn"
	"github.com/born-ml/microborn/internal/optim"
	"github.com/born-ml/microborn/internal/serialization"
)

func newModel(t *testing.T, seed int64) (*autodiff.Tape, *nn.MLP) {
	t.Helper()
	tape := autodiff.NewTape()
	model, err := nn.NewMLP(tape, nn.MLPConfig{
		Inputs: 2,
		Layers: []int{3, 1},
		Rand:   rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		t.Fatalf("NewMLP: %v", err)
	}
	return tape, model
}

// trainStep runs one forward/backward/update step on a fixed sample.
func trainStep(t *testing.T, tape *autodiff.Tape, model *nn.MLP, opt optim.Optimizer) {
	t.Helper()
	mark := tape.Mark()
	defer tape.Truncate(mark)

	out, err := model.Forward(tape.Scalars(0.5, -1.0))
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	loss, err := nn.MSELoss(out, tape.Scalars(1.0))
	if err != nil {
		t.Fatalf("MSELoss: %v", err)
	}
	loss.Backward()
	opt.Step()
	opt.ZeroGrad()
}

func TestCheckpointSaveLoad_SGD(t *testing.T) {
	fs := afero.NewMemMapFs()
	tape, model := newModel(t, 1)
	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1, Momentum: 0.9})
	trainStep(t, tape, model, optimizer)

	checkpoint := &nn.Checkpoint{
		Model:     model,
		Optimizer: optimizer,
		Epoch:     10,
		Step:      5000,
		Loss:      0.123,
		Metadata:  model.Config().Describe(),
	}
	if err := checkpoint.Save(fs, "ckpt.born"); err != nil {
		t.Fatalf("Failed to save checkpoint: %v", err)
	}
	if _, err := uuid.Parse(checkpoint.RunID); err != nil {
		t.Errorf("RunID %q is not a UUID: %v", checkpoint.RunID, err)
	}

	_, newModelInst := newModel(t, 2)
	newOptimizer := optim.NewSGD(newModelInst.Parameters(), optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	loaded, err := nn.LoadCheckpoint(fs, "ckpt.born", newModelInst, newOptimizer)
	if err != nil {
		t.Fatalf("Failed to load checkpoint: %v", err)
	}

	if loaded.Epoch != 10 || loaded.Step != 5000 || loaded.Loss != 0.123 {
		t.Errorf("metadata mismatch: epoch=%d step=%d loss=%f", loaded.Epoch, loaded.Step, loaded.Loss)
	}
	if loaded.RunID != checkpoint.RunID {
		t.Errorf("RunID = %q, want %q", loaded.RunID, checkpoint.RunID)
	}
	if diff := cmp.Diff(model.StateDict(), newModelInst.StateDict()); diff != "" {
		t.Errorf("model state mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(optimizer.StateDict(), newOptimizer.StateDict()); diff != "" {
		t.Errorf("optimizer state mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(model.Config().Describe(), loaded.Metadata); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckpointSaveLoad_Adam(t *testing.T) {
	fs := afero.NewMemMapFs()
	tape, model := newModel(t, 1)
	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.01})
	for range 3 {
		trainStep(t, tape, model, optimizer)
	}

	checkpoint := &nn.Checkpoint{Model: model, Optimizer: optimizer, Epoch: 3}
	if err := checkpoint.Save(fs, "adam.born"); err != nil {
		t.Fatalf("Failed to save checkpoint: %v", err)
	}

	_, header, err := serialization.Load(fs, "adam.born")
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if header.ModelType != "MLP" {
		t.Errorf("ModelType = %q, want MLP", header.ModelType)
	}
	if header.CheckpointMeta.OptimizerType != "Adam" {
		t.Errorf("OptimizerType = %q, want Adam", header.CheckpointMeta.OptimizerType)
	}
	if header.CheckpointMeta.OptimizerConfig["lr"] != 0.01 {
		t.Errorf("OptimizerConfig = %v", header.CheckpointMeta.OptimizerConfig)
	}

	newTape, resumed := newModel(t, 2)
	newOptimizer := optim.NewAdam(resumed.Parameters(), optim.AdamConfig{LR: 0.01})
	if _, err := nn.LoadCheckpoint(fs, "adam.born", resumed, newOptimizer); err != nil {
		t.Fatalf("Failed to load checkpoint: %v", err)
	}
	if newOptimizer.GetTimestep() != 3 {
		t.Errorf("timestep = %d, want 3", newOptimizer.GetTimestep())
	}

	// Both runs must continue identically.
	trainStep(t, tape, model, optimizer)
	trainStep(t, newTape, resumed, newOptimizer)
	if diff := cmp.Diff(model.StateDict(), resumed.StateDict()); diff != "" {
		t.Errorf("resumed training diverged (-want +got):\n%s", diff)
	}
}

func TestCheckpointSaveLoad_WithoutOptimizer(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, model := newModel(t, 1)

	checkpoint := &nn.Checkpoint{Model: model, Epoch: 1, RunID: "fixed-run"}
	if err := checkpoint.Save(fs, "model-only.born"); err != nil {
		t.Fatalf("Failed to save checkpoint: %v", err)
	}

	_, other := newModel(t, 5)
	loaded, err := nn.LoadCheckpoint(fs, "model-only.born", other, nil)
	if err != nil {
		t.Fatalf("Failed to load checkpoint: %v", err)
	}
	if loaded.RunID != "fixed-run" {
		t.Errorf("RunID = %q, want fixed-run", loaded.RunID)
	}
	if diff := cmp.Diff(model.StateDict(), other.StateDict()); diff != "" {
		t.Errorf("model state mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckpointLoad_InvalidFile(t *testing.T) {
	_, model := newModel(t, 1)

	_, err := nn.LoadCheckpoint(afero.NewMemMapFs(), "nonexistent.born", model, nil)
	if err == nil {
		t.Error("Expected error when loading non-existent file, got nil")
	}
}

func TestCheckpointLoad_NotACheckpoint(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, model := newModel(t, 1)

	// Save a regular model (not a checkpoint)
	if err := nn.Save(fs, model, "model.born", nil); err != nil {
		t.Fatalf("Failed to save model: %v", err)
	}

	_, err := nn.LoadCheckpoint(fs, "model.born", model, nil)
	if !errors.Is(err, nn.ErrNotCheckpoint) {
		t.Errorf("expected ErrNotCheckpoint, got %v", err)
	}
}

func TestCheckpointLoad_ArchitectureMismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, model := newModel(t, 1)
	if err := (&nn.Checkpoint{Model: model}).Save(fs, "ckpt.born"); err != nil {
		t.Fatalf("Failed to save checkpoint: %v", err)
	}

	wider, err := nn.NewMLP(autodiff.NewTape(), nn.MLPConfig{Inputs: 2, Layers: []int{4, 1}})
	if err != nil {
		t.Fatal(err)
	}
	_, err = nn.LoadCheckpoint(fs, "ckpt.born", wider, nil)
	if !errors.Is(err, nn.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestModelSaveLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	tape, model := newModel(t, 1)
	meta := model.Config().Describe()

	if err := nn.Save(fs, model, "model.born", meta); err != nil {
		t.Fatalf("Failed to save model: %v", err)
	}

	otherTape, other := newModel(t, 9)
	header, err := nn.Load(fs, "model.born", other)
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}
	if header.ModelType != "MLP" {
		t.Errorf("ModelType = %q, want MLP", header.ModelType)
	}
	if diff := cmp.Diff(meta, header.Metadata); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}

	// Predictions should be identical
	a, err := model.Forward(tape.Scalars(0.3, 0.7))
	if err != nil {
		t.Fatal(err)
	}
	b, err := other.Forward(otherTape.Scalars(0.3, 0.7))
	if err != nil {
		t.Fatal(err)
	}
	if a[0].Data() != b[0].Data() {
		t.Errorf("prediction mismatch: %v != %v", a[0].Data(), b[0].Data())
	}
}
