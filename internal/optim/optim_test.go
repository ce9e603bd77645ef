package optim_test

import (
	"errors"
	"math"
	"testing"

	"github.com/born-ml/microborn/internal/autodiff"
	"github.com/born-ml/microborn/internal/nn"
	"github.com/born-ml/microborn/internal/optim"
)

// Helper to check float equality with tolerance.
func floatEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// linearLoss builds loss = x * 1 on a fresh mark so that grad_x = 1.
func linearLoss(tape *autodiff.Tape, param *nn.Parameter) {
	mark := tape.Mark()
	param.Value().MulScalar(1).Backward()
	tape.Truncate(mark)
}

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	tape := autodiff.NewTape()
	param := nn.NewParameter("x", tape.Scalar(2.0))

	optimizer := optim.NewSGD([]*nn.Parameter{param}, optim.SGDConfig{LR: 0.1})

	linearLoss(tape, param)
	optimizer.Step()

	// Expected: x_new = x_old - lr * grad = 2.0 - 0.1 * 1.0 = 1.9
	if !floatEqual(param.Data(), 1.9, 1e-12) {
		t.Errorf("SGD update: got %f, want %f", param.Data(), 1.9)
	}
}

// TestSGD_WithMomentum tests SGD with momentum.
func TestSGD_WithMomentum(t *testing.T) {
	tape := autodiff.NewTape()
	param := nn.NewParameter("x", tape.Scalar(2.0))

	optimizer := optim.NewSGD([]*nn.Parameter{param}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	// Step 1: v = 1, x = 2 - 0.1 = 1.9
	linearLoss(tape, param)
	optimizer.Step()
	optimizer.ZeroGrad()
	if !floatEqual(param.Data(), 1.9, 1e-12) {
		t.Fatalf("step 1: got %f, want 1.9", param.Data())
	}

	// Step 2: v = 0.9 + 1 = 1.9, x = 1.9 - 0.19 = 1.71
	linearLoss(tape, param)
	optimizer.Step()
	if !floatEqual(param.Data(), 1.71, 1e-12) {
		t.Errorf("step 2: got %f, want 1.71", param.Data())
	}

	state := optimizer.StateDict()
	if !floatEqual(state["velocity.0"], 1.9, 1e-12) {
		t.Errorf("velocity.0 = %f, want 1.9", state["velocity.0"])
	}
}

// TestSGD_DefaultLR tests the default learning rate.
func TestSGD_DefaultLR(t *testing.T) {
	optimizer := optim.NewSGD(nil, optim.SGDConfig{})
	if optimizer.GetLR() != 0.01 {
		t.Errorf("default LR = %f, want 0.01", optimizer.GetLR())
	}

	optimizer.SetLR(0.5)
	if optimizer.GetLR() != 0.5 {
		t.Errorf("SetLR: got %f, want 0.5", optimizer.GetLR())
	}
}

// TestSGD_ZeroGrad tests that ZeroGrad clears parameter gradients.
func TestSGD_ZeroGrad(t *testing.T) {
	tape := autodiff.NewTape()
	param := nn.NewParameter("x", tape.Scalar(2.0))
	optimizer := optim.NewSGD([]*nn.Parameter{param}, optim.SGDConfig{LR: 0.1})

	linearLoss(tape, param)
	if param.Grad() != 1 {
		t.Fatalf("grad = %f, want 1", param.Grad())
	}

	optimizer.ZeroGrad()
	if param.Grad() != 0 {
		t.Errorf("grad after ZeroGrad = %f, want 0", param.Grad())
	}
}

// TestSGD_StateDictRoundTrip tests restoring momentum buffers.
func TestSGD_StateDictRoundTrip(t *testing.T) {
	tape := autodiff.NewTape()
	a := nn.NewParameter("a", tape.Scalar(1.0))
	b := nn.NewParameter("b", tape.Scalar(1.0))
	params := []*nn.Parameter{a, b}

	original := optim.NewSGD(params, optim.SGDConfig{LR: 0.1, Momentum: 0.5})
	if len(original.StateDict()) != 0 {
		t.Errorf("state before first step should be empty")
	}

	linearLoss(tape, a)
	original.Step()

	restored := optim.NewSGD(params, optim.SGDConfig{LR: 0.1, Momentum: 0.5})
	if err := restored.LoadStateDict(original.StateDict()); err != nil {
		t.Fatalf("LoadStateDict: %v", err)
	}
	got := restored.StateDict()
	if got["velocity.0"] != 1 || got["velocity.1"] != 0 {
		t.Errorf("restored velocities = %v", got)
	}

	if err := restored.LoadStateDict(map[string]float64{"velocity.0": math.NaN()}); err == nil {
		t.Error("expected error for NaN velocity")
	}
}

// TestAdam_FirstStep tests that the first bias-corrected step moves by ~lr.
func TestAdam_FirstStep(t *testing.T) {
	tape := autodiff.NewTape()
	param := nn.NewParameter("x", tape.Scalar(2.0))

	optimizer := optim.NewAdam([]*nn.Parameter{param}, optim.AdamConfig{LR: 0.1})

	linearLoss(tape, param)
	optimizer.Step()

	// m_hat = g, v_hat = g², update = lr * g / (|g| + eps) ≈ lr
	if !floatEqual(param.Data(), 1.9, 1e-6) {
		t.Errorf("Adam update: got %f, want ~1.9", param.Data())
	}
	if optimizer.GetTimestep() != 1 {
		t.Errorf("timestep = %d, want 1", optimizer.GetTimestep())
	}
}

// TestAdam_Defaults tests default hyperparameters.
func TestAdam_Defaults(t *testing.T) {
	optimizer := optim.NewAdam(nil, optim.AdamConfig{})
	hp := optimizer.Hyperparameters()

	if hp["lr"] != 0.001 || hp["beta1"] != 0.9 || hp["beta2"] != 0.999 || hp["eps"] != 1e-8 {
		t.Errorf("unexpected defaults: %v", hp)
	}
}

// TestAdam_StateDictRoundTrip tests that restored state continues identically.
func TestAdam_StateDictRoundTrip(t *testing.T) {
	tapeA := autodiff.NewTape()
	a := nn.NewParameter("x", tapeA.Scalar(2.0))
	optA := optim.NewAdam([]*nn.Parameter{a}, optim.AdamConfig{LR: 0.05})

	for range 3 {
		linearLoss(tapeA, a)
		optA.Step()
		optA.ZeroGrad()
	}

	tapeB := autodiff.NewTape()
	b := nn.NewParameter("x", tapeB.Scalar(a.Data()))
	optB := optim.NewAdam([]*nn.Parameter{b}, optim.AdamConfig{LR: 0.05})
	if err := optB.LoadStateDict(optA.StateDict()); err != nil {
		t.Fatalf("LoadStateDict: %v", err)
	}

	linearLoss(tapeA, a)
	optA.Step()
	linearLoss(tapeB, b)
	optB.Step()

	if a.Data() != b.Data() {
		t.Errorf("diverged after restore: %v vs %v", a.Data(), b.Data())
	}

	if err := optB.LoadStateDict(map[string]float64{}); err == nil {
		t.Error("expected error for missing step")
	}
}

// TestOptimizers_Converge minimizes (x - 3)² with each optimizer.
func TestOptimizers_Converge(t *testing.T) {
	tests := []struct {
		name  string
		build func(params []*nn.Parameter) optim.Optimizer
		steps int
		tol   float64
	}{
		{"sgd", func(p []*nn.Parameter) optim.Optimizer { return optim.NewSGD(p, optim.SGDConfig{LR: 0.1}) }, 200, 1e-6},
		{"sgd_momentum", func(p []*nn.Parameter) optim.Optimizer {
			return optim.NewSGD(p, optim.SGDConfig{LR: 0.05, Momentum: 0.5})
		}, 300, 1e-6},
		// Adam moves by roughly lr per step, so it only settles near the minimum.
		{"adam", func(p []*nn.Parameter) optim.Optimizer { return optim.NewAdam(p, optim.AdamConfig{LR: 0.05}) }, 2000, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tape := autodiff.NewTape()
			x := nn.NewParameter("x", tape.Scalar(-1.0))
			optimizer := tt.build([]*nn.Parameter{x})

			for range tt.steps {
				mark := tape.Mark()
				loss, err := x.Value().SubScalar(3).PowScalar(2)
				if err != nil {
					t.Fatal(err)
				}
				loss.Backward()
				optimizer.Step()
				optimizer.ZeroGrad()
				tape.Truncate(mark)
			}

			if !floatEqual(x.Data(), 3, tt.tol) {
				t.Errorf("x = %f, want ~3", x.Data())
			}
		})
	}
}

// TestNew tests optimizer construction by name.
func TestNew(t *testing.T) {
	if _, ok := mustNew(t, "sgd").(*optim.SGD); !ok {
		t.Error("sgd should build *optim.SGD")
	}
	if _, ok := mustNew(t, "Adam").(*optim.Adam); !ok {
		t.Error("Adam should build *optim.Adam")
	}

	_, err := optim.New("rmsprop", nil, optim.Config{})
	if !errors.Is(err, optim.ErrUnknownOptimizer) {
		t.Errorf("expected ErrUnknownOptimizer, got %v", err)
	}
}

func mustNew(t *testing.T, name string) optim.Optimizer {
	t.Helper()
	opt, err := optim.New(name, nil, optim.Config{LR: 0.1})
	if err != nil {
		t.Fatalf("New(%q): %v", name, err)
	}
	return opt
}
