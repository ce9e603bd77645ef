package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/born-ml/microborn/internal/train"
)

// TrainCommand fits a model described by an HCL file.
type TrainCommand struct {
	Meta
}

func (c *TrainCommand) Run(args []string) int {
	var configPath, logLevel, resume string
	var epochs, restarts int

	f := c.flagSet("train")
	f.StringVar(&configPath, "config", "", "")
	f.StringVar(&logLevel, "log-level", "info", "")
	f.StringVar(&resume, "resume", "", "")
	f.IntVar(&epochs, "epochs", 0, "")
	f.IntVar(&restarts, "restarts", 1, "")
	if err := f.Parse(args); err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	if configPath == "" {
		c.Ui.Error("The -config flag is required.")
		c.Ui.Error(c.Help())
		return 1
	}

	cfg, err := train.LoadConfig(c.Fs, configPath)
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	if epochs > 0 {
		cfg.Epochs = epochs
	}

	logger := c.logger(logLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var trainer *train.Trainer
	var history train.History
	if restarts > 1 {
		if resume != "" {
			c.Ui.Error("The -resume and -restarts flags cannot be combined.")
			return 1
		}
		trainer, history, err = c.sweep(ctx, *cfg, restarts, logger)
	} else {
		trainer, history, err = c.single(ctx, *cfg, resume, logger)
	}
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}

	c.Ui.Output(fmt.Sprintf("Trained %d epochs, final loss %.6g", len(history.Losses), history.Final()))
	for _, s := range cfg.Samples {
		out, err := trainer.Predict(s.Input)
		if err != nil {
			c.Ui.Error(err.Error())
			return 1
		}
		c.Ui.Output(fmt.Sprintf("  %v -> %s (target %v)", s.Input, formatFloats(out), s.Targets()))
	}
	if cfg.Checkpoint != "" {
		c.Ui.Output("Checkpoint written to " + cfg.Checkpoint)
	}
	return 0
}

// single trains one model, optionally resuming from a checkpoint.
func (c *TrainCommand) single(ctx context.Context, cfg train.Config, resume string, logger hclog.Logger) (*train.Trainer, train.History, error) {
	trainer, err := train.New(cfg, train.WithLogger(logger), train.WithFs(c.Fs))
	if err != nil {
		return nil, train.History{}, err
	}
	if resume != "" {
		if err := trainer.Resume(resume); err != nil {
			return nil, train.History{}, fmt.Errorf("failed to resume: %w", err)
		}
	}

	history, err := trainer.Run(ctx)
	return trainer, history, err
}

// sweep trains one model per seed and keeps the one with the lowest loss.
func (c *TrainCommand) sweep(ctx context.Context, cfg train.Config, restarts int, logger hclog.Logger) (*train.Trainer, train.History, error) {
	cfg.ApplyDefaults()
	seeds := make([]int64, restarts)
	for i := range seeds {
		seeds[i] = cfg.Seed + int64(i)
	}

	results, err := train.Sweep(ctx, cfg, seeds, train.WithLogger(logger), train.WithFs(c.Fs))
	if err != nil {
		return nil, train.History{}, err
	}
	best := train.Best(results)
	c.Ui.Output(fmt.Sprintf("Best of %d restarts: seed %d", restarts, best.Seed))

	if cfg.Checkpoint != "" {
		if err := best.Trainer.SaveCheckpoint(cfg.Checkpoint); err != nil {
			return nil, train.History{}, err
		}
	}
	return best.Trainer, best.History, nil
}

func (c *TrainCommand) Help() string {
	helpText := `
Usage: microborn train -config=FILE [options]

  Trains a multilayer perceptron on the samples listed in an HCL
  configuration file and prints the final loss and predictions.

Options:

  -config=FILE       HCL training configuration (required).

  -epochs=N          Override the number of epochs in the configuration.

  -resume=FILE       Restore a checkpoint before training.

  -restarts=N        Train N models with consecutive seeds in parallel and
                     keep the one with the lowest final loss.

  -log-level=LEVEL   trace, debug, info, warn or error. Defaults to info.
`
	return strings.TrimSpace(helpText)
}

func (c *TrainCommand) Synopsis() string {
	return "Train a model from an HCL configuration"
}

func formatFloats(xs []float64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprintf("%.4f", x)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
