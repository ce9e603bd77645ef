package train

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/born-ml/microborn/internal/parallel"
)

// SweepResult is the outcome of training with one seed.
type SweepResult struct {
	Seed    int64
	History History
	Trainer *Trainer
}

// Sweep trains one independent model per seed, concurrently, and returns
// the results in seed order. Each trainer owns its tape, so runs share no
// state; log lines carry a "seed" field. Checkpoints are not written.
//
// Seeds must be distinct and non-zero, since a zero seed is replaced by
// DefaultSeed.
func Sweep(ctx context.Context, config Config, seeds []int64, opts ...Option) ([]SweepResult, error) {
	if err := validateSeeds(seeds); err != nil {
		return nil, err
	}

	return parallel.Map(ctx, len(seeds), func(ctx context.Context, i int) (SweepResult, error) {
		cfg := config
		cfg.Seed = seeds[i]

		trainer, err := New(cfg, opts...)
		if err != nil {
			return SweepResult{}, err
		}
		trainer.logger = trainer.logger.With("seed", cfg.Seed)

		history, err := trainer.Fit(ctx, cfg.Samples, cfg.Epochs)
		return SweepResult{Seed: cfg.Seed, History: history, Trainer: trainer}, err
	}, parallel.DefaultConfig())
}

func validateSeeds(seeds []int64) error {
	if len(seeds) == 0 {
		return fmt.Errorf("%w: no seeds", ErrInvalidConfig)
	}

	var result *multierror.Error
	seen := make(map[int64]int, len(seeds))
	for i, seed := range seeds {
		if seed == 0 {
			result = multierror.Append(result, fmt.Errorf("%w: seeds[%d] must be non-zero", ErrInvalidConfig, i))
			continue
		}
		if j, dup := seen[seed]; dup {
			result = multierror.Append(result, fmt.Errorf("%w: seeds[%d] repeats seeds[%d] (%d)", ErrInvalidConfig, i, j, seed))
			continue
		}
		seen[seed] = i
	}
	return result.ErrorOrNil()
}

// Best returns the result with the lowest final loss.
func Best(results []SweepResult) SweepResult {
	var best SweepResult
	for i, r := range results {
		if r.Trainer == nil || len(r.History.Losses) == 0 {
			continue
		}
		if i == 0 || best.Trainer == nil || r.History.Final() < best.History.Final() {
			best = r
		}
	}
	return best
}
