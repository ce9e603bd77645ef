package train_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/microborn/internal/train"
)

func TestSweep(t *testing.T) {
	cfg, err := train.ParseConfig("xor.hcl", []byte(xorConfig))
	require.NoError(t, err)
	cfg.Epochs = 30

	seeds := []int64{1, 2, 3, 4}
	results, err := train.Sweep(context.Background(), *cfg, seeds)
	require.NoError(t, err)
	require.Len(t, results, len(seeds))

	for i, r := range results {
		assert.Equal(t, seeds[i], r.Seed)
		assert.Len(t, r.History.Losses, 30)
	}

	// Concurrent runs match a sequential run with the same seed.
	single, err := train.New(*cfg)
	require.NoError(t, err)
	history, err := single.Fit(context.Background(), cfg.Samples, cfg.Epochs)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(history, results[0].History))

	best := train.Best(results)
	for _, r := range results {
		assert.LessOrEqual(t, best.History.Final(), r.History.Final())
	}
}

func TestSweep_Errors(t *testing.T) {
	cfg, err := train.ParseConfig("xor.hcl", []byte(xorConfig))
	require.NoError(t, err)

	_, err = train.Sweep(context.Background(), *cfg, nil)
	assert.ErrorIs(t, err, train.ErrInvalidConfig)

	// Seed 0 falls back to the default seed and would duplicate seed 1.
	_, err = train.Sweep(context.Background(), *cfg, []int64{0, 1})
	assert.ErrorIs(t, err, train.ErrInvalidConfig)

	_, err = train.Sweep(context.Background(), *cfg, []int64{2, 3, 2, 0})
	require.Error(t, err)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = train.Sweep(ctx, *cfg, []int64{1, 2})
	assert.ErrorIs(t, err, context.Canceled)

	assert.Nil(t, train.Best(nil).Trainer)
}
