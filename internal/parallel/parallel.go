// Package parallel runs independent jobs on a bounded set of goroutines.
//
// Jobs must not share mutable state. In this module each job owns its own
// autodiff tape, which is not safe for concurrent use.
package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Config controls parallel execution.
type Config struct {
	Workers int // Number of worker goroutines (<= 1 runs sequentially)
}

// DefaultConfig returns a config with one worker per CPU.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.NumCPU(),
	}
}

// For calls f(i) for every i in [0, n) on up to cfg.Workers goroutines and
// waits for all calls to return. With one worker the calls run in order on
// the calling goroutine.
func For(n int, f func(i int), cfg Config) {
	workers := min(cfg.Workers, n)
	if workers <= 1 {
		for i := range n {
			f(i)
		}
		return
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				f(i)
			}
		}()
	}
	for i := range n {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// Map calls f for every index in [0, n) and returns the results in index
// order. Every job runs even when others fail; all errors are returned
// together, each annotated with its index. Jobs not yet started when ctx is
// cancelled are skipped and report the context error.
func Map[T any](ctx context.Context, n int, f func(ctx context.Context, i int) (T, error), cfg Config) ([]T, error) {
	results := make([]T, n)
	errs := make([]error, n)

	For(n, func(i int) {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			return
		}
		results[i], errs[i] = f(ctx, i)
	}, cfg)

	var result *multierror.Error
	for i, err := range errs {
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("job %d: %w", i, err))
		}
	}
	return results, result.ErrorOrNil()
}
