package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Workers: 1}

	var order []int
	For(5, func(i int) {
		order = append(order, i)
	}, cfg)

	for i, got := range order {
		if got != i {
			t.Fatalf("sequential order broken: %v", order)
		}
	}
}

func TestFor_BoundedWorkers(t *testing.T) {
	const workers = 3

	var active, peak int64
	For(30, func(_ int) {
		cur := atomic.AddInt64(&active, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt64(&active, -1)
	}, Config{Workers: workers})

	if peak > workers {
		t.Errorf("peak concurrency %d exceeds %d workers", peak, workers)
	}
	if active != 0 {
		t.Errorf("For returned with %d calls still running", active)
	}
}

func TestMap_Order(t *testing.T) {
	results, err := Map(context.Background(), 50, func(_ context.Context, i int) (int, error) {
		return i * i, nil
	}, Config{Workers: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, r := range results {
		if r != i*i {
			t.Errorf("results[%d] = %d, want %d", i, r, i*i)
		}
	}
}

func TestMap_CollectsErrors(t *testing.T) {
	errOdd := errors.New("odd")

	var ran int64
	_, err := Map(context.Background(), 10, func(_ context.Context, i int) (int, error) {
		atomic.AddInt64(&ran, 1)
		if i%2 == 1 {
			return 0, errOdd
		}
		return i, nil
	}, Config{Workers: 3})

	if ran != 10 {
		t.Errorf("ran %d jobs, want 10", ran)
	}
	if !errors.Is(err, errOdd) {
		t.Fatalf("expected errOdd, got %v", err)
	}
	var merr *multierror.Error
	if !errors.As(err, &merr) || len(merr.Errors) != 5 {
		t.Errorf("expected 5 errors, got %v", err)
	}
}

func TestMap_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int64
	_, err := Map(ctx, 4, func(_ context.Context, _ int) (int, error) {
		atomic.AddInt64(&ran, 1)
		return 0, nil
	}, Config{Workers: 2})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if ran != 0 {
		t.Errorf("ran %d jobs after cancellation", ran)
	}
}

func BenchmarkFor(b *testing.B) {
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		cfg := DefaultConfig()
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfg := Config{Workers: 1}
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfg)
		}
	})
}
