// internal/pool/pool.go
// Package pool provides a bounded-parallel worker pool that preserves input
// ordering. Callers submit a slice of items and a work function; results come
// back indexed by the item's original position, so downstream stages can rely
// on stable ordering regardless of completion order.
package pool

import (
	"context"
	"sync"
)

// Result pairs one item's outcome with its position in the input slice.
type Result[R any] struct {
	Index int
	Value R
	Err   error
}

// Map runs fn over every item with at most workers goroutines in flight and
// returns one Result per item, in input order. Worker counts below one are
// treated as one. When the context is canceled, items that have not started
// report the context error; items already running finish normally.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(ctx context.Context, index int, item T) (R, error)) []Result[R] {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result[R], len(items))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

submit:
	for i := range items {
		// Acquire worker slot.
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			for j := i; j < len(items); j++ {
				results[j] = Result[R]{Index: j, Err: ctx.Err()}
			}
			break submit
		}

		wg.Add(1)
		go func(idx int, item T) {
			defer func() {
				<-sem
				wg.Done()
			}()
			value, err := fn(ctx, idx, item)
			// Each goroutine writes only its own index.
			results[idx] = Result[R]{Index: idx, Value: value, Err: err}
		}(i, items[i])
	}

	wg.Wait()
	return results
}

// FirstErr returns the first non-nil error in results, in input order, or nil
// when every item succeeded.
func FirstErr[R any](results []Result[R]) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
