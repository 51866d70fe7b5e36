// Package fanout runs a fixed batch of independent work items with a bounded
// number of in-flight workers, collecting one result slot per input item.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ErrInvalidConcurrency is returned by New for a non-positive bound.
var ErrInvalidConcurrency = errors.New("max concurrency must be at least 1")

// Result holds the outcome of a single work item. Exactly one of Value and
// Err is meaningful.
type Result[O any] struct {
	Value O
	Err   error
}

// Executor dispatches batches with at most maxConcurrency workers in flight.
// The admission gate is acquired before each worker starts and released on
// every exit path, including panics inside the worker.
type Executor[I, O any] struct {
	limit int64
}

// New returns an executor with the given concurrency bound. A bound below 1
// is a configuration error reported here, not at run time.
func New[I, O any](maxConcurrency int) (*Executor[I, O], error) {
	if maxConcurrency < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, maxConcurrency)
	}
	return &Executor[I, O]{limit: int64(maxConcurrency)}, nil
}

// Run executes work for every item and returns a slice where index i holds
// the outcome for items[i], regardless of completion order. A failing worker
// never aborts its siblings: its error occupies that item's slot. When ctx is
// cancelled the whole batch reports the context error instead of returning a
// partial slice.
//
// onItem, when non-nil, is invoked after each completed item with the
// running completed count and the batch total. It is used for progress
// reporting and must be fast; failures in the hook are the caller's problem.
func (e *Executor[I, O]) Run(ctx context.Context, items []I, work func(context.Context, I) (O, error), onItem func(completed, total int)) ([]Result[O], error) {
	if len(items) == 0 {
		return []Result[O]{}, nil
	}

	sem := semaphore.NewWeighted(e.limit)
	results := make([]Result[O], len(items))

	var (
		wg        sync.WaitGroup
		completed atomic.Int64
	)

	for i := range items {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer sem.Release(1)
			defer func() {
				if r := recover(); r != nil {
					results[idx].Err = fmt.Errorf("worker panic: %v", r)
				}
				if onItem != nil {
					onItem(int(completed.Add(1)), len(items))
				}
			}()

			value, err := work(ctx, items[idx])
			if err != nil {
				results[idx].Err = err
				return
			}
			results[idx].Value = value
		}(i)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
