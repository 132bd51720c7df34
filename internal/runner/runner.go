// Package runner executes a slice of tasks with a bounded number of
// goroutines pulling work from a shared cursor.
//
// Workers claim the next unclaimed index with an atomic increment, so a
// worker that finishes a cheap task immediately picks up another one. Each
// result is written to the slot of its task, which keeps the output in input
// order regardless of completion order and needs no locking.
//
// The worker function owns error handling: it must turn failures into a
// result value. Run never retries and never stops early.
package runner

import (
	"context"
	"sync"
	"sync/atomic"
)

// Workers returns the number of goroutines Run starts for the requested
// concurrency: at least one, never more than the number of tasks.
func Workers(requested, tasks int) int {
	n := requested
	if n > tasks {
		n = tasks
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Run calls worker once per task using Workers(concurrency, len(tasks))
// goroutines and returns the results in task order.
func Run[T, R any](ctx context.Context, tasks []T, concurrency int, worker func(ctx context.Context, task T) R) []R {
	out := make([]R, len(tasks))
	if len(tasks) == 0 {
		return out
	}

	var (
		cursor atomic.Int64
		wg     sync.WaitGroup
	)
	n := Workers(concurrency, len(tasks))
	wg.Add(n)
	for w := 0; w < n; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(cursor.Add(1) - 1)
				if i >= len(tasks) {
					return
				}
				out[i] = worker(ctx, tasks[i])
			}
		}()
	}
	wg.Wait()
	return out
}
