// Package parallel splits index ranges across goroutines.
//
// Every index is handled by exactly one worker, so callers that write
// disjoint outputs per index get results identical to a sequential loop.
package parallel

import (
	"runtime"
	"sync"
)

// Workers resolves an n_jobs style setting: -1 (or any negative value) means
// all CPUs, 0 and 1 mean sequential.
func Workers(nJobs int) int {
	switch {
	case nJobs < 0:
		return runtime.NumCPU()
	case nJobs == 0:
		return 1
	default:
		return nJobs
	}
}

// ParallelizeN divides [0, items) into at most workers contiguous chunks and
// runs fn(start, end) for each chunk concurrently, returning when all finish.
func ParallelizeN(items, workers int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if workers > items {
		workers = items
	}
	if workers <= 1 {
		fn(0, items)
		return
	}

	// ceiling division
	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs sequentially when items <= threshold and
// otherwise fans out over the given number of workers.
func ParallelizeWithThreshold(items, threshold, workers int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	ParallelizeN(items, workers, fn)
}
