// Package parallel provides the chunked worker helper used for ensemble
// training. Work is divided into contiguous index ranges so that results can
// be written into pre-allocated slots without synchronization, which keeps
// the final reduction order-independent.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits items across up to maxWorkers goroutines and calls fn
// with the half-open range [start, end) assigned to each worker. A
// maxWorkers value below 1 defaults to the number of CPU cores. Parallelize
// returns after every worker has finished.
func Parallelize(items, maxWorkers int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := maxWorkers
	if numWorkers < 1 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > items {
		numWorkers = items
	}

	// Ceiling division so every item lands in exactly one chunk.
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially when items is at or below
// threshold, avoiding goroutine overhead for small workloads.
func ParallelizeWithThreshold(items, maxWorkers, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, maxWorkers, fn)
}
