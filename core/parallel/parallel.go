// Package parallel splits index ranges across goroutines. Models use it to
// fill design and covariance matrices row by row; each worker owns a
// disjoint block of rows so no locking is needed.
package parallel

import (
	"runtime"
	"sync"

	"github.com/YuminosukeSato/bayesreg/pkg/errors"
)

// DefaultThreshold is the number of rows below which work runs on the
// calling goroutine.
const DefaultThreshold = 256

// Parallelize splits [0, items) into one contiguous chunk per CPU and calls
// fn(start, end) for each chunk concurrently. It returns when every chunk is
// done. If fn panics in a worker, the first panic value is raised again on the
// calling goroutine once all workers have stopped, so a deferred recover in
// the caller sees it.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division
	chunkSize := (items + numWorkers - 1) / numWorkers

	var (
		wg       sync.WaitGroup
		once     sync.Once
		panicked bool
		value    interface{}
	)
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
			defer func() {
				if r := recover(); r != nil {
					once.Do(func() {
						panicked = true
						value = r
					})
				}
			}()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()

	if panicked {
		panic(value)
	}
}

// ParallelizeWithThreshold calls fn(0, items) directly when items does not
// exceed threshold and falls back to Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// ForEach runs fn(i) for every i in [0, items) across the available CPUs and
// combines the errors of all failing calls; the lowest failing index is the
// primary error. A panic in fn is returned as a PanicError for that index. A
// nil result means every call succeeded.
func ForEach(items int, fn func(i int) error) error {
	if items <= 0 {
		return nil
	}
	errs := make([]error, items)
	Parallelize(items, func(start, end int) {
		for i := start; i < end; i++ {
			errs[i] = errors.SafeExecute("parallel.ForEach", func() error {
				return fn(i)
			})
		}
	})

	var combined error
	for _, err := range errs {
		combined = errors.CombineErrors(combined, err)
	}
	return combined
}
