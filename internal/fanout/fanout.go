// Package fanout runs a batch of independent tasks on a bounded number
// of goroutines.
package fanout

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Run invokes fn(i) for every i in [0, n) and returns when all
// invocations have finished. At most workers goroutines run at once; if
// workers is 0 or negative, GOMAXPROCS is used. Tasks are claimed from a
// shared counter, so uneven task costs balance across workers.
//
// fn must be safe to call concurrently with distinct arguments.
func Run(workers, n int, fn func(int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers == 1 {
		for i := range n {
			fn(i)
		}
		return
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= n {
					return
				}
				fn(i)
			}
		}()
	}
	wg.Wait()
}
