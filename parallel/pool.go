package parallel

import (
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	WaitFunc   func(done bool)
	CancelFunc func()
)

// Pool runs submitted tasks on a fixed set of goroutines. A pool with a
// single worker runs every task inline on the submitting goroutine.
//
// Wait(true) closes the pool; no task may be submitted afterwards.
type Pool struct {
	wg     sync.WaitGroup
	Size   int
	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc
}

// Start creates a pool of numWorkers goroutines, GOMAXPROCS if numWorkers < 1.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		Size:   numWorkers,
		Do:     func(task func()) { task() },
		Wait:   func(bool) {},
		Cancel: func() {},
	}
	if numWorkers == 1 {
		return pool
	}

	tasks := make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for task := range tasks {
				task()
			}
		})
	}

	pool.Do = func(task func()) {
		tasks <- task
	}
	pool.Cancel = sync.OnceFunc(func() { close(tasks) })
	pool.Wait = func(done bool) {
		if done {
			pool.Cancel()
		}
		pool.wg.Wait()
	}

	return pool
}

// Band is the half-open range [Start, End).
type Band struct {
	Start, End int
}

// Split cuts [0, n) into at most parts contiguous bands of near equal size.
func Split(n, parts int) []Band {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	parts = min(parts, n)

	bands := make([]Band, 0, parts)
	size, extra := n/parts, n%parts
	start := 0
	for i := range parts {
		end := start + size
		if i < extra {
			end++
		}
		bands = append(bands, Band{Start: start, End: end})
		start = end
	}
	return bands
}

// ForEachBand runs fn once per band of [0, n) on a fresh pool and returns
// once every call has finished.
func ForEachBand(n, numWorkers int, fn func(Band)) {
	pool := Start(numWorkers)
	for _, band := range Split(n, pool.Size) {
		pool.Do(func() { fn(band) })
	}
	pool.Wait(true)
}
