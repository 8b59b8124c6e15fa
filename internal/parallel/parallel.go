// Package parallel provides the chunked goroutine fan-out used to sweep
// kernel work-groups and host-side matrix loops.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how a loop is spread over goroutines.
type Config struct {
	Enabled    bool // Whether fan-out is enabled at all.
	NumWorkers int  // Upper bound on concurrent goroutines.
	MinChunk   int  // Minimum items per goroutine before fanning out.
}

// DefaultConfig suits fine-grained loops where one item is cheap.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
		MinChunk:   64,
	}
}

// Coarse suits loops whose items are heavyweight, such as executing a whole
// work-group per item: fan out as soon as there are two of them.
func Coarse() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
		MinChunk:   1,
	}
}

// For executes f(i) for i in [0, n), fanning out across goroutines when the
// configuration allows it, else sequentially.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunk || n < 2 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	chunk := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunk)

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// For2D executes f(i, j) over [0, rows) x [0, cols), flattened row-major so
// the chunking sees one uniform index space.
func For2D(rows, cols int, f func(i, j int), cfg Config) {
	For(rows*cols, func(k int) {
		f(k/cols, k%cols)
	}, cfg)
}
