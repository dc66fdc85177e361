// Package parallel provides data-parallel sharding for contiguous kernel
// spans.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls shard execution.
type Config struct {
	Enabled      bool // Whether sharding is enabled.
	NumWorkers   int  // Number of worker goroutines.
	MinSpanSize  int  // Minimum elements before sharding pays off.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:     n > 1,
		NumWorkers:  n,
		MinSpanSize: 1 << 14,
	}
}

// Spans splits [0, n) into contiguous half-open ranges and runs f on each,
// in parallel when the span is large enough. f must write disjoint outputs
// per range; results are independent of shard boundaries.
func Spans(n int, cfg Config, f func(start, end int)) {
	if !cfg.Enabled || n < cfg.MinSpanSize {
		f(0, n)
		return
	}

	chunk := (n + cfg.NumWorkers - 1) / cfg.NumWorkers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}
