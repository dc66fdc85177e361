package parallel

import (
	"sync"
	"testing"
)

func TestSpansCoverRangeExactlyOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinSpanSize: 1}
	n := 1000

	var mu sync.Mutex
	seen := make([]int, n)
	Spans(n, cfg, func(start, end int) {
		mu.Lock()
		defer mu.Unlock()
		for i := start; i < end; i++ {
			seen[i]++
		}
	})

	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times", i, c)
		}
	}
}

func TestSpansSmallInputRunsInline(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinSpanSize: 100}
	calls := 0
	Spans(10, cfg, func(start, end int) {
		calls++
		if start != 0 || end != 10 {
			t.Errorf("inline span = [%d, %d), expected [0, 10)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("inline execution made %d calls, expected 1", calls)
	}
}

func TestSpansDisabled(t *testing.T) {
	cfg := Config{Enabled: false, NumWorkers: 4, MinSpanSize: 1}
	calls := 0
	Spans(500, cfg, func(start, end int) {
		calls++
	})
	if calls != 1 {
		t.Errorf("disabled sharding made %d calls, expected 1", calls)
	}
}

func TestSpansZeroLength(t *testing.T) {
	cfg := DefaultConfig()
	Spans(0, cfg, func(start, end int) {
		if start != end {
			t.Errorf("zero-length span = [%d, %d)", start, end)
		}
	})
}
