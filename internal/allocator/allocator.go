// Package allocator provides the storage allocation contract for array
// buffers: allocate, waiting if resource-constrained.
package allocator

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrResourceExhausted is returned when a request can never be satisfied
// within the configured budget.
var ErrResourceExhausted = errors.New("allocator: resource exhausted")

// Allocator tracks outstanding bytes against an optional budget.
// A zero limit means unbounded.
type Allocator struct {
	mu          sync.Mutex
	cond        *sync.Cond
	limit       int
	outstanding int
}

// New creates an allocator with the given byte budget. limit <= 0 means
// unbounded.
func New(limit int) *Allocator {
	a := &Allocator{limit: limit}
	a.cond = sync.NewCond(&a.mu)
	return a
}

var defaultAllocator = New(0)

// Default returns the process-wide allocator used by array materialization.
func Default() *Allocator {
	return defaultAllocator
}

// Alloc returns a zeroed buffer of n bytes. If the budget is currently
// exhausted it blocks until enough memory is freed. Requests larger than the
// whole budget fail with ErrResourceExhausted.
func (a *Allocator) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Errorf("allocator: negative size %d", n)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.limit > 0 {
		if n > a.limit {
			return nil, errors.Wrapf(ErrResourceExhausted, "request of %d bytes exceeds budget of %d", n, a.limit)
		}
		for a.outstanding+n > a.limit {
			a.cond.Wait()
		}
	}
	a.outstanding += n
	return make([]byte, n), nil
}

// Free returns n bytes to the budget and wakes blocked allocations.
func (a *Allocator) Free(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.outstanding -= n
	a.cond.Broadcast()
}

// Outstanding reports the bytes currently allocated and not yet freed.
func (a *Allocator) Outstanding() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.outstanding
}
