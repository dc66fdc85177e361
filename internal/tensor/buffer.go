package tensor

import (
	"sync/atomic"

	"github.com/loom-ml/loom/internal/allocator"
)

// buffer is reference-counted raw storage shared between array views.
// The last release returns the bytes to the allocator budget.
type buffer struct {
	data  []byte
	refs  atomic.Int32
	alloc *allocator.Allocator
}

func newBuffer(size int, alloc *allocator.Allocator) (*buffer, error) {
	data, err := alloc.Alloc(size)
	if err != nil {
		return nil, err
	}
	b := &buffer{data: data, alloc: alloc}
	b.refs.Store(1)
	return b, nil
}

func (b *buffer) addRef() {
	b.refs.Add(1)
}

func (b *buffer) release() {
	if b.refs.Add(-1) == 0 {
		b.alloc.Free(len(b.data))
		b.data = nil
	}
}

// unique reports whether exactly one live array references this buffer.
// This is the donation precondition: a unique buffer may be transferred to
// an output array without copying.
func (b *buffer) unique() bool {
	return b.refs.Load() == 1
}
