// Package veccpu implements the vector-accelerated CPU entry points: per
// primitive, an ordered chain of preconditions picks a flat-span kernel, and
// anything outside the chain delegates to the generic executors. Fast paths
// are optimizations only; results are bit-identical to package generic.
package veccpu

import (
	"github.com/loom-ml/loom/internal/cpuinfo"
	"github.com/loom-ml/loom/internal/parallel"
)

var cfg = parallel.DefaultConfig()

// Available reports whether this target is worth selecting on the host.
// The kernels are portable Go, so this gates default-target policy only.
func Available() bool {
	return cpuinfo.HasVector()
}
