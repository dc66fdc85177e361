// Package cpuinfo reports whether the host CPU has the vector features the
// accelerated kernels are tuned for.
package cpuinfo

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// HasVector reports whether the host exposes a SIMD unit worth dispatching
// to. The accelerated kernels are plain Go over flat spans, so this gates
// policy only, never correctness.
func HasVector() bool {
	switch runtime.GOARCH {
	case "amd64":
		return cpu.X86.HasAVX2 || cpu.X86.HasSSE42
	case "arm64":
		return cpu.ARM64.HasASIMD
	default:
		return false
	}
}

// VectorName returns a short description of the detected vector unit.
func VectorName() string {
	switch runtime.GOARCH {
	case "amd64":
		switch {
		case cpu.X86.HasAVX512F:
			return "avx512"
		case cpu.X86.HasAVX2:
			return "avx2"
		case cpu.X86.HasSSE42:
			return "sse4.2"
		}
	case "arm64":
		if cpu.ARM64.HasSVE {
			return "sve"
		}
		if cpu.ARM64.HasASIMD {
			return "neon"
		}
	}
	return "scalar"
}
