package tensor

// Target is an execution backend for primitive evaluation.
type Target int

// Supported execution targets.
const (
	// CPU is the generic scalar path: correct for every dtype and layout.
	CPU Target = iota
	// VecCPU is the vector-accelerated CPU path. It must produce results
	// numerically identical to CPU for all valid inputs.
	VecCPU
	// GPU is an accelerator target with no kernel implementations;
	// every evaluation on it fails with an unimplemented error.
	GPU
	numTargets
)

// NumTargets returns the number of execution targets.
func NumTargets() int {
	return int(numTargets)
}

// String returns a human-readable target name.
func (t Target) String() string {
	switch t {
	case CPU:
		return "cpu"
	case VecCPU:
		return "veccpu"
	case GPU:
		return "gpu"
	default:
		return "unknown"
	}
}
