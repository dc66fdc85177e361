// Package eval routes a primitive to the kernel registered for an
// execution target. Registration is static: each target owns a Kind-indexed
// table populated at init, and a missing entry means the pair is
// unsupported and errors without touching output storage. There is never a
// silent fallback from one target to another.
package eval

import (
	"github.com/pkg/errors"

	"github.com/loom-ml/loom/internal/backend/generic"
	"github.com/loom-ml/loom/internal/backend/veccpu"
	"github.com/loom-ml/loom/internal/tensor"
)

// ErrUnimplemented reports a (kind, target) pair with no registered kernel.
var ErrUnimplemented = errors.New("primitive not implemented for target")

// Kernel evaluates a single-output primitive into out.
type Kernel func(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error

// MultiKernel evaluates a multi-output primitive into outs.
type MultiKernel func(p *tensor.Primitive, inputs []*tensor.Array, outs []*tensor.Array) error

var (
	kernels      [][]Kernel
	multiKernels [][]MultiKernel
)

// Kind groups. Each group shares one executor entry point; the executor
// switches on the exact kind internally.
var (
	unaryKinds = []tensor.Kind{
		tensor.KindAbs, tensor.KindArcCos, tensor.KindArcCosh,
		tensor.KindArcSin, tensor.KindArcSinh, tensor.KindArcTan,
		tensor.KindArcTanh, tensor.KindCeil, tensor.KindCos,
		tensor.KindCosh, tensor.KindErf, tensor.KindExp,
		tensor.KindFloor, tensor.KindLog, tensor.KindLog1p,
		tensor.KindLogicalNot, tensor.KindNegative, tensor.KindRound,
		tensor.KindSigmoid, tensor.KindSign, tensor.KindSin,
		tensor.KindSinh, tensor.KindSqrt, tensor.KindSquare,
		tensor.KindTan, tensor.KindTanh,
	}
	binaryKinds = []tensor.Kind{
		tensor.KindAdd, tensor.KindDivide, tensor.KindLogAddExp,
		tensor.KindMaximum, tensor.KindMinimum, tensor.KindMultiply,
		tensor.KindPower, tensor.KindRemainder, tensor.KindSubtract,
	}
	comparisonKinds = []tensor.Kind{
		tensor.KindEqual, tensor.KindNotEqual, tensor.KindGreater,
		tensor.KindGreaterEqual, tensor.KindLess, tensor.KindLessEqual,
		tensor.KindLogicalAnd, tensor.KindLogicalOr,
	}
)

func init() {
	kernels = make([][]Kernel, tensor.NumTargets())
	multiKernels = make([][]MultiKernel, tensor.NumTargets())
	for t := range kernels {
		kernels[t] = make([]Kernel, tensor.NumKinds())
		multiKernels[t] = make([]MultiKernel, tensor.NumKinds())
	}
	registerCPU()
	registerVecCPU()
	// The GPU tables stay empty: every kind errors until a device backend
	// lands. FFT has no entry on any target.
}

// registerCPU installs the generic scalar executors, the correctness
// baseline for every kind with a host implementation.
func registerCPU() {
	k := kernels[tensor.CPU]
	m := multiKernels[tensor.CPU]

	for _, kind := range unaryKinds {
		k[kind] = generic.EvalUnary
	}
	for _, kind := range binaryKinds {
		k[kind] = generic.EvalBinary
	}
	for _, kind := range comparisonKinds {
		k[kind] = generic.EvalComparison
	}

	k[tensor.KindArange] = generic.EvalArange
	k[tensor.KindAsType] = generic.EvalAsType
	k[tensor.KindBroadcast] = generic.EvalBroadcast
	k[tensor.KindConcatenate] = generic.EvalConcatenate
	k[tensor.KindCopy] = generic.EvalCopy
	k[tensor.KindFull] = generic.EvalFull
	k[tensor.KindMatmul] = generic.EvalMatmul
	k[tensor.KindRandomBits] = generic.EvalRandomBits
	k[tensor.KindReshape] = generic.EvalReshape
	k[tensor.KindScan] = generic.EvalScan
	k[tensor.KindSlice] = generic.EvalSlice
	k[tensor.KindStopGradient] = generic.EvalStopGradient
	k[tensor.KindTranspose] = generic.EvalTranspose

	m[tensor.KindDivMod] = generic.EvalDivMod
	m[tensor.KindSplit] = generic.EvalSplit
}

// registerVecCPU copies the CPU tables and overrides the kinds with
// vector-accelerated entry points. Every override delegates back to the
// generic executor when its preconditions fail, so the two targets agree
// bit for bit on every input.
func registerVecCPU() {
	copy(kernels[tensor.VecCPU], kernels[tensor.CPU])
	copy(multiKernels[tensor.VecCPU], multiKernels[tensor.CPU])

	k := kernels[tensor.VecCPU]
	for _, kind := range unaryKinds {
		k[kind] = veccpu.EvalUnary
	}
	for _, kind := range binaryKinds {
		k[kind] = veccpu.EvalBinary
	}
	k[tensor.KindAsType] = veccpu.EvalAsType
	k[tensor.KindFull] = veccpu.EvalFull
	k[tensor.KindScan] = veccpu.EvalScan
}

// Eval runs a single-output primitive on the given target.
//
// An unsupported (kind, target) pair returns ErrUnimplemented before any
// output storage is allocated or aliased. Evaluation is synchronous.
func Eval(target tensor.Target, p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if err := checkTargetKind(target, p.Kind); err != nil {
		return err
	}
	if multiKernels[target][p.Kind] != nil {
		return errors.Errorf("[eval] %s produces multiple outputs, use EvalMulti", p.Kind)
	}
	k := kernels[target][p.Kind]
	if k == nil {
		return errors.Wrapf(ErrUnimplemented, "[eval] %s on %s", p.Kind, target)
	}
	return k(p, inputs, out)
}

// EvalMulti runs a multi-output primitive on the given target.
func EvalMulti(target tensor.Target, p *tensor.Primitive, inputs []*tensor.Array, outs []*tensor.Array) error {
	if err := checkTargetKind(target, p.Kind); err != nil {
		return err
	}
	if kernels[target][p.Kind] != nil {
		return errors.Errorf("[eval] %s produces one output, use Eval", p.Kind)
	}
	m := multiKernels[target][p.Kind]
	if m == nil {
		return errors.Wrapf(ErrUnimplemented, "[eval] %s on %s", p.Kind, target)
	}
	return m(p, inputs, outs)
}

func checkTargetKind(target tensor.Target, kind tensor.Kind) error {
	if target < 0 || int(target) >= tensor.NumTargets() {
		return errors.Errorf("[eval] unknown target %d", target)
	}
	if kind < 0 || int(kind) >= tensor.NumKinds() {
		return errors.Errorf("[eval] unknown primitive kind %d", kind)
	}
	return nil
}

// Supported reports whether the (kind, target) pair has a registered
// kernel of either arity.
func Supported(target tensor.Target, kind tensor.Kind) bool {
	if target < 0 || int(target) >= tensor.NumTargets() ||
		kind < 0 || int(kind) >= tensor.NumKinds() {
		return false
	}
	return kernels[target][kind] != nil || multiKernels[target][kind] != nil
}

// DefaultTarget picks VecCPU when the host reports a usable vector unit,
// CPU otherwise. GPU is never chosen automatically.
func DefaultTarget() tensor.Target {
	if veccpu.Available() {
		return tensor.VecCPU
	}
	return tensor.CPU
}
