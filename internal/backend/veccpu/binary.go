package veccpu

import (
	"math"

	"github.com/loom-ml/loom/internal/backend/generic"
	"github.com/loom-ml/loom/internal/tensor"
)

// shape case for a binary fast path.
type bcase int

const (
	bGeneral bcase = iota
	bScalarVector
	bVectorScalar
	bVectorVector
)

// classify picks the shape specialization. A "scalar" operand addresses one
// physical element (a true scalar or a broadcast view of one); a "vector"
// operand is row-contiguous and covers the whole output.
func classify(a, b, out *tensor.Array) bcase {
	aScalar := a.DataSize() == 1
	bScalar := b.DataSize() == 1
	aVector := a.Flags().RowContiguous && a.Shape().Equal(out.Shape())
	bVector := b.Flags().RowContiguous && b.Shape().Equal(out.Shape())

	switch {
	case aScalar && bVector:
		return bScalarVector
	case aVector && bScalar:
		return bVectorScalar
	case aVector && bVector:
		return bVectorVector
	default:
		return bGeneral
	}
}

// EvalBinary applies the binary fast-path chain: a float32 or int32 kernel
// specialized by shape case, else the generic broadcasting executor with
// the plain scalar operator.
func EvalBinary(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if len(inputs) != 2 {
		return generic.EvalBinary(p, inputs, out)
	}
	a, b := inputs[0], inputs[1]

	if p.Kind == tensor.KindPower {
		return evalPower(p, a, b, out)
	}

	bc := classify(a, b, out)
	if bc == bGeneral {
		return generic.EvalBinary(p, inputs, out)
	}

	switch out.DType() {
	case tensor.Float32:
		if f := f32Op(p.Kind); f != nil && a.DType() == tensor.Float32 && b.DType() == tensor.Float32 {
			if err := generic.MaterializeBinary(out, a, b); err != nil {
				return err
			}
			runBinary(bc, tensor.Data[float32](out)[:out.NumElements()], a, b, f)
			return nil
		}
	case tensor.Int32:
		if f := i32Op(p.Kind); f != nil && a.DType() == tensor.Int32 && b.DType() == tensor.Int32 {
			if err := generic.MaterializeBinary(out, a, b); err != nil {
				return err
			}
			runBinary(bc, tensor.Data[int32](out)[:out.NumElements()], a, b, f)
			return nil
		}
	}

	return generic.EvalBinary(p, inputs, out)
}

func runBinary[T int32 | float32](bc bcase, dst []T, a, b *tensor.Array, f func(T, T) T) {
	switch bc {
	case bScalarVector:
		binarySV(dst, tensor.Data[T](a)[0], tensor.Data[T](b)[:len(dst)], f)
	case bVectorScalar:
		binaryVS(dst, tensor.Data[T](a)[:len(dst)], tensor.Data[T](b)[0], f)
	case bVectorVector:
		binaryVV(dst, tensor.Data[T](a)[:len(dst)], tensor.Data[T](b)[:len(dst)], f)
	}
}

// f32Op mirrors the generic float32 scalar operators exactly; any kind
// whose fast-path semantics could diverge stays out of this table.
func f32Op(k tensor.Kind) func(float32, float32) float32 {
	switch k {
	case tensor.KindAdd:
		return func(x, y float32) float32 { return x + y }
	case tensor.KindSubtract:
		return func(x, y float32) float32 { return x - y }
	case tensor.KindMultiply:
		return func(x, y float32) float32 { return x * y }
	case tensor.KindDivide:
		return func(x, y float32) float32 { return x / y }
	case tensor.KindRemainder:
		// fmod semantics: sign follows the dividend.
		return func(x, y float32) float32 { return float32(math.Mod(float64(x), float64(y))) }
	}
	return nil
}

// i32Op covers the fast 32-bit integer kernels. Divide uses truncating
// semantics, same as the generic path.
func i32Op(k tensor.Kind) func(int32, int32) int32 {
	switch k {
	case tensor.KindAdd:
		return func(x, y int32) int32 { return x + y }
	case tensor.KindSubtract:
		return func(x, y int32) int32 { return x - y }
	case tensor.KindDivide:
		return func(x, y int32) int32 { return x / y }
	}
	return nil
}

// evalPower vectorizes only the all-row-contiguous float32 case, donating
// the first eligible operand buffer.
func evalPower(p *tensor.Primitive, a, b, out *tensor.Array) error {
	if out.DType() == tensor.Float32 &&
		a.DType() == tensor.Float32 && b.DType() == tensor.Float32 &&
		a.Flags().RowContiguous && b.Flags().RowContiguous &&
		a.Shape().Equal(out.Shape()) && b.Shape().Equal(out.Shape()) {
		if err := generic.MaterializeBinary(out, a, b); err != nil {
			return err
		}
		binaryVV(tensor.Data[float32](out)[:out.NumElements()],
			tensor.Data[float32](a)[:out.NumElements()],
			tensor.Data[float32](b)[:out.NumElements()],
			func(x, y float32) float32 { return float32(math.Pow(float64(x), float64(y))) })
		return nil
	}
	return generic.EvalBinary(p, []*tensor.Array{a, b}, out)
}
