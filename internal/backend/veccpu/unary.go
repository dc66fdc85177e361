package veccpu

import (
	"github.com/loom-ml/loom/internal/backend/generic"
	"github.com/loom-ml/loom/internal/tensor"
)

// EvalUnary applies the unary fast-path chain:
//
//  1. Abs over an unsigned dtype is a buffer alias, never arithmetic.
//  2. Float32 output over a fully contiguous input runs the flat-span
//     kernel (Abs over contiguous int32 gets the integer kernel).
//  3. Everything else delegates to the generic executor.
func EvalUnary(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if len(inputs) != 1 {
		return generic.EvalUnary(p, inputs, out)
	}
	in := inputs[0]

	if p.Kind == tensor.KindAbs && in.DType().IsUnsigned() {
		generic.AliasNoOp(in, out)
		return nil
	}

	if in.Flags().Contiguous {
		switch {
		case out.DType() == tensor.Float32 && in.DType() == tensor.Float32 && unaryF32Kernel(p) != nil:
			if err := generic.MaterializeUnary(in, out); err != nil {
				return err
			}
			unaryF32Kernel(p)(tensor.Data[float32](out)[:in.DataSize()], tensor.Data[float32](in)[:in.DataSize()])
			return nil
		case p.Kind == tensor.KindAbs && in.DType() == tensor.Int32:
			if err := generic.MaterializeUnary(in, out); err != nil {
				return err
			}
			absI32(tensor.Data[int32](out)[:in.DataSize()], tensor.Data[int32](in)[:in.DataSize()])
			return nil
		}
	}

	return generic.EvalUnary(p, inputs, out)
}

// unaryF32Kernel returns the flat float32 kernel for the primitive, or nil
// when the kind (or its parameters) has no vectorized form.
func unaryF32Kernel(p *tensor.Primitive) func(dst, src []float32) {
	switch p.Kind {
	case tensor.KindAbs:
		return absF32
	case tensor.KindNegative:
		return negF32
	case tensor.KindSquare:
		return squareF32
	}
	if f := generic.FloatOp(p); f != nil {
		return func(dst, src []float32) { mapF32(dst, src, f) }
	}
	return nil
}
