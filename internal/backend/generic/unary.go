package generic

import (
	"math"

	"github.com/pkg/errors"
	"github.com/x448/float16"

	"github.com/loom-ml/loom/internal/tensor"
)

// unaryT applies f element-wise, respecting arbitrary input strides. The
// output was prepared by MaterializeUnary: for contiguous inputs it shares
// the input's physical layout, so a flat loop over the data span is exact.
func unaryT[T tensor.Elem](in, out *tensor.Array, f func(T) T) {
	src := tensor.Data[T](in)
	dst := tensor.Data[T](out)

	if in.Flags().Contiguous {
		n := in.DataSize()
		for i := 0; i < n; i++ {
			dst[i] = f(src[i])
		}
		return
	}

	shape, strides := in.Shape(), in.Strides()
	n := in.NumElements()
	for i := 0; i < n; i++ {
		dst[i] = f(src[tensor.ElemToLoc(i, shape, strides)])
	}
}

// unaryToBool applies a predicate element-wise into a Bool output.
func unaryToBool[T tensor.Elem](in, out *tensor.Array, f func(T) bool) {
	src := tensor.Data[T](in)
	dst := tensor.Data[bool](out)

	if in.Flags().RowContiguous {
		n := in.DataSize()
		for i := 0; i < n; i++ {
			dst[i] = f(src[i])
		}
		return
	}

	shape, strides := in.Shape(), in.Strides()
	n := in.NumElements()
	for i := 0; i < n; i++ {
		dst[i] = f(src[tensor.ElemToLoc(i, shape, strides)])
	}
}

// unaryFloat applies f to every element of a floating-point array. Float32
// math goes through float64 and rounds once, which is also what the veccpu
// kernels do, keeping both paths bit-identical.
func unaryFloat(name string, in, out *tensor.Array, f func(float64) float64) error {
	switch out.DType() {
	case tensor.Float32:
		unaryT(in, out, func(v float32) float32 { return float32(f(float64(v))) })
	case tensor.Float64:
		unaryT(in, out, f)
	case tensor.Float16:
		unaryT(in, out, func(v uint16) uint16 {
			r := f(float64(float16.Frombits(v).Float32()))
			return float16.Fromfloat32(float32(r)).Bits()
		})
	default:
		return errors.Wrapf(ErrInvalidOperand,
			"[%s] cannot apply to array with non floating point type %s", name, out.DType())
	}
	return nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// FloatOp returns the scalar function for a float-only unary primitive, or
// nil when the kind is not float-only. The veccpu fast paths apply the same
// function over flat spans, which keeps both paths bit-identical.
func FloatOp(p *tensor.Primitive) func(float64) float64 {
	switch p.Kind {
	case tensor.KindArcCos:
		return math.Acos
	case tensor.KindArcCosh:
		return math.Acosh
	case tensor.KindArcSin:
		return math.Asin
	case tensor.KindArcSinh:
		return math.Asinh
	case tensor.KindArcTan:
		return math.Atan
	case tensor.KindArcTanh:
		return math.Atanh
	case tensor.KindCos:
		return math.Cos
	case tensor.KindCosh:
		return math.Cosh
	case tensor.KindSin:
		return math.Sin
	case tensor.KindSinh:
		return math.Sinh
	case tensor.KindTan:
		return math.Tan
	case tensor.KindTanh:
		return math.Tanh
	case tensor.KindExp:
		return math.Exp
	case tensor.KindLog1p:
		return math.Log1p
	case tensor.KindErf:
		return math.Erf
	case tensor.KindSigmoid:
		return sigmoid
	case tensor.KindLog:
		switch p.Base {
		case tensor.Base2:
			return math.Log2
		case tensor.Base10:
			return math.Log10
		default:
			return math.Log
		}
	case tensor.KindSqrt:
		if p.Recip {
			return func(x float64) float64 { return 1 / math.Sqrt(x) }
		}
		return math.Sqrt
	}
	return nil
}

// EvalUnary is the generic executor for single-input element-wise
// primitives.
func EvalUnary(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if err := wantInputs(p, inputs, 1); err != nil {
		return err
	}
	in := inputs[0]

	// Absolute value of an unsigned array is a true no-op: alias, never
	// compute.
	if p.Kind == tensor.KindAbs && in.DType().IsUnsigned() {
		AliasNoOp(in, out)
		return nil
	}

	if p.Kind == tensor.KindLogicalNot {
		if err := out.Materialize(); err != nil {
			return err
		}
		return logicalNot(in, out)
	}

	if f := FloatOp(p); f != nil {
		// Validate before materializing so a failed call leaves no
		// storage behind.
		if !out.DType().IsFloat() {
			return errors.Wrapf(ErrInvalidOperand,
				"[%s] cannot apply to array with non floating point type %s", p, out.DType())
		}
		if err := MaterializeUnary(in, out); err != nil {
			return err
		}
		return unaryFloat(p.String(), in, out, f)
	}

	if err := MaterializeUnary(in, out); err != nil {
		return err
	}

	switch p.Kind {
	case tensor.KindAbs:
		return absOp(in, out)
	case tensor.KindNegative:
		return negOp(in, out)
	case tensor.KindSquare:
		return squareOp(in, out)
	case tensor.KindSign:
		return signOp(in, out)
	case tensor.KindCeil:
		return roundingOp(p, in, out, math.Ceil)
	case tensor.KindFloor:
		return roundingOp(p, in, out, math.Floor)
	case tensor.KindRound:
		return roundingOp(p, in, out, math.RoundToEven)
	default:
		return errors.Errorf("[%s] is not a unary primitive", p)
	}
}

func absOp(in, out *tensor.Array) error {
	switch in.DType() {
	case tensor.Int8:
		unaryT(in, out, absInt[int8])
	case tensor.Int16:
		unaryT(in, out, absInt[int16])
	case tensor.Int32:
		unaryT(in, out, absInt[int32])
	case tensor.Int64:
		unaryT(in, out, absInt[int64])
	case tensor.Float32:
		unaryT(in, out, func(v float32) float32 { return float32(math.Abs(float64(v))) })
	case tensor.Float64:
		unaryT(in, out, math.Abs)
	case tensor.Float16:
		unaryT(in, out, func(v uint16) uint16 { return v &^ 0x8000 })
	default:
		return errors.Wrapf(ErrInvalidOperand, "[abs] unsupported dtype %s", in.DType())
	}
	return nil
}

func absInt[T ~int8 | ~int16 | ~int32 | ~int64](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

func negOp(in, out *tensor.Array) error {
	switch in.DType() {
	case tensor.Int8:
		unaryT(in, out, func(v int8) int8 { return -v })
	case tensor.Int16:
		unaryT(in, out, func(v int16) int16 { return -v })
	case tensor.Int32:
		unaryT(in, out, func(v int32) int32 { return -v })
	case tensor.Int64:
		unaryT(in, out, func(v int64) int64 { return -v })
	case tensor.Uint8:
		unaryT(in, out, func(v uint8) uint8 { return -v })
	case tensor.Uint16:
		unaryT(in, out, func(v uint16) uint16 { return -v })
	case tensor.Uint32:
		unaryT(in, out, func(v uint32) uint32 { return -v })
	case tensor.Uint64:
		unaryT(in, out, func(v uint64) uint64 { return -v })
	case tensor.Float32:
		unaryT(in, out, func(v float32) float32 { return -v })
	case tensor.Float64:
		unaryT(in, out, func(v float64) float64 { return -v })
	case tensor.Float16:
		unaryT(in, out, func(v uint16) uint16 { return v ^ 0x8000 })
	case tensor.Complex64:
		unaryT(in, out, func(v complex64) complex64 { return -v })
	default:
		return errors.Wrapf(ErrInvalidOperand, "[negative] unsupported dtype %s", in.DType())
	}
	return nil
}

func squareOp(in, out *tensor.Array) error {
	switch in.DType() {
	case tensor.Int8:
		unaryT(in, out, func(v int8) int8 { return v * v })
	case tensor.Int16:
		unaryT(in, out, func(v int16) int16 { return v * v })
	case tensor.Int32:
		unaryT(in, out, func(v int32) int32 { return v * v })
	case tensor.Int64:
		unaryT(in, out, func(v int64) int64 { return v * v })
	case tensor.Uint8:
		unaryT(in, out, func(v uint8) uint8 { return v * v })
	case tensor.Uint16:
		unaryT(in, out, func(v uint16) uint16 { return v * v })
	case tensor.Uint32:
		unaryT(in, out, func(v uint32) uint32 { return v * v })
	case tensor.Uint64:
		unaryT(in, out, func(v uint64) uint64 { return v * v })
	case tensor.Float32:
		unaryT(in, out, func(v float32) float32 { return v * v })
	case tensor.Float64:
		unaryT(in, out, func(v float64) float64 { return v * v })
	case tensor.Float16:
		unaryT(in, out, func(v uint16) uint16 {
			f := float16.Frombits(v).Float32()
			return float16.Fromfloat32(f * f).Bits()
		})
	case tensor.Complex64:
		unaryT(in, out, func(v complex64) complex64 { return v * v })
	default:
		return errors.Wrapf(ErrInvalidOperand, "[square] unsupported dtype %s", in.DType())
	}
	return nil
}

func signInt[T ~int8 | ~int16 | ~int32 | ~int64](v T) T {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func signOp(in, out *tensor.Array) error {
	switch in.DType() {
	case tensor.Int8:
		unaryT(in, out, signInt[int8])
	case tensor.Int16:
		unaryT(in, out, signInt[int16])
	case tensor.Int32:
		unaryT(in, out, signInt[int32])
	case tensor.Int64:
		unaryT(in, out, signInt[int64])
	case tensor.Uint8:
		unaryT(in, out, signUint[uint8])
	case tensor.Uint16:
		unaryT(in, out, signUint[uint16])
	case tensor.Uint32:
		unaryT(in, out, signUint[uint32])
	case tensor.Uint64:
		unaryT(in, out, signUint[uint64])
	case tensor.Float32:
		unaryT(in, out, func(v float32) float32 { return float32(signFloat(float64(v))) })
	case tensor.Float64:
		unaryT(in, out, signFloat)
	case tensor.Float16:
		unaryT(in, out, func(v uint16) uint16 {
			r := signFloat(float64(float16.Frombits(v).Float32()))
			return float16.Fromfloat32(float32(r)).Bits()
		})
	default:
		return errors.Wrapf(ErrInvalidOperand, "[sign] unsupported dtype %s", in.DType())
	}
	return nil
}

func signUint[T ~uint8 | ~uint16 | ~uint32 | ~uint64](v T) T {
	if v > 0 {
		return 1
	}
	return 0
}

func signFloat(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// roundingOp applies ceil/floor/round. Integer inputs are already integral,
// so the result is a logical copy.
func roundingOp(p *tensor.Primitive, in, out *tensor.Array, f func(float64) float64) error {
	if in.DType().IsInteger() || in.DType() == tensor.Bool {
		copyFlat(in, out)
		return nil
	}
	return unaryFloat(p.String(), in, out, f)
}

func logicalNot(in, out *tensor.Array) error {
	return forEachTruthy(in, out, func(v bool) bool { return !v })
}

// forEachTruthy evaluates the truthiness of each input element (zero is
// false, regardless of dtype) and writes f(truthy) into a Bool output.
func forEachTruthy(in, out *tensor.Array, f func(bool) bool) error {
	switch in.DType() {
	case tensor.Bool:
		unaryToBool(in, out, func(v bool) bool { return f(v) })
	case tensor.Int8:
		unaryToBool(in, out, func(v int8) bool { return f(v != 0) })
	case tensor.Int16:
		unaryToBool(in, out, func(v int16) bool { return f(v != 0) })
	case tensor.Int32:
		unaryToBool(in, out, func(v int32) bool { return f(v != 0) })
	case tensor.Int64:
		unaryToBool(in, out, func(v int64) bool { return f(v != 0) })
	case tensor.Uint8:
		unaryToBool(in, out, func(v uint8) bool { return f(v != 0) })
	case tensor.Uint16:
		unaryToBool(in, out, func(v uint16) bool { return f(v != 0) })
	case tensor.Uint32:
		unaryToBool(in, out, func(v uint32) bool { return f(v != 0) })
	case tensor.Uint64:
		unaryToBool(in, out, func(v uint64) bool { return f(v != 0) })
	case tensor.Float32:
		unaryToBool(in, out, func(v float32) bool { return f(v != 0) })
	case tensor.Float64:
		unaryToBool(in, out, func(v float64) bool { return f(v != 0) })
	case tensor.Float16:
		unaryToBool(in, out, func(v uint16) bool { return f(v&^0x8000 != 0) })
	case tensor.Complex64:
		unaryToBool(in, out, func(v complex64) bool { return f(v != 0) })
	default:
		return errors.Wrapf(ErrInvalidOperand, "[logical_not] unsupported dtype %s", in.DType())
	}
	return nil
}
