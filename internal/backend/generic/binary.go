package generic

import (
	"math"

	"github.com/pkg/errors"
	"github.com/x448/float16"

	"github.com/loom-ml/loom/internal/tensor"
)

// binaryT applies f(a_elem, b_elem) under broadcasting. Broadcast legality
// was validated at graph construction; here operand strides are simply
// padded with zeros for repeated dimensions. The output is dense row-major
// (possibly donated from an equal-shape row-contiguous input, in which case
// index i is read before it is written).
func binaryT[T tensor.Elem](a, b, out *tensor.Array, f func(T, T) T) {
	as := tensor.Data[T](a)
	bs := tensor.Data[T](b)
	os := tensor.Data[T](out)
	n := out.NumElements()

	if a.Flags().RowContiguous && b.Flags().RowContiguous &&
		a.Shape().Equal(out.Shape()) && b.Shape().Equal(out.Shape()) {
		for i := 0; i < n; i++ {
			os[i] = f(as[i], bs[i])
		}
		return
	}

	shape := out.Shape()
	aStrides := tensor.BroadcastStrides(a.Shape(), a.Strides(), shape)
	bStrides := tensor.BroadcastStrides(b.Shape(), b.Strides(), shape)
	for i := 0; i < n; i++ {
		os[i] = f(as[tensor.ElemToLoc(i, shape, aStrides)], bs[tensor.ElemToLoc(i, shape, bStrides)])
	}
}

// binaryToBool applies a predicate under broadcasting into a Bool output.
func binaryToBool[T tensor.Elem](a, b, out *tensor.Array, f func(T, T) bool) {
	as := tensor.Data[T](a)
	bs := tensor.Data[T](b)
	os := tensor.Data[bool](out)
	n := out.NumElements()

	shape := out.Shape()
	aStrides := tensor.BroadcastStrides(a.Shape(), a.Strides(), shape)
	bStrides := tensor.BroadcastStrides(b.Shape(), b.Strides(), shape)
	for i := 0; i < n; i++ {
		os[i] = f(as[tensor.ElemToLoc(i, shape, aStrides)], bs[tensor.ElemToLoc(i, shape, bStrides)])
	}
}

// ipow is integer exponentiation by repeated multiplication, wrapping on
// overflow; non-positive exponents yield one.
func ipow[T ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64](base, exp T) T {
	var result T = 1
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}

// arithInt evaluates an arithmetic kind over an integer dtype. Divide and
// Remainder use truncating semantics with sign following the dividend,
// matching Go's native integer operators.
func arithInt[T ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64](p *tensor.Primitive, a, b, out *tensor.Array) error {
	switch p.Kind {
	case tensor.KindAdd:
		binaryT(a, b, out, func(x, y T) T { return x + y })
	case tensor.KindSubtract:
		binaryT(a, b, out, func(x, y T) T { return x - y })
	case tensor.KindMultiply:
		binaryT(a, b, out, func(x, y T) T { return x * y })
	case tensor.KindDivide:
		binaryT(a, b, out, func(x, y T) T { return x / y })
	case tensor.KindRemainder:
		binaryT(a, b, out, func(x, y T) T { return x % y })
	case tensor.KindPower:
		binaryT(a, b, out, ipow[T])
	case tensor.KindMaximum:
		binaryT(a, b, out, func(x, y T) T { return max(x, y) })
	case tensor.KindMinimum:
		binaryT(a, b, out, func(x, y T) T { return min(x, y) })
	default:
		return errors.Wrapf(ErrInvalidOperand, "[%s] cannot apply to integer arrays", p)
	}
	return nil
}

// arithFloat evaluates an arithmetic kind over float32 or float64.
// Remainder matches fmod: the result carries the dividend's sign. The
// transcendental kinds round once from float64, exactly like the veccpu
// kernels.
func arithFloat[T ~float32 | ~float64](p *tensor.Primitive, a, b, out *tensor.Array) error {
	switch p.Kind {
	case tensor.KindAdd:
		binaryT(a, b, out, func(x, y T) T { return x + y })
	case tensor.KindSubtract:
		binaryT(a, b, out, func(x, y T) T { return x - y })
	case tensor.KindMultiply:
		binaryT(a, b, out, func(x, y T) T { return x * y })
	case tensor.KindDivide:
		binaryT(a, b, out, func(x, y T) T { return x / y })
	case tensor.KindRemainder:
		binaryT(a, b, out, func(x, y T) T { return T(math.Mod(float64(x), float64(y))) })
	case tensor.KindPower:
		binaryT(a, b, out, func(x, y T) T { return T(math.Pow(float64(x), float64(y))) })
	case tensor.KindMaximum:
		binaryT(a, b, out, func(x, y T) T { return T(math.Max(float64(x), float64(y))) })
	case tensor.KindMinimum:
		binaryT(a, b, out, func(x, y T) T { return T(math.Min(float64(x), float64(y))) })
	case tensor.KindLogAddExp:
		binaryT(a, b, out, func(x, y T) T { return T(logAddExp(float64(x), float64(y))) })
	default:
		return errors.Errorf("[%s] is not a binary primitive", p)
	}
	return nil
}

// logAddExp computes log(exp(x) + exp(y)) without overflowing.
func logAddExp(x, y float64) float64 {
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.NaN()
	}
	hi, lo := x, y
	if lo > hi {
		hi, lo = lo, hi
	}
	if math.IsInf(hi, -1) {
		return hi
	}
	return hi + math.Log1p(math.Exp(lo-hi))
}

// arithFloat16 routes float16 arithmetic through float32 with one final
// rounding per element.
func arithFloat16(p *tensor.Primitive, a, b, out *tensor.Array) error {
	apply := func(f func(x, y float32) float32) {
		binaryT(a, b, out, func(x, y uint16) uint16 {
			r := f(float16.Frombits(x).Float32(), float16.Frombits(y).Float32())
			return float16.Fromfloat32(r).Bits()
		})
	}
	switch p.Kind {
	case tensor.KindAdd:
		apply(func(x, y float32) float32 { return x + y })
	case tensor.KindSubtract:
		apply(func(x, y float32) float32 { return x - y })
	case tensor.KindMultiply:
		apply(func(x, y float32) float32 { return x * y })
	case tensor.KindDivide:
		apply(func(x, y float32) float32 { return x / y })
	case tensor.KindRemainder:
		apply(func(x, y float32) float32 { return float32(math.Mod(float64(x), float64(y))) })
	case tensor.KindPower:
		apply(func(x, y float32) float32 { return float32(math.Pow(float64(x), float64(y))) })
	case tensor.KindMaximum:
		apply(func(x, y float32) float32 { return float32(math.Max(float64(x), float64(y))) })
	case tensor.KindMinimum:
		apply(func(x, y float32) float32 { return float32(math.Min(float64(x), float64(y))) })
	case tensor.KindLogAddExp:
		apply(func(x, y float32) float32 { return float32(logAddExp(float64(x), float64(y))) })
	default:
		return errors.Errorf("[%s] is not a binary primitive", p)
	}
	return nil
}

// EvalBinary is the generic executor for two-input element-wise arithmetic.
func EvalBinary(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if err := wantInputs(p, inputs, 2); err != nil {
		return err
	}
	a, b := inputs[0], inputs[1]

	if err := MaterializeBinary(out, a, b); err != nil {
		return err
	}

	switch out.DType() {
	case tensor.Int8:
		return arithInt[int8](p, a, b, out)
	case tensor.Int16:
		return arithInt[int16](p, a, b, out)
	case tensor.Int32:
		return arithInt[int32](p, a, b, out)
	case tensor.Int64:
		return arithInt[int64](p, a, b, out)
	case tensor.Uint8:
		return arithInt[uint8](p, a, b, out)
	case tensor.Uint16:
		return arithInt[uint16](p, a, b, out)
	case tensor.Uint32:
		return arithInt[uint32](p, a, b, out)
	case tensor.Uint64:
		return arithInt[uint64](p, a, b, out)
	case tensor.Float32:
		return arithFloat[float32](p, a, b, out)
	case tensor.Float64:
		return arithFloat[float64](p, a, b, out)
	case tensor.Float16:
		return arithFloat16(p, a, b, out)
	case tensor.Complex64:
		return arithComplex(p, a, b, out)
	default:
		return errors.Wrapf(ErrInvalidOperand, "[%s] unsupported dtype %s", p, out.DType())
	}
}

func arithComplex(p *tensor.Primitive, a, b, out *tensor.Array) error {
	switch p.Kind {
	case tensor.KindAdd:
		binaryT(a, b, out, func(x, y complex64) complex64 { return x + y })
	case tensor.KindSubtract:
		binaryT(a, b, out, func(x, y complex64) complex64 { return x - y })
	case tensor.KindMultiply:
		binaryT(a, b, out, func(x, y complex64) complex64 { return x * y })
	case tensor.KindDivide:
		binaryT(a, b, out, func(x, y complex64) complex64 { return x / y })
	default:
		return errors.Wrapf(ErrInvalidOperand, "[%s] cannot apply to complex arrays", p)
	}
	return nil
}

// EvalComparison is the generic executor for comparison and logical binary
// primitives; the output dtype is Bool.
func EvalComparison(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if err := wantInputs(p, inputs, 2); err != nil {
		return err
	}
	a, b := inputs[0], inputs[1]

	if err := out.Materialize(); err != nil {
		return err
	}

	switch p.Kind {
	case tensor.KindLogicalAnd:
		return logicalCombine(a, b, out, func(x, y bool) bool { return x && y })
	case tensor.KindLogicalOr:
		return logicalCombine(a, b, out, func(x, y bool) bool { return x || y })
	}

	switch a.DType() {
	case tensor.Bool:
		return cmpBool(p, a, b, out)
	case tensor.Int8:
		return cmpT[int8](p, a, b, out)
	case tensor.Int16:
		return cmpT[int16](p, a, b, out)
	case tensor.Int32:
		return cmpT[int32](p, a, b, out)
	case tensor.Int64:
		return cmpT[int64](p, a, b, out)
	case tensor.Uint8:
		return cmpT[uint8](p, a, b, out)
	case tensor.Uint16:
		return cmpT[uint16](p, a, b, out)
	case tensor.Uint32:
		return cmpT[uint32](p, a, b, out)
	case tensor.Uint64:
		return cmpT[uint64](p, a, b, out)
	case tensor.Float32:
		return cmpT[float32](p, a, b, out)
	case tensor.Float64:
		return cmpT[float64](p, a, b, out)
	case tensor.Float16:
		return cmpFloat16(p, a, b, out)
	case tensor.Complex64:
		return cmpComplex(p, a, b, out)
	default:
		return errors.Wrapf(ErrInvalidOperand, "[%s] unsupported dtype %s", p, a.DType())
	}
}

func cmpT[T ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64](p *tensor.Primitive, a, b, out *tensor.Array) error {
	switch p.Kind {
	case tensor.KindEqual:
		binaryToBool(a, b, out, func(x, y T) bool { return x == y })
	case tensor.KindNotEqual:
		binaryToBool(a, b, out, func(x, y T) bool { return x != y })
	case tensor.KindGreater:
		binaryToBool(a, b, out, func(x, y T) bool { return x > y })
	case tensor.KindGreaterEqual:
		binaryToBool(a, b, out, func(x, y T) bool { return x >= y })
	case tensor.KindLess:
		binaryToBool(a, b, out, func(x, y T) bool { return x < y })
	case tensor.KindLessEqual:
		binaryToBool(a, b, out, func(x, y T) bool { return x <= y })
	default:
		return errors.Errorf("[%s] is not a comparison primitive", p)
	}
	return nil
}

func cmpFloat16(p *tensor.Primitive, a, b, out *tensor.Array) error {
	cmp := func(f func(x, y float32) bool) {
		binaryToBool(a, b, out, func(x, y uint16) bool {
			return f(float16.Frombits(x).Float32(), float16.Frombits(y).Float32())
		})
	}
	switch p.Kind {
	case tensor.KindEqual:
		cmp(func(x, y float32) bool { return x == y })
	case tensor.KindNotEqual:
		cmp(func(x, y float32) bool { return x != y })
	case tensor.KindGreater:
		cmp(func(x, y float32) bool { return x > y })
	case tensor.KindGreaterEqual:
		cmp(func(x, y float32) bool { return x >= y })
	case tensor.KindLess:
		cmp(func(x, y float32) bool { return x < y })
	case tensor.KindLessEqual:
		cmp(func(x, y float32) bool { return x <= y })
	default:
		return errors.Errorf("[%s] is not a comparison primitive", p)
	}
	return nil
}

func cmpBool(p *tensor.Primitive, a, b, out *tensor.Array) error {
	switch p.Kind {
	case tensor.KindEqual:
		binaryToBool(a, b, out, func(x, y bool) bool { return x == y })
	case tensor.KindNotEqual:
		binaryToBool(a, b, out, func(x, y bool) bool { return x != y })
	default:
		return errors.Wrapf(ErrInvalidOperand, "[%s] cannot order bool arrays", p)
	}
	return nil
}

func cmpComplex(p *tensor.Primitive, a, b, out *tensor.Array) error {
	switch p.Kind {
	case tensor.KindEqual:
		binaryToBool(a, b, out, func(x, y complex64) bool { return x == y })
	case tensor.KindNotEqual:
		binaryToBool(a, b, out, func(x, y complex64) bool { return x != y })
	default:
		return errors.Wrapf(ErrInvalidOperand, "[%s] cannot order complex arrays", p)
	}
	return nil
}

// logicalCombine applies a boolean connective to element truthiness; any
// numeric dtype participates, zero meaning false.
func logicalCombine(a, b, out *tensor.Array, f func(x, y bool) bool) error {
	ta, err := truthyOf(a)
	if err != nil {
		return err
	}
	tb, err := truthyOf(b)
	if err != nil {
		return err
	}

	os := tensor.Data[bool](out)
	shape := out.Shape()
	aStrides := tensor.BroadcastStrides(a.Shape(), a.Strides(), shape)
	bStrides := tensor.BroadcastStrides(b.Shape(), b.Strides(), shape)
	n := out.NumElements()
	for i := 0; i < n; i++ {
		os[i] = f(ta(tensor.ElemToLoc(i, shape, aStrides)), tb(tensor.ElemToLoc(i, shape, bStrides)))
	}
	return nil
}

// truthyOf returns an indexed truthiness reader for the array's storage.
func truthyOf(a *tensor.Array) (func(int) bool, error) {
	switch a.DType() {
	case tensor.Bool:
		s := tensor.Data[bool](a)
		return func(i int) bool { return s[i] }, nil
	case tensor.Int8:
		s := tensor.Data[int8](a)
		return func(i int) bool { return s[i] != 0 }, nil
	case tensor.Int16:
		s := tensor.Data[int16](a)
		return func(i int) bool { return s[i] != 0 }, nil
	case tensor.Int32:
		s := tensor.Data[int32](a)
		return func(i int) bool { return s[i] != 0 }, nil
	case tensor.Int64:
		s := tensor.Data[int64](a)
		return func(i int) bool { return s[i] != 0 }, nil
	case tensor.Uint8:
		s := tensor.Data[uint8](a)
		return func(i int) bool { return s[i] != 0 }, nil
	case tensor.Uint16:
		s := tensor.Data[uint16](a)
		return func(i int) bool { return s[i] != 0 }, nil
	case tensor.Uint32:
		s := tensor.Data[uint32](a)
		return func(i int) bool { return s[i] != 0 }, nil
	case tensor.Uint64:
		s := tensor.Data[uint64](a)
		return func(i int) bool { return s[i] != 0 }, nil
	case tensor.Float16:
		s := tensor.Data[uint16](a)
		return func(i int) bool { return s[i]&^0x8000 != 0 }, nil
	case tensor.Float32:
		s := tensor.Data[float32](a)
		return func(i int) bool { return s[i] != 0 }, nil
	case tensor.Float64:
		s := tensor.Data[float64](a)
		return func(i int) bool { return s[i] != 0 }, nil
	case tensor.Complex64:
		s := tensor.Data[complex64](a)
		return func(i int) bool { return s[i] != 0 }, nil
	default:
		return nil, errors.Wrapf(ErrInvalidOperand, "unsupported dtype %s", a.DType())
	}
}
