package generic

import (
	"math"

	"github.com/pkg/errors"

	"github.com/loom-ml/loom/internal/tensor"
)

// scanT runs an associative reduction along one axis of a strided input
// into a dense output.
//
// The four direction/inclusivity combinations follow the mathematical
// definitions: forward inclusive[i] = reduce(in[0..i]), reverse
// inclusive[i] = reduce(in[i..end]); the exclusive variants exclude index i
// itself and start from the identity.
func scanT[T tensor.Elem](p *tensor.Primitive, in, out *tensor.Array, op func(T, T) T, identity T) {
	src := tensor.Data[T](in)
	dst := tensor.Data[T](out)

	shape := in.Shape()
	strides := in.Strides()
	axis := p.Axis
	axisSize := shape[axis]
	axisStride := strides[axis]

	inner := 1
	for i := axis + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	outer := in.NumElements()
	if axisSize > 0 {
		outer /= axisSize * inner
	}

	for o := 0; o < outer; o++ {
		for j := 0; j < inner; j++ {
			flat := o*axisSize*inner + j
			inBase := tensor.ElemToLoc(flat, shape, strides)
			outBase := flat // dense row-major output

			acc := identity
			if !p.Reverse {
				for k := 0; k < axisSize; k++ {
					v := src[inBase+k*axisStride]
					if p.Inclusive {
						acc = op(acc, v)
						dst[outBase+k*inner] = acc
					} else {
						dst[outBase+k*inner] = acc
						acc = op(acc, v)
					}
				}
			} else {
				for k := axisSize - 1; k >= 0; k-- {
					v := src[inBase+k*axisStride]
					if p.Inclusive {
						acc = op(acc, v)
						dst[outBase+k*inner] = acc
					} else {
						dst[outBase+k*inner] = acc
						acc = op(acc, v)
					}
				}
			}
		}
	}
}

func scanOps[T ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64](p *tensor.Primitive, lowest, highest T) (func(T, T) T, T, error) {
	switch p.Reduce {
	case tensor.ScanSum:
		return func(a, b T) T { return a + b }, 0, nil
	case tensor.ScanProd:
		return func(a, b T) T { return a * b }, 1, nil
	case tensor.ScanMax:
		return func(a, b T) T { return max(a, b) }, lowest, nil
	case tensor.ScanMin:
		return func(a, b T) T { return min(a, b) }, highest, nil
	default:
		return nil, 0, errors.Errorf("[scan] unknown reduction %d", p.Reduce)
	}
}

func runScan[T ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64](p *tensor.Primitive, in, out *tensor.Array, lowest, highest T) error {
	op, identity, err := scanOps(p, lowest, highest)
	if err != nil {
		return err
	}
	scanT(p, in, out, op, identity)
	return nil
}

// EvalScan is the generic executor for the Scan primitive.
func EvalScan(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if err := wantInputs(p, inputs, 1); err != nil {
		return err
	}
	in := inputs[0]
	if p.Axis < 0 || p.Axis >= len(in.Shape()) {
		return errors.Errorf("[scan] axis %d out of range for shape %v", p.Axis, in.Shape())
	}

	if err := out.Materialize(); err != nil {
		return err
	}

	switch in.DType() {
	case tensor.Int8:
		return runScan[int8](p, in, out, math.MinInt8, math.MaxInt8)
	case tensor.Int16:
		return runScan[int16](p, in, out, math.MinInt16, math.MaxInt16)
	case tensor.Int32:
		return runScan[int32](p, in, out, math.MinInt32, math.MaxInt32)
	case tensor.Int64:
		return runScan[int64](p, in, out, math.MinInt64, math.MaxInt64)
	case tensor.Uint8:
		return runScan[uint8](p, in, out, 0, math.MaxUint8)
	case tensor.Uint16:
		return runScan[uint16](p, in, out, 0, math.MaxUint16)
	case tensor.Uint32:
		return runScan[uint32](p, in, out, 0, math.MaxUint32)
	case tensor.Uint64:
		return runScan[uint64](p, in, out, 0, math.MaxUint64)
	case tensor.Float32:
		return runScan[float32](p, in, out, float32(math.Inf(-1)), float32(math.Inf(1)))
	case tensor.Float64:
		return runScan[float64](p, in, out, math.Inf(-1), math.Inf(1))
	default:
		return errors.Wrapf(ErrInvalidOperand, "[scan] unsupported dtype %s", in.DType())
	}
}
