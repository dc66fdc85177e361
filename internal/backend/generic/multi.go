package generic

import (
	"math"

	"github.com/pkg/errors"

	"github.com/loom-ml/loom/internal/tensor"
)

// EvalDivMod is the generic executor for the quotient/remainder pair.
// Both outputs materialize together or the call fails with neither visible.
func EvalDivMod(p *tensor.Primitive, inputs []*tensor.Array, outs []*tensor.Array) error {
	if err := wantInputs(p, inputs, 2); err != nil {
		return err
	}
	if len(outs) != 2 {
		return errors.Errorf("[divmod] expected 2 outputs, got %d", len(outs))
	}
	a, b := inputs[0], inputs[1]
	quo, rem := outs[0], outs[1]

	if err := quo.Materialize(); err != nil {
		return err
	}
	if err := rem.Materialize(); err != nil {
		quo.Release()
		return err
	}

	switch quo.DType() {
	case tensor.Int8:
		divmodInt[int8](a, b, quo, rem)
	case tensor.Int16:
		divmodInt[int16](a, b, quo, rem)
	case tensor.Int32:
		divmodInt[int32](a, b, quo, rem)
	case tensor.Int64:
		divmodInt[int64](a, b, quo, rem)
	case tensor.Uint8:
		divmodInt[uint8](a, b, quo, rem)
	case tensor.Uint16:
		divmodInt[uint16](a, b, quo, rem)
	case tensor.Uint32:
		divmodInt[uint32](a, b, quo, rem)
	case tensor.Uint64:
		divmodInt[uint64](a, b, quo, rem)
	case tensor.Float32:
		divmodFloat[float32](a, b, quo, rem)
	case tensor.Float64:
		divmodFloat[float64](a, b, quo, rem)
	default:
		quo.Release()
		rem.Release()
		return errors.Wrapf(ErrInvalidOperand, "[divmod] unsupported dtype %s", quo.DType())
	}
	return nil
}

func divmodInt[T ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64](a, b, quo, rem *tensor.Array) {
	binaryT(a, b, quo, func(x, y T) T { return x / y })
	binaryT(a, b, rem, func(x, y T) T { return x % y })
}

func divmodFloat[T ~float32 | ~float64](a, b, quo, rem *tensor.Array) {
	binaryT(a, b, quo, func(x, y T) T { return T(math.Trunc(float64(x) / float64(y))) })
	binaryT(a, b, rem, func(x, y T) T { return T(math.Mod(float64(x), float64(y))) })
}

// EvalSplit materializes n equal windows of the input along one axis as
// shared-buffer views; no bytes move.
func EvalSplit(p *tensor.Primitive, inputs []*tensor.Array, outs []*tensor.Array) error {
	if err := wantInputs(p, inputs, 1); err != nil {
		return err
	}
	in := inputs[0]
	axis := p.Axis
	if axis < 0 || axis >= len(in.Shape()) {
		return errors.Errorf("[split] axis %d out of range for shape %v", axis, in.Shape())
	}
	if in.Shape()[axis]%len(outs) != 0 {
		return errors.Errorf("[split] dimension %d not divisible into %d parts", in.Shape()[axis], len(outs))
	}

	part := in.Shape()[axis] / len(outs)
	for i, out := range outs {
		out.AsView(in, in.Strides(), i*part*in.Strides()[axis])
	}
	return nil
}
