package generic

import (
	"github.com/pkg/errors"
	"github.com/x448/float16"

	"github.com/loom-ml/loom/internal/tensor"
)

// number is any Go element type that supports direct numeric conversion.
type number interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// castT converts element-wise using Go's native conversion rule for the
// type pair, which truncates toward zero for float-to-int.
func castT[S, D number](in, out *tensor.Array, read func(S) S, write func(D) D) {
	src := tensor.Data[S](in)
	dst := tensor.Data[D](out)

	if in.Flags().Contiguous {
		n := in.DataSize()
		for i := 0; i < n; i++ {
			dst[i] = write(D(read(src[i])))
		}
		return
	}

	shape, strides := in.Shape(), in.Strides()
	n := in.NumElements()
	for i := 0; i < n; i++ {
		dst[i] = write(D(read(src[tensor.ElemToLoc(i, shape, strides)])))
	}
}

func identity[T number](v T) T { return v }

// castFrom fans a fixed source element type out to every destination dtype.
// Float16 endpoints go through float32 with the library conversion; Bool
// destinations apply truthiness.
func castFrom[S number](in, out *tensor.Array, read func(S) S) error {
	switch out.DType() {
	case tensor.Int8:
		castT(in, out, read, identity[int8])
	case tensor.Int16:
		castT(in, out, read, identity[int16])
	case tensor.Int32:
		castT(in, out, read, identity[int32])
	case tensor.Int64:
		castT(in, out, read, identity[int64])
	case tensor.Uint8:
		castT(in, out, read, identity[uint8])
	case tensor.Uint16:
		castT(in, out, read, identity[uint16])
	case tensor.Uint32:
		castT(in, out, read, identity[uint32])
	case tensor.Uint64:
		castT(in, out, read, identity[uint64])
	case tensor.Float32:
		castT(in, out, read, identity[float32])
	case tensor.Float64:
		castT(in, out, read, identity[float64])
	case tensor.Float16:
		// Destination span is uint16 bits: convert via float32.
		castVia32ToF16(in, out, read)
	case tensor.Bool:
		castToBool(in, out, read)
	default:
		return errors.Wrapf(ErrInvalidOperand, "[astype] cannot cast %s to %s", in.DType(), out.DType())
	}
	return nil
}

func castVia32ToF16[S number](in, out *tensor.Array, read func(S) S) {
	src := tensor.Data[S](in)
	dst := tensor.Data[uint16](out)
	conv := func(v S) uint16 { return float16.Fromfloat32(float32(read(v))).Bits() }

	if in.Flags().Contiguous {
		n := in.DataSize()
		for i := 0; i < n; i++ {
			dst[i] = conv(src[i])
		}
		return
	}
	shape, strides := in.Shape(), in.Strides()
	n := in.NumElements()
	for i := 0; i < n; i++ {
		dst[i] = conv(src[tensor.ElemToLoc(i, shape, strides)])
	}
}

func castToBool[S number](in, out *tensor.Array, read func(S) S) {
	src := tensor.Data[S](in)
	dst := tensor.Data[bool](out)

	if in.Flags().Contiguous {
		n := in.DataSize()
		for i := 0; i < n; i++ {
			dst[i] = read(src[i]) != 0
		}
		return
	}
	shape, strides := in.Shape(), in.Strides()
	n := in.NumElements()
	for i := 0; i < n; i++ {
		dst[i] = read(src[tensor.ElemToLoc(i, shape, strides)]) != 0
	}
}

// castFromBool reads the underlying storage byte (false == 0, true == 1)
// and reuses the numeric fan-out, normalizing any nonzero byte to 1.
func castFromBool(in, out *tensor.Array) error {
	return castFrom(in, out, func(v uint8) uint8 {
		if v != 0 {
			return 1
		}
		return 0
	})
}

// EvalAsType is the generic executor for type conversion; it respects each
// dtype's native conversion rule.
func EvalAsType(p *tensor.Primitive, inputs []*tensor.Array, out *tensor.Array) error {
	if err := wantInputs(p, inputs, 1); err != nil {
		return err
	}
	in := inputs[0]

	if in.DType() == out.DType() {
		AliasNoOp(in, out)
		return nil
	}
	if in.DType().IsComplex() || out.DType().IsComplex() {
		return errors.Wrapf(ErrInvalidOperand, "[astype] cannot cast %s to %s", in.DType(), out.DType())
	}

	if err := MaterializeUnary(in, out); err != nil {
		return err
	}

	switch in.DType() {
	case tensor.Bool:
		return castFromBool(in, out)
	case tensor.Int8:
		return castFrom(in, out, identity[int8])
	case tensor.Int16:
		return castFrom(in, out, identity[int16])
	case tensor.Int32:
		return castFrom(in, out, identity[int32])
	case tensor.Int64:
		return castFrom(in, out, identity[int64])
	case tensor.Uint8:
		return castFrom(in, out, identity[uint8])
	case tensor.Uint16:
		return castFrom(in, out, identity[uint16])
	case tensor.Uint32:
		return castFrom(in, out, identity[uint32])
	case tensor.Uint64:
		return castFrom(in, out, identity[uint64])
	case tensor.Float32:
		return castFrom(in, out, identity[float32])
	case tensor.Float64:
		return castFrom(in, out, identity[float64])
	case tensor.Float16:
		// Read float16 bits and widen to float32 for the fan-out.
		return castFromF16(in, out)
	default:
		return errors.Wrapf(ErrInvalidOperand, "[astype] unsupported source dtype %s", in.DType())
	}
}

func castFromF16(in, out *tensor.Array) error {
	// Stage through a float32 view of each element.
	widen := func(bits uint16) float32 { return float16.Frombits(bits).Float32() }

	src := tensor.Data[uint16](in)
	read := func(i int) float32 { return widen(src[i]) }

	writeAll := func(write func(int, float32)) {
		if in.Flags().Contiguous {
			n := in.DataSize()
			for i := 0; i < n; i++ {
				write(i, read(i))
			}
			return
		}
		shape, strides := in.Shape(), in.Strides()
		n := in.NumElements()
		for i := 0; i < n; i++ {
			write(i, read(tensor.ElemToLoc(i, shape, strides)))
		}
	}

	switch out.DType() {
	case tensor.Int8:
		dst := tensor.Data[int8](out)
		writeAll(func(i int, v float32) { dst[i] = int8(v) })
	case tensor.Int16:
		dst := tensor.Data[int16](out)
		writeAll(func(i int, v float32) { dst[i] = int16(v) })
	case tensor.Int32:
		dst := tensor.Data[int32](out)
		writeAll(func(i int, v float32) { dst[i] = int32(v) })
	case tensor.Int64:
		dst := tensor.Data[int64](out)
		writeAll(func(i int, v float32) { dst[i] = int64(v) })
	case tensor.Uint8:
		dst := tensor.Data[uint8](out)
		writeAll(func(i int, v float32) { dst[i] = uint8(v) })
	case tensor.Uint16:
		dst := tensor.Data[uint16](out)
		writeAll(func(i int, v float32) { dst[i] = uint16(v) })
	case tensor.Uint32:
		dst := tensor.Data[uint32](out)
		writeAll(func(i int, v float32) { dst[i] = uint32(v) })
	case tensor.Uint64:
		dst := tensor.Data[uint64](out)
		writeAll(func(i int, v float32) { dst[i] = uint64(v) })
	case tensor.Float32:
		dst := tensor.Data[float32](out)
		writeAll(func(i int, v float32) { dst[i] = v })
	case tensor.Float64:
		dst := tensor.Data[float64](out)
		writeAll(func(i int, v float32) { dst[i] = float64(v) })
	case tensor.Bool:
		dst := tensor.Data[bool](out)
		writeAll(func(i int, v float32) { dst[i] = v != 0 })
	default:
		return errors.Wrapf(ErrInvalidOperand, "[astype] cannot cast float16 to %s", out.DType())
	}
	return nil
}
